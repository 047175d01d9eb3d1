package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/repository"

	"github.com/google/uuid"
)

// auditEmitter writes one ActivityLog per state transition. Appends are
// best-effort: failures are logged locally and never surfaced to the caller,
// so a dropped audit record cannot fail an otherwise-successful transition.
type auditEmitter struct {
	repo repository.ActivityRepository
}

func newAuditEmitter(repo repository.ActivityRepository) auditEmitter {
	return auditEmitter{repo: repo}
}

func (e auditEmitter) emit(ctx context.Context, actor Actor, action, resourceType string, resourceID uuid.UUID, description string, before, after interface{}) {
	entry := &model.ActivityLog{
		ActorRole:    actor.Role,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID.String(),
		Description:  description,
		CreatedAt:    time.Now(),
	}
	if actor.ID != uuid.Nil {
		id := actor.ID
		entry.ActorID = &id
	}
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			entry.Before = string(b)
		}
	}
	if after != nil {
		if b, err := json.Marshal(after); err == nil {
			entry.After = string(b)
		}
	}

	if err := e.repo.Append(ctx, entry); err != nil {
		log.Printf("audit append failed for %s %s: %v", action, resourceID, err)
	}
}

// AuditLogResponse is the read shape for activity-log listings.
type AuditLogResponse struct {
	ID           string `json:"id"`
	ActorID      string `json:"actor_id"`
	ActorName    string `json:"actor_name"`
	ActorRole    string `json:"actor_role"`
	Action       string `json:"action"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	Description  string `json:"description"`
	Before       string `json:"before,omitempty"`
	After        string `json:"after,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type AuditService interface {
	GetActivityLogs(ctx context.Context, resourceType, resourceID string, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.ActivityRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.ActivityRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) GetActivityLogs(ctx context.Context, resourceType, resourceID string, page, limit int) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.repo.List(ctx, resourceType, resourceID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		actorName := "System"
		actorID := ""
		if l.Actor != nil {
			actorName = l.Actor.FullName
		}
		if l.ActorID != nil {
			actorID = l.ActorID.String()
		}

		res = append(res, AuditLogResponse{
			ID:           l.ID.String(),
			ActorID:      actorID,
			ActorName:    actorName,
			ActorRole:    l.ActorRole,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			Description:  l.Description,
			Before:       l.Before,
			After:        l.After,
			CreatedAt:    l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
