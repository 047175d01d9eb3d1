package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// StatusEntry is one step in an aggregate's authoritative timeline.
type StatusEntry struct {
	Status    string    `json:"status"`
	ActorID   uuid.UUID `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Note      string    `json:"note,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// StatusHistory is the append-only, insertion-ordered transition log stored
// on every workflow aggregate. It is never rewritten, only appended to.
type StatusHistory []StatusEntry

func (h StatusHistory) Value() (driver.Value, error) { return jsonValue(h) }
func (h *StatusHistory) Scan(src interface{}) error  { return jsonScan(h, src) }

// Append records a transition. Returns the extended history so callers can
// assign in one statement.
func (h StatusHistory) Append(status string, actorID uuid.UUID, actorRole, note string, at time.Time) StatusHistory {
	return append(h, StatusEntry{
		Status:    status,
		ActorID:   actorID,
		ActorRole: actorRole,
		Note:      note,
		ChangedAt: at,
	})
}
