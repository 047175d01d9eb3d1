package repository

import (
	"context"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"

	"gorm.io/gorm"
)

// ActivityRepository is the append-only audit sink. Append is best-effort
// from the caller's point of view: services log and swallow its errors.
type ActivityRepository interface {
	Append(ctx context.Context, entry *model.ActivityLog) error
	List(ctx context.Context, resourceType, resourceID string, page, limit int) ([]model.ActivityLog, int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, entry *model.ActivityLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *activityRepository) List(ctx context.Context, resourceType, resourceID string, page, limit int) ([]model.ActivityLog, int64, error) {
	var logs []model.ActivityLog
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.ActivityLog{})
	if resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}
	if resourceID != "" {
		query = query.Where("resource_id = ?", resourceID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := db.Preload("Actor").Order("created_at desc")
	if resourceType != "" {
		fetch = fetch.Where("resource_type = ?", resourceType)
	}
	if resourceID != "" {
		fetch = fetch.Where("resource_id = ?", resourceID)
	}
	if err := fetch.Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
