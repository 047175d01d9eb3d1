package repository

import (
	"context"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	CustomerID *uuid.UUID
	Status     string
	Page       int
	Limit      int
}

// ProjectRepository defines data access for Project aggregates.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]model.Project, int64, error)
	Update(ctx context.Context, project *model.Project) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return GetDB(ctx, r.db).Create(project).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := GetDB(ctx, r.db).Preload("Customer").First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]model.Project, int64, error) {
	var projects []model.Project
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.CustomerID != nil {
			q = q.Where("customer_id = ?", *filter.CustomerID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	if err := apply(db.Model(&model.Project{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := apply(db.Preload("Customer")).
		Order("created_at desc").
		Offset(offset).Limit(filter.Limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return GetDB(ctx, r.db).Save(project).Error
}
