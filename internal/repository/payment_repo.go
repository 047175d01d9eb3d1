package repository

import (
	"context"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	CustomerID *uuid.UUID
	ProjectID  *uuid.UUID
	Status     string
	Page       int
	Limit      int
}

// PaymentRepository defines data access for Payment aggregates and the
// receipt-number sequence.
type PaymentRepository interface {
	// CreateBatch inserts the three stage payments of a freshly approved
	// project. Callers run it inside the approval's unit of work.
	CreateBatch(ctx context.Context, payments []*model.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]model.Payment, int64, error)
	Update(ctx context.Context, payment *model.Payment) error
	// LockReceiptSequence serializes receipt numbering for one calendar year
	// for the duration of the ambient transaction.
	LockReceiptSequence(ctx context.Context, yearPrefix string) error
	// CountReceiptsWithPrefix counts receipts already issued under a prefix.
	CountReceiptsWithPrefix(ctx context.Context, yearPrefix string) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreateBatch(ctx context.Context, payments []*model.Payment) error {
	return GetDB(ctx, r.db).Create(payments).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := GetDB(ctx, r.db).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := GetDB(ctx, r.db).
		Where("project_id = ?", projectID).
		Order("created_at asc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) List(ctx context.Context, filter PaymentFilter) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.CustomerID != nil {
			q = q.Where("customer_id = ?", *filter.CustomerID)
		}
		if filter.ProjectID != nil {
			q = q.Where("project_id = ?", *filter.ProjectID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	if err := apply(db.Model(&model.Payment{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := apply(db).Order("created_at desc").Offset(offset).Limit(filter.Limit).Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Save(payment).Error
}

func (r *paymentRepository) LockReceiptSequence(ctx context.Context, yearPrefix string) error {
	return GetDB(ctx, r.db).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", yearPrefix).Error
}

func (r *paymentRepository) CountReceiptsWithPrefix(ctx context.Context, yearPrefix string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Payment{}).
		Where("receipt_number LIKE ?", yearPrefix+"%").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
