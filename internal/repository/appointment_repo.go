package repository

import (
	"context"
	"time"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentFilter narrows appointment listings.
type AppointmentFilter struct {
	CustomerID *uuid.UUID
	StaffID    *uuid.UUID
	Status     string
	Page       int
	Limit      int
}

// AppointmentRepository defines data access for Appointment aggregates.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *model.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, filter AppointmentFilter) ([]model.Appointment, int64, error)
	// ListNonTerminalByStaff returns the staff member's appointments that are
	// not cancelled, completed or no_show, ordered by scheduled_date.
	ListNonTerminalByStaff(ctx context.Context, staffID uuid.UUID) ([]model.Appointment, error)
	// ListNonTerminalByStaffOnDate restricts the above to one calendar day.
	ListNonTerminalByStaffOnDate(ctx context.Context, staffID uuid.UUID, dayStart, dayEnd time.Time) ([]model.Appointment, error)
	// HasNonTerminalAt reports whether the staff member already holds a
	// non-terminal appointment at exactly ts. Exact-timestamp equality is the
	// scheduling engine's (deliberately narrow) definition of conflict.
	HasNonTerminalAt(ctx context.Context, staffID uuid.UUID, ts time.Time) (bool, error)
	// LockStaffSlot serializes concurrent bookings of the identical
	// (staff, timestamp) slot for the duration of the ambient transaction.
	LockStaffSlot(ctx context.Context, staffID uuid.UUID, ts time.Time) error
	// ListScheduledBetween returns scheduled/confirmed appointments starting
	// inside [from, to). Used by the reminder sweep.
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]model.Appointment, error)
	Update(ctx context.Context, appt *model.Appointment) error
}

var nonTerminalAppointmentStatuses = []string{
	model.AppointmentPending,
	model.AppointmentScheduled,
	model.AppointmentConfirmed,
	model.AppointmentInProgress,
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	return GetDB(ctx, r.db).Create(appt).Error
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appt model.Appointment
	if err := GetDB(ctx, r.db).Preload("Customer").Preload("AssignedSalesStaff").First(&appt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) List(ctx context.Context, filter AppointmentFilter) ([]model.Appointment, int64, error) {
	var appts []model.Appointment
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.CustomerID != nil {
			q = q.Where("customer_id = ?", *filter.CustomerID)
		}
		if filter.StaffID != nil {
			q = q.Where("assigned_sales_staff_id = ?", *filter.StaffID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	if err := apply(db.Model(&model.Appointment{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := apply(db.Preload("Customer").Preload("AssignedSalesStaff")).
		Order("scheduled_date desc").
		Offset(offset).Limit(filter.Limit).
		Find(&appts).Error
	if err != nil {
		return nil, 0, err
	}

	return appts, total, nil
}

func (r *appointmentRepository) ListNonTerminalByStaff(ctx context.Context, staffID uuid.UUID) ([]model.Appointment, error) {
	var appts []model.Appointment
	err := GetDB(ctx, r.db).
		Where("assigned_sales_staff_id = ? AND status IN ?", staffID, nonTerminalAppointmentStatuses).
		Order("scheduled_date asc").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) ListNonTerminalByStaffOnDate(ctx context.Context, staffID uuid.UUID, dayStart, dayEnd time.Time) ([]model.Appointment, error) {
	var appts []model.Appointment
	err := GetDB(ctx, r.db).
		Where("assigned_sales_staff_id = ? AND status IN ? AND scheduled_date >= ? AND scheduled_date < ?",
			staffID, nonTerminalAppointmentStatuses, dayStart, dayEnd).
		Order("scheduled_date asc").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) HasNonTerminalAt(ctx context.Context, staffID uuid.UUID, ts time.Time) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Appointment{}).
		Where("assigned_sales_staff_id = ? AND scheduled_date = ? AND status IN ?",
			staffID, ts, nonTerminalAppointmentStatuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *appointmentRepository) LockStaffSlot(ctx context.Context, staffID uuid.UUID, ts time.Time) error {
	key := staffID.String() + "@" + ts.UTC().Format(time.RFC3339)
	return GetDB(ctx, r.db).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

func (r *appointmentRepository) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]model.Appointment, error) {
	var appts []model.Appointment
	err := GetDB(ctx, r.db).
		Preload("Customer").
		Where("status IN ? AND scheduled_date >= ? AND scheduled_date < ?",
			[]string{model.AppointmentScheduled, model.AppointmentConfirmed}, from, to).
		Order("scheduled_date asc").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appt *model.Appointment) error {
	return GetDB(ctx, r.db).Save(appt).Error
}
