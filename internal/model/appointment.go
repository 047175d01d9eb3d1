package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AppointmentType enum constants
const (
	AppointmentTypeOffice = "office_consultation"
	AppointmentTypeOcular = "ocular_visit"
)

// AppointmentStatus enum constants
const (
	AppointmentPending    = "pending"
	AppointmentScheduled  = "scheduled"
	AppointmentConfirmed  = "confirmed"
	AppointmentInProgress = "in_progress"
	AppointmentCompleted  = "completed"
	AppointmentCancelled  = "cancelled"
	AppointmentNoShow     = "no_show"
)

// appointmentFlow is the forward path of the appointment state machine.
// cancelled and no_show are reachable from any non-terminal status and are
// handled in AppointmentCanTransition rather than listed per node.
var appointmentFlow = map[string][]string{
	AppointmentPending:    {AppointmentScheduled},
	AppointmentScheduled:  {AppointmentConfirmed},
	AppointmentConfirmed:  {AppointmentInProgress},
	AppointmentInProgress: {AppointmentCompleted},
}

// AppointmentTerminal reports whether status permits no further transitions.
func AppointmentTerminal(status string) bool {
	return status == AppointmentCompleted || status == AppointmentCancelled || status == AppointmentNoShow
}

// ValidAppointmentStatus reports whether status is one of the enumerated values.
func ValidAppointmentStatus(status string) bool {
	switch status {
	case AppointmentPending, AppointmentScheduled, AppointmentConfirmed,
		AppointmentInProgress, AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return true
	}
	return false
}

// AppointmentCanTransition reports whether from -> to is a legal edge.
func AppointmentCanTransition(from, to string) bool {
	if AppointmentTerminal(from) {
		return false
	}
	if to == AppointmentCancelled || to == AppointmentNoShow {
		return true
	}
	for _, next := range appointmentFlow[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TravelFeeStatus enum constants (ocular visits only)
const (
	TravelFeePending     = "pending"
	TravelFeeNotRequired = "not_required"
	TravelFeeCollected   = "collected"
	TravelFeeVerified    = "verified"
)

// TravelFee is the independent three-state sub-machine nested inside an
// ocular-visit appointment. It is not coupled to the appointment's own status.
type TravelFee struct {
	Required    bool            `json:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	SetBy       *uuid.UUID      `json:"set_by,omitempty"`
	CollectedBy *uuid.UUID      `json:"collected_by,omitempty"`
	CollectedAt *time.Time      `json:"collected_at,omitempty"`
	VerifiedBy  *uuid.UUID      `json:"verified_by,omitempty"`
	VerifiedAt  *time.Time      `json:"verified_at,omitempty"`
}

func (t TravelFee) Value() (driver.Value, error) { return jsonValue(t) }
func (t *TravelFee) Scan(src interface{}) error  { return jsonScan(t, src) }

// Appointment represents a booked consultation. The customer is the immutable
// owner; assigned sales staff is nullable until scheduled. Appointments are
// never hard-deleted.
type Appointment struct {
	ID                   uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID           uuid.UUID     `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer             *User         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	AssignedSalesStaffID *uuid.UUID    `gorm:"type:uuid;index" json:"assigned_sales_staff_id"`
	AssignedSalesStaff   *User         `gorm:"foreignKey:AssignedSalesStaffID" json:"assigned_sales_staff,omitempty"`
	Type                 string        `gorm:"type:varchar(30);not null" json:"type"` // office_consultation, ocular_visit
	ScheduledDate        time.Time     `gorm:"not null;index" json:"scheduled_date"`
	ScheduledEndDate     time.Time     `gorm:"not null" json:"scheduled_end_date"` // scheduled_date + slot duration
	SiteAddress          string        `gorm:"type:text" json:"site_address,omitempty"`
	Notes                string        `gorm:"type:text" json:"notes,omitempty"`
	Status               string        `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TravelFee            TravelFee     `gorm:"type:jsonb" json:"travel_fee"`
	StatusHistory        StatusHistory `gorm:"type:jsonb" json:"status_history"`
	ConvertedProjectID   *uuid.UUID    `gorm:"type:uuid" json:"converted_project_id,omitempty"`
	CreatedAt            time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

// Transition moves the appointment to status and appends the history entry.
func (a *Appointment) Transition(status string, actorID uuid.UUID, actorRole, note string, at time.Time) {
	a.Status = status
	a.StatusHistory = a.StatusHistory.Append(status, actorID, actorRole, note, at)
}
