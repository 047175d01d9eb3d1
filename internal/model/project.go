package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectStatus enum constants
const (
	ProjectDraft                   = "draft"
	ProjectPendingBlueprint        = "pending_blueprint"
	ProjectPendingCustomerApproval = "pending_customer_approval"
	ProjectApproved                = "approved"
	ProjectRevisionRequested       = "revision_requested"
	ProjectPendingInitialPayment   = "pending_initial_payment"
	ProjectInFabrication           = "in_fabrication"
	ProjectPendingMidpointPayment  = "pending_midpoint_payment"
	ProjectReadyForInstallation    = "ready_for_installation"
	ProjectInInstallation          = "in_installation"
	ProjectPendingFinalPayment     = "pending_final_payment"
	ProjectCompleted               = "completed"
	ProjectCancelled               = "cancelled"
	ProjectOnHold                  = "on_hold"
)

// projectFlow is the directed customer-facing transition graph. The only
// back-edge is the revision loop (revision_requested -> pending_blueprint).
var projectFlow = map[string][]string{
	ProjectDraft:                   {ProjectPendingBlueprint},
	ProjectPendingBlueprint:        {ProjectPendingCustomerApproval},
	ProjectPendingCustomerApproval: {ProjectApproved, ProjectRevisionRequested},
	ProjectRevisionRequested:       {ProjectPendingBlueprint},
	ProjectApproved:                {ProjectPendingInitialPayment},
	ProjectPendingInitialPayment:   {ProjectInFabrication},
	ProjectInFabrication:           {ProjectPendingMidpointPayment},
	ProjectPendingMidpointPayment:  {ProjectReadyForInstallation},
	ProjectReadyForInstallation:    {ProjectInInstallation},
	ProjectInInstallation:          {ProjectPendingFinalPayment},
	ProjectPendingFinalPayment:     {ProjectCompleted},
}

// ProjectTerminal reports whether status is a dead end of the strict graph.
func ProjectTerminal(status string) bool {
	return status == ProjectCompleted || status == ProjectCancelled
}

// ValidProjectStatus reports whether status is one of the enumerated values.
func ValidProjectStatus(status string) bool {
	switch status {
	case ProjectDraft, ProjectPendingBlueprint, ProjectPendingCustomerApproval,
		ProjectApproved, ProjectRevisionRequested, ProjectPendingInitialPayment,
		ProjectInFabrication, ProjectPendingMidpointPayment, ProjectReadyForInstallation,
		ProjectInInstallation, ProjectPendingFinalPayment, ProjectCompleted,
		ProjectCancelled, ProjectOnHold:
		return true
	}
	return false
}

// ProjectCanTransition reports whether from -> to is legal on the strict
// graph. cancelled and on_hold are side exits from any non-terminal status;
// there is no re-entry edge here (staff re-enter via the open status update).
func ProjectCanTransition(from, to string) bool {
	if ProjectTerminal(from) {
		return false
	}
	if to == ProjectCancelled || to == ProjectOnHold {
		return true
	}
	for _, next := range projectFlow[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RevisionType enum constants
const (
	RevisionMinor = "minor"
	RevisionMajor = "major"
)

// DocumentVersion is one uploaded blueprint revision.
type DocumentVersion struct {
	Version    int       `json:"version"`
	FileRef    string    `json:"file_ref"` // opaque blob-store reference
	FileName   string    `json:"file_name,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Blueprint keeps every uploaded version; history is never overwritten.
type Blueprint struct {
	CurrentVersion int               `json:"current_version"`
	Versions       []DocumentVersion `json:"versions"`
}

func (b Blueprint) Value() (driver.Value, error) { return jsonValue(b) }
func (b *Blueprint) Scan(src interface{}) error  { return jsonScan(b, src) }

// CostingVersion is one uploaded cost estimate.
type CostingVersion struct {
	Version     int             `json:"version"`
	FileRef     string          `json:"file_ref,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       string          `json:"notes,omitempty"`
	UploadedBy  uuid.UUID       `json:"uploaded_by"`
	UploadedAt  time.Time       `json:"uploaded_at"`
}

// Costing keeps every cost-estimate version. ApprovedAmount is the snapshot
// of the latest version's total taken at customer approval.
type Costing struct {
	CurrentVersion int              `json:"current_version"`
	Versions       []CostingVersion `json:"versions"`
	ApprovedAmount *decimal.Decimal `json:"approved_amount,omitempty"`
}

func (c Costing) Value() (driver.Value, error) { return jsonValue(c) }
func (c *Costing) Scan(src interface{}) error  { return jsonScan(c, src) }

// CustomerApproval snapshots which versions the customer signed off on.
type CustomerApproval struct {
	IsApproved       bool       `json:"is_approved"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	BlueprintVersion int        `json:"blueprint_version,omitempty"`
	CostingVersion   int        `json:"costing_version,omitempty"`
}

func (c CustomerApproval) Value() (driver.Value, error) { return jsonValue(c) }
func (c *CustomerApproval) Scan(src interface{}) error  { return jsonScan(c, src) }

// Revision is one customer revision request.
type Revision struct {
	RequestedBy uuid.UUID `json:"requested_by"`
	Type        string    `json:"type"` // minor, major
	Description string    `json:"description"`
	RequestedAt time.Time `json:"requested_at"`
}

type Revisions []Revision

func (r Revisions) Value() (driver.Value, error) { return jsonValue(r) }
func (r *Revisions) Scan(src interface{}) error  { return jsonScan(r, src) }

// FabricationNote is a timestamped free-text progress note.
type FabricationNote struct {
	Note    string    `json:"note"`
	AddedBy uuid.UUID `json:"added_by"`
	AddedAt time.Time `json:"added_at"`
}

// Fabrication tracks shop-floor progress for the project.
type Fabrication struct {
	Progress    int               `json:"progress"` // 0-100
	Photos      []string          `json:"photos,omitempty"`
	Notes       []FabricationNote `json:"notes,omitempty"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

func (f Fabrication) Value() (driver.Value, error) { return jsonValue(f) }
func (f *Fabrication) Scan(src interface{}) error  { return jsonScan(f, src) }

// Installation tracks on-site installation for the project.
type Installation struct {
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

func (i Installation) Value() (driver.Value, error) { return jsonValue(i) }
func (i *Installation) Scan(src interface{}) error  { return jsonScan(i, src) }

// Timeline holds the projected and actual completion dates.
type Timeline struct {
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
	ActualCompletion    *time.Time `json:"actual_completion,omitempty"`
}

func (t Timeline) Value() (driver.Value, error) { return jsonValue(t) }
func (t *Timeline) Scan(src interface{}) error  { return jsonScan(t, src) }

// UUIDList stores a set of user ids (fabrication team) as jsonb.
type UUIDList []uuid.UUID

func (l UUIDList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *UUIDList) Scan(src interface{}) error  { return jsonScan(l, src) }

// Project represents a fabrication project from consultation to installation.
// The customer is the immutable owner. Projects are soft-deleted only.
type Project struct {
	ID                  uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer            *User            `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	SourceAppointmentID *uuid.UUID       `gorm:"type:uuid;index" json:"source_appointment_id,omitempty"`
	Title               string           `gorm:"type:varchar(255);not null" json:"title"`
	Category            string           `gorm:"type:varchar(100)" json:"category"`
	Description         string           `gorm:"type:text" json:"description,omitempty"`
	SalesStaffID        *uuid.UUID       `gorm:"type:uuid;index" json:"sales_staff_id,omitempty"`
	EngineerID          *uuid.UUID       `gorm:"type:uuid;index" json:"engineer_id,omitempty"`
	FabricationStaffIDs UUIDList         `gorm:"type:jsonb" json:"fabrication_staff_ids,omitempty"`
	Status              string           `gorm:"type:varchar(30);not null;default:'draft';index" json:"status"`
	Blueprint           Blueprint        `gorm:"type:jsonb" json:"blueprint"`
	Costing             Costing          `gorm:"type:jsonb" json:"costing"`
	CustomerApproval    CustomerApproval `gorm:"type:jsonb" json:"customer_approval"`
	Revisions           Revisions        `gorm:"type:jsonb" json:"revisions,omitempty"`
	PaymentStages       PaymentStages    `gorm:"type:jsonb" json:"payment_stages"`
	Fabrication         Fabrication      `gorm:"type:jsonb" json:"fabrication"`
	Installation        Installation     `gorm:"type:jsonb" json:"installation"`
	Timeline            Timeline         `gorm:"type:jsonb" json:"timeline"`
	StatusHistory       StatusHistory    `gorm:"type:jsonb" json:"status_history"`
	CreatedAt           time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt   `gorm:"index" json:"-"`
}

// Transition moves the project to status and appends the history entry.
func (p *Project) Transition(status string, actorID uuid.UUID, actorRole, note string, at time.Time) {
	p.Status = status
	p.StatusHistory = p.StatusHistory.Append(status, actorID, actorRole, note, at)
}
