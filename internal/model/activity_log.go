package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit action constants — one per workflow state transition.
const (
	ActionBookAppointment        = "BOOK_APPOINTMENT"
	ActionAssignSalesStaff       = "ASSIGN_SALES_STAFF"
	ActionUpdateAppointment      = "UPDATE_APPOINTMENT_STATUS"
	ActionCancelAppointment      = "CANCEL_APPOINTMENT"
	ActionCompleteAppointment    = "COMPLETE_APPOINTMENT"
	ActionMarkNoShow             = "MARK_NO_SHOW"
	ActionSetTravelFee           = "SET_TRAVEL_FEE"
	ActionCollectTravelFee       = "COLLECT_TRAVEL_FEE"
	ActionVerifyTravelFee        = "VERIFY_TRAVEL_FEE"
	ActionCreateProject          = "CREATE_PROJECT"
	ActionSubmitToEngineer       = "SUBMIT_TO_ENGINEER"
	ActionBlueprintUploaded      = "BLUEPRINT_UPLOADED"
	ActionBlueprintRevised       = "BLUEPRINT_REVISED"
	ActionCostingUploaded        = "COSTING_UPLOADED"
	ActionCostingRevised         = "COSTING_REVISED"
	ActionSubmitForApproval      = "SUBMIT_FOR_APPROVAL"
	ActionApproveProject         = "APPROVE_PROJECT"
	ActionRequestRevision        = "REQUEST_REVISION"
	ActionUpdateProjectStatus    = "UPDATE_PROJECT_STATUS"
	ActionAssignFabricationStaff = "ASSIGN_FABRICATION_STAFF"
	ActionUpdateFabrication      = "UPDATE_FABRICATION_PROGRESS"
	ActionSubmitPaymentProof     = "SUBMIT_PAYMENT_PROOF"
	ActionVerifyPayment          = "VERIFY_PAYMENT"
	ActionRejectPayment          = "REJECT_PAYMENT"
	ActionRegisterUser           = "REGISTER_USER"
	ActionCreateStaff            = "CREATE_STAFF"
	ActionDeactivateUser         = "DEACTIVATE_USER"
)

// Resource type constants for ActivityLog.ResourceType
const (
	ResourceAppointment = "appointment"
	ResourceProject     = "project"
	ResourcePayment     = "payment"
	ResourceUser        = "user"
)

// ActivityLog is the immutable audit record emitted on every state
// transition. The core only appends; retention is an external concern.
type ActivityLog struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID      *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"` // nullable for system-driven entries
	Actor        *User      `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	ActorRole    string     `gorm:"type:varchar(30)" json:"actor_role"`
	Action       string     `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType string     `gorm:"type:varchar(30);not null;index" json:"resource_type"`
	ResourceID   string     `gorm:"type:varchar(50);index" json:"resource_id"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	Before       string     `gorm:"type:jsonb" json:"before,omitempty"` // snapshot prior to the transition
	After        string     `gorm:"type:jsonb" json:"after,omitempty"`  // snapshot after the transition
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}
