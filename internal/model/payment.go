package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stage enum constants — the three fixed payment milestones gating progress.
const (
	StageInitial  = "initial"
	StageMidpoint = "midpoint"
	StageFinal    = "final"
)

// PaymentStatus enum constants
const (
	PaymentPending   = "pending"
	PaymentSubmitted = "submitted"
	PaymentVerified  = "verified"
	PaymentRejected  = "rejected"
)

// StageOrder lists the stages in gating order.
var StageOrder = []string{StageInitial, StageMidpoint, StageFinal}

// ValidStage reports whether stage is one of the three milestones.
func ValidStage(stage string) bool {
	return stage == StageInitial || stage == StageMidpoint || stage == StageFinal
}

// StagePredecessor maps each stage to the project status it unlocks from.
// A verified payment only advances the project when the project sits exactly
// in the stage's expected predecessor status.
var StagePredecessor = map[string]string{
	StageInitial:  ProjectPendingInitialPayment,
	StageMidpoint: ProjectPendingMidpointPayment,
	StageFinal:    ProjectPendingFinalPayment,
}

// StageSuccessor maps each stage to the project status a verification
// advances into. Initial skips straight into fabrication.
var StageSuccessor = map[string]string{
	StageInitial:  ProjectInFabrication,
	StageMidpoint: ProjectReadyForInstallation,
	StageFinal:    ProjectCompleted,
}

// PaymentStageTerms holds one stage's percentage and, once the costing is
// approved, its derived amount.
type PaymentStageTerms struct {
	Percentage decimal.Decimal  `json:"percentage"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
}

// PaymentStages is the per-project stage schedule. Percentages always sum to
// 100; amounts stay nil until costing.ApprovedAmount is set.
type PaymentStages struct {
	Initial  PaymentStageTerms `json:"initial"`
	Midpoint PaymentStageTerms `json:"midpoint"`
	Final    PaymentStageTerms `json:"final"`
}

func (s PaymentStages) Value() (driver.Value, error) { return jsonValue(s) }
func (s *PaymentStages) Scan(src interface{}) error  { return jsonScan(s, src) }

// DefaultPaymentStages returns the standard 30/40/30 split.
func DefaultPaymentStages() PaymentStages {
	return PaymentStages{
		Initial:  PaymentStageTerms{Percentage: decimal.NewFromInt(30)},
		Midpoint: PaymentStageTerms{Percentage: decimal.NewFromInt(40)},
		Final:    PaymentStageTerms{Percentage: decimal.NewFromInt(30)},
	}
}

// PercentagesValid reports whether the three percentages sum to exactly 100.
func (s PaymentStages) PercentagesValid() bool {
	sum := s.Initial.Percentage.Add(s.Midpoint.Percentage).Add(s.Final.Percentage)
	return sum.Equal(decimal.NewFromInt(100))
}

// ApplyApprovedAmount derives the stage amounts from the approved total.
// Initial and midpoint round to 2 decimal places; the final stage absorbs the
// rounding remainder so the three amounts sum exactly to approved.
func (s *PaymentStages) ApplyApprovedAmount(approved decimal.Decimal) {
	hundred := decimal.NewFromInt(100)
	initial := approved.Mul(s.Initial.Percentage).Div(hundred).Round(2)
	midpoint := approved.Mul(s.Midpoint.Percentage).Div(hundred).Round(2)
	final := approved.Sub(initial).Sub(midpoint)

	s.Initial.Amount = &initial
	s.Midpoint.Amount = &midpoint
	s.Final.Amount = &final
}

// AmountFor returns the derived amount for a stage, or nil before approval.
func (s PaymentStages) AmountFor(stage string) *decimal.Decimal {
	switch stage {
	case StageInitial:
		return s.Initial.Amount
	case StageMidpoint:
		return s.Midpoint.Amount
	case StageFinal:
		return s.Final.Amount
	}
	return nil
}

// PaymentProof is the customer-submitted proof of payment.
type PaymentProof struct {
	FileRef     string     `json:"file_ref"` // opaque blob-store reference
	Method      string     `json:"method"`   // bank_transfer, gcash, cash, ...
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

func (p PaymentProof) Value() (driver.Value, error) { return jsonValue(p) }
func (p *PaymentProof) Scan(src interface{}) error  { return jsonScan(p, src) }

// PaymentVerification records the cashier sign-off.
type PaymentVerification struct {
	VerifiedBy      *uuid.UUID `json:"verified_by,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	ReferenceNumber string     `json:"reference_number,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

func (v PaymentVerification) Value() (driver.Value, error) { return jsonValue(v) }
func (v *PaymentVerification) Scan(src interface{}) error  { return jsonScan(v, src) }

// PaymentRejection records why a submission was turned down.
type PaymentRejection struct {
	RejectedBy *uuid.UUID `json:"rejected_by,omitempty"`
	RejectedAt *time.Time `json:"rejected_at,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

func (r PaymentRejection) Value() (driver.Value, error) { return jsonValue(r) }
func (r *PaymentRejection) Scan(src interface{}) error  { return jsonScan(r, src) }

// Payment represents one stage of a project's payment schedule. Exactly one
// Payment exists per (project, stage); all three are created together the
// instant the project is approved. Payments are never deleted, and the
// receipt is immutable once generated.
type Payment struct {
	ID                 uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID          uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_payments_project_stage" json:"project_id"`
	Project            *Project            `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	CustomerID         uuid.UUID           `gorm:"type:uuid;not null;index" json:"customer_id"` // denormalized from project at creation
	Stage              string              `gorm:"type:varchar(10);not null;uniqueIndex:idx_payments_project_stage" json:"stage"`
	AmountExpected     decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"amount_expected"`
	AmountReceived     *decimal.Decimal    `gorm:"type:decimal(18,2)" json:"amount_received,omitempty"`
	Status             string              `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Proof              PaymentProof        `gorm:"type:jsonb" json:"proof"`
	Verification       PaymentVerification `gorm:"type:jsonb" json:"verification"`
	Rejection          PaymentRejection    `gorm:"type:jsonb" json:"rejection"`
	ReceiptNumber      *string             `gorm:"type:varchar(30);uniqueIndex" json:"receipt_number,omitempty"`
	ReceiptGeneratedAt *time.Time          `json:"receipt_generated_at,omitempty"`
	StatusHistory      StatusHistory       `gorm:"type:jsonb" json:"status_history"`
	CreatedAt          time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// Transition moves the payment to status and appends the history entry.
func (p *Payment) Transition(status string, actorID uuid.UUID, actorRole, note string, at time.Time) {
	p.Status = status
	p.StatusHistory = p.StatusHistory.Append(status, actorID, actorRole, note, at)
}

// Receipt numbers look like RMV-RCT-202403-0007. The sequence counts receipts
// issued within the calendar year and resets each January; the month appears
// in the prefix only.
const receiptPrefix = "RMV-RCT-"

// ReceiptYearPrefix returns the prefix shared by every receipt of t's year.
func ReceiptYearPrefix(t time.Time) string {
	return receiptPrefix + t.Format("2006")
}

// FormatReceiptNumber renders the receipt number for the seq-th receipt of
// t's year, issued in t's month.
func FormatReceiptNumber(t time.Time, seq int64) string {
	return fmt.Sprintf("%s%s-%04d", receiptPrefix, t.Format("200601"), seq)
}
