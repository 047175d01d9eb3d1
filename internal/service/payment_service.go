package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/notifier"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/repository"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type SubmitProofRequest struct {
	FileRef string `json:"file_ref" binding:"required"`
	Method  string `json:"method" binding:"required"` // bank_transfer, gcash, cash, ...
}

type VerifyPaymentRequest struct {
	AmountReceived  decimal.Decimal `json:"amount_received" binding:"required"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
}

// --- Interface ---

type PaymentService interface {
	SubmitPaymentProof(ctx context.Context, actor Actor, paymentID uuid.UUID, req SubmitProofRequest) (*model.Payment, error)
	VerifyPayment(ctx context.Context, actor Actor, paymentID uuid.UUID, req VerifyPaymentRequest) (*model.Payment, error)
	RejectPayment(ctx context.Context, actor Actor, paymentID uuid.UUID, reason string) (*model.Payment, error)
	GetPayment(ctx context.Context, actor Actor, id uuid.UUID) (*model.Payment, error)
	ListPayments(ctx context.Context, actor Actor, filter repository.PaymentFilter) ([]model.Payment, int64, error)
	ListProjectPayments(ctx context.Context, actor Actor, projectID uuid.UUID) ([]model.Payment, error)
}

type paymentService struct {
	payments  repository.PaymentRepository
	projects  repository.ProjectRepository
	users     repository.UserRepository
	txManager repository.TransactionManager
	audit     auditEmitter
	notify    notifier.Notifier
	now       func() time.Time
}

func NewPaymentService(
	payments repository.PaymentRepository,
	projects repository.ProjectRepository,
	users repository.UserRepository,
	txManager repository.TransactionManager,
	activity repository.ActivityRepository,
	n notifier.Notifier,
) PaymentService {
	return &paymentService{
		payments:  payments,
		projects:  projects,
		users:     users,
		txManager: txManager,
		audit:     newAuditEmitter(activity),
		notify:    n,
		now:       time.Now,
	}
}

// --- Implementation ---

func (s *paymentService) SubmitPaymentProof(ctx context.Context, actor Actor, paymentID uuid.UUID, req SubmitProofRequest) (*model.Payment, error) {
	var payment *model.Payment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		payment, err = s.payments.GetByID(txCtx, paymentID)
		if err != nil {
			return notFoundOr(err, "payment %s not found", paymentID)
		}
		if payment.CustomerID != actor.ID {
			return apperror.Forbidden("payment belongs to another customer")
		}
		// Resubmission after rejection overwrites the previous proof; a
		// verified payment is settled and closed.
		if payment.Status == model.PaymentVerified {
			return apperror.InvalidState("payment is already verified")
		}

		now := s.now()
		payment.Proof = model.PaymentProof{
			FileRef:     req.FileRef,
			Method:      req.Method,
			SubmittedAt: &now,
		}
		payment.Transition(model.PaymentSubmitted, actor.ID, actor.Role, "proof submitted", now)
		if err := s.payments.Update(txCtx, payment); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionSubmitPaymentProof, model.ResourcePayment, payment.ID,
			fmt.Sprintf("%s stage proof submitted via %s", payment.Stage, req.Method),
			nil, map[string]interface{}{"status": payment.Status})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyStaffFeed(notifier.EventPaymentProofSubmitted, map[string]interface{}{
		"payment_id": payment.ID.String(),
		"project_id": payment.ProjectID.String(),
		"stage":      payment.Stage,
	})

	return payment, nil
}

// VerifyPayment settles a submitted payment: it generates the receipt number
// under the year's sequence lock and, when the project is sitting in the
// stage's gate status, advances the project in the same unit of work.
func (s *paymentService) VerifyPayment(ctx context.Context, actor Actor, paymentID uuid.UUID, req VerifyPaymentRequest) (*model.Payment, error) {
	if !actor.Is(model.RoleCashier, model.RoleAdmin) {
		return nil, apperror.Forbidden("only cashiers can verify payments")
	}
	if req.AmountReceived.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.Validation("amount received must be positive")
	}

	var payment *model.Payment
	var project *model.Project
	var advanced bool
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		payment, err = s.payments.GetByID(txCtx, paymentID)
		if err != nil {
			return notFoundOr(err, "payment %s not found", paymentID)
		}
		if payment.Status != model.PaymentSubmitted {
			return apperror.InvalidState("payment is %s, only submitted payments can be verified", payment.Status)
		}

		now := s.now()
		yearPrefix := model.ReceiptYearPrefix(now)
		if err := s.payments.LockReceiptSequence(txCtx, yearPrefix); err != nil {
			return err
		}
		issued, err := s.payments.CountReceiptsWithPrefix(txCtx, yearPrefix)
		if err != nil {
			return err
		}
		receipt := model.FormatReceiptNumber(now, issued+1)

		verifierID := actor.ID
		payment.AmountReceived = &req.AmountReceived
		payment.Verification = model.PaymentVerification{
			VerifiedBy:      &verifierID,
			VerifiedAt:      &now,
			ReferenceNumber: req.ReferenceNumber,
			Notes:           req.Notes,
		}
		payment.ReceiptNumber = &receipt
		payment.ReceiptGeneratedAt = &now
		payment.Transition(model.PaymentVerified, actor.ID, actor.Role, "payment verified", now)
		if err := s.payments.Update(txCtx, payment); err != nil {
			return err
		}

		// The cascade only fires when the project sits exactly in this
		// stage's gate status; out-of-band verification leaves it alone.
		project, err = s.projects.GetByID(txCtx, payment.ProjectID)
		if err != nil {
			return notFoundOr(err, "project %s not found", payment.ProjectID)
		}
		if project.Status == model.StagePredecessor[payment.Stage] {
			next := model.StageSuccessor[payment.Stage]
			applyProjectStatusEffects(project, next, now)
			project.Transition(next, actor.ID, actor.Role,
				fmt.Sprintf("%s payment verified", payment.Stage), now)
			if err := s.projects.Update(txCtx, project); err != nil {
				return err
			}
			advanced = true
		}

		s.audit.emit(txCtx, actor, model.ActionVerifyPayment, model.ResourcePayment, payment.ID,
			fmt.Sprintf("%s stage verified, receipt %s", payment.Stage, receipt),
			map[string]interface{}{"status": model.PaymentSubmitted},
			map[string]interface{}{"status": payment.Status, "receipt_number": receipt})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, payment.CustomerID, notifier.EventPaymentVerified, map[string]interface{}{
		"receipt_number": *payment.ReceiptNumber,
		"stage":          payment.Stage,
	})
	if advanced {
		s.notifyCustomer(ctx, payment.CustomerID, notifier.EventProjectStatusChanged, map[string]interface{}{
			"title":      project.Title,
			"status":     project.Status,
			"project_id": project.ID.String(),
		})
	}

	return payment, nil
}

func (s *paymentService) RejectPayment(ctx context.Context, actor Actor, paymentID uuid.UUID, reason string) (*model.Payment, error) {
	if !actor.Is(model.RoleCashier, model.RoleAdmin) {
		return nil, apperror.Forbidden("only cashiers can reject payments")
	}
	if reason == "" {
		return nil, apperror.Validation("a rejection reason is required")
	}

	var payment *model.Payment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		payment, err = s.payments.GetByID(txCtx, paymentID)
		if err != nil {
			return notFoundOr(err, "payment %s not found", paymentID)
		}
		if payment.Status != model.PaymentSubmitted {
			return apperror.InvalidState("payment is %s, only submitted payments can be rejected", payment.Status)
		}

		now := s.now()
		rejecterID := actor.ID
		payment.Rejection = model.PaymentRejection{
			RejectedBy: &rejecterID,
			RejectedAt: &now,
			Reason:     reason,
		}
		payment.Transition(model.PaymentRejected, actor.ID, actor.Role, reason, now)
		if err := s.payments.Update(txCtx, payment); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionRejectPayment, model.ResourcePayment, payment.ID,
			fmt.Sprintf("%s stage rejected: %s", payment.Stage, reason),
			map[string]interface{}{"status": model.PaymentSubmitted},
			map[string]interface{}{"status": payment.Status})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, payment.CustomerID, notifier.EventPaymentRejected, map[string]interface{}{
		"reason": reason,
		"stage":  payment.Stage,
	})

	return payment, nil
}

// --- Reads ---

func (s *paymentService) GetPayment(ctx context.Context, actor Actor, id uuid.UUID) (*model.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "payment %s not found", id)
	}
	if actor.Is(model.RoleCustomer) && payment.CustomerID != actor.ID {
		return nil, apperror.Forbidden("payment belongs to another customer")
	}
	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, actor Actor, filter repository.PaymentFilter) ([]model.Payment, int64, error) {
	if actor.Is(model.RoleCustomer) {
		id := actor.ID
		filter.CustomerID = &id
	}
	return s.payments.List(ctx, filter)
}

func (s *paymentService) ListProjectPayments(ctx context.Context, actor Actor, projectID uuid.UUID) ([]model.Payment, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, notFoundOr(err, "project %s not found", projectID)
	}
	if actor.Is(model.RoleCustomer) && project.CustomerID != actor.ID {
		return nil, apperror.Forbidden("project belongs to another customer")
	}
	return s.payments.ListByProject(ctx, projectID)
}

// --- Helpers ---

func (s *paymentService) notifyCustomer(ctx context.Context, customerID uuid.UUID, event string, data map[string]interface{}) {
	customer, err := s.users.GetByID(ctx, customerID)
	if err != nil {
		return
	}
	s.notify.Notify(event, customer.Phone, data)
}

// notifyStaffFeed emits an event with no SMS recipient; only feed-style
// backends will surface it.
func (s *paymentService) notifyStaffFeed(event string, data map[string]interface{}) {
	s.notify.Notify(event, "", data)
}
