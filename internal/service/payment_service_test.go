package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/notifier"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/repository"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type paymentFixture struct {
	svc      *paymentService
	projects *fakeProjectRepo
	payments *fakePaymentRepo
	users    *fakeUserRepo
	notify   *fakeNotifier

	customer *model.User
	cashier  *model.User
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	users := &fakeUserRepo{}
	projects := &fakeProjectRepo{}
	payments := &fakePaymentRepo{}
	activity := &fakeActivityRepo{}
	notify := &fakeNotifier{}

	svc := NewPaymentService(payments, projects, users, fakeTxManager{}, activity, notify).(*paymentService)

	f := &paymentFixture{svc: svc, projects: projects, payments: payments, users: users, notify: notify}
	f.customer = &model.User{ID: uuid.New(), FullName: "Customer", Email: "c@example.com", Phone: "+15550100", Role: model.RoleCustomer, IsActive: true}
	f.cashier = &model.User{ID: uuid.New(), FullName: "Cashier", Email: "k@example.com", Role: model.RoleCashier, IsActive: true}
	users.users = append(users.users, f.customer, f.cashier)
	return f
}

// seedProject stores an approved project sitting in projectStatus with one
// payment per stage; the stage payment named by submittedStage starts
// submitted, the rest pending.
func (f *paymentFixture) seedProject(t *testing.T, projectStatus, submittedStage string) (*model.Project, map[string]uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	approved := decimal.NewFromInt(100000)
	stages := model.DefaultPaymentStages()
	stages.ApplyApprovedAmount(approved)

	project := &model.Project{
		ID:            uuid.New(),
		CustomerID:    f.customer.ID,
		Title:         "Food cart shell",
		Status:        projectStatus,
		PaymentStages: stages,
		Costing:       model.Costing{CurrentVersion: 1, ApprovedAmount: &approved},
	}
	if err := f.projects.Create(ctx, project); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	ids := make(map[string]uuid.UUID, 3)
	var batch []*model.Payment
	for _, stage := range model.StageOrder {
		status := model.PaymentPending
		payment := &model.Payment{
			ID:             uuid.New(),
			ProjectID:      project.ID,
			CustomerID:     f.customer.ID,
			Stage:          stage,
			AmountExpected: *stages.AmountFor(stage),
			Status:         status,
		}
		if stage == submittedStage {
			payment.Status = model.PaymentSubmitted
			now := time.Now()
			payment.Proof = model.PaymentProof{FileRef: "blob://proof", Method: "bank_transfer", SubmittedAt: &now}
		}
		ids[stage] = payment.ID
		batch = append(batch, payment)
	}
	if err := f.payments.CreateBatch(ctx, batch); err != nil {
		t.Fatalf("seed payments: %v", err)
	}
	return project, ids
}

func (f *paymentFixture) cashierActor() Actor  { return Actor{ID: f.cashier.ID, Role: model.RoleCashier} }
func (f *paymentFixture) customerActor() Actor { return Actor{ID: f.customer.ID, Role: model.RoleCustomer} }

func TestSubmitProofMovesPaymentToSubmitted(t *testing.T) {
	f := newPaymentFixture(t)
	_, ids := f.seedProject(t, model.ProjectPendingInitialPayment, "")

	payment, err := f.svc.SubmitPaymentProof(context.Background(), f.customerActor(), ids[model.StageInitial], SubmitProofRequest{
		FileRef: "blob://proof-1",
		Method:  "gcash",
	})
	if err != nil {
		t.Fatalf("submit proof: %v", err)
	}
	if payment.Status != model.PaymentSubmitted {
		t.Fatalf("expected submitted, got %s", payment.Status)
	}
	if payment.Proof.SubmittedAt == nil || payment.Proof.Method != "gcash" {
		t.Fatalf("proof not recorded: %+v", payment.Proof)
	}
}

func TestSubmitProofAllowedAfterRejection(t *testing.T) {
	f := newPaymentFixture(t)
	_, ids := f.seedProject(t, model.ProjectPendingInitialPayment, model.StageInitial)
	ctx := context.Background()

	if _, err := f.svc.RejectPayment(ctx, f.cashierActor(), ids[model.StageInitial], "blurry screenshot"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	payment, err := f.svc.SubmitPaymentProof(ctx, f.customerActor(), ids[model.StageInitial], SubmitProofRequest{
		FileRef: "blob://proof-2",
		Method:  "bank_transfer",
	})
	if err != nil {
		t.Fatalf("resubmission after rejection should be allowed: %v", err)
	}
	if payment.Status != model.PaymentSubmitted || payment.Proof.FileRef != "blob://proof-2" {
		t.Fatalf("resubmission should replace the proof, got %+v", payment.Proof)
	}
}

func TestSubmitProofOnVerifiedPaymentFails(t *testing.T) {
	f := newPaymentFixture(t)
	_, ids := f.seedProject(t, model.ProjectPendingInitialPayment, model.StageInitial)
	ctx := context.Background()

	if _, err := f.svc.VerifyPayment(ctx, f.cashierActor(), ids[model.StageInitial], VerifyPaymentRequest{
		AmountReceived: decimal.NewFromInt(30000),
	}); err != nil {
		t.Fatalf("verify: %v", err)
	}

	_, err := f.svc.SubmitPaymentProof(ctx, f.customerActor(), ids[model.StageInitial], SubmitProofRequest{
		FileRef: "blob://proof-3", Method: "cash",
	})
	if apperror.KindOf(err) != apperror.KindInvalidState {
		t.Fatalf("expected invalid_state on verified payment, got %v", err)
	}
}

func TestVerifyInitialPaymentAdvancesProjectToFabrication(t *testing.T) {
	f := newPaymentFixture(t)
	project, ids := f.seedProject(t, model.ProjectPendingInitialPayment, model.StageInitial)
	ctx := context.Background()

	payment, err := f.svc.VerifyPayment(ctx, f.cashierActor(), ids[model.StageInitial], VerifyPaymentRequest{
		AmountReceived:  decimal.NewFromInt(30000),
		ReferenceNumber: "BT-44821",
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if payment.Status != model.PaymentVerified {
		t.Fatalf("expected verified, got %s", payment.Status)
	}
	if payment.ReceiptNumber == nil {
		t.Fatalf("receipt number should be generated on verification")
	}
	if !strings.HasPrefix(*payment.ReceiptNumber, "RMV-RCT-") {
		t.Fatalf("unexpected receipt format: %s", *payment.ReceiptNumber)
	}

	stored, _ := f.projects.GetByID(ctx, project.ID)
	if stored.Status != model.ProjectInFabrication {
		t.Fatalf("initial verification should advance the project to in_fabrication, got %s", stored.Status)
	}
	if stored.Fabrication.StartedAt == nil {
		t.Fatalf("entering fabrication should stamp the start time")
	}

	events := f.notify.eventNames()
	if len(events) != 2 || events[0] != notifier.EventPaymentVerified || events[1] != notifier.EventProjectStatusChanged {
		t.Fatalf("expected payment_verified then project_status_changed, got %v", events)
	}
}

func TestVerifyPaymentTwiceFails(t *testing.T) {
	f := newPaymentFixture(t)
	_, ids := f.seedProject(t, model.ProjectPendingInitialPayment, model.StageInitial)
	ctx := context.Background()

	if _, err := f.svc.VerifyPayment(ctx, f.cashierActor(), ids[model.StageInitial], VerifyPaymentRequest{
		AmountReceived: decimal.NewFromInt(30000),
	}); err != nil {
		t.Fatalf("first verify: %v", err)
	}

	_, err := f.svc.VerifyPayment(ctx, f.cashierActor(), ids[model.StageInitial], VerifyPaymentRequest{
		AmountReceived: decimal.NewFromInt(30000),
	})
	if apperror.KindOf(err) != apperror.KindInvalidState {
		t.Fatalf("expected invalid_state on double verification, got %v", err)
	}
}

func TestVerifyPaymentSkipsCascadeWhenProjectNotAtGate(t *testing.T) {
	f := newPaymentFixture(t)
	// Project already pushed ahead by staff; the final payment arrives early.
	project, ids := f.seedProject(t, model.ProjectInInstallation, model.StageFinal)
	ctx := context.Background()

	payment, err := f.svc.VerifyPayment(ctx, f.cashierActor(), ids[model.StageFinal], VerifyPaymentRequest{
		AmountReceived: decimal.NewFromInt(30000),
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if payment.Status != model.PaymentVerified {
		t.Fatalf("payment should verify regardless of project position, got %s", payment.Status)
	}

	stored, _ := f.projects.GetByID(ctx, project.ID)
	if stored.Status != model.ProjectInInstallation {
		t.Fatalf("cascade must not fire outside the gate status, project moved to %s", stored.Status)
	}
}

func TestVerifyFinalPaymentCompletesProject(t *testing.T) {
	f := newPaymentFixture(t)
	project, ids := f.seedProject(t, model.ProjectPendingFinalPayment, model.StageFinal)
	ctx := context.Background()

	if _, err := f.svc.VerifyPayment(ctx, f.cashierActor(), ids[model.StageFinal], VerifyPaymentRequest{
		AmountReceived: decimal.NewFromInt(30000),
	}); err != nil {
		t.Fatalf("verify: %v", err)
	}

	stored, _ := f.projects.GetByID(ctx, project.ID)
	if stored.Status != model.ProjectCompleted {
		t.Fatalf("final verification from the gate should complete the project, got %s", stored.Status)
	}
	if stored.Timeline.ActualCompletion == nil {
		t.Fatalf("completion should stamp the actual completion date")
	}
}

func TestVerifyPaymentReceiptSequenceIncrements(t *testing.T) {
	f := newPaymentFixture(t)
	_, ids := f.seedProject(t, model.ProjectPendingInitialPayment, model.StageInitial)
	ctx := context.Background()

	first, err := f.svc.VerifyPayment(ctx, f.cashierActor(), ids[model.StageInitial], VerifyPaymentRequest{
		AmountReceived: decimal.NewFromInt(30000),
	})
	if err != nil {
		t.Fatalf("verify initial: %v", err)
	}

	// Submit and verify the midpoint as well.
	if _, err := f.svc.SubmitPaymentProof(ctx, f.customerActor(), ids[model.StageMidpoint], SubmitProofRequest{
		FileRef: "blob://proof-m", Method: "bank_transfer",
	}); err != nil {
		t.Fatalf("submit midpoint proof: %v", err)
	}
	second, err := f.svc.VerifyPayment(ctx, f.cashierActor(), ids[model.StageMidpoint], VerifyPaymentRequest{
		AmountReceived: decimal.NewFromInt(40000),
	})
	if err != nil {
		t.Fatalf("verify midpoint: %v", err)
	}

	f1, f2 := *first.ReceiptNumber, *second.ReceiptNumber
	if !strings.HasSuffix(f1, "-0001") || !strings.HasSuffix(f2, "-0002") {
		t.Fatalf("receipt sequence should increment within the year: %s then %s", f1, f2)
	}
}

func TestRejectPendingPaymentFails(t *testing.T) {
	f := newPaymentFixture(t)
	_, ids := f.seedProject(t, model.ProjectPendingInitialPayment, "")

	_, err := f.svc.RejectPayment(context.Background(), f.cashierActor(), ids[model.StageInitial], "no proof attached")
	if apperror.KindOf(err) != apperror.KindInvalidState {
		t.Fatalf("expected invalid_state rejecting a pending payment, got %v", err)
	}
}

func TestRejectPaymentRecordsReason(t *testing.T) {
	f := newPaymentFixture(t)
	_, ids := f.seedProject(t, model.ProjectPendingInitialPayment, model.StageInitial)

	payment, err := f.svc.RejectPayment(context.Background(), f.cashierActor(), ids[model.StageInitial], "amount mismatch")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if payment.Status != model.PaymentRejected {
		t.Fatalf("expected rejected, got %s", payment.Status)
	}
	if payment.Rejection.Reason != "amount mismatch" || payment.Rejection.RejectedBy == nil {
		t.Fatalf("rejection details not recorded: %+v", payment.Rejection)
	}
}

func TestVerifyPaymentRequiresCashier(t *testing.T) {
	f := newPaymentFixture(t)
	_, ids := f.seedProject(t, model.ProjectPendingInitialPayment, model.StageInitial)

	_, err := f.svc.VerifyPayment(context.Background(), f.customerActor(), ids[model.StageInitial], VerifyPaymentRequest{
		AmountReceived: decimal.NewFromInt(30000),
	})
	if apperror.KindOf(err) != apperror.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCustomerOnlySeesOwnPayments(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedProject(t, model.ProjectPendingInitialPayment, "")

	stranger := &model.User{ID: uuid.New(), Role: model.RoleCustomer, IsActive: true, Email: "s@example.com"}
	f.users.users = append(f.users.users, stranger)

	payments, _, err := f.svc.ListPayments(context.Background(), Actor{ID: stranger.ID, Role: model.RoleCustomer}, repository.PaymentFilter{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(payments) != 0 {
		t.Fatalf("stranger should see no payments, got %d", len(payments))
	}
}
