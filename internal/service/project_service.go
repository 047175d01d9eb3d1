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

type CreateProjectRequest struct {
	CustomerID          uuid.UUID        `json:"customer_id" binding:"required"`
	Title               string           `json:"title" binding:"required"`
	Category            string           `json:"category"`
	Description         string           `json:"description"`
	SourceAppointmentID *uuid.UUID       `json:"source_appointment_id"`
	// StagePercentages overrides the standard 30/40/30 split; the three
	// values must sum to exactly 100.
	StagePercentages    []decimal.Decimal `json:"stage_percentages"`
}

type UploadDocumentRequest struct {
	FileRef  string `json:"file_ref" binding:"required"` // opaque blob-store reference
	FileName string `json:"file_name"`
	Notes    string `json:"notes"`
}

type UploadCostingRequest struct {
	FileRef     string          `json:"file_ref"`
	TotalAmount decimal.Decimal `json:"total_amount" binding:"required"`
	Notes       string          `json:"notes"`
}

// projectNotifyStatuses is the fixed subset of target statuses that triggers
// a customer notification on the open staff status update.
var projectNotifyStatuses = map[string]bool{
	model.ProjectApproved:             true,
	model.ProjectInFabrication:        true,
	model.ProjectReadyForInstallation: true,
	model.ProjectInInstallation:       true,
	model.ProjectCompleted:            true,
}

// --- Interface ---

type ProjectService interface {
	CreateProject(ctx context.Context, actor Actor, req CreateProjectRequest) (*model.Project, error)
	SubmitToEngineer(ctx context.Context, actor Actor, projectID, engineerID uuid.UUID) (*model.Project, error)
	UploadBlueprint(ctx context.Context, actor Actor, projectID uuid.UUID, req UploadDocumentRequest) (*model.Project, error)
	UploadCosting(ctx context.Context, actor Actor, projectID uuid.UUID, req UploadCostingRequest) (*model.Project, error)
	SubmitForApproval(ctx context.Context, actor Actor, projectID uuid.UUID) (*model.Project, error)
	ApproveProject(ctx context.Context, actor Actor, projectID uuid.UUID) (*model.Project, error)
	RequestRevision(ctx context.Context, actor Actor, projectID uuid.UUID, revisionType, description string) (*model.Project, error)
	UpdateProjectStatus(ctx context.Context, actor Actor, projectID uuid.UUID, status, notes string) (*model.Project, error)
	AssignFabricationStaff(ctx context.Context, actor Actor, projectID uuid.UUID, staffIDs []uuid.UUID) (*model.Project, error)
	UpdateFabricationProgress(ctx context.Context, actor Actor, projectID uuid.UUID, progress int, note string) (*model.Project, error)
	GetProject(ctx context.Context, actor Actor, id uuid.UUID) (*model.Project, error)
	ListProjects(ctx context.Context, actor Actor, filter repository.ProjectFilter) ([]model.Project, int64, error)
}

type projectService struct {
	projects     repository.ProjectRepository
	payments     repository.PaymentRepository
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	txManager    repository.TransactionManager
	audit        auditEmitter
	notify       notifier.Notifier
	now          func() time.Time
}

func NewProjectService(
	projects repository.ProjectRepository,
	payments repository.PaymentRepository,
	appointments repository.AppointmentRepository,
	users repository.UserRepository,
	txManager repository.TransactionManager,
	activity repository.ActivityRepository,
	n notifier.Notifier,
) ProjectService {
	return &projectService{
		projects:     projects,
		payments:     payments,
		appointments: appointments,
		users:        users,
		txManager:    txManager,
		audit:        newAuditEmitter(activity),
		notify:       n,
		now:          time.Now,
	}
}

// --- Implementation ---

func (s *projectService) CreateProject(ctx context.Context, actor Actor, req CreateProjectRequest) (*model.Project, error) {
	if !actor.Is(model.RoleSalesStaff, model.RoleAdmin) {
		return nil, apperror.Forbidden("only sales staff can create projects")
	}

	stages := model.DefaultPaymentStages()
	if len(req.StagePercentages) > 0 {
		if len(req.StagePercentages) != 3 {
			return nil, apperror.Validation("stage_percentages must hold exactly three values")
		}
		stages = model.PaymentStages{
			Initial:  model.PaymentStageTerms{Percentage: req.StagePercentages[0]},
			Midpoint: model.PaymentStageTerms{Percentage: req.StagePercentages[1]},
			Final:    model.PaymentStageTerms{Percentage: req.StagePercentages[2]},
		}
		if !stages.PercentagesValid() {
			return nil, apperror.Validation("stage percentages must sum to exactly 100")
		}
	}

	var project *model.Project
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		customer, err := s.users.GetByID(txCtx, req.CustomerID)
		if err != nil {
			return notFoundOr(err, "customer %s not found", req.CustomerID)
		}
		if customer.Role != model.RoleCustomer {
			return apperror.Validation("user %s is not a customer", req.CustomerID)
		}

		now := s.now()
		salesStaffID := actor.ID
		project = &model.Project{
			CustomerID:          req.CustomerID,
			SourceAppointmentID: req.SourceAppointmentID,
			Title:               req.Title,
			Category:            req.Category,
			Description:         req.Description,
			SalesStaffID:        &salesStaffID,
			Status:              model.ProjectDraft,
			PaymentStages:       stages,
			StatusHistory: model.StatusHistory{}.
				Append(model.ProjectDraft, actor.ID, actor.Role, "project created", now),
		}
		if err := s.projects.Create(txCtx, project); err != nil {
			return err
		}

		// Back-reference the consultation this project converted from.
		if req.SourceAppointmentID != nil {
			appt, err := s.appointments.GetByID(txCtx, *req.SourceAppointmentID)
			if err != nil {
				return notFoundOr(err, "appointment %s not found", *req.SourceAppointmentID)
			}
			if appt.CustomerID != req.CustomerID {
				return apperror.Validation("appointment %s belongs to a different customer", appt.ID)
			}
			projectID := project.ID
			appt.ConvertedProjectID = &projectID
			if err := s.appointments.Update(txCtx, appt); err != nil {
				return err
			}
		}

		s.audit.emit(txCtx, actor, model.ActionCreateProject, model.ResourceProject, project.ID,
			fmt.Sprintf("project %q created for customer %s", req.Title, req.CustomerID),
			nil, map[string]interface{}{"status": project.Status})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) SubmitToEngineer(ctx context.Context, actor Actor, projectID, engineerID uuid.UUID) (*model.Project, error) {
	if !actor.Is(model.RoleSalesStaff, model.RoleAdmin) {
		return nil, apperror.Forbidden("only sales staff can submit a project to engineering")
	}

	var project *model.Project
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		project, err = s.projects.GetByID(txCtx, projectID)
		if err != nil {
			return notFoundOr(err, "project %s not found", projectID)
		}
		if project.Status != model.ProjectDraft {
			return apperror.InvalidState("project is %s, only draft projects can be submitted to engineering", project.Status)
		}

		engineer, err := s.users.GetByID(txCtx, engineerID)
		if err != nil {
			return notFoundOr(err, "engineer %s not found", engineerID)
		}
		if engineer.Role != model.RoleEngineer || !engineer.IsActive {
			return apperror.NotFound("user %s is not an active engineer", engineerID)
		}

		project.EngineerID = &engineerID
		project.Transition(model.ProjectPendingBlueprint, actor.ID, actor.Role, "submitted to engineer", s.now())
		if err := s.projects.Update(txCtx, project); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionSubmitToEngineer, model.ResourceProject, project.ID,
			fmt.Sprintf("assigned engineer %s", engineerID),
			map[string]interface{}{"status": model.ProjectDraft},
			map[string]interface{}{"status": project.Status, "engineer_id": engineerID.String()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) UploadBlueprint(ctx context.Context, actor Actor, projectID uuid.UUID, req UploadDocumentRequest) (*model.Project, error) {
	var project *model.Project
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		project, err = s.projects.GetByID(txCtx, projectID)
		if err != nil {
			return notFoundOr(err, "project %s not found", projectID)
		}
		if err := requireAssignedEngineer(actor, project); err != nil {
			return err
		}

		now := s.now()
		version := project.Blueprint.CurrentVersion + 1
		project.Blueprint.CurrentVersion = version
		project.Blueprint.Versions = append(project.Blueprint.Versions, model.DocumentVersion{
			Version:    version,
			FileRef:    req.FileRef,
			FileName:   req.FileName,
			Notes:      req.Notes,
			UploadedBy: actor.ID,
			UploadedAt: now,
		})

		// Re-submission after a revision request re-enters the engineering node.
		if project.Status == model.ProjectRevisionRequested {
			project.Transition(model.ProjectPendingBlueprint, actor.ID, actor.Role, "revision re-submitted", now)
		}

		if err := s.projects.Update(txCtx, project); err != nil {
			return err
		}

		action := model.ActionBlueprintUploaded
		if version > 1 {
			action = model.ActionBlueprintRevised
		}
		s.audit.emit(txCtx, actor, action, model.ResourceProject, project.ID,
			fmt.Sprintf("blueprint version %d", version),
			nil, map[string]interface{}{"blueprint_version": version})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) UploadCosting(ctx context.Context, actor Actor, projectID uuid.UUID, req UploadCostingRequest) (*model.Project, error) {
	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.Validation("costing total amount must be positive")
	}

	var project *model.Project
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		project, err = s.projects.GetByID(txCtx, projectID)
		if err != nil {
			return notFoundOr(err, "project %s not found", projectID)
		}
		if err := requireAssignedEngineer(actor, project); err != nil {
			return err
		}

		now := s.now()
		version := project.Costing.CurrentVersion + 1
		project.Costing.CurrentVersion = version
		project.Costing.Versions = append(project.Costing.Versions, model.CostingVersion{
			Version:     version,
			FileRef:     req.FileRef,
			TotalAmount: req.TotalAmount,
			Notes:       req.Notes,
			UploadedBy:  actor.ID,
			UploadedAt:  now,
		})

		if project.Status == model.ProjectRevisionRequested {
			project.Transition(model.ProjectPendingBlueprint, actor.ID, actor.Role, "revision re-submitted", now)
		}

		if err := s.projects.Update(txCtx, project); err != nil {
			return err
		}

		action := model.ActionCostingUploaded
		if version > 1 {
			action = model.ActionCostingRevised
		}
		s.audit.emit(txCtx, actor, action, model.ResourceProject, project.ID,
			fmt.Sprintf("costing version %d, total %s", version, req.TotalAmount.StringFixed(2)),
			nil, map[string]interface{}{"costing_version": version})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) SubmitForApproval(ctx context.Context, actor Actor, projectID uuid.UUID) (*model.Project, error) {
	var project *model.Project
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		project, err = s.projects.GetByID(txCtx, projectID)
		if err != nil {
			return notFoundOr(err, "project %s not found", projectID)
		}
		if err := requireAssignedEngineer(actor, project); err != nil {
			return err
		}
		if project.Blueprint.CurrentVersion == 0 || project.Costing.CurrentVersion == 0 {
			return apperror.Precondition("both a blueprint and a costing must be uploaded before submitting for approval")
		}
		if !model.ProjectCanTransition(project.Status, model.ProjectPendingCustomerApproval) {
			return apperror.InvalidState("project is %s, cannot submit for customer approval", project.Status)
		}

		before := project.Status
		project.Transition(model.ProjectPendingCustomerApproval, actor.ID, actor.Role, "submitted for customer approval", s.now())
		if err := s.projects.Update(txCtx, project); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionSubmitForApproval, model.ResourceProject, project.ID,
			"submitted for customer approval",
			map[string]interface{}{"status": before},
			map[string]interface{}{"status": project.Status})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, project.CustomerID, notifier.EventProjectApprovalRequested, map[string]interface{}{
		"title":      project.Title,
		"project_id": project.ID.String(),
	})

	return project, nil
}

// ApproveProject is the two-aggregate cascade: snapshotting the approved
// amount, deriving the stage schedule, creating the three Payment records and
// advancing the project twice all commit in one unit of work.
func (s *projectService) ApproveProject(ctx context.Context, actor Actor, projectID uuid.UUID) (*model.Project, error) {
	var project *model.Project
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		project, err = s.projects.GetByID(txCtx, projectID)
		if err != nil {
			return notFoundOr(err, "project %s not found", projectID)
		}
		if project.CustomerID != actor.ID {
			return apperror.Forbidden("only the project's customer can approve it")
		}
		if project.Status != model.ProjectPendingCustomerApproval {
			return apperror.InvalidState("project is %s, only pending_customer_approval projects can be approved", project.Status)
		}

		// The open staff status override can park a project in
		// pending_customer_approval without any costing on file.
		if len(project.Costing.Versions) == 0 {
			return apperror.Precondition("no costing has been uploaded")
		}

		now := s.now()
		latest := project.Costing.Versions[len(project.Costing.Versions)-1]
		approved := latest.TotalAmount
		project.Costing.ApprovedAmount = &approved
		project.PaymentStages.ApplyApprovedAmount(approved)
		project.CustomerApproval = model.CustomerApproval{
			IsApproved:       true,
			ApprovedAt:       &now,
			BlueprintVersion: project.Blueprint.CurrentVersion,
			CostingVersion:   project.Costing.CurrentVersion,
		}

		payments := make([]*model.Payment, 0, len(model.StageOrder))
		for _, stage := range model.StageOrder {
			amount := project.PaymentStages.AmountFor(stage)
			payment := &model.Payment{
				ProjectID:      project.ID,
				CustomerID:     project.CustomerID,
				Stage:          stage,
				AmountExpected: *amount,
				Status:         model.PaymentPending,
				StatusHistory: model.StatusHistory{}.
					Append(model.PaymentPending, actor.ID, actor.Role, "created on project approval", now),
			}
			payments = append(payments, payment)
		}
		if err := s.payments.CreateBatch(txCtx, payments); err != nil {
			return err
		}

		// Two transitions in sequence, both recorded: approved, then
		// immediately pending_initial_payment.
		project.Transition(model.ProjectApproved, actor.ID, actor.Role, "customer approved", now)
		project.Transition(model.ProjectPendingInitialPayment, actor.ID, actor.Role, "awaiting initial payment", now)
		if err := s.projects.Update(txCtx, project); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionApproveProject, model.ResourceProject, project.ID,
			fmt.Sprintf("approved at %s, %d stage payments created", approved.StringFixed(2), len(payments)),
			map[string]interface{}{"status": model.ProjectPendingCustomerApproval},
			map[string]interface{}{"status": project.Status, "approved_amount": approved.StringFixed(2)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, project.CustomerID, notifier.EventProjectApproved, map[string]interface{}{
		"title":      project.Title,
		"project_id": project.ID.String(),
	})

	return project, nil
}

func (s *projectService) RequestRevision(ctx context.Context, actor Actor, projectID uuid.UUID, revisionType, description string) (*model.Project, error) {
	if revisionType != model.RevisionMinor && revisionType != model.RevisionMajor {
		return nil, apperror.Validation("revision type must be minor or major")
	}

	var project *model.Project
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		project, err = s.projects.GetByID(txCtx, projectID)
		if err != nil {
			return notFoundOr(err, "project %s not found", projectID)
		}
		if project.CustomerID != actor.ID {
			return apperror.Forbidden("only the project's customer can request a revision")
		}
		if project.Status != model.ProjectPendingCustomerApproval {
			return apperror.InvalidState("project is %s, revisions can only be requested while pending customer approval", project.Status)
		}

		now := s.now()
		project.Revisions = append(project.Revisions, model.Revision{
			RequestedBy: actor.ID,
			Type:        revisionType,
			Description: description,
			RequestedAt: now,
		})
		project.Transition(model.ProjectRevisionRequested, actor.ID, actor.Role, description, now)
		if err := s.projects.Update(txCtx, project); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionRequestRevision, model.ResourceProject, project.ID,
			fmt.Sprintf("%s revision requested: %s", revisionType, description),
			map[string]interface{}{"status": model.ProjectPendingCustomerApproval},
			map[string]interface{}{"status": project.Status})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProjectStatus is the open staff override: it accepts any enumerated
// status without walking the customer-facing graph, but still applies the
// status-specific side effects.
func (s *projectService) UpdateProjectStatus(ctx context.Context, actor Actor, projectID uuid.UUID, status, notes string) (*model.Project, error) {
	if !actor.IsStaff() {
		return nil, apperror.Forbidden("only staff can update project status directly")
	}
	if !model.ValidProjectStatus(status) {
		return nil, apperror.Validation("unknown project status %q", status)
	}

	var project *model.Project
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		project, err = s.projects.GetByID(txCtx, projectID)
		if err != nil {
			return notFoundOr(err, "project %s not found", projectID)
		}

		now := s.now()
		before := project.Status
		applyProjectStatusEffects(project, status, now)
		project.Transition(status, actor.ID, actor.Role, notes, now)
		if err := s.projects.Update(txCtx, project); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionUpdateProjectStatus, model.ResourceProject, project.ID,
			fmt.Sprintf("status %s -> %s", before, status),
			map[string]interface{}{"status": before},
			map[string]interface{}{"status": status})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if projectNotifyStatuses[status] {
		s.notifyCustomer(ctx, project.CustomerID, notifier.EventProjectStatusChanged, map[string]interface{}{
			"title":      project.Title,
			"status":     status,
			"project_id": project.ID.String(),
		})
	}

	return project, nil
}

func (s *projectService) AssignFabricationStaff(ctx context.Context, actor Actor, projectID uuid.UUID, staffIDs []uuid.UUID) (*model.Project, error) {
	if !actor.Is(model.RoleAdmin) {
		return nil, apperror.Forbidden("only admins can assign fabrication staff")
	}
	if len(staffIDs) == 0 {
		return nil, apperror.Validation("at least one fabrication staff id is required")
	}

	var project *model.Project
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		project, err = s.projects.GetByID(txCtx, projectID)
		if err != nil {
			return notFoundOr(err, "project %s not found", projectID)
		}

		for _, id := range staffIDs {
			staff, err := s.users.GetByID(txCtx, id)
			if err != nil {
				return notFoundOr(err, "fabrication staff %s not found", id)
			}
			if staff.Role != model.RoleFabricationStaff || !staff.IsActive {
				return apperror.NotFound("user %s is not an active fabrication staff member", id)
			}
		}

		// Assignment replaces the whole team, it is not additive.
		project.FabricationStaffIDs = model.UUIDList(staffIDs)
		if err := s.projects.Update(txCtx, project); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionAssignFabricationStaff, model.ResourceProject, project.ID,
			fmt.Sprintf("fabrication team replaced (%d members)", len(staffIDs)),
			nil, map[string]interface{}{"staff_count": len(staffIDs)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) UpdateFabricationProgress(ctx context.Context, actor Actor, projectID uuid.UUID, progress int, note string) (*model.Project, error) {
	if !actor.Is(model.RoleFabricationStaff, model.RoleAdmin) {
		return nil, apperror.Forbidden("only fabrication staff can update progress")
	}
	if progress < 0 || progress > 100 {
		return nil, apperror.Validation("progress must be between 0 and 100")
	}

	var project *model.Project
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		project, err = s.projects.GetByID(txCtx, projectID)
		if err != nil {
			return notFoundOr(err, "project %s not found", projectID)
		}

		now := s.now()
		project.Fabrication.Progress = progress
		if note != "" {
			project.Fabrication.Notes = append(project.Fabrication.Notes, model.FabricationNote{
				Note:    note,
				AddedBy: actor.ID,
				AddedAt: now,
			})
		}
		if err := s.projects.Update(txCtx, project); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionUpdateFabrication, model.ResourceProject, project.ID,
			fmt.Sprintf("fabrication progress %d%%", progress),
			nil, map[string]interface{}{"progress": progress})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// --- Reads ---

func (s *projectService) GetProject(ctx context.Context, actor Actor, id uuid.UUID) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "project %s not found", id)
	}
	if actor.Is(model.RoleCustomer) && project.CustomerID != actor.ID {
		return nil, apperror.Forbidden("project belongs to another customer")
	}
	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context, actor Actor, filter repository.ProjectFilter) ([]model.Project, int64, error) {
	if actor.Is(model.RoleCustomer) {
		id := actor.ID
		filter.CustomerID = &id
	}
	return s.projects.List(ctx, filter)
}

// --- Helpers ---

// applyProjectStatusEffects stamps the timestamps and progress tied to
// entering a status. Shared by the staff status override and the payment
// verification cascade so both paths behave identically.
func applyProjectStatusEffects(project *model.Project, status string, now time.Time) {
	switch status {
	case model.ProjectInFabrication:
		// Idempotent: only stamp when not already in fabrication.
		if project.Status != model.ProjectInFabrication && project.Fabrication.StartedAt == nil {
			project.Fabrication.StartedAt = &now
		}
	case model.ProjectReadyForInstallation:
		project.Fabrication.CompletedAt = &now
		project.Fabrication.Progress = 100
	case model.ProjectInInstallation:
		if project.Installation.StartedAt == nil {
			project.Installation.StartedAt = &now
		}
	case model.ProjectCompleted:
		project.Installation.CompletedAt = &now
		project.Timeline.ActualCompletion = &now
	}
}

func (s *projectService) notifyCustomer(ctx context.Context, customerID uuid.UUID, event string, data map[string]interface{}) {
	customer, err := s.users.GetByID(ctx, customerID)
	if err != nil {
		return
	}
	s.notify.Notify(event, customer.Phone, data)
}

// requireAssignedEngineer guards the engineering operations: the caller must
// be the project's assigned engineer (admins may step in).
func requireAssignedEngineer(actor Actor, project *model.Project) error {
	if actor.Is(model.RoleAdmin) {
		return nil
	}
	if !actor.Is(model.RoleEngineer) {
		return apperror.Forbidden("only engineers can work on blueprints and costings")
	}
	if project.EngineerID == nil || *project.EngineerID != actor.ID {
		return apperror.Forbidden("project is assigned to another engineer")
	}
	return nil
}
