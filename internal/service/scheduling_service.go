package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/config"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/notifier"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/repository"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type BookAppointmentRequest struct {
	Type          string    `json:"type" binding:"required,oneof=office_consultation ocular_visit"`
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	SiteAddress   string    `json:"site_address"`
	Notes         string    `json:"notes"`
}

// Slot is a fixed-duration scheduling window within business hours.
type Slot struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	IsAvailable bool      `json:"is_available"`
}

// StaffSlots is one sales-staff member's slot availability for a date.
type StaffSlots struct {
	StaffID   uuid.UUID `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	Slots     []Slot    `json:"slots"`
}

// CancelResult reports a cancellation plus whether it fell inside the
// cancellation policy window. The flag is informational only: it never blocks
// the cancellation, it just changes the message and feeds reporting.
type CancelResult struct {
	Appointment    *model.Appointment `json:"appointment"`
	IsWithinPolicy bool               `json:"is_within_policy"`
	Message        string             `json:"message"`
}

// --- Interface ---

type SchedulingService interface {
	BookAppointment(ctx context.Context, actor Actor, req BookAppointmentRequest) (*model.Appointment, error)
	AssignSalesStaff(ctx context.Context, actor Actor, appointmentID, staffID uuid.UUID) (*model.Appointment, error)
	AvailableSlots(ctx context.Context, date time.Time, staffID *uuid.UUID) ([]StaffSlots, error)
	CancelAppointment(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*CancelResult, error)
	CompleteAppointment(ctx context.Context, actor Actor, id uuid.UUID, notes string) (*model.Appointment, error)
	MarkNoShow(ctx context.Context, actor Actor, id uuid.UUID) (*model.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, actor Actor, id uuid.UUID, status, note string) (*model.Appointment, error)
	SetTravelFee(ctx context.Context, actor Actor, id uuid.UUID, required bool, amount decimal.Decimal) (*model.Appointment, error)
	CollectTravelFee(ctx context.Context, actor Actor, id uuid.UUID) (*model.Appointment, error)
	VerifyTravelFee(ctx context.Context, actor Actor, id uuid.UUID) (*model.Appointment, error)
	GetAppointment(ctx context.Context, actor Actor, id uuid.UUID) (*model.Appointment, error)
	ListAppointments(ctx context.Context, actor Actor, filter repository.AppointmentFilter) ([]model.Appointment, int64, error)
}

type schedulingService struct {
	cfg          config.Scheduling
	appointments repository.AppointmentRepository
	staff        StaffDirectory
	users        repository.UserRepository
	txManager    repository.TransactionManager
	audit        auditEmitter
	notify       notifier.Notifier
	now          func() time.Time
}

func NewSchedulingService(
	cfg config.Scheduling,
	appointments repository.AppointmentRepository,
	staff StaffDirectory,
	users repository.UserRepository,
	txManager repository.TransactionManager,
	activity repository.ActivityRepository,
	n notifier.Notifier,
) SchedulingService {
	return &schedulingService{
		cfg:          cfg,
		appointments: appointments,
		staff:        staff,
		users:        users,
		txManager:    txManager,
		audit:        newAuditEmitter(activity),
		notify:       n,
		now:          time.Now,
	}
}

// --- Slot generation ---

// SlotSequence produces the lazy, finite, restartable sequence of
// fixed-duration slots spanning business hours on day. Availability is
// computed with the exact-timestamp rule: a slot is taken only when busy
// reports an appointment starting at precisely the slot's start minute.
func SlotSequence(day time.Time, cfg config.Scheduling, busy func(time.Time) bool) iter.Seq[Slot] {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), cfg.BusinessHoursStart, 0, 0, 0, day.Location())
	count := cfg.SlotsPerDay()

	return func(yield func(Slot) bool) {
		for i := 0; i < count; i++ {
			start := dayStart.Add(time.Duration(i) * cfg.SlotDuration)
			slot := Slot{
				Start:       start,
				End:         start.Add(cfg.SlotDuration),
				IsAvailable: !busy(start),
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// busyFunc folds a staff member's non-terminal appointments into the
// exact-timestamp lookup SlotSequence needs.
func busyFunc(appts []model.Appointment) func(time.Time) bool {
	taken := make(map[int64]struct{}, len(appts))
	for _, a := range appts {
		taken[a.ScheduledDate.Unix()] = struct{}{}
	}
	return func(t time.Time) bool {
		_, ok := taken[t.Unix()]
		return ok
	}
}

// --- Implementation ---

func (s *schedulingService) BookAppointment(ctx context.Context, actor Actor, req BookAppointmentRequest) (*model.Appointment, error) {
	if !actor.Is(model.RoleCustomer) {
		return nil, apperror.Forbidden("only customers can book appointments")
	}
	if req.Type != model.AppointmentTypeOffice && req.Type != model.AppointmentTypeOcular {
		return nil, apperror.Validation("unknown appointment type %q", req.Type)
	}
	if !s.cfg.WithinBusinessHours(req.ScheduledDate) {
		return nil, apperror.OutOfHours("requested time %s is outside business hours (%02d:00-%02d:00)",
			req.ScheduledDate.Format("15:04"), s.cfg.BusinessHoursStart, s.cfg.BusinessHoursEnd)
	}
	if req.Type == model.AppointmentTypeOcular && req.SiteAddress == "" {
		return nil, apperror.Validation("a site address is required for an ocular visit")
	}

	scheduled := req.ScheduledDate.Truncate(time.Minute)
	now := s.now()

	appt := &model.Appointment{
		CustomerID:       actor.ID,
		Type:             req.Type,
		ScheduledDate:    scheduled,
		ScheduledEndDate: scheduled.Add(s.cfg.SlotDuration),
		SiteAddress:      req.SiteAddress,
		Notes:            req.Notes,
		Status:           model.AppointmentPending,
	}
	if req.Type == model.AppointmentTypeOcular {
		appt.TravelFee = model.TravelFee{Status: model.TravelFeePending}
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Ocular visits are auto-assigned to the first conflict-free sales
		// staff member, scanned in stable directory order.
		if req.Type == model.AppointmentTypeOcular {
			candidates, err := s.staff.ActiveByRole(txCtx, model.RoleSalesStaff)
			if err != nil {
				return err
			}
			for i := range candidates {
				staffID := candidates[i].ID
				if err := s.appointments.LockStaffSlot(txCtx, staffID, scheduled); err != nil {
					return err
				}
				conflicted, err := s.appointments.HasNonTerminalAt(txCtx, staffID, scheduled)
				if err != nil {
					return err
				}
				if !conflicted {
					appt.AssignedSalesStaffID = &staffID
					appt.Status = model.AppointmentScheduled
					break
				}
			}
		}

		appt.StatusHistory = appt.StatusHistory.Append(appt.Status, actor.ID, actor.Role, "appointment booked", now)
		if err := s.appointments.Create(txCtx, appt); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionBookAppointment, model.ResourceAppointment, appt.ID,
			fmt.Sprintf("%s booked for %s", req.Type, scheduled.Format(time.RFC3339)),
			nil, map[string]interface{}{"status": appt.Status})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if appt.Status == model.AppointmentScheduled {
		s.notifyCustomer(ctx, actor.ID, notifier.EventAppointmentConfirmed, map[string]interface{}{
			"when":           scheduled.Format("Jan 2 2006 15:04"),
			"appointment_id": appt.ID.String(),
		})
	}

	return appt, nil
}

func (s *schedulingService) AssignSalesStaff(ctx context.Context, actor Actor, appointmentID, staffID uuid.UUID) (*model.Appointment, error) {
	if !actor.Is(model.RoleAppointmentAgent) {
		return nil, apperror.Forbidden("only appointment agents can assign sales staff")
	}

	var appt *model.Appointment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		appt, err = s.appointments.GetByID(txCtx, appointmentID)
		if err != nil {
			return notFoundOr(err, "appointment %s not found", appointmentID)
		}
		if appt.Status != model.AppointmentPending {
			return apperror.AlreadyAssigned("appointment is %s, only pending appointments can be assigned", appt.Status)
		}

		staff, err := s.users.GetByID(txCtx, staffID)
		if err != nil {
			return notFoundOr(err, "staff %s not found", staffID)
		}
		if staff.Role != model.RoleSalesStaff || !staff.IsActive {
			return apperror.NotFound("staff %s is not an active sales staff member", staffID)
		}

		if err := s.appointments.LockStaffSlot(txCtx, staffID, appt.ScheduledDate); err != nil {
			return err
		}
		conflicted, err := s.appointments.HasNonTerminalAt(txCtx, staffID, appt.ScheduledDate)
		if err != nil {
			return err
		}
		if conflicted {
			return apperror.Conflict("staff already has an appointment at %s", appt.ScheduledDate.Format(time.RFC3339))
		}

		appt.AssignedSalesStaffID = &staffID
		appt.Transition(model.AppointmentScheduled, actor.ID, actor.Role, "sales staff assigned", s.now())
		if err := s.appointments.Update(txCtx, appt); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionAssignSalesStaff, model.ResourceAppointment, appt.ID,
			fmt.Sprintf("assigned sales staff %s", staffID),
			map[string]interface{}{"status": model.AppointmentPending},
			map[string]interface{}{"status": appt.Status, "staff_id": staffID.String()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, appt.CustomerID, notifier.EventAppointmentConfirmed, map[string]interface{}{
		"when":           appt.ScheduledDate.Format("Jan 2 2006 15:04"),
		"appointment_id": appt.ID.String(),
	})

	return appt, nil
}

func (s *schedulingService) AvailableSlots(ctx context.Context, date time.Time, staffID *uuid.UUID) ([]StaffSlots, error) {
	var staff []model.User
	if staffID != nil {
		member, err := s.users.GetByID(ctx, *staffID)
		if err != nil {
			return nil, notFoundOr(err, "staff %s not found", *staffID)
		}
		if member.Role != model.RoleSalesStaff || !member.IsActive {
			return nil, apperror.NotFound("staff %s is not an active sales staff member", *staffID)
		}
		staff = []model.User{*member}
	} else {
		var err error
		staff, err = s.staff.ActiveByRole(ctx, model.RoleSalesStaff)
		if err != nil {
			return nil, err
		}
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	result := make([]StaffSlots, 0, len(staff))
	for _, member := range staff {
		appts, err := s.appointments.ListNonTerminalByStaffOnDate(ctx, member.ID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}

		slots := make([]Slot, 0, s.cfg.SlotsPerDay())
		for slot := range SlotSequence(date, s.cfg, busyFunc(appts)) {
			slots = append(slots, slot)
		}

		result = append(result, StaffSlots{
			StaffID:   member.ID,
			StaffName: member.FullName,
			Slots:     slots,
		})
	}

	return result, nil
}

func (s *schedulingService) CancelAppointment(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*CancelResult, error) {
	var result *CancelResult
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		appt, err := s.appointments.GetByID(txCtx, id)
		if err != nil {
			return notFoundOr(err, "appointment %s not found", id)
		}
		if actor.Is(model.RoleCustomer) && appt.CustomerID != actor.ID {
			return apperror.Forbidden("appointment belongs to another customer")
		}
		if model.AppointmentTerminal(appt.Status) {
			return apperror.InvalidState("appointment is already %s", appt.Status)
		}

		now := s.now()
		cutoff := appt.ScheduledDate.Add(-time.Duration(s.cfg.CancellationCutoffHours) * time.Hour)
		withinPolicy := now.Before(cutoff)

		before := appt.Status
		appt.Transition(model.AppointmentCancelled, actor.ID, actor.Role, reason, now)
		if err := s.appointments.Update(txCtx, appt); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionCancelAppointment, model.ResourceAppointment, appt.ID,
			fmt.Sprintf("cancelled (within policy: %t): %s", withinPolicy, reason),
			map[string]interface{}{"status": before},
			map[string]interface{}{"status": appt.Status})

		message := "Appointment cancelled."
		if !withinPolicy {
			message = fmt.Sprintf("Appointment cancelled less than %d hours before the schedule; the cancellation fee policy may apply.",
				s.cfg.CancellationCutoffHours)
		}
		result = &CancelResult{Appointment: appt, IsWithinPolicy: withinPolicy, Message: message}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, result.Appointment.CustomerID, notifier.EventAppointmentCancelled, map[string]interface{}{
		"when":           result.Appointment.ScheduledDate.Format("Jan 2 2006 15:04"),
		"appointment_id": result.Appointment.ID.String(),
	})

	return result, nil
}

func (s *schedulingService) CompleteAppointment(ctx context.Context, actor Actor, id uuid.UUID, notes string) (*model.Appointment, error) {
	var appt *model.Appointment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		appt, err = s.appointments.GetByID(txCtx, id)
		if err != nil {
			return notFoundOr(err, "appointment %s not found", id)
		}

		switch appt.Status {
		case model.AppointmentScheduled, model.AppointmentConfirmed, model.AppointmentInProgress:
		default:
			return apperror.InvalidState("appointment cannot be completed from %s", appt.Status)
		}
		if appt.AssignedSalesStaffID == nil || *appt.AssignedSalesStaffID != actor.ID {
			return apperror.Forbidden("only the assigned sales staff can complete this appointment")
		}

		before := appt.Status
		appt.Transition(model.AppointmentCompleted, actor.ID, actor.Role, notes, s.now())
		if err := s.appointments.Update(txCtx, appt); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionCompleteAppointment, model.ResourceAppointment, appt.ID,
			"appointment completed",
			map[string]interface{}{"status": before},
			map[string]interface{}{"status": appt.Status})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *schedulingService) MarkNoShow(ctx context.Context, actor Actor, id uuid.UUID) (*model.Appointment, error) {
	if !actor.IsStaff() {
		return nil, apperror.Forbidden("only staff can mark a no-show")
	}

	var appt *model.Appointment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		appt, err = s.appointments.GetByID(txCtx, id)
		if err != nil {
			return notFoundOr(err, "appointment %s not found", id)
		}
		if model.AppointmentTerminal(appt.Status) {
			return apperror.InvalidState("appointment is already %s", appt.Status)
		}

		before := appt.Status
		appt.Transition(model.AppointmentNoShow, actor.ID, actor.Role, "", s.now())
		if err := s.appointments.Update(txCtx, appt); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionMarkNoShow, model.ResourceAppointment, appt.ID,
			"customer did not show up",
			map[string]interface{}{"status": before},
			map[string]interface{}{"status": appt.Status})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *schedulingService) UpdateAppointmentStatus(ctx context.Context, actor Actor, id uuid.UUID, status, note string) (*model.Appointment, error) {
	if !actor.IsStaff() {
		return nil, apperror.Forbidden("only staff can update appointment status")
	}
	if !model.ValidAppointmentStatus(status) {
		return nil, apperror.Validation("unknown appointment status %q", status)
	}

	var appt *model.Appointment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		appt, err = s.appointments.GetByID(txCtx, id)
		if err != nil {
			return notFoundOr(err, "appointment %s not found", id)
		}
		if !model.AppointmentCanTransition(appt.Status, status) {
			return apperror.InvalidState("cannot move appointment from %s to %s", appt.Status, status)
		}

		before := appt.Status
		appt.Transition(status, actor.ID, actor.Role, note, s.now())
		if err := s.appointments.Update(txCtx, appt); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionUpdateAppointment, model.ResourceAppointment, appt.ID,
			fmt.Sprintf("status %s -> %s", before, status),
			map[string]interface{}{"status": before},
			map[string]interface{}{"status": status})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// --- Travel-fee sub-workflow (ocular visits only) ---

func (s *schedulingService) SetTravelFee(ctx context.Context, actor Actor, id uuid.UUID, required bool, amount decimal.Decimal) (*model.Appointment, error) {
	if !actor.Is(model.RoleCashier, model.RoleAdmin) {
		return nil, apperror.Forbidden("only cashiers or admins can set the travel fee")
	}

	var appt *model.Appointment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		appt, err = s.appointments.GetByID(txCtx, id)
		if err != nil {
			return notFoundOr(err, "appointment %s not found", id)
		}
		if appt.Type != model.AppointmentTypeOcular {
			return apperror.Validation("travel fees apply to ocular visits only")
		}

		actorID := actor.ID
		appt.TravelFee.Required = required
		appt.TravelFee.Amount = amount
		appt.TravelFee.SetBy = &actorID
		if required {
			appt.TravelFee.Status = model.TravelFeePending
		} else {
			appt.TravelFee.Status = model.TravelFeeNotRequired
		}

		if err := s.appointments.Update(txCtx, appt); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionSetTravelFee, model.ResourceAppointment, appt.ID,
			fmt.Sprintf("travel fee set: required=%t amount=%s", required, amount.StringFixed(2)),
			nil, map[string]interface{}{"travel_fee_status": appt.TravelFee.Status})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *schedulingService) CollectTravelFee(ctx context.Context, actor Actor, id uuid.UUID) (*model.Appointment, error) {
	var appt *model.Appointment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		appt, err = s.appointments.GetByID(txCtx, id)
		if err != nil {
			return notFoundOr(err, "appointment %s not found", id)
		}
		if appt.AssignedSalesStaffID == nil || *appt.AssignedSalesStaffID != actor.ID {
			return apperror.Forbidden("only the assigned sales staff can collect the travel fee")
		}
		if appt.TravelFee.Status != model.TravelFeePending {
			return apperror.InvalidState("travel fee is %s, expected pending", appt.TravelFee.Status)
		}

		now := s.now()
		actorID := actor.ID
		appt.TravelFee.Status = model.TravelFeeCollected
		appt.TravelFee.CollectedBy = &actorID
		appt.TravelFee.CollectedAt = &now

		if err := s.appointments.Update(txCtx, appt); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionCollectTravelFee, model.ResourceAppointment, appt.ID,
			"travel fee collected", nil, map[string]interface{}{"travel_fee_status": appt.TravelFee.Status})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *schedulingService) VerifyTravelFee(ctx context.Context, actor Actor, id uuid.UUID) (*model.Appointment, error) {
	if !actor.Is(model.RoleCashier) {
		return nil, apperror.Forbidden("only cashiers can verify the travel fee")
	}

	var appt *model.Appointment
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		appt, err = s.appointments.GetByID(txCtx, id)
		if err != nil {
			return notFoundOr(err, "appointment %s not found", id)
		}
		if appt.TravelFee.Status != model.TravelFeeCollected {
			return apperror.InvalidState("travel fee is %s, expected collected", appt.TravelFee.Status)
		}

		now := s.now()
		actorID := actor.ID
		appt.TravelFee.Status = model.TravelFeeVerified
		appt.TravelFee.VerifiedBy = &actorID
		appt.TravelFee.VerifiedAt = &now

		if err := s.appointments.Update(txCtx, appt); err != nil {
			return err
		}

		s.audit.emit(txCtx, actor, model.ActionVerifyTravelFee, model.ResourceAppointment, appt.ID,
			"travel fee verified", nil, map[string]interface{}{"travel_fee_status": appt.TravelFee.Status})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// --- Reads ---

func (s *schedulingService) GetAppointment(ctx context.Context, actor Actor, id uuid.UUID) (*model.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "appointment %s not found", id)
	}
	if actor.Is(model.RoleCustomer) && appt.CustomerID != actor.ID {
		return nil, apperror.Forbidden("appointment belongs to another customer")
	}
	return appt, nil
}

func (s *schedulingService) ListAppointments(ctx context.Context, actor Actor, filter repository.AppointmentFilter) ([]model.Appointment, int64, error) {
	// Customers only ever see their own appointments.
	if actor.Is(model.RoleCustomer) {
		id := actor.ID
		filter.CustomerID = &id
	}
	return s.appointments.List(ctx, filter)
}

// --- Helpers ---

func (s *schedulingService) notifyCustomer(ctx context.Context, customerID uuid.UUID, event string, data map[string]interface{}) {
	customer, err := s.users.GetByID(ctx, customerID)
	if err != nil {
		return
	}
	s.notify.Notify(event, customer.Phone, data)
}

// notFoundOr converts gorm's record-not-found into the workflow taxonomy and
// passes every other storage error through untouched.
func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(format, args...)
	}
	return err
}
