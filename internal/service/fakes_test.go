package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. They honor the same contracts the postgres
// implementations do (gorm.ErrRecordNotFound on missing rows, stable
// directory ordering) so the engines can be exercised without a database.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*model.User
}

func (r *fakeUserRepo) add(u *model.User) *model.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users = append(r.users, u)
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ListActiveByRole(_ context.Context, role string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if u.Role == role && u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) List(_ context.Context, role string, page, limit int) ([]model.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if role == "" || u.Role == role {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == user.ID {
			copied := *user
			r.users[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeAppointmentRepo struct {
	mu    sync.Mutex
	appts []*model.Appointment
	locks []string
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	copied := *appt
	r.appts = append(r.appts, &copied)
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAppointmentRepo) List(_ context.Context, filter repository.AppointmentFilter) ([]model.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Appointment
	for _, a := range r.appts {
		if filter.CustomerID != nil && a.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.StaffID != nil && (a.AssignedSalesStaffID == nil || *a.AssignedSalesStaffID != *filter.StaffID) {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAppointmentRepo) ListNonTerminalByStaff(_ context.Context, staffID uuid.UUID) ([]model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Appointment
	for _, a := range r.appts {
		if a.AssignedSalesStaffID != nil && *a.AssignedSalesStaffID == staffID && !model.AppointmentTerminal(a.Status) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListNonTerminalByStaffOnDate(_ context.Context, staffID uuid.UUID, dayStart, dayEnd time.Time) ([]model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Appointment
	for _, a := range r.appts {
		if a.AssignedSalesStaffID == nil || *a.AssignedSalesStaffID != staffID {
			continue
		}
		if model.AppointmentTerminal(a.Status) {
			continue
		}
		if a.ScheduledDate.Before(dayStart) || !a.ScheduledDate.Before(dayEnd) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) HasNonTerminalAt(_ context.Context, staffID uuid.UUID, ts time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.AssignedSalesStaffID != nil && *a.AssignedSalesStaffID == staffID &&
			a.ScheduledDate.Equal(ts) && !model.AppointmentTerminal(a.Status) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) LockStaffSlot(_ context.Context, staffID uuid.UUID, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locks = append(r.locks, staffID.String()+"@"+ts.UTC().Format(time.RFC3339))
	return nil
}

func (r *fakeAppointmentRepo) ListScheduledBetween(_ context.Context, from, to time.Time) ([]model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Appointment
	for _, a := range r.appts {
		if a.Status != model.AppointmentScheduled && a.Status != model.AppointmentConfirmed {
			continue
		}
		if a.ScheduledDate.Before(from) || !a.ScheduledDate.Before(to) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, appt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.appts {
		if a.ID == appt.ID {
			copied := *appt
			r.appts[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects []*model.Project
}

func (r *fakeProjectRepo) Create(_ context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	copied := *project
	r.projects = append(r.projects, &copied)
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProjectRepo) List(_ context.Context, filter repository.ProjectFilter) ([]model.Project, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Project
	for _, p := range r.projects {
		if filter.CustomerID != nil && p.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.projects {
		if p.ID == project.ID {
			copied := *project
			r.projects[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []*model.Payment
}

func (r *fakePaymentRepo) CreateBatch(_ context.Context, payments []*model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range payments {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		copied := *p
		r.payments = append(r.payments, &copied)
	}
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Payment
	for _, p := range r.payments {
		if p.ProjectID == projectID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) List(_ context.Context, filter repository.PaymentFilter) ([]model.Payment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Payment
	for _, p := range r.payments {
		if filter.CustomerID != nil && p.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.ProjectID != nil && p.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) Update(_ context.Context, payment *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.payments {
		if p.ID == payment.ID {
			copied := *payment
			r.payments[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakePaymentRepo) LockReceiptSequence(_ context.Context, _ string) error { return nil }

func (r *fakePaymentRepo) CountReceiptsWithPrefix(_ context.Context, yearPrefix string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.payments {
		if p.ReceiptNumber != nil && strings.HasPrefix(*p.ReceiptNumber, yearPrefix) {
			count++
		}
	}
	return count, nil
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []*model.ActivityLog
}

func (r *fakeActivityRepo) Append(_ context.Context, entry *model.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeActivityRepo) List(_ context.Context, resourceType, resourceID string, page, limit int) ([]model.ActivityLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ActivityLog
	for _, e := range r.entries {
		if resourceType != "" && e.ResourceType != resourceType {
			continue
		}
		if resourceID != "" && e.ResourceID != resourceID {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeActivityRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type notified struct {
	event     string
	recipient string
	data      map[string]interface{}
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notified
}

func (n *fakeNotifier) Notify(event, recipient string, data map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notified{event: event, recipient: recipient, data: data})
}

func (n *fakeNotifier) eventNames() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.event)
	}
	return out
}
