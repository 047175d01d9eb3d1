package notifier

import (
	"context"
	"log"
	"time"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/repository"

	"github.com/robfig/cron/v3"
)

// ReminderScheduler sends next-day appointment reminders to customers.
type ReminderScheduler struct {
	appointments repository.AppointmentRepository
	notifier     Notifier
	cron         *cron.Cron
}

func NewReminderScheduler(appointments repository.AppointmentRepository, n Notifier) *ReminderScheduler {
	return &ReminderScheduler{
		appointments: appointments,
		notifier:     n,
		cron:         cron.New(),
	}
}

// Start registers the daily 9 AM sweep and starts the cron loop.
func (s *ReminderScheduler) Start() {
	if _, err := s.cron.AddFunc("0 9 * * *", s.SendDailyReminders); err != nil {
		log.Printf("failed to schedule reminder sweep: %v", err)
		return
	}
	s.cron.Start()
	log.Println("Appointment reminder scheduler started")
}

// Stop halts the cron loop.
func (s *ReminderScheduler) Stop() {
	s.cron.Stop()
}

// SendDailyReminders notifies every customer with a scheduled or confirmed
// appointment tomorrow.
func (s *ReminderScheduler) SendDailyReminders() {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	appts, err := s.appointments.ListScheduledBetween(context.Background(), from, to)
	if err != nil {
		log.Printf("reminder sweep failed to list appointments: %v", err)
		return
	}

	for _, appt := range appts {
		if appt.Customer == nil || appt.Customer.Phone == "" {
			continue
		}
		s.notifier.Notify(EventAppointmentReminder, appt.Customer.Phone, map[string]interface{}{
			"when":           appt.ScheduledDate.Format("Jan 2 2006 15:04"),
			"appointment_id": appt.ID.String(),
		})
	}

	log.Printf("reminder sweep completed: %d appointment(s)", len(appts))
}
