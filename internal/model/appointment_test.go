package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAppointmentForwardPath(t *testing.T) {
	path := []string{
		AppointmentPending,
		AppointmentScheduled,
		AppointmentConfirmed,
		AppointmentInProgress,
		AppointmentCompleted,
	}
	for i := 0; i < len(path)-1; i++ {
		if !AppointmentCanTransition(path[i], path[i+1]) {
			t.Fatalf("%s -> %s should be legal", path[i], path[i+1])
		}
	}
}

func TestAppointmentNoSkippingSteps(t *testing.T) {
	cases := [][2]string{
		{AppointmentPending, AppointmentConfirmed},
		{AppointmentPending, AppointmentCompleted},
		{AppointmentScheduled, AppointmentInProgress},
		{AppointmentConfirmed, AppointmentCompleted},
		{AppointmentConfirmed, AppointmentScheduled}, // no back-edges
	}
	for _, c := range cases {
		if AppointmentCanTransition(c[0], c[1]) {
			t.Fatalf("%s -> %s should be illegal", c[0], c[1])
		}
	}
}

func TestAppointmentCancelAndNoShowFromAnyNonTerminal(t *testing.T) {
	for _, from := range []string{AppointmentPending, AppointmentScheduled, AppointmentConfirmed, AppointmentInProgress} {
		if !AppointmentCanTransition(from, AppointmentCancelled) {
			t.Fatalf("%s -> cancelled should be legal", from)
		}
		if !AppointmentCanTransition(from, AppointmentNoShow) {
			t.Fatalf("%s -> no_show should be legal", from)
		}
	}
}

func TestAppointmentTerminalStatesAreDeadEnds(t *testing.T) {
	for _, terminal := range []string{AppointmentCompleted, AppointmentCancelled, AppointmentNoShow} {
		if !AppointmentTerminal(terminal) {
			t.Fatalf("%s should be terminal", terminal)
		}
		for _, to := range []string{AppointmentPending, AppointmentScheduled, AppointmentCancelled, AppointmentNoShow} {
			if AppointmentCanTransition(terminal, to) {
				t.Fatalf("%s -> %s should be illegal", terminal, to)
			}
		}
	}
	if AppointmentTerminal(AppointmentInProgress) {
		t.Fatalf("in_progress is not terminal")
	}
}

func TestValidAppointmentStatus(t *testing.T) {
	for _, s := range []string{AppointmentPending, AppointmentScheduled, AppointmentConfirmed,
		AppointmentInProgress, AppointmentCompleted, AppointmentCancelled, AppointmentNoShow} {
		if !ValidAppointmentStatus(s) {
			t.Fatalf("%s should be a valid status", s)
		}
	}
	if ValidAppointmentStatus("rescheduled") {
		t.Fatalf("unknown status accepted")
	}
}

func TestAppointmentTransitionAppendsHistory(t *testing.T) {
	actor := uuid.New()
	at := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

	a := &Appointment{Status: AppointmentPending}
	a.Transition(AppointmentScheduled, actor, RoleSalesStaff, "auto-assigned", at)

	if a.Status != AppointmentScheduled {
		t.Fatalf("status = %s", a.Status)
	}
	if len(a.StatusHistory) != 1 {
		t.Fatalf("history length = %d, want 1", len(a.StatusHistory))
	}
	entry := a.StatusHistory[0]
	if entry.Status != AppointmentScheduled || entry.ActorID != actor ||
		entry.ActorRole != RoleSalesStaff || !entry.ChangedAt.Equal(at) {
		t.Fatalf("history entry wrong: %+v", entry)
	}
}
