package config

import (
	"testing"
	"time"
)

func TestSlotsPerDay(t *testing.T) {
	s := Scheduling{BusinessHoursStart: 8, BusinessHoursEnd: 17, SlotDuration: time.Hour}
	if got := s.SlotsPerDay(); got != 9 {
		t.Fatalf("SlotsPerDay = %d, want 9", got)
	}

	s.SlotDuration = 30 * time.Minute
	if got := s.SlotsPerDay(); got != 18 {
		t.Fatalf("half-hour slots: SlotsPerDay = %d, want 18", got)
	}

	s.BusinessHoursEnd = 8
	if got := s.SlotsPerDay(); got != 0 {
		t.Fatalf("empty window: SlotsPerDay = %d, want 0", got)
	}
}

func TestWithinBusinessHours(t *testing.T) {
	s := Scheduling{BusinessHoursStart: 8, BusinessHoursEnd: 17, SlotDuration: time.Hour}
	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		hour int
		want bool
	}{
		{7, false},
		{8, true}, // start is inclusive
		{12, true},
		{16, true},
		{17, false}, // end is exclusive
		{22, false},
	}
	for _, tc := range cases {
		at := day.Add(time.Duration(tc.hour) * time.Hour)
		if got := s.WithinBusinessHours(at); got != tc.want {
			t.Fatalf("WithinBusinessHours(%02d:00) = %v, want %v", tc.hour, got, tc.want)
		}
	}
}

func TestLoadSchedulingDefaults(t *testing.T) {
	for _, key := range []string{"BUSINESS_HOURS_START", "BUSINESS_HOURS_END", "SLOT_DURATION_MINUTES", "CANCELLATION_CUTOFF_HOURS"} {
		t.Setenv(key, "")
	}
	s := LoadScheduling()
	if s.BusinessHoursStart != 8 || s.BusinessHoursEnd != 17 {
		t.Fatalf("default hours = %d-%d, want 8-17", s.BusinessHoursStart, s.BusinessHoursEnd)
	}
	if s.SlotDuration != time.Hour {
		t.Fatalf("default slot duration = %s, want 1h", s.SlotDuration)
	}
	if s.CancellationCutoffHours != 24 {
		t.Fatalf("default cutoff = %d, want 24", s.CancellationCutoffHours)
	}
}

func TestLoadSchedulingFromEnv(t *testing.T) {
	t.Setenv("BUSINESS_HOURS_START", "9")
	t.Setenv("BUSINESS_HOURS_END", "18")
	t.Setenv("SLOT_DURATION_MINUTES", "30")
	t.Setenv("CANCELLATION_CUTOFF_HOURS", "48")

	s := LoadScheduling()
	if s.BusinessHoursStart != 9 || s.BusinessHoursEnd != 18 {
		t.Fatalf("hours = %d-%d, want 9-18", s.BusinessHoursStart, s.BusinessHoursEnd)
	}
	if s.SlotDuration != 30*time.Minute {
		t.Fatalf("slot duration = %s, want 30m", s.SlotDuration)
	}
	if s.CancellationCutoffHours != 48 {
		t.Fatalf("cutoff = %d, want 48", s.CancellationCutoffHours)
	}
}

func TestEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("BUSINESS_HOURS_START", "noon")
	t.Setenv("BUSINESS_HOURS_END", "-3")
	s := LoadScheduling()
	if s.BusinessHoursStart != 8 || s.BusinessHoursEnd != 17 {
		t.Fatalf("garbage env should fall back to defaults, got %d-%d", s.BusinessHoursStart, s.BusinessHoursEnd)
	}
}
