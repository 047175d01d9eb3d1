package config

import (
	"os"
	"strconv"
	"time"
)

// Scheduling holds the business-hours and cancellation-policy knobs used by
// the scheduling engine. Values come from the environment with sane defaults.
type Scheduling struct {
	BusinessHoursStart      int           // first bookable hour of day, inclusive
	BusinessHoursEnd        int           // last bookable hour of day, exclusive
	SlotDuration            time.Duration // fixed appointment slot length
	CancellationCutoffHours int           // hours before the slot a cancellation still counts as within policy
}

// SlotsPerDay returns how many fixed-duration slots span the business day.
func (s Scheduling) SlotsPerDay() int {
	hours := s.BusinessHoursEnd - s.BusinessHoursStart
	if hours <= 0 {
		return 0
	}
	return int(time.Duration(hours) * time.Hour / s.SlotDuration)
}

// WithinBusinessHours reports whether t's hour-of-day falls inside the window.
func (s Scheduling) WithinBusinessHours(t time.Time) bool {
	return t.Hour() >= s.BusinessHoursStart && t.Hour() < s.BusinessHoursEnd
}

// LoadScheduling reads the scheduling configuration from the environment.
func LoadScheduling() Scheduling {
	return Scheduling{
		BusinessHoursStart:      envInt("BUSINESS_HOURS_START", 8),
		BusinessHoursEnd:        envInt("BUSINESS_HOURS_END", 17),
		SlotDuration:            time.Duration(envInt("SLOT_DURATION_MINUTES", 60)) * time.Minute,
		CancellationCutoffHours: envInt("CANCELLATION_CUTOFF_HOURS", 24),
	}
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}
