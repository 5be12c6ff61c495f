package domain

import "time"

// MoodEntry is a daily mood journal record on a 1-5 scale.
type MoodEntry struct {
	ID               int64
	UserID           int64
	MoodScore        int
	EnergyLevel      string
	AffectingFactors []string
	Notes            string
	CreatedAt        time.Time
}

// Recognized energy levels for a mood entry.
const (
	EnergyVeryLow  = "very_low"
	EnergyLow      = "low"
	EnergyModerate = "moderate"
	EnergyHigh     = "high"
	EnergyVeryHigh = "very_high"
)

// ValidEnergyLevel reports whether level is empty or one of the recognized
// energy levels.
func ValidEnergyLevel(level string) bool {
	switch level {
	case "", EnergyVeryLow, EnergyLow, EnergyModerate, EnergyHigh, EnergyVeryHigh:
		return true
	}
	return false
}
