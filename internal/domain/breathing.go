package domain

import "time"

// BreathingSession tracks one guided breathing exercise.
type BreathingSession struct {
	ID              int64
	UserID          int64
	Technique       string
	DurationMinutes int
	Completed       bool
	CreatedAt       time.Time
}

// DefaultBreathingTechnique is used when a session does not name one.
const DefaultBreathingTechnique = "4-7-8"
