package repository

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("already exists")
)

// DayCount is a per-day tally used by admin growth charts.
type DayCount struct {
	Date  time.Time
	Count int
}

// DayAverage is a per-day average used by admin mood trend charts.
type DayAverage struct {
	Date    time.Time
	Average float64
	Count   int
}
