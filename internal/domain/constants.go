package domain

import "github.com/m04kA/SMC-CarReservation/pkg/types"

// Default schedule values
const (
	DefaultDayStart    types.TimeString = "08:00"
	DefaultDayEnd      types.TimeString = "20:00"
	DefaultStepMinutes                  = 60
)

// Business validation constants
const (
	MinStepMinutes = 5
	MaxStepMinutes = 720 // 12 hours
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Event types for reservation lifecycle
const (
	EventReservationCreated   = "reservation.created"
	EventReservationUpdated   = "reservation.updated"
	EventReservationCancelled = "reservation.cancelled"
)
