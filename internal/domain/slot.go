package domain

import (
	"fmt"

	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

// Slot represents a fixed-length time slot of the day grid
type Slot struct {
	Interval  TimeInterval
	Available bool
}

// SlotsConfig описывает сетку слотов дня: окно [DayStart, DayEnd) и шаг StepMinutes
type SlotsConfig struct {
	DayStart    types.TimeString
	DayEnd      types.TimeString
	StepMinutes int
}

// DefaultSlotsConfig окно 08:00-20:00 с часовым шагом
func DefaultSlotsConfig() SlotsConfig {
	return SlotsConfig{
		DayStart:    DefaultDayStart,
		DayEnd:      DefaultDayEnd,
		StepMinutes: DefaultStepMinutes,
	}
}

// Validate возвращает ErrInvalidConfiguration при некорректном окне или шаге
func (c SlotsConfig) Validate() error {
	if c.StepMinutes <= 0 {
		return fmt.Errorf("%w: step must be positive, got %d", ErrInvalidConfiguration, c.StepMinutes)
	}
	if err := c.DayStart.Validate(); err != nil {
		return fmt.Errorf("%w: day start: %v", ErrInvalidConfiguration, err)
	}
	if err := c.DayEnd.Validate(); err != nil {
		return fmt.Errorf("%w: day end: %v", ErrInvalidConfiguration, err)
	}
	if !c.DayStart.IsBefore(c.DayEnd) {
		return fmt.Errorf("%w: day start %s is not before day end %s", ErrInvalidConfiguration, c.DayStart, c.DayEnd)
	}
	return nil
}

