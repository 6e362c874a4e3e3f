package update_reservation

import (
	"fmt"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	if req.ID <= 0 {
		return fmt.Errorf("%w: reservation id must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.Date != nil && req.Date.IsZero() {
		return fmt.Errorf("%w: date must not be empty", ErrInvalidInput)
	}

	return nil
}

// merge применяет заданные поля запроса к копии текущего бронирования
func merge(current *domain.Reservation, req *Request) *domain.Reservation {
	updated := *current

	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.StartTime != nil {
		updated.Interval.Start = *req.StartTime
	}
	if req.EndTime != nil {
		updated.Interval.End = *req.EndTime
	}

	return &updated
}
