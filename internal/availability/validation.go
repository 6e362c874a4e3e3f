package availability

import (
	"errors"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
)

const (
	msgInvalidInterval      = "время начала должно быть раньше времени окончания"
	msgInvalidConfiguration = "некорректные параметры сетки слотов"
	msgOverlapConflict      = "выбранное время пересекается с существующим бронированием"
)

// ValidateReservation проверяет кандидата перед сохранением (создание и изменение).
//
// Порядок проверок:
//  1. интервал некорректен → domain.ErrInvalidInterval
//  2. есть пересечения с бронированиями той же даты → *domain.OverlapConflictError
//  3. иначе nil
//
// При изменении существующего бронирования excludeID должен указывать на него самого.
func ValidateReservation(candidate *domain.Reservation, existing []*domain.Reservation, excludeID *int64) error {
	if candidate == nil {
		return domain.ErrInvalidInterval
	}

	result, err := CheckOverlap(candidate.Interval, sameDate(existing, candidate.Date), excludeID)
	if err != nil {
		return err
	}

	if result.HasConflict {
		return domain.NewOverlapConflictError(result.ConflictingIDs)
	}

	return nil
}

// UserMessage текст ошибки для конечного пользователя. Пустая строка для прочих ошибок.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInterval):
		return msgInvalidInterval
	case errors.Is(err, domain.ErrInvalidConfiguration):
		return msgInvalidConfiguration
	case errors.Is(err, domain.ErrOverlapConflict):
		return msgOverlapConflict
	default:
		return ""
	}
}
