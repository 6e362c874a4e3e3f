package availability

import (
	"time"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
)

// OverlapResult результат проверки пересечений
type OverlapResult struct {
	HasConflict    bool
	ConflictingIDs []int64 // в порядке следования existing
}

// CheckOverlap проверяет, пересекается ли candidate с бронированиями existing.
//
// Пересечение полуоткрытых интервалов [a0, a1) и [b0, b1): a0 < b1 && b0 < a1.
// Соседние интервалы (a1 == b0) не конфликтуют.
// Бронирование с ID == *excludeID пропускается (редактирование самого себя).
// existing должен содержать бронирования одной даты, дата здесь не сравнивается.
func CheckOverlap(candidate domain.TimeInterval, existing []*domain.Reservation, excludeID *int64) (OverlapResult, error) {
	if err := candidate.Validate(); err != nil {
		return OverlapResult{}, err
	}

	result := OverlapResult{ConflictingIDs: []int64{}}
	for _, reservation := range existing {
		if reservation == nil || isExcluded(reservation, excludeID) {
			continue
		}

		if candidate.Overlaps(reservation.Interval) {
			result.ConflictingIDs = append(result.ConflictingIDs, reservation.ID)
		}
	}

	result.HasConflict = len(result.ConflictingIDs) > 0
	return result, nil
}

func isExcluded(reservation *domain.Reservation, excludeID *int64) bool {
	return excludeID != nil && reservation.ID == *excludeID
}

// sameDate оставляет только бронирования на указанную дату
func sameDate(reservations []*domain.Reservation, date time.Time) []*domain.Reservation {
	filtered := make([]*domain.Reservation, 0, len(reservations))
	for _, reservation := range reservations {
		if reservation != nil && reservation.OnDate(date) {
			filtered = append(filtered, reservation)
		}
	}
	return filtered
}
