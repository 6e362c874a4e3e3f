package availability

import (
	"iter"
	"slices"
	"time"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

// Slots возвращает ленивую последовательность слотов дня date.
//
// Слоты [s, s+step) начинаются с cfg.DayStart и идут с шагом cfg.StepMinutes,
// пока s+step <= cfg.DayEnd. Неполный последний слот не выдается.
// Слот доступен, если не пересекается ни с одним бронированием этой даты
// (бронирование с ID == *excludeID не учитывается).
//
// Последовательность конечна, упорядочена по времени начала и может
// перебираться повторно с тем же результатом.
func Slots(date time.Time, cfg domain.SlotsConfig, reservations []*domain.Reservation, excludeID *int64) (iter.Seq[domain.Slot], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dayStart, err := cfg.DayStart.Minutes()
	if err != nil {
		return nil, err
	}
	dayEnd, err := cfg.DayEnd.Minutes()
	if err != nil {
		return nil, err
	}

	// Снимок на момент вызова: последующие изменения слайса не влияют на перебор
	dayReservations := sameDate(reservations, date)
	step := cfg.StepMinutes

	return func(yield func(domain.Slot) bool) {
		for start := dayStart; start+step <= dayEnd; start += step {
			slot := domain.Slot{Interval: minutesInterval(start, start+step)}
			slot.Available = !hasConflict(slot.Interval, dayReservations, excludeID)

			if !yield(slot) {
				return
			}
		}
	}, nil
}

// GenerateSlots собирает все слоты дня в слайс
func GenerateSlots(date time.Time, cfg domain.SlotsConfig, reservations []*domain.Reservation, excludeID *int64) ([]domain.Slot, error) {
	seq, err := Slots(date, cfg, reservations, excludeID)
	if err != nil {
		return nil, err
	}

	slots := slices.Collect(seq)
	if slots == nil {
		slots = []domain.Slot{}
	}
	return slots, nil
}

// minutesInterval строит интервал из минут от начала суток.
// Вызывается только для значений внутри уже проверенного окна дня.
func minutesInterval(start, end int) domain.TimeInterval {
	startTime, _ := types.FromMinutes(start)
	endTime, _ := types.FromMinutes(end)
	return domain.TimeInterval{Start: startTime, End: endTime}
}

func hasConflict(interval domain.TimeInterval, reservations []*domain.Reservation, excludeID *int64) bool {
	for _, reservation := range reservations {
		if isExcluded(reservation, excludeID) {
			continue
		}
		if interval.Overlaps(reservation.Interval) {
			return true
		}
	}
	return false
}
