package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/m04kA/SMC-CarReservation/internal/availability"
	"github.com/m04kA/SMC-CarReservation/internal/domain"
	reservationRepo "github.com/m04kA/SMC-CarReservation/internal/infra/storage/reservation"
)

// UseCase use case для получения слотов дня с признаком доступности
type UseCase struct {
	reservationRepo ReservationRepository
	cache           ReservationsCache
	slotsConfig     domain.SlotsConfig
	allowedSteps    []int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// slotsConfig задает окно дня и шаг по умолчанию, allowedSteps - шаги, которые можно запросить явно.
func NewUseCase(
	reservationRepo ReservationRepository,
	cache ReservationsCache,
	slotsConfig domain.SlotsConfig,
	allowedSteps []int,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		cache:           cache,
		slotsConfig:     slotsConfig,
		allowedSteps:    slices.Clone(allowedSteps),
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: date=%s", req.Date.Format(domain.DateFormat))

	// 2. Шаг сетки
	step, err := resolveStep(req.StepMinutes, uc.slotsConfig.StepMinutes, uc.allowedSteps)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, err
	}
	cfg := uc.slotsConfig
	cfg.StepMinutes = step

	// 3. Исключать можно только собственное бронирование
	if req.ExcludeID != nil {
		if err := uc.checkOwnership(ctx, *req.ExcludeID, *req.UserID); err != nil {
			return nil, err
		}
	}

	// 4. Бронирования даты через кеш
	reservations, err := uc.reservationsForDate(ctx, req)
	if err != nil {
		return nil, err
	}

	// 5. Генерация слотов
	slots, err := availability.GenerateSlots(req.Date, cfg, reservations, req.ExcludeID)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for date=%s, step=%d",
		len(slots), req.Date.Format(domain.DateFormat), step)

	return &Response{
		Date:        req.Date,
		StepMinutes: step,
		DayStart:    cfg.DayStart,
		DayEnd:      cfg.DayEnd,
		Slots:       toSlots(slots),
	}, nil
}

func (uc *UseCase) checkOwnership(ctx context.Context, reservationID, userID int64) error {
	reservation, err := uc.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("GetAvailableSlots: excluded reservation id=%d not found", reservationID)
			return ErrReservationNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
	}

	if !reservation.IsOwnedBy(userID) {
		uc.logger.Warn("GetAvailableSlots: user=%d is not owner of reservation id=%d", userID, reservationID)
		return ErrAccessDenied
	}

	return nil
}

// reservationsForDate читает бронирования даты из кеша, при промахе - из БД с заполнением кеша.
// Ошибки кеша не прерывают запрос.
func (uc *UseCase) reservationsForDate(ctx context.Context, req *Request) ([]*domain.Reservation, error) {
	cached, found, err := uc.cache.Get(ctx, req.Date)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cache get failed: %v", err)
	}
	if found {
		return cached, nil
	}

	// Поколение фиксируем до чтения: запись, закоммиченная во время чтения, его изменит
	generation, err := uc.cache.Generation(ctx, req.Date)
	cacheable := err == nil
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cache generation failed: %v", err)
	}

	date := req.Date
	reservations, err := uc.reservationRepo.GetByFilter(ctx, domain.ReservationsFilter{Date: &date})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %w", ErrInternal, err)
	}

	if cacheable {
		if err := uc.cache.Set(ctx, req.Date, generation, reservations); err != nil {
			uc.logger.Warn("GetAvailableSlots: cache set failed: %v", err)
		}
	}

	return reservations, nil
}

func toSlots(slots []domain.Slot) []Slot {
	result := make([]Slot, len(slots))
	for i, slot := range slots {
		result[i] = Slot{
			StartTime: slot.Interval.Start,
			EndTime:   slot.Interval.End,
			Available: slot.Available,
		}
	}
	return result
}
