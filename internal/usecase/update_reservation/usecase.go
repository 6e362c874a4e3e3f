package update_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CarReservation/internal/availability"
	"github.com/m04kA/SMC-CarReservation/internal/domain"
	"github.com/m04kA/SMC-CarReservation/internal/infra/events"
	reservationRepo "github.com/m04kA/SMC-CarReservation/internal/infra/storage/reservation"
)

// UseCase use case для изменения бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	txManager       TransactionManager
	cache           ReservationsCache
	publisher       EventPublisher
	metrics         Metrics
	now             func() time.Time
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	cache ReservationsCache,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		txManager:       txManager,
		cache:           cache,
		publisher:       publisher,
		metrics:         metrics,
		now:             time.Now,
		logger:          logger,
	}
}

// Execute выполняет изменение бронирования.
// Проверка пересечений выполняется всегда, даже если ни одно поле не изменилось;
// само бронирование из проверки исключается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("UpdateReservation: reservation=%d, user=%d", req.ID, req.UserID)

	var previousDate time.Time
	var result *domain.Reservation

	// 2. Все чтения и запись в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Текущее состояние
		current, err := uc.reservationRepo.GetByID(txCtx, req.ID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("UpdateReservation: reservation id=%d not found", req.ID)
				return ErrReservationNotFound
			}
			uc.logger.Error("UpdateReservation: failed to get reservation id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		// 2.2. Изменять может только владелец
		if !current.IsOwnedBy(req.UserID) {
			uc.logger.Warn("UpdateReservation: access denied for user=%d to reservation id=%d", req.UserID, req.ID)
			return ErrAccessDenied
		}

		previousDate = current.Date
		candidate := merge(current, req)

		// 2.3. Бронирования целевой даты с блокировкой (FOR UPDATE)
		date := candidate.Date
		existing, err := uc.reservationRepo.GetByFilter(txCtx, domain.ReservationsFilter{Date: &date})
		if err != nil {
			uc.logger.Error("UpdateReservation: failed to get reservations: %v", err)
			return fmt.Errorf("%w: failed to get reservations: %w", ErrInternal, err)
		}

		// 2.4. Проверка с исключением самого себя
		if err := availability.ValidateReservation(candidate, existing, &req.ID); err != nil {
			return err
		}

		// 2.5. Сохраняем
		updated, err := uc.reservationRepo.Update(txCtx, candidate)
		if err != nil {
			switch {
			case errors.Is(err, reservationRepo.ErrOverlapConflict):
				return domain.NewOverlapConflictError(nil)
			case errors.Is(err, reservationRepo.ErrInvalidInterval):
				return fmt.Errorf("%w: %v", domain.ErrInvalidInterval, err)
			case errors.Is(err, reservationRepo.ErrReservationNotFound):
				return ErrReservationNotFound
			}
			uc.logger.Error("UpdateReservation: failed to update reservation id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: failed to update reservation: %w", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOverlapConflict):
			uc.logger.Warn("UpdateReservation: overlap for reservation id=%d: %v", req.ID, err)
			uc.metrics.IncReservationConflict("overlap")
		case errors.Is(err, domain.ErrInvalidInterval):
			uc.logger.Warn("UpdateReservation: invalid interval for reservation id=%d: %v", req.ID, err)
			uc.metrics.IncReservationConflict("invalid_interval")
		}
		return nil, err
	}

	uc.logger.Info("UpdateReservation: successfully updated reservation id=%d", result.ID)
	uc.metrics.IncReservationUpdated()

	// 3. После фиксации: сбрасываем кеш старой и новой даты, публикуем событие
	if err := uc.cache.Invalidate(ctx, previousDate, result.Date); err != nil {
		uc.logger.Warn("UpdateReservation: failed to invalidate cache: %v", err)
	}

	event := events.NewReservationEvent(domain.EventReservationUpdated, result, uc.now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("UpdateReservation: failed to publish event for reservation id=%d: %v", result.ID, err)
	}

	return &Response{
		ID:        result.ID,
		UserID:    result.UserID,
		Date:      result.Date,
		StartTime: result.Interval.Start,
		EndTime:   result.Interval.End,
		UserEmail: result.UserEmail,
		CreatedAt: result.CreatedAt,
		UpdatedAt: result.UpdatedAt,
	}, nil
}
