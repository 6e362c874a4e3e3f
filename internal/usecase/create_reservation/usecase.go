package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CarReservation/internal/availability"
	"github.com/m04kA/SMC-CarReservation/internal/domain"
	"github.com/m04kA/SMC-CarReservation/internal/infra/events"
	reservationRepo "github.com/m04kA/SMC-CarReservation/internal/infra/storage/reservation"
)

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	txManager       TransactionManager
	cache           ReservationsCache
	publisher       EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
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
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Чтение бронирований даты, проверка пересечений и запись идут в одной
// сериализуемой транзакции, поэтому два параллельных запроса не могут оба пройти проверку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateReservation: user=%d, date=%s, interval=[%s, %s)",
		req.UserID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	candidate := &domain.Reservation{
		UserID:   req.UserID,
		Date:     req.Date,
		Interval: domain.TimeInterval{Start: req.StartTime, End: req.EndTime},
	}

	// 2. Некорректный интервал отклоняем до обращения к БД
	if err := candidate.Interval.Validate(); err != nil {
		uc.logger.Warn("CreateReservation: invalid interval: %v", err)
		uc.metrics.IncReservationConflict("invalid_interval")
		return nil, err
	}

	var result *domain.Reservation

	// 3. Проверка и запись в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Бронирования этой даты с блокировкой (FOR UPDATE)
		date := req.Date
		existing, err := uc.reservationRepo.GetByFilter(txCtx, domain.ReservationsFilter{Date: &date})
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get reservations: %v", err)
			return fmt.Errorf("%w: failed to get reservations: %w", ErrInternal, err)
		}

		// 3.2. Проверка пересечений
		if err := availability.ValidateReservation(candidate, existing, nil); err != nil {
			return err
		}

		// 3.3. Сохраняем бронирование
		created, err := uc.reservationRepo.Create(txCtx, candidate)
		if err != nil {
			// Параллельная запись прошла раньше: сработал exclusion constraint
			if errors.Is(err, reservationRepo.ErrOverlapConflict) {
				return domain.NewOverlapConflictError(nil)
			}
			if errors.Is(err, reservationRepo.ErrInvalidInterval) {
				return fmt.Errorf("%w: %v", domain.ErrInvalidInterval, err)
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		// 3.4. Перечитываем с email владельца
		stored, err := uc.reservationRepo.GetByID(txCtx, created.ID)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to reload reservation id=%d: %v", created.ID, err)
			return fmt.Errorf("%w: failed to reload reservation: %w", ErrInternal, err)
		}

		result = stored
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrOverlapConflict) {
			uc.logger.Warn("CreateReservation: overlap for user=%d: %v", req.UserID, err)
			uc.metrics.IncReservationConflict("overlap")
		}
		return nil, err
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d", result.ID)
	uc.metrics.IncReservationCreated()

	// 4. После фиксации: сбрасываем кеш даты и публикуем событие
	if err := uc.cache.Invalidate(ctx, result.Date); err != nil {
		uc.logger.Warn("CreateReservation: failed to invalidate cache for %s: %v",
			result.Date.Format(domain.DateFormat), err)
	}

	event := events.NewReservationEvent(domain.EventReservationCreated, result, uc.timeProvider.Now())
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateReservation: failed to publish event for reservation id=%d: %v", result.ID, err)
	}

	return toResponse(result), nil
}

func toResponse(r *domain.Reservation) *Response {
	return &Response{
		ID:        r.ID,
		UserID:    r.UserID,
		Date:      r.Date,
		StartTime: r.Interval.Start,
		EndTime:   r.Interval.End,
		UserEmail: r.UserEmail,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
