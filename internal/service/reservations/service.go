package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
	"github.com/m04kA/SMC-CarReservation/internal/infra/events"
	reservationRepo "github.com/m04kA/SMC-CarReservation/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-CarReservation/internal/service/reservations/models"
)

// Service сервис для чтения и отмены бронирований
type Service struct {
	reservationRepo ReservationRepository
	cache           ReservationsCache
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	now             func() time.Time
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	cache ReservationsCache,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		cache:           cache,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		now:             time.Now,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID.
// Пользователь может видеть только своё бронирование.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	reservation, err := s.getOwned(ctx, "GetByID", id, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%d", id)
	return models.FromDomainReservation(reservation), nil
}

// ListByDate получает все бронирования даты (через кеш)
func (s *Service) ListByDate(ctx context.Context, date time.Time) (*models.ReservationListResponse, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	s.logger.Info("ListByDate: fetching reservations for date=%s", date.Format(domain.DateFormat))

	cached, found, err := s.cache.Get(ctx, date)
	if err != nil {
		s.logger.Warn("ListByDate: cache get failed: %v", err)
	}
	if found {
		return models.FromDomainReservationList(cached), nil
	}

	generation, err := s.cache.Generation(ctx, date)
	cacheable := err == nil
	if err != nil {
		s.logger.Warn("ListByDate: cache generation failed: %v", err)
	}

	reservations, err := s.reservationRepo.GetByFilter(ctx, domain.ReservationsFilter{Date: &date})
	if err != nil {
		s.logger.Error("ListByDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %w", ErrInternal, err)
	}

	if cacheable {
		if err := s.cache.Set(ctx, date, generation, reservations); err != nil {
			s.logger.Warn("ListByDate: cache set failed: %v", err)
		}
	}

	s.logger.Info("ListByDate: successfully fetched %d reservations", len(reservations))
	return models.FromDomainReservationList(reservations), nil
}

// ListAll получает все бронирования, упорядоченные по дате и времени начала
func (s *Service) ListAll(ctx context.Context) (*models.ReservationListResponse, error) {
	s.logger.Info("ListAll: fetching all reservations")

	reservations, err := s.reservationRepo.GetByFilter(ctx, domain.ReservationsFilter{})
	if err != nil {
		s.logger.Error("ListAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAll - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListAll: successfully fetched %d reservations", len(reservations))
	return models.FromDomainReservationList(reservations), nil
}

// ListByUser получает бронирования пользователя
func (s *Service) ListByUser(ctx context.Context, userID int64) (*models.ReservationListResponse, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	s.logger.Info("ListByUser: fetching reservations for user=%d", userID)

	reservations, err := s.reservationRepo.GetByFilter(ctx, domain.ReservationsFilter{UserID: &userID})
	if err != nil {
		s.logger.Error("ListByUser: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListByUser - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListByUser: successfully fetched %d reservations for user=%d", len(reservations), userID)
	return models.FromDomainReservationList(reservations), nil
}

// Cancel удаляет бронирование. Отменить можно только своё бронирование.
func (s *Service) Cancel(ctx context.Context, id int64, userID int64) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", id, userID)

	var cancelled *domain.Reservation

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		reservation, err := s.getOwned(txCtx, "Cancel", id, userID)
		if err != nil {
			return err
		}

		if err := s.reservationRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("Cancel: reservation id=%d not found during delete", id)
				return ErrReservationNotFound
			}
			s.logger.Error("Cancel: repository error for reservation id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}

		cancelled = reservation
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncReservationCancelled()

	if err := s.cache.Invalidate(ctx, cancelled.Date); err != nil {
		s.logger.Warn("Cancel: failed to invalidate cache: %v", err)
	}

	event := events.NewReservationEvent(domain.EventReservationCancelled, cancelled, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Cancel: failed to publish event for reservation id=%d: %v", id, err)
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", id)
	return nil
}

// getOwned получает бронирование и проверяет, что оно принадлежит пользователю
func (s *Service) getOwned(ctx context.Context, op string, id int64, userID int64) (*domain.Reservation, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%d not found", op, id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}

	if !reservation.IsOwnedBy(userID) {
		s.logger.Warn("%s: access denied for user=%d to reservation id=%d", op, userID, id)
		return nil, ErrAccessDenied
	}

	return reservation, nil
}
