package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
	"github.com/m04kA/SMC-CarReservation/internal/infra/events"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	Delete(ctx context.Context, id int64) error
}

// ReservationsCache кеш бронирований по дате
type ReservationsCache interface {
	Get(ctx context.Context, date time.Time) ([]*domain.Reservation, bool, error)
	Generation(ctx context.Context, date time.Time) (int64, error)
	Set(ctx context.Context, date time.Time, generation int64, reservations []*domain.Reservation) error
	Invalidate(ctx context.Context, dates ...time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher издатель событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Metrics бизнес-метрики
type Metrics interface {
	IncReservationCancelled()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
