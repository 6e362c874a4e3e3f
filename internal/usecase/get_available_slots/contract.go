package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
}

// ReservationsCache кеш бронирований по дате (read-through).
// Set принимает поколение, прочитанное до обращения к БД.
type ReservationsCache interface {
	Get(ctx context.Context, date time.Time) ([]*domain.Reservation, bool, error)
	Generation(ctx context.Context, date time.Time) (int64, error)
	Set(ctx context.Context, date time.Time, generation int64, reservations []*domain.Reservation) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
