package reservations

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

// cachedReservation формат хранения в Redis
type cachedReservation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	UserEmail string    `json:"userEmail"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func fromDomain(r *domain.Reservation) cachedReservation {
	return cachedReservation{
		ID:        r.ID,
		UserID:    r.UserID,
		Date:      r.Date.Format(domain.DateFormat),
		StartTime: r.Interval.Start.String(),
		EndTime:   r.Interval.End.String(),
		UserEmail: r.UserEmail,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (c cachedReservation) toDomain() (*domain.Reservation, error) {
	date, err := time.Parse(domain.DateFormat, c.Date)
	if err != nil {
		return nil, fmt.Errorf("date %q: %w", c.Date, err)
	}

	interval := domain.TimeInterval{
		Start: types.TimeString(c.StartTime),
		End:   types.TimeString(c.EndTime),
	}
	if err := interval.Validate(); err != nil {
		return nil, err
	}

	return &domain.Reservation{
		ID:        c.ID,
		UserID:    c.UserID,
		Date:      date,
		Interval:  interval,
		UserEmail: c.UserEmail,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}
