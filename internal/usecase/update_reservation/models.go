package update_reservation

import (
	"time"

	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

// Request частичное изменение бронирования: nil поля остаются прежними
type Request struct {
	ID        int64
	UserID    int64
	Date      *time.Time
	StartTime *types.TimeString
	EndTime   *types.TimeString
}

// Response модель ответа с измененным бронированием
type Response struct {
	ID        int64
	UserID    int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	UserEmail string
	CreatedAt time.Time
	UpdatedAt time.Time
}
