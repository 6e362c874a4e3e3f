package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID    int64            // владелец (из токена)
	Date      time.Time        // дата бронирования (без времени)
	StartTime types.TimeString // "HH:MM"
	EndTime   types.TimeString // "HH:MM", не включается в интервал
}

// Response модель ответа с созданным бронированием
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
