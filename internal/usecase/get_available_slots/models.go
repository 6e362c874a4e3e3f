package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

// Request модель запроса на получение слотов дня
type Request struct {
	Date        time.Time // Дата (без времени)
	StepMinutes *int      // Шаг сетки; nil - шаг по умолчанию
	ExcludeID   *int64    // Бронирование, которое не учитывается (предпросмотр переноса)
	UserID      *int64    // Текущий пользователь; nil - анонимный запрос
}

// Response модель ответа со слотами дня
type Response struct {
	Date        time.Time
	StepMinutes int
	DayStart    types.TimeString
	DayEnd      types.TimeString
	Slots       []Slot
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
}
