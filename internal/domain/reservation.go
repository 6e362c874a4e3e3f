package domain

import (
	"strings"
	"time"
)

// Reservation бронирование автомобиля на интервал времени в конкретную дату
type Reservation struct {
	ID       int64
	UserID   int64 // владелец бронирования
	Date     time.Time
	Interval TimeInterval

	// Денормализовано из users для выдачи в списках
	UserEmail string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy returns true if the reservation belongs to the user
func (r *Reservation) IsOwnedBy(userID int64) bool {
	return r.UserID == userID
}

// OnDate returns true if the reservation is on the same calendar date
func (r *Reservation) OnDate(date time.Time) bool {
	return SameDate(r.Date, date)
}

// UserName отображаемое имя владельца: часть email до "@"
func (r *Reservation) UserName() string {
	name, _, _ := strings.Cut(r.UserEmail, "@")
	return name
}

// ReservationsFilter фильтр выборки бронирований
type ReservationsFilter struct {
	Date   *time.Time // конкретная дата (опционально)
	UserID *int64     // владелец (опционально)
}

// SameDate сравнивает только календарную дату
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ParseDate разбирает дату в формате DateFormat
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
