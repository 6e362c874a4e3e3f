package models

import (
	"time"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
)

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "12:00"

	// Денормализованные данные владельца
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	return &ReservationResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		Date:      r.Date.Format(domain.DateFormat),
		StartTime: r.Interval.Start.String(),
		EndTime:   r.Interval.End.String(),
		UserEmail: r.UserEmail,
		UserName:  r.UserName(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	result := make([]ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		if resp := FromDomainReservation(r); resp != nil {
			result = append(result, *resp)
		}
	}

	return &ReservationListResponse{Reservations: result}
}
