package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
	reservationModels "github.com/m04kA/SMC-CarReservation/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-CarReservation/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "12:00"
}

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*createReservation.Request, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %v", errInvalidTime, err)
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: end: %v", errInvalidTime, err)
	}

	return &createReservation.Request{
		UserID:    userID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *reservationModels.ReservationResponse {
	return reservationModels.FromDomainReservation(&domain.Reservation{
		ID:        resp.ID,
		UserID:    resp.UserID,
		Date:      resp.Date,
		Interval:  domain.TimeInterval{Start: resp.StartTime, End: resp.EndTime},
		UserEmail: resp.UserEmail,
		CreatedAt: resp.CreatedAt,
		UpdatedAt: resp.UpdatedAt,
	})
}
