package update_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
	reservationModels "github.com/m04kA/SMC-CarReservation/internal/service/reservations/models"
	updateReservation "github.com/m04kA/SMC-CarReservation/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

// UpdateReservationRequest HTTP request model: отсутствующие поля не меняются
type UpdateReservationRequest struct {
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(id, userID int64) (*updateReservation.Request, error) {
	req := &updateReservation.Request{ID: id, UserID: userID}

	if r.Date != nil {
		date, err := domain.ParseDate(*r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
		}
		req.Date = &date
	}

	if r.StartTime != nil {
		start, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: start: %v", errInvalidTime, err)
		}
		req.StartTime = &start
	}

	if r.EndTime != nil {
		end, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: end: %v", errInvalidTime, err)
		}
		req.EndTime = &end
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateReservation.Response) *reservationModels.ReservationResponse {
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
