package gql

import (
	"context"
	"time"

	reservationModels "github.com/m04kA/SMC-CarReservation/internal/service/reservations/models"
	userModels "github.com/m04kA/SMC-CarReservation/internal/service/users/models"
	createReservation "github.com/m04kA/SMC-CarReservation/internal/usecase/create_reservation"
	getAvailableSlots "github.com/m04kA/SMC-CarReservation/internal/usecase/get_available_slots"
	updateReservation "github.com/m04kA/SMC-CarReservation/internal/usecase/update_reservation"
)

type UserService interface {
	GetByID(ctx context.Context, id int64) (*userModels.UserResponse, error)
}

type ReservationService interface {
	GetByID(ctx context.Context, id int64, userID int64) (*reservationModels.ReservationResponse, error)
	ListAll(ctx context.Context) (*reservationModels.ReservationListResponse, error)
	ListByDate(ctx context.Context, date time.Time) (*reservationModels.ReservationListResponse, error)
	Cancel(ctx context.Context, id int64, userID int64) error
}

type CreateReservationUseCase interface {
	Execute(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error)
}

type UpdateReservationUseCase interface {
	Execute(ctx context.Context, req *updateReservation.Request) (*updateReservation.Response, error)
}

type GetAvailableSlotsUseCase interface {
	Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
