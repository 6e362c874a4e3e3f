package update_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CarReservation/internal/api/handlers"
	"github.com/m04kA/SMC-CarReservation/internal/api/middleware"
	"github.com/m04kA/SMC-CarReservation/internal/availability"
	"github.com/m04kA/SMC-CarReservation/internal/domain"
	updateReservation "github.com/m04kA/SMC-CarReservation/internal/usecase/update_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime          = "некорректный формат времени, ожидается HH:MM"
	msgInvalidInput         = "некорректные данные бронирования"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgMissingUserID        = "отсутствует ID пользователя"
)

type Handler struct {
	useCase UpdateReservationUseCase
	logger  Logger
}

func NewHandler(useCase UpdateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT/PATCH /api/v1/reservations/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("%s /reservations/{id} - Invalid reservation ID: %v", r.Method, err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s /reservations/{id} - Missing user ID", r.Method)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s /reservations/{id} - Invalid request body: %v", r.Method, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(reservationID, userID)
	if err != nil {
		h.logger.Warn("%s /reservations/{id} - Failed to parse request: %v", r.Method, err)
		if errors.Is(err, errInvalidDate) {
			handlers.RespondBadRequest(w, msgInvalidDate)
		} else {
			handlers.RespondBadRequest(w, msgInvalidTime)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateReservation.ErrReservationNotFound):
			h.logger.Warn("%s /reservations/{id} - Reservation not found: reservation_id=%d", r.Method, reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateReservation.ErrAccessDenied):
			h.logger.Warn("%s /reservations/{id} - Access denied: reservation_id=%d, user_id=%d",
				r.Method, reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrOverlapConflict):
			h.logger.Warn("%s /reservations/{id} - Overlap: reservation_id=%d", r.Method, reservationID)
			handlers.RespondConflict(w, availability.UserMessage(err), domain.ConflictingIDs(err))

		case errors.Is(err, domain.ErrInvalidInterval):
			h.logger.Warn("%s /reservations/{id} - Invalid interval: reservation_id=%d", r.Method, reservationID)
			handlers.RespondBadRequest(w, availability.UserMessage(err))

		case errors.Is(err, updateReservation.ErrInvalidInput):
			h.logger.Warn("%s /reservations/{id} - Invalid input: %v", r.Method, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("%s /reservations/{id} - Failed to update reservation: reservation_id=%d, error=%v",
				r.Method, reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s /reservations/{id} - Reservation updated successfully: reservation_id=%d, user_id=%d",
		r.Method, reservationID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
