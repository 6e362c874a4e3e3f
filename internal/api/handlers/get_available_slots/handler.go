package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CarReservation/internal/api/handlers"
	"github.com/m04kA/SMC-CarReservation/internal/api/middleware"
	"github.com/m04kA/SMC-CarReservation/internal/availability"
	"github.com/m04kA/SMC-CarReservation/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-CarReservation/internal/usecase/get_available_slots"
)

const (
	msgMissingDate    = "дата обязательна"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStep    = "некорректный шаг сетки"
	msgStepNotAllowed = "шаг сетки не поддерживается"
	msgInvalidID      = "некорректный ID бронирования"
	msgNotFound       = "бронирование не найдено"
	msgForbidden      = "доступ запрещен"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots
// Query params: date (required, YYYY-MM-DD), step (optional, minutes), excludeId (optional, own reservation)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var userID *int64
	if id, ok := middleware.GetUserID(r.Context()); ok {
		userID = &id
	}

	useCaseReq, err := ToUseCaseRequest(r.URL.Query(), userID)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid query: %v", err)
		switch {
		case errors.Is(err, errMissingDate):
			handlers.RespondBadRequest(w, msgMissingDate)
		case errors.Is(err, errInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)
		case errors.Is(err, errInvalidStep):
			handlers.RespondBadRequest(w, msgInvalidStep)
		default:
			handlers.RespondBadRequest(w, msgInvalidID)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrStepNotAllowed):
			h.logger.Warn("GET /available-slots - Step not allowed: %v", err)
			handlers.RespondBadRequest(w, msgStepNotAllowed)

		case errors.Is(err, domain.ErrInvalidConfiguration):
			h.logger.Warn("GET /available-slots - Invalid configuration: %v", err)
			handlers.RespondBadRequest(w, availability.UserMessage(err))

		case errors.Is(err, getAvailableSlots.ErrReservationNotFound):
			h.logger.Warn("GET /available-slots - Excluded reservation not found: %v", err)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, getAvailableSlots.ErrAccessDenied):
			h.logger.Warn("GET /available-slots - Access denied: %v", err)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidID)

		default:
			h.logger.Error("GET /available-slots - Failed to get slots: date=%s, error=%v",
				useCaseReq.Date.Format(domain.DateFormat), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-slots - Slots retrieved successfully: date=%s, step=%d, slots_count=%d",
		result.Date.Format(domain.DateFormat), result.StepMinutes, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
