package list_reservations

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CarReservation/internal/api/handlers"
	"github.com/m04kA/SMC-CarReservation/internal/domain"
	"github.com/m04kA/SMC-CarReservation/internal/service/reservations/models"
)

const msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations
// Query params: date (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "GET /reservations", r.URL.Query().Get("date"))
}

// HandleByDate GET /api/v1/reservations/by_date/{date}
func (h *Handler) HandleByDate(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "GET /reservations/by_date/{date}", mux.Vars(r)["date"])
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, route, dateStr string) {
	var (
		result *models.ReservationListResponse
		err    error
	)

	if dateStr == "" {
		result, err = h.service.ListAll(r.Context())
	} else {
		date, parseErr := domain.ParseDate(dateStr)
		if parseErr != nil {
			h.logger.Warn("%s - Invalid date: %v", route, parseErr)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		result, err = h.service.ListByDate(r.Context(), date)
	}

	if err != nil {
		h.logger.Error("%s - Failed to list reservations: date=%q, error=%v", route, dateStr, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("%s - Reservations retrieved successfully: date=%q, count=%d", route, dateStr, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
