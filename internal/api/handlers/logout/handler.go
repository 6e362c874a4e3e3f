package logout

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CarReservation/internal/api/handlers"
	"github.com/m04kA/SMC-CarReservation/internal/api/middleware"
	"github.com/m04kA/SMC-CarReservation/internal/service/users"
)

const msgMissingToken = "требуется авторизация"

type Handler struct {
	service UserService
	logger  Logger
}

func NewHandler(service UserService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/logout
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	raw, ok := middleware.GetToken(r.Context())
	if !ok {
		h.logger.Warn("DELETE /logout - Missing token")
		handlers.RespondUnauthorized(w, msgMissingToken)
		return
	}

	if err := h.service.Logout(r.Context(), raw); err != nil {
		if errors.Is(err, users.ErrUnauthorized) {
			h.logger.Warn("DELETE /logout - Invalid token")
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}
		h.logger.Error("DELETE /logout - Failed to logout: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	email, _ := middleware.GetEmail(r.Context())
	h.logger.Info("DELETE /logout - User logged out: user_id=%d, email=%s", userID, email)
	w.WriteHeader(http.StatusNoContent)
}
