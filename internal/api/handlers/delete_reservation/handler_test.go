package delete_reservation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-CarReservation/internal/api/middleware"
	"github.com/m04kA/SMC-CarReservation/internal/service/reservations"
)

type fakeService struct {
	err error
}

func (s fakeService) Cancel(context.Context, int64, int64) error {
	return s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "deleted", status: http.StatusNoContent},
		{name: "not found", err: reservations.ErrReservationNotFound, status: http.StatusNotFound},
		{name: "foreign", err: reservations.ErrAccessDenied, status: http.StatusForbidden},
		{name: "internal", err: reservations.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := mux.NewRouter()
			router.HandleFunc("/reservations/{id}", NewHandler(fakeService{err: tt.err}, nopLogger{}).Handle)

			req := httptest.NewRequest(http.MethodDelete, "/reservations/4", nil)
			req = req.WithContext(middleware.WithUser(req.Context(), 1, "a@b.com", "token"))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
