package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarReservation/internal/api/middleware"
	"github.com/m04kA/SMC-CarReservation/internal/domain"
	reservationRepo "github.com/m04kA/SMC-CarReservation/internal/infra/storage/reservation"
	getAvailableSlots "github.com/m04kA/SMC-CarReservation/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

type memoryRepo struct {
	reservations []*domain.Reservation
}

func (r memoryRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	for _, reservation := range r.reservations {
		if reservation.ID == id {
			return reservation, nil
		}
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (r memoryRepo) GetByFilter(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, reservation := range r.reservations {
		if filter.Date == nil || reservation.OnDate(*filter.Date) {
			result = append(result, reservation)
		}
	}
	return result, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type missCache struct{}

func (missCache) Get(context.Context, time.Time) ([]*domain.Reservation, bool, error) {
	return nil, false, nil
}

func (missCache) Generation(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (missCache) Set(context.Context, time.Time, int64, []*domain.Reservation) error {
	return nil
}

func newHandler() *Handler {
	date, _ := domain.ParseDate("2025-03-07")
	repo := memoryRepo{reservations: []*domain.Reservation{{
		ID:       1,
		UserID:   5,
		Date:     date,
		Interval: domain.TimeInterval{Start: types.MustTimeString("09:00"), End: types.MustTimeString("12:00")},
	}}}
	uc := getAvailableSlots.NewUseCase(repo, missCache{}, domain.DefaultSlotsConfig(), []int{30, 60}, nopLogger{})
	return NewHandler(uc, nopLogger{})
}

func get(h *Handler, target string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID != 0 {
		req = req.WithContext(middleware.WithUser(req.Context(), userID, "a@b.com", "token"))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func unavailable(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()

	var body AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Slots, 12)

	result := make([]string, 0)
	for _, slot := range body.Slots {
		if !slot.Available {
			result = append(result, slot.StartTime)
		}
	}
	return result
}

func TestHandle_MarksBookedSlots(t *testing.T) {
	rec := get(newHandler(), "/api/v1/available-slots?date=2025-03-07", 0)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, unavailable(t, rec))
}

func TestHandle_ExcludeOwnReservation(t *testing.T) {
	rec := get(newHandler(), "/api/v1/available-slots?date=2025-03-07&excludeId=1", 5)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, unavailable(t, rec))
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		userID int64
		status int
	}{
		{name: "missing date", target: "/api/v1/available-slots", status: http.StatusBadRequest},
		{name: "bad date", target: "/api/v1/available-slots?date=07-03-2025", status: http.StatusBadRequest},
		{name: "bad step", target: "/api/v1/available-slots?date=2025-03-07&step=x", status: http.StatusBadRequest},
		{name: "step not allowed", target: "/api/v1/available-slots?date=2025-03-07&step=45", status: http.StatusBadRequest},
		{name: "anonymous exclude", target: "/api/v1/available-slots?date=2025-03-07&excludeId=1", status: http.StatusForbidden},
		{name: "foreign exclude", target: "/api/v1/available-slots?date=2025-03-07&excludeId=1", userID: 6, status: http.StatusForbidden},
		{name: "unknown exclude", target: "/api/v1/available-slots?date=2025-03-07&excludeId=9", userID: 5, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, get(newHandler(), tt.target, tt.userID).Code)
		})
	}
}
