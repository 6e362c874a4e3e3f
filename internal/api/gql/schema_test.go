package gql

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarReservation/internal/api/middleware"
	"github.com/m04kA/SMC-CarReservation/internal/domain"
	reservationRepo "github.com/m04kA/SMC-CarReservation/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-CarReservation/internal/service/reservations"
	reservationModels "github.com/m04kA/SMC-CarReservation/internal/service/reservations/models"
	userModels "github.com/m04kA/SMC-CarReservation/internal/service/users/models"
	createReservation "github.com/m04kA/SMC-CarReservation/internal/usecase/create_reservation"
	getAvailableSlots "github.com/m04kA/SMC-CarReservation/internal/usecase/get_available_slots"
	updateReservation "github.com/m04kA/SMC-CarReservation/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

var day = time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)

var existing = &domain.Reservation{
	ID:        1,
	UserID:    5,
	Date:      day,
	Interval:  domain.TimeInterval{Start: types.MustTimeString("09:00"), End: types.MustTimeString("12:00")},
	UserEmail: "owner@example.com",
}

type memoryRepo struct{}

func (memoryRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	if id == existing.ID {
		return existing, nil
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (memoryRepo) GetByFilter(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	if filter.Date != nil && !existing.OnDate(*filter.Date) {
		return []*domain.Reservation{}, nil
	}
	return []*domain.Reservation{existing}, nil
}

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

type fakeUsers struct{}

func (fakeUsers) GetByID(_ context.Context, id int64) (*userModels.UserResponse, error) {
	return &userModels.UserResponse{ID: id, Email: "owner@example.com"}, nil
}

type fakeReservations struct {
	cancelErr error
}

func (fakeReservations) GetByID(_ context.Context, id int64, userID int64) (*reservationModels.ReservationResponse, error) {
	if id != existing.ID {
		return nil, reservations.ErrReservationNotFound
	}
	if userID != existing.UserID {
		return nil, reservations.ErrAccessDenied
	}
	return reservationModels.FromDomainReservation(existing), nil
}

func (fakeReservations) ListAll(context.Context) (*reservationModels.ReservationListResponse, error) {
	return reservationModels.FromDomainReservationList([]*domain.Reservation{existing}), nil
}

func (fakeReservations) ListByDate(_ context.Context, date time.Time) (*reservationModels.ReservationListResponse, error) {
	if !existing.OnDate(date) {
		return reservationModels.FromDomainReservationList(nil), nil
	}
	return reservationModels.FromDomainReservationList([]*domain.Reservation{existing}), nil
}

func (f fakeReservations) Cancel(context.Context, int64, int64) error {
	return f.cancelErr
}

// createStub проверяет только пересечение с existing
type createStub struct{}

func (createStub) Execute(_ context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	interval := domain.TimeInterval{Start: req.StartTime, End: req.EndTime}
	if err := interval.Validate(); err != nil {
		return nil, err
	}
	if interval.Overlaps(existing.Interval) {
		return nil, domain.NewOverlapConflictError([]int64{existing.ID})
	}
	return &createReservation.Response{
		ID:        2,
		UserID:    req.UserID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		UserEmail: "driver@example.com",
	}, nil
}

type updateStub struct {
	err error
}

func (s updateStub) Execute(_ context.Context, req *updateReservation.Request) (*updateReservation.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &updateReservation.Response{
		ID:        req.ID,
		UserID:    req.UserID,
		Date:      day,
		StartTime: existing.Interval.Start,
		EndTime:   *req.EndTime,
	}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newSchema(t *testing.T, update updateStub, service fakeReservations) graphql.Schema {
	t.Helper()

	slots := getAvailableSlots.NewUseCase(memoryRepo{}, missCache{}, domain.DefaultSlotsConfig(), []int{30, 60}, nopLogger{})
	schema, err := NewSchema(&Resolvers{
		Users:             fakeUsers{},
		Reservations:      service,
		CreateReservation: createStub{},
		UpdateReservation: update,
		AvailableSlots:    slots,
		Logger:            nopLogger{},
	})
	require.NoError(t, err)
	return schema
}

func run(t *testing.T, schema graphql.Schema, userID int64, query string, out interface{}) []string {
	t.Helper()

	ctx := context.Background()
	if userID != 0 {
		ctx = middleware.WithUser(ctx, userID, "owner@example.com", "token")
	}

	result := graphql.Do(graphql.Params{Schema: schema, RequestString: query, Context: ctx})

	messages := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		messages = append(messages, e.Message)
	}

	raw, err := json.Marshal(result.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
	return messages
}

func TestAvailableSlots(t *testing.T) {
	schema := newSchema(t, updateStub{}, fakeReservations{})

	var data struct {
		AvailableSlots struct {
			StepMinutes int `json:"stepMinutes"`
			Slots       []struct {
				StartTime string `json:"startTime"`
				Available bool   `json:"available"`
			} `json:"slots"`
		} `json:"availableSlots"`
	}
	errs := run(t, schema, 0, `{ availableSlots(date: "2025-03-07") { stepMinutes slots { startTime available } } }`, &data)
	require.Empty(t, errs)

	require.Len(t, data.AvailableSlots.Slots, 12)
	assert.Equal(t, 60, data.AvailableSlots.StepMinutes)

	var busy []string
	for _, slot := range data.AvailableSlots.Slots {
		if !slot.Available {
			busy = append(busy, slot.StartTime)
		}
	}
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, busy)
}

func TestAvailableSlots_ExcludeOwnReservation(t *testing.T) {
	schema := newSchema(t, updateStub{}, fakeReservations{})

	var data struct {
		AvailableSlots struct {
			Slots []struct {
				Available bool `json:"available"`
			} `json:"slots"`
		} `json:"availableSlots"`
	}
	errs := run(t, schema, 5, `{ availableSlots(date: "2025-03-07", excludeId: "1") { slots { available } } }`, &data)
	require.Empty(t, errs)

	for _, slot := range data.AvailableSlots.Slots {
		assert.True(t, slot.Available)
	}
}

func TestAvailableSlots_ExcludeRequiresAuth(t *testing.T) {
	schema := newSchema(t, updateStub{}, fakeReservations{})

	var data map[string]interface{}
	errs := run(t, schema, 0, `{ availableSlots(date: "2025-03-07", excludeId: "1") { date } }`, &data)
	assert.Equal(t, []string{msgForbidden}, errs)
}

func TestCreateReservation(t *testing.T) {
	tests := []struct {
		name          string
		start, end    string
		wantCreated   bool
		wantConflicts []string
	}{
		{name: "adjacent after", start: "12:00", end: "13:00", wantCreated: true},
		{name: "adjacent before", start: "08:00", end: "09:00", wantCreated: true},
		{name: "overlap", start: "11:00", end: "13:00", wantConflicts: []string{"1"}},
		{name: "empty interval", start: "10:00", end: "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := newSchema(t, updateStub{}, fakeReservations{})

			var data struct {
				CreateReservation struct {
					Reservation *struct {
						ID        string `json:"id"`
						StartTime string `json:"startTime"`
					} `json:"reservation"`
					Errors         []string `json:"errors"`
					ConflictingIDs []string `json:"conflictingIds"`
				} `json:"createReservation"`
			}
			query := `mutation { createReservation(date: "2025-03-07", startTime: "` + tt.start + `", endTime: "` + tt.end + `") {
				reservation { id startTime } errors conflictingIds } }`
			errs := run(t, schema, 7, query, &data)
			require.Empty(t, errs)

			payload := data.CreateReservation
			if tt.wantCreated {
				require.NotNil(t, payload.Reservation)
				assert.Equal(t, "2", payload.Reservation.ID)
				assert.Equal(t, tt.start, payload.Reservation.StartTime)
				assert.Empty(t, payload.Errors)
				return
			}

			assert.Nil(t, payload.Reservation)
			assert.Len(t, payload.Errors, 1)
			assert.Equal(t, tt.wantConflicts, payload.ConflictingIDs)
		})
	}
}

func TestCreateReservation_RequiresAuth(t *testing.T) {
	schema := newSchema(t, updateStub{}, fakeReservations{})

	var data struct {
		CreateReservation struct {
			Errors []string `json:"errors"`
		} `json:"createReservation"`
	}
	errs := run(t, schema, 0, `mutation { createReservation(date: "2025-03-07", startTime: "12:00", endTime: "13:00") { errors } }`, &data)
	require.Empty(t, errs)
	assert.Equal(t, []string{msgUnauthorized}, data.CreateReservation.Errors)
}

func TestUpdateReservation(t *testing.T) {
	schema := newSchema(t, updateStub{}, fakeReservations{})

	var data struct {
		UpdateReservation struct {
			Reservation struct {
				EndTime string `json:"endTime"`
			} `json:"reservation"`
			Errors []string `json:"errors"`
		} `json:"updateReservation"`
	}
	errs := run(t, schema, 5, `mutation { updateReservation(id: "1", endTime: "13:00") { reservation { endTime } errors } }`, &data)
	require.Empty(t, errs)

	assert.Equal(t, "13:00", data.UpdateReservation.Reservation.EndTime)
	assert.Empty(t, data.UpdateReservation.Errors)
}

func TestUpdateReservation_NotOwner(t *testing.T) {
	schema := newSchema(t, updateStub{err: updateReservation.ErrAccessDenied}, fakeReservations{})

	var data struct {
		UpdateReservation struct {
			Errors []string `json:"errors"`
		} `json:"updateReservation"`
	}
	errs := run(t, schema, 6, `mutation { updateReservation(id: "1", endTime: "13:00") { errors } }`, &data)
	require.Empty(t, errs)
	assert.Equal(t, []string{msgForbidden}, data.UpdateReservation.Errors)
}

func TestDeleteReservation(t *testing.T) {
	tests := []struct {
		name        string
		cancelErr   error
		wantSuccess bool
		wantErrors  []string
	}{
		{name: "success", wantSuccess: true, wantErrors: []string{}},
		{name: "not found", cancelErr: reservations.ErrReservationNotFound, wantErrors: []string{msgNotFound}},
		{name: "not owner", cancelErr: reservations.ErrAccessDenied, wantErrors: []string{msgForbidden}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := newSchema(t, updateStub{}, fakeReservations{cancelErr: tt.cancelErr})

			var data struct {
				DeleteReservation struct {
					Success bool     `json:"success"`
					Errors  []string `json:"errors"`
				} `json:"deleteReservation"`
			}
			errs := run(t, schema, 5, `mutation { deleteReservation(id: "1") { success errors } }`, &data)
			require.Empty(t, errs)

			assert.Equal(t, tt.wantSuccess, data.DeleteReservation.Success)
			assert.Equal(t, tt.wantErrors, data.DeleteReservation.Errors)
		})
	}
}

func TestQueries(t *testing.T) {
	schema := newSchema(t, updateStub{}, fakeReservations{})

	var data struct {
		Me *struct {
			ID string `json:"id"`
		} `json:"me"`
		Reservations []struct {
			ID       string `json:"id"`
			UserName string `json:"userName"`
		} `json:"reservations"`
		Reservation *struct {
			StartTime string `json:"startTime"`
		} `json:"reservation"`
		ReservationsByDate []struct {
			ID string `json:"id"`
		} `json:"reservationsByDate"`
	}
	errs := run(t, schema, 5, `{
		me { id }
		reservations { id userName }
		reservation(id: "1") { startTime }
		reservationsByDate(date: "2025-03-08") { id }
	}`, &data)
	require.Empty(t, errs)

	require.NotNil(t, data.Me)
	assert.Equal(t, "5", data.Me.ID)
	require.Len(t, data.Reservations, 1)
	assert.Equal(t, "owner", data.Reservations[0].UserName)
	require.NotNil(t, data.Reservation)
	assert.Equal(t, "09:00", data.Reservation.StartTime)
	assert.Empty(t, data.ReservationsByDate)
}

func TestMe_Anonymous(t *testing.T) {
	schema := newSchema(t, updateStub{}, fakeReservations{})

	var data struct {
		Me *struct {
			ID string `json:"id"`
		} `json:"me"`
	}
	errs := run(t, schema, 0, `{ me { id } }`, &data)
	require.Empty(t, errs)
	assert.Nil(t, data.Me)
}
