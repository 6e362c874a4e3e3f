package create_reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
	"github.com/m04kA/SMC-CarReservation/internal/infra/events"
	reservationRepo "github.com/m04kA/SMC-CarReservation/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

var day = time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)

type fakeRepo struct {
	reservations []*domain.Reservation
	nextID       int64
	createErr    error
	filterErr    error
}

func (r *fakeRepo) Create(_ context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	reservation.ID = r.nextID
	reservation.UserEmail = "driver@example.com"
	r.reservations = append(r.reservations, reservation)
	return reservation, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	for _, reservation := range r.reservations {
		if reservation.ID == id {
			return reservation, nil
		}
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (r *fakeRepo) GetByFilter(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	if r.filterErr != nil {
		return nil, r.filterErr
	}
	result := make([]*domain.Reservation, 0)
	for _, reservation := range r.reservations {
		if filter.Date != nil && !reservation.OnDate(*filter.Date) {
			continue
		}
		result = append(result, reservation)
	}
	return result, nil
}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type fakeCache struct {
	invalidated []time.Time
}

func (c *fakeCache) Invalidate(_ context.Context, dates ...time.Time) error {
	c.invalidated = append(c.invalidated, dates...)
	return nil
}

type fakePublisher struct {
	events []events.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type fakeMetrics struct {
	created   int
	conflicts map[string]int
}

func (m *fakeMetrics) IncReservationCreated() {
	m.created++
}

func (m *fakeMetrics) IncReservationConflict(reason string) {
	if m.conflicts == nil {
		m.conflicts = make(map[string]int)
	}
	m.conflicts[reason]++
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	repo      *fakeRepo
	tx        *fakeTxManager
	cache     *fakeCache
	publisher *fakePublisher
	metrics   *fakeMetrics
	uc        *UseCase
}

func newFixture(existing ...*domain.Reservation) *fixture {
	f := &fixture{
		repo:      &fakeRepo{reservations: existing, nextID: 100},
		tx:        &fakeTxManager{},
		cache:     &fakeCache{},
		publisher: &fakePublisher{},
		metrics:   &fakeMetrics{},
	}
	f.uc = NewUseCase(f.repo, f.tx, f.cache, f.publisher, f.metrics, nopLogger{})
	return f
}

func existingReservation(id int64, start, end string) *domain.Reservation {
	return &domain.Reservation{
		ID:     id,
		UserID: 9,
		Date:   day,
		Interval: domain.TimeInterval{
			Start: types.MustTimeString(start),
			End:   types.MustTimeString(end),
		},
	}
}

func request(start, end string) *Request {
	return &Request{
		UserID:    1,
		Date:      day,
		StartTime: types.MustTimeString(start),
		EndTime:   types.MustTimeString(end),
	}
}

func TestExecute_AcceptsAdjacentReservations(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{name: "right after", start: "12:00", end: "13:00"},
		{name: "right before", start: "08:00", end: "09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(existingReservation(1, "09:00", "12:00"))

			resp, err := f.uc.Execute(context.Background(), request(tt.start, tt.end))
			require.NoError(t, err)

			assert.Equal(t, int64(101), resp.ID)
			assert.Equal(t, types.MustTimeString(tt.start), resp.StartTime)
			assert.Equal(t, types.MustTimeString(tt.end), resp.EndTime)
			assert.Equal(t, "driver@example.com", resp.UserEmail)
			assert.Equal(t, 1, f.tx.calls)
			assert.Equal(t, []time.Time{day}, f.cache.invalidated)
			require.Len(t, f.publisher.events, 1)
			assert.Equal(t, domain.EventReservationCreated, f.publisher.events[0].Type)
			assert.Equal(t, 1, f.metrics.created)
		})
	}
}

func TestExecute_RejectsOverlap(t *testing.T) {
	f := newFixture(existingReservation(1, "09:00", "12:00"))

	_, err := f.uc.Execute(context.Background(), request("11:00", "13:00"))

	require.ErrorIs(t, err, domain.ErrOverlapConflict)
	assert.Equal(t, []int64{1}, domain.ConflictingIDs(err))
	assert.Len(t, f.repo.reservations, 1)
	assert.Empty(t, f.cache.invalidated)
	assert.Empty(t, f.publisher.events)
	assert.Equal(t, 1, f.metrics.conflicts["overlap"])
}

func TestExecute_RejectsEmptyInterval(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), request("10:00", "10:00"))

	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
	assert.Equal(t, 0, f.tx.calls)
	assert.Equal(t, 1, f.metrics.conflicts["invalid_interval"])
}

func TestExecute_StorageConstraintIsOverlap(t *testing.T) {
	f := newFixture()
	f.repo.createErr = reservationRepo.ErrOverlapConflict

	_, err := f.uc.Execute(context.Background(), request("10:00", "11:00"))

	assert.ErrorIs(t, err, domain.ErrOverlapConflict)
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{name: "nil", req: nil},
		{name: "no user", req: &Request{Date: day, StartTime: "10:00", EndTime: "11:00"}},
		{name: "no date", req: &Request{UserID: 1, StartTime: "10:00", EndTime: "11:00"}},
		{name: "no end", req: &Request{UserID: 1, Date: day, StartTime: "10:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_RepositoryError(t *testing.T) {
	f := newFixture()
	f.repo.filterErr = errors.New("db down")

	_, err := f.uc.Execute(context.Background(), request("10:00", "11:00"))
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("broker down")

	resp, err := f.uc.Execute(context.Background(), request("10:00", "11:00"))
	require.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestExecute_OtherDateDoesNotConflict(t *testing.T) {
	f := newFixture(existingReservation(1, "09:00", "12:00"))
	req := request("10:00", "11:00")
	req.Date = day.AddDate(0, 0, 1)

	_, err := f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}
