package update_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
	"github.com/m04kA/SMC-CarReservation/internal/infra/events"
	reservationRepo "github.com/m04kA/SMC-CarReservation/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-CarReservation/pkg/ptr"
	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

var day = time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)

type fakeRepo struct {
	reservations map[int64]*domain.Reservation
	updated      []*domain.Reservation
}

func newFakeRepo(reservations ...*domain.Reservation) *fakeRepo {
	repo := &fakeRepo{reservations: make(map[int64]*domain.Reservation)}
	for _, r := range reservations {
		repo.reservations[r.ID] = r
	}
	return repo
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	reservation, ok := r.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *reservation
	return &copied, nil
}

func (r *fakeRepo) GetByFilter(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, reservation := range r.reservations {
		if filter.Date != nil && !reservation.OnDate(*filter.Date) {
			continue
		}
		result = append(result, reservation)
	}
	return result, nil
}

func (r *fakeRepo) Update(_ context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	r.updated = append(r.updated, reservation)
	r.reservations[reservation.ID] = reservation
	return reservation, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
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
}

func (p *fakePublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

type nopMetrics struct{}

func (nopMetrics) IncReservationUpdated()        {}
func (nopMetrics) IncReservationConflict(string) {}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func reservationAt(id, owner int64, start, end string) *domain.Reservation {
	return &domain.Reservation{
		ID:     id,
		UserID: owner,
		Date:   day,
		Interval: domain.TimeInterval{
			Start: types.MustTimeString(start),
			End:   types.MustTimeString(end),
		},
	}
}

func timePtr(s string) *types.TimeString {
	return ptr.Ptr(types.MustTimeString(s))
}

func newUseCase(repo *fakeRepo) (*UseCase, *fakeCache, *fakePublisher) {
	cache := &fakeCache{}
	publisher := &fakePublisher{}
	return NewUseCase(repo, fakeTxManager{}, cache, publisher, nopMetrics{}, nopLogger{}), cache, publisher
}

func TestExecute_ResizeWithinOwnInterval(t *testing.T) {
	repo := newFakeRepo(reservationAt(1, 5, "09:00", "12:00"))
	uc, cache, publisher := newUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{ID: 1, UserID: 5, EndTime: timePtr("13:00")})
	require.NoError(t, err)

	assert.Equal(t, types.MustTimeString("09:00"), resp.StartTime)
	assert.Equal(t, types.MustTimeString("13:00"), resp.EndTime)
	assert.Equal(t, []time.Time{day, day}, cache.invalidated)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, domain.EventReservationUpdated, publisher.events[0].Type)
}

func TestExecute_NoChangesStillValidated(t *testing.T) {
	repo := newFakeRepo(reservationAt(1, 5, "09:00", "12:00"))
	uc, _, _ := newUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{ID: 1, UserID: 5})
	require.NoError(t, err)
	assert.Len(t, repo.updated, 1)
}

func TestExecute_OverlapWithAnotherReservation(t *testing.T) {
	repo := newFakeRepo(
		reservationAt(1, 5, "09:00", "10:00"),
		reservationAt(2, 6, "11:00", "12:00"),
	)
	uc, cache, _ := newUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{ID: 1, UserID: 5, EndTime: timePtr("11:30")})

	require.ErrorIs(t, err, domain.ErrOverlapConflict)
	assert.Equal(t, []int64{2}, domain.ConflictingIDs(err))
	assert.Empty(t, repo.updated)
	assert.Empty(t, cache.invalidated)
}

func TestExecute_InvalidInterval(t *testing.T) {
	repo := newFakeRepo(reservationAt(1, 5, "09:00", "12:00"))
	uc, _, _ := newUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{ID: 1, UserID: 5, StartTime: timePtr("12:00")})
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
}

func TestExecute_MoveToAnotherDate(t *testing.T) {
	repo := newFakeRepo(
		reservationAt(1, 5, "09:00", "12:00"),
		reservationAt(2, 6, "13:00", "14:00"),
	)
	uc, cache, _ := newUseCase(repo)
	nextDay := day.AddDate(0, 0, 1)

	resp, err := uc.Execute(context.Background(), &Request{
		ID:        1,
		UserID:    5,
		Date:      &nextDay,
		StartTime: timePtr("13:00"),
		EndTime:   timePtr("14:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, nextDay, resp.Date)
	assert.Equal(t, []time.Time{day, nextDay}, cache.invalidated)
}

func TestExecute_NotOwner(t *testing.T) {
	repo := newFakeRepo(reservationAt(1, 5, "09:00", "12:00"))
	uc, _, _ := newUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{ID: 1, UserID: 6, EndTime: timePtr("13:00")})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_NotFound(t *testing.T) {
	uc, _, _ := newUseCase(newFakeRepo())

	_, err := uc.Execute(context.Background(), &Request{ID: 42, UserID: 5})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc, _, _ := newUseCase(newFakeRepo())

	_, err := uc.Execute(context.Background(), &Request{ID: 0, UserID: 5})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
