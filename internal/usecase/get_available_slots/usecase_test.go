package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
	reservationRepo "github.com/m04kA/SMC-CarReservation/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-CarReservation/pkg/ptr"
	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

var day = time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)

type fakeRepo struct {
	reservations []*domain.Reservation
	filterCalls  int
	filterErr    error

	// afterRead выполняется один раз, когда результат выборки уже сформирован
	afterRead func()
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
	r.filterCalls++
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
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return result, nil
}

// memoryCache повторяет поведение Redis кеша: Set с устаревшим поколением пропускается
type memoryCache struct {
	entries     map[string][]*domain.Reservation
	generations map[string]int64
	getErr      error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		entries:     make(map[string][]*domain.Reservation),
		generations: make(map[string]int64),
	}
}

func (c *memoryCache) Generation(_ context.Context, date time.Time) (int64, error) {
	return c.generations[date.Format(domain.DateFormat)], nil
}

func (c *memoryCache) Invalidate(_ context.Context, dates ...time.Time) error {
	for _, date := range dates {
		key := date.Format(domain.DateFormat)
		c.generations[key]++
		delete(c.entries, key)
	}
	return nil
}

func (c *memoryCache) Get(_ context.Context, date time.Time) ([]*domain.Reservation, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	reservations, ok := c.entries[date.Format(domain.DateFormat)]
	return reservations, ok, nil
}

func (c *memoryCache) Set(_ context.Context, date time.Time, generation int64, reservations []*domain.Reservation) error {
	key := date.Format(domain.DateFormat)
	if c.generations[key] != generation {
		return nil
	}
	c.entries[key] = reservations
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func morningReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:     1,
		UserID: 5,
		Date:   day,
		Interval: domain.TimeInterval{
			Start: types.MustTimeString("09:00"),
			End:   types.MustTimeString("12:00"),
		},
	}
}

func newUseCase(repo *fakeRepo, cache *memoryCache) *UseCase {
	return NewUseCase(repo, cache, domain.DefaultSlotsConfig(), []int{30, 60}, nopLogger{})
}

func unavailableStarts(slots []Slot) []string {
	result := make([]string, 0)
	for _, slot := range slots {
		if !slot.Available {
			result = append(result, slot.StartTime.String())
		}
	}
	return result
}

func TestExecute_MarksBookedSlots(t *testing.T) {
	uc := newUseCase(&fakeRepo{reservations: []*domain.Reservation{morningReservation()}}, newMemoryCache())

	resp, err := uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)

	assert.Equal(t, 60, resp.StepMinutes)
	assert.Equal(t, types.MustTimeString("08:00"), resp.DayStart)
	assert.Equal(t, types.MustTimeString("20:00"), resp.DayEnd)
	require.Len(t, resp.Slots, 12)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, unavailableStarts(resp.Slots))
	assert.Equal(t, types.MustTimeString("19:00"), resp.Slots[11].StartTime)
	assert.Equal(t, types.MustTimeString("20:00"), resp.Slots[11].EndTime)
}

func TestExecute_ExcludeOwnReservation(t *testing.T) {
	uc := newUseCase(&fakeRepo{reservations: []*domain.Reservation{morningReservation()}}, newMemoryCache())

	resp, err := uc.Execute(context.Background(), &Request{
		Date:      day,
		ExcludeID: ptr.Ptr(int64(1)),
		UserID:    ptr.Ptr(int64(5)),
	})
	require.NoError(t, err)
	assert.Empty(t, unavailableStarts(resp.Slots))
}

func TestExecute_ExcludeForeignReservation(t *testing.T) {
	uc := newUseCase(&fakeRepo{reservations: []*domain.Reservation{morningReservation()}}, newMemoryCache())

	_, err := uc.Execute(context.Background(), &Request{
		Date:      day,
		ExcludeID: ptr.Ptr(int64(1)),
		UserID:    ptr.Ptr(int64(6)),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_ExcludeRequiresUser(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, newMemoryCache())

	_, err := uc.Execute(context.Background(), &Request{Date: day, ExcludeID: ptr.Ptr(int64(1))})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_ExcludeUnknownReservation(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, newMemoryCache())

	_, err := uc.Execute(context.Background(), &Request{
		Date:      day,
		ExcludeID: ptr.Ptr(int64(7)),
		UserID:    ptr.Ptr(int64(5)),
	})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_StepOverride(t *testing.T) {
	uc := newUseCase(&fakeRepo{reservations: []*domain.Reservation{morningReservation()}}, newMemoryCache())

	resp, err := uc.Execute(context.Background(), &Request{Date: day, StepMinutes: ptr.Ptr(30)})
	require.NoError(t, err)

	assert.Equal(t, 30, resp.StepMinutes)
	assert.Len(t, resp.Slots, 24)
	assert.Len(t, unavailableStarts(resp.Slots), 6)
}

func TestExecute_StepNotAllowed(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, newMemoryCache())

	_, err := uc.Execute(context.Background(), &Request{Date: day, StepMinutes: ptr.Ptr(45)})
	assert.ErrorIs(t, err, ErrStepNotAllowed)
}

func TestExecute_ReadThroughCache(t *testing.T) {
	repo := &fakeRepo{reservations: []*domain.Reservation{morningReservation()}}
	cache := newMemoryCache()
	uc := newUseCase(repo, cache)

	_, err := uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.filterCalls)
	assert.Len(t, cache.entries, 1)
}

func TestExecute_CacheErrorFallsBackToRepository(t *testing.T) {
	repo := &fakeRepo{reservations: []*domain.Reservation{morningReservation()}}
	cache := newMemoryCache()
	cache.getErr = errors.New("redis down")
	uc := newUseCase(repo, cache)

	resp, err := uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	assert.Len(t, unavailableStarts(resp.Slots), 3)
}

func TestExecute_RepositoryError(t *testing.T) {
	uc := newUseCase(&fakeRepo{filterErr: errors.New("db down")}, newMemoryCache())

	_, err := uc.Execute(context.Background(), &Request{Date: day})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, newMemoryCache())

	_, err := uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_InvalidConfiguration(t *testing.T) {
	cfg := domain.SlotsConfig{
		DayStart:    types.MustTimeString("20:00"),
		DayEnd:      types.MustTimeString("08:00"),
		StepMinutes: 60,
	}
	uc := NewUseCase(&fakeRepo{}, newMemoryCache(), cfg, []int{60}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{Date: day})
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestExecute_WriteDuringReadIsNotCached(t *testing.T) {
	repo := &fakeRepo{}
	cache := newMemoryCache()
	uc := newUseCase(repo, cache)

	// Бронирование коммитится и сбрасывает кеш, пока первый запрос читает из БД
	repo.afterRead = func() {
		repo.reservations = append(repo.reservations, morningReservation())
		require.NoError(t, cache.Invalidate(context.Background(), day))
	}

	first, err := uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	assert.Empty(t, unavailableStarts(first.Slots))

	second, err := uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, unavailableStarts(second.Slots))
	assert.Equal(t, 2, repo.filterCalls)

	third, err := uc.Execute(context.Background(), &Request{Date: day})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, unavailableStarts(third.Slots))
	assert.Equal(t, 2, repo.filterCalls)
}
