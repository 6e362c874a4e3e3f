package reservations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
)

const (
	keyPrefix        = "reservations:date:"
	generationPrefix = "reservations:generation:"

	// generationTTL счетчик живет дольше любого чтения из БД между Generation и Set
	generationTTL = 24 * time.Hour
)

var (
	// ErrCache ошибка обращения к Redis
	ErrCache = errors.New("reservations.cache: redis error")

	// ErrDecode в кеше лежит значение, которое не удалось разобрать
	ErrDecode = errors.New("reservations.cache: failed to decode value")

	errStale = errors.New("reservations.cache: generation changed")
)

// Cache кеш бронирований по дате в Redis.
// Заполняется при чтении и сбрасывается после каждой записи в эту дату.
// У каждой даты есть счетчик поколений: Invalidate увеличивает его, а Set записывает
// значение, только если счетчик не изменился с момента Generation. Так чтение из БД,
// начатое до записи, не вернет в кеш устаревший набор.
type Cache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewCache создает кеш поверх клиента Redis
func NewCache(rdb redis.UniversalClient, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get возвращает бронирования даты; found=false при промахе
func (c *Cache) Get(ctx context.Context, date time.Time) ([]*domain.Reservation, bool, error) {
	raw, err := c.rdb.Get(ctx, Key(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get: %v", ErrCache, err)
	}

	var entries []cachedReservation
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	reservations := make([]*domain.Reservation, len(entries))
	for i, entry := range entries {
		reservation, err := entry.toDomain()
		if err != nil {
			return nil, false, fmt.Errorf("%w: entry %d: %v", ErrDecode, entry.ID, err)
		}
		reservations[i] = reservation
	}
	return reservations, true, nil
}

// Generation текущее поколение даты; читать до обращения к БД
func (c *Cache) Generation(ctx context.Context, date time.Time) (int64, error) {
	generation, err := c.rdb.Get(ctx, GenerationKey(date)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: get generation: %v", ErrCache, err)
	}
	return generation, nil
}

// Set сохраняет бронирования даты, если с момента чтения generation дату не сбрасывали.
// Устаревшая запись молча пропускается.
func (c *Cache) Set(ctx context.Context, date time.Time, generation int64, reservations []*domain.Reservation) error {
	entries := make([]cachedReservation, len(reservations))
	for i, reservation := range reservations {
		entries[i] = fromDomain(reservation)
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrCache, err)
	}

	generationKey := GenerationKey(date)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStale
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, Key(date), raw, c.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case err == nil, errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		return nil
	default:
		return fmt.Errorf("%w: set: %v", ErrCache, err)
	}
}

// Invalidate удаляет записи указанных дат и увеличивает их поколения
func (c *Cache) Invalidate(ctx context.Context, dates ...time.Time) error {
	if len(dates) == 0 {
		return nil
	}

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, date := range dates {
			pipe.Incr(ctx, GenerationKey(date))
			pipe.Expire(ctx, GenerationKey(date), generationTTL)
			pipe.Del(ctx, Key(date))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: invalidate: %v", ErrCache, err)
	}
	return nil
}

// Key ключ Redis для даты
func Key(date time.Time) string {
	return keyPrefix + date.Format(domain.DateFormat)
}

// GenerationKey ключ счетчика поколений даты
func GenerationKey(date time.Time) string {
	return generationPrefix + date.Format(domain.DateFormat)
}

// NoopCache используется, когда Redis выключен: всегда промах
type NoopCache struct{}

func (NoopCache) Get(context.Context, time.Time) ([]*domain.Reservation, bool, error) {
	return nil, false, nil
}

func (NoopCache) Generation(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (NoopCache) Set(context.Context, time.Time, int64, []*domain.Reservation) error {
	return nil
}

func (NoopCache) Invalidate(context.Context, ...time.Time) error {
	return nil
}
