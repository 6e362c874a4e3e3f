package tokens

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auth:revoked:"

// ErrDenylist ошибка обращения к хранилищу отозванных токенов
var ErrDenylist = errors.New("tokens.denylist: storage error")

// RedisDenylist отозванные токены в Redis, запись живет до истечения токена
type RedisDenylist struct {
	rdb redis.Cmdable
	now func() time.Time
}

func NewRedisDenylist(rdb redis.Cmdable) *RedisDenylist {
	return &RedisDenylist{rdb: rdb, now: time.Now}
}

// Revoke помечает токен отозванным до момента until
func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.rdb.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", ErrDenylist, err)
	}
	return nil
}

// IsRevoked токен был отозван
func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: exists: %v", ErrDenylist, err)
	}
	return n > 0, nil
}

// MemoryDenylist отозванные токены в памяти процесса (Redis выключен)
type MemoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{revoked: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for id, expiresAt := range d.revoked {
		if !now.Before(expiresAt) {
			delete(d.revoked, id)
		}
	}

	if now.Before(until) {
		d.revoked[tokenID] = until
	}
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	expiresAt, ok := d.revoked[tokenID]
	if !ok {
		return false, nil
	}
	return d.now().Before(expiresAt), nil
}
