// Package cache adapta Redis para la caché del dashboard y el bloqueo de importaciones.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/sitetrack-api/internal/application/analytics"
	"github.com/jhoicas/sitetrack-api/internal/application/inventory"
	"github.com/jhoicas/sitetrack-api/internal/domain"
)

var (
	_ analytics.StatsCache   = (*StatsCache)(nil)
	_ inventory.ImportLocker = (*Locker)(nil)
)

const keyPrefix = "sitetrack:"

// Connect abre el cliente y verifica la conexión con PING.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
		PoolSize: 20,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// StatsCache guarda payloads serializados con un TTL fijo.
type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsCache{rdb: rdb, ttl: ttl}
}

// Get devuelve (nil, false, nil) si la clave no existe.
func (c *StatsCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

func (c *StatsCache) Set(ctx context.Context, key string, value []byte) error {
	return c.rdb.Set(ctx, keyPrefix+key, value, c.ttl).Err()
}

// Locker bloqueo distribuido con redislock. Reintenta hasta wait antes de rendirse.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
}

func NewLocker(rdb *redis.Client, ttl, wait time.Duration) *Locker {
	return &Locker{client: redislock.New(rdb), ttl: ttl, wait: wait}
}

// Acquire obtiene el bloqueo de key. Si otro proceso lo mantiene más de wait devuelve ErrConflict.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	retries := int(l.wait / (250 * time.Millisecond))
	lock, err := l.client.Obtain(ctx, keyPrefix+"lock:"+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(250*time.Millisecond), retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("bloqueo %s ocupado: %w", key, domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener bloqueo %s: %w", key, err)
	}
	return func() {
		// contexto propio: la petición pudo haberse cancelado
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el bloqueo")
		}
	}, nil
}
