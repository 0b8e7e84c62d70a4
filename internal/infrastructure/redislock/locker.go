// Package redislock implementa ledger.KeyLocker con bloqueos distribuidos en Redis,
// para despliegues con varias instancias de la API sobre la misma base.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/pkg/config"
	"github.com/jhoicas/service-stock-api/pkg/logger"
)

var _ ledger.KeyLocker = (*Locker)(nil)

const keyPrefix = "stock:lock:"

// Locker bloquea claves (holder, SKU) en Redis.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	log    *logger.Logger
}

// NewClient abre la conexión a Redis y verifica que responda.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Address, err)
	}
	return rdb, nil
}

// New construye el locker. ttl acota cuánto vive un bloqueo huérfano si la instancia muere.
func New(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *Locker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Locker{
		client: redislock.New(rdb),
		ttl:    ttl,
		wait:   ttl,
		log:    log.Component("redislock"),
	}
}

// Lock obtiene todas las claves en orden; si alguna no se consigue dentro de la espera
// libera las ya tomadas y devuelve domain.ErrConflict.
func (l *Locker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = sortedUnique(keys)
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	opts := &redislock.Options{RetryStrategy: redislock.LinearBackoff(25 * time.Millisecond)}
	held := make([]*redislock.Lock, 0, len(keys))
	for _, k := range keys {
		lock, err := l.client.Obtain(waitCtx, keyPrefix+k, l.ttl, opts)
		if err != nil {
			l.release(held)
			if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				l.log.Warn().Str("key", k).Msg("bloqueo redis no obtenido")
				return nil, fmt.Errorf("lock %s: %w", k, domain.ErrConflict)
			}
			return nil, fmt.Errorf("lock %s: %w", k, err)
		}
		held = append(held, lock)
	}
	return func() { l.release(held) }, nil
}

func (l *Locker) release(held []*redislock.Lock) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for i := len(held) - 1; i >= 0; i-- {
		if err := held[i].Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", held[i].Key()).Msg("liberar bloqueo redis")
		}
	}
}

func sortedUnique(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
