package redislock_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/service-stock-api/internal/infrastructure/redislock"
	"github.com/jhoicas/service-stock-api/pkg/config"
)

func TestNewClient_SinServidor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := redislock.NewClient(ctx, config.RedisConfig{Address: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestLocker_SinServidorDevuelveError(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer rdb.Close()
	l := redislock.New(rdb, 200*time.Millisecond, nil)

	unlock, err := l.Lock(context.Background(), "b1|s1")
	assert.Error(t, err)
	assert.Nil(t, unlock)
}
