package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/logger"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/port"
	"github.com/MuhammadSaranKhalid/walldecorator-admin-sub000/internal/uuid"
	"github.com/redis/go-redis/v9"
)

// only the holder of the token may release the claim
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
}

// compile-time check: *RedisLocker must satisfy port.Locker
var _ port.Locker = (*RedisLocker)(nil)

func NewRedisLocker(addr, password string) *RedisLocker {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &RedisLocker{client: rdb}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	token := uuid.NewUUID().String()

	ok, err := l.client.SetNX(ctx, getLockKey(key), token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis setnx failed: %w", err)
	}
	if !ok {
		logger.Infof(ctx, "claim %q is held by another run", key)
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{getLockKey(key)}, token).Err(); err != nil {
			return fmt.Errorf("redis release failed: %w", err)
		}
		return nil
	}
	return release, true, nil
}

func (l *RedisLocker) Close() error {
	return l.client.Close()
}

func getLockKey(key string) string {
	return "lock:" + key
}
