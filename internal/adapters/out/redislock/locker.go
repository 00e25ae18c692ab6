// Package redislock implements ports.Locker on Redis with SET NX PX and a
// token-checked release, so a run can only free the lock it took.
package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"
)

const keyPrefix = "orderwatch:lock:"

var _ ports.Locker = (*RedisLocker)(nil)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client redis.UniversalClient
}

func NewRedisLocker(client redis.UniversalClient) (*RedisLocker, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	return &RedisLocker{client: client}, nil
}

func (l *RedisLocker) TryAcquire(ctx context.Context, name string, ttl time.Duration) (string, error) {
	if name == "" {
		return "", errs.NewValueIsRequiredError("name")
	}
	if ttl <= 0 {
		return "", errs.NewValueIsInvalidError("ttl")
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, keyPrefix+name, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if !ok {
		return "", errs.ErrLockNotAcquired
	}
	return token, nil
}

// Release is a no-op when the lock already expired or changed hands.
func (l *RedisLocker) Release(ctx context.Context, name, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{keyPrefix + name}, token).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	return nil
}

func (l *RedisLocker) ForceRelease(ctx context.Context, name string) error {
	if err := l.client.Del(ctx, keyPrefix+name).Err(); err != nil {
		return fmt.Errorf("force release lock %s: %w", name, err)
	}
	return nil
}
