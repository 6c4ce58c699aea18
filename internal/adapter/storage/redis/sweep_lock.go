package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still carries the caller's token,
// so a holder whose TTL lapsed cannot free a lock someone else now holds.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript pushes the expiry out only while the caller still holds the
// lock.
var refreshScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// SweepLock implements ports.SweepLock with SET NX PX.
type SweepLock struct {
	client goredis.UniversalClient
	prefix string
}

// NewSweepLock creates a Redis-backed sweep lock.
func NewSweepLock(client goredis.UniversalClient) *SweepLock {
	return &SweepLock{client: client, prefix: "umkm:lock:"}
}

// Acquire tries to take the named lock for ttl. ok is false if another
// holder has it.
func (l *SweepLock) Acquire(ctx context.Context, name string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	_, err := l.client.SetArgs(ctx, l.prefix+name, token, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis lock acquire: %w", err)
	}
	return token, true, nil
}

// Refresh resets the lock TTL if token still owns it.
func (l *SweepLock) Refresh(ctx context.Context, name string, token string, ttl time.Duration) (bool, error) {
	n, err := refreshScript.Run(ctx, l.client, []string{l.prefix + name}, token, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("redis lock refresh: %w", err)
	}
	return n == 1, nil
}

// Release frees the lock if token still owns it. Releasing a lock that has
// expired or changed hands is not an error.
func (l *SweepLock) Release(ctx context.Context, name string, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.prefix + name}, token).Err(); err != nil {
		return fmt.Errorf("redis lock release: %w", err)
	}
	return nil
}
