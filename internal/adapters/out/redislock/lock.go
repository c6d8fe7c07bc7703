// Package redislock provides a Redis-backed distributed lock for
// background jobs so only one instance processes a scheduled run.
package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock key only when it is still held by the
// token that acquired it.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

// RedisJobLock implements ports.JobLock using SET NX with a per-process
// holder token.
type RedisJobLock struct {
	client *redis.Client
	token  string
}

// NewRedisJobLock creates a new Redis job lock.
func NewRedisJobLock(client *redis.Client) *RedisJobLock {
	return &RedisJobLock{
		client: client,
		token:  uuid.NewString(),
	}
}

// Acquire tries to take the named lock for ttl. It returns false when
// another holder already owns the lock.
func (l *RedisJobLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey(name), l.token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	return ok, nil
}

// Release frees the named lock if this instance still holds it.
func (l *RedisJobLock) Release(ctx context.Context, name string) error {
	err := l.client.Eval(ctx, releaseScript, []string{lockKey(name)}, l.token).Err()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	return nil
}

func lockKey(name string) string {
	return "jobs:lock:" + name
}
