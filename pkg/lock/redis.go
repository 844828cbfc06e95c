// Package lock provides a redis based lock so that only one of several service
// instances runs ingestion at a time.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the redis key guarding ingestion runs
const DefaultKey = "trendboard:ingest:lock"

// ErrLocked is returned when another holder owns the lock
var ErrLocked = errors.New("ingestion is running on another instance")

// releaseScript deletes the key only if it still holds our token
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// Client is the subset of redis commands used by the lock
type Client interface {
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// RedisLock is a single key lock with expiration
type RedisLock struct {
	client Client
	key    string
	ttl    time.Duration
}

// Options for redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisLock connects to redis and checks the connection
func NewRedisLock(ctx context.Context, opts Options) (*RedisLock, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	return NewWithClient(rdb, DefaultKey, opts.TTL), nil
}

// NewWithClient creates a lock over an existing client
func NewWithClient(client Client, key string, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisLock{client: client, key: key, ttl: ttl}
}

// Acquire takes the lock or returns ErrLocked. The returned release func is safe to call once
// the lock expired or was taken over.
func (l *RedisLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("set lock %s: %w", l.key, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	lgr.Printf("[DEBUG] acquired lock %s, token %s", l.key, token)
	release := func() {
		// release must work even if the run context is done
		relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := l.client.Eval(relCtx, releaseScript, []string{l.key}, token).Err(); err != nil {
			lgr.Printf("[WARN] failed to release lock %s: %v", l.key, err)
		}
	}
	return release, nil
}
