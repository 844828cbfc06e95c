package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis keeps keys in memory and emulates the release script
type fakeRedis struct {
	mu      sync.Mutex
	values  map[string]string
	ttls    map[string]time.Duration
	setErr  error
	evalErr error
	evals   int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return redis.NewBoolResult(false, f.setErr)
	}
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Eval(_ context.Context, script string, keys []string, args ...any) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evals++
	if f.evalErr != nil {
		return redis.NewCmdResult(nil, f.evalErr)
	}
	if script != releaseScript || len(keys) != 1 || len(args) != 1 {
		return redis.NewCmdResult(nil, errors.New("unexpected script call"))
	}
	if f.values[keys[0]] != args[0] {
		return redis.NewCmdResult(int64(0), nil)
	}
	delete(f.values, keys[0])
	return redis.NewCmdResult(int64(1), nil)
}

func TestRedisLock_AcquireRelease(t *testing.T) {
	client := newFakeRedis()
	l := NewWithClient(client, "test:lock", time.Minute)

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	require.NotNil(t, release)
	assert.Contains(t, client.values, "test:lock")
	assert.Equal(t, time.Minute, client.ttls["test:lock"])

	_, err = l.Acquire(context.Background())
	require.ErrorIs(t, err, ErrLocked)

	release()
	assert.NotContains(t, client.values, "test:lock")

	release2, err := l.Acquire(context.Background())
	require.NoError(t, err)
	release2()
}

func TestRedisLock_ReleaseKeepsForeignLock(t *testing.T) {
	client := newFakeRedis()
	l := NewWithClient(client, "test:lock", time.Minute)

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)

	// lock expired and was taken by another instance
	client.values["test:lock"] = "someone-else"
	release()
	assert.Equal(t, "someone-else", client.values["test:lock"])
	assert.Equal(t, 1, client.evals)
}

func TestRedisLock_Errors(t *testing.T) {
	t.Run("set error", func(t *testing.T) {
		client := newFakeRedis()
		client.setErr = errors.New("connection reset")
		l := NewWithClient(client, "test:lock", time.Minute)

		release, err := l.Acquire(context.Background())
		require.Error(t, err)
		assert.Nil(t, release)
		assert.NotErrorIs(t, err, ErrLocked)
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("release error is logged only", func(t *testing.T) {
		client := newFakeRedis()
		l := NewWithClient(client, "test:lock", time.Minute)
		release, err := l.Acquire(context.Background())
		require.NoError(t, err)

		client.evalErr = errors.New("timeout")
		assert.NotPanics(t, release)
	})
}

func TestRedisLock_ReleaseAfterContextCanceled(t *testing.T) {
	client := newFakeRedis()
	l := NewWithClient(client, "test:lock", time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	release, err := l.Acquire(ctx)
	require.NoError(t, err)
	cancel()

	release()
	assert.NotContains(t, client.values, "test:lock")
}

func TestNewWithClient_DefaultTTL(t *testing.T) {
	l := NewWithClient(newFakeRedis(), DefaultKey, 0)
	assert.Equal(t, 30*time.Minute, l.ttl)
	assert.Equal(t, DefaultKey, l.key)
}

func TestNewRedisLock_Unreachable(t *testing.T) {
	_, err := NewRedisLock(context.Background(), Options{Addr: "127.0.0.1:1", TTL: time.Minute})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}
