package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/domain"
	"github.com/AdwitiyaKhare/trendboard-ai/pkg/scheduler/mocks"
)

func TestNewScheduler(t *testing.T) {
	ing := &mocks.IngesterMock{}

	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{name: "every 30 minutes", spec: "*/30 * * * *"},
		{name: "descriptor", spec: "@hourly"},
		{name: "interval", spec: "@every 10m"},
		{name: "empty", spec: "", wantErr: true},
		{name: "garbage", spec: "not a cron", wantErr: true},
		{name: "seconds field not allowed", spec: "0 */5 * * * *", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScheduler(ing, Config{Cron: tt.spec})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "parse cron expression")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.spec, s.spec)
		})
	}
}

func TestScheduler_RunOnStart(t *testing.T) {
	var calls int32
	ing := &mocks.IngesterMock{
		IngestFunc: func(ctx context.Context) (domain.IngestResult, error) {
			atomic.AddInt32(&calls, 1)
			return domain.IngestResult{Ingested: 3}, nil
		},
	}

	s, err := NewScheduler(ing, Config{Cron: "@daily", RunOnStart: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestScheduler_CronTrigger(t *testing.T) {
	var calls int32
	ing := &mocks.IngesterMock{
		IngestFunc: func(ctx context.Context) (domain.IngestResult, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return domain.IngestResult{}, errors.New("store unavailable")
			}
			return domain.IngestResult{Ingested: 1}, nil
		},
	}

	s, err := NewScheduler(ing, Config{Cron: "@every 1s"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// a failed run does not stop the schedule
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 }, 4*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestScheduler_StopWaitsForRunningIngestion(t *testing.T) {
	started := make(chan struct{})
	var finished int32
	ing := &mocks.IngesterMock{
		IngestFunc: func(ctx context.Context) (domain.IngestResult, error) {
			close(started)
			time.Sleep(200 * time.Millisecond)
			atomic.StoreInt32(&finished, 1)
			return domain.IngestResult{}, nil
		},
	}

	s, err := NewScheduler(ing, Config{Cron: "@daily", RunOnStart: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	<-started
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
}

func TestScheduler_NoRunOnStart(t *testing.T) {
	ing := &mocks.IngesterMock{}
	s, err := NewScheduler(ing, Config{Cron: "@daily"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))
	assert.Empty(t, ing.IngestCalls())
}
