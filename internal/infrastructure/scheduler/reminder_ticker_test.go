package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/closeline/backend/internal/application/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSweeper struct {
	mu     sync.Mutex
	calls  int
	result notification.SweepResult
	err    error
	swept  chan struct{}
}

func newFakeSweeper() *fakeSweeper {
	return &fakeSweeper{swept: make(chan struct{}, 100)}
}

func (s *fakeSweeper) Sweep(_ context.Context, _ time.Time) (notification.SweepResult, error) {
	s.mu.Lock()
	s.calls++
	result, err := s.result, s.err
	s.mu.Unlock()

	s.swept <- struct{}{}
	return result, err
}

func (s *fakeSweeper) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func waitForSweep(t *testing.T, s *fakeSweeper) {
	t.Helper()
	select {
	case <-s.swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run in time")
	}
}

func TestReminderTicker_SweepsOnStartAndInterval(t *testing.T) {
	sweeper := newFakeSweeper()
	sweeper.result = notification.SweepResult{Brokerages: 2, Sent: 1}
	ticker := NewReminderTicker(20*time.Millisecond, sweeper, zap.NewNop())

	require.NoError(t, ticker.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = ticker.Stop(ctx)
	}()

	// Immediate sweep plus at least one tick
	waitForSweep(t, sweeper)
	waitForSweep(t, sweeper)

	assert.GreaterOrEqual(t, sweeper.callCount(), 2)
	assert.NotNil(t, ticker.LastRunAt())

	status := ticker.Status()
	assert.Equal(t, true, status["is_running"])
	assert.Equal(t, notification.SweepResult{Brokerages: 2, Sent: 1}, status["last_result"])
}

func TestReminderTicker_SweepErrorDoesNotStopTicker(t *testing.T) {
	sweeper := newFakeSweeper()
	sweeper.err = errors.New("database down")
	ticker := NewReminderTicker(20*time.Millisecond, sweeper, zap.NewNop())

	require.NoError(t, ticker.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = ticker.Stop(ctx)
	}()

	waitForSweep(t, sweeper)
	waitForSweep(t, sweeper)

	assert.GreaterOrEqual(t, sweeper.callCount(), 2)
	// Failed sweeps do not record a run
	assert.Nil(t, ticker.LastRunAt())
}

func TestReminderTicker_TriggerManualRun(t *testing.T) {
	sweeper := newFakeSweeper()
	ticker := NewReminderTicker(time.Hour, sweeper, zap.NewNop())

	assert.ErrorIs(t, ticker.TriggerManualRun(), ErrSchedulerNotRunning)

	require.NoError(t, ticker.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = ticker.Stop(ctx)
	}()

	waitForSweep(t, sweeper) // startup sweep

	require.NoError(t, ticker.TriggerManualRun())
	waitForSweep(t, sweeper)

	assert.GreaterOrEqual(t, sweeper.callCount(), 2)
}

func TestReminderTicker_StopIsIdempotent(t *testing.T) {
	ticker := NewReminderTicker(time.Hour, newFakeSweeper(), zap.NewNop())
	require.NoError(t, ticker.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, ticker.Stop(ctx))
	require.NoError(t, ticker.Stop(ctx))
}

func TestReminderTicker_DefaultInterval(t *testing.T) {
	ticker := NewReminderTicker(0, newFakeSweeper(), zap.NewNop())
	assert.Equal(t, defaultSweepInterval, ticker.interval)
}
