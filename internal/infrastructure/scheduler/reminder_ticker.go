package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/closeline/backend/internal/application/notification"
	"go.uber.org/zap"
)

// defaultSweepInterval keeps the sweeper well inside every delivery
// hour; the sweep itself is a no-op outside a tenant's configured hour
const defaultSweepInterval = 1 * time.Hour

// Sweeper runs one reminder pass
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (notification.SweepResult, error)
}

// ReminderTicker triggers the reminder sweeper on a fixed interval. One
// sweep runs immediately on start so a restart inside a delivery hour
// does not skip that hour.
type ReminderTicker struct {
	interval time.Duration
	sweeper  Sweeper
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt  *time.Time
	lastResult notification.SweepResult
}

// NewReminderTicker creates a reminder ticker. A non-positive interval
// falls back to hourly.
func NewReminderTicker(interval time.Duration, sweeper Sweeper, logger *zap.Logger) *ReminderTicker {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &ReminderTicker{
		interval: interval,
		sweeper:  sweeper,
		logger:   logger,
	}
}

// Start starts the ticker loop
func (t *ReminderTicker) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.loop(ctx)

	t.logger.Info("Reminder ticker started",
		zap.Duration("interval", t.interval))

	return nil
}

// Stop stops the ticker loop
func (t *ReminderTicker) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Reminder ticker stopped")
		return nil
	case <-ctx.Done():
		t.logger.Warn("Reminder ticker stop timed out")
		return ctx.Err()
	}
}

func (t *ReminderTicker) loop(ctx context.Context) {
	defer t.wg.Done()

	t.runSweep(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.runSweep(ctx)
		}
	}
}

func (t *ReminderTicker) runSweep(ctx context.Context) {
	now := time.Now()

	result, err := t.sweeper.Sweep(ctx, now)
	if err != nil {
		t.logger.Error("Reminder sweep failed", zap.Error(err))
		return
	}

	t.mu.Lock()
	t.lastRunAt = &now
	t.lastResult = result
	t.mu.Unlock()
}

// TriggerManualRun runs a sweep outside the schedule. Used by the admin
// endpoint; runs in the background so the HTTP request returns at once.
func (t *ReminderTicker) TriggerManualRun() error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	t.mu.Unlock()

	go t.runSweep(context.Background())
	return nil
}

// Status reports the ticker state for the system endpoint
func (t *ReminderTicker) Status() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()

	return map[string]any{
		"is_running":  t.isRunning,
		"interval":    t.interval.String(),
		"last_run_at": t.lastRunAt,
		"last_result": t.lastResult,
	}
}

// LastRunAt returns when the last sweep ran
func (t *ReminderTicker) LastRunAt() *time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastRunAt
}
