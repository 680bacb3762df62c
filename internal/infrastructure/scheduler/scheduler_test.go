package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeExecutor records executed jobs and fails the first N attempts per
// export when failures is set
type fakeExecutor struct {
	mu       sync.Mutex
	executed []uuid.UUID
	failures map[uuid.UUID]int
	done     chan uuid.UUID
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		failures: make(map[uuid.UUID]int),
		done:     make(chan uuid.UUID, 100),
	}
}

func (e *fakeExecutor) Execute(_ context.Context, job *Job) error {
	e.mu.Lock()
	e.executed = append(e.executed, job.ExportID)
	remaining := e.failures[job.ExportID]
	if remaining > 0 {
		e.failures[job.ExportID] = remaining - 1
	}
	e.mu.Unlock()

	if remaining > 0 {
		return errors.New("render exploded")
	}
	e.done <- job.ExportID
	return nil
}

func (e *fakeExecutor) executionCount(exportID uuid.UUID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, id := range e.executed {
		if id == exportID {
			count++
		}
	}
	return count
}

func waitForExport(t *testing.T, done chan uuid.UUID, exportID uuid.UUID) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case id := <-done:
			if id == exportID {
				return
			}
		case <-deadline:
			t.Fatalf("export %s was not processed in time", exportID)
		}
	}
}

func TestJob_Lifecycle(t *testing.T) {
	brokerageID := uuid.New()
	exportID := uuid.New()

	job := NewJob(brokerageID, exportID, 2)
	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, brokerageID, job.BrokerageID)
	assert.Equal(t, exportID, job.ExportID)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Nil(t, job.StartedAt)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)

	job.Fail("render exploded")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "render exploded", job.Error)
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.NotNil(t, job.NextRetryAt)
	assert.Empty(t, job.Error)

	job.Fail("again")
	job.ScheduleRetry(time.Minute)
	job.Fail("and again")
	assert.False(t, job.ShouldRetry(), "retries are exhausted at max")
}

func TestExportScheduler_ProcessesJobs(t *testing.T) {
	executor := newFakeExecutor()
	s := NewExportScheduler(DefaultConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	exportID := uuid.New()
	require.NoError(t, s.Enqueue(context.Background(), uuid.New(), exportID))

	waitForExport(t, executor.done, exportID)
	assert.Equal(t, 1, executor.executionCount(exportID))
}

func TestExportScheduler_RetriesFailedJobs(t *testing.T) {
	executor := newFakeExecutor()
	exportID := uuid.New()
	executor.failures[exportID] = 1

	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond
	s := NewExportScheduler(config, executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	require.NoError(t, s.Enqueue(context.Background(), uuid.New(), exportID))

	waitForExport(t, executor.done, exportID)
	assert.Equal(t, 2, executor.executionCount(exportID))
}

func TestExportScheduler_RejectsWhenStopped(t *testing.T) {
	s := NewExportScheduler(DefaultConfig(), newFakeExecutor(), zap.NewNop())

	err := s.Enqueue(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestExportScheduler_StartIsIdempotent(t *testing.T) {
	s := NewExportScheduler(DefaultConfig(), newFakeExecutor(), zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}

func TestExportScheduler_ConcurrentEnqueue(t *testing.T) {
	executor := newFakeExecutor()
	config := DefaultConfig()
	config.MaxConcurrentJobs = 4
	s := NewExportScheduler(config, executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	const jobs = 20
	var enqueued atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Enqueue(context.Background(), uuid.New(), uuid.New()); err == nil {
				enqueued.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(jobs), enqueued.Load())

	processed := 0
	deadline := time.After(3 * time.Second)
	for processed < jobs {
		select {
		case <-executor.done:
			processed++
		case <-deadline:
			t.Fatalf("only %d of %d jobs processed in time", processed, jobs)
		}
	}
}
