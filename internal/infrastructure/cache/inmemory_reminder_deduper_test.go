package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryReminderDeduper_MarkSent(t *testing.T) {
	deduper := NewInMemoryReminderDeduper()
	defer deduper.Close()

	ctx := context.Background()

	t.Run("first send is not a duplicate", func(t *testing.T) {
		alreadySent, err := deduper.MarkSent(ctx, "txn-1:offset-7", time.Hour)
		require.NoError(t, err)
		assert.False(t, alreadySent)
	})

	t.Run("repeat send is a duplicate", func(t *testing.T) {
		alreadySent, err := deduper.MarkSent(ctx, "txn-2:offset-3", time.Hour)
		require.NoError(t, err)
		assert.False(t, alreadySent)

		alreadySent, err = deduper.MarkSent(ctx, "txn-2:offset-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, alreadySent)
	})

	t.Run("distinct keys do not collide", func(t *testing.T) {
		alreadySent, err := deduper.MarkSent(ctx, "txn-3:offset-7", time.Hour)
		require.NoError(t, err)
		assert.False(t, alreadySent)

		alreadySent, err = deduper.MarkSent(ctx, "txn-3:offset-1", time.Hour)
		require.NoError(t, err)
		assert.False(t, alreadySent)
	})

	t.Run("cleared key can be claimed again", func(t *testing.T) {
		alreadySent, err := deduper.MarkSent(ctx, "txn-5:offset-7", time.Hour)
		require.NoError(t, err)
		assert.False(t, alreadySent)

		require.NoError(t, deduper.Clear(ctx, "txn-5:offset-7"))

		alreadySent, err = deduper.MarkSent(ctx, "txn-5:offset-7", time.Hour)
		require.NoError(t, err)
		assert.False(t, alreadySent)
	})

	t.Run("expired key can be sent again", func(t *testing.T) {
		alreadySent, err := deduper.MarkSent(ctx, "txn-4:offset-0", 10*time.Millisecond)
		require.NoError(t, err)
		assert.False(t, alreadySent)

		time.Sleep(20 * time.Millisecond)

		alreadySent, err = deduper.MarkSent(ctx, "txn-4:offset-0", time.Hour)
		require.NoError(t, err)
		assert.False(t, alreadySent)
	})
}

func TestInMemoryReminderDeduper_ConcurrentMarkSent(t *testing.T) {
	deduper := NewInMemoryReminderDeduper()
	defer deduper.Close()

	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var mu sync.Mutex
	firstSends := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			alreadySent, err := deduper.MarkSent(ctx, "txn-race:offset-7", time.Hour)
			assert.NoError(t, err)
			if !alreadySent {
				mu.Lock()
				firstSends++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, firstSends, "exactly one goroutine should win the send")
}

func TestInMemoryReminderDeduper_Cleanup(t *testing.T) {
	deduper := NewInMemoryReminderDeduper()
	defer deduper.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := deduper.MarkSent(ctx, fmt.Sprintf("txn-%d:offset-7", i), time.Millisecond)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, deduper.Size())

	time.Sleep(5 * time.Millisecond)
	deduper.cleanup()

	assert.Equal(t, 0, deduper.Size())
}

func TestInMemoryReminderDeduper_CloseIsIdempotent(t *testing.T) {
	deduper := NewInMemoryReminderDeduper()
	require.NoError(t, deduper.Close())
	require.NoError(t, deduper.Close())
}
