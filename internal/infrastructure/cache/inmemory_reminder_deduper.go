package cache

import (
	"context"
	"sync"
	"time"

	"github.com/closeline/backend/internal/domain/notification"
)

// entry is a dedupe key with its expiration
type entry struct {
	expiresAt time.Time
}

// InMemoryReminderDeduper keeps dedupe state in a process-local map.
// Suitable for single-instance deployments; a second instance would not
// see its keys and could double-send.
type InMemoryReminderDeduper struct {
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryReminderDeduper creates an in-memory deduper and starts
// its expiry cleanup goroutine
func NewInMemoryReminderDeduper() *InMemoryReminderDeduper {
	d := &InMemoryReminderDeduper{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.cleanupLoop()

	return d
}

// MarkSent records the key and reports whether it was already present
func (d *InMemoryReminderDeduper) MarkSent(_ context.Context, key string, ttl time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, exists := d.entries[key]; exists && time.Now().Before(e.expiresAt) {
		return true, nil
	}

	d.entries[key] = entry{expiresAt: time.Now().Add(ttl)}
	return false, nil
}

// Clear releases a claimed key so a later sweep can retry
func (d *InMemoryReminderDeduper) Clear(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.entries, key)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (d *InMemoryReminderDeduper) Close() error {
	d.closeOnce.Do(func() {
		close(d.stopChan)
		d.wg.Wait()
	})
	return nil
}

func (d *InMemoryReminderDeduper) cleanupLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopChan:
			return
		case <-ticker.C:
			d.cleanup()
		}
	}
}

func (d *InMemoryReminderDeduper) cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for key, e := range d.entries {
		if now.After(e.expiresAt) {
			delete(d.entries, key)
		}
	}
}

// Size returns the number of stored keys
func (d *InMemoryReminderDeduper) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Ensure InMemoryReminderDeduper implements ReminderDeduper
var _ notification.ReminderDeduper = (*InMemoryReminderDeduper)(nil)
