// Package cache provides the Redis-backed reminder dedupe store and an
// in-memory stand-in for single-instance deployments and tests.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/closeline/backend/internal/domain/notification"
	"github.com/closeline/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const reminderKeyPrefix = "reminder:sent:"

// RedisReminderDeduper suppresses duplicate reminder sends across
// instances. MarkSent is a single SETNX so two sweepers racing on the
// same key agree on a winner.
type RedisReminderDeduper struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisReminderDeduper creates a deduper with its own Redis client
func NewRedisReminderDeduper(cfg config.RedisConfig) (*RedisReminderDeduper, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReminderDeduper{
		client:    client,
		keyPrefix: reminderKeyPrefix,
	}, nil
}

// NewRedisReminderDeduperWithClient creates a deduper sharing an
// existing Redis client
func NewRedisReminderDeduperWithClient(client *redis.Client, keyPrefix string) *RedisReminderDeduper {
	if keyPrefix == "" {
		keyPrefix = reminderKeyPrefix
	}
	return &RedisReminderDeduper{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkSent records the key and reports whether it was already present
func (d *RedisReminderDeduper) MarkSent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	set, err := d.client.SetNX(ctx, d.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark reminder as sent: %w", err)
	}
	// SETNX reports whether the key was newly set; the caller wants to
	// know whether it already existed
	return !set, nil
}

// Clear releases a claimed key so a later sweep can retry
func (d *RedisReminderDeduper) Clear(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, d.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to clear reminder key: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (d *RedisReminderDeduper) Close() error {
	return d.client.Close()
}

// GetClient returns the underlying Redis client
func (d *RedisReminderDeduper) GetClient() *redis.Client {
	return d.client
}

// Ensure RedisReminderDeduper implements ReminderDeduper
var _ notification.ReminderDeduper = (*RedisReminderDeduper)(nil)
