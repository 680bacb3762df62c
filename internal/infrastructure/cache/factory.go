package cache

import (
	"fmt"

	"github.com/closeline/backend/internal/domain/notification"
	"github.com/closeline/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ReminderDeduperFactory creates the reminder dedupe store from
// configuration, preferring Redis and optionally falling back to the
// in-memory store when Redis is unreachable.
type ReminderDeduperFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ReminderDeduperFactoryOption is a functional option for the factory
type ReminderDeduperFactoryOption func(*ReminderDeduperFactory)

// WithFactoryLogger sets the logger for the factory
func WithFactoryLogger(logger *zap.Logger) ReminderDeduperFactoryOption {
	return func(f *ReminderDeduperFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls the fallback when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) ReminderDeduperFactoryOption {
	return func(f *ReminderDeduperFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewReminderDeduperFactory creates a new factory
func NewReminderDeduperFactory(cfg config.RedisConfig, opts ...ReminderDeduperFactoryOption) *ReminderDeduperFactory {
	f := &ReminderDeduperFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateDeduper connects to Redis, falling back to the in-memory store
// when allowed. A single-instance deployment loses nothing in the
// fallback; a multi-instance one risks duplicate reminder sends.
func (f *ReminderDeduperFactory) CreateDeduper() (notification.ReminderDeduper, error) {
	deduper, err := NewRedisReminderDeduper(f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis reminder dedupe store")
		return deduper, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for reminder dedupe but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory reminder dedupe store",
		zap.Error(err))
	return NewInMemoryReminderDeduper(), nil
}
