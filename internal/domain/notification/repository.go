package notification

import (
	"context"
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SettingRepository defines persistence for notification settings
type SettingRepository interface {
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*NotificationSetting, error)
	Save(ctx context.Context, setting *NotificationSetting) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, setting *NotificationSetting) error
}

// ReminderLogRepository defines persistence for reminder logs
type ReminderLogRepository interface {
	FindByTransaction(ctx context.Context, tenantID, transactionID uuid.UUID, filter shared.Filter) ([]ReminderLog, error)
	Save(ctx context.Context, log *ReminderLog) error
	ExistsForOffset(ctx context.Context, transactionID uuid.UUID, offsetDays int, day time.Time) (bool, error)
}

// ReminderDeduper suppresses repeat sends within a sweep window. Backed
// by Redis in production and an in-memory map in tests.
type ReminderDeduper interface {
	// MarkSent records the key and reports whether it was already present
	MarkSent(ctx context.Context, key string, ttl time.Duration) (alreadySent bool, err error)
	// Clear releases a claimed key so a later sweep can retry
	Clear(ctx context.Context, key string) error
}
