package persistence

import (
	"context"
	"time"

	"github.com/closeline/backend/internal/domain/notification"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReminderLogRepository implements ReminderLogRepository using GORM
type GormReminderLogRepository struct {
	db *gorm.DB
}

// NewGormReminderLogRepository creates a new GormReminderLogRepository
func NewGormReminderLogRepository(db *gorm.DB) *GormReminderLogRepository {
	return &GormReminderLogRepository{db: db}
}

// FindByTransaction finds reminder logs for a transaction, newest first
func (r *GormReminderLogRepository) FindByTransaction(ctx context.Context, tenantID, transactionID uuid.UUID, filter shared.Filter) ([]notification.ReminderLog, error) {
	var logModels []models.ReminderLogModel
	query := r.db.WithContext(ctx).
		Model(&models.ReminderLogModel{}).
		Where("tenant_id = ? AND transaction_id = ?", tenantID, transactionID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "channel":
			query = query.Where("channel = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("sent_at DESC").Find(&logModels).Error; err != nil {
		return nil, err
	}

	logs := make([]notification.ReminderLog, len(logModels))
	for i, model := range logModels {
		logs[i] = *model.ToDomain()
	}
	return logs, nil
}

// Save creates or updates a reminder log
func (r *GormReminderLogRepository) Save(ctx context.Context, log *notification.ReminderLog) error {
	model := models.ReminderLogModelFromDomain(log)
	return r.db.WithContext(ctx).Save(model).Error
}

// ExistsForOffset reports whether a reminder was already delivered for
// the transaction at the given offset on the given day. The day is a
// local midnight in the brokerage's timezone, so the check ranges over
// the following 24 hours of sent_at.
func (r *GormReminderLogRepository) ExistsForOffset(ctx context.Context, transactionID uuid.UUID, offsetDays int, day time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ReminderLogModel{}).
		Where("transaction_id = ? AND offset_days = ? AND status = ? AND sent_at >= ? AND sent_at < ?",
			transactionID, offsetDays, notification.ReminderStatusSent, day, day.Add(24*time.Hour)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormReminderLogRepository implements ReminderLogRepository
var _ notification.ReminderLogRepository = (*GormReminderLogRepository)(nil)
