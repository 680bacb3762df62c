package persistence

import (
	"context"
	"errors"

	"github.com/closeline/backend/internal/domain/notification"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationSettingRepository implements SettingRepository using GORM
type GormNotificationSettingRepository struct {
	db *gorm.DB
}

// NewGormNotificationSettingRepository creates a new GormNotificationSettingRepository
func NewGormNotificationSettingRepository(db *gorm.DB) *GormNotificationSettingRepository {
	return &GormNotificationSettingRepository{db: db}
}

// FindByTenant finds the notification setting for a brokerage
func (r *GormNotificationSettingRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*notification.NotificationSetting, error) {
	var model models.NotificationSettingModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a notification setting
func (r *GormNotificationSettingRepository) Save(ctx context.Context, setting *notification.NotificationSetting) error {
	model := models.NotificationSettingModelFromDomain(setting)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a notification setting with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the stored version no longer matches.
func (r *GormNotificationSettingRepository) SaveWithLock(ctx context.Context, setting *notification.NotificationSetting) error {
	model := models.NotificationSettingModelFromDomain(setting)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", setting.ID, setting.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormNotificationSettingRepository implements SettingRepository
var _ notification.SettingRepository = (*GormNotificationSettingRepository)(nil)
