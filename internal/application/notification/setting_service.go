package notification

import (
	"context"

	"github.com/closeline/backend/internal/domain/notification"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettingService manages the per-brokerage reminder preferences
type SettingService struct {
	settingRepo     notification.SettingRepository
	reminderLogRepo notification.ReminderLogRepository
	logger          *zap.Logger
}

// NewSettingService creates a new setting service
func NewSettingService(
	settingRepo notification.SettingRepository,
	reminderLogRepo notification.ReminderLogRepository,
	logger *zap.Logger,
) *SettingService {
	return &SettingService{
		settingRepo:     settingRepo,
		reminderLogRepo: reminderLogRepo,
		logger:          logger,
	}
}

// Get returns the brokerage's settings, creating the defaults on first
// access
func (s *SettingService) Get(ctx context.Context, brokerageID uuid.UUID) (*SettingInfo, error) {
	setting, err := s.getOrCreate(ctx, brokerageID)
	if err != nil {
		return nil, err
	}
	info := toSettingInfo(setting)
	return &info, nil
}

// Update replaces the brokerage's reminder preferences
func (s *SettingService) Update(ctx context.Context, input UpdateSettingInput) (*SettingInfo, error) {
	setting, err := s.getOrCreate(ctx, input.BrokerageID)
	if err != nil {
		return nil, err
	}

	if err := setting.Update(input.Enabled, input.Offsets, input.DeliveryHour,
		input.Channels, input.FallbackSlackChannel); err != nil {
		return nil, err
	}

	if err := s.settingRepo.SaveWithLock(ctx, setting); err != nil {
		s.logger.Error("Failed to save notification setting",
			zap.String("brokerage_id", input.BrokerageID.String()),
			zap.Error(err))
		return nil, err
	}

	info := toSettingInfo(setting)
	return &info, nil
}

// ListReminders returns the delivery audit trail for a transaction
func (s *SettingService) ListReminders(ctx context.Context, brokerageID, transactionID uuid.UUID, filter shared.Filter) ([]ReminderLogInfo, error) {
	logs, err := s.reminderLogRepo.FindByTransaction(ctx, brokerageID, transactionID, filter)
	if err != nil {
		return nil, err
	}
	infos := make([]ReminderLogInfo, len(logs))
	for i := range logs {
		infos[i] = toReminderLogInfo(&logs[i])
	}
	return infos, nil
}

func (s *SettingService) getOrCreate(ctx context.Context, brokerageID uuid.UUID) (*notification.NotificationSetting, error) {
	setting, err := s.settingRepo.FindByTenant(ctx, brokerageID)
	if err == nil {
		return setting, nil
	}

	setting, err = notification.NewNotificationSetting(brokerageID)
	if err != nil {
		return nil, err
	}
	if err := s.settingRepo.Save(ctx, setting); err != nil {
		s.logger.Error("Failed to save default notification setting", zap.Error(err))
		return nil, err
	}
	return setting, nil
}
