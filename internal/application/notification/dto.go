package notification

import (
	"time"

	"github.com/closeline/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// UpdateSettingInput replaces the brokerage's reminder preferences
type UpdateSettingInput struct {
	BrokerageID          uuid.UUID
	Enabled              bool
	Offsets              []int
	DeliveryHour         int
	Channels             []notification.Channel
	FallbackSlackChannel string
}

// SettingInfo is the notification setting read model
type SettingInfo struct {
	Enabled              bool                   `json:"enabled"`
	Offsets              []int                  `json:"offsets"`
	DeliveryHour         int                    `json:"delivery_hour"`
	Channels             []notification.Channel `json:"channels"`
	FallbackSlackChannel string                 `json:"fallback_slack_channel,omitempty"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

func toSettingInfo(s *notification.NotificationSetting) SettingInfo {
	return SettingInfo{
		Enabled:              s.Enabled,
		Offsets:              s.Offsets,
		DeliveryHour:         s.DeliveryHour,
		Channels:             s.Channels,
		FallbackSlackChannel: s.FallbackSlackChannel,
		UpdatedAt:            s.UpdatedAt,
	}
}

// ReminderLogInfo is one delivery attempt in the audit trail
type ReminderLogInfo struct {
	ID            uuid.UUID                   `json:"id"`
	TransactionID uuid.UUID                   `json:"transaction_id"`
	OffsetDays    int                         `json:"offset_days"`
	ClosingDate   time.Time                   `json:"closing_date"`
	Channel       notification.Channel        `json:"channel"`
	Target        string                      `json:"target"`
	Status        notification.ReminderStatus `json:"status"`
	ErrorMsg      string                      `json:"error_msg,omitempty"`
	SentAt        time.Time                   `json:"sent_at"`
}

func toReminderLogInfo(l *notification.ReminderLog) ReminderLogInfo {
	return ReminderLogInfo{
		ID:            l.ID,
		TransactionID: l.TransactionID,
		OffsetDays:    l.OffsetDays,
		ClosingDate:   l.ClosingDate,
		Channel:       l.Channel,
		Target:        l.Target,
		Status:        l.Status,
		ErrorMsg:      l.ErrorMsg,
		SentAt:        l.SentAt,
	}
}
