package models

import (
	"encoding/json"
	"time"

	"github.com/closeline/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationSettingModel is the persistence model for a brokerage's
// reminder preferences. One row per tenant.
type NotificationSettingModel struct {
	TenantAggregateModel
	Enabled              bool   `gorm:"not null;default:true"`
	OffsetsJSON          string `gorm:"column:offsets;type:jsonb;not null;default:'[]'"`
	DeliveryHour         int    `gorm:"not null;default:9"`
	ChannelsJSON         string `gorm:"column:channels;type:jsonb;not null;default:'[]'"`
	FallbackSlackChannel string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (NotificationSettingModel) TableName() string {
	return "notification_settings"
}

// ToDomain converts the persistence model to a domain NotificationSetting entity.
func (m *NotificationSettingModel) ToDomain() *notification.NotificationSetting {
	offsets := make([]int, 0)
	if m.OffsetsJSON != "" {
		_ = json.Unmarshal([]byte(m.OffsetsJSON), &offsets)
	}
	channels := make([]notification.Channel, 0)
	if m.ChannelsJSON != "" {
		_ = json.Unmarshal([]byte(m.ChannelsJSON), &channels)
	}

	s := &notification.NotificationSetting{
		Enabled:              m.Enabled,
		Offsets:              offsets,
		DeliveryHour:         m.DeliveryHour,
		Channels:             channels,
		FallbackSlackChannel: m.FallbackSlackChannel,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain NotificationSetting entity.
func (m *NotificationSettingModel) FromDomain(s *notification.NotificationSetting) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.Enabled = s.Enabled
	if bytes, err := json.Marshal(s.Offsets); err == nil {
		m.OffsetsJSON = string(bytes)
	}
	m.DeliveryHour = s.DeliveryHour
	if bytes, err := json.Marshal(s.Channels); err == nil {
		m.ChannelsJSON = string(bytes)
	}
	m.FallbackSlackChannel = s.FallbackSlackChannel
}

// NotificationSettingModelFromDomain creates a new persistence model from a domain NotificationSetting entity.
func NotificationSettingModelFromDomain(s *notification.NotificationSetting) *NotificationSettingModel {
	m := &NotificationSettingModel{}
	m.FromDomain(s)
	return m
}

// ReminderLogModel is the persistence model for a reminder delivery
// attempt. The (transaction, offset, sent_at) index backs the dedupe
// fallback when Redis is unavailable.
type ReminderLogModel struct {
	TenantAggregateModel
	TransactionID uuid.UUID                   `gorm:"type:uuid;not null;index:idx_reminder_txn_offset_sent,priority:1"`
	OffsetDays    int                         `gorm:"not null;index:idx_reminder_txn_offset_sent,priority:2"`
	ClosingDate   time.Time                   `gorm:"not null"`
	Channel       notification.Channel        `gorm:"type:varchar(20);not null"`
	Target        string                      `gorm:"type:varchar(200)"`
	Status        notification.ReminderStatus `gorm:"type:varchar(20);not null"`
	ErrorMsg      string                      `gorm:"type:text"`
	SentAt        time.Time                   `gorm:"not null;index:idx_reminder_txn_offset_sent,priority:3"`
}

// TableName returns the table name for GORM
func (ReminderLogModel) TableName() string {
	return "reminder_logs"
}

// ToDomain converts the persistence model to a domain ReminderLog entity.
func (m *ReminderLogModel) ToDomain() *notification.ReminderLog {
	log := &notification.ReminderLog{
		TransactionID: m.TransactionID,
		OffsetDays:    m.OffsetDays,
		ClosingDate:   m.ClosingDate,
		Channel:       m.Channel,
		Target:        m.Target,
		Status:        m.Status,
		ErrorMsg:      m.ErrorMsg,
		SentAt:        m.SentAt,
	}
	m.PopulateTenantAggregateRoot(&log.TenantAggregateRoot)
	return log
}

// FromDomain populates the persistence model from a domain ReminderLog entity.
func (m *ReminderLogModel) FromDomain(log *notification.ReminderLog) {
	m.FromDomainTenantAggregateRoot(log.TenantAggregateRoot)
	m.TransactionID = log.TransactionID
	m.OffsetDays = log.OffsetDays
	m.ClosingDate = log.ClosingDate
	m.Channel = log.Channel
	m.Target = log.Target
	m.Status = log.Status
	m.ErrorMsg = log.ErrorMsg
	m.SentAt = log.SentAt
}

// ReminderLogModelFromDomain creates a new persistence model from a domain ReminderLog entity.
func ReminderLogModelFromDomain(log *notification.ReminderLog) *ReminderLogModel {
	m := &ReminderLogModel{}
	m.FromDomain(log)
	return m
}
