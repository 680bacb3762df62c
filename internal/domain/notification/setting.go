package notification

import (
	"sort"
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Channel is a delivery channel for reminders
type Channel string

const (
	ChannelSlack Channel = "slack"
	ChannelEmail Channel = "email"
)

// DefaultOffsets are the days-before-closing offsets used until a
// brokerage customizes them. Offset 0 is the closing day itself.
func DefaultOffsets() []int {
	return []int{30, 14, 7, 1, 0}
}

// DefaultDeliveryHour is the local hour reminders go out at
const DefaultDeliveryHour = 9

const maxOffsetDays = 365

// NotificationSetting holds a brokerage's closing-reminder preferences.
// One row per tenant, created with defaults on first access.
type NotificationSetting struct {
	shared.TenantAggregateRoot
	Enabled              bool
	Offsets              []int
	DeliveryHour         int
	Channels             []Channel
	FallbackSlackChannel string // channel ID used when a transaction has no channel
}

// NewNotificationSetting creates the default settings for a brokerage
func NewNotificationSetting(brokerageID uuid.UUID) (*NotificationSetting, error) {
	if brokerageID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Brokerage ID cannot be empty")
	}

	return &NotificationSetting{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(brokerageID),
		Enabled:             true,
		Offsets:             DefaultOffsets(),
		DeliveryHour:        DefaultDeliveryHour,
		Channels:            []Channel{ChannelSlack},
	}, nil
}

// Update replaces the reminder preferences
func (s *NotificationSetting) Update(enabled bool, offsets []int, deliveryHour int, channels []Channel, fallbackSlackChannel string) error {
	if deliveryHour < 0 || deliveryHour > 23 {
		return shared.NewDomainError("INVALID_HOUR", "Delivery hour must be between 0 and 23")
	}
	if len(offsets) == 0 {
		return shared.NewDomainError("INVALID_OFFSETS", "At least one reminder offset is required")
	}
	if len(offsets) > 10 {
		return shared.NewDomainError("INVALID_OFFSETS", "At most 10 reminder offsets are allowed")
	}
	seen := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		if o < 0 || o > maxOffsetDays {
			return shared.NewDomainError("INVALID_OFFSETS", "Offsets must be between 0 and 365 days")
		}
		if seen[o] {
			return shared.NewDomainError("INVALID_OFFSETS", "Duplicate reminder offset")
		}
		seen[o] = true
	}
	if len(channels) == 0 {
		return shared.NewDomainError("INVALID_CHANNELS", "At least one delivery channel is required")
	}
	for _, c := range channels {
		if c != ChannelSlack && c != ChannelEmail {
			return shared.NewDomainError("INVALID_CHANNELS", "Unknown delivery channel: "+string(c))
		}
	}

	sorted := append([]int(nil), offsets...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	s.Enabled = enabled
	s.Offsets = sorted
	s.DeliveryHour = deliveryHour
	s.Channels = channels
	s.FallbackSlackChannel = fallbackSlackChannel
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// HasChannel reports whether a delivery channel is enabled
func (s *NotificationSetting) HasChannel(c Channel) bool {
	for _, ch := range s.Channels {
		if ch == c {
			return true
		}
	}
	return false
}

// OffsetDue reports whether the given days-until-closing matches a
// configured offset
func (s *NotificationSetting) OffsetDue(days int) bool {
	for _, o := range s.Offsets {
		if o == days {
			return true
		}
	}
	return false
}
