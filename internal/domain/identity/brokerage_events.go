package identity

import (
	"github.com/closeline/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeBrokerage = "Brokerage"

// Event type constants
const (
	EventTypeBrokerageCreated       = "BrokerageCreated"
	EventTypeBrokerageStatusChanged = "BrokerageStatusChanged"
)

// BrokerageCreatedEvent is published when a new brokerage is created
type BrokerageCreatedEvent struct {
	shared.BaseDomainEvent
	Name   string          `json:"name"`
	Slug   string          `json:"slug"`
	Status BrokerageStatus `json:"status"`
}

// NewBrokerageCreatedEvent creates a new BrokerageCreatedEvent
func NewBrokerageCreatedEvent(b *Brokerage) *BrokerageCreatedEvent {
	return &BrokerageCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBrokerageCreated, AggregateTypeBrokerage, b.ID, b.ID),
		Name:            b.Name,
		Slug:            b.Slug,
		Status:          b.Status,
	}
}

// BrokerageStatusChangedEvent is published when a brokerage's status changes
type BrokerageStatusChangedEvent struct {
	shared.BaseDomainEvent
	Slug      string          `json:"slug"`
	OldStatus BrokerageStatus `json:"old_status"`
	NewStatus BrokerageStatus `json:"new_status"`
}

// NewBrokerageStatusChangedEvent creates a new BrokerageStatusChangedEvent
func NewBrokerageStatusChangedEvent(b *Brokerage, oldStatus, newStatus BrokerageStatus) *BrokerageStatusChangedEvent {
	return &BrokerageStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBrokerageStatusChanged, AggregateTypeBrokerage, b.ID, b.ID),
		Slug:            b.Slug,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
