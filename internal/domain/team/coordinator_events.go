package team

import (
	"github.com/closeline/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeCoordinator  = "Coordinator"
	AggregateTypeAgentProfile = "AgentProfile"
)

// Event type constants
const (
	EventTypeCoordinatorCreated     = "CoordinatorCreated"
	EventTypeCoordinatorDeactivated = "CoordinatorDeactivated"
)

// CoordinatorCreatedEvent is published when a coordinator is created
type CoordinatorCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewCoordinatorCreatedEvent creates a new CoordinatorCreatedEvent
func NewCoordinatorCreatedEvent(c *Coordinator) *CoordinatorCreatedEvent {
	return &CoordinatorCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCoordinatorCreated, AggregateTypeCoordinator, c.ID, c.TenantID),
		Name:            c.Name,
		Email:           c.Email,
	}
}

// CoordinatorDeactivatedEvent is published when a coordinator is deactivated
type CoordinatorDeactivatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCoordinatorDeactivatedEvent creates a new CoordinatorDeactivatedEvent
func NewCoordinatorDeactivatedEvent(c *Coordinator) *CoordinatorDeactivatedEvent {
	return &CoordinatorDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCoordinatorDeactivated, AggregateTypeCoordinator, c.ID, c.TenantID),
		Name:            c.Name,
	}
}
