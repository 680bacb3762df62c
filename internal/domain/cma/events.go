package cma

import (
	"github.com/closeline/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeCma          = "Cma"
	AggregateTypeReportExport = "ReportExport"
)

// Event type constants
const (
	EventTypeCmaCreated = "CmaCreated"
)

// CmaCreatedEvent is published when a CMA is created
type CmaCreatedEvent struct {
	shared.BaseDomainEvent
	Title   string `json:"title"`
	Address string `json:"address"`
}

// NewCmaCreatedEvent creates a new CmaCreatedEvent
func NewCmaCreatedEvent(c *Cma) *CmaCreatedEvent {
	return &CmaCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCmaCreated, AggregateTypeCma, c.ID, c.TenantID),
		Title:           c.Title,
		Address:         c.Subject.Address.String(),
	}
}
