package models

import (
	"encoding/json"

	"github.com/closeline/backend/internal/domain/identity"
	"github.com/closeline/backend/internal/domain/shared"
)

// BrokerageModel is the persistence model for the Brokerage aggregate.
// Brokerages are the tenants, so this model is not tenant-scoped itself.
type BrokerageModel struct {
	AggregateModel
	Name         string                   `gorm:"type:varchar(200);not null"`
	Slug         string                   `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status       identity.BrokerageStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	ContactName  string                   `gorm:"type:varchar(100)"`
	ContactPhone string                   `gorm:"type:varchar(50)"`
	ContactEmail string                   `gorm:"type:varchar(200)"`
	Timezone     string                   `gorm:"type:varchar(100);not null;default:'UTC'"`
	BrandingJSON string                   `gorm:"column:branding;type:jsonb;default:'{}'"`
	Notes        string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (BrokerageModel) TableName() string {
	return "brokerages"
}

// ToDomain converts the persistence model to a domain Brokerage entity.
func (m *BrokerageModel) ToDomain() *identity.Brokerage {
	branding := identity.DefaultBranding()
	if m.BrandingJSON != "" {
		_ = json.Unmarshal([]byte(m.BrandingJSON), &branding)
	}

	return &identity.Brokerage{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Name:         m.Name,
		Slug:         m.Slug,
		Status:       m.Status,
		ContactName:  m.ContactName,
		ContactPhone: m.ContactPhone,
		ContactEmail: m.ContactEmail,
		Timezone:     m.Timezone,
		Branding:     branding,
		Notes:        m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Brokerage entity.
func (m *BrokerageModel) FromDomain(b *identity.Brokerage) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Name = b.Name
	m.Slug = b.Slug
	m.Status = b.Status
	m.ContactName = b.ContactName
	m.ContactPhone = b.ContactPhone
	m.ContactEmail = b.ContactEmail
	m.Timezone = b.Timezone
	if bytes, err := json.Marshal(b.Branding); err == nil {
		m.BrandingJSON = string(bytes)
	}
	m.Notes = b.Notes
}

// BrokerageModelFromDomain creates a new persistence model from a domain Brokerage entity.
func BrokerageModelFromDomain(b *identity.Brokerage) *BrokerageModel {
	m := &BrokerageModel{}
	m.FromDomain(b)
	return m
}
