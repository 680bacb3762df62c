package models

import (
	"encoding/json"

	"github.com/closeline/backend/internal/domain/team"
	"github.com/google/uuid"
)

// CoordinatorModel is the persistence model for the Coordinator aggregate.
type CoordinatorModel struct {
	TenantAggregateModel
	Name                string                 `gorm:"type:varchar(100);not null"`
	Email               string                 `gorm:"type:varchar(200);not null;uniqueIndex:idx_coordinator_tenant_email,priority:2"`
	Phone               string                 `gorm:"type:varchar(50)"`
	SlackUserID         string                 `gorm:"type:varchar(50)"`
	Status              team.CoordinatorStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	MaxOpenTransactions int                    `gorm:"not null;default:25"`
	Notes               string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CoordinatorModel) TableName() string {
	return "coordinators"
}

// ToDomain converts the persistence model to a domain Coordinator entity.
func (m *CoordinatorModel) ToDomain() *team.Coordinator {
	c := &team.Coordinator{
		Name:                m.Name,
		Email:               m.Email,
		Phone:               m.Phone,
		SlackUserID:         m.SlackUserID,
		Status:              m.Status,
		MaxOpenTransactions: m.MaxOpenTransactions,
		Notes:               m.Notes,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Coordinator entity.
func (m *CoordinatorModel) FromDomain(c *team.Coordinator) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.SlackUserID = c.SlackUserID
	m.Status = c.Status
	m.MaxOpenTransactions = c.MaxOpenTransactions
	m.Notes = c.Notes
}

// CoordinatorModelFromDomain creates a new persistence model from a domain Coordinator entity.
func CoordinatorModelFromDomain(c *team.Coordinator) *CoordinatorModel {
	m := &CoordinatorModel{}
	m.FromDomain(c)
	return m
}

// AgentProfileModel is the persistence model for the AgentProfile aggregate.
type AgentProfileModel struct {
	TenantAggregateModel
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_agent_profile_tenant_user,priority:2"`
	LicenseNumber    string    `gorm:"type:varchar(50);not null"`
	Phone            string    `gorm:"type:varchar(50)"`
	Title            string    `gorm:"type:varchar(100)"`
	Bio              string    `gorm:"type:text"`
	YearsExperience  int       `gorm:"not null;default:0"`
	ServiceAreasJSON string    `gorm:"column:service_areas;type:jsonb;default:'[]'"`
	HeadshotKey      string    `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (AgentProfileModel) TableName() string {
	return "agent_profiles"
}

// ToDomain converts the persistence model to a domain AgentProfile entity.
func (m *AgentProfileModel) ToDomain() *team.AgentProfile {
	areas := make([]string, 0)
	if m.ServiceAreasJSON != "" {
		_ = json.Unmarshal([]byte(m.ServiceAreasJSON), &areas)
	}

	p := &team.AgentProfile{
		UserID:          m.UserID,
		LicenseNumber:   m.LicenseNumber,
		Phone:           m.Phone,
		Title:           m.Title,
		Bio:             m.Bio,
		YearsExperience: m.YearsExperience,
		ServiceAreas:    areas,
		HeadshotKey:     m.HeadshotKey,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain AgentProfile entity.
func (m *AgentProfileModel) FromDomain(p *team.AgentProfile) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.UserID = p.UserID
	m.LicenseNumber = p.LicenseNumber
	m.Phone = p.Phone
	m.Title = p.Title
	m.Bio = p.Bio
	m.YearsExperience = p.YearsExperience
	if bytes, err := json.Marshal(p.ServiceAreas); err == nil {
		m.ServiceAreasJSON = string(bytes)
	}
	m.HeadshotKey = p.HeadshotKey
}

// AgentProfileModelFromDomain creates a new persistence model from a domain AgentProfile entity.
func AgentProfileModelFromDomain(p *team.AgentProfile) *AgentProfileModel {
	m := &AgentProfileModel{}
	m.FromDomain(p)
	return m
}
