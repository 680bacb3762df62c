package team

import (
	"strings"
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AgentProfile carries the public-facing details of an agent: what shows
// on CMA covers and the agent resume slide. One profile per user.
type AgentProfile struct {
	shared.TenantAggregateRoot
	UserID          uuid.UUID
	LicenseNumber   string
	Phone           string
	Title           string // e.g. "Broker Associate"
	Bio             string
	YearsExperience int
	ServiceAreas    []string // city names shown on the resume slide
	HeadshotKey     string   // object storage key
}

// NewAgentProfile creates a profile for the given user
func NewAgentProfile(brokerageID, userID uuid.UUID, licenseNumber string) (*AgentProfile, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	licenseNumber = strings.TrimSpace(licenseNumber)
	if licenseNumber == "" {
		return nil, shared.NewDomainError("INVALID_LICENSE", "License number cannot be empty")
	}
	if len(licenseNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_LICENSE", "License number cannot exceed 50 characters")
	}

	return &AgentProfile{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(brokerageID),
		UserID:              userID,
		LicenseNumber:       licenseNumber,
		ServiceAreas:        make([]string, 0),
	}, nil
}

// Update replaces the editable profile fields
func (p *AgentProfile) Update(licenseNumber, phone, title, bio string, yearsExperience int) error {
	licenseNumber = strings.TrimSpace(licenseNumber)
	if licenseNumber == "" {
		return shared.NewDomainError("INVALID_LICENSE", "License number cannot be empty")
	}
	if len(licenseNumber) > 50 {
		return shared.NewDomainError("INVALID_LICENSE", "License number cannot exceed 50 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if len(title) > 100 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 100 characters")
	}
	if len(bio) > 2000 {
		return shared.NewDomainError("INVALID_BIO", "Bio cannot exceed 2000 characters")
	}
	if yearsExperience < 0 || yearsExperience > 80 {
		return shared.NewDomainError("INVALID_EXPERIENCE", "Years of experience out of range")
	}

	p.LicenseNumber = licenseNumber
	p.Phone = strings.TrimSpace(phone)
	p.Title = strings.TrimSpace(title)
	p.Bio = bio
	p.YearsExperience = yearsExperience
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetServiceAreas replaces the list of served cities
func (p *AgentProfile) SetServiceAreas(areas []string) error {
	if len(areas) > 20 {
		return shared.NewDomainError("INVALID_SERVICE_AREAS", "At most 20 service areas allowed")
	}

	cleaned := make([]string, 0, len(areas))
	for _, a := range areas {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if len(a) > 100 {
			return shared.NewDomainError("INVALID_SERVICE_AREAS", "Service area cannot exceed 100 characters")
		}
		cleaned = append(cleaned, a)
	}

	p.ServiceAreas = cleaned
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetHeadshotKey stores the object key of the uploaded headshot
func (p *AgentProfile) SetHeadshotKey(key string) error {
	if len(key) > 500 {
		return shared.NewDomainError("INVALID_KEY", "Headshot key cannot exceed 500 characters")
	}

	p.HeadshotKey = key
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}
