package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BrokerageStatus represents the status of a brokerage
type BrokerageStatus string

const (
	BrokerageStatusActive    BrokerageStatus = "active"
	BrokerageStatusSuspended BrokerageStatus = "suspended"
)

// Branding holds the visual identity applied to CMA reports and emails
type Branding struct {
	LogoURL      string `json:"logo_url"`
	PrimaryColor string `json:"primary_color"` // hex, e.g. #1A73E8
	Tagline      string `json:"tagline"`
}

// DefaultBranding returns the branding used before a brokerage customizes it
func DefaultBranding() Branding {
	return Branding{
		PrimaryColor: "#1F2937",
	}
}

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,48}[a-z0-9]$`)
	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Brokerage is the tenant of the system. Every transaction, CMA, and
// notification setting belongs to exactly one brokerage.
type Brokerage struct {
	shared.BaseAggregateRoot
	Name         string
	Slug         string // URL-safe identifier, unique across the system
	Status       BrokerageStatus
	ContactName  string
	ContactPhone string
	ContactEmail string
	Timezone     string // IANA name, drives reminder delivery hour
	Branding     Branding
	Notes        string
}

// TableName returns the table name for GORM
func (Brokerage) TableName() string {
	return "brokerages"
}

// NewBrokerage creates a new active brokerage
func NewBrokerage(name, slug string) (*Brokerage, error) {
	if err := validateBrokerageName(name); err != nil {
		return nil, err
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug must be 3-50 lowercase letters, digits, or hyphens")
	}

	b := &Brokerage{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Slug:              slug,
		Status:            BrokerageStatusActive,
		Timezone:          "America/Chicago",
		Branding:          DefaultBranding(),
	}

	b.AddDomainEvent(NewBrokerageCreatedEvent(b))

	return b, nil
}

// Update updates the brokerage's basic information
func (b *Brokerage) Update(name string) error {
	if err := validateBrokerageName(name); err != nil {
		return err
	}

	b.Name = strings.TrimSpace(name)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetContact sets the brokerage's contact information
func (b *Brokerage) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" && len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	b.ContactName = contactName
	b.ContactPhone = phone
	b.ContactEmail = email
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetTimezone sets the brokerage's IANA timezone
func (b *Brokerage) SetTimezone(tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return shared.NewDomainError("INVALID_TIMEZONE", "Unknown timezone: "+tz)
	}

	b.Timezone = tz
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Location resolves the brokerage timezone, falling back to UTC
func (b *Brokerage) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SetBranding replaces the brokerage branding
func (b *Brokerage) SetBranding(branding Branding) error {
	if branding.LogoURL != "" && len(branding.LogoURL) > 500 {
		return shared.NewDomainError("INVALID_URL", "Logo URL cannot exceed 500 characters")
	}
	if branding.PrimaryColor != "" && !colorPattern.MatchString(branding.PrimaryColor) {
		return shared.NewDomainError("INVALID_COLOR", "Primary color must be a hex value like #1A73E8")
	}
	if len(branding.Tagline) > 200 {
		return shared.NewDomainError("INVALID_TAGLINE", "Tagline cannot exceed 200 characters")
	}

	b.Branding = branding
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetNotes sets the brokerage's notes
func (b *Brokerage) SetNotes(notes string) {
	b.Notes = notes
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Suspend suspends the brokerage; suspended brokerages cannot log in
// and are skipped by the reminder sweep
func (b *Brokerage) Suspend() error {
	if b.Status == BrokerageStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Brokerage is already suspended")
	}

	oldStatus := b.Status
	b.Status = BrokerageStatusSuspended
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBrokerageStatusChangedEvent(b, oldStatus, BrokerageStatusSuspended))

	return nil
}

// Activate reactivates a suspended brokerage
func (b *Brokerage) Activate() error {
	if b.Status == BrokerageStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Brokerage is already active")
	}

	oldStatus := b.Status
	b.Status = BrokerageStatusActive
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBrokerageStatusChangedEvent(b, oldStatus, BrokerageStatusActive))

	return nil
}

// IsActive returns true if the brokerage is active
func (b *Brokerage) IsActive() bool {
	return b.Status == BrokerageStatusActive
}

// GetBrokerageID returns the brokerage ID
func (b *Brokerage) GetBrokerageID() uuid.UUID {
	return b.ID
}

func validateBrokerageName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Brokerage name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Brokerage name cannot exceed 200 characters")
	}
	return nil
}
