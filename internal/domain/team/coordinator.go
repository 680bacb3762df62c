package team

import (
	"regexp"
	"strings"
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CoordinatorStatus represents the status of a transaction coordinator
type CoordinatorStatus string

const (
	CoordinatorStatusActive   CoordinatorStatus = "active"
	CoordinatorStatusInactive CoordinatorStatus = "inactive"
)

// DefaultMaxOpenTransactions caps how many open files a coordinator
// carries before assignment is refused
const DefaultMaxOpenTransactions = 25

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Coordinator is a transaction coordinator who shepherds files to closing.
// Coordinators are invited into the Slack channel of every transaction
// assigned to them; the Slack user ID is resolved lazily from the email.
type Coordinator struct {
	shared.TenantAggregateRoot
	Name                string
	Email               string
	Phone               string
	SlackUserID         string // resolved via users.lookupByEmail, cached here
	Status              CoordinatorStatus
	MaxOpenTransactions int
	Notes               string
}

// NewCoordinator creates a new active coordinator
func NewCoordinator(brokerageID uuid.UUID, name, email string) (*Coordinator, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Coordinator name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Coordinator name cannot exceed 200 characters")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	c := &Coordinator{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(brokerageID),
		Name:                name,
		Email:               email,
		Status:              CoordinatorStatusActive,
		MaxOpenTransactions: DefaultMaxOpenTransactions,
	}

	c.AddDomainEvent(NewCoordinatorCreatedEvent(c))

	return c, nil
}

// Update updates the coordinator's contact details
func (c *Coordinator) Update(name, email, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Coordinator name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Coordinator name cannot exceed 200 characters")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	// Changing the email invalidates the cached Slack user ID
	if email != c.Email {
		c.SlackUserID = ""
	}

	c.Name = name
	c.Email = email
	c.Phone = strings.TrimSpace(phone)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetSlackUserID caches the resolved Slack user ID
func (c *Coordinator) SetSlackUserID(slackUserID string) {
	c.SlackUserID = slackUserID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetMaxOpenTransactions sets the open file cap
func (c *Coordinator) SetMaxOpenTransactions(max int) error {
	if max < 1 {
		return shared.NewDomainError("INVALID_CAPACITY", "Max open transactions must be at least 1")
	}

	c.MaxOpenTransactions = max
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetNotes sets the coordinator's notes
func (c *Coordinator) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate reactivates the coordinator
func (c *Coordinator) Activate() error {
	if c.Status == CoordinatorStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Coordinator is already active")
	}

	c.Status = CoordinatorStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate deactivates the coordinator. Existing assignments stay;
// new transactions cannot be assigned to an inactive coordinator.
func (c *Coordinator) Deactivate() error {
	if c.Status == CoordinatorStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Coordinator is already inactive")
	}

	c.Status = CoordinatorStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCoordinatorDeactivatedEvent(c))

	return nil
}

// IsActive returns true if the coordinator is active
func (c *Coordinator) IsActive() bool {
	return c.Status == CoordinatorStatusActive
}

// CanTakeTransaction reports whether the coordinator can accept another file
func (c *Coordinator) CanTakeTransaction(openCount int) bool {
	return c.IsActive() && openCount < c.MaxOpenTransactions
}
