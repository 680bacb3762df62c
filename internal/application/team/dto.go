package team

import (
	"github.com/google/uuid"
)

// CreateCoordinatorInput contains the fields for creating a coordinator
type CreateCoordinatorInput struct {
	BrokerageID uuid.UUID
	Name        string
	Email       string
	Phone       string
	Notes       string
}

// UpdateCoordinatorInput contains the fields for updating a coordinator
type UpdateCoordinatorInput struct {
	BrokerageID   uuid.UUID
	CoordinatorID uuid.UUID
	Name          string
	Email         string
	Phone         string
	Notes         string
	// MaxOpenTransactions of 0 leaves the current cap unchanged
	MaxOpenTransactions int
}

// CoordinatorInfo is the coordinator read model with the current workload
type CoordinatorInfo struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	SlackUserID         string    `json:"slack_user_id,omitempty"`
	Status              string    `json:"status"`
	MaxOpenTransactions int       `json:"max_open_transactions"`
	OpenTransactions    int64     `json:"open_transactions"`
	Notes               string    `json:"notes,omitempty"`
}

// UpsertAgentProfileInput contains the fields for creating or updating
// an agent's profile
type UpsertAgentProfileInput struct {
	BrokerageID     uuid.UUID
	UserID          uuid.UUID
	LicenseNumber   string
	Phone           string
	Title           string
	Bio             string
	YearsExperience int
	ServiceAreas    []string
}

// AgentProfileInfo is the agent profile read model
type AgentProfileInfo struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	LicenseNumber   string    `json:"license_number"`
	Phone           string    `json:"phone,omitempty"`
	Title           string    `json:"title,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	YearsExperience int       `json:"years_experience"`
	ServiceAreas    []string  `json:"service_areas"`
	HeadshotKey     string    `json:"headshot_key,omitempty"`
}
