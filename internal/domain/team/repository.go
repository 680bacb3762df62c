package team

import (
	"context"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CoordinatorRepository defines persistence for coordinators
type CoordinatorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Coordinator, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Coordinator, error)
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*Coordinator, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Coordinator, error)
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]Coordinator, error)
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
	Save(ctx context.Context, coordinator *Coordinator) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, coordinator *Coordinator) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// AgentProfileRepository defines persistence for agent profiles
type AgentProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AgentProfile, error)
	FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*AgentProfile, error)
	ExistsByUserID(ctx context.Context, tenantID, userID uuid.UUID) (bool, error)
	Save(ctx context.Context, profile *AgentProfile) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, profile *AgentProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
}
