package identity

import (
	"context"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BrokerageRepository defines persistence for brokerages
type BrokerageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Brokerage, error)
	FindBySlug(ctx context.Context, slug string) (*Brokerage, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Brokerage, error)
	FindAllActive(ctx context.Context) ([]Brokerage, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, brokerage *Brokerage) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, brokerage *Brokerage) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
