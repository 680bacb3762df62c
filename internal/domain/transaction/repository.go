package transaction

import (
	"context"
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusCount is a pipeline bucket in the summary
type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

// PipelineSummary aggregates the brokerage's pipeline for the dashboard
type PipelineSummary struct {
	ByStatus         []StatusCount   `json:"by_status"`
	UpcomingClosings int64           `json:"upcoming_closings"`
	ClosedVolumeMTD  decimal.Decimal `json:"closed_volume_mtd"`
	ClosedVolumeYTD  decimal.Decimal `json:"closed_volume_ytd"`
}

// Repository defines persistence for transactions
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Transaction, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Transaction, error)
	// FindOpenWithClosingDates returns open transactions that have a
	// closing date set, for the reminder sweep.
	FindOpenWithClosingDates(ctx context.Context, tenantID uuid.UUID) ([]Transaction, error)
	// FindClosingBetween returns open transactions closing inside the window
	FindClosingBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Transaction, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]StatusCount, error)
	// CountOpenForTenant counts transactions not yet in a terminal state
	CountOpenForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountOpenForCoordinator(ctx context.Context, tenantID, coordinatorID uuid.UUID) (int64, error)
	// ClosedVolumeSince sums the effective price of transactions closed
	// at or after the given time.
	ClosedVolumeSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (decimal.Decimal, error)
	Save(ctx context.Context, txn *Transaction) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, txn *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
