package cma

import (
	"context"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for CMAs. Implementations load and
// save the aggregate with its comparables.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Cma, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Cma, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Cma, error)
	Save(ctx context.Context, c *Cma) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, c *Cma) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// ReportConfigRepository defines persistence for report configs
type ReportConfigRepository interface {
	FindByCmaID(ctx context.Context, tenantID, cmaID uuid.UUID) (*ReportConfig, error)
	Save(ctx context.Context, cfg *ReportConfig) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, cfg *ReportConfig) error
}

// ReportExportRepository defines persistence for export jobs
type ReportExportRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReportExport, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ReportExport, error)
	FindByCmaID(ctx context.Context, tenantID, cmaID uuid.UUID, filter shared.Filter) ([]ReportExport, error)
	Save(ctx context.Context, export *ReportExport) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, export *ReportExport) error
	// CountPendingForTenant counts exports still queued or rendering
	CountPendingForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// ShareLogRepository defines persistence for share logs
type ShareLogRepository interface {
	FindByCmaID(ctx context.Context, tenantID, cmaID uuid.UUID, filter shared.Filter) ([]ShareLog, error)
	Save(ctx context.Context, share *ShareLog) error
}
