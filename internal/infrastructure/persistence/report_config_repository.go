package persistence

import (
	"context"
	"errors"

	"github.com/closeline/backend/internal/domain/cma"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReportConfigRepository implements ReportConfigRepository using GORM
type GormReportConfigRepository struct {
	db *gorm.DB
}

// NewGormReportConfigRepository creates a new GormReportConfigRepository
func NewGormReportConfigRepository(db *gorm.DB) *GormReportConfigRepository {
	return &GormReportConfigRepository{db: db}
}

// FindByCmaID finds the report config for a CMA
func (r *GormReportConfigRepository) FindByCmaID(ctx context.Context, tenantID, cmaID uuid.UUID) (*cma.ReportConfig, error) {
	var model models.ReportConfigModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND cma_id = ?", tenantID, cmaID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a report config
func (r *GormReportConfigRepository) Save(ctx context.Context, cfg *cma.ReportConfig) error {
	model := models.ReportConfigModelFromDomain(cfg)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a report config with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the stored version no longer matches.
func (r *GormReportConfigRepository) SaveWithLock(ctx context.Context, cfg *cma.ReportConfig) error {
	model := models.ReportConfigModelFromDomain(cfg)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", cfg.ID, cfg.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormReportConfigRepository implements ReportConfigRepository
var _ cma.ReportConfigRepository = (*GormReportConfigRepository)(nil)
