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

// GormReportExportRepository implements ReportExportRepository using GORM
type GormReportExportRepository struct {
	db *gorm.DB
}

// NewGormReportExportRepository creates a new GormReportExportRepository
func NewGormReportExportRepository(db *gorm.DB) *GormReportExportRepository {
	return &GormReportExportRepository{db: db}
}

// FindByID finds an export job by its ID
func (r *GormReportExportRepository) FindByID(ctx context.Context, id uuid.UUID) (*cma.ReportExport, error) {
	var model models.ReportExportModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds an export job by ID within a brokerage
func (r *GormReportExportRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*cma.ReportExport, error) {
	var model models.ReportExportModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCmaID finds export jobs for a CMA, newest first by default
func (r *GormReportExportRepository) FindByCmaID(ctx context.Context, tenantID, cmaID uuid.UUID, filter shared.Filter) ([]cma.ReportExport, error) {
	var exportModels []models.ReportExportModel
	query := r.db.WithContext(ctx).
		Model(&models.ReportExportModel{}).
		Where("tenant_id = ? AND cma_id = ?", tenantID, cmaID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, ReportExportSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	if err := query.Find(&exportModels).Error; err != nil {
		return nil, err
	}

	exports := make([]cma.ReportExport, len(exportModels))
	for i, model := range exportModels {
		exports[i] = *model.ToDomain()
	}
	return exports, nil
}

// Save creates or updates an export job
func (r *GormReportExportRepository) Save(ctx context.Context, export *cma.ReportExport) error {
	model := models.ReportExportModelFromDomain(export)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a report export with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the stored version no longer matches.
func (r *GormReportExportRepository) SaveWithLock(ctx context.Context, export *cma.ReportExport) error {
	model := models.ReportExportModelFromDomain(export)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", export.ID, export.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountPendingForTenant counts exports still queued or rendering
func (r *GormReportExportRepository) CountPendingForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ReportExportModel{}).
		Where("tenant_id = ? AND status IN ?", tenantID, []cma.ExportStatus{cma.ExportStatusPending, cma.ExportStatusRendering}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormReportExportRepository implements ReportExportRepository
var _ cma.ReportExportRepository = (*GormReportExportRepository)(nil)
