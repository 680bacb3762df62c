package persistence

import (
	"context"

	"github.com/closeline/backend/internal/domain/cma"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormShareLogRepository implements ShareLogRepository using GORM
type GormShareLogRepository struct {
	db *gorm.DB
}

// NewGormShareLogRepository creates a new GormShareLogRepository
func NewGormShareLogRepository(db *gorm.DB) *GormShareLogRepository {
	return &GormShareLogRepository{db: db}
}

// FindByCmaID finds share logs for a CMA, newest first
func (r *GormShareLogRepository) FindByCmaID(ctx context.Context, tenantID, cmaID uuid.UUID, filter shared.Filter) ([]cma.ShareLog, error) {
	var shareModels []models.ShareLogModel
	query := r.db.WithContext(ctx).
		Model(&models.ShareLogModel{}).
		Where("tenant_id = ? AND cma_id = ?", tenantID, cmaID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("sent_at DESC").Find(&shareModels).Error; err != nil {
		return nil, err
	}

	shares := make([]cma.ShareLog, len(shareModels))
	for i, model := range shareModels {
		shares[i] = *model.ToDomain()
	}
	return shares, nil
}

// Save creates or updates a share log
func (r *GormShareLogRepository) Save(ctx context.Context, share *cma.ShareLog) error {
	model := models.ShareLogModelFromDomain(share)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormShareLogRepository implements ShareLogRepository
var _ cma.ShareLogRepository = (*GormShareLogRepository)(nil)
