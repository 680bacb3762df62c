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

// GormCmaRepository implements cma.Repository using GORM. The aggregate
// loads and saves with its comparables.
type GormCmaRepository struct {
	db *gorm.DB
}

// NewGormCmaRepository creates a new GormCmaRepository
func NewGormCmaRepository(db *gorm.DB) *GormCmaRepository {
	return &GormCmaRepository{db: db}
}

// FindByID finds a CMA by its ID
func (r *GormCmaRepository) FindByID(ctx context.Context, id uuid.UUID) (*cma.Cma, error) {
	var model models.CmaModel
	if err := r.db.WithContext(ctx).
		Preload("Comparables", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a CMA by ID within a brokerage
func (r *GormCmaRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*cma.Cma, error) {
	var model models.CmaModel
	if err := r.db.WithContext(ctx).
		Preload("Comparables", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all CMAs for a brokerage with filtering.
// Comparables load with each row so list views can show comp counts.
func (r *GormCmaRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]cma.Cma, error) {
	var cmaModels []models.CmaModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CmaModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.
		Preload("Comparables", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Find(&cmaModels).Error; err != nil {
		return nil, err
	}

	cmas := make([]cma.Cma, len(cmaModels))
	for i := range cmaModels {
		cmas[i] = *cmaModels[i].ToDomain()
	}
	return cmas, nil
}

// Save creates or updates a CMA with its comparables. Comparables
// removed from the aggregate are deleted in the same transaction.
func (r *GormCmaRepository) Save(ctx context.Context, c *cma.Cma) error {
	model := models.CmaModelFromDomain(c)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Comparables").Save(&model).Error; err != nil {
			return err
		}

		keepIDs := make([]uuid.UUID, len(model.Comparables))
		for i := range model.Comparables {
			keepIDs[i] = model.Comparables[i].ID
		}

		if len(keepIDs) == 0 {
			if err := tx.Delete(&models.ComparableModel{}, "cma_id = ?", model.ID).Error; err != nil {
				return err
			}
			return nil
		}

		if err := tx.Delete(&models.ComparableModel{}, "cma_id = ? AND id NOT IN ?", model.ID, keepIDs).Error; err != nil {
			return err
		}
		return tx.Save(&model.Comparables).Error
	})
}

// SaveWithLock updates a CMA and its comparables with optimistic
// locking (version check). Returns ErrConcurrencyConflict if the
// stored version no longer matches; the comparable replacement rolls
// back with it.
func (r *GormCmaRepository) SaveWithLock(ctx context.Context, c *cma.Cma) error {
	model := models.CmaModelFromDomain(c)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model).
			Select("*").
			Omit("Comparables").
			Where("id = ? AND version = ?", c.ID, c.Version-1).
			Updates(&model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		keepIDs := make([]uuid.UUID, len(model.Comparables))
		for i := range model.Comparables {
			keepIDs[i] = model.Comparables[i].ID
		}

		if len(keepIDs) == 0 {
			return tx.Delete(&models.ComparableModel{}, "cma_id = ?", model.ID).Error
		}

		if err := tx.Delete(&models.ComparableModel{}, "cma_id = ? AND id NOT IN ?", model.ID, keepIDs).Error; err != nil {
			return err
		}
		return tx.Save(&model.Comparables).Error
	})
}

// Delete deletes a CMA and its comparables
func (r *GormCmaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ComparableModel{}, "cma_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CmaModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts CMAs for a brokerage
func (r *GormCmaRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CmaModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormCmaRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, CmaSortFields, "updated_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("updated_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCmaRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search against the title and the subject street
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR subject_address->>'street' ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "agent_user_id":
			query = query.Where("agent_user_id = ?", value)
		case "property_type":
			query = query.Where("property_type = ?", value)
		}
	}

	return query
}

// Ensure GormCmaRepository implements cma.Repository
var _ cma.Repository = (*GormCmaRepository)(nil)
