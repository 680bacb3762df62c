package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/team"
	"github.com/closeline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCoordinatorRepository implements CoordinatorRepository using GORM
type GormCoordinatorRepository struct {
	db *gorm.DB
}

// NewGormCoordinatorRepository creates a new GormCoordinatorRepository
func NewGormCoordinatorRepository(db *gorm.DB) *GormCoordinatorRepository {
	return &GormCoordinatorRepository{db: db}
}

// FindByID finds a coordinator by its ID
func (r *GormCoordinatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*team.Coordinator, error) {
	var model models.CoordinatorModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a coordinator by ID within a brokerage
func (r *GormCoordinatorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*team.Coordinator, error) {
	var model models.CoordinatorModel
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

// FindByEmail finds a coordinator by email within a brokerage
func (r *GormCoordinatorRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*team.Coordinator, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var model models.CoordinatorModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, strings.ToLower(email)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all coordinators for a brokerage
func (r *GormCoordinatorRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]team.Coordinator, error) {
	var coordinatorModels []models.CoordinatorModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CoordinatorModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&coordinatorModels).Error; err != nil {
		return nil, err
	}

	coordinators := make([]team.Coordinator, len(coordinatorModels))
	for i, model := range coordinatorModels {
		coordinators[i] = *model.ToDomain()
	}
	return coordinators, nil
}

// FindActiveForTenant finds all active coordinators for a brokerage
func (r *GormCoordinatorRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]team.Coordinator, error) {
	var coordinatorModels []models.CoordinatorModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, team.CoordinatorStatusActive).
		Order("name ASC").
		Find(&coordinatorModels).Error; err != nil {
		return nil, err
	}

	coordinators := make([]team.Coordinator, len(coordinatorModels))
	for i, model := range coordinatorModels {
		coordinators[i] = *model.ToDomain()
	}
	return coordinators, nil
}

// ExistsByEmail checks if a coordinator with the given email exists in the brokerage
func (r *GormCoordinatorRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CoordinatorModel{}).
		Where("tenant_id = ? AND email = ?", tenantID, strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a coordinator
func (r *GormCoordinatorRepository) Save(ctx context.Context, coordinator *team.Coordinator) error {
	model := models.CoordinatorModelFromDomain(coordinator)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a coordinator with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the stored version no longer matches.
func (r *GormCoordinatorRepository) SaveWithLock(ctx context.Context, coordinator *team.Coordinator) error {
	model := models.CoordinatorModelFromDomain(coordinator)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", coordinator.ID, coordinator.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a coordinator
func (r *GormCoordinatorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CoordinatorModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts coordinators for a brokerage
func (r *GormCoordinatorRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CoordinatorModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormCoordinatorRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, CoordinatorSortFields, "name")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCoordinatorRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormCoordinatorRepository implements CoordinatorRepository
var _ team.CoordinatorRepository = (*GormCoordinatorRepository)(nil)
