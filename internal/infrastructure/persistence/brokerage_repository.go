package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/closeline/backend/internal/domain/identity"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBrokerageRepository implements BrokerageRepository using GORM
type GormBrokerageRepository struct {
	db *gorm.DB
}

// NewGormBrokerageRepository creates a new GormBrokerageRepository
func NewGormBrokerageRepository(db *gorm.DB) *GormBrokerageRepository {
	return &GormBrokerageRepository{db: db}
}

// FindByID finds a brokerage by its ID
func (r *GormBrokerageRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Brokerage, error) {
	var model models.BrokerageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a brokerage by its URL slug
func (r *GormBrokerageRepository) FindBySlug(ctx context.Context, slug string) (*identity.Brokerage, error) {
	var model models.BrokerageModel
	if err := r.db.WithContext(ctx).
		Where("slug = ?", strings.ToLower(slug)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all brokerages matching the filter
func (r *GormBrokerageRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Brokerage, error) {
	var brokerageModels []models.BrokerageModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BrokerageModel{}), filter)

	if err := query.Find(&brokerageModels).Error; err != nil {
		return nil, err
	}

	brokerages := make([]identity.Brokerage, len(brokerageModels))
	for i, model := range brokerageModels {
		brokerages[i] = *model.ToDomain()
	}
	return brokerages, nil
}

// FindAllActive finds all active brokerages, for the reminder sweep
func (r *GormBrokerageRepository) FindAllActive(ctx context.Context) ([]identity.Brokerage, error) {
	var brokerageModels []models.BrokerageModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", identity.BrokerageStatusActive).
		Order("name ASC").
		Find(&brokerageModels).Error; err != nil {
		return nil, err
	}

	brokerages := make([]identity.Brokerage, len(brokerageModels))
	for i, model := range brokerageModels {
		brokerages[i] = *model.ToDomain()
	}
	return brokerages, nil
}

// ExistsBySlug checks if a brokerage with the given slug exists
func (r *GormBrokerageRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BrokerageModel{}).
		Where("slug = ?", strings.ToLower(slug)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a brokerage
func (r *GormBrokerageRepository) Save(ctx context.Context, brokerage *identity.Brokerage) error {
	model := models.BrokerageModelFromDomain(brokerage)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a brokerage with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the stored version no longer matches.
func (r *GormBrokerageRepository) SaveWithLock(ctx context.Context, brokerage *identity.Brokerage) error {
	model := models.BrokerageModelFromDomain(brokerage)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", brokerage.ID, brokerage.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts brokerages matching the filter
func (r *GormBrokerageRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.BrokerageModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormBrokerageRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, BrokerageSortFields, "name")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBrokerageRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR slug ILIKE ? OR contact_email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "timezone":
			query = query.Where("timezone = ?", value)
		}
	}

	return query
}

// Ensure GormBrokerageRepository implements BrokerageRepository
var _ identity.BrokerageRepository = (*GormBrokerageRepository)(nil)
