package persistence

import (
	"context"
	"errors"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/team"
	"github.com/closeline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAgentProfileRepository implements AgentProfileRepository using GORM
type GormAgentProfileRepository struct {
	db *gorm.DB
}

// NewGormAgentProfileRepository creates a new GormAgentProfileRepository
func NewGormAgentProfileRepository(db *gorm.DB) *GormAgentProfileRepository {
	return &GormAgentProfileRepository{db: db}
}

// FindByID finds an agent profile by its ID
func (r *GormAgentProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*team.AgentProfile, error) {
	var model models.AgentProfileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserID finds the profile for a user within a brokerage
func (r *GormAgentProfileRepository) FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*team.AgentProfile, error) {
	var model models.AgentProfileModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByUserID checks if a profile exists for the user in the brokerage
func (r *GormAgentProfileRepository) ExistsByUserID(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AgentProfileModel{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an agent profile
func (r *GormAgentProfileRepository) Save(ctx context.Context, profile *team.AgentProfile) error {
	model := models.AgentProfileModelFromDomain(profile)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves an agent profile with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the stored version no longer matches.
func (r *GormAgentProfileRepository) SaveWithLock(ctx context.Context, profile *team.AgentProfile) error {
	model := models.AgentProfileModelFromDomain(profile)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", profile.ID, profile.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes an agent profile
func (r *GormAgentProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AgentProfileModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAgentProfileRepository implements AgentProfileRepository
var _ team.AgentProfileRepository = (*GormAgentProfileRepository)(nil)
