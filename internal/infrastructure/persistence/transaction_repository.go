package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/transaction"
	"github.com/closeline/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// terminalStatuses are the pipeline states with no outgoing transitions
var terminalStatuses = []transaction.Status{
	transaction.StatusClosed,
	transaction.StatusCancelled,
	transaction.StatusWithdrawn,
}

// GormTransactionRepository implements transaction.Repository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a transaction by ID within a brokerage
func (r *GormTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*transaction.Transaction, error) {
	var model models.TransactionModel
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

// FindAllForTenant finds all transactions for a brokerage with filtering
func (r *GormTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]transaction.Transaction, error) {
	var transactionModels []models.TransactionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TransactionModel{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]transaction.Transaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// FindOpenWithClosingDates finds open transactions that have a closing
// date set, for the reminder sweep
func (r *GormTransactionRepository) FindOpenWithClosingDates(ctx context.Context, tenantID uuid.UUID) ([]transaction.Transaction, error) {
	var transactionModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status NOT IN ? AND closing_date IS NOT NULL", tenantID, terminalStatuses).
		Order("closing_date ASC").
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]transaction.Transaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// FindClosingBetween finds open transactions closing inside the window
func (r *GormTransactionRepository) FindClosingBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]transaction.Transaction, error) {
	var transactionModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status NOT IN ? AND closing_date >= ? AND closing_date <= ?", tenantID, terminalStatuses, from, to).
		Order("closing_date ASC").
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]transaction.Transaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// CountByStatus counts transactions grouped by pipeline status
func (r *GormTransactionRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]transaction.StatusCount, error) {
	var counts []transaction.StatusCount
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// CountOpenForTenant counts transactions not yet in a terminal state
func (r *GormTransactionRepository) CountOpenForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("tenant_id = ? AND status NOT IN ?", tenantID, terminalStatuses).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOpenForCoordinator counts open transactions assigned to a coordinator
func (r *GormTransactionRepository) CountOpenForCoordinator(ctx context.Context, tenantID, coordinatorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("tenant_id = ? AND coordinator_id = ? AND status NOT IN ?", tenantID, coordinatorID, terminalStatuses).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ClosedVolumeSince sums the effective price of transactions closed at
// or after the given time. Contract price wins over list price.
func (r *GormTransactionRepository) ClosedVolumeSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var volume decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("COALESCE(SUM(COALESCE(contract_price, list_price)), 0)").
		Where("tenant_id = ? AND status = ? AND closing_date >= ?", tenantID, transaction.StatusClosed, since).
		Scan(&volume).Error; err != nil {
		return decimal.Zero, err
	}
	return volume, nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, txn *transaction.Transaction) error {
	model := models.TransactionModelFromDomain(txn)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a transaction with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the stored version no longer matches.
func (r *GormTransactionRepository) SaveWithLock(ctx context.Context, txn *transaction.Transaction) error {
	model := models.TransactionModelFromDomain(txn)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", txn.ID, txn.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts transactions for a brokerage
func (r *GormTransactionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search. The address is a jsonb column, so search reaches
	// into its street field.
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("client_name ILIKE ? OR mls_number ILIKE ? OR address->>'street' ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "side":
			query = query.Where("side = ?", value)
		case "agent_user_id":
			query = query.Where("agent_user_id = ?", value)
		case "coordinator_id":
			query = query.Where("coordinator_id = ?", value)
		case "open":
			if value == true {
				query = query.Where("status NOT IN ?", terminalStatuses)
			} else {
				query = query.Where("status IN ?", terminalStatuses)
			}
		}
	}

	return query
}

// Ensure GormTransactionRepository implements transaction.Repository
var _ transaction.Repository = (*GormTransactionRepository)(nil)
