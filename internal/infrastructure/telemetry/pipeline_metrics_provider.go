// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPipelineMetricsProvider implements PipelineMetricsProvider with
// direct aggregate queries against the transactions and report_exports
// tables.
type GormPipelineMetricsProvider struct {
	db *gorm.DB
}

// NewGormPipelineMetricsProvider creates a new GormPipelineMetricsProvider.
func NewGormPipelineMetricsProvider(db *gorm.DB) *GormPipelineMetricsProvider {
	return &GormPipelineMetricsProvider{db: db}
}

// GetOpenTransactionCount returns the number of transactions not yet in
// a terminal status for a tenant.
func (p *GormPipelineMetricsProvider) GetOpenTransactionCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("transactions").
		Where("tenant_id = ?", tenantID).
		Where("status NOT IN ?", []string{"closed", "cancelled", "withdrawn"}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetPendingExportCount returns the number of queued or rendering
// report exports for a tenant.
func (p *GormPipelineMetricsProvider) GetPendingExportCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("report_exports").
		Where("tenant_id = ?", tenantID).
		Where("status IN ?", []string{"pending", "rendering"}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetActiveTenantIDs returns the IDs of all active brokerages.
func (p *GormPipelineMetricsProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("brokerages").
		Where("status = ?", "active").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Ensure GormPipelineMetricsProvider implements PipelineMetricsProvider
var _ PipelineMetricsProvider = (*GormPipelineMetricsProvider)(nil)
var _ TenantProvider = (*GormPipelineMetricsProvider)(nil)
