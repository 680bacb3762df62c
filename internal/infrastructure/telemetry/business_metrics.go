// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks the pipeline and reporting activity: new
// transactions, report exports, and reminder deliveries.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	transactionCreatedTotal *Counter
	exportTotal             *Counter
	reminderTotal           *Counter

	// Gauge metrics (point-in-time values)
	openTransactions *Gauge
	pendingExports   *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	pipelineProvider PipelineMetricsProvider
}

// PipelineMetricsProvider provides pipeline data for periodic metrics
// collection without coupling the telemetry layer to the domain.
type PipelineMetricsProvider interface {
	// GetOpenTransactionCount returns the number of open transactions for a tenant
	GetOpenTransactionCount(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// GetPendingExportCount returns the number of queued or rendering exports for a tenant
	GetPendingExportCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter            metric.Meter
	Logger           *zap.Logger
	CollectInterval  time.Duration // Default: 5 minutes
	PipelineProvider PipelineMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:            cfg.Meter,
		logger:           logger,
		stopChan:         make(chan struct{}),
		pipelineProvider: cfg.PipelineProvider,
	}

	var err error

	bm.transactionCreatedTotal, err = NewCounter(
		cfg.Meter,
		"closeline_transaction_created_total",
		"Total number of transactions created",
		"{transactions}",
	)
	if err != nil {
		return nil, err
	}

	bm.exportTotal, err = NewCounter(
		cfg.Meter,
		"closeline_report_export_total",
		"Total number of finished report exports by outcome",
		"{exports}",
	)
	if err != nil {
		return nil, err
	}

	bm.reminderTotal, err = NewCounter(
		cfg.Meter,
		"closeline_reminder_total",
		"Total number of reminder delivery attempts by channel and outcome",
		"{reminders}",
	)
	if err != nil {
		return nil, err
	}

	bm.openTransactions, err = NewGauge(
		cfg.Meter,
		"closeline_open_transactions",
		"Current number of open transactions",
		"{transactions}",
	)
	if err != nil {
		return nil, err
	}

	bm.pendingExports, err = NewGauge(
		cfg.Meter,
		"closeline_pending_exports",
		"Current number of queued or rendering report exports",
		"{exports}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Transaction Metrics
// =============================================================================

// RecordTransactionCreated records a transaction intake. Called from the
// application layer when a transaction is created.
func (bm *BusinessMetrics) RecordTransactionCreated(ctx context.Context, tenantID uuid.UUID, side string) {
	bm.transactionCreatedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrTransactionSide.String(side),
	)
}

// =============================================================================
// Export Metrics
// =============================================================================

// ExportOutcome labels a finished export for metrics.
type ExportOutcome string

const (
	ExportOutcomeCompleted ExportOutcome = "completed"
	ExportOutcomeFailed    ExportOutcome = "failed"
)

// RecordExport records a finished report export.
func (bm *BusinessMetrics) RecordExport(ctx context.Context, tenantID uuid.UUID, outcome ExportOutcome) {
	bm.exportTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrExportStatus.String(string(outcome)),
	)
}

// =============================================================================
// Reminder Metrics
// =============================================================================

// DeliveryOutcome labels a reminder delivery attempt for metrics.
type DeliveryOutcome string

const (
	DeliveryOutcomeSent   DeliveryOutcome = "sent"
	DeliveryOutcomeFailed DeliveryOutcome = "failed"
)

// RecordReminder records a reminder delivery attempt.
func (bm *BusinessMetrics) RecordReminder(ctx context.Context, tenantID uuid.UUID, channel string, outcome DeliveryOutcome) {
	bm.reminderTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrChannel.String(channel),
		AttrDeliveryStatus.String(string(outcome)),
	)
}

// =============================================================================
// Pipeline Gauges
// =============================================================================

// RecordOpenTransactions records the current open transaction count.
func (bm *BusinessMetrics) RecordOpenTransactions(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.openTransactions.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordPendingExports records the current pending export count.
func (bm *BusinessMetrics) RecordPendingExports(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.pendingExports.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// Non-blocking; use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectPipelineMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectPipelineMetrics(ctx, tenantProvider)
		}
	}
}

func (bm *BusinessMetrics) collectPipelineMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.pipelineProvider == nil {
		bm.logger.Debug("No pipeline provider configured, skipping gauge collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantPipelineMetrics(ctx, tenantID)
	}
}

func (bm *BusinessMetrics) collectTenantPipelineMetrics(ctx context.Context, tenantID uuid.UUID) {
	openCount, err := bm.pipelineProvider.GetOpenTransactionCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get open transaction count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOpenTransactions(ctx, tenantID, openCount)
	}

	pendingCount, err := bm.pipelineProvider.GetPendingExportCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get pending export count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordPendingExports(ctx, tenantID, pendingCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
