package telemetry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/closeline/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

func newTestBusinessMetrics(t *testing.T, provider telemetry.PipelineMetricsProvider) *telemetry.BusinessMetrics {
	t.Helper()

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:            noop.NewMeterProvider().Meter("test"),
		Logger:           zap.NewNop(),
		PipelineProvider: provider,
	})
	require.NoError(t, err)
	return bm
}

func TestNewBusinessMetrics(t *testing.T) {
	bm := newTestBusinessMetrics(t, nil)
	require.NotNil(t, bm)
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  nil,
		Logger: zap.NewNop(),
	})

	require.Error(t, err)
	assert.Nil(t, bm)
	assert.Equal(t, "NewBusinessMetrics: meter cannot be nil", err.Error())
}

func TestBusinessMetrics_RecordCounters(t *testing.T) {
	bm := newTestBusinessMetrics(t, nil)
	ctx := context.Background()
	tenantID := uuid.New()

	// Recording against the noop meter must not panic
	bm.RecordTransactionCreated(ctx, tenantID, "listing")
	bm.RecordTransactionCreated(ctx, tenantID, "buyer")
	bm.RecordExport(ctx, tenantID, telemetry.ExportOutcomeCompleted)
	bm.RecordExport(ctx, tenantID, telemetry.ExportOutcomeFailed)
	bm.RecordReminder(ctx, tenantID, "slack", telemetry.DeliveryOutcomeSent)
	bm.RecordReminder(ctx, tenantID, "email", telemetry.DeliveryOutcomeFailed)
}

func TestBusinessMetrics_RecordGauges(t *testing.T) {
	bm := newTestBusinessMetrics(t, nil)
	ctx := context.Background()
	tenantID := uuid.New()

	bm.RecordOpenTransactions(ctx, tenantID, 14)
	bm.RecordPendingExports(ctx, tenantID, 2)
}

// fakePipelineProvider returns canned counts and records which tenants
// were queried
type fakePipelineProvider struct {
	mu      sync.Mutex
	queried []uuid.UUID
	err     error
}

func (p *fakePipelineProvider) GetOpenTransactionCount(_ context.Context, tenantID uuid.UUID) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queried = append(p.queried, tenantID)
	return 7, p.err
}

func (p *fakePipelineProvider) GetPendingExportCount(_ context.Context, _ uuid.UUID) (int64, error) {
	return 1, p.err
}

func (p *fakePipelineProvider) queriedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queried)
}

type fakeTenantProvider struct {
	ids []uuid.UUID
	err error
}

func (p *fakeTenantProvider) GetActiveTenantIDs(_ context.Context) ([]uuid.UUID, error) {
	return p.ids, p.err
}

func TestBusinessMetrics_PeriodicCollection(t *testing.T) {
	provider := &fakePipelineProvider{}
	bm := newTestBusinessMetrics(t, provider)
	defer bm.Stop()

	tenants := &fakeTenantProvider{ids: []uuid.UUID{uuid.New(), uuid.New()}}
	bm.StartPeriodicCollection(context.Background(), tenants, time.Hour)

	// The first collection runs immediately
	assert.Eventually(t, func() bool {
		return provider.queriedCount() == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBusinessMetrics_PeriodicCollection_TenantLookupFails(t *testing.T) {
	provider := &fakePipelineProvider{}
	bm := newTestBusinessMetrics(t, provider)
	defer bm.Stop()

	tenants := &fakeTenantProvider{err: errors.New("database down")}
	bm.StartPeriodicCollection(context.Background(), tenants, time.Hour)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, provider.queriedCount())
}

func TestBusinessMetrics_StopIsIdempotent(t *testing.T) {
	bm := newTestBusinessMetrics(t, nil)
	bm.Stop()
	bm.Stop()
}
