package cma

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/closeline/backend/internal/domain/cma"
	"github.com/closeline/backend/internal/domain/identity"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExportService() (*ExportService, *MockCmaRepository, *MockReportExportRepository, *MockExportQueue, *MockObjectStorage) {
	cmaRepo := new(MockCmaRepository)
	exportRepo := new(MockReportExportRepository)
	queue := new(MockExportQueue)
	storage := new(MockObjectStorage)
	service := NewExportService(cmaRepo, exportRepo, queue, storage, zap.NewNop())
	return service, cmaRepo, exportRepo, queue, storage
}

func newExportableCma(t *testing.T) *cma.Cma {
	t.Helper()
	c := newDomainCma(t)
	in, err := soldCompFields(432000).toInput()
	require.NoError(t, err)
	_, err = c.AddComparable(in)
	require.NoError(t, err)
	return c
}

func TestExportService_Request(t *testing.T) {
	service, cmaRepo, exportRepo, queue, _ := newTestExportService()
	ctx := context.Background()
	c := newExportableCma(t)
	requestedBy := uuid.New()

	cmaRepo.On("FindByIDForTenant", ctx, c.TenantID, c.ID).Return(c, nil)
	exportRepo.On("Save", ctx, mock.AnythingOfType("*cma.ReportExport")).Return(nil)
	queue.On("Enqueue", ctx, c.TenantID, mock.AnythingOfType("uuid.UUID")).Return(nil)

	info, err := service.Request(ctx, c.TenantID, c.ID, requestedBy)

	require.NoError(t, err)
	assert.Equal(t, cma.ExportStatusPending, info.Status)
	assert.Equal(t, c.ID, info.CmaID)
	queue.AssertExpectations(t)
}

func TestExportService_Request_NoComparables(t *testing.T) {
	service, cmaRepo, _, queue, _ := newTestExportService()
	ctx := context.Background()
	c := newDomainCma(t)

	cmaRepo.On("FindByIDForTenant", ctx, c.TenantID, c.ID).Return(c, nil)

	_, err := service.Request(ctx, c.TenantID, c.ID, uuid.New())

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_COMPARABLES", domainErr.Code)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportService_Request_QueueFull(t *testing.T) {
	service, cmaRepo, exportRepo, queue, _ := newTestExportService()
	ctx := context.Background()
	c := newExportableCma(t)

	cmaRepo.On("FindByIDForTenant", ctx, c.TenantID, c.ID).Return(c, nil)
	exportRepo.On("Save", ctx, mock.AnythingOfType("*cma.ReportExport")).Return(nil)
	exportRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*cma.ReportExport")).Return(nil)
	queue.On("Enqueue", ctx, c.TenantID, mock.AnythingOfType("uuid.UUID")).
		Return(errors.New("queue full"))

	_, err := service.Request(ctx, c.TenantID, c.ID, uuid.New())

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "QUEUE_FULL", domainErr.Code)
	// The job is persisted twice: once pending, once marked failed
	exportRepo.AssertNumberOfCalls(t, "Save", 1)
	exportRepo.AssertNumberOfCalls(t, "SaveWithLock", 1)
}

func TestExportService_DownloadURL(t *testing.T) {
	service, _, exportRepo, _, storage := newTestExportService()
	ctx := context.Background()

	export, err := cma.NewReportExport(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, export.Start())
	require.NoError(t, export.Complete("reports/key.pdf", 6, 240_000))

	exportRepo.On("FindByIDForTenant", ctx, export.TenantID, export.ID).Return(export, nil)
	storage.On("GenerateDownloadURL", ctx, "reports/key.pdf", downloadURLExpiration).
		Return("https://storage.example.com/reports/key.pdf?sig=abc", nil)

	url, err := service.DownloadURL(ctx, export.TenantID, export.ID)

	require.NoError(t, err)
	assert.Contains(t, url, "reports/key.pdf")
}

func TestExportService_DownloadURL_NotReady(t *testing.T) {
	service, _, exportRepo, _, _ := newTestExportService()
	ctx := context.Background()

	export, err := cma.NewReportExport(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)

	exportRepo.On("FindByIDForTenant", ctx, export.TenantID, export.ID).Return(export, nil)

	_, err = service.DownloadURL(ctx, export.TenantID, export.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EXPORT_NOT_READY", domainErr.Code)
}

func newTestProcessor() (*ExportProcessor, *MockReportExportRepository, *MockCmaRepository, *MockReportConfigRepository, *MockRenderer, *MockObjectStorage) {
	exportRepo := new(MockReportExportRepository)
	cmaRepo := new(MockCmaRepository)
	configRepo := new(MockReportConfigRepository)
	brokerageRepo := new(MockBrokerageRepository)
	userRepo := new(MockUserRepository)
	profileRepo := new(MockAgentProfileRepository)
	renderer := new(MockRenderer)
	storage := new(MockObjectStorage)

	brokerage, _ := identity.NewBrokerage("Lakeside Realty", "lakeside-realty")
	brokerageRepo.On("FindByID", mock.Anything, mock.Anything).Return(brokerage, nil)

	agent, _ := identity.NewUser(brokerage.ID, "pat@lakeside.com", "correct-horse-battery", "Pat Rivera", identity.UserRoleAgent)
	userRepo.On("FindByID", mock.Anything, mock.Anything).Return(agent, nil)
	profileRepo.On("FindByUserID", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, shared.ErrNotFound)

	processor := NewExportProcessor(exportRepo, cmaRepo, configRepo, brokerageRepo,
		userRepo, profileRepo, renderer, storage, zap.NewNop())
	return processor, exportRepo, cmaRepo, configRepo, renderer, storage
}

func TestExportProcessor_Process(t *testing.T) {
	processor, exportRepo, cmaRepo, configRepo, renderer, storage := newTestProcessor()
	ctx := context.Background()
	c := newExportableCma(t)

	export, err := cma.NewReportExport(c.TenantID, c.ID, uuid.New())
	require.NoError(t, err)

	config, err := cma.NewReportConfig(c.TenantID, c.ID)
	require.NoError(t, err)

	exportRepo.On("FindByID", ctx, export.ID).Return(export, nil)
	exportRepo.On("SaveWithLock", ctx, export).Return(nil)
	cmaRepo.On("FindByIDForTenant", ctx, c.TenantID, c.ID).Return(c, nil)
	configRepo.On("FindByCmaID", ctx, c.TenantID, c.ID).Return(config, nil)
	renderer.On("Render", ctx, mock.AnythingOfType("cma.RenderInput")).
		Return(&RenderResult{PDF: []byte("%PDF-1.7 fake"), PageCount: 6}, nil)
	storage.On("Upload", ctx, mock.AnythingOfType("string"), mock.Anything, "application/pdf").
		Return(nil)

	err = processor.Process(ctx, export.ID)

	require.NoError(t, err)
	assert.Equal(t, cma.ExportStatusCompleted, export.Status)
	assert.Equal(t, 6, export.PageCount)
	assert.Equal(t, int64(len("%PDF-1.7 fake")), export.ByteSize)
	assert.Contains(t, export.ObjectKey, export.ID.String())
	// One save for the rendering transition, one for completion
	exportRepo.AssertNumberOfCalls(t, "SaveWithLock", 2)
}

func TestExportProcessor_Process_RenderFailure(t *testing.T) {
	processor, exportRepo, cmaRepo, configRepo, renderer, storage := newTestProcessor()
	ctx := context.Background()
	c := newExportableCma(t)

	export, err := cma.NewReportExport(c.TenantID, c.ID, uuid.New())
	require.NoError(t, err)

	config, err := cma.NewReportConfig(c.TenantID, c.ID)
	require.NoError(t, err)

	exportRepo.On("FindByID", ctx, export.ID).Return(export, nil)
	exportRepo.On("SaveWithLock", ctx, export).Return(nil)
	cmaRepo.On("FindByIDForTenant", ctx, c.TenantID, c.ID).Return(c, nil)
	configRepo.On("FindByCmaID", ctx, c.TenantID, c.ID).Return(config, nil)
	renderer.On("Render", ctx, mock.AnythingOfType("cma.RenderInput")).
		Return(nil, errors.New("chrome exited unexpectedly"))

	err = processor.Process(ctx, export.ID)

	require.Error(t, err)
	assert.Equal(t, cma.ExportStatusFailed, export.Status)
	assert.Equal(t, failCodeRenderFailed, export.ErrorCode)
	assert.Contains(t, export.ErrorMsg, "chrome exited unexpectedly")
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExportProcessor_Process_SkipsFinishedJob(t *testing.T) {
	processor, exportRepo, _, _, renderer, _ := newTestProcessor()
	ctx := context.Background()

	export, err := cma.NewReportExport(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, export.Start())
	require.NoError(t, export.Complete("reports/done.pdf", 4, 100_000))

	exportRepo.On("FindByID", ctx, export.ID).Return(export, nil)

	require.NoError(t, processor.Process(ctx, export.ID))
	renderer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
	exportRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestExportProcessor_Process_ClaimedByAnotherWorker(t *testing.T) {
	processor, exportRepo, _, _, renderer, _ := newTestProcessor()
	ctx := context.Background()

	export, err := cma.NewReportExport(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)

	exportRepo.On("FindByID", ctx, export.ID).Return(export, nil)
	exportRepo.On("SaveWithLock", ctx, export).Return(shared.ErrConcurrencyConflict)

	require.NoError(t, processor.Process(ctx, export.ID))
	renderer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
}

func TestExportProcessor_Process_DefaultConfigWhenMissing(t *testing.T) {
	processor, exportRepo, cmaRepo, configRepo, renderer, storage := newTestProcessor()
	ctx := context.Background()
	c := newExportableCma(t)

	export, err := cma.NewReportExport(c.TenantID, c.ID, uuid.New())
	require.NoError(t, err)

	exportRepo.On("FindByID", ctx, export.ID).Return(export, nil)
	exportRepo.On("SaveWithLock", ctx, export).Return(nil)
	cmaRepo.On("FindByIDForTenant", ctx, c.TenantID, c.ID).Return(c, nil)
	configRepo.On("FindByCmaID", ctx, c.TenantID, c.ID).Return(nil, shared.ErrNotFound)

	var seen RenderInput
	renderer.On("Render", ctx, mock.AnythingOfType("cma.RenderInput")).
		Run(func(args mock.Arguments) { seen = args.Get(1).(RenderInput) }).
		Return(&RenderResult{PDF: []byte("pdf"), PageCount: 3}, nil)
	storage.On("Upload", ctx, mock.AnythingOfType("string"), mock.Anything, "application/pdf").
		Return(nil)

	require.NoError(t, processor.Process(ctx, export.ID))
	require.NotNil(t, seen.Config)
	assert.Equal(t, cma.ThemeClassic, seen.Config.Theme)
	assert.Nil(t, seen.Profile)
}

func TestExportInfoTimestamps(t *testing.T) {
	export, err := cma.NewReportExport(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, export.Start())
	time.Sleep(time.Millisecond)
	require.NoError(t, export.Complete("reports/key.pdf", 2, 1024))

	info := toExportInfo(export)
	require.NotNil(t, info.StartedAt)
	require.NotNil(t, info.CompletedAt)
	assert.True(t, info.DurationMS >= 0)
}
