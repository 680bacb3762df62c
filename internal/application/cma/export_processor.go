package cma

import (
	"context"
	"errors"
	"fmt"

	"github.com/closeline/backend/internal/domain/cma"
	"github.com/closeline/backend/internal/domain/identity"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/team"
	"github.com/closeline/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Export failure codes recorded on the job for the client to act on
const (
	failCodeCmaNotFound   = "CMA_NOT_FOUND"
	failCodeRenderFailed  = "RENDER_FAILED"
	failCodeStorageFailed = "STORAGE_FAILED"
)

// ExportProcessor renders a queued export job. It is invoked by the
// background workers, one call per job.
type ExportProcessor struct {
	exportRepo    cma.ReportExportRepository
	cmaRepo       cma.Repository
	configRepo    cma.ReportConfigRepository
	brokerageRepo identity.BrokerageRepository
	userRepo      identity.UserRepository
	profileRepo   team.AgentProfileRepository
	renderer      Renderer
	storage       ObjectStorage
	logger        *zap.Logger
	metrics       *telemetry.BusinessMetrics
}

// NewExportProcessor creates a new export processor
func NewExportProcessor(
	exportRepo cma.ReportExportRepository,
	cmaRepo cma.Repository,
	configRepo cma.ReportConfigRepository,
	brokerageRepo identity.BrokerageRepository,
	userRepo identity.UserRepository,
	profileRepo team.AgentProfileRepository,
	renderer Renderer,
	storage ObjectStorage,
	logger *zap.Logger,
) *ExportProcessor {
	return &ExportProcessor{
		exportRepo:    exportRepo,
		cmaRepo:       cmaRepo,
		configRepo:    configRepo,
		brokerageRepo: brokerageRepo,
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		renderer:      renderer,
		storage:       storage,
		logger:        logger,
	}
}

// SetMetrics attaches business metrics recording. Optional; the
// processor works without it.
func (p *ExportProcessor) SetMetrics(metrics *telemetry.BusinessMetrics) {
	p.metrics = metrics
}

// Process runs a pending export to completion. Jobs that already
// finished are skipped so redeliveries are harmless.
func (p *ExportProcessor) Process(ctx context.Context, exportID uuid.UUID) error {
	export, err := p.exportRepo.FindByID(ctx, exportID)
	if err != nil {
		return fmt.Errorf("load export %s: %w", exportID, err)
	}
	if export.IsFinished() {
		p.logger.Debug("Export already finished, skipping",
			zap.String("export_id", exportID.String()),
			zap.String("status", string(export.Status)))
		return nil
	}

	if err := export.Start(); err != nil {
		return err
	}
	if err := p.exportRepo.SaveWithLock(ctx, export); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			// Another worker claimed the job between our read and write.
			p.logger.Debug("Export claimed by another worker",
				zap.String("export_id", exportID.String()))
			return nil
		}
		return fmt.Errorf("mark export rendering: %w", err)
	}

	input, err := p.assembleInput(ctx, export)
	if err != nil {
		return p.fail(ctx, export, failCodeCmaNotFound, err)
	}

	result, err := p.renderer.Render(ctx, *input)
	if err != nil {
		return p.fail(ctx, export, failCodeRenderFailed, err)
	}

	key := objectKey(export)
	if err := p.storage.Upload(ctx, key, result.PDF, "application/pdf"); err != nil {
		return p.fail(ctx, export, failCodeStorageFailed, err)
	}

	if err := export.Complete(key, result.PageCount, int64(len(result.PDF))); err != nil {
		return err
	}
	if err := p.exportRepo.SaveWithLock(ctx, export); err != nil {
		return fmt.Errorf("mark export completed: %w", err)
	}
	if p.metrics != nil {
		p.metrics.RecordExport(ctx, export.TenantID, telemetry.ExportOutcomeCompleted)
	}

	p.logger.Info("Export completed",
		zap.String("export_id", export.ID.String()),
		zap.Int("page_count", result.PageCount),
		zap.Int64("byte_size", export.ByteSize),
		zap.Int64("duration_ms", export.DurationMS))

	return nil
}

// assembleInput loads everything the renderer needs. The report config
// falls back to defaults when the agent never customized it.
func (p *ExportProcessor) assembleInput(ctx context.Context, export *cma.ReportExport) (*RenderInput, error) {
	c, err := p.cmaRepo.FindByIDForTenant(ctx, export.TenantID, export.CmaID)
	if err != nil {
		return nil, err
	}

	config, err := p.configRepo.FindByCmaID(ctx, export.TenantID, export.CmaID)
	if err != nil {
		config, err = cma.NewReportConfig(export.TenantID, export.CmaID)
		if err != nil {
			return nil, err
		}
	}

	brokerage, err := p.brokerageRepo.FindByID(ctx, export.TenantID)
	if err != nil {
		return nil, err
	}
	agent, err := p.userRepo.FindByID(ctx, c.AgentUserID)
	if err != nil {
		return nil, err
	}

	var profile *team.AgentProfile
	if prof, err := p.profileRepo.FindByUserID(ctx, export.TenantID, c.AgentUserID); err == nil {
		profile = prof
	}

	return &RenderInput{
		Cma:       c,
		Config:    config,
		Stats:     c.Statistics(),
		Brokerage: brokerage,
		Agent:     agent,
		Profile:   profile,
	}, nil
}

// fail records the failure on the job. The original error is returned
// so the worker can decide whether to retry.
func (p *ExportProcessor) fail(ctx context.Context, export *cma.ReportExport, code string, cause error) error {
	p.logger.Error("Export failed",
		zap.String("export_id", export.ID.String()),
		zap.String("code", code),
		zap.Error(cause))

	if err := export.Fail(code, cause.Error()); err != nil {
		return err
	}
	if err := p.exportRepo.SaveWithLock(ctx, export); err != nil {
		return fmt.Errorf("mark export failed: %w", err)
	}
	if p.metrics != nil {
		p.metrics.RecordExport(ctx, export.TenantID, telemetry.ExportOutcomeFailed)
	}
	return cause
}

func objectKey(export *cma.ReportExport) string {
	return fmt.Sprintf("reports/%s/%s.pdf", export.TenantID, export.ID)
}
