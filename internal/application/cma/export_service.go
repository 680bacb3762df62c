package cma

import (
	"context"
	"time"

	"github.com/closeline/backend/internal/domain/cma"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// downloadURLExpiration bounds how long a generated report link stays
// valid
const downloadURLExpiration = 15 * time.Minute

// ExportService handles PDF export requests and status polling
type ExportService struct {
	cmaRepo    cma.Repository
	exportRepo cma.ReportExportRepository
	queue      ExportQueue
	storage    ObjectStorage
	logger     *zap.Logger
}

// NewExportService creates a new export service
func NewExportService(
	cmaRepo cma.Repository,
	exportRepo cma.ReportExportRepository,
	queue ExportQueue,
	storage ObjectStorage,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		cmaRepo:    cmaRepo,
		exportRepo: exportRepo,
		queue:      queue,
		storage:    storage,
		logger:     logger,
	}
}

// Request creates a pending export job and hands it to the background
// workers. Clients poll Get until the job finishes.
func (s *ExportService) Request(ctx context.Context, brokerageID, cmaID, requestedBy uuid.UUID) (*ExportInfo, error) {
	c, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID)
	if err != nil {
		return nil, err
	}
	if c.Status == cma.CmaStatusArchived {
		return nil, shared.NewDomainError("CMA_ARCHIVED", "archived CMAs cannot be exported")
	}
	if len(c.Comparables) == 0 {
		return nil, shared.NewDomainError("NO_COMPARABLES", "add at least one comparable before exporting")
	}

	export, err := cma.NewReportExport(brokerageID, cmaID, requestedBy)
	if err != nil {
		return nil, err
	}
	if err := s.exportRepo.Save(ctx, export); err != nil {
		s.logger.Error("Failed to save export job", zap.Error(err))
		return nil, err
	}

	if err := s.queue.Enqueue(ctx, brokerageID, export.ID); err != nil {
		s.logger.Error("Failed to enqueue export job",
			zap.String("export_id", export.ID.String()),
			zap.Error(err))
		_ = export.Fail("QUEUE_FULL", "export queue is full, try again later")
		if saveErr := s.exportRepo.SaveWithLock(ctx, export); saveErr != nil {
			s.logger.Error("Failed to mark export failed", zap.Error(saveErr))
		}
		return nil, shared.NewDomainError("QUEUE_FULL", "export queue is full, try again later")
	}

	s.logger.Info("Export requested",
		zap.String("cma_id", cmaID.String()),
		zap.String("export_id", export.ID.String()))

	info := toExportInfo(export)
	return &info, nil
}

// Get returns one export job
func (s *ExportService) Get(ctx context.Context, brokerageID, exportID uuid.UUID) (*ExportInfo, error) {
	export, err := s.exportRepo.FindByIDForTenant(ctx, brokerageID, exportID)
	if err != nil {
		return nil, err
	}
	info := toExportInfo(export)
	return &info, nil
}

// List returns the export history for a CMA
func (s *ExportService) List(ctx context.Context, brokerageID, cmaID uuid.UUID, filter shared.Filter) ([]ExportInfo, error) {
	exports, err := s.exportRepo.FindByCmaID(ctx, brokerageID, cmaID, filter)
	if err != nil {
		return nil, err
	}
	infos := make([]ExportInfo, len(exports))
	for i := range exports {
		infos[i] = toExportInfo(&exports[i])
	}
	return infos, nil
}

// DownloadURL returns a short-lived link to a completed export
func (s *ExportService) DownloadURL(ctx context.Context, brokerageID, exportID uuid.UUID) (string, error) {
	export, err := s.exportRepo.FindByIDForTenant(ctx, brokerageID, exportID)
	if err != nil {
		return "", err
	}
	if export.Status != cma.ExportStatusCompleted {
		return "", shared.NewDomainError("EXPORT_NOT_READY", "export has not completed")
	}

	url, err := s.storage.GenerateDownloadURL(ctx, export.ObjectKey, downloadURLExpiration)
	if err != nil {
		s.logger.Error("Failed to generate download URL",
			zap.String("object_key", export.ObjectKey),
			zap.Error(err))
		return "", err
	}
	return url, nil
}
