package cma

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/closeline/backend/internal/domain/cma"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportService handles report configuration and sharing
type ReportService struct {
	cmaRepo      cma.Repository
	configRepo   cma.ReportConfigRepository
	exportRepo   cma.ReportExportRepository
	shareLogRepo cma.ShareLogRepository
	storage      ObjectStorage
	emailSender  EmailSender
	logger       *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(
	cmaRepo cma.Repository,
	configRepo cma.ReportConfigRepository,
	exportRepo cma.ReportExportRepository,
	shareLogRepo cma.ShareLogRepository,
	storage ObjectStorage,
	emailSender EmailSender,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		cmaRepo:      cmaRepo,
		configRepo:   configRepo,
		exportRepo:   exportRepo,
		shareLogRepo: shareLogRepo,
		storage:      storage,
		emailSender:  emailSender,
		logger:       logger,
	}
}

// GetConfig returns the report configuration, creating the default one
// on first access
func (s *ReportService) GetConfig(ctx context.Context, brokerageID, cmaID uuid.UUID) (*cma.ReportConfig, error) {
	if _, err := s.cmaRepo.FindByIDForTenant(ctx, brokerageID, cmaID); err != nil {
		return nil, err
	}

	config, err := s.configRepo.FindByCmaID(ctx, brokerageID, cmaID)
	if err == nil {
		return config, nil
	}

	config, err = cma.NewReportConfig(brokerageID, cmaID)
	if err != nil {
		return nil, err
	}
	if err := s.configRepo.Save(ctx, config); err != nil {
		s.logger.Error("Failed to save default report config", zap.Error(err))
		return nil, err
	}
	return config, nil
}

// UpdateConfig replaces the report configuration
func (s *ReportService) UpdateConfig(ctx context.Context, input UpdateReportConfigInput) (*cma.ReportConfig, error) {
	config, err := s.GetConfig(ctx, input.BrokerageID, input.CmaID)
	if err != nil {
		return nil, err
	}

	if err := config.Update(input.Theme, input.AccentColor, input.CoverPhotoKey,
		input.IntroText, input.Disclaimer, input.Sections); err != nil {
		return nil, err
	}

	if err := s.configRepo.SaveWithLock(ctx, config); err != nil {
		s.logger.Error("Failed to save report config", zap.Error(err))
		return nil, err
	}
	return config, nil
}

// Share emails the report to the recipients and records a share log
// entry. A completed export can be attached as a PDF.
func (s *ReportService) Share(ctx context.Context, input ShareReportInput) (*ShareInfo, error) {
	if s.emailSender == nil {
		return nil, shared.NewDomainError("EMAIL_DISABLED", "email delivery is not configured")
	}

	c, err := s.cmaRepo.FindByIDForTenant(ctx, input.BrokerageID, input.CmaID)
	if err != nil {
		return nil, err
	}

	msg := EmailMessage{
		To:      input.Recipients,
		Subject: fmt.Sprintf("Comparative Market Analysis: %s", c.Subject.Address.Line1()),
		HTML:    shareEmailBody(c, input.Message),
	}

	if input.ExportID != nil {
		attachment, err := s.loadAttachment(ctx, input.BrokerageID, c, *input.ExportID)
		if err != nil {
			return nil, err
		}
		msg.Attachment = attachment
	}

	log, err := cma.NewShareLog(input.BrokerageID, input.CmaID, input.SentBy,
		input.Recipients, input.Message, msg.Attachment != nil)
	if err != nil {
		return nil, err
	}

	if err := s.emailSender.Send(ctx, msg); err != nil {
		s.logger.Error("Failed to send share email",
			zap.String("cma_id", input.CmaID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("EMAIL_FAILED", "failed to send the report email")
	}

	if err := s.shareLogRepo.Save(ctx, log); err != nil {
		s.logger.Error("Failed to save share log", zap.Error(err))
		return nil, err
	}

	s.logger.Info("CMA report shared",
		zap.String("cma_id", input.CmaID.String()),
		zap.Int("recipients", len(input.Recipients)))

	info := toShareInfo(log)
	return &info, nil
}

// ListShares returns the share history for a CMA
func (s *ReportService) ListShares(ctx context.Context, brokerageID, cmaID uuid.UUID, filter shared.Filter) ([]ShareInfo, error) {
	logs, err := s.shareLogRepo.FindByCmaID(ctx, brokerageID, cmaID, filter)
	if err != nil {
		return nil, err
	}
	infos := make([]ShareInfo, len(logs))
	for i := range logs {
		infos[i] = toShareInfo(&logs[i])
	}
	return infos, nil
}

func (s *ReportService) loadAttachment(ctx context.Context, brokerageID uuid.UUID, c *cma.Cma, exportID uuid.UUID) (*EmailAttachment, error) {
	export, err := s.exportRepo.FindByIDForTenant(ctx, brokerageID, exportID)
	if err != nil {
		return nil, err
	}
	if export.CmaID != c.ID {
		return nil, shared.NewDomainError("EXPORT_MISMATCH", "export does not belong to this CMA")
	}
	if export.Status != cma.ExportStatusCompleted {
		return nil, shared.NewDomainError("EXPORT_NOT_READY", "export has not completed")
	}

	data, err := s.storage.Download(ctx, export.ObjectKey)
	if err != nil {
		s.logger.Error("Failed to download export for attachment",
			zap.String("object_key", export.ObjectKey),
			zap.Error(err))
		return nil, err
	}

	return &EmailAttachment{
		Filename:    reportFilename(c),
		ContentType: "application/pdf",
		Content:     data,
	}, nil
}

// reportFilename derives a safe download filename from the CMA title,
// e.g. "cma-412-maple-ave.pdf"
func reportFilename(c *cma.Cma) string {
	var b strings.Builder
	for _, r := range strings.ToLower(c.Title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = c.ID.String()[:8]
	}
	return "cma-" + slug + ".pdf"
}

func shareEmailBody(c *cma.Cma, message string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<p>A comparative market analysis for <strong>%s</strong> has been shared with you.</p>",
		html.EscapeString(c.Subject.Address.String())))
	if message != "" {
		b.WriteString(fmt.Sprintf("<p>%s</p>", html.EscapeString(message)))
	}
	return b.String()
}
