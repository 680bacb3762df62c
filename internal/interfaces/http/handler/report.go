package handler

import (
	cmaapp "github.com/closeline/backend/internal/application/cma"
	"github.com/closeline/backend/internal/domain/cma"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler handles CMA report configuration and sharing endpoints
type ReportHandler struct {
	BaseHandler
	reportService *cmaapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *cmaapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// SectionToggleRequest represents one report section toggle
// @Description Report section with its enabled flag; order matters
type SectionToggleRequest struct {
	Section string `json:"section" binding:"required,oneof=cover letter subject comps stats adjustments pricing agent_resume" example:"cover"`
	Enabled bool   `json:"enabled"`
}

// UpdateReportConfigRequest represents a request to update report settings
// @Description Request body for replacing a CMA's report configuration
type UpdateReportConfigRequest struct {
	Theme         string                 `json:"theme" binding:"required,oneof=classic modern bold" example:"classic"`
	AccentColor   string                 `json:"accent_color" binding:"omitempty,hex_color" example:"#1A73E8"`
	CoverPhotoKey string                 `json:"cover_photo_key" binding:"max=500"`
	IntroText     string                 `json:"intro_text" binding:"max=5000"`
	Disclaimer    string                 `json:"disclaimer" binding:"max=2000"`
	Sections      []SectionToggleRequest `json:"sections" binding:"required,min=1,dive"`
}

// ShareReportRequest represents a request to email a CMA report
// @Description Request body for sharing a CMA report with clients
type ShareReportRequest struct {
	Recipients []string `json:"recipients" binding:"required,min=1,max=10,dive,email"`
	Message    string   `json:"message" binding:"max=5000"`
	// ExportID attaches the named completed export's PDF
	ExportID string `json:"export_id" binding:"omitempty,uuid"`
}

// ReportConfigResponse represents the report configuration in responses
// @Description Report configuration for a CMA
type ReportConfigResponse struct {
	CmaID         uuid.UUID           `json:"cma_id"`
	Theme         string              `json:"theme" example:"classic" enums:"classic,modern,bold"`
	AccentColor   string              `json:"accent_color" example:"#1F2937"`
	CoverPhotoKey string              `json:"cover_photo_key,omitempty"`
	IntroText     string              `json:"intro_text,omitempty"`
	Disclaimer    string              `json:"disclaimer,omitempty"`
	Sections      []cma.SectionToggle `json:"sections"`
}

func toReportConfigResponse(cfg *cma.ReportConfig) ReportConfigResponse {
	return ReportConfigResponse{
		CmaID:         cfg.CmaID,
		Theme:         string(cfg.Theme),
		AccentColor:   cfg.AccentColor,
		CoverPhotoKey: cfg.CoverPhotoKey,
		IntroText:     cfg.IntroText,
		Disclaimer:    cfg.Disclaimer,
		Sections:      cfg.Sections,
	}
}

// GetConfig godoc
// @ID           getReportConfig
// @Summary      Get the report configuration
// @Description  Get a CMA's report configuration, created with defaults on first access
// @Tags         reports
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Success      200 {object} APIResponse[ReportConfigResponse]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/report/config [get]
func (h *ReportHandler) GetConfig(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	cfg, err := h.reportService.GetConfig(c.Request.Context(), brokerageID, cmaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toReportConfigResponse(cfg))
}

// UpdateConfig godoc
// @ID           updateReportConfig
// @Summary      Update the report configuration
// @Description  Replace the CMA's report theme, branding and section layout
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Param        request body UpdateReportConfigRequest true "Report configuration"
// @Success      200 {object} APIResponse[ReportConfigResponse]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/report/config [put]
func (h *ReportHandler) UpdateConfig(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	var req UpdateReportConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sections := make([]cma.SectionToggle, len(req.Sections))
	for i, s := range req.Sections {
		sections[i] = cma.SectionToggle{
			Section: cma.ReportSection(s.Section),
			Enabled: s.Enabled,
		}
	}

	cfg, err := h.reportService.UpdateConfig(c.Request.Context(), cmaapp.UpdateReportConfigInput{
		BrokerageID:   brokerageID,
		CmaID:         cmaID,
		Theme:         cma.ReportTheme(req.Theme),
		AccentColor:   req.AccentColor,
		CoverPhotoKey: req.CoverPhotoKey,
		IntroText:     req.IntroText,
		Disclaimer:    req.Disclaimer,
		Sections:      sections,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toReportConfigResponse(cfg))
}

// Share godoc
// @ID           shareReport
// @Summary      Share a report
// @Description  Email the CMA report to clients, optionally attaching an exported PDF
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Param        request body ShareReportRequest true "Share request"
// @Success      200 {object} APIResponse[cmaapp.ShareInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/report/share [post]
func (h *ReportHandler) Share(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	sentBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ShareReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := cmaapp.ShareReportInput{
		BrokerageID: brokerageID,
		CmaID:       cmaID,
		SentBy:      sentBy,
		Recipients:  req.Recipients,
		Message:     req.Message,
	}
	if req.ExportID != "" {
		exportID, err := uuid.Parse(req.ExportID)
		if err != nil {
			h.BadRequest(c, "Invalid export ID format")
			return
		}
		input.ExportID = &exportID
	}

	info, err := h.reportService.Share(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ListShares godoc
// @ID           listReportShares
// @Summary      List report shares
// @Description  List the share log entries for a CMA, newest first
// @Tags         reports
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Success      200 {object} APIResponse[[]cmaapp.ShareInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/report/shares [get]
func (h *ReportHandler) ListShares(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	infos, err := h.reportService.ListShares(c.Request.Context(), brokerageID, cmaID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, infos)
}

// ids extracts the brokerage ID and the :id path parameter, writing the
// error response itself when either is invalid
func (h *ReportHandler) ids(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return uuid.Nil, uuid.Nil, false
	}

	cmaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid CMA ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return brokerageID, cmaID, true
}
