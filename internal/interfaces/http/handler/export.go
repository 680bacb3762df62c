package handler

import (
	cmaapp "github.com/closeline/backend/internal/application/cma"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExportHandler handles CMA report export API endpoints. Exports render
// asynchronously; clients poll the job until it completes.
type ExportHandler struct {
	BaseHandler
	exportService *cmaapp.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *cmaapp.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Request godoc
// @ID           requestCmaExport
// @Summary      Request a PDF export
// @Description  Queue a PDF render of the CMA report; poll the returned job for completion
// @Tags         exports
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Success      202 {object} APIResponse[cmaapp.ExportInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/exports [post]
func (h *ExportHandler) Request(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	cmaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid CMA ID format")
		return
	}

	requestedBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	info, err := h.exportService.Request(c.Request.Context(), brokerageID, cmaID, requestedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Accepted(c, info)
}

// List godoc
// @ID           listCmaExports
// @Summary      List exports
// @Description  List a CMA's export jobs, newest first
// @Tags         exports
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Success      200 {object} APIResponse[[]cmaapp.ExportInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/exports [get]
func (h *ExportHandler) List(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	cmaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid CMA ID format")
		return
	}

	infos, err := h.exportService.List(c.Request.Context(), brokerageID, cmaID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, infos)
}

// GetByID godoc
// @ID           getExport
// @Summary      Get an export job
// @Description  Get an export job's status and result metadata
// @Tags         exports
// @Produce      json
// @Param        id path string true "Export ID" format(uuid)
// @Success      200 {object} APIResponse[cmaapp.ExportInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /exports/{id} [get]
func (h *ExportHandler) GetByID(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	exportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid export ID format")
		return
	}

	info, err := h.exportService.Get(c.Request.Context(), brokerageID, exportID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// DownloadURL godoc
// @ID           getExportDownloadURL
// @Summary      Get a download URL
// @Description  Get a short-lived presigned URL for a completed export's PDF
// @Tags         exports
// @Produce      json
// @Param        id path string true "Export ID" format(uuid)
// @Success      200 {object} APIResponse[DownloadURLData]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /exports/{id}/download [get]
func (h *ExportHandler) DownloadURL(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	exportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid export ID format")
		return
	}

	url, err := h.exportService.DownloadURL(c.Request.Context(), brokerageID, exportID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DownloadURLData{
		URL:       url,
		ExpiresIn: 900,
	})
}
