package handler

import (
	teamapp "github.com/closeline/backend/internal/application/team"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CoordinatorHandler handles transaction coordinator API endpoints
type CoordinatorHandler struct {
	BaseHandler
	coordinatorService *teamapp.CoordinatorService
}

// NewCoordinatorHandler creates a new CoordinatorHandler
func NewCoordinatorHandler(coordinatorService *teamapp.CoordinatorService) *CoordinatorHandler {
	return &CoordinatorHandler{
		coordinatorService: coordinatorService,
	}
}

// CreateCoordinatorRequest represents a request to create a coordinator
// @Description Request body for adding a transaction coordinator
type CreateCoordinatorRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100" example:"Dana Whitfield"`
	Email string `json:"email" binding:"required,email,max=200" example:"dana@lakeside.com"`
	Phone string `json:"phone" binding:"max=50" example:"555-0123"`
	Notes string `json:"notes" binding:"max=2000"`
}

// UpdateCoordinatorRequest represents a request to update a coordinator
// @Description Request body for updating a coordinator's details and workload cap
type UpdateCoordinatorRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100" example:"Dana Whitfield"`
	Email string `json:"email" binding:"required,email,max=200" example:"dana@lakeside.com"`
	Phone string `json:"phone" binding:"max=50" example:"555-0123"`
	Notes string `json:"notes" binding:"max=2000"`
	// MaxOpenTransactions of 0 keeps the current cap
	MaxOpenTransactions int `json:"max_open_transactions" binding:"min=0,max=200" example:"25"`
}

// Create godoc
// @ID           createCoordinator
// @Summary      Create a coordinator
// @Description  Add a transaction coordinator to the brokerage
// @Tags         coordinators
// @Accept       json
// @Produce      json
// @Param        request body CreateCoordinatorRequest true "Coordinator creation request"
// @Success      201 {object} APIResponse[teamapp.CoordinatorInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /team/coordinators [post]
func (h *CoordinatorHandler) Create(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	var req CreateCoordinatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.coordinatorService.Create(c.Request.Context(), teamapp.CreateCoordinatorInput{
		BrokerageID: brokerageID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// List godoc
// @ID           listCoordinators
// @Summary      List coordinators
// @Description  List the brokerage's coordinators with their current workload
// @Tags         coordinators
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name or email"
// @Success      200 {object} APIResponse[[]teamapp.CoordinatorInfo]
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /team/coordinators [get]
func (h *CoordinatorHandler) List(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	filter := parseFilter(c)
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	result, err := h.coordinatorService.List(c.Request.Context(), brokerageID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListActive godoc
// @ID           listActiveCoordinators
// @Summary      List active coordinators
// @Description  List active coordinators available for assignment
// @Tags         coordinators
// @Produce      json
// @Success      200 {object} APIResponse[[]teamapp.CoordinatorInfo]
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /team/coordinators/active [get]
func (h *CoordinatorHandler) ListActive(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	infos, err := h.coordinatorService.ListActive(c.Request.Context(), brokerageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, infos)
}

// GetByID godoc
// @ID           getCoordinator
// @Summary      Get a coordinator
// @Description  Get a coordinator by ID with their current workload
// @Tags         coordinators
// @Produce      json
// @Param        id path string true "Coordinator ID" format(uuid)
// @Success      200 {object} APIResponse[teamapp.CoordinatorInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /team/coordinators/{id} [get]
func (h *CoordinatorHandler) GetByID(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	coordinatorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid coordinator ID format")
		return
	}

	info, err := h.coordinatorService.Get(c.Request.Context(), brokerageID, coordinatorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Update godoc
// @ID           updateCoordinator
// @Summary      Update a coordinator
// @Description  Update a coordinator's contact details and open file cap
// @Tags         coordinators
// @Accept       json
// @Produce      json
// @Param        id path string true "Coordinator ID" format(uuid)
// @Param        request body UpdateCoordinatorRequest true "Coordinator update request"
// @Success      200 {object} APIResponse[teamapp.CoordinatorInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /team/coordinators/{id} [put]
func (h *CoordinatorHandler) Update(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	coordinatorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid coordinator ID format")
		return
	}

	var req UpdateCoordinatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.coordinatorService.Update(c.Request.Context(), teamapp.UpdateCoordinatorInput{
		BrokerageID:         brokerageID,
		CoordinatorID:       coordinatorID,
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		Notes:               req.Notes,
		MaxOpenTransactions: req.MaxOpenTransactions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Activate godoc
// @ID           activateCoordinator
// @Summary      Activate a coordinator
// @Description  Make a coordinator available for new assignments
// @Tags         coordinators
// @Produce      json
// @Param        id path string true "Coordinator ID" format(uuid)
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /team/coordinators/{id}/activate [post]
func (h *CoordinatorHandler) Activate(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	coordinatorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid coordinator ID format")
		return
	}

	if err := h.coordinatorService.Activate(c.Request.Context(), brokerageID, coordinatorID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Coordinator activated"})
}

// Deactivate godoc
// @ID           deactivateCoordinator
// @Summary      Deactivate a coordinator
// @Description  Stop new assignments to a coordinator; open files are kept
// @Tags         coordinators
// @Produce      json
// @Param        id path string true "Coordinator ID" format(uuid)
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /team/coordinators/{id}/deactivate [post]
func (h *CoordinatorHandler) Deactivate(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	coordinatorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid coordinator ID format")
		return
	}

	if err := h.coordinatorService.Deactivate(c.Request.Context(), brokerageID, coordinatorID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Coordinator deactivated"})
}
