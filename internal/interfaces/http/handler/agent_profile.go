package handler

import (
	teamapp "github.com/closeline/backend/internal/application/team"
	"github.com/closeline/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AgentProfileHandler handles agent profile API endpoints. The profile
// feeds the agent resume section of CMA reports.
type AgentProfileHandler struct {
	BaseHandler
	profileService *teamapp.AgentProfileService
}

// NewAgentProfileHandler creates a new AgentProfileHandler
func NewAgentProfileHandler(profileService *teamapp.AgentProfileService) *AgentProfileHandler {
	return &AgentProfileHandler{
		profileService: profileService,
	}
}

// UpsertAgentProfileRequest represents a request to create or replace a profile
// @Description Request body for saving an agent's public profile
type UpsertAgentProfileRequest struct {
	LicenseNumber   string   `json:"license_number" binding:"required,min=1,max=50" example:"TX-0587231"`
	Phone           string   `json:"phone" binding:"max=50" example:"555-0155"`
	Title           string   `json:"title" binding:"max=100" example:"Senior Listing Agent"`
	Bio             string   `json:"bio" binding:"max=5000"`
	YearsExperience int      `json:"years_experience" binding:"min=0,max=80" example:"12"`
	ServiceAreas    []string `json:"service_areas" binding:"max=20,dive,max=100"`
}

// SetHeadshotRequest represents a request to set the profile headshot
// @Description Request body carrying the uploaded headshot's object key
type SetHeadshotRequest struct {
	ObjectKey string `json:"object_key" binding:"required,max=500"`
}

// targetUserID resolves the profile owner: agents manage their own
// profile, admins may pass a user_id query parameter for any agent.
func (h *AgentProfileHandler) targetUserID(c *gin.Context) (uuid.UUID, error) {
	if raw := c.Query("user_id"); raw != "" && middleware.IsAdmin(c) {
		return uuid.Parse(raw)
	}
	return getUserID(c)
}

// Get godoc
// @ID           getAgentProfile
// @Summary      Get an agent profile
// @Description  Get the authenticated agent's profile, or another agent's with user_id (admin only)
// @Tags         team
// @Produce      json
// @Param        user_id query string false "Agent user ID (admin only)" format(uuid)
// @Success      200 {object} APIResponse[teamapp.AgentProfileInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /team/profile [get]
func (h *AgentProfileHandler) Get(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	userID, err := h.targetUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	info, err := h.profileService.Get(c.Request.Context(), brokerageID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Upsert godoc
// @ID           upsertAgentProfile
// @Summary      Save an agent profile
// @Description  Create or replace the agent's profile used on CMA reports
// @Tags         team
// @Accept       json
// @Produce      json
// @Param        user_id query string false "Agent user ID (admin only)" format(uuid)
// @Param        request body UpsertAgentProfileRequest true "Profile fields"
// @Success      200 {object} APIResponse[teamapp.AgentProfileInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /team/profile [put]
func (h *AgentProfileHandler) Upsert(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	userID, err := h.targetUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req UpsertAgentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.profileService.Upsert(c.Request.Context(), teamapp.UpsertAgentProfileInput{
		BrokerageID:     brokerageID,
		UserID:          userID,
		LicenseNumber:   req.LicenseNumber,
		Phone:           req.Phone,
		Title:           req.Title,
		Bio:             req.Bio,
		YearsExperience: req.YearsExperience,
		ServiceAreas:    req.ServiceAreas,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// SetHeadshot godoc
// @ID           setAgentHeadshot
// @Summary      Set the profile headshot
// @Description  Attach an uploaded headshot to the agent's profile
// @Tags         team
// @Accept       json
// @Produce      json
// @Param        user_id query string false "Agent user ID (admin only)" format(uuid)
// @Param        request body SetHeadshotRequest true "Headshot object key"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /team/profile/headshot [put]
func (h *AgentProfileHandler) SetHeadshot(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	userID, err := h.targetUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req SetHeadshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.profileService.SetHeadshot(c.Request.Context(), brokerageID, userID, req.ObjectKey); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Headshot updated"})
}
