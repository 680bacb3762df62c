package handler

import (
	"time"

	identityapp "github.com/closeline/backend/internal/application/identity"
	"github.com/closeline/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
)

// BrokerageHandler handles brokerage account API endpoints
type BrokerageHandler struct {
	BaseHandler
	brokerageService *identityapp.BrokerageService
}

// NewBrokerageHandler creates a new BrokerageHandler
func NewBrokerageHandler(brokerageService *identityapp.BrokerageService) *BrokerageHandler {
	return &BrokerageHandler{
		brokerageService: brokerageService,
	}
}

// RegisterBrokerageRequest represents a request to register a new brokerage
// @Description Request body for registering a brokerage with its first admin
type RegisterBrokerageRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=200" example:"Lakeside Realty"`
	Slug          string `json:"slug" binding:"required,min=3,max=50" example:"lakeside"`
	AdminEmail    string `json:"admin_email" binding:"required,email,max=200" example:"broker@lakeside.com"`
	AdminPassword string `json:"admin_password" binding:"required,min=8,max=128"`
	AdminName     string `json:"admin_name" binding:"required,min=1,max=100" example:"Pat Rivera"`
}

// UpdateBrokerageRequest represents a request to update brokerage settings
// @Description Request body for updating brokerage contact and branding details
type UpdateBrokerageRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=200" example:"Lakeside Realty"`
	ContactName  string           `json:"contact_name" binding:"max=100" example:"Pat Rivera"`
	ContactPhone string           `json:"contact_phone" binding:"max=50" example:"555-0100"`
	ContactEmail string           `json:"contact_email" binding:"omitempty,email,max=200" example:"office@lakeside.com"`
	Timezone     string           `json:"timezone" binding:"max=64" example:"America/Chicago"`
	Branding     *BrandingRequest `json:"branding"`
}

// BrandingRequest represents brokerage branding fields
// @Description Branding applied to CMA reports and client emails
type BrandingRequest struct {
	LogoURL      string `json:"logo_url" binding:"max=500"`
	PrimaryColor string `json:"primary_color" binding:"omitempty,hex_color" example:"#1A73E8"`
	Tagline      string `json:"tagline" binding:"max=200"`
}

// BrokerageResponse represents a brokerage in API responses
// @Description Brokerage account details
type BrokerageResponse struct {
	ID           string            `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name         string            `json:"name" example:"Lakeside Realty"`
	Slug         string            `json:"slug" example:"lakeside"`
	Status       string            `json:"status" example:"active" enums:"active,suspended"`
	ContactName  string            `json:"contact_name,omitempty"`
	ContactPhone string            `json:"contact_phone,omitempty"`
	ContactEmail string            `json:"contact_email,omitempty"`
	Timezone     string            `json:"timezone" example:"America/Chicago"`
	Branding     identity.Branding `json:"branding"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// RegisterBrokerageResponse represents the result of brokerage registration
// @Description New brokerage with its admin user
type RegisterBrokerageResponse struct {
	Brokerage BrokerageResponse `json:"brokerage"`
	Admin     AuthUserResponse  `json:"admin"`
}

func toBrokerageResponse(b *identity.Brokerage) BrokerageResponse {
	return BrokerageResponse{
		ID:           b.ID.String(),
		Name:         b.Name,
		Slug:         b.Slug,
		Status:       string(b.Status),
		ContactName:  b.ContactName,
		ContactPhone: b.ContactPhone,
		ContactEmail: b.ContactEmail,
		Timezone:     b.Timezone,
		Branding:     b.Branding,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// Register godoc
// @ID           registerBrokerage
// @Summary      Register a new brokerage
// @Description  Create a brokerage account together with its first admin user
// @Tags         brokerages
// @Accept       json
// @Produce      json
// @Param        request body RegisterBrokerageRequest true "Brokerage registration request"
// @Success      201 {object} APIResponse[RegisterBrokerageResponse]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /brokerages/register [post]
func (h *BrokerageHandler) Register(c *gin.Context) {
	var req RegisterBrokerageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.brokerageService.Register(c.Request.Context(), identityapp.RegisterBrokerageInput{
		Name:          req.Name,
		Slug:          req.Slug,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
		AdminName:     req.AdminName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, RegisterBrokerageResponse{
		Brokerage: toBrokerageResponse(result.Brokerage),
		Admin:     toAuthUserResponse(result.Admin),
	})
}

// Get godoc
// @ID           getBrokerage
// @Summary      Get the current brokerage
// @Description  Get the authenticated user's brokerage account details
// @Tags         brokerages
// @Produce      json
// @Success      200 {object} APIResponse[BrokerageResponse]
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /brokerages/current [get]
func (h *BrokerageHandler) Get(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	brokerage, err := h.brokerageService.Get(c.Request.Context(), brokerageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toBrokerageResponse(brokerage))
}

// Update godoc
// @ID           updateBrokerage
// @Summary      Update the current brokerage
// @Description  Update the brokerage's contact details, timezone and branding
// @Tags         brokerages
// @Accept       json
// @Produce      json
// @Param        request body UpdateBrokerageRequest true "Brokerage update request"
// @Success      200 {object} APIResponse[BrokerageResponse]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /brokerages/current [put]
func (h *BrokerageHandler) Update(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	var req UpdateBrokerageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := identityapp.UpdateBrokerageInput{
		BrokerageID:  brokerageID,
		Name:         req.Name,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Timezone:     req.Timezone,
	}
	if req.Branding != nil {
		input.Branding = &identity.Branding{
			LogoURL:      req.Branding.LogoURL,
			PrimaryColor: req.Branding.PrimaryColor,
			Tagline:      req.Branding.Tagline,
		}
	}

	brokerage, err := h.brokerageService.Update(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toBrokerageResponse(brokerage))
}

// Suspend godoc
// @ID           suspendBrokerage
// @Summary      Suspend the current brokerage
// @Description  Suspend the brokerage; logins are rejected until reactivated
// @Tags         brokerages
// @Produce      json
// @Success      200 {object} SuccessResponse
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /brokerages/current/suspend [post]
func (h *BrokerageHandler) Suspend(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	if err := h.brokerageService.Suspend(c.Request.Context(), brokerageID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Brokerage suspended"})
}

// Activate godoc
// @ID           activateBrokerage
// @Summary      Reactivate the current brokerage
// @Description  Reactivate a suspended brokerage
// @Tags         brokerages
// @Produce      json
// @Success      200 {object} SuccessResponse
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /brokerages/current/activate [post]
func (h *BrokerageHandler) Activate(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	if err := h.brokerageService.Activate(c.Request.Context(), brokerageID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Brokerage activated"})
}
