package handler

import (
	notificationapp "github.com/closeline/backend/internal/application/notification"
	"github.com/closeline/backend/internal/domain/notification"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotificationHandler handles closing reminder settings and audit endpoints
type NotificationHandler struct {
	BaseHandler
	settingService *notificationapp.SettingService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(settingService *notificationapp.SettingService) *NotificationHandler {
	return &NotificationHandler{
		settingService: settingService,
	}
}

// UpdateReminderSettingRequest represents a request to update reminder settings
// @Description Request body for the brokerage's closing reminder preferences
type UpdateReminderSettingRequest struct {
	Enabled bool `json:"enabled"`
	// Offsets are days before closing, e.g. [14, 7, 3, 1]
	Offsets []int `json:"offsets" binding:"required,min=1,max=10,dive,min=0,max=90"`
	// DeliveryHour is the local hour (0-23) reminders go out
	DeliveryHour         int      `json:"delivery_hour" binding:"min=0,max=23" example:"9"`
	Channels             []string `json:"channels" binding:"required,min=1,dive,oneof=slack email"`
	FallbackSlackChannel string   `json:"fallback_slack_channel" binding:"max=30" example:"C0123456789"`
}

// GetSettings godoc
// @ID           getReminderSettings
// @Summary      Get reminder settings
// @Description  Get the brokerage's closing reminder preferences, created with defaults on first access
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[notificationapp.SettingInfo]
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/settings [get]
func (h *NotificationHandler) GetSettings(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	info, err := h.settingService.Get(c.Request.Context(), brokerageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// UpdateSettings godoc
// @ID           updateReminderSettings
// @Summary      Update reminder settings
// @Description  Replace the brokerage's closing reminder preferences (admin only)
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body UpdateReminderSettingRequest true "Reminder settings"
// @Success      200 {object} APIResponse[notificationapp.SettingInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/settings [put]
func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	var req UpdateReminderSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	channels := make([]notification.Channel, len(req.Channels))
	for i, ch := range req.Channels {
		channels[i] = notification.Channel(ch)
	}

	info, err := h.settingService.Update(c.Request.Context(), notificationapp.UpdateSettingInput{
		BrokerageID:          brokerageID,
		Enabled:              req.Enabled,
		Offsets:              req.Offsets,
		DeliveryHour:         req.DeliveryHour,
		Channels:             channels,
		FallbackSlackChannel: req.FallbackSlackChannel,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ListReminders godoc
// @ID           listReminderLog
// @Summary      List sent reminders
// @Description  List reminder delivery attempts, optionally scoped to one transaction
// @Tags         notifications
// @Produce      json
// @Param        transaction_id query string false "Filter by transaction" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]notificationapp.ReminderLogInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/reminders [get]
func (h *NotificationHandler) ListReminders(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	transactionID := uuid.Nil
	if raw := c.Query("transaction_id"); raw != "" {
		if transactionID, err = uuid.Parse(raw); err != nil {
			h.BadRequest(c, "Invalid transaction ID format")
			return
		}
	}

	infos, err := h.settingService.ListReminders(c.Request.Context(), brokerageID, transactionID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, infos)
}
