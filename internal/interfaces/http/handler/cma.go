package handler

import (
	"time"

	cmaapp "github.com/closeline/backend/internal/application/cma"
	"github.com/closeline/backend/internal/domain/cma"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CmaHandler handles comparative market analysis API endpoints
type CmaHandler struct {
	BaseHandler
	cmaService *cmaapp.CmaService
}

// NewCmaHandler creates a new CmaHandler
func NewCmaHandler(cmaService *cmaapp.CmaService) *CmaHandler {
	return &CmaHandler{
		cmaService: cmaService,
	}
}

// SubjectPropertyRequest represents the subject property in requests
// @Description Subject property fields for a CMA
type SubjectPropertyRequest struct {
	Address      AddressRequest `json:"address" binding:"required"`
	PropertyType string         `json:"property_type" binding:"required,max=50" example:"single_family"`
	Beds         int            `json:"beds" binding:"min=0,max=50" example:"4"`
	Baths        float64        `json:"baths" binding:"min=0,max=50" example:"2.5"`
	Sqft         int            `json:"sqft" binding:"min=0" example:"2350"`
	LotSqft      int            `json:"lot_sqft" binding:"min=0" example:"8700"`
	YearBuilt    int            `json:"year_built" binding:"omitempty,min=1700,max=2100" example:"1998"`
	PhotoKey     string         `json:"photo_key" binding:"max=500"`
}

func (r SubjectPropertyRequest) toInput() cmaapp.SubjectInput {
	return cmaapp.SubjectInput{
		Address:      r.Address.toCmaInput(),
		PropertyType: r.PropertyType,
		Beds:         r.Beds,
		Baths:        toDecimal(r.Baths),
		Sqft:         r.Sqft,
		LotSqft:      r.LotSqft,
		YearBuilt:    r.YearBuilt,
		PhotoKey:     r.PhotoKey,
	}
}

// toCmaInput converts to the CMA application address input. The two
// application packages declare identical address inputs separately.
func (r AddressRequest) toCmaInput() cmaapp.AddressInput {
	return cmaapp.AddressInput{
		Street: r.Street,
		Unit:   r.Unit,
		City:   r.City,
		State:  r.State,
		Zip:    r.Zip,
	}
}

// CreateCmaRequest represents a request to create a CMA
// @Description Request body for creating a CMA
type CreateCmaRequest struct {
	Title   string                 `json:"title" binding:"required,min=1,max=200" example:"412 Birchwood Ln Pricing Analysis"`
	Subject SubjectPropertyRequest `json:"subject" binding:"required"`
	Notes   string                 `json:"notes" binding:"max=10000"`
	// AgentUserID lets an admin create on another agent's behalf;
	// defaults to the caller
	AgentUserID string `json:"agent_user_id" binding:"omitempty,uuid"`
}

// UpdateCmaRequest represents a request to update a CMA
// @Description Request body for updating a CMA's title and subject
type UpdateCmaRequest struct {
	Title   string                 `json:"title" binding:"required,min=1,max=200"`
	Subject SubjectPropertyRequest `json:"subject" binding:"required"`
}

// ComparableRequest represents a comparable property in requests
// @Description Comparable property fields
type ComparableRequest struct {
	Address       AddressRequest `json:"address" binding:"required"`
	Status        string         `json:"status" binding:"required,oneof=active pending sold" example:"sold"`
	ListPrice     *float64       `json:"list_price" binding:"omitempty,gt=0" example:"439000"`
	SoldPrice     *float64       `json:"sold_price" binding:"omitempty,gt=0" example:"432500"`
	Beds          int            `json:"beds" binding:"min=0,max=50" example:"4"`
	Baths         float64        `json:"baths" binding:"min=0,max=50" example:"2"`
	Sqft          int            `json:"sqft" binding:"min=0" example:"2200"`
	YearBuilt     int            `json:"year_built" binding:"omitempty,min=1700,max=2100" example:"2001"`
	DistanceMiles float64        `json:"distance_miles" binding:"min=0" example:"0.4"`
	DaysOnMarket  *int           `json:"days_on_market" binding:"omitempty,min=0" example:"18"`
	SoldDate      *time.Time     `json:"sold_date" example:"2026-01-12T00:00:00Z"`
	PhotoKey      string         `json:"photo_key" binding:"max=500"`
}

func (r ComparableRequest) toFields() cmaapp.ComparableFields {
	fields := cmaapp.ComparableFields{
		Address:       r.Address.toCmaInput(),
		Status:        cma.CompStatus(r.Status),
		Beds:          r.Beds,
		Baths:         toDecimal(r.Baths),
		Sqft:          r.Sqft,
		YearBuilt:     r.YearBuilt,
		DistanceMiles: toDecimal(r.DistanceMiles),
		DaysOnMarket:  r.DaysOnMarket,
		SoldDate:      r.SoldDate,
		PhotoKey:      r.PhotoKey,
	}
	if r.ListPrice != nil {
		fields.ListPrice = toDecimalPtr(*r.ListPrice)
	}
	if r.SoldPrice != nil {
		fields.SoldPrice = toDecimalPtr(*r.SoldPrice)
	}
	return fields
}

// AdjustmentRequest represents one adjustment line item
// @Description Adjustment applied to a comparable's price
type AdjustmentRequest struct {
	Label  string  `json:"label" binding:"required,min=1,max=100" example:"Pool"`
	Amount float64 `json:"amount" binding:"required" example:"-15000"`
}

// SetAdjustmentsRequest represents a request to replace adjustments
// @Description Request body replacing a comparable's adjustment list
type SetAdjustmentsRequest struct {
	Adjustments []AdjustmentRequest `json:"adjustments" binding:"max=20,dive"`
}

// ReorderComparablesRequest represents a request to reorder comparables
// @Description Request body with the full comparable ID list in new order
type ReorderComparablesRequest struct {
	ComparableIDs []string `json:"comparable_ids" binding:"required,min=1,dive,uuid"`
}

// SetPriceRangeRequest represents a request to set the suggested range
// @Description Request body for the suggested list price range
type SetPriceRangeRequest struct {
	PriceLow  float64 `json:"price_low" binding:"required,gt=0" example:"425000"`
	PriceHigh float64 `json:"price_high" binding:"required,gt=0" example:"455000"`
}

// DuplicateCmaRequest represents a request to duplicate a CMA
// @Description Request body for duplicating a CMA under a new title
type DuplicateCmaRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200" example:"412 Birchwood Ln Pricing Analysis (v2)"`
}

// Create godoc
// @ID           createCma
// @Summary      Create a CMA
// @Description  Create a comparative market analysis for a subject property
// @Tags         cmas
// @Accept       json
// @Produce      json
// @Param        request body CreateCmaRequest true "CMA creation request"
// @Success      201 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas [post]
func (h *CmaHandler) Create(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	var req CreateCmaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	agentUserID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if req.AgentUserID != "" {
		if agentUserID, err = uuid.Parse(req.AgentUserID); err != nil {
			h.BadRequest(c, "Invalid agent user ID")
			return
		}
	}

	info, err := h.cmaService.Create(c.Request.Context(), cmaapp.CreateCmaInput{
		BrokerageID: brokerageID,
		AgentUserID: agentUserID,
		Title:       req.Title,
		Subject:     req.Subject.toInput(),
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// List godoc
// @ID           listCmas
// @Summary      List CMAs
// @Description  List the brokerage's CMAs with pagination and filters
// @Tags         cmas
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Filter by status" Enums(draft,ready,archived)
// @Param        agent_user_id query string false "Filter by agent" format(uuid)
// @Param        search query string false "Search by title or address"
// @Success      200 {object} APIResponse[[]cmaapp.CmaInfo]
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas [get]
func (h *CmaHandler) List(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	filter := parseFilter(c)
	for _, key := range []string{"status", "agent_user_id"} {
		if v := c.Query(key); v != "" {
			filter.Filters[key] = v
		}
	}

	result, err := h.cmaService.List(c.Request.Context(), brokerageID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID godoc
// @ID           getCma
// @Summary      Get a CMA
// @Description  Get a CMA with its comparables and adjustments
// @Tags         cmas
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Success      200 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id} [get]
func (h *CmaHandler) GetByID(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	info, err := h.cmaService.Get(c.Request.Context(), brokerageID, cmaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Update godoc
// @ID           updateCma
// @Summary      Update a CMA
// @Description  Update a draft CMA's title and subject property
// @Tags         cmas
// @Accept       json
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Param        request body UpdateCmaRequest true "CMA update request"
// @Success      200 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id} [put]
func (h *CmaHandler) Update(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	var req UpdateCmaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.cmaService.Update(c.Request.Context(), cmaapp.UpdateCmaInput{
		BrokerageID: brokerageID,
		CmaID:       cmaID,
		Title:       req.Title,
		Subject:     req.Subject.toInput(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// SetNotes godoc
// @ID           setCmaNotes
// @Summary      Set CMA notes
// @Description  Replace the free-form notes on a CMA
// @Tags         cmas
// @Accept       json
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Param        request body SetNotesRequest true "Notes"
// @Success      200 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/notes [put]
func (h *CmaHandler) SetNotes(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	var req SetNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.cmaService.SetNotes(c.Request.Context(), brokerageID, cmaID, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// AddComparable godoc
// @ID           addCmaComparable
// @Summary      Add a comparable
// @Description  Add a comparable property to a draft CMA
// @Tags         cmas
// @Accept       json
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Param        request body ComparableRequest true "Comparable fields"
// @Success      200 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/comparables [post]
func (h *CmaHandler) AddComparable(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	var req ComparableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.cmaService.AddComparable(c.Request.Context(), brokerageID, cmaID, req.toFields())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// UpdateComparable godoc
// @ID           updateCmaComparable
// @Summary      Update a comparable
// @Description  Replace a comparable's fields on a draft CMA
// @Tags         cmas
// @Accept       json
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Param        comp_id path string true "Comparable ID" format(uuid)
// @Param        request body ComparableRequest true "Comparable fields"
// @Success      200 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/comparables/{comp_id} [put]
func (h *CmaHandler) UpdateComparable(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	compID, err := uuid.Parse(c.Param("comp_id"))
	if err != nil {
		h.BadRequest(c, "Invalid comparable ID format")
		return
	}

	var req ComparableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.cmaService.UpdateComparable(c.Request.Context(), brokerageID, cmaID, compID, req.toFields())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// RemoveComparable godoc
// @ID           removeCmaComparable
// @Summary      Remove a comparable
// @Description  Remove a comparable from a draft CMA
// @Tags         cmas
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Param        comp_id path string true "Comparable ID" format(uuid)
// @Success      200 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/comparables/{comp_id} [delete]
func (h *CmaHandler) RemoveComparable(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	compID, err := uuid.Parse(c.Param("comp_id"))
	if err != nil {
		h.BadRequest(c, "Invalid comparable ID format")
		return
	}

	info, err := h.cmaService.RemoveComparable(c.Request.Context(), brokerageID, cmaID, compID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// SetAdjustments godoc
// @ID           setCmaAdjustments
// @Summary      Set comparable adjustments
// @Description  Replace the adjustment line items on a comparable
// @Tags         cmas
// @Accept       json
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Param        comp_id path string true "Comparable ID" format(uuid)
// @Param        request body SetAdjustmentsRequest true "Adjustment list"
// @Success      200 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/comparables/{comp_id}/adjustments [put]
func (h *CmaHandler) SetAdjustments(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	compID, err := uuid.Parse(c.Param("comp_id"))
	if err != nil {
		h.BadRequest(c, "Invalid comparable ID format")
		return
	}

	var req SetAdjustmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	inputs := make([]cmaapp.AdjustmentInput, len(req.Adjustments))
	for i, a := range req.Adjustments {
		inputs[i] = cmaapp.AdjustmentInput{
			Label:  a.Label,
			Amount: toDecimal(a.Amount),
		}
	}

	info, err := h.cmaService.SetAdjustments(c.Request.Context(), brokerageID, cmaID, compID, inputs)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ReorderComparables godoc
// @ID           reorderCmaComparables
// @Summary      Reorder comparables
// @Description  Reorder comparables; the list must contain every comparable exactly once
// @Tags         cmas
// @Accept       json
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Param        request body ReorderComparablesRequest true "Comparable IDs in new order"
// @Success      200 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/comparable-order [put]
func (h *CmaHandler) ReorderComparables(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	var req ReorderComparablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orderedIDs := make([]uuid.UUID, len(req.ComparableIDs))
	for i, raw := range req.ComparableIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid comparable ID format")
			return
		}
		orderedIDs[i] = id
	}

	info, err := h.cmaService.ReorderComparables(c.Request.Context(), brokerageID, cmaID, orderedIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// SetPriceRange godoc
// @ID           setCmaPriceRange
// @Summary      Set the suggested price range
// @Description  Set the suggested list price range on a draft CMA
// @Tags         cmas
// @Accept       json
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Param        request body SetPriceRangeRequest true "Price range"
// @Success      200 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/price-range [put]
func (h *CmaHandler) SetPriceRange(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	var req SetPriceRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.cmaService.SetPriceRange(c.Request.Context(), brokerageID, cmaID,
		toDecimal(req.PriceLow), toDecimal(req.PriceHigh))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ApplySuggestedRange godoc
// @ID           applyCmaSuggestedRange
// @Summary      Apply the suggested range
// @Description  Derive the price range from comparable statistics and apply it
// @Tags         cmas
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Success      200 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/price-range/suggest [post]
func (h *CmaHandler) ApplySuggestedRange(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	info, err := h.cmaService.ApplySuggestedRange(c.Request.Context(), brokerageID, cmaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Statistics godoc
// @ID           getCmaStatistics
// @Summary      Get comparable statistics
// @Description  Min, max, average and median across the CMA's comparables
// @Tags         cmas
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Success      200 {object} APIResponse[cma.Statistics]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/statistics [get]
func (h *CmaHandler) Statistics(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	stats, err := h.cmaService.Statistics(c.Request.Context(), brokerageID, cmaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// MarkReady godoc
// @ID           markCmaReady
// @Summary      Mark a CMA ready
// @Description  Lock the CMA for presentation; editing requires reopening
// @Tags         cmas
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Success      200 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/ready [post]
func (h *CmaHandler) MarkReady(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	info, err := h.cmaService.MarkReady(c.Request.Context(), brokerageID, cmaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Reopen godoc
// @ID           reopenCma
// @Summary      Reopen a CMA
// @Description  Return a ready CMA to draft for further editing
// @Tags         cmas
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Success      200 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/reopen [post]
func (h *CmaHandler) Reopen(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	info, err := h.cmaService.Reopen(c.Request.Context(), brokerageID, cmaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Archive godoc
// @ID           archiveCma
// @Summary      Archive a CMA
// @Description  Archive a CMA; it stays readable but cannot change
// @Tags         cmas
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Success      200 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/archive [post]
func (h *CmaHandler) Archive(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	info, err := h.cmaService.Archive(c.Request.Context(), brokerageID, cmaID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Duplicate godoc
// @ID           duplicateCma
// @Summary      Duplicate a CMA
// @Description  Copy a CMA and its comparables into a new draft
// @Tags         cmas
// @Accept       json
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Param        request body DuplicateCmaRequest true "Title for the copy"
// @Success      201 {object} APIResponse[cmaapp.CmaInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id}/duplicate [post]
func (h *CmaHandler) Duplicate(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	var req DuplicateCmaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.cmaService.Duplicate(c.Request.Context(), brokerageID, cmaID, req.Title)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// Delete godoc
// @ID           deleteCma
// @Summary      Delete a CMA
// @Description  Delete a draft CMA; ready and archived CMAs cannot be deleted
// @Tags         cmas
// @Produce      json
// @Param        id path string true "CMA ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cmas/{id} [delete]
func (h *CmaHandler) Delete(c *gin.Context) {
	brokerageID, cmaID, ok := h.ids(c)
	if !ok {
		return
	}

	if err := h.cmaService.Delete(c.Request.Context(), brokerageID, cmaID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ids extracts the brokerage ID and the :id path parameter, writing the
// error response itself when either is invalid
func (h *CmaHandler) ids(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
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
