package handler

import (
	"net/http"
	"time"

	txnapp "github.com/closeline/backend/internal/application/transaction"
	"github.com/closeline/backend/internal/domain/transaction"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles transaction pipeline API endpoints
type TransactionHandler struct {
	BaseHandler
	transactionService *txnapp.TransactionService
	channelService     *txnapp.ChannelService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *txnapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// SetChannelService wires the Slack channel provisioning endpoint. Left
// unset when Slack is disabled in config.
func (h *TransactionHandler) SetChannelService(channelService *txnapp.ChannelService) {
	h.channelService = channelService
}

// AddressRequest represents a property address in requests
// @Description Property address fields
type AddressRequest struct {
	Street string `json:"street" binding:"required,min=1,max=200" example:"412 Birchwood Ln"`
	Unit   string `json:"unit" binding:"max=20" example:"2B"`
	City   string `json:"city" binding:"required,min=1,max=100" example:"Austin"`
	State  string `json:"state" binding:"required,state_code" example:"TX"`
	Zip    string `json:"zip" binding:"required,min=5,max=10" example:"78704"`
}

func (r AddressRequest) toInput() txnapp.AddressInput {
	return txnapp.AddressInput{
		Street: r.Street,
		Unit:   r.Unit,
		City:   r.City,
		State:  r.State,
		Zip:    r.Zip,
	}
}

// ClientRequest represents the client contact in requests
// @Description Client contact fields
type ClientRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100" example:"Morgan Ellis"`
	Email string `json:"email" binding:"omitempty,email,max=200" example:"morgan@example.com"`
	Phone string `json:"phone" binding:"max=50" example:"555-0142"`
}

// CreateTransactionRequest represents a request to open a new file
// @Description Request body for creating a transaction
type CreateTransactionRequest struct {
	Side           string         `json:"side" binding:"required,oneof=listing purchase" example:"listing"`
	Address        AddressRequest `json:"address" binding:"required"`
	Client         ClientRequest  `json:"client" binding:"required"`
	MLSNumber      string         `json:"mls_number" binding:"max=30" example:"5512345"`
	ListPrice      float64        `json:"list_price" binding:"required,gt=0" example:"450000"`
	CommissionRate float64        `json:"commission_rate" binding:"required,gt=0" example:"3.0"`
	Notes          string         `json:"notes" binding:"max=10000"`
	// AgentUserID lets an admin open a file for another agent;
	// defaults to the caller
	AgentUserID string `json:"agent_user_id" binding:"omitempty,uuid"`
}

// UpdateTransactionRequest represents a request to update property details
// @Description Request body for updating a transaction's property and pricing
type UpdateTransactionRequest struct {
	Address        AddressRequest `json:"address" binding:"required"`
	MLSNumber      string         `json:"mls_number" binding:"max=30" example:"5512345"`
	ListPrice      float64        `json:"list_price" binding:"required,gt=0" example:"465000"`
	CommissionRate float64        `json:"commission_rate" binding:"required,gt=0" example:"3.0"`
}

// UpdateClientRequest represents a request to replace the client contact
// @Description Request body for updating a transaction's client
type UpdateClientRequest struct {
	Client ClientRequest `json:"client" binding:"required"`
}

// SetNotesRequest represents a request to replace the notes
// @Description Request body for replacing free-form notes
type SetNotesRequest struct {
	Notes string `json:"notes" binding:"max=10000"`
}

// ActivateTransactionRequest represents a request to activate a file
// @Description Request body for moving a file from intake to active
type ActivateTransactionRequest struct {
	ListingDate *time.Time `json:"listing_date" example:"2026-03-01T00:00:00Z"`
}

// MarkUnderContractRequest represents a request to record the contract
// @Description Request body for marking a file under contract
type MarkUnderContractRequest struct {
	ContractPrice float64    `json:"contract_price" binding:"required,gt=0" example:"442500"`
	ContractDate  time.Time  `json:"contract_date" binding:"required" example:"2026-03-15T00:00:00Z"`
	ClosingDate   *time.Time `json:"closing_date" example:"2026-04-30T00:00:00Z"`
}

// SetClosingDateRequest represents a request to set or move the closing date
// @Description Request body for setting the closing date
type SetClosingDateRequest struct {
	ClosingDate time.Time `json:"closing_date" binding:"required" example:"2026-05-07T00:00:00Z"`
}

// TerminateTransactionRequest represents a request to cancel or withdraw
// @Description Request body for terminating a file with a reason
type TerminateTransactionRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500" example:"Buyer financing fell through"`
}

// AssignCoordinatorRequest represents a request to assign a coordinator
// @Description Request body for assigning a transaction coordinator
type AssignCoordinatorRequest struct {
	CoordinatorID string `json:"coordinator_id" binding:"required,uuid"`
}

// Create godoc
// @ID           createTransaction
// @Summary      Create a transaction
// @Description  Open a new listing or purchase file in intake
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request body CreateTransactionRequest true "Transaction creation request"
// @Success      201 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	var req CreateTransactionRequest
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

	info, err := h.transactionService.Create(c.Request.Context(), txnapp.CreateTransactionInput{
		BrokerageID: brokerageID,
		AgentUserID: agentUserID,
		Side:        transaction.Side(req.Side),
		Address:     req.Address.toInput(),
		Client: txnapp.ClientInput{
			Name:  req.Client.Name,
			Email: req.Client.Email,
			Phone: req.Client.Phone,
		},
		MLSNumber:      req.MLSNumber,
		ListPrice:      toDecimal(req.ListPrice),
		CommissionRate: toDecimal(req.CommissionRate),
		Notes:          req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// List godoc
// @ID           listTransactions
// @Summary      List transactions
// @Description  List the brokerage's transactions with pagination and filters
// @Tags         transactions
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Filter by status" Enums(intake,active,under_contract,clear_to_close,closed,cancelled,withdrawn)
// @Param        side query string false "Filter by side" Enums(listing,purchase)
// @Param        agent_user_id query string false "Filter by agent" format(uuid)
// @Param        coordinator_id query string false "Filter by coordinator" format(uuid)
// @Param        search query string false "Search by address or client name"
// @Success      200 {object} APIResponse[[]txnapp.TransactionInfo]
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	filter := parseFilter(c)
	for _, key := range []string{"status", "side", "agent_user_id", "coordinator_id"} {
		if v := c.Query(key); v != "" {
			filter.Filters[key] = v
		}
	}

	result, err := h.transactionService.List(c.Request.Context(), brokerageID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// PipelineSummary godoc
// @ID           getPipelineSummary
// @Summary      Get the pipeline summary
// @Description  Status counts, upcoming closings and closed volume for the dashboard
// @Tags         transactions
// @Produce      json
// @Success      200 {object} APIResponse[transaction.PipelineSummary]
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/pipeline [get]
func (h *TransactionHandler) PipelineSummary(c *gin.Context) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return
	}

	summary, err := h.transactionService.PipelineSummary(c.Request.Context(), brokerageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetByID godoc
// @ID           getTransaction
// @Summary      Get a transaction
// @Description  Get a transaction by ID
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *gin.Context) {
	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	info, err := h.transactionService.Get(c.Request.Context(), brokerageID, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Update godoc
// @ID           updateTransaction
// @Summary      Update a transaction
// @Description  Update property details and pricing on an open file
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body UpdateTransactionRequest true "Transaction update request"
// @Success      200 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.transactionService.UpdateDetails(c.Request.Context(), txnapp.UpdateDetailsInput{
		BrokerageID:    brokerageID,
		TransactionID:  transactionID,
		Address:        req.Address.toInput(),
		MLSNumber:      req.MLSNumber,
		ListPrice:      toDecimal(req.ListPrice),
		CommissionRate: toDecimal(req.CommissionRate),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// UpdateClient godoc
// @ID           updateTransactionClient
// @Summary      Update the client
// @Description  Replace the client contact on a file
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body UpdateClientRequest true "Client update request"
// @Success      200 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/client [put]
func (h *TransactionHandler) UpdateClient(c *gin.Context) {
	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.transactionService.UpdateClient(c.Request.Context(), txnapp.UpdateClientInput{
		BrokerageID:   brokerageID,
		TransactionID: transactionID,
		Client: txnapp.ClientInput{
			Name:  req.Client.Name,
			Email: req.Client.Email,
			Phone: req.Client.Phone,
		},
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// SetNotes godoc
// @ID           setTransactionNotes
// @Summary      Set the notes
// @Description  Replace the free-form notes on a file
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body SetNotesRequest true "Notes"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/notes [put]
func (h *TransactionHandler) SetNotes(c *gin.Context) {
	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	var req SetNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.transactionService.SetNotes(c.Request.Context(), brokerageID, transactionID, req.Notes); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Notes updated"})
}

// Activate godoc
// @ID           activateTransaction
// @Summary      Activate a transaction
// @Description  Move a file from intake to active
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body ActivateTransactionRequest false "Optional listing date"
// @Success      200 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/activate [post]
func (h *TransactionHandler) Activate(c *gin.Context) {
	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	var req ActivateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.transactionService.Activate(c.Request.Context(), txnapp.ActivateInput{
		BrokerageID:   brokerageID,
		TransactionID: transactionID,
		ListingDate:   req.ListingDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// MarkUnderContract godoc
// @ID           markTransactionUnderContract
// @Summary      Mark under contract
// @Description  Record the executed contract price and dates
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body MarkUnderContractRequest true "Contract details"
// @Success      200 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/under-contract [post]
func (h *TransactionHandler) MarkUnderContract(c *gin.Context) {
	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	var req MarkUnderContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.transactionService.MarkUnderContract(c.Request.Context(), txnapp.MarkUnderContractInput{
		BrokerageID:   brokerageID,
		TransactionID: transactionID,
		ContractPrice: toDecimal(req.ContractPrice),
		ContractDate:  req.ContractDate,
		ClosingDate:   req.ClosingDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// MarkClearToClose godoc
// @ID           markTransactionClearToClose
// @Summary      Mark clear to close
// @Description  Record that all contingencies are cleared
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/clear-to-close [post]
func (h *TransactionHandler) MarkClearToClose(c *gin.Context) {
	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	info, err := h.transactionService.MarkClearToClose(c.Request.Context(), brokerageID, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Close godoc
// @ID           closeTransaction
// @Summary      Close a transaction
// @Description  Record the closing; the file becomes read-only
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/close [post]
func (h *TransactionHandler) Close(c *gin.Context) {
	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	info, err := h.transactionService.Close(c.Request.Context(), brokerageID, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Cancel godoc
// @ID           cancelTransaction
// @Summary      Cancel a transaction
// @Description  Cancel a file with a reason
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body TerminateTransactionRequest true "Cancellation reason"
// @Success      200 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/cancel [post]
func (h *TransactionHandler) Cancel(c *gin.Context) {
	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	var req TerminateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.transactionService.Cancel(c.Request.Context(), txnapp.TerminateInput{
		BrokerageID:   brokerageID,
		TransactionID: transactionID,
		Reason:        req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Withdraw godoc
// @ID           withdrawTransaction
// @Summary      Withdraw a transaction
// @Description  Withdraw a listing from the market with a reason
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body TerminateTransactionRequest true "Withdrawal reason"
// @Success      200 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/withdraw [post]
func (h *TransactionHandler) Withdraw(c *gin.Context) {
	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	var req TerminateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.transactionService.Withdraw(c.Request.Context(), txnapp.TerminateInput{
		BrokerageID:   brokerageID,
		TransactionID: transactionID,
		Reason:        req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// SetClosingDate godoc
// @ID           setTransactionClosingDate
// @Summary      Set the closing date
// @Description  Set or move the closing date; reminders reschedule from it
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body SetClosingDateRequest true "Closing date"
// @Success      200 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/closing-date [put]
func (h *TransactionHandler) SetClosingDate(c *gin.Context) {
	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	var req SetClosingDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.transactionService.SetClosingDate(c.Request.Context(), txnapp.SetClosingDateInput{
		BrokerageID:   brokerageID,
		TransactionID: transactionID,
		ClosingDate:   req.ClosingDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// AssignCoordinator godoc
// @ID           assignTransactionCoordinator
// @Summary      Assign a coordinator
// @Description  Assign a transaction coordinator, subject to their open file cap
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body AssignCoordinatorRequest true "Coordinator assignment"
// @Success      200 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/coordinator [put]
func (h *TransactionHandler) AssignCoordinator(c *gin.Context) {
	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	var req AssignCoordinatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	coordinatorID, err := uuid.Parse(req.CoordinatorID)
	if err != nil {
		h.BadRequest(c, "Invalid coordinator ID format")
		return
	}

	info, err := h.transactionService.AssignCoordinator(c.Request.Context(), txnapp.AssignCoordinatorInput{
		BrokerageID:   brokerageID,
		TransactionID: transactionID,
		CoordinatorID: coordinatorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// UnassignCoordinator godoc
// @ID           unassignTransactionCoordinator
// @Summary      Unassign the coordinator
// @Description  Remove the coordinator from a file
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/coordinator [delete]
func (h *TransactionHandler) UnassignCoordinator(c *gin.Context) {
	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	info, err := h.transactionService.UnassignCoordinator(c.Request.Context(), brokerageID, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ProvisionSlackChannel godoc
// @ID           provisionTransactionSlackChannel
// @Summary      Provision the Slack channel
// @Description  Create the transaction's Slack channel, invite the agent and coordinator, and post the kickoff message
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[txnapp.TransactionInfo]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /transactions/{id}/slack-channel [post]
func (h *TransactionHandler) ProvisionSlackChannel(c *gin.Context) {
	if h.channelService == nil {
		h.Error(c, http.StatusServiceUnavailable, "SLACK_DISABLED", "Slack integration is not configured")
		return
	}

	brokerageID, transactionID, ok := h.ids(c)
	if !ok {
		return
	}

	info, err := h.channelService.Provision(c.Request.Context(), brokerageID, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ids extracts the brokerage ID and the :id path parameter, writing the
// error response itself when either is invalid
func (h *TransactionHandler) ids(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	brokerageID, err := getBrokerageID(c)
	if err != nil {
		h.BadRequest(c, "Invalid brokerage ID")
		return uuid.Nil, uuid.Nil, false
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return brokerageID, transactionID, true
}
