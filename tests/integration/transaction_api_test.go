// Package integration provides integration testing for the Closeline backend API.
// This file contains tests for the transaction pipeline endpoints against a real database.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	txnapp "github.com/closeline/backend/internal/application/transaction"
	"github.com/closeline/backend/internal/infrastructure/event"
	"github.com/closeline/backend/internal/infrastructure/persistence"
	"github.com/closeline/backend/internal/interfaces/http/handler"
	"github.com/closeline/backend/internal/interfaces/http/middleware"
	"github.com/closeline/backend/internal/interfaces/http/router"
	"github.com/closeline/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestServer wraps the test database and HTTP server for API testing
type TestServer struct {
	DB     *TestDB
	Engine *gin.Engine
	Router *router.Router
}

// NewTestServer creates a new test server with real database
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	testDB := NewTestDB(t)
	logger := zap.NewNop()

	// Initialize repositories
	txnRepo := persistence.NewGormTransactionRepository(testDB.DB)
	coordinatorRepo := persistence.NewGormCoordinatorRepository(testDB.DB)

	// Initialize services
	eventBus := event.NewInMemoryEventBus(logger)
	txnService := txnapp.NewTransactionService(txnRepo, coordinatorRepo, eventBus, logger)

	// Initialize handlers
	txnHandler := handler.NewTransactionHandler(txnService)

	// Setup engine
	engine := gin.New()

	// Setup routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	transactionRoutes := router.NewDomainGroup("transaction", "/transactions")
	transactionRoutes.POST("", txnHandler.Create)
	transactionRoutes.GET("", txnHandler.List)
	transactionRoutes.GET("/pipeline", txnHandler.PipelineSummary)
	transactionRoutes.GET("/:id", txnHandler.GetByID)
	transactionRoutes.PUT("/:id", txnHandler.Update)
	transactionRoutes.PUT("/:id/client", txnHandler.UpdateClient)
	transactionRoutes.PUT("/:id/closing-date", txnHandler.SetClosingDate)
	transactionRoutes.POST("/:id/activate", txnHandler.Activate)
	transactionRoutes.POST("/:id/under-contract", txnHandler.MarkUnderContract)
	transactionRoutes.POST("/:id/clear-to-close", txnHandler.MarkClearToClose)
	transactionRoutes.POST("/:id/close", txnHandler.Close)
	transactionRoutes.POST("/:id/cancel", txnHandler.Cancel)
	transactionRoutes.PUT("/:id/coordinator", txnHandler.AssignCoordinator)

	r.Register(transactionRoutes)
	r.Setup()

	return &TestServer{
		DB:     testDB,
		Engine: engine,
		Router: r,
	}
}

// Request makes an HTTP request to the test server
func (ts *TestServer) Request(method, path string, body interface{}, brokerageID, userID uuid.UUID) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Brokerage-ID", brokerageID.String())
	req.Header.Set("X-User-ID", userID.String())

	w := httptest.NewRecorder()
	ts.Engine.ServeHTTP(w, req)
	return w
}

// APIResponse represents the standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
	} `json:"meta,omitempty"`
}

func createRequestBody() map[string]interface{} {
	return map[string]interface{}{
		"side": "listing",
		"address": map[string]interface{}{
			"street": "412 Birchwood Ln",
			"city":   "Austin",
			"state":  "TX",
			"zip":    "78704",
		},
		"client": map[string]interface{}{
			"name":  "Morgan Ellis",
			"email": "morgan@example.com",
		},
		"mls_number":      "5512345",
		"list_price":      450000.0,
		"commission_rate": 3.0,
	}
}

// TestTransactionAPI_Pipeline walks a file from intake to closed
func TestTransactionAPI_Pipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	brokerageID := testutil.NewRandomUUID()
	agentID := testutil.NewRandomUUID()
	ts.DB.CreateTestBrokerage(brokerageID, "Pipeline Realty", "pipeline")
	ts.DB.CreateTestUser(brokerageID, agentID, "agent@pipeline.test", "agent")

	var txnID string

	t.Run("Create transaction", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/transactions", createRequestBody(), brokerageID, agentID)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp APIResponse
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		txnID = data["id"].(string)
		assert.NotEmpty(t, txnID)
		assert.Equal(t, "listing", data["side"])
		assert.Equal(t, "intake", data["status"])
		assert.Equal(t, "Morgan Ellis", data["client_name"])
		assert.Equal(t, agentID.String(), data["agent_user_id"])
	})

	t.Run("Activate", func(t *testing.T) {
		require.NotEmpty(t, txnID)

		reqBody := map[string]interface{}{
			"listing_date": time.Now().UTC().Format(time.RFC3339),
		}

		w := ts.Request(http.MethodPost, "/api/v1/transactions/"+txnID+"/activate", reqBody, brokerageID, agentID)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "active", data["status"])
	})

	t.Run("Mark under contract", func(t *testing.T) {
		require.NotEmpty(t, txnID)

		reqBody := map[string]interface{}{
			"contract_price": 442500.0,
			"contract_date":  time.Now().UTC().Format(time.RFC3339),
		}

		w := ts.Request(http.MethodPost, "/api/v1/transactions/"+txnID+"/under-contract", reqBody, brokerageID, agentID)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "under_contract", data["status"])
		assert.NotNil(t, data["contract_price"])
	})

	t.Run("Set closing date", func(t *testing.T) {
		require.NotEmpty(t, txnID)

		reqBody := map[string]interface{}{
			"closing_date": time.Now().UTC().AddDate(0, 0, 30).Format(time.RFC3339),
		}

		w := ts.Request(http.MethodPut, "/api/v1/transactions/"+txnID+"/closing-date", reqBody, brokerageID, agentID)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.NotEmpty(t, data["closing_date"])
	})

	t.Run("Clear to close and close", func(t *testing.T) {
		require.NotEmpty(t, txnID)

		w := ts.Request(http.MethodPost, "/api/v1/transactions/"+txnID+"/clear-to-close", nil, brokerageID, agentID)
		assert.Equal(t, http.StatusOK, w.Code)

		w = ts.Request(http.MethodPost, "/api/v1/transactions/"+txnID+"/close", nil, brokerageID, agentID)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "closed", data["status"])
	})

	t.Run("Closing a closed file fails", func(t *testing.T) {
		require.NotEmpty(t, txnID)

		w := ts.Request(http.MethodPost, "/api/v1/transactions/"+txnID+"/close", nil, brokerageID, agentID)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
	})

	t.Run("Pipeline summary", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/transactions/pipeline", nil, brokerageID, agentID)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Contains(t, data, "by_status")
		assert.Contains(t, data, "closed_volume_mtd")
	})
}

// TestTransactionAPI_Validation covers request validation and tenant scoping
func TestTransactionAPI_Validation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	brokerageID := testutil.NewRandomUUID()
	agentID := testutil.NewRandomUUID()
	ts.DB.CreateTestBrokerage(brokerageID, "Validation Realty", "validation")
	ts.DB.CreateTestUser(brokerageID, agentID, "agent@validation.test", "agent")

	t.Run("Create without address fails", func(t *testing.T) {
		reqBody := map[string]interface{}{
			"side":            "listing",
			"client":          map[string]interface{}{"name": "Morgan Ellis"},
			"list_price":      450000.0,
			"commission_rate": 3.0,
		}

		w := ts.Request(http.MethodPost, "/api/v1/transactions", reqBody, brokerageID, agentID)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Create with invalid side fails", func(t *testing.T) {
		reqBody := createRequestBody()
		reqBody["side"] = "rental"

		w := ts.Request(http.MethodPost, "/api/v1/transactions", reqBody, brokerageID, agentID)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Cross-tenant read returns not found", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/transactions", createRequestBody(), brokerageID, agentID)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		txnID := resp.Data.(map[string]interface{})["id"].(string)

		otherBrokerage := uuid.New()
		otherAgent := uuid.New()
		ts.DB.CreateTestBrokerage(otherBrokerage, "Other Realty", "other-realty")
		ts.DB.CreateTestUser(otherBrokerage, otherAgent, "agent@other.test", "agent")

		w = ts.Request(http.MethodGet, "/api/v1/transactions/"+txnID, nil, otherBrokerage, otherAgent)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Cancel requires a reason", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/transactions", createRequestBody(), brokerageID, agentID)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		txnID := resp.Data.(map[string]interface{})["id"].(string)

		w = ts.Request(http.MethodPost, "/api/v1/transactions/"+txnID+"/cancel", map[string]interface{}{}, brokerageID, agentID)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		reqBody := map[string]interface{}{"reason": "Seller changed their mind"}
		w = ts.Request(http.MethodPost, "/api/v1/transactions/"+txnID+"/cancel", reqBody, brokerageID, agentID)
		assert.Equal(t, http.StatusOK, w.Code)

		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "cancelled", data["status"])
	})
}

// TestCoordinatorAssignmentAPI covers assigning and capacity limits
func TestCoordinatorAssignmentAPI(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	brokerageID := testutil.NewRandomUUID()
	agentID := testutil.NewRandomUUID()
	coordinatorID := testutil.NewRandomUUID()
	ts.DB.CreateTestBrokerage(brokerageID, "Coordinator Realty", "coordinator")
	ts.DB.CreateTestUser(brokerageID, agentID, "agent@coordinator.test", "agent")
	ts.DB.CreateTestCoordinator(brokerageID, coordinatorID, "tc@coordinator.test")

	w := ts.Request(http.MethodPost, "/api/v1/transactions", createRequestBody(), brokerageID, agentID)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	txnID := resp.Data.(map[string]interface{})["id"].(string)

	t.Run("Assign coordinator", func(t *testing.T) {
		reqBody := map[string]interface{}{"coordinator_id": coordinatorID.String()}

		w := ts.Request(http.MethodPut, "/api/v1/transactions/"+txnID+"/coordinator", reqBody, brokerageID, agentID)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, coordinatorID.String(), data["coordinator_id"])
	})

	t.Run("Assign unknown coordinator fails", func(t *testing.T) {
		reqBody := map[string]interface{}{"coordinator_id": uuid.New().String()}

		w := ts.Request(http.MethodPut, "/api/v1/transactions/"+txnID+"/coordinator", reqBody, brokerageID, agentID)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
