package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appidentity "github.com/closeline/backend/internal/application/identity"
	"github.com/closeline/backend/internal/domain/identity"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/infrastructure/auth"
	"github.com/closeline/backend/internal/infrastructure/config"
	"github.com/closeline/backend/internal/interfaces/http/dto"
	"github.com/closeline/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testJWTConfig returns a default JWT config for tests
func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		RefreshSecret:          "test-refresh-secret-32-chars-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "closeline-test",
		MaxRefreshCount:        10,
	}
}

// MockBrokerageRepository is a mock implementation of identity.BrokerageRepository
type MockBrokerageRepository struct {
	mock.Mock
}

func (m *MockBrokerageRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Brokerage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Brokerage), args.Error(1)
}

func (m *MockBrokerageRepository) FindBySlug(ctx context.Context, slug string) (*identity.Brokerage, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Brokerage), args.Error(1)
}

func (m *MockBrokerageRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Brokerage, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Brokerage), args.Error(1)
}

func (m *MockBrokerageRepository) FindAllActive(ctx context.Context) ([]identity.Brokerage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.Brokerage), args.Error(1)
}

func (m *MockBrokerageRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockBrokerageRepository) Save(ctx context.Context, brokerage *identity.Brokerage) error {
	args := m.Called(ctx, brokerage)
	return args.Error(0)
}

func (m *MockBrokerageRepository) SaveWithLock(ctx context.Context, brokerage *identity.Brokerage) error {
	args := m.Called(ctx, brokerage)
	return args.Error(0)
}

func (m *MockBrokerageRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, tenantID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SaveWithLock(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenBlacklist is a mock implementation of auth.TokenBlacklist
type MockTokenBlacklist struct {
	mock.Mock
}

func (m *MockTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

func (m *MockTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenBlacklist) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	args := m.Called(ctx, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	args := m.Called(ctx, userID, tokenIssuedAt)
	return args.Bool(0), args.Error(1)
}

type authTestEnv struct {
	brokerageRepo *MockBrokerageRepository
	userRepo      *MockUserRepository
	blacklist     *MockTokenBlacklist
	router        *gin.Engine
	brokerage     *identity.Brokerage
	user          *identity.User
}

// newAuthTestEnv builds an AuthHandler backed by a real auth service
// over mocked repositories
func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()

	brokerageRepo := new(MockBrokerageRepository)
	userRepo := new(MockUserRepository)
	blacklist := new(MockTokenBlacklist)

	jwtService := auth.NewJWTService(testJWTConfig())

	authService := appidentity.NewAuthService(
		brokerageRepo, userRepo, jwtService, blacklist,
		appidentity.DefaultAuthServiceConfig(), zap.NewNop(),
	)
	h := NewAuthHandler(authService)

	brokerage, err := identity.NewBrokerage("Lakeside Realty", "lakeside")
	require.NoError(t, err)

	user, err := identity.NewUser(brokerage.ID, "agent@lakeside.test", "correct-horse-9", "Sam Okafor", identity.UserRoleAgent)
	require.NoError(t, err)

	router := gin.New()
	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/refresh", h.RefreshToken)

	// Authenticated routes get claims injected directly
	authed := router.Group("/api/v1")
	authed.Use(func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, &auth.Claims{
			BrokerageID: brokerage.ID.String(),
			UserID:      user.ID.String(),
			Email:       user.Email,
			Role:        string(user.Role),
		})
		c.Next()
	})
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.GetCurrentUser)
	authed.PUT("/auth/password", h.ChangePassword)

	return &authTestEnv{
		brokerageRepo: brokerageRepo,
		userRepo:      userRepo,
		blacklist:     blacklist,
		router:        router,
		brokerage:     brokerage,
		user:          user,
	}
}

func (e *authTestEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := newAuthTestEnv(t)
		env.brokerageRepo.On("FindBySlug", mock.Anything, "lakeside").Return(env.brokerage, nil)
		env.userRepo.On("FindByEmail", mock.Anything, env.brokerage.ID, "agent@lakeside.test").Return(env.user, nil)
		env.userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		w := env.do("POST", "/api/v1/auth/login", LoginRequest{
			BrokerageSlug: "lakeside",
			Email:         "agent@lakeside.test",
			Password:      "correct-horse-9",
		})

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool          `json:"success"`
			Data    LoginResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data.Token.AccessToken)
		assert.NotEmpty(t, resp.Data.Token.RefreshToken)
		assert.Equal(t, "Bearer", resp.Data.Token.TokenType)
		assert.Equal(t, env.user.ID, resp.Data.User.ID)
		assert.Equal(t, "agent", resp.Data.User.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		env := newAuthTestEnv(t)
		env.brokerageRepo.On("FindBySlug", mock.Anything, "lakeside").Return(env.brokerage, nil)
		env.userRepo.On("FindByEmail", mock.Anything, env.brokerage.ID, "agent@lakeside.test").Return(env.user, nil)
		env.userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		w := env.do("POST", "/api/v1/auth/login", LoginRequest{
			BrokerageSlug: "lakeside",
			Email:         "agent@lakeside.test",
			Password:      "wrong-password-1",
		})

		require.Equal(t, http.StatusUnauthorized, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
	})

	t.Run("unknown brokerage slug", func(t *testing.T) {
		env := newAuthTestEnv(t)
		env.brokerageRepo.On("FindBySlug", mock.Anything, "nowhere").Return(nil, assertAnError())

		w := env.do("POST", "/api/v1/auth/login", LoginRequest{
			BrokerageSlug: "nowhere",
			Email:         "agent@lakeside.test",
			Password:      "correct-horse-9",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("suspended brokerage", func(t *testing.T) {
		env := newAuthTestEnv(t)
		require.NoError(t, env.brokerage.Suspend())
		env.brokerageRepo.On("FindBySlug", mock.Anything, "lakeside").Return(env.brokerage, nil)

		w := env.do("POST", "/api/v1/auth/login", LoginRequest{
			BrokerageSlug: "lakeside",
			Email:         "agent@lakeside.test",
			Password:      "correct-horse-9",
		})

		require.Equal(t, http.StatusForbidden, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		env := newAuthTestEnv(t)

		w := env.do("POST", "/api/v1/auth/login", map[string]string{
			"email": "agent@lakeside.test",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandlerRefreshToken(t *testing.T) {
	t.Run("invalid token", func(t *testing.T) {
		env := newAuthTestEnv(t)

		w := env.do("POST", "/api/v1/auth/refresh", RefreshTokenRequest{
			RefreshToken: "not-a-valid-token",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandlerGetCurrentUser(t *testing.T) {
	env := newAuthTestEnv(t)
	env.userRepo.On("FindByID", mock.Anything, env.user.ID).Return(env.user, nil)

	w := env.do("GET", "/api/v1/auth/me", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                `json:"success"`
		Data    CurrentUserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, env.user.ID, resp.Data.User.ID)
	assert.Equal(t, "agent@lakeside.test", resp.Data.User.Email)
}

func TestAuthHandlerChangePassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := newAuthTestEnv(t)
		env.userRepo.On("FindByID", mock.Anything, env.user.ID).Return(env.user, nil)
		env.userRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)
		env.blacklist.On("AddUserTokensToBlacklist", mock.Anything, env.user.ID.String(), mock.Anything).Return(nil)

		w := env.do("PUT", "/api/v1/auth/password", ChangePasswordRequest{
			OldPassword: "correct-horse-9",
			NewPassword: "battery-staple-7",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		env.blacklist.AssertExpectations(t)
	})

	t.Run("wrong old password", func(t *testing.T) {
		env := newAuthTestEnv(t)
		env.userRepo.On("FindByID", mock.Anything, env.user.ID).Return(env.user, nil)

		w := env.do("PUT", "/api/v1/auth/password", ChangePasswordRequest{
			OldPassword: "wrong-password-1",
			NewPassword: "battery-staple-7",
		})

		assert.NotEqual(t, http.StatusOK, w.Code)
	})
}

func TestAuthHandlerLogout(t *testing.T) {
	env := newAuthTestEnv(t)

	// No JTI on the injected claims, so no blacklist write is expected
	w := env.do("POST", "/api/v1/auth/logout", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    LogoutResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.Message)
}

// assertAnError returns a generic error for mock returns
func assertAnError() error {
	return shared.NewDomainError("NOT_FOUND", "not found")
}
