package team

import (
	"context"
	"testing"
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/team"
	"github.com/closeline/backend/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCoordinatorRepository is a mock implementation of team.CoordinatorRepository
type MockCoordinatorRepository struct {
	mock.Mock
}

func (m *MockCoordinatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*team.Coordinator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.Coordinator), args.Error(1)
}

func (m *MockCoordinatorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*team.Coordinator, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.Coordinator), args.Error(1)
}

func (m *MockCoordinatorRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*team.Coordinator, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.Coordinator), args.Error(1)
}

func (m *MockCoordinatorRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]team.Coordinator, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]team.Coordinator), args.Error(1)
}

func (m *MockCoordinatorRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]team.Coordinator, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]team.Coordinator), args.Error(1)
}

func (m *MockCoordinatorRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, tenantID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCoordinatorRepository) Save(ctx context.Context, coordinator *team.Coordinator) error {
	args := m.Called(ctx, coordinator)
	return args.Error(0)
}

func (m *MockCoordinatorRepository) SaveWithLock(ctx context.Context, coordinator *team.Coordinator) error {
	args := m.Called(ctx, coordinator)
	return args.Error(0)
}

func (m *MockCoordinatorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCoordinatorRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock implementation of transaction.Repository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]transaction.Transaction, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindOpenWithClosingDates(ctx context.Context, tenantID uuid.UUID) ([]transaction.Transaction, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindClosingBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]transaction.Transaction, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]transaction.StatusCount, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transaction.StatusCount), args.Error(1)
}

func (m *MockTransactionRepository) CountOpenForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) CountOpenForCoordinator(ctx context.Context, tenantID, coordinatorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, coordinatorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) ClosedVolumeSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, txn *transaction.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveWithLock(ctx context.Context, txn *transaction.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newTestCoordinatorService(t *testing.T) (*CoordinatorService, *MockCoordinatorRepository, *MockTransactionRepository) {
	t.Helper()
	coordinatorRepo := new(MockCoordinatorRepository)
	transactionRepo := new(MockTransactionRepository)
	svc := NewCoordinatorService(coordinatorRepo, transactionRepo, zap.NewNop())
	return svc, coordinatorRepo, transactionRepo
}

func newTestCoordinator(t *testing.T, brokerageID uuid.UUID) *team.Coordinator {
	t.Helper()
	c, err := team.NewCoordinator(brokerageID, "Morgan Diaz", "morgan@lakeside.com")
	require.NoError(t, err)
	return c
}

func TestCoordinatorService_Create(t *testing.T) {
	svc, coordinatorRepo, transactionRepo := newTestCoordinatorService(t)
	brokerageID := uuid.New()

	coordinatorRepo.On("ExistsByEmail", mock.Anything, brokerageID, "morgan@lakeside.com").Return(false, nil)
	coordinatorRepo.On("Save", mock.Anything, mock.AnythingOfType("*team.Coordinator")).Return(nil)
	transactionRepo.On("CountOpenForCoordinator", mock.Anything, brokerageID, mock.Anything).Return(int64(0), nil)

	info, err := svc.Create(context.Background(), CreateCoordinatorInput{
		BrokerageID: brokerageID,
		Name:        "Morgan Diaz",
		Email:       "morgan@lakeside.com",
		Phone:       "555-0142",
	})

	require.NoError(t, err)
	assert.Equal(t, "Morgan Diaz", info.Name)
	assert.Equal(t, "morgan@lakeside.com", info.Email)
	assert.Equal(t, "555-0142", info.Phone)
	assert.Equal(t, "active", info.Status)
	assert.Equal(t, team.DefaultMaxOpenTransactions, info.MaxOpenTransactions)
	coordinatorRepo.AssertExpectations(t)
}

func TestCoordinatorService_Create_DuplicateEmail(t *testing.T) {
	svc, coordinatorRepo, _ := newTestCoordinatorService(t)
	brokerageID := uuid.New()

	coordinatorRepo.On("ExistsByEmail", mock.Anything, brokerageID, "morgan@lakeside.com").Return(true, nil)

	_, err := svc.Create(context.Background(), CreateCoordinatorInput{
		BrokerageID: brokerageID,
		Name:        "Morgan Diaz",
		Email:       "morgan@lakeside.com",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
}

func TestCoordinatorService_Get_IncludesWorkload(t *testing.T) {
	svc, coordinatorRepo, transactionRepo := newTestCoordinatorService(t)
	brokerageID := uuid.New()
	coordinator := newTestCoordinator(t, brokerageID)

	coordinatorRepo.On("FindByIDForTenant", mock.Anything, brokerageID, coordinator.ID).Return(coordinator, nil)
	transactionRepo.On("CountOpenForCoordinator", mock.Anything, brokerageID, coordinator.ID).Return(int64(7), nil)

	info, err := svc.Get(context.Background(), brokerageID, coordinator.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(7), info.OpenTransactions)
}

func TestCoordinatorService_Update(t *testing.T) {
	svc, coordinatorRepo, transactionRepo := newTestCoordinatorService(t)
	brokerageID := uuid.New()
	coordinator := newTestCoordinator(t, brokerageID)

	coordinatorRepo.On("FindByIDForTenant", mock.Anything, brokerageID, coordinator.ID).Return(coordinator, nil)
	coordinatorRepo.On("ExistsByEmail", mock.Anything, brokerageID, "morgan.diaz@lakeside.com").Return(false, nil)
	coordinatorRepo.On("SaveWithLock", mock.Anything, coordinator).Return(nil)
	transactionRepo.On("CountOpenForCoordinator", mock.Anything, brokerageID, coordinator.ID).Return(int64(0), nil)

	info, err := svc.Update(context.Background(), UpdateCoordinatorInput{
		BrokerageID:         brokerageID,
		CoordinatorID:       coordinator.ID,
		Email:               "morgan.diaz@lakeside.com",
		MaxOpenTransactions: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, "morgan.diaz@lakeside.com", info.Email)
	assert.Equal(t, 10, info.MaxOpenTransactions)
	// New email means the Slack user ID must be resolved again
	assert.Empty(t, info.SlackUserID)
}

func TestCoordinatorService_Deactivate(t *testing.T) {
	svc, coordinatorRepo, _ := newTestCoordinatorService(t)
	brokerageID := uuid.New()
	coordinator := newTestCoordinator(t, brokerageID)

	coordinatorRepo.On("FindByIDForTenant", mock.Anything, brokerageID, coordinator.ID).Return(coordinator, nil)
	coordinatorRepo.On("SaveWithLock", mock.Anything, coordinator).Return(nil)

	err := svc.Deactivate(context.Background(), brokerageID, coordinator.ID)

	require.NoError(t, err)
	assert.Equal(t, team.CoordinatorStatusInactive, coordinator.Status)

	err = svc.Deactivate(context.Background(), brokerageID, coordinator.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_INACTIVE", domainErr.Code)
}

func TestCoordinatorService_List(t *testing.T) {
	svc, coordinatorRepo, transactionRepo := newTestCoordinatorService(t)
	brokerageID := uuid.New()
	first := newTestCoordinator(t, brokerageID)
	second, err := team.NewCoordinator(brokerageID, "Riley Chen", "riley@lakeside.com")
	require.NoError(t, err)

	filter := shared.Filter{Page: 1, PageSize: 20}
	coordinatorRepo.On("FindAllForTenant", mock.Anything, brokerageID, filter).Return([]team.Coordinator{*first, *second}, nil)
	coordinatorRepo.On("CountForTenant", mock.Anything, brokerageID, filter).Return(int64(2), nil)
	transactionRepo.On("CountOpenForCoordinator", mock.Anything, brokerageID, first.ID).Return(int64(3), nil)
	transactionRepo.On("CountOpenForCoordinator", mock.Anything, brokerageID, second.ID).Return(int64(0), nil)

	result, err := svc.List(context.Background(), brokerageID, filter)

	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, int64(3), result.Items[0].OpenTransactions)
}
