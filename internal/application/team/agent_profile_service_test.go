package team

import (
	"context"
	"testing"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/team"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAgentProfileRepository is a mock implementation of team.AgentProfileRepository
type MockAgentProfileRepository struct {
	mock.Mock
}

func (m *MockAgentProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*team.AgentProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.AgentProfile), args.Error(1)
}

func (m *MockAgentProfileRepository) FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*team.AgentProfile, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.AgentProfile), args.Error(1)
}

func (m *MockAgentProfileRepository) ExistsByUserID(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAgentProfileRepository) Save(ctx context.Context, profile *team.AgentProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockAgentProfileRepository) SaveWithLock(ctx context.Context, profile *team.AgentProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockAgentProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestAgentProfileService_Upsert_CreatesOnFirstWrite(t *testing.T) {
	profileRepo := new(MockAgentProfileRepository)
	svc := NewAgentProfileService(profileRepo, zap.NewNop())
	brokerageID := uuid.New()
	userID := uuid.New()

	profileRepo.On("FindByUserID", mock.Anything, brokerageID, userID).Return(nil, shared.ErrNotFound)
	profileRepo.On("Save", mock.Anything, mock.AnythingOfType("*team.AgentProfile")).Return(nil)

	info, err := svc.Upsert(context.Background(), UpsertAgentProfileInput{
		BrokerageID:     brokerageID,
		UserID:          userID,
		LicenseNumber:   "FA.100012345",
		Title:           "Broker Associate",
		YearsExperience: 8,
		ServiceAreas:    []string{"Boulder", "Louisville"},
	})

	require.NoError(t, err)
	assert.Equal(t, userID, info.UserID)
	assert.Equal(t, "FA.100012345", info.LicenseNumber)
	assert.Equal(t, []string{"Boulder", "Louisville"}, info.ServiceAreas)
	profileRepo.AssertExpectations(t)
}

func TestAgentProfileService_Upsert_UpdatesExisting(t *testing.T) {
	profileRepo := new(MockAgentProfileRepository)
	svc := NewAgentProfileService(profileRepo, zap.NewNop())
	brokerageID := uuid.New()
	userID := uuid.New()

	existing, err := team.NewAgentProfile(brokerageID, userID, "FA.100012345")
	require.NoError(t, err)

	profileRepo.On("FindByUserID", mock.Anything, brokerageID, userID).Return(existing, nil)
	profileRepo.On("SaveWithLock", mock.Anything, existing).Return(nil)

	info, err := svc.Upsert(context.Background(), UpsertAgentProfileInput{
		BrokerageID:     brokerageID,
		UserID:          userID,
		LicenseNumber:   "FA.100012345",
		Bio:             "Twelve years helping families relocate along the Front Range.",
		YearsExperience: 12,
	})

	require.NoError(t, err)
	assert.Equal(t, 12, info.YearsExperience)
	assert.Equal(t, existing.ID, info.ID)
}

func TestAgentProfileService_Upsert_InvalidLicense(t *testing.T) {
	profileRepo := new(MockAgentProfileRepository)
	svc := NewAgentProfileService(profileRepo, zap.NewNop())
	brokerageID := uuid.New()
	userID := uuid.New()

	profileRepo.On("FindByUserID", mock.Anything, brokerageID, userID).Return(nil, shared.ErrNotFound)

	_, err := svc.Upsert(context.Background(), UpsertAgentProfileInput{
		BrokerageID: brokerageID,
		UserID:      userID,
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_LICENSE", domainErr.Code)
}

func TestAgentProfileService_SetHeadshot(t *testing.T) {
	profileRepo := new(MockAgentProfileRepository)
	svc := NewAgentProfileService(profileRepo, zap.NewNop())
	brokerageID := uuid.New()
	userID := uuid.New()

	existing, err := team.NewAgentProfile(brokerageID, userID, "FA.100012345")
	require.NoError(t, err)

	profileRepo.On("FindByUserID", mock.Anything, brokerageID, userID).Return(existing, nil)
	profileRepo.On("SaveWithLock", mock.Anything, existing).Return(nil)

	err = svc.SetHeadshot(context.Background(), brokerageID, userID, "headshots/"+userID.String()+".jpg")

	require.NoError(t, err)
	assert.Equal(t, "headshots/"+userID.String()+".jpg", existing.HeadshotKey)
}
