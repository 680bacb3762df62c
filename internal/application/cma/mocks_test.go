package cma

import (
	"context"
	"time"

	"github.com/closeline/backend/internal/domain/cma"
	"github.com/closeline/backend/internal/domain/identity"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/team"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCmaRepository struct {
	mock.Mock
}

func (m *MockCmaRepository) FindByID(ctx context.Context, id uuid.UUID) (*cma.Cma, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cma.Cma), args.Error(1)
}

func (m *MockCmaRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*cma.Cma, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cma.Cma), args.Error(1)
}

func (m *MockCmaRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]cma.Cma, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cma.Cma), args.Error(1)
}

func (m *MockCmaRepository) Save(ctx context.Context, c *cma.Cma) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCmaRepository) SaveWithLock(ctx context.Context, c *cma.Cma) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCmaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCmaRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockReportConfigRepository struct {
	mock.Mock
}

func (m *MockReportConfigRepository) FindByCmaID(ctx context.Context, tenantID, cmaID uuid.UUID) (*cma.ReportConfig, error) {
	args := m.Called(ctx, tenantID, cmaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cma.ReportConfig), args.Error(1)
}

func (m *MockReportConfigRepository) Save(ctx context.Context, cfg *cma.ReportConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockReportConfigRepository) SaveWithLock(ctx context.Context, cfg *cma.ReportConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

type MockReportExportRepository struct {
	mock.Mock
}

func (m *MockReportExportRepository) FindByID(ctx context.Context, id uuid.UUID) (*cma.ReportExport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cma.ReportExport), args.Error(1)
}

func (m *MockReportExportRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*cma.ReportExport, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cma.ReportExport), args.Error(1)
}

func (m *MockReportExportRepository) FindByCmaID(ctx context.Context, tenantID, cmaID uuid.UUID, filter shared.Filter) ([]cma.ReportExport, error) {
	args := m.Called(ctx, tenantID, cmaID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cma.ReportExport), args.Error(1)
}

func (m *MockReportExportRepository) Save(ctx context.Context, export *cma.ReportExport) error {
	args := m.Called(ctx, export)
	return args.Error(0)
}

func (m *MockReportExportRepository) SaveWithLock(ctx context.Context, export *cma.ReportExport) error {
	args := m.Called(ctx, export)
	return args.Error(0)
}

func (m *MockReportExportRepository) CountPendingForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

type MockShareLogRepository struct {
	mock.Mock
}

func (m *MockShareLogRepository) FindByCmaID(ctx context.Context, tenantID, cmaID uuid.UUID, filter shared.Filter) ([]cma.ShareLog, error) {
	args := m.Called(ctx, tenantID, cmaID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cma.ShareLog), args.Error(1)
}

func (m *MockShareLogRepository) Save(ctx context.Context, share *cma.ShareLog) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Brokerage), args.Error(1)
}

func (m *MockBrokerageRepository) FindAllActive(ctx context.Context) ([]identity.Brokerage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

type MockEventPublisher struct {
	mock.Mock
	published []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	m.published = append(m.published, events...)
	return args.Error(0)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, input RenderInput) (*RenderResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RenderResult), args.Error(1)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, key, expiration)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockExportQueue struct {
	mock.Mock
}

func (m *MockExportQueue) Enqueue(ctx context.Context, brokerageID, exportID uuid.UUID) error {
	args := m.Called(ctx, brokerageID, exportID)
	return args.Error(0)
}

type MockEmailSender struct {
	mock.Mock
	sent []EmailMessage
}

func (m *MockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	args := m.Called(ctx, msg)
	m.sent = append(m.sent, msg)
	return args.Error(0)
}
