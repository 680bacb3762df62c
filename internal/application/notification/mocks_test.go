package notification

import (
	"context"
	"time"

	"github.com/closeline/backend/internal/domain/identity"
	"github.com/closeline/backend/internal/domain/notification"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockSettingRepository struct {
	mock.Mock
}

func (m *MockSettingRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*notification.NotificationSetting, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.NotificationSetting), args.Error(1)
}

func (m *MockSettingRepository) Save(ctx context.Context, setting *notification.NotificationSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockSettingRepository) SaveWithLock(ctx context.Context, setting *notification.NotificationSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

type MockReminderLogRepository struct {
	mock.Mock
	saved []*notification.ReminderLog
}

func (m *MockReminderLogRepository) FindByTransaction(ctx context.Context, tenantID, transactionID uuid.UUID, filter shared.Filter) ([]notification.ReminderLog, error) {
	args := m.Called(ctx, tenantID, transactionID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.ReminderLog), args.Error(1)
}

func (m *MockReminderLogRepository) Save(ctx context.Context, log *notification.ReminderLog) error {
	args := m.Called(ctx, log)
	m.saved = append(m.saved, log)
	return args.Error(0)
}

func (m *MockReminderLogRepository) ExistsForOffset(ctx context.Context, transactionID uuid.UUID, offsetDays int, day time.Time) (bool, error) {
	args := m.Called(ctx, transactionID, offsetDays, day)
	return args.Bool(0), args.Error(1)
}

type MockReminderDeduper struct {
	mock.Mock
}

func (m *MockReminderDeduper) MarkSent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockReminderDeduper) Clear(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockSlackPoster struct {
	mock.Mock
	messages []string
}

func (m *MockSlackPoster) PostMessage(ctx context.Context, channelID, text string) error {
	args := m.Called(ctx, channelID, text)
	m.messages = append(m.messages, text)
	return args.Error(0)
}

type MockEmailGateway struct {
	mock.Mock
}

func (m *MockEmailGateway) SendReminderEmail(ctx context.Context, to, subject, html string) error {
	args := m.Called(ctx, to, subject, html)
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
