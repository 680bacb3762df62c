package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/team"
	"github.com/closeline/backend/internal/domain/transaction"
	"github.com/closeline/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// upcomingClosingWindow is the lookahead for the pipeline dashboard
const upcomingClosingWindow = 30 * 24 * time.Hour

// TransactionService manages the pipeline from intake to closing
type TransactionService struct {
	txnRepo         transaction.Repository
	coordinatorRepo team.CoordinatorRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
	metrics         *telemetry.BusinessMetrics
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	txnRepo transaction.Repository,
	coordinatorRepo team.CoordinatorRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		txnRepo:         txnRepo,
		coordinatorRepo: coordinatorRepo,
		eventPublisher:  eventPublisher,
		logger:          logger,
	}
}

// SetMetrics attaches business metrics recording. Optional; the
// service works without it.
func (s *TransactionService) SetMetrics(metrics *telemetry.BusinessMetrics) {
	s.metrics = metrics
}

// Create opens a new transaction file in intake status
func (s *TransactionService) Create(ctx context.Context, input CreateTransactionInput) (*TransactionInfo, error) {
	addr, err := input.Address.toAddress()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	txn, err := transaction.NewTransaction(input.BrokerageID, input.AgentUserID, input.Side, addr, transaction.Client{
		Name:  input.Client.Name,
		Email: input.Client.Email,
		Phone: input.Client.Phone,
	})
	if err != nil {
		return nil, err
	}

	if input.MLSNumber != "" || !input.ListPrice.IsZero() || !input.CommissionRate.IsZero() {
		if err := txn.UpdateDetails(addr, input.MLSNumber, input.ListPrice, input.CommissionRate); err != nil {
			return nil, err
		}
	}
	if input.Notes != "" {
		txn.SetNotes(input.Notes)
	}

	if err := s.txnRepo.Save(ctx, txn); err != nil {
		s.logger.Error("Failed to save transaction", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create transaction")
	}
	s.publishDomainEvents(ctx, txn)
	if s.metrics != nil {
		s.metrics.RecordTransactionCreated(ctx, txn.TenantID, string(txn.Side))
	}

	s.logger.Info("Transaction created",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("side", string(txn.Side)),
		zap.String("address", txn.Address.String()))

	info := toTransactionInfo(txn)
	return &info, nil
}

// Get returns a transaction
func (s *TransactionService) Get(ctx context.Context, brokerageID, transactionID uuid.UUID) (*TransactionInfo, error) {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, brokerageID, transactionID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	info := toTransactionInfo(txn)
	return &info, nil
}

// List lists transactions with pagination and filtering
func (s *TransactionService) List(ctx context.Context, brokerageID uuid.UUID, filter shared.Filter) (*shared.Paginated[TransactionInfo], error) {
	txns, err := s.txnRepo.FindAllForTenant(ctx, brokerageID, filter)
	if err != nil {
		s.logger.Error("Failed to list transactions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list transactions")
	}

	total, err := s.txnRepo.CountForTenant(ctx, brokerageID, filter)
	if err != nil {
		s.logger.Error("Failed to count transactions", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list transactions")
	}

	infos := make([]TransactionInfo, len(txns))
	for i := range txns {
		infos[i] = toTransactionInfo(&txns[i])
	}

	result := shared.NewPaginated(infos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateDetails updates property and pricing fields on an open file
func (s *TransactionService) UpdateDetails(ctx context.Context, input UpdateDetailsInput) (*TransactionInfo, error) {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, input.BrokerageID, input.TransactionID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	addr, err := input.Address.toAddress()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	if err := txn.UpdateDetails(addr, input.MLSNumber, input.ListPrice, input.CommissionRate); err != nil {
		return nil, err
	}

	return s.save(ctx, txn)
}

// UpdateClient updates the client's contact details
func (s *TransactionService) UpdateClient(ctx context.Context, input UpdateClientInput) (*TransactionInfo, error) {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, input.BrokerageID, input.TransactionID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := txn.UpdateClient(transaction.Client{
		Name:  input.Client.Name,
		Email: input.Client.Email,
		Phone: input.Client.Phone,
	}); err != nil {
		return nil, err
	}

	return s.save(ctx, txn)
}

// SetNotes replaces the transaction notes
func (s *TransactionService) SetNotes(ctx context.Context, brokerageID, transactionID uuid.UUID, notes string) error {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, brokerageID, transactionID)
	if err != nil {
		return shared.ErrNotFound
	}

	txn.SetNotes(notes)

	_, err = s.save(ctx, txn)
	return err
}

// Activate moves the file from intake to active
func (s *TransactionService) Activate(ctx context.Context, input ActivateInput) (*TransactionInfo, error) {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, input.BrokerageID, input.TransactionID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := txn.Activate(input.ListingDate); err != nil {
		return nil, err
	}

	return s.save(ctx, txn)
}

// MarkUnderContract records the executed contract and, when given,
// the expected closing date
func (s *TransactionService) MarkUnderContract(ctx context.Context, input MarkUnderContractInput) (*TransactionInfo, error) {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, input.BrokerageID, input.TransactionID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := txn.MarkUnderContract(input.ContractPrice, input.ContractDate); err != nil {
		return nil, err
	}
	if input.ClosingDate != nil {
		if err := txn.SetClosingDate(*input.ClosingDate, time.Now()); err != nil {
			return nil, err
		}
	}

	return s.save(ctx, txn)
}

// MarkClearToClose moves the file to clear_to_close
func (s *TransactionService) MarkClearToClose(ctx context.Context, brokerageID, transactionID uuid.UUID) (*TransactionInfo, error) {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, brokerageID, transactionID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := txn.MarkClearToClose(); err != nil {
		return nil, err
	}

	return s.save(ctx, txn)
}

// Close finalizes the transaction
func (s *TransactionService) Close(ctx context.Context, brokerageID, transactionID uuid.UUID) (*TransactionInfo, error) {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, brokerageID, transactionID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := txn.Close(); err != nil {
		return nil, err
	}

	s.logger.Info("Transaction closed",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("close_price", txn.EffectivePrice().String()))

	return s.save(ctx, txn)
}

// Cancel terminates the transaction before closing
func (s *TransactionService) Cancel(ctx context.Context, input TerminateInput) (*TransactionInfo, error) {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, input.BrokerageID, input.TransactionID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := txn.Cancel(input.Reason); err != nil {
		return nil, err
	}

	return s.save(ctx, txn)
}

// Withdraw pulls a listing from the market
func (s *TransactionService) Withdraw(ctx context.Context, input TerminateInput) (*TransactionInfo, error) {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, input.BrokerageID, input.TransactionID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := txn.Withdraw(input.Reason); err != nil {
		return nil, err
	}

	return s.save(ctx, txn)
}

// SetClosingDate sets or moves the closing date
func (s *TransactionService) SetClosingDate(ctx context.Context, input SetClosingDateInput) (*TransactionInfo, error) {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, input.BrokerageID, input.TransactionID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := txn.SetClosingDate(input.ClosingDate, time.Now()); err != nil {
		return nil, err
	}

	return s.save(ctx, txn)
}

// AssignCoordinator assigns a coordinator after checking their capacity
func (s *TransactionService) AssignCoordinator(ctx context.Context, input AssignCoordinatorInput) (*TransactionInfo, error) {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, input.BrokerageID, input.TransactionID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	coordinator, err := s.coordinatorRepo.FindByIDForTenant(ctx, input.BrokerageID, input.CoordinatorID)
	if err != nil {
		return nil, shared.NewDomainError("COORDINATOR_NOT_FOUND", "Coordinator not found")
	}

	openCount, err := s.txnRepo.CountOpenForCoordinator(ctx, input.BrokerageID, coordinator.ID)
	if err != nil {
		s.logger.Error("Failed to count coordinator workload", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to assign coordinator")
	}
	if !coordinator.CanTakeTransaction(int(openCount)) {
		if !coordinator.IsActive() {
			return nil, shared.NewDomainError("COORDINATOR_INACTIVE", "Coordinator is not active")
		}
		return nil, shared.NewDomainError("COORDINATOR_AT_CAPACITY", "Coordinator has reached their open transaction limit")
	}

	if err := txn.AssignCoordinator(coordinator.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Coordinator assigned",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("coordinator_id", coordinator.ID.String()),
		zap.Int64("open_count", openCount))

	return s.save(ctx, txn)
}

// UnassignCoordinator removes the coordinator from the file
func (s *TransactionService) UnassignCoordinator(ctx context.Context, brokerageID, transactionID uuid.UUID) (*TransactionInfo, error) {
	txn, err := s.txnRepo.FindByIDForTenant(ctx, brokerageID, transactionID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	txn.UnassignCoordinator()

	return s.save(ctx, txn)
}

// PipelineSummary builds the dashboard summary: counts per status,
// closings inside the next 30 days, and closed volume month and year
// to date.
func (s *TransactionService) PipelineSummary(ctx context.Context, brokerageID uuid.UUID) (*transaction.PipelineSummary, error) {
	byStatus, err := s.txnRepo.CountByStatus(ctx, brokerageID)
	if err != nil {
		s.logger.Error("Failed to count transactions by status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build pipeline summary")
	}

	now := time.Now()
	upcoming, err := s.txnRepo.FindClosingBetween(ctx, brokerageID, now, now.Add(upcomingClosingWindow))
	if err != nil {
		s.logger.Error("Failed to load upcoming closings", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build pipeline summary")
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	mtd, err := s.txnRepo.ClosedVolumeSince(ctx, brokerageID, monthStart)
	if err != nil {
		s.logger.Error("Failed to sum closed volume MTD", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build pipeline summary")
	}
	ytd, err := s.txnRepo.ClosedVolumeSince(ctx, brokerageID, yearStart)
	if err != nil {
		s.logger.Error("Failed to sum closed volume YTD", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build pipeline summary")
	}

	return &transaction.PipelineSummary{
		ByStatus:         byStatus,
		UpcomingClosings: int64(len(upcoming)),
		ClosedVolumeMTD:  mtd,
		ClosedVolumeYTD:  ytd,
	}, nil
}

func (s *TransactionService) save(ctx context.Context, txn *transaction.Transaction) (*TransactionInfo, error) {
	if err := s.txnRepo.SaveWithLock(ctx, txn); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		s.logger.Error("Failed to save transaction",
			zap.String("transaction_id", txn.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save transaction")
	}
	s.publishDomainEvents(ctx, txn)

	info := toTransactionInfo(txn)
	return &info, nil
}

// publishDomainEvents publishes pending events after a successful save
func (s *TransactionService) publishDomainEvents(ctx context.Context, txn *transaction.Transaction) {
	if s.eventPublisher == nil {
		return
	}
	events := txn.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	txn.ClearDomainEvents()
}
