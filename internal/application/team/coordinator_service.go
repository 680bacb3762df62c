package team

import (
	"context"

	"github.com/closeline/backend/internal/domain/shared"
	"github.com/closeline/backend/internal/domain/team"
	"github.com/closeline/backend/internal/domain/transaction"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CoordinatorService manages transaction coordinators
type CoordinatorService struct {
	coordinatorRepo team.CoordinatorRepository
	transactionRepo transaction.Repository
	logger          *zap.Logger
}

// NewCoordinatorService creates a new coordinator service
func NewCoordinatorService(
	coordinatorRepo team.CoordinatorRepository,
	transactionRepo transaction.Repository,
	logger *zap.Logger,
) *CoordinatorService {
	return &CoordinatorService{
		coordinatorRepo: coordinatorRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// Create creates a new coordinator
func (s *CoordinatorService) Create(ctx context.Context, input CreateCoordinatorInput) (*CoordinatorInfo, error) {
	exists, err := s.coordinatorRepo.ExistsByEmail(ctx, input.BrokerageID, input.Email)
	if err != nil {
		s.logger.Error("Failed to check coordinator email uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create coordinator")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A coordinator with this email already exists")
	}

	coordinator, err := team.NewCoordinator(input.BrokerageID, input.Name, input.Email)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		if err := coordinator.Update(coordinator.Name, coordinator.Email, input.Phone); err != nil {
			return nil, err
		}
	}
	if input.Notes != "" {
		coordinator.SetNotes(input.Notes)
	}

	if err := s.coordinatorRepo.Save(ctx, coordinator); err != nil {
		s.logger.Error("Failed to save coordinator", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create coordinator")
	}

	s.logger.Info("Coordinator created",
		zap.String("coordinator_id", coordinator.ID.String()),
		zap.String("email", coordinator.Email))

	info := s.toInfo(ctx, coordinator)
	return &info, nil
}

// Get returns a coordinator with their current open file count
func (s *CoordinatorService) Get(ctx context.Context, brokerageID, coordinatorID uuid.UUID) (*CoordinatorInfo, error) {
	coordinator, err := s.coordinatorRepo.FindByIDForTenant(ctx, brokerageID, coordinatorID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	info := s.toInfo(ctx, coordinator)
	return &info, nil
}

// List lists coordinators with their workloads
func (s *CoordinatorService) List(ctx context.Context, brokerageID uuid.UUID, filter shared.Filter) (*shared.Paginated[CoordinatorInfo], error) {
	coordinators, err := s.coordinatorRepo.FindAllForTenant(ctx, brokerageID, filter)
	if err != nil {
		s.logger.Error("Failed to list coordinators", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list coordinators")
	}

	total, err := s.coordinatorRepo.CountForTenant(ctx, brokerageID, filter)
	if err != nil {
		s.logger.Error("Failed to count coordinators", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list coordinators")
	}

	infos := make([]CoordinatorInfo, len(coordinators))
	for i := range coordinators {
		infos[i] = s.toInfo(ctx, &coordinators[i])
	}

	result := shared.NewPaginated(infos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListActive returns all active coordinators, for assignment pickers
func (s *CoordinatorService) ListActive(ctx context.Context, brokerageID uuid.UUID) ([]CoordinatorInfo, error) {
	coordinators, err := s.coordinatorRepo.FindActiveForTenant(ctx, brokerageID)
	if err != nil {
		s.logger.Error("Failed to list active coordinators", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list coordinators")
	}

	infos := make([]CoordinatorInfo, len(coordinators))
	for i := range coordinators {
		infos[i] = s.toInfo(ctx, &coordinators[i])
	}

	return infos, nil
}

// Update updates a coordinator's contact details, notes, and capacity
func (s *CoordinatorService) Update(ctx context.Context, input UpdateCoordinatorInput) (*CoordinatorInfo, error) {
	coordinator, err := s.coordinatorRepo.FindByIDForTenant(ctx, input.BrokerageID, input.CoordinatorID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if input.Email != "" && input.Email != coordinator.Email {
		exists, err := s.coordinatorRepo.ExistsByEmail(ctx, input.BrokerageID, input.Email)
		if err != nil {
			s.logger.Error("Failed to check coordinator email uniqueness", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update coordinator")
		}
		if exists {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "A coordinator with this email already exists")
		}
	}

	name := input.Name
	if name == "" {
		name = coordinator.Name
	}
	email := input.Email
	if email == "" {
		email = coordinator.Email
	}
	if err := coordinator.Update(name, email, input.Phone); err != nil {
		return nil, err
	}
	if input.Notes != "" {
		coordinator.SetNotes(input.Notes)
	}
	if input.MaxOpenTransactions > 0 {
		if err := coordinator.SetMaxOpenTransactions(input.MaxOpenTransactions); err != nil {
			return nil, err
		}
	}

	if err := s.coordinatorRepo.SaveWithLock(ctx, coordinator); err != nil {
		s.logger.Error("Failed to update coordinator", zap.Error(err))
		return nil, err
	}

	info := s.toInfo(ctx, coordinator)
	return &info, nil
}

// Activate reactivates a coordinator
func (s *CoordinatorService) Activate(ctx context.Context, brokerageID, coordinatorID uuid.UUID) error {
	coordinator, err := s.coordinatorRepo.FindByIDForTenant(ctx, brokerageID, coordinatorID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := coordinator.Activate(); err != nil {
		return err
	}

	if err := s.coordinatorRepo.SaveWithLock(ctx, coordinator); err != nil {
		s.logger.Error("Failed to activate coordinator", zap.Error(err))
		return err
	}

	return nil
}

// Deactivate deactivates a coordinator. Open assignments are kept.
func (s *CoordinatorService) Deactivate(ctx context.Context, brokerageID, coordinatorID uuid.UUID) error {
	coordinator, err := s.coordinatorRepo.FindByIDForTenant(ctx, brokerageID, coordinatorID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := coordinator.Deactivate(); err != nil {
		return err
	}

	if err := s.coordinatorRepo.SaveWithLock(ctx, coordinator); err != nil {
		s.logger.Error("Failed to deactivate coordinator", zap.Error(err))
		return err
	}

	s.logger.Info("Coordinator deactivated", zap.String("coordinator_id", coordinatorID.String()))

	return nil
}

func (s *CoordinatorService) toInfo(ctx context.Context, c *team.Coordinator) CoordinatorInfo {
	openCount, err := s.transactionRepo.CountOpenForCoordinator(ctx, c.TenantID, c.ID)
	if err != nil {
		// The workload count is informational, the coordinator itself is still returned
		s.logger.Warn("Failed to count open transactions for coordinator",
			zap.String("coordinator_id", c.ID.String()),
			zap.Error(err))
	}

	return CoordinatorInfo{
		ID:                  c.ID,
		Name:                c.Name,
		Email:               c.Email,
		Phone:               c.Phone,
		SlackUserID:         c.SlackUserID,
		Status:              string(c.Status),
		MaxOpenTransactions: c.MaxOpenTransactions,
		OpenTransactions:    openCount,
		Notes:               c.Notes,
	}
}
