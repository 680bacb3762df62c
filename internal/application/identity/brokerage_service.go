package identity

import (
	"context"

	"github.com/closeline/backend/internal/domain/identity"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BrokerageService handles brokerage lifecycle and settings
type BrokerageService struct {
	brokerageRepo identity.BrokerageRepository
	userRepo      identity.UserRepository
	logger        *zap.Logger
}

// NewBrokerageService creates a new brokerage service
func NewBrokerageService(
	brokerageRepo identity.BrokerageRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *BrokerageService {
	return &BrokerageService{
		brokerageRepo: brokerageRepo,
		userRepo:      userRepo,
		logger:        logger,
	}
}

// Register creates a brokerage and its first admin user
func (s *BrokerageService) Register(ctx context.Context, input RegisterBrokerageInput) (*RegisterBrokerageResult, error) {
	exists, err := s.brokerageRepo.ExistsBySlug(ctx, input.Slug)
	if err != nil {
		s.logger.Error("Failed to check slug uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register brokerage")
	}
	if exists {
		return nil, shared.NewDomainError("SLUG_TAKEN", "A brokerage with this slug already exists")
	}

	brokerage, err := identity.NewBrokerage(input.Name, input.Slug)
	if err != nil {
		return nil, err
	}

	admin, err := identity.NewUser(brokerage.ID, input.AdminEmail, input.AdminPassword, input.AdminName, identity.UserRoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.brokerageRepo.Save(ctx, brokerage); err != nil {
		s.logger.Error("Failed to save brokerage", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register brokerage")
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		s.logger.Error("Failed to save admin user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register brokerage")
	}

	s.logger.Info("Brokerage registered",
		zap.String("brokerage_id", brokerage.ID.String()),
		zap.String("slug", brokerage.Slug))

	return &RegisterBrokerageResult{
		Brokerage: brokerage,
		Admin:     toUserInfo(admin),
	}, nil
}

// Get returns a brokerage by ID
func (s *BrokerageService) Get(ctx context.Context, brokerageID uuid.UUID) (*identity.Brokerage, error) {
	brokerage, err := s.brokerageRepo.FindByID(ctx, brokerageID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return brokerage, nil
}

// Update updates the brokerage's profile, contact, timezone, and branding
func (s *BrokerageService) Update(ctx context.Context, input UpdateBrokerageInput) (*identity.Brokerage, error) {
	brokerage, err := s.brokerageRepo.FindByID(ctx, input.BrokerageID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if input.Name != "" {
		if err := brokerage.Update(input.Name); err != nil {
			return nil, err
		}
	}
	if input.ContactName != "" || input.ContactPhone != "" || input.ContactEmail != "" {
		if err := brokerage.SetContact(input.ContactName, input.ContactPhone, input.ContactEmail); err != nil {
			return nil, err
		}
	}
	if input.Timezone != "" {
		if err := brokerage.SetTimezone(input.Timezone); err != nil {
			return nil, err
		}
	}
	if input.Branding != nil {
		if err := brokerage.SetBranding(*input.Branding); err != nil {
			return nil, err
		}
	}

	if err := s.brokerageRepo.SaveWithLock(ctx, brokerage); err != nil {
		s.logger.Error("Failed to update brokerage", zap.Error(err))
		return nil, err
	}

	return brokerage, nil
}

// Suspend suspends a brokerage
func (s *BrokerageService) Suspend(ctx context.Context, brokerageID uuid.UUID) error {
	brokerage, err := s.brokerageRepo.FindByID(ctx, brokerageID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := brokerage.Suspend(); err != nil {
		return err
	}

	if err := s.brokerageRepo.SaveWithLock(ctx, brokerage); err != nil {
		s.logger.Error("Failed to suspend brokerage", zap.Error(err))
		return err
	}

	s.logger.Info("Brokerage suspended", zap.String("brokerage_id", brokerageID.String()))

	return nil
}

// Activate reactivates a suspended brokerage
func (s *BrokerageService) Activate(ctx context.Context, brokerageID uuid.UUID) error {
	brokerage, err := s.brokerageRepo.FindByID(ctx, brokerageID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := brokerage.Activate(); err != nil {
		return err
	}

	if err := s.brokerageRepo.SaveWithLock(ctx, brokerage); err != nil {
		s.logger.Error("Failed to activate brokerage", zap.Error(err))
		return err
	}

	return nil
}
