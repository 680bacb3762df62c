package identity

import (
	"context"

	"github.com/closeline/backend/internal/domain/identity"
	"github.com/closeline/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user management within a brokerage
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateUser creates a new user in the brokerage
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*UserInfo, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.BrokerageID, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	user, err := identity.NewUser(input.BrokerageID, input.Email, input.Password, input.DisplayName, input.Role)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	info := toUserInfo(user)
	return &info, nil
}

// GetUser returns a user within the brokerage
func (s *UserService) GetUser(ctx context.Context, brokerageID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, brokerageID, userID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	info := toUserInfo(user)
	return &info, nil
}

// ListUsers lists users in the brokerage
func (s *UserService) ListUsers(ctx context.Context, brokerageID uuid.UUID, filter shared.Filter) (*shared.Paginated[UserInfo], error) {
	users, err := s.userRepo.FindAllForTenant(ctx, brokerageID, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	total, err := s.userRepo.CountForTenant(ctx, brokerageID)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	infos := make([]UserInfo, len(users))
	for i := range users {
		infos[i] = toUserInfo(&users[i])
	}

	result := shared.NewPaginated(infos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateUser updates a user's display name and role
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, input.BrokerageID, input.UserID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if input.DisplayName != "" {
		if err := user.SetDisplayName(input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.Role != "" && input.Role != user.Role {
		if err := user.SetRole(input.Role); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, err
	}

	info := toUserInfo(user)
	return &info, nil
}

// DeactivateUser deactivates a user
func (s *UserService) DeactivateUser(ctx context.Context, brokerageID, userID uuid.UUID) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, brokerageID, userID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := user.Deactivate(); err != nil {
		return err
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		s.logger.Error("Failed to deactivate user", zap.Error(err))
		return err
	}

	s.logger.Info("User deactivated", zap.String("user_id", userID.String()))

	return nil
}

// ActivateUser reactivates a deactivated or locked user
func (s *UserService) ActivateUser(ctx context.Context, brokerageID, userID uuid.UUID) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, brokerageID, userID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := user.Activate(); err != nil {
		return err
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		s.logger.Error("Failed to activate user", zap.Error(err))
		return err
	}

	return nil
}

// ResetPassword sets a new password without the old one (admin action)
func (s *UserService) ResetPassword(ctx context.Context, brokerageID, userID uuid.UUID, newPassword string) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, brokerageID, userID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		s.logger.Error("Failed to reset password", zap.Error(err))
		return err
	}

	s.logger.Info("User password reset", zap.String("user_id", userID.String()))

	return nil
}
