package identity

import (
	"time"

	"github.com/closeline/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	BrokerageSlug string
	Email         string
	Password      string
	IP            string // client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID          uuid.UUID
	BrokerageID uuid.UUID
	Email       string
	DisplayName string
	Role        identity.UserRole
	Status      identity.UserStatus
	LastLoginAt *time.Time
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration // remaining lifetime of the access token
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateUserInput contains the input for creating a user
type CreateUserInput struct {
	BrokerageID uuid.UUID
	Email       string
	Password    string
	DisplayName string
	Role        identity.UserRole
}

// UpdateUserInput contains the input for updating a user
type UpdateUserInput struct {
	BrokerageID uuid.UUID
	UserID      uuid.UUID
	DisplayName string
	Role        identity.UserRole
}

// RegisterBrokerageInput creates a brokerage together with its first admin
type RegisterBrokerageInput struct {
	Name          string
	Slug          string
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// RegisterBrokerageResult contains the new brokerage and admin user
type RegisterBrokerageResult struct {
	Brokerage *identity.Brokerage
	Admin     UserInfo
}

// UpdateBrokerageInput contains the editable brokerage fields
type UpdateBrokerageInput struct {
	BrokerageID  uuid.UUID
	Name         string
	ContactName  string
	ContactPhone string
	ContactEmail string
	Timezone     string
	Branding     *identity.Branding
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		BrokerageID: u.TenantID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
	}
}
