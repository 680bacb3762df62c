package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	brokerageID := uuid.New()

	t.Run("creates active user with hashed password", func(t *testing.T) {
		user, err := NewUser(brokerageID, "Jordan@Example.com", "secret123", "Jordan Wells", UserRoleAgent)
		require.NoError(t, err)

		assert.Equal(t, "jordan@example.com", user.Email)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEqual(t, "secret123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("secret123"))
		assert.False(t, user.VerifyPassword("wrong"))
		assert.Len(t, user.GetDomainEvents(), 1)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser(brokerageID, "not-an-email", "secret123", "Jordan", UserRoleAgent)
		assert.Error(t, err)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		_, err := NewUser(brokerageID, "a@b.com", "short1", "Jordan", UserRoleAgent)
		assert.Error(t, err)

		_, err = NewUser(brokerageID, "a@b.com", "nonumbershere", "Jordan", UserRoleAgent)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser(brokerageID, "a@b.com", "secret123", "Jordan", UserRole("intern"))
		assert.Error(t, err)
	})
}

func TestUserChangePassword(t *testing.T) {
	user, err := NewUser(uuid.New(), "a@b.com", "secret123", "Jordan", UserRoleAgent)
	require.NoError(t, err)

	assert.Error(t, user.ChangePassword("wrong", "newpass123"))

	require.NoError(t, user.ChangePassword("secret123", "newpass123"))
	assert.True(t, user.VerifyPassword("newpass123"))
	assert.False(t, user.VerifyPassword("secret123"))
}

func TestUserLockout(t *testing.T) {
	user, err := NewUser(uuid.New(), "a@b.com", "secret123", "Jordan", UserRoleAgent)
	require.NoError(t, err)

	locked := user.RecordLoginFailure(3, time.Hour)
	assert.False(t, locked)
	locked = user.RecordLoginFailure(3, time.Hour)
	assert.False(t, locked)
	locked = user.RecordLoginFailure(3, time.Hour)
	assert.True(t, locked)

	assert.True(t, user.IsLocked())
	assert.False(t, user.CanLogin())

	require.NoError(t, user.Unlock())
	assert.True(t, user.CanLogin())
	assert.Equal(t, 0, user.FailedAttempts)
}

func TestUserLockExpiry(t *testing.T) {
	user, err := NewUser(uuid.New(), "a@b.com", "secret123", "Jordan", UserRoleAgent)
	require.NoError(t, err)

	require.NoError(t, user.Lock(-time.Minute))
	assert.False(t, user.IsLocked())
	assert.True(t, user.CanLogin())
}

func TestUserDeactivate(t *testing.T) {
	user, err := NewUser(uuid.New(), "a@b.com", "secret123", "Jordan", UserRoleAgent)
	require.NoError(t, err)

	require.NoError(t, user.Deactivate())
	assert.False(t, user.CanLogin())
	assert.Error(t, user.Deactivate())
	assert.Error(t, user.Lock(time.Hour))
}
