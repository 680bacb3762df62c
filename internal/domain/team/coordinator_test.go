package team

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoordinator(t *testing.T) {
	brokerageID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		c, err := NewCoordinator(brokerageID, "Dana Ortiz", "Dana@Example.com")
		require.NoError(t, err)

		assert.Equal(t, "dana@example.com", c.Email)
		assert.Equal(t, CoordinatorStatusActive, c.Status)
		assert.Equal(t, DefaultMaxOpenTransactions, c.MaxOpenTransactions)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := NewCoordinator(brokerageID, "Dana Ortiz", "nope")
		assert.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewCoordinator(brokerageID, " ", "dana@example.com")
		assert.Error(t, err)
	})
}

func TestCoordinatorUpdateClearsSlackID(t *testing.T) {
	c, err := NewCoordinator(uuid.New(), "Dana Ortiz", "dana@example.com")
	require.NoError(t, err)

	c.SetSlackUserID("U024BE7LH")

	// Same email keeps the cached Slack ID
	require.NoError(t, c.Update("Dana Ortiz-Reyes", "dana@example.com", "555-0101"))
	assert.Equal(t, "U024BE7LH", c.SlackUserID)

	// New email invalidates it
	require.NoError(t, c.Update("Dana Ortiz-Reyes", "dana.reyes@example.com", "555-0101"))
	assert.Empty(t, c.SlackUserID)
}

func TestCoordinatorCapacity(t *testing.T) {
	c, err := NewCoordinator(uuid.New(), "Dana Ortiz", "dana@example.com")
	require.NoError(t, err)

	require.NoError(t, c.SetMaxOpenTransactions(2))
	assert.True(t, c.CanTakeTransaction(1))
	assert.False(t, c.CanTakeTransaction(2))

	assert.Error(t, c.SetMaxOpenTransactions(0))

	require.NoError(t, c.Deactivate())
	assert.False(t, c.CanTakeTransaction(0))
	assert.Error(t, c.Deactivate())
}

func TestAgentProfile(t *testing.T) {
	brokerageID := uuid.New()
	userID := uuid.New()

	p, err := NewAgentProfile(brokerageID, userID, "TX-0451023")
	require.NoError(t, err)

	require.NoError(t, p.Update("TX-0451023", "555-0102", "Broker Associate", "Ten years on the east side.", 10))
	assert.Equal(t, 10, p.YearsExperience)

	require.NoError(t, p.SetServiceAreas([]string{"Austin", " Round Rock ", ""}))
	assert.Equal(t, []string{"Austin", "Round Rock"}, p.ServiceAreas)

	assert.Error(t, p.Update("", "", "", "", 0))

	_, err = NewAgentProfile(brokerageID, uuid.Nil, "TX-1")
	assert.Error(t, err)
}
