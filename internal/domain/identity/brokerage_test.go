package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrokerage(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		b, err := NewBrokerage("Lakeview Realty Group", "lakeview-realty")
		require.NoError(t, err)

		assert.Equal(t, BrokerageStatusActive, b.Status)
		assert.Equal(t, "lakeview-realty", b.Slug)
		assert.Equal(t, "America/Chicago", b.Timezone)
		assert.Len(t, b.GetDomainEvents(), 1)
	})

	t.Run("invalid slug", func(t *testing.T) {
		_, err := NewBrokerage("Lakeview", "Lake View!")
		assert.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewBrokerage("", "lakeview")
		assert.Error(t, err)
	})
}

func TestBrokerageBranding(t *testing.T) {
	b, err := NewBrokerage("Lakeview Realty Group", "lakeview-realty")
	require.NoError(t, err)

	err = b.SetBranding(Branding{LogoURL: "https://cdn.example.com/logo.png", PrimaryColor: "#1A73E8"})
	require.NoError(t, err)
	assert.Equal(t, "#1A73E8", b.Branding.PrimaryColor)

	err = b.SetBranding(Branding{PrimaryColor: "blue"})
	assert.Error(t, err)
}

func TestBrokerageTimezone(t *testing.T) {
	b, err := NewBrokerage("Lakeview Realty Group", "lakeview-realty")
	require.NoError(t, err)

	require.NoError(t, b.SetTimezone("America/Denver"))
	assert.Equal(t, "America/Denver", b.Location().String())

	assert.Error(t, b.SetTimezone("Mars/Olympus"))
}

func TestBrokerageSuspend(t *testing.T) {
	b, err := NewBrokerage("Lakeview Realty Group", "lakeview-realty")
	require.NoError(t, err)

	require.NoError(t, b.Suspend())
	assert.False(t, b.IsActive())
	assert.Error(t, b.Suspend())

	require.NoError(t, b.Activate())
	assert.True(t, b.IsActive())
}
