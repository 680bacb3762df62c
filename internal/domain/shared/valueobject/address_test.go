package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("valid address", func(t *testing.T) {
		addr, err := NewAddress("412 Maple Ave", "Austin", "tx", "78704")
		require.NoError(t, err)
		assert.Equal(t, "412 Maple Ave", addr.Street())
		assert.Equal(t, "TX", addr.State())
		assert.Equal(t, "412 Maple Ave, Austin, TX 78704", addr.String())
	})

	t.Run("with unit", func(t *testing.T) {
		addr, err := NewAddress("412 Maple Ave", "Austin", "TX", "78704", WithUnit("2B"))
		require.NoError(t, err)
		assert.Equal(t, "412 Maple Ave Unit 2B", addr.Line1())
	})

	t.Run("zip+4", func(t *testing.T) {
		_, err := NewAddress("412 Maple Ave", "Austin", "TX", "78704-1123")
		assert.NoError(t, err)
	})

	t.Run("missing street", func(t *testing.T) {
		_, err := NewAddress("", "Austin", "TX", "78704")
		assert.Error(t, err)
	})

	t.Run("invalid state code", func(t *testing.T) {
		_, err := NewAddress("412 Maple Ave", "Austin", "XX", "78704")
		assert.Error(t, err)
	})

	t.Run("invalid zip", func(t *testing.T) {
		_, err := NewAddress("412 Maple Ave", "Austin", "TX", "787")
		assert.Error(t, err)
	})
}

func TestAddressJSON(t *testing.T) {
	addr := MustNewAddress("9 Birch Ct", "Denver", "CO", "80211", WithUnit("A"))

	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, addr.Equals(decoded))

	var empty Address
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.True(t, empty.IsEmpty())
}

func TestAddressScan(t *testing.T) {
	addr := MustNewAddress("9 Birch Ct", "Denver", "CO", "80211")
	val, err := addr.Value()
	require.NoError(t, err)

	var scanned Address
	require.NoError(t, scanned.Scan(val))
	assert.True(t, addr.Equals(scanned))

	var fromNil Address
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.IsEmpty())
}

func TestAddressSameCity(t *testing.T) {
	a := MustNewAddress("1 First St", "Austin", "TX", "78701")
	b := MustNewAddress("2 Second St", "austin", "TX", "78704")
	c := MustNewAddress("3 Third St", "Dallas", "TX", "75201")

	assert.True(t, a.SameCity(b))
	assert.False(t, a.SameCity(c))
}
