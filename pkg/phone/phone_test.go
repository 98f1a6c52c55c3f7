package phone_test

import (
	"testing"

	"github.com/Behyna/whatsapp-relay/pkg/phone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToStorage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"strips country prefix", "5521999998888", "21999998888"},
		{"keeps unprefixed number", "21999998888", "21999998888"},
		{"drops formatting", "+55 (21) 99999-8888", "21999998888"},
		{"bare prefix is kept", "55", "55"},
		{"empty input", "", ""},
		{"garbage input yields digits only", "abc12x3", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, phone.ToStorage(tt.raw))
		})
	}
}

func TestToGateway(t *testing.T) {
	assert.Equal(t, "5521999998888", phone.ToGateway("21999998888"))
	assert.Equal(t, "5521999998888", phone.ToGateway("5521999998888"))
	assert.Equal(t, "5521999998888", phone.ToGateway("+55 21 99999-8888"))
}

func TestStorageGatewayRoundTrip(t *testing.T) {
	inputs := []string{
		"2199998888",
		"21999998888",
		"552199998888",
		"5521999998888",
		"+55 (11) 98765-4321",
	}

	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, phone.ToStorage(raw), phone.ToStorage(phone.ToGateway(raw)))
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"219999888", false},
		{"2199998888", true},
		{"21999998888", true},
		{"552199998888", true},
		{"5521999998888", true},
		{"112199998888", false},
		{"1121999998888", false},
		{"55219999988889", false},
		{"+55 (21) 99999-8888", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, phone.IsValid(tt.raw))
		})
	}
}

func TestExtractParts(t *testing.T) {
	t.Run("valid mobile number", func(t *testing.T) {
		parts, ok := phone.ExtractParts("5521999998888")

		require.True(t, ok)
		assert.Equal(t, "55", parts.CountryCode)
		assert.Equal(t, "21", parts.AreaCode)
		assert.Equal(t, "999998888", parts.LocalNumber)
		assert.Equal(t, "21999998888", parts.Storage)
		assert.Equal(t, "5521999998888", parts.Gateway)
		assert.Equal(t, "+55 (21) 99999-8888", parts.Display)
	})

	t.Run("valid landline without prefix", func(t *testing.T) {
		parts, ok := phone.ExtractParts("1133334444")

		require.True(t, ok)
		assert.Equal(t, "11", parts.AreaCode)
		assert.Equal(t, "33334444", parts.LocalNumber)
		assert.Equal(t, "+55 (11) 33334-444", parts.Display)
	})

	t.Run("invalid number", func(t *testing.T) {
		_, ok := phone.ExtractParts("123")
		assert.False(t, ok)
	})
}
