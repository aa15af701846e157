package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundtrip(t *testing.T) {
	sealed, err := SealString("secret", "api-token-123")
	require.NoError(t, err)
	require.NotEmpty(t, sealed)

	plain, err := OpenString("secret", sealed)
	require.NoError(t, err)
	assert.Equal(t, "api-token-123", plain)
}

func TestOpenWrongSecret(t *testing.T) {
	sealed, err := SealString("secret", "api-token-123")
	require.NoError(t, err)

	_, err = OpenString("other", sealed)
	assert.Error(t, err)
}

func TestOpenGarbage(t *testing.T) {
	_, err := OpenString("secret", "not base64!!!")
	assert.Error(t, err)

	_, err = OpenString("secret", "AAAA")
	assert.Error(t, err)
}

func TestRandHex(t *testing.T) {
	a, err := RandHex(16)
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := RandHex(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
