package helpers

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	plain, hash, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, plain, 64)
	_, err = hex.DecodeString(plain)
	assert.NoError(t, err)

	assert.NotEqual(t, plain, hash)
	assert.Equal(t, HashResetToken(plain), hash)
}

func TestNewResetTokenUnique(t *testing.T) {
	a, _, err := NewResetToken()
	require.NoError(t, err)
	b, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestMatchResetToken(t *testing.T) {
	plain, hash, err := NewResetToken()
	require.NoError(t, err)

	assert.True(t, MatchResetToken(plain, hash))
	assert.False(t, MatchResetToken(plain+"0", hash))
	assert.False(t, MatchResetToken("", hash))
}
