package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pass1234", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "pass1234", hash)
	assert.True(t, CheckPassword(hash, "pass1234"))
	assert.False(t, CheckPassword(hash, "pass12345"))
	assert.False(t, CheckPassword(hash, ""))
}

func TestHashPasswordCostFallback(t *testing.T) {
	hash, err := HashPassword("pass1234", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("pass1234", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("pass1234", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
