package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	before := time.Now()
	token, exp, err := m.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, before.Add(time.Hour), exp, 2*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	require.NotNil(t, claims.IssuedAt)
	assert.False(t, claims.IssuedAt.Time.After(time.Now()))
}

func TestJWTParseFailures(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, _, err := m.Generate("user-123")
	require.NoError(t, err)

	t.Run("tampered signature", func(t *testing.T) {
		bad := token[:len(token)-2] + "xx"
		_, err := m.Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("another-secret", time.Hour)
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewJWTManager("test-secret", -time.Minute)
		expired, _, err := past.Generate("user-123")
		require.NoError(t, err)
		_, err = m.Parse(expired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty uid", func(t *testing.T) {
		anon, _, err := m.Generate("")
		require.NoError(t, err)
		_, err = m.Parse(anon)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
