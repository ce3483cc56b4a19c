package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChangedPasswordAfter(t *testing.T) {
	iat := time.Date(2026, 1, 2, 12, 0, 10, 0, time.UTC)

	t.Run("never changed", func(t *testing.T) {
		u := &User{}
		assert.False(t, u.ChangedPasswordAfter(iat))
	})

	t.Run("changed before issue", func(t *testing.T) {
		at := iat.Add(-time.Minute)
		u := &User{PasswordChangedAt: &at}
		assert.False(t, u.ChangedPasswordAfter(iat))
	})

	t.Run("changed after issue", func(t *testing.T) {
		at := iat.Add(time.Minute)
		u := &User{PasswordChangedAt: &at}
		assert.True(t, u.ChangedPasswordAfter(iat))
	})

	// Sub-second skew within the issue second does not revoke the token.
	t.Run("same second", func(t *testing.T) {
		at := iat.Add(900 * time.Millisecond)
		u := &User{PasswordChangedAt: &at}
		assert.False(t, u.ChangedPasswordAfter(iat))
	})
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleUser, RoleGuide, RoleLocalGuide} {
		assert.True(t, r.Valid())
	}
	assert.False(t, Role("superadmin").Valid())
	assert.False(t, Role("").Valid())
}
