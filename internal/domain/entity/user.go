package entity

import "time"

// Role is the authorization role assigned to a user account.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleGuide      Role = "guide"
	RoleLocalGuide Role = "local-guide"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleGuide, RoleLocalGuide:
		return true
	}
	return false
}

// User is the aggregate root for the user domain.
//
// PasswordHash is a bcrypt digest and is only populated by the
// *WithPassword repository reads; default reads leave it empty so it
// can never leak into a response by accident. The reset-token pair
// holds the sha256 of a pending reset secret and its expiry; at most
// one live reset token exists per user (issuing a new one overwrites).
type User struct {
	ID       string
	Name     string
	Email    string
	Role     Role
	PhotoURL string

	PasswordHash           string
	PasswordChangedAt      *time.Time
	PasswordResetTokenHash string
	PasswordResetExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChangedPasswordAfter reports whether the password was mutated after
// the given token issue time. This is the only session-revocation
// mechanism: any token minted before the last password change is stale.
// Both sides are compared at second precision because JWT iat carries
// whole seconds; a token issued immediately after the change is honored.
func (u *User) ChangedPasswordAfter(iat time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Truncate(time.Second).After(iat.Truncate(time.Second))
}
