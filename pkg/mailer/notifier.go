package mailer

import "context"

// Notifier is the one-way email side channel consumed by the auth flow.
// Implementations return an error on transport failure so callers can
// compensate (e.g. roll back a just-issued reset token).
type Notifier interface {
	Send(ctx context.Context, to, subject, text, html string) error
}
