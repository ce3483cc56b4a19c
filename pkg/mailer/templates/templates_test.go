package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderResetPassword(t *testing.T) {
	subject, text, html, err := RenderResetPassword(ResetPasswordData{
		Name:             "Jonas",
		AppName:          "natours",
		ResetURL:         "http://localhost:8080/reset-password/abc123",
		ExpiresInMinutes: 10,
	})
	require.NoError(t, err)
	assert.Contains(t, subject, "10 minutes")
	assert.Contains(t, text, "http://localhost:8080/reset-password/abc123")
	assert.Contains(t, html, "http://localhost:8080/reset-password/abc123")
	assert.Contains(t, html, "Jonas")
}

func TestRenderWelcome(t *testing.T) {
	subject, text, html, err := RenderWelcome(WelcomeData{
		Name:    "Jonas",
		AppName: "natours",
		Email:   "jonas@example.com",
	})
	require.NoError(t, err)
	assert.Contains(t, subject, "natours")
	assert.Contains(t, text, "jonas@example.com")
	assert.Contains(t, html, "Jonas")
}
