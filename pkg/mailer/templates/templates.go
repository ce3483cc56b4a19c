package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
)

//go:embed *.tmpl
var FS embed.FS

var tmpl = htmpl.Must(htmpl.ParseFS(FS, "*.tmpl"))

// ResetPasswordData feeds the password-reset email. ResetURL embeds the
// plaintext secret as its final path segment.
type ResetPasswordData struct {
	Name             string
	AppName          string
	ResetURL         string
	ExpiresInMinutes int
}

// WelcomeData feeds the welcome email sent after sign-up.
type WelcomeData struct {
	Name    string
	AppName string
	Email   string
}

// RenderResetPassword renders subject, plain-text and HTML bodies for
// the reset email.
func RenderResetPassword(d ResetPasswordData) (subject, text, html string, err error) {
	subject = fmt.Sprintf("%s: your password reset token (valid for %d minutes)", d.AppName, d.ExpiresInMinutes)
	text = fmt.Sprintf(
		"Hi %s,\n\nForgot your password? Open the link below to set a new one:\n\n%s\n\nThe link expires in %d minutes. If you didn't request a reset, ignore this email and your password stays unchanged.\n",
		d.Name, d.ResetURL, d.ExpiresInMinutes)
	html, err = render("reset_password.tmpl", d)
	return subject, text, html, err
}

// RenderWelcome renders the welcome email.
func RenderWelcome(d WelcomeData) (subject, text, html string, err error) {
	subject = fmt.Sprintf("Welcome to %s!", d.AppName)
	text = fmt.Sprintf("Hi %s,\n\nWelcome to %s, we're glad to have you. Log in with %s to start exploring tours.\n", d.Name, d.AppName, d.Email)
	html, err = render("welcome.tmpl", d)
	return subject, text, html, err
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
