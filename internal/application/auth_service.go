package application

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/natoursapp/natours-api/config"
	"github.com/natoursapp/natours-api/internal/domain/entity"
	"github.com/natoursapp/natours-api/internal/domain/repository"
	"github.com/natoursapp/natours-api/pkg/helpers"
	"github.com/natoursapp/natours-api/pkg/mailer"
	tpl "github.com/natoursapp/natours-api/pkg/mailer/templates"
)

const minPasswordLen = 8

// AuthService orchestrates sign-up, login, session resolution and the
// password lifecycle. It is transport-free: every operation returns
// domain values and a typed error, never an HTTP response.
type AuthService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Mail   mailer.Notifier
	Queue  *helpers.RabbitPublisher
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, mail mailer.Notifier, queue *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Mail: mail, Queue: queue, Logger: logger, Cfg: cfg}
}

type SignUpInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// NormalizeEmail lowers and trims an address so storage and comparison
// are consistent.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password, confirm string) *ValidationError {
	if len(password) < minPasswordLen {
		return newValidationError("password", "min length 8")
	}
	// Explicit two-argument confirmation check; the confirm value is
	// transient input and never reaches the entity.
	if password != confirm {
		return newValidationError("password_confirm", "must match password")
	}
	return nil
}

// SignUp creates a user with the default role and returns it together
// with a fresh session token.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*entity.User, string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, "", newValidationError("name", "is required")
	}
	email := NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", newValidationError("email", "must be a valid email")
	}
	if verr := validatePassword(in.Password, in.PasswordConfirm); verr != nil {
		return nil, "", verr
	}

	hash, err := helpers.HashPassword(in.Password, s.Cfg.BcryptCost)
	if err != nil {
		return nil, "", err
	}

	// Role is never taken from input; everyone starts as a regular user
	// and elevation happens out of band.
	u := &entity.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Role:         entity.RoleUser,
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", newValidationError("email", "already registered")
		}
		return nil, "", err
	}

	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}

	s.enqueueWelcomeEmail(ctx, u)

	u.PasswordHash = ""
	return u, token, nil
}

// Login verifies credentials and issues a session token. Unknown email
// and wrong password yield the identical error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}
	u, err := s.Repo.GetByEmailWithPassword(ctx, NormalizeEmail(email))
	if err != nil || u == nil {
		return nil, "", ErrInvalidCredentials
	}
	if !helpers.CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}
	u.PasswordHash = ""
	return u, token, nil
}

// ResolveToken verifies a bearer token and returns the live user behind
// it. Every failure collapses into ErrUnauthenticated: forged, expired,
// user deleted, or password changed after the token was issued.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return nil, ErrUnauthenticated
	}
	if u.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, ErrUnauthenticated
	}
	return u, nil
}

// ForgotPassword issues a reset token, persists only its hash with an
// expiry, and emails the plaintext secret as part of a reset link. If
// the email cannot be delivered the token fields are cleared again so
// no live, undelivered token stays behind.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil || u == nil {
		return ErrNotFound
	}

	plain, hash, err := helpers.NewResetToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(s.Cfg.ResetTokenTTL)
	if err := s.Repo.SetResetToken(ctx, u.ID, hash, expiresAt); err != nil {
		return err
	}

	resetURL := strings.TrimRight(s.Cfg.ResetPasswordURL, "/") + "/" + plain
	subject, text, html, err := tpl.RenderResetPassword(tpl.ResetPasswordData{
		Name:             u.Name,
		AppName:          s.Cfg.AppName,
		ResetURL:         resetURL,
		ExpiresInMinutes: int(s.Cfg.ResetTokenTTL.Minutes()),
	})
	if err == nil {
		err = s.Mail.Send(ctx, u.Email, subject, text, html)
	}
	if err != nil {
		// Compensate: a token nobody received must not stay live.
		if clearErr := s.Repo.ClearResetToken(ctx, u.ID); clearErr != nil && s.Logger != nil {
			s.Logger.WithError(clearErr).WithField("user_id", u.ID).Error("failed to clear undelivered reset token")
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("reset email delivery failed")
		}
		return ErrEmailDelivery
	}
	return nil
}

// ResetPassword consumes a reset secret. On success the password is
// replaced through the single SetPassword entry point (which also
// stamps the change time and clears the reset fields) and a fresh
// session token is issued; all older sessions become stale.
func (s *AuthService) ResetPassword(ctx context.Context, plainToken, password, passwordConfirm string) (*entity.User, string, error) {
	if verr := validatePassword(password, passwordConfirm); verr != nil {
		return nil, "", verr
	}
	u, err := s.Repo.GetByResetTokenHash(ctx, helpers.HashResetToken(plainToken), time.Now())
	if err != nil || u == nil {
		return nil, "", ErrInvalidOrExpiredToken
	}

	hash, err := helpers.HashPassword(password, s.Cfg.BcryptCost)
	if err != nil {
		return nil, "", err
	}
	// The change timestamp lands before the new token's iat; the stale
	// check compares at second precision so this token stays valid.
	if err := s.Repo.SetPassword(ctx, u.ID, hash, time.Now()); err != nil {
		return nil, "", err
	}

	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// UpdatePassword changes the password of an authenticated user after
// re-verifying the current one, and issues a fresh session token.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, password, passwordConfirm string) (string, error) {
	u, err := s.Repo.GetByIDWithPassword(ctx, userID)
	if err != nil || u == nil {
		return "", ErrUnauthenticated
	}
	if !helpers.CheckPassword(u.PasswordHash, current) {
		return "", ErrInvalidCredentials
	}
	if verr := validatePassword(password, passwordConfirm); verr != nil {
		return "", verr
	}

	hash, err := helpers.HashPassword(password, s.Cfg.BcryptCost)
	if err != nil {
		return "", err
	}
	if err := s.Repo.SetPassword(ctx, u.ID, hash, time.Now()); err != nil {
		return "", err
	}

	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *AuthService) enqueueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Queue == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: "welcome",
		Data: map[string]any{
			"Name":    u.Name,
			"Email":   u.Email,
			"AppName": s.Cfg.AppName,
		},
	}
	if err := s.Queue.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to enqueue welcome email")
	}
}
