package application

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/natoursapp/natours-api/config"
	"github.com/natoursapp/natours-api/internal/domain/entity"
	"github.com/natoursapp/natours-api/internal/domain/repository"
	"github.com/natoursapp/natours-api/pkg/helpers"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) get(id string, withPassword bool) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	if !withPassword {
		cp.PasswordHash = ""
	}
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id, false)
}

func (r *fakeUserRepo) GetByIDWithPassword(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id, true)
}

func (r *fakeUserRepo) findByEmail(email string, withPassword bool) (*entity.User, error) {
	for id, u := range r.users {
		if u.Email == email {
			return r.get(id, withPassword)
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findByEmail(email, false)
}

func (r *fakeUserRepo) GetByEmailWithPassword(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findByEmail(email, true)
}

func (r *fakeUserRepo) GetByResetTokenHash(_ context.Context, hash string, now time.Time) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.PasswordResetTokenHash == hash && u.PasswordResetExpiresAt != nil && u.PasswordResetExpiresAt.After(now) {
			return r.get(id, false)
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, id, hash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordResetTokenHash = hash
	exp := expiresAt
	u.PasswordResetExpiresAt = &exp
	return nil
}

func (r *fakeUserRepo) ClearResetToken(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordResetTokenHash = ""
	u.PasswordResetExpiresAt = nil
	return nil
}

func (r *fakeUserRepo) SetPassword(_ context.Context, id, hash string, changedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	ts := changedAt
	u.PasswordChangedAt = &ts
	u.PasswordResetTokenHash = ""
	u.PasswordResetExpiresAt = nil
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = u.Name
	stored.PhotoURL = u.PhotoURL
	stored.UpdatedAt = time.Now()
	return nil
}

// setChangedAt backdates or forward-dates the stored change stamp so
// staleness can be exercised without sleeping through real seconds.
func (r *fakeUserRepo) setChangedAt(id string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		ts := at
		u.PasswordChangedAt = &ts
	}
}

type sentEmail struct {
	to      string
	subject string
	text    string
	html    string
}

type recordingNotifier struct {
	mu    sync.Mutex
	sends []sentEmail
	fail  bool
}

func (n *recordingNotifier) Send(_ context.Context, to, subject, text, html string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("smtp unreachable")
	}
	n.sends = append(n.sends, sentEmail{to: to, subject: subject, text: text, html: html})
	return nil
}

func (n *recordingNotifier) last() sentEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sends[len(n.sends)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sends)
}

func newTestAuthService(repo *fakeUserRepo, mail *recordingNotifier) *AuthService {
	cfg := &config.Config{
		AppName:          "natours",
		BcryptCost:       bcrypt.MinCost,
		ResetTokenTTL:    10 * time.Minute,
		ResetPasswordURL: "http://localhost:8080/reset-password",
		MailSendEnabled:  false,
	}
	return NewAuthService(repo, helpers.NewJWTManager("test-secret", time.Hour), mail, nil, nil, cfg)
}

func signUp(t *testing.T, s *AuthService, email string) (*entity.User, string) {
	t.Helper()
	u, token, err := s.SignUp(context.Background(), SignUpInput{
		Name:            "Jonas",
		Email:           email,
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	})
	require.NoError(t, err)
	return u, token
}

func TestSignUp(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo, &recordingNotifier{})

	u, token, err := s.SignUp(context.Background(), SignUpInput{
		Name:            "  Jonas  ",
		Email:           "Jonas@Example.COM",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Jonas", u.Name)
	assert.Equal(t, "jonas@example.com", u.Email)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.Empty(t, u.PasswordHash)
	assert.NotEmpty(t, token)

	resolved, err := s.ResolveToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)
}

func TestSignUpValidation(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo, &recordingNotifier{})

	cases := []struct {
		name  string
		in    SignUpInput
		field string
	}{
		{"empty name", SignUpInput{Email: "a@b.co", Password: "pass1234", PasswordConfirm: "pass1234"}, "name"},
		{"bad email", SignUpInput{Name: "A", Email: "nope", Password: "pass1234", PasswordConfirm: "pass1234"}, "email"},
		{"short password", SignUpInput{Name: "A", Email: "a@b.co", Password: "short", PasswordConfirm: "short"}, "password"},
		{"confirm mismatch", SignUpInput{Name: "A", Email: "a@b.co", Password: "pass1234", PasswordConfirm: "pass12345"}, "password_confirm"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := s.SignUp(context.Background(), tc.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo, &recordingNotifier{})

	signUp(t, s, "jonas@example.com")

	_, _, err := s.SignUp(context.Background(), SignUpInput{
		Name:            "Other",
		Email:           "JONAS@example.com",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo, &recordingNotifier{})
	signUp(t, s, "jonas@example.com")

	u, token, err := s.Login(context.Background(), "jonas@example.com", "pass1234")
	require.NoError(t, err)
	assert.Empty(t, u.PasswordHash)
	assert.NotEmpty(t, token)

	t.Run("missing credentials", func(t *testing.T) {
		_, _, err := s.Login(context.Background(), "", "pass1234")
		assert.ErrorIs(t, err, ErrMissingCredentials)
		_, _, err = s.Login(context.Background(), "jonas@example.com", "")
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})

	// Unknown email and wrong password must be indistinguishable.
	t.Run("wrong password", func(t *testing.T) {
		_, _, err := s.Login(context.Background(), "jonas@example.com", "wrongpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
	t.Run("unknown email", func(t *testing.T) {
		_, _, err := s.Login(context.Background(), "nobody@example.com", "pass1234")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestResolveTokenStaleAfterPasswordChange(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo, &recordingNotifier{})
	u, token := signUp(t, s, "jonas@example.com")

	_, err := s.ResolveToken(context.Background(), token)
	require.NoError(t, err)

	// A change stamped after the token's issue second invalidates it.
	repo.setChangedAt(u.ID, time.Now().Add(2*time.Second))
	_, err = s.ResolveToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveTokenFailures(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo, &recordingNotifier{})
	_, token := signUp(t, s, "jonas@example.com")

	t.Run("garbage token", func(t *testing.T) {
		_, err := s.ResolveToken(context.Background(), "garbage")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
	t.Run("deleted user", func(t *testing.T) {
		repo.mu.Lock()
		repo.users = make(map[string]*entity.User)
		repo.mu.Unlock()
		_, err := s.ResolveToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

var resetTokenRe = regexp.MustCompile(`[0-9a-f]{64}`)

func TestForgotAndResetPassword(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &recordingNotifier{}
	s := newTestAuthService(repo, mail)
	u, _ := signUp(t, s, "jonas@example.com")

	require.NoError(t, s.ForgotPassword(context.Background(), "jonas@example.com"))
	require.Equal(t, 1, mail.count())

	sent := mail.last()
	assert.Equal(t, "jonas@example.com", sent.to)
	plain := resetTokenRe.FindString(sent.text)
	require.Len(t, plain, 64)
	assert.Contains(t, sent.text, "http://localhost:8080/reset-password/"+plain)

	// The stored value is the digest, never the plaintext secret.
	stored, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, helpers.HashResetToken(plain), stored.PasswordResetTokenHash)
	assert.NotEqual(t, plain, stored.PasswordResetTokenHash)

	_, token, err := s.ResetPassword(context.Background(), plain, "newpass99", "newpass99")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = s.Login(context.Background(), "jonas@example.com", "pass1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.Login(context.Background(), "jonas@example.com", "newpass99")
	assert.NoError(t, err)

	// Single use: the consumed secret is dead.
	_, _, err = s.ResetPassword(context.Background(), plain, "another99", "another99")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &recordingNotifier{}
	s := newTestAuthService(repo, mail)

	err := s.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, mail.count())
}

func TestForgotPasswordDeliveryFailure(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &recordingNotifier{fail: true}
	s := newTestAuthService(repo, mail)
	u, _ := signUp(t, s, "jonas@example.com")

	err := s.ForgotPassword(context.Background(), "jonas@example.com")
	assert.ErrorIs(t, err, ErrEmailDelivery)

	// The undelivered token must not stay live.
	stored, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.PasswordResetTokenHash)
	assert.Nil(t, stored.PasswordResetExpiresAt)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo, &recordingNotifier{})
	u, _ := signUp(t, s, "jonas@example.com")

	plain, hash, err := helpers.NewResetToken()
	require.NoError(t, err)
	require.NoError(t, repo.SetResetToken(context.Background(), u.ID, hash, time.Now().Add(-time.Minute)))

	_, _, err = s.ResetPassword(context.Background(), plain, "newpass99", "newpass99")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestResetPasswordValidation(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo, &recordingNotifier{})

	_, _, err := s.ResetPassword(context.Background(), "whatever", "short", "short")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")
}

func TestUpdatePassword(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo, &recordingNotifier{})
	u, _ := signUp(t, s, "jonas@example.com")

	t.Run("wrong current password", func(t *testing.T) {
		_, err := s.UpdatePassword(context.Background(), u.ID, "wrongpass", "newpass99", "newpass99")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.UpdatePassword(context.Background(), uuid.NewString(), "pass1234", "newpass99", "newpass99")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	token, err := s.UpdatePassword(context.Background(), u.ID, "pass1234", "newpass99", "newpass99")
	require.NoError(t, err)

	// The token issued alongside the change stays valid.
	resolved, err := s.ResolveToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)

	_, _, err = s.Login(context.Background(), "jonas@example.com", "newpass99")
	assert.NoError(t, err)
}
