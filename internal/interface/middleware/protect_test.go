package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natoursapp/natours-api/internal/application"
	"github.com/natoursapp/natours-api/internal/domain/entity"
	"github.com/natoursapp/natours-api/pkg/response"
)

type stubResolver struct {
	user *entity.User
}

func (r *stubResolver) ResolveToken(_ context.Context, token string) (*entity.User, error) {
	if token == "valid-token" && r.user != nil {
		return r.user, nil
	}
	return nil, application.ErrUnauthenticated
}

func newProtectedRouter(resolver TokenResolver, roles ...entity.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/", Protect(resolver))
	if len(roles) > 0 {
		grp.Use(RestrictTo(roles...))
	}
	grp.GET("/me", func(c *gin.Context) {
		u := CurrentUser(c)
		response.Success(c, http.StatusOK, gin.H{"id": u.ID}, "ok")
	})
	return r
}

func doGet(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]string{
		"Bearer abc":  "abc",
		"bearer abc":  "abc",
		"Bearer  abc": "abc",
		"Basic abc":   "",
		"Bearer":      "",
		"":            "",
	}
	for header, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			c.Request.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, BearerToken(c), "header %q", header)
	}
}

func TestProtect(t *testing.T) {
	u := &entity.User{ID: "u1", Role: entity.RoleUser}
	r := newProtectedRouter(&stubResolver{user: u})

	t.Run("no header", func(t *testing.T) {
		w := doGet(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := doGet(r, "Bearer bad-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := doGet(r, "Bearer valid-token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"u1"`)
	})
}

func TestRestrictTo(t *testing.T) {
	t.Run("role denied", func(t *testing.T) {
		u := &entity.User{ID: "u1", Role: entity.RoleUser}
		r := newProtectedRouter(&stubResolver{user: u}, entity.RoleAdmin, entity.RoleLocalGuide)
		w := doGet(r, "Bearer valid-token")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("role allowed", func(t *testing.T) {
		u := &entity.User{ID: "a1", Role: entity.RoleAdmin}
		r := newProtectedRouter(&stubResolver{user: u}, entity.RoleAdmin, entity.RoleLocalGuide)
		w := doGet(r, "Bearer valid-token")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
