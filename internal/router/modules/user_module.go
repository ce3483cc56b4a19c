package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/natoursapp/natours-api/internal/application"
	"github.com/natoursapp/natours-api/internal/container"
	handlers "github.com/natoursapp/natours-api/internal/interface/http"
	"github.com/natoursapp/natours-api/internal/interface/middleware"
)

// UserModule wires the profile routes.
// Protected: GET /users/me, PATCH /users/me, POST /users/me/photo
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    *application.AuthService
}

func NewUserModule(h *handlers.UserHandler, auth *application.AuthService) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Protect(m.Auth))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("/users/me", m.Handler.Me)
		auth.PATCH("/users/me", m.Handler.UpdateMe)
		auth.POST("/users/me/photo", m.Handler.UploadPhoto)
	}
}
