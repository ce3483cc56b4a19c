package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/natoursapp/natours-api/internal/application"
	"github.com/natoursapp/natours-api/internal/container"
	handlers "github.com/natoursapp/natours-api/internal/interface/http"
	"github.com/natoursapp/natours-api/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Svc     *application.AuthService
}

func NewAuthModule(h *handlers.AuthHandler, svc *application.AuthService) *AuthModule {
	return &AuthModule{Handler: h, Svc: svc}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath())
	forgotLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath())
	resetLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/auth/signup", loginLimiter, m.Handler.SignUp)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	rg.PATCH("/auth/reset-password/:token", resetLimiter, m.Handler.ResetPassword)

	// Password change requires a live session
	auth := rg.Group("/")
	auth.Use(middleware.Protect(m.Svc))
	auth.Use(middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUserID()))
	{
		auth.PATCH("/auth/update-password", m.Handler.UpdatePassword)
	}
}
