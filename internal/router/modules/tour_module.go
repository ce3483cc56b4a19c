package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/natoursapp/natours-api/internal/application"
	"github.com/natoursapp/natours-api/internal/container"
	"github.com/natoursapp/natours-api/internal/domain/entity"
	handlers "github.com/natoursapp/natours-api/internal/interface/http"
	"github.com/natoursapp/natours-api/internal/interface/middleware"
)

// TourModule wires the tour catalogue.
// Public: GET /tours, GET /tours/search, GET /tours/:id
// Restricted: POST /tours (admin, local-guide)
type TourModule struct {
	Handler *handlers.TourHandler
	Auth    *application.AuthService
}

func NewTourModule(h *handlers.TourHandler, auth *application.AuthService) *TourModule {
	return &TourModule{Handler: h, Auth: auth}
}

func (m *TourModule) Register(rg *gin.RouterGroup) {
	listLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP())

	rg.GET("/tours", listLimiter, m.Handler.List)
	rg.GET("/tours/search", listLimiter, m.Handler.Search)
	rg.GET("/tours/:id", listLimiter, m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.Protect(m.Auth))
	auth.Use(middleware.RestrictTo(entity.RoleAdmin, entity.RoleLocalGuide))
	{
		auth.POST("/tours", m.Handler.Create)
	}
}
