package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/creative-rift/arkultur-backend/internal/application"
	"github.com/creative-rift/arkultur-backend/internal/authz"
	"github.com/creative-rift/arkultur-backend/internal/container"
	handlers "github.com/creative-rift/arkultur-backend/internal/interface/http"
	"github.com/creative-rift/arkultur-backend/internal/interface/middleware"
)

// AccountModule wires account CRUD.
// Public: POST /api/register
// Protected: /api/accounts/:id, GET /api/profile
// Admin only: POST /api/admins
type AccountModule struct {
	Handler *handlers.AccountHandler
	Auth    *application.AuthService
}

func NewAccountModule(h *handlers.AccountHandler, auth *application.AuthService) *AccountModule {
	return &AccountModule{Handler: h, Auth: auth}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	rg.POST("/register", registerLimiter, m.Handler.Register)

	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.Auth))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByAccount()),
	)
	{
		auth.GET("/profile", m.Handler.Me)
		auth.GET("/accounts/:id", m.Handler.Get)
		auth.PUT("/accounts/:id", m.Handler.Update)
		auth.DELETE("/accounts/:id", m.Handler.Delete)

		admin := auth.Group("/")
		admin.Use(middleware.Authorize(authz.IsAdmin()))
		admin.POST("/admins", m.Handler.CreateAdmin)
	}
}
