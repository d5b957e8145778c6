package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/creative-rift/arkultur-backend/internal/application"
	"github.com/creative-rift/arkultur-backend/internal/container"
	handlers "github.com/creative-rift/arkultur-backend/internal/interface/http"
	"github.com/creative-rift/arkultur-backend/internal/interface/middleware"
)

// AuthModule wires the session and lifecycle token routes.
// Public: POST /api/login, PUT+POST /api/confirm, PUT+POST /api/reset
// Protected: GET /api/logout, POST /api/2fa
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    *application.AuthService
}

func NewAuthModule(h *handlers.AuthHandler, auth *application.AuthService) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	confirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath())
	resetLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.PUT("/confirm", confirmLimiter, m.Handler.ConfirmResend)
	rg.POST("/confirm", confirmLimiter, m.Handler.Confirm)
	rg.PUT("/reset", resetLimiter, m.Handler.ResetRequest)
	rg.POST("/reset", confirmLimiter, m.Handler.ResetComplete)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.Auth))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByAccount()))
	{
		auth.GET("/logout", m.Handler.Logout)
		auth.POST("/2fa", m.Handler.TwoFactor)
	}
}
