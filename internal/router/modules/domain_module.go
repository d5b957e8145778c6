package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/creative-rift/arkultur-backend/internal/application"
	"github.com/creative-rift/arkultur-backend/internal/container"
	handlers "github.com/creative-rift/arkultur-backend/internal/interface/http"
	"github.com/creative-rift/arkultur-backend/internal/interface/middleware"
)

// DomainModule wires address and node routes. All of them require a
// bearer token; object-level ownership is checked in the handlers.
type DomainModule struct {
	Handler *handlers.DomainHandler
	Auth    *application.AuthService
}

func NewDomainModule(h *handlers.DomainHandler, auth *application.AuthService) *DomainModule {
	return &DomainModule{Handler: h, Auth: auth}
}

func (m *DomainModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.Auth))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByAccount()))
	{
		auth.POST("/addresses", m.Handler.CreateAddress)
		auth.GET("/addresses", m.Handler.ListAddresses)
		auth.GET("/addresses/:id", m.Handler.GetAddress)
		auth.PUT("/addresses/:id", m.Handler.UpdateAddress)
		auth.DELETE("/addresses/:id", m.Handler.DeleteAddress)
		auth.GET("/addresses/:id/nodes", m.Handler.ListNodes)

		auth.POST("/nodes", m.Handler.CreateNode)
		auth.GET("/nodes/:id", m.Handler.GetNode)
		auth.PUT("/nodes/:id", m.Handler.UpdateNode)
		auth.DELETE("/nodes/:id", m.Handler.DeleteNode)
	}
}
