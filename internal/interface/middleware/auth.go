package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/creative-rift/arkultur-backend/internal/application"
	"github.com/creative-rift/arkultur-backend/internal/authz"
	"github.com/creative-rift/arkultur-backend/pkg/response"
)

const (
	CtxAccountIDKey = "accountID"
	CtxIdentityKey  = "identity"
)

// BearerAuth resolves the Authorization bearer token to an account and
// stores the authorization identity in the Gin context.
func BearerAuth(auth *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		value, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || value == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}

		account, err := auth.ResolveToken(c.Request.Context(), value)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid bearer token", nil)
			c.Abort()
			return
		}

		c.Set(CtxAccountIDKey, account.ID)
		c.Set(CtxIdentityKey, application.IdentityOf(account))
		c.Next()
	}
}

// IdentityFrom returns the authenticated identity, or nil for anonymous
// requests.
func IdentityFrom(c *gin.Context) *authz.Identity {
	if v, ok := c.Get(CtxIdentityKey); ok {
		if id, ok := v.(*authz.Identity); ok {
			return id
		}
	}
	return nil
}

// Authorize enforces a request-level policy (role and method
// predicates). Object-level ownership checks run in the handlers once
// the resource is loaded.
func Authorize(policy authz.Predicate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !policy(IdentityFrom(c), authz.Request{Method: c.Request.Method}) {
			response.Error[any](c, http.StatusForbidden, "permission denied", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
