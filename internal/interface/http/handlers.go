// Package handlers contains the gin HTTP handlers. They translate
// between the wire format and the application services; all policy
// decisions are delegated to the authz engine.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/creative-rift/arkultur-backend/internal/application"
	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
)

// statusFor maps application errors to transport status codes,
// mirroring the split between "no such account" and "bad credentials".
func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrDuplicateIdentity):
		return http.StatusConflict
	case errors.Is(err, application.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrInvalidToken):
		return http.StatusNotFound
	case errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrAlreadyConfirmed),
		errors.Is(err, application.ErrAccountDisabled),
		errors.Is(err, application.ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// accountJSON serializes an account for the API. The password hash and
// one-time tokens never leave the service; superuser/staff are derived
// from the role here rather than stored.
func accountJSON(a *entity.Account) gin.H {
	out := gin.H{
		"id":         a.ID,
		"email":      a.Email,
		"username":   a.Username,
		"first_name": a.FirstName,
		"last_name":  a.LastName,
		"role":       a.Role.String(),
		"disabled":   a.Disabled,
		"superuser":  a.Role.Superuser(),
		"staff":      a.Role.Staff(),
		"created_at": a.CreatedAt,
		"updated_at": a.UpdatedAt,
	}
	if a.Phone != nil {
		out["phone"] = *a.Phone
	}
	if a.TwoFactor != nil {
		out["two_factor"] = gin.H{
			"method":    a.TwoFactor.Method,
			"enabled":   a.TwoFactor.Enabled,
			"issued_at": a.TwoFactor.IssuedAt,
		}
	}
	return out
}

func addressJSON(a *entity.Address) gin.H {
	return gin.H{
		"id":             a.ID,
		"country":        a.Country,
		"country_code":   a.CountryCode,
		"postcode":       a.Postcode,
		"state":          a.State,
		"state_district": a.StateDistrict,
		"city":           a.City,
		"street":         a.Street,
		"street_number":  a.StreetNumber,
		"owner_id":       a.OwnerID,
	}
}

func nodeJSON(n *entity.Node) gin.H {
	return gin.H{
		"id":         n.ID,
		"name":       n.Name,
		"latitude":   n.Latitude,
		"longitude":  n.Longitude,
		"address_id": n.AddressID,
	}
}
