// Package authz evaluates access-control policies. Predicates are pure
// functions over an authenticated identity and the request being made;
// denial is the default and access is granted only when the composed
// predicate evaluates true.
package authz

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
)

// Identity is the resolved {account id, role} pair produced by
// authentication or bearer-token resolution.
type Identity struct {
	AccountID string
	Role      entity.Role
}

// Request carries what is being attempted: the HTTP method kind and,
// for object-level checks, the target resource.
type Request struct {
	Method   string
	Resource any
}

// Owned is implemented by every resource kind that participates in
// ownership checks. The method resolves the (possibly multi-hop)
// reference chain back to the owning account.
type Owned interface {
	OwnerAccountID() string
}

// Predicate reports whether the identity may proceed with the request.
// A nil identity means the request is unauthenticated.
type Predicate func(id *Identity, req Request) bool

func And(ps ...Predicate) Predicate {
	return func(id *Identity, req Request) bool {
		for _, p := range ps {
			if !p(id, req) {
				return false
			}
		}
		return true
	}
}

func Or(ps ...Predicate) Predicate {
	return func(id *Identity, req Request) bool {
		for _, p := range ps {
			if p(id, req) {
				return true
			}
		}
		return false
	}
}

func Not(p Predicate) Predicate {
	return func(id *Identity, req Request) bool {
		return !p(id, req)
	}
}

// Authenticated passes for any resolved identity.
func Authenticated() Predicate {
	return func(id *Identity, _ Request) bool {
		return id != nil
	}
}

// HasRole compares the identity role to a fixed enum value.
func HasRole(role entity.Role) Predicate {
	return func(id *Identity, _ Request) bool {
		return id != nil && id.Role == role
	}
}

func IsAdmin() Predicate    { return HasRole(entity.RoleAdmin) }
func IsCustomer() Predicate { return HasRole(entity.RoleCustomer) }

// IsOwner grants access when the resource's ownership chain resolves to
// the identity's account. Resource kinds outside the Owned set are a
// wiring mistake: they are denied and logged as configuration errors,
// never silently allowed.
func IsOwner(logger *logrus.Logger) Predicate {
	return func(id *Identity, req Request) bool {
		if id == nil || req.Resource == nil {
			return false
		}
		owned, ok := req.Resource.(Owned)
		if !ok {
			if logger != nil {
				logger.WithField("resource_type", fmt.Sprintf("%T", req.Resource)).
					Error("ownership check reached an unrecognized resource type")
			}
			return false
		}
		return owned.OwnerAccountID() == id.AccountID
	}
}

func methodOnly(allowed ...string) Predicate {
	return func(_ *Identity, req Request) bool {
		for _, m := range allowed {
			if req.Method == m {
				return true
			}
		}
		return false
	}
}

// ReadOnly, PostOnly and DeleteOnly gate on the operation kind
// regardless of identity, for public-but-write-restricted routes.
func ReadOnly() Predicate   { return methodOnly(http.MethodGet) }
func PostOnly() Predicate   { return methodOnly(http.MethodPost) }
func DeleteOnly() Predicate { return methodOnly(http.MethodDelete) }

// Allow evaluates a policy for an object-level check.
func Allow(p Predicate, id *Identity, method string, resource any) bool {
	return p(id, Request{Method: method, Resource: resource})
}
