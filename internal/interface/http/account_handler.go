package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/creative-rift/arkultur-backend/internal/application"
	"github.com/creative-rift/arkultur-backend/internal/authz"
	"github.com/creative-rift/arkultur-backend/internal/domain/repository"
	"github.com/creative-rift/arkultur-backend/internal/interface/middleware"
	"github.com/creative-rift/arkultur-backend/pkg/response"
	"github.com/creative-rift/arkultur-backend/pkg/validation"
)

type AccountHandler struct {
	Svc      *application.AccountService
	Accounts repository.AccountRepository
	Logger   *logrus.Logger

	// Policy for object-level account access: admins or the owner.
	policy authz.Predicate
}

func NewAccountHandler(svc *application.AccountService, accounts repository.AccountRepository, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{
		Svc:      svc,
		Accounts: accounts,
		Logger:   logger,
		policy:   authz.And(authz.Authenticated(), authz.Or(authz.IsAdmin(), authz.IsOwner(logger))),
	}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"omitempty,max=150"`
	LastName  string `json:"last_name" binding:"omitempty,max=150"`
	Password  string `json:"password" binding:"required,pwd"`
	Phone     string `json:"phone" binding:"omitempty,phone"`
}

// Register POST /api/register — public customer registration. The new
// account stays disabled until its confirmation token is consumed.
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	account, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Phone:     req.Phone,
	})
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusCreated, accountJSON(account), "account created; confirmation email sent", nil)
}

type createAdminRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"omitempty,max=150"`
	LastName  string `json:"last_name" binding:"omitempty,max=150"`
	Password  string `json:"password" binding:"required,pwd"`
}

// CreateAdmin POST /api/admins (admin only) — provisions an active
// admin account.
func (h *AccountHandler) CreateAdmin(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	account, err := h.Svc.CreateAdmin(c.Request.Context(), application.AdminInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusCreated, accountJSON(account), "admin created", nil)
}

// loadAuthorized fetches the target account and runs the object-level
// policy against it. Writes the response on failure.
func (h *AccountHandler) loadAuthorized(c *gin.Context) (*gin.H, bool) {
	account, err := h.Accounts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "account not found", nil)
		return nil, false
	}
	if !authz.Allow(h.policy, middleware.IdentityFrom(c), c.Request.Method, account) {
		response.Error[any](c, http.StatusForbidden, "permission denied", nil)
		return nil, false
	}
	out := accountJSON(account)
	return &out, true
}

// Get GET /api/accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	out, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, *out, "account", nil)
}

type updateAccountRequest struct {
	Email     string `json:"email" binding:"omitempty,email"`
	Username  string `json:"username" binding:"omitempty,max=150"`
	FirstName string `json:"first_name" binding:"omitempty,max=150"`
	LastName  string `json:"last_name" binding:"omitempty,max=150"`
	Password  string `json:"password" binding:"omitempty,pwd"`
	Phone     string `json:"phone" binding:"omitempty,phone"`
}

// Update PUT /api/accounts/:id — an empty password field keeps the
// current one; role is not patchable.
func (h *AccountHandler) Update(c *gin.Context) {
	if _, ok := h.loadAuthorized(c); !ok {
		return
	}

	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	account, err := h.Svc.UpdateAccount(c.Request.Context(), c.Param("id"), application.UpdateAccountInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Phone:     req.Phone,
	})
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, accountJSON(account), "account updated", nil)
}

// Delete DELETE /api/accounts/:id — removes the account and everything
// that hangs off it.
func (h *AccountHandler) Delete(c *gin.Context) {
	if _, ok := h.loadAuthorized(c); !ok {
		return
	}

	if err := h.Svc.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "account deleted", nil)
}

// Me GET /api/profile — the current account.
func (h *AccountHandler) Me(c *gin.Context) {
	account, err := h.Accounts.GetByID(c.Request.Context(), c.GetString(middleware.CtxAccountIDKey))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "account not found", nil)
		return
	}
	response.Success(c, http.StatusOK, accountJSON(account), "profile", nil)
}
