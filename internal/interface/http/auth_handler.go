package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/creative-rift/arkultur-backend/internal/application"
	"github.com/creative-rift/arkultur-backend/internal/domain/entity"
	"github.com/creative-rift/arkultur-backend/internal/interface/middleware"
	"github.com/creative-rift/arkultur-backend/pkg/response"
	"github.com/creative-rift/arkultur-backend/pkg/validation"
)

type AuthHandler struct {
	Auth     *application.AuthService
	Accounts *application.AccountService
	Logger   *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, accounts *application.AccountService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Accounts: accounts, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "login request requires email and password fields", validation.ToDetails(err))
		return
	}

	account, token, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"token": token, "id": account.ID}, "login successful", nil)
}

// Logout GET /api/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	accountID := c.GetString(middleware.CtxAccountIDKey)
	if err := h.Auth.RevokeToken(c.Request.Context(), accountID); err != nil {
		response.Error[any](c, statusFor(err), "no account matching your token", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "success", nil)
}

type confirmResendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ConfirmResend PUT /api/confirm — requests a (new) confirmation email.
func (h *AuthHandler) ConfirmResend(c *gin.Context) {
	var req confirmResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "no email provided", validation.ToDetails(err))
		return
	}

	id, err := h.Accounts.RequestConfirmation(c.Request.Context(), req.Email)
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id}, "success", nil)
}

type confirmRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

// Confirm POST /api/confirm — activates the account and logs the user
// in, returning a bearer token.
func (h *AuthHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	account, token, err := h.Accounts.ConfirmAccount(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token, "id": account.ID}, "account confirmed", nil)
}

type resetRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetRequest PUT /api/reset — sends the reset email.
func (h *AuthHandler) ResetRequest(c *gin.Context) {
	var req resetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "bad request", validation.ToDetails(err))
		return
	}

	if err := h.Accounts.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		response.Error[any](c, statusFor(err), "no such account. please register", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "email has been sent", nil)
}

type resetCompleteRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

// ResetComplete POST /api/reset — saves the new password. The user has
// to log in again afterwards.
func (h *AuthHandler) ResetComplete(c *gin.Context) {
	var req resetCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Accounts.CompletePasswordReset(c.Request.Context(), req.Token, req.Password); err != nil {
		response.Error[any](c, statusFor(err), "could not find account", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password changed. please log in", nil)
}

type twoFactorRequest struct {
	Method string `json:"method" binding:"required,oneof=phone email app"`
}

// TwoFactor POST /api/2fa (auth required) — stores a second-factor
// enrollment for the current account.
func (h *AuthHandler) TwoFactor(c *gin.Context) {
	var req twoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	accountID := c.GetString(middleware.CtxAccountIDKey)
	cfg, err := h.Accounts.ConfigureTwoFactor(c.Request.Context(), accountID, entity.TwoFactorMethod(req.Method))
	if err != nil {
		response.Error[any](c, statusFor(err), err.Error(), nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"method":    cfg.Method,
		"secret":    cfg.Secret,
		"issued_at": cfg.IssuedAt,
	}, "two-factor configured", nil)
}
