package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/core"
	"reviewdesk-backend-go/internal/identity"
	"reviewdesk-backend-go/internal/middleware"
	"reviewdesk-backend-go/internal/models"
)

// AuthHandler handles sign-in, sign-out, login history and password reset.
type AuthHandler struct {
	sessions core.SessionService
	accounts core.AccountService
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions core.SessionService, accounts core.AccountService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, accounts: accounts, logger: logger}
}

// mapSessionErrorToStatus maps errors from core.SessionService to HTTP responses.
func mapSessionErrorToStatus(c *gin.Context, logger *zap.Logger, err error) {
	var signInErr *identity.SignInError
	switch {
	case errors.Is(err, core.ErrAccountInactive):
		c.JSON(http.StatusForbidden, middleware.NewDenial(middleware.DenialAccountInactive))
	case errors.Is(err, core.ErrTrialExpired):
		c.JSON(http.StatusForbidden, middleware.NewDenial(middleware.DenialTrialExpired))
	case errors.Is(err, core.ErrSubscriptionExpired):
		c.JSON(http.StatusForbidden, middleware.NewDenial(middleware.DenialSubscriptionExpired))
	case errors.As(err, &signInErr):
		status := http.StatusUnauthorized
		if signInErr.Code == identity.CodeTooManyAttempts {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, ErrorResponse{Error: identity.MessageFor(signInErr.Code)})
	case errors.Is(err, core.ErrInvalidLogin):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid login method", Details: err.Error()})
	case errors.Is(err, core.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrSessionNotFound.Error()})
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
	case errors.Is(err, core.ErrPasswordLoginUnavailable), errors.Is(err, core.ErrMailUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Session request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// Login handles POST /auth/login with email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	res, err := h.sessions.LoginWithPassword(c.Request.Context(), req.Email, req.Password, clientMeta(c))
	if err != nil {
		mapSessionErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateSession handles POST /sessions after a client-side identity-provider sign-in.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	var req models.SessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
			return
		}
	}
	method := req.LoginMethod
	if method == "" {
		method = c.GetString("signInMethod")
	}
	if method == "" {
		method = models.LoginMethodEmail
	}

	res, err := h.sessions.Login(c.Request.Context(), core.LoginInput{
		UID:        sess.UID,
		Email:      sess.Email,
		Method:     method,
		ClientMeta: clientMeta(c),
	})
	if err != nil {
		mapSessionErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteSession handles DELETE /sessions.
func (h *AuthHandler) DeleteSession(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	if err := h.sessions.Logout(c.Request.Context(), sess); err != nil {
		mapSessionErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Signed out"})
}

// History handles GET /sessions/history.
func (h *AuthHandler) History(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	history, err := h.sessions.History(c.Request.Context(), sess.UID)
	if err != nil {
		mapSessionErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// UpdateLocation handles POST /me/location.
func (h *AuthHandler) UpdateLocation(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	var req models.PreciseLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	rec, err := h.sessions.UpdatePreciseLocation(c.Request.Context(), sess, req)
	if err != nil {
		mapSessionErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// PasswordReset handles POST /auth/password-reset. It answers 200 for unknown addresses too.
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	if err := h.accounts.SendPasswordReset(c.Request.Context(), req.Email); err != nil {
		mapSessionErrorToStatus(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "If an account exists for this email, a reset link has been sent."})
}
