package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/core"
	"reviewdesk-backend-go/internal/middleware"
	"reviewdesk-backend-go/internal/models"
)

// UserHandler handles the caller's own profile.
type UserHandler struct {
	accounts core.AccountService
	logger   *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(accounts core.AccountService, logger *zap.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, logger: logger}
}

func (h *UserHandler) mapUserErrorToStatus(c *gin.Context, err error) {
	if errors.Is(err, core.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
		return
	}
	h.logger.Error("User request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
}

// GetCurrentUserProfile handles GET /me.
func (h *UserHandler) GetCurrentUserProfile(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	user, err := h.accounts.Profile(c.Request.Context(), sess.UID)
	if err != nil {
		h.mapUserErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetRoute handles GET /me/route.
func (h *UserHandler) GetRoute(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	dest, err := h.accounts.Route(c.Request.Context(), sess.UID)
	if err != nil {
		h.mapUserErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": dest})
}

// SubmitBusinessInfo handles PUT /me/business.
func (h *UserHandler) SubmitBusinessInfo(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	var req models.BusinessInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	user, err := h.accounts.SubmitBusinessInfo(c.Request.Context(), sess.UID, req)
	if err != nil {
		h.mapUserErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
