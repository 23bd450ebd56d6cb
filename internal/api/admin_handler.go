package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/core"
	"reviewdesk-backend-go/internal/models"
)

const defaultUserListLimit = 100

// AdminHandler handles user administration.
type AdminHandler struct {
	admin  core.AdminService
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin core.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

func (h *AdminHandler) mapAdminErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found", Details: err.Error()})
	case errors.Is(err, core.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid account status", Details: err.Error()})
	default:
		h.logger.Error("Admin request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// ListUsers handles GET /admin/users?limit=.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit := defaultUserListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	users, err := h.admin.ListUsers(c.Request.Context(), limit)
	if err != nil {
		h.mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		h.mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SetStatus handles PUT /admin/users/:uid/status.
func (h *AdminHandler) SetStatus(c *gin.Context) {
	var req models.UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	user, err := h.admin.SetStatus(c.Request.Context(), c.Param("uid"), req.Status)
	if err != nil {
		h.mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetSubscription handles PUT /admin/users/:uid/subscription.
func (h *AdminHandler) SetSubscription(c *gin.Context) {
	var req models.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	user, state, err := h.admin.SetSubscription(c.Request.Context(), c.Param("uid"), req)
	if err != nil {
		h.mapAdminErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SubscriptionResponse{User: user, State: string(state)})
}
