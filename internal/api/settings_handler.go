package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/core"
)

// SettingsHandler serves site content documents.
type SettingsHandler struct {
	settings core.SettingsService
	logger   *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings core.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

func (h *SettingsHandler) mapSettingsErrorToStatus(c *gin.Context, err error) {
	if errors.Is(err, core.ErrUnknownSettings) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrUnknownSettings.Error(), Details: c.Param("name")})
		return
	}
	h.logger.Error("Settings request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
}

// GetSettings handles the public GET /public/settings/:name.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	doc, err := h.settings.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.mapSettingsErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetHome handles the public GET /public/home.
func (h *SettingsHandler) GetHome(c *gin.Context) {
	home, err := h.settings.Home(c.Request.Context())
	if err != nil {
		h.mapSettingsErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, home)
}

// UpdateSettings handles PUT /admin/settings/:name with a partial document.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil || len(patch) == 0 {
		details := "empty document"
		if err != nil {
			details = err.Error()
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: details})
		return
	}
	doc, err := h.settings.Update(c.Request.Context(), c.Param("name"), patch)
	if err != nil {
		h.mapSettingsErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ResetSettings handles DELETE /admin/settings/:name.
func (h *SettingsHandler) ResetSettings(c *gin.Context) {
	if err := h.settings.Reset(c.Request.Context(), c.Param("name")); err != nil {
		h.mapSettingsErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
