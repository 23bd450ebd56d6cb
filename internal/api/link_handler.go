package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/core"
	"reviewdesk-backend-go/internal/middleware"
	"reviewdesk-backend-go/internal/models"
)

// LinkHandler handles sharable review links.
type LinkHandler struct {
	links  core.LinkService
	logger *zap.Logger
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(links core.LinkService, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{links: links, logger: logger}
}

func (h *LinkHandler) mapLinkErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrLinkNotFound.Error()})
	case errors.Is(err, core.ErrLinkExpired), errors.Is(err, core.ErrLinkInactive):
		c.JSON(http.StatusGone, ErrorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
	default:
		h.logger.Error("Link request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CreateLink handles POST /links.
func (h *LinkHandler) CreateLink(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	var req models.CreateLinkRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
			return
		}
	}
	link, err := h.links.Create(c.Request.Context(), sess.UID, time.Duration(req.TTLHours)*time.Hour)
	if err != nil {
		h.mapLinkErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

// ListLinks handles GET /links.
func (h *LinkHandler) ListLinks(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	links, err := h.links.List(c.Request.Context(), sess.UID)
	if err != nil {
		h.mapLinkErrorToStatus(c, err)
		return
	}
	if links == nil {
		links = []*models.SharableLink{}
	}
	c.JSON(http.StatusOK, links)
}

// DeactivateLink handles DELETE /links/:slug.
func (h *LinkHandler) DeactivateLink(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	if err := h.links.Deactivate(c.Request.Context(), sess.UID, c.Param("slug")); err != nil {
		h.mapLinkErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ResolveLink handles the public GET /public/links/:uid/:slug.
func (h *LinkHandler) ResolveLink(c *gin.Context) {
	pub, err := h.links.Resolve(c.Request.Context(), c.Param("uid"), c.Param("slug"))
	if err != nil {
		h.mapLinkErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, pub)
}
