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

// ReviewHandler handles review sync and listing.
type ReviewHandler struct {
	reviews core.ReviewService
	logger  *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews core.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: logger}
}

func (h *ReviewHandler) mapReviewErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrBusinessInfoMissing):
		c.JSON(http.StatusConflict, ErrorResponse{Error: core.ErrBusinessInfoMissing.Error()})
	case errors.Is(err, core.ErrBranchNotFound), errors.Is(err, core.ErrPlaceNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrReviewsUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: core.ErrReviewsUnavailable.Error()})
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
	default:
		h.logger.Error("Review request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// SyncReviews handles POST /reviews/sync.
func (h *ReviewHandler) SyncReviews(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	var req models.SyncReviewsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
			return
		}
	}
	summary, err := h.reviews.Sync(c.Request.Context(), sess.UID, req.Branch)
	if err != nil {
		h.mapReviewErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListReviews handles GET /reviews.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	reviews, err := h.reviews.List(c.Request.Context(), sess.UID)
	if err != nil {
		h.mapReviewErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
