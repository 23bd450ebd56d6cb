package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/core"
	"reviewdesk-backend-go/internal/db"
	"reviewdesk-backend-go/internal/middleware"
	"reviewdesk-backend-go/internal/models"
)

// CareerHandler handles job openings, applications and applicant replies.
type CareerHandler struct {
	careers core.CareerService
	logger  *zap.Logger
}

// NewCareerHandler creates a new CareerHandler.
func NewCareerHandler(careers core.CareerService, logger *zap.Logger) *CareerHandler {
	return &CareerHandler{careers: careers, logger: logger}
}

func (h *CareerHandler) mapCareerErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrJobNotFound), errors.Is(err, core.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrJobClosed):
		c.JSON(http.StatusConflict, ErrorResponse{Error: core.ErrJobClosed.Error()})
	case errors.Is(err, core.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid application status", Details: err.Error()})
	default:
		h.logger.Error("Career request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// ListOpenJobs handles the public GET /public/jobs.
func (h *CareerHandler) ListOpenJobs(c *gin.Context) {
	jobs, err := h.careers.ListOpenOpenings(c.Request.Context())
	if err != nil {
		h.mapCareerErrorToStatus(c, err)
		return
	}
	if jobs == nil {
		jobs = []*models.JobOpening{}
	}
	c.JSON(http.StatusOK, jobs)
}

// Apply handles the public POST /public/jobs/:jobId/applications.
func (h *CareerHandler) Apply(c *gin.Context) {
	var req models.JobApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	app, err := h.careers.Apply(c.Request.Context(), c.Param("jobId"), req)
	if err != nil {
		h.mapCareerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// ListAllJobs handles GET /admin/jobs.
func (h *CareerHandler) ListAllJobs(c *gin.Context) {
	jobs, err := h.careers.ListAllOpenings(c.Request.Context())
	if err != nil {
		h.mapCareerErrorToStatus(c, err)
		return
	}
	if jobs == nil {
		jobs = []*models.JobOpening{}
	}
	c.JSON(http.StatusOK, jobs)
}

// CreateJob handles POST /admin/jobs.
func (h *CareerHandler) CreateJob(c *gin.Context) {
	var req models.JobOpeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	job, err := h.careers.CreateOpening(c.Request.Context(), req)
	if err != nil {
		h.mapCareerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateJob handles PUT /admin/jobs/:jobId.
func (h *CareerHandler) UpdateJob(c *gin.Context) {
	var req models.JobOpeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	job, err := h.careers.UpdateOpening(c.Request.Context(), c.Param("jobId"), req)
	if err != nil {
		h.mapCareerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DeleteJob handles DELETE /admin/jobs/:jobId.
func (h *CareerHandler) DeleteJob(c *gin.Context) {
	if err := h.careers.DeleteOpening(c.Request.Context(), c.Param("jobId")); err != nil {
		h.mapCareerErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListApplications handles GET /admin/applications?jobId=&status=.
func (h *CareerHandler) ListApplications(c *gin.Context) {
	apps, err := h.careers.ListApplications(c.Request.Context(), db.ApplicationFilter{
		JobID:  c.Query("jobId"),
		Status: c.Query("status"),
	})
	if err != nil {
		h.mapCareerErrorToStatus(c, err)
		return
	}
	if apps == nil {
		apps = []*models.JobApplication{}
	}
	c.JSON(http.StatusOK, apps)
}

// UpdateApplicationStatus handles PUT /admin/applications/:id/status.
func (h *CareerHandler) UpdateApplicationStatus(c *gin.Context) {
	var req models.ApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	app, err := h.careers.UpdateApplicationStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.mapCareerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Reply handles POST /admin/applications/:id/replies.
func (h *CareerHandler) Reply(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	var req models.EmailReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	sentBy := sess.Email
	if sentBy == "" {
		sentBy = sess.UID
	}
	reply, err := h.careers.Reply(c.Request.Context(), c.Param("id"), req, sentBy)
	if err != nil {
		h.mapCareerErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

// ListReplies handles GET /admin/applications/:id/replies.
func (h *CareerHandler) ListReplies(c *gin.Context) {
	replies, err := h.careers.ListReplies(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.mapCareerErrorToStatus(c, err)
		return
	}
	if replies == nil {
		replies = []*models.EmailReply{}
	}
	c.JSON(http.StatusOK, replies)
}
