package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/db"
	"reviewdesk-backend-go/internal/models"
	"reviewdesk-backend-go/pkg/mailer"
)

type careerService struct {
	repo   db.CareerRepository
	mailer Mailer
	logger *zap.Logger
	now    func() time.Time
}

// NewCareerService creates a CareerService. mailer may be nil; replies are then stored undelivered.
func NewCareerService(repo db.CareerRepository, m Mailer, logger *zap.Logger) CareerService {
	return &careerService{repo: repo, mailer: m, logger: logger, now: time.Now}
}

func (s *careerService) ListOpenOpenings(ctx context.Context) ([]*models.JobOpening, error) {
	return s.repo.ListOpenings(ctx, true)
}

func (s *careerService) ListAllOpenings(ctx context.Context) ([]*models.JobOpening, error) {
	return s.repo.ListOpenings(ctx, false)
}

// Apply records an application against an open job. The new application starts pending.
func (s *careerService) Apply(ctx context.Context, jobID string, req models.JobApplicationRequest) (*models.JobApplication, error) {
	opening, err := s.getOpening(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !opening.Active {
		return nil, ErrJobClosed
	}

	now := s.now().UTC()
	app := &models.JobApplication{
		JobID:       opening.ID,
		JobTitle:    opening.Title,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       req.Phone,
		ResumeURL:   req.ResumeURL,
		CoverLetter: req.CoverLetter,
		Status:      models.ApplicationPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	s.logger.Info("Job application received", zap.String("job_id", jobID), zap.String("application_id", app.ID))
	return app, nil
}

func (s *careerService) CreateOpening(ctx context.Context, req models.JobOpeningRequest) (*models.JobOpening, error) {
	now := s.now().UTC()
	opening := &models.JobOpening{CreatedAt: now}
	applyOpeningRequest(opening, req, now)
	if err := s.repo.CreateOpening(ctx, opening); err != nil {
		return nil, err
	}
	return opening, nil
}

func (s *careerService) UpdateOpening(ctx context.Context, id string, req models.JobOpeningRequest) (*models.JobOpening, error) {
	opening, err := s.getOpening(ctx, id)
	if err != nil {
		return nil, err
	}
	applyOpeningRequest(opening, req, s.now().UTC())
	if err := s.repo.UpdateOpening(ctx, opening); err != nil {
		return nil, err
	}
	return opening, nil
}

func (s *careerService) DeleteOpening(ctx context.Context, id string) error {
	if err := s.repo.DeleteOpening(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrJobNotFound
		}
		return err
	}
	return nil
}

func (s *careerService) ListApplications(ctx context.Context, filter db.ApplicationFilter) ([]*models.JobApplication, error) {
	if filter.Status != "" && !models.ValidApplicationStatus(filter.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, filter.Status)
	}
	return s.repo.ListApplications(ctx, filter)
}

func (s *careerService) UpdateApplicationStatus(ctx context.Context, id, status string) (*models.JobApplication, error) {
	if !models.ValidApplicationStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	app.Status = status
	app.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Reply emails the applicant and stores the reply. A delivery failure is recorded on
// the reply rather than returned, so the message is never lost.
func (s *careerService) Reply(ctx context.Context, applicationID string, req models.EmailReplyRequest, sentBy string) (*models.EmailReply, error) {
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	reply := &models.EmailReply{
		ApplicationID: app.ID,
		To:            app.Email,
		Subject:       req.Subject,
		Body:          req.Body,
		SentBy:        sentBy,
		SentAt:        now,
	}

	if s.mailer == nil {
		s.logger.Warn("Mailer not configured, storing reply without delivery", zap.String("application_id", app.ID))
	} else if err := s.mailer.Send(ctx, mailer.Message{To: app.Email, Subject: req.Subject, Body: req.Body}); err != nil {
		s.logger.Error("Failed to deliver applicant reply", zap.String("application_id", app.ID), zap.Error(err))
	} else {
		reply.Delivered = true
	}

	if err := s.repo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}

	if app.Status == models.ApplicationPending {
		app.Status = models.ApplicationReviewed
		app.UpdatedAt = now
		if err := s.repo.UpdateApplication(ctx, app); err != nil {
			s.logger.Warn("Failed to mark application reviewed", zap.String("application_id", app.ID), zap.Error(err))
		}
	}
	return reply, nil
}

func (s *careerService) ListReplies(ctx context.Context, applicationID string) ([]*models.EmailReply, error) {
	if _, err := s.getApplication(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.repo.ListReplies(ctx, applicationID)
}

func (s *careerService) getOpening(ctx context.Context, id string) (*models.JobOpening, error) {
	opening, err := s.repo.GetOpening(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return opening, nil
}

func (s *careerService) getApplication(ctx context.Context, id string) (*models.JobApplication, error) {
	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func applyOpeningRequest(o *models.JobOpening, req models.JobOpeningRequest, now time.Time) {
	o.Title = strings.TrimSpace(req.Title)
	o.Department = req.Department
	o.Location = req.Location
	o.EmploymentType = req.EmploymentType
	o.Description = req.Description
	o.Requirements = req.Requirements
	if req.Active != nil {
		o.Active = *req.Active
	} else if o.ID == "" {
		o.Active = true
	}
	o.UpdatedAt = now
}
