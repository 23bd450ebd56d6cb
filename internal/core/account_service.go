package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/db"
	"reviewdesk-backend-go/internal/identity"
	"reviewdesk-backend-go/internal/models"
	"reviewdesk-backend-go/pkg/mailer"
)

type accountService struct {
	users    db.UserRepository
	identity identity.Provider
	mailer   Mailer
	logger   *zap.Logger
	now      func() time.Time
}

// NewAccountService creates an AccountService. mailer may be nil, which disables password reset mail.
func NewAccountService(users db.UserRepository, idp identity.Provider, m Mailer, logger *zap.Logger) AccountService {
	return &accountService{users: users, identity: idp, mailer: m, logger: logger, now: time.Now}
}

func (s *accountService) Profile(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, uid)
		}
		return nil, err
	}
	return user, nil
}

func (s *accountService) Route(ctx context.Context, uid string) (Destination, error) {
	user, err := s.Profile(ctx, uid)
	if err != nil {
		return "", err
	}
	return Route(user), nil
}

// SubmitBusinessInfo saves the onboarding form and marks onboarding complete.
// Review metrics already on the profile are preserved.
func (s *accountService) SubmitBusinessInfo(ctx context.Context, uid string, req models.BusinessInfoRequest) (*models.User, error) {
	now := s.now().UTC()
	user, err := s.users.Mutate(ctx, uid, func(u *models.User) error {
		info := models.BusinessInfo{}
		if u.BusinessInfo != nil {
			info = *u.BusinessInfo
		}
		info.Name = strings.TrimSpace(req.Name)
		info.Category = req.Category
		info.Phone = req.Phone
		info.Website = req.Website
		info.Branches = req.Branches
		u.BusinessInfo = &info
		u.BusinessFormFilled = true
		u.UpdatedAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.logger.Info("Business information submitted", zap.String("uid", uid), zap.Int("branches", len(req.Branches)))
	return user, nil
}

// SendPasswordReset mails a reset link. Unknown addresses succeed silently so the
// endpoint cannot be used to probe for accounts.
func (s *accountService) SendPasswordReset(ctx context.Context, email string) error {
	if s.mailer == nil {
		return ErrMailUnavailable
	}
	link, err := s.identity.PasswordResetLink(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			s.logger.Info("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	body := "<p>We received a request to reset your password.</p>" +
		"<p><a href=\"" + link + "\">Reset your password</a></p>" +
		"<p>If you did not ask for this, you can ignore this email.</p>"
	if err := s.mailer.Send(ctx, mailer.Message{To: email, Subject: "Reset your password", Body: body}); err != nil {
		return fmt.Errorf("send password reset email: %w", err)
	}
	return nil
}
