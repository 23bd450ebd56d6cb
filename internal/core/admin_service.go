package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/db"
	"reviewdesk-backend-go/internal/entitlement"
	"reviewdesk-backend-go/internal/identity"
	"reviewdesk-backend-go/internal/models"
)

// DefaultSubscriptionPlan is stored when a subscription is activated without a plan name.
const DefaultSubscriptionPlan = entitlement.DefaultPlan

// UserSummary is a user as listed to administrators, without the login history.
type UserSummary struct {
	ID                 string              `json:"id"`
	Email              string              `json:"email"`
	Role               string              `json:"role"`
	Status             string              `json:"status"`
	State              entitlement.State   `json:"state"`
	TrialEndDate       *time.Time          `json:"trialEndDate,omitempty"`
	SubscriptionActive bool                `json:"subscriptionActive"`
	SubscriptionPlan   string              `json:"subscriptionPlan,omitempty"`
	BusinessName       string              `json:"businessName,omitempty"`
	LastLogin          *models.LoginRecord `json:"lastLogin,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
}

// Stats counts users by entitlement state.
type Stats struct {
	Total   int                       `json:"total"`
	ByState map[entitlement.State]int `json:"byState"`
}

type adminService struct {
	users    db.UserRepository
	identity identity.Provider
	logger   *zap.Logger
	now      func() time.Time
}

// NewAdminService creates an AdminService.
func NewAdminService(users db.UserRepository, idp identity.Provider, logger *zap.Logger) AdminService {
	return &adminService{users: users, identity: idp, logger: logger, now: time.Now}
}

func (s *adminService) ListUsers(ctx context.Context, limit int) ([]*UserSummary, error) {
	users, err := s.users.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	out := make([]*UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, summarize(u, now))
	}
	return out, nil
}

// SetStatus changes an account status. Leaving Active revokes the user's refresh
// tokens so open sessions end at their next token check.
func (s *adminService) SetStatus(ctx context.Context, uid, status string) (*models.User, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	now := s.now().UTC()
	user, err := s.users.Mutate(ctx, uid, func(u *models.User) error {
		u.Status = status
		u.UpdatedAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, uid)
		}
		return nil, err
	}

	if status != models.StatusActive {
		if err := s.identity.RevokeSessions(ctx, uid); err != nil {
			s.logger.Warn("Failed to revoke sessions", zap.String("uid", uid), zap.Error(err))
		}
	}
	s.logger.Info("Account status changed", zap.String("uid", uid), zap.String("status", status))
	return user, nil
}

// SetSubscription activates or cancels a subscription through the entitlement
// transitions and returns the resulting state.
func (s *adminService) SetSubscription(ctx context.Context, uid string, req models.SubscriptionRequest) (*models.User, entitlement.State, error) {
	event := entitlement.CancelSubscription
	if req.Active {
		event = entitlement.Subscribe
	}
	plan := req.Plan
	if req.Active && plan == "" {
		plan = DefaultSubscriptionPlan
	}

	now := s.now().UTC()
	var next entitlement.State
	user, err := s.users.Mutate(ctx, uid, func(u *models.User) error {
		var effects []entitlement.Effect
		next, effects = entitlement.Transition(entitlement.Classify(u, now), event)
		for _, e := range effects {
			entitlement.SetSubscription(u, e, plan, now)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, uid)
		}
		return nil, "", err
	}
	s.logger.Info("Subscription updated",
		zap.String("uid", uid),
		zap.String("event", string(event)),
		zap.String("state", string(next)),
	)
	return user, next, nil
}

func (s *adminService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.users.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	stats := &Stats{Total: len(users), ByState: make(map[entitlement.State]int, len(entitlement.AllStates))}
	for _, st := range entitlement.AllStates {
		if st != entitlement.NoRecord {
			stats.ByState[st] = 0
		}
	}
	for _, u := range users {
		stats.ByState[entitlement.Classify(u, now)]++
	}
	return stats, nil
}

func summarize(u *models.User, now time.Time) *UserSummary {
	sum := &UserSummary{
		ID:                 u.ID,
		Email:              u.Email,
		Role:               u.Role,
		Status:             u.Status,
		State:              entitlement.Classify(u, now),
		TrialEndDate:       u.TrialEndDate,
		SubscriptionActive: u.SubscriptionActive,
		SubscriptionPlan:   u.SubscriptionPlan,
		LastLogin:          u.LastLogin,
		CreatedAt:          u.CreatedAt,
	}
	if u.BusinessInfo != nil {
		sum.BusinessName = u.BusinessInfo.Name
	}
	return sum
}
