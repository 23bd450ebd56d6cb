package entitlement

import (
	"time"

	"reviewdesk-backend-go/internal/models"
)

// NewAccount builds the document created on a first sign-in.
func NewAccount(uid, email string, now time.Time, trialLength time.Duration) *models.User {
	u := &models.User{
		ID:        uid,
		Email:     email,
		Role:      models.RoleBusinessUser,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	StartTrial(u, now, trialLength)
	return u
}

// StartTrial opens a fresh trial window on u starting at now.
func StartTrial(u *models.User, now time.Time, trialLength time.Duration) {
	if trialLength <= 0 {
		trialLength = DefaultTrialLength
	}
	start := now
	end := now.Add(trialLength)
	u.TrialActive = true
	u.TrialStartDate = &start
	u.TrialEndDate = &end
	u.UpdatedAt = now
}

// DefaultPlan is recorded when a subscription carries no plan name. A cancelled
// subscription always keeps a plan so it classifies as SubscriptionExpired.
const DefaultPlan = "standard"

// SetSubscription applies ActivateSubscription or DeactivateSubscription to u.
// Other effects are ignored.
func SetSubscription(u *models.User, effect Effect, plan string, now time.Time) {
	switch effect {
	case ActivateSubscription:
		u.SubscriptionActive = true
		if plan != "" {
			u.SubscriptionPlan = plan
		}
		if u.SubscriptionPlan == "" {
			u.SubscriptionPlan = DefaultPlan
		}
		u.TrialActive = false
	case DeactivateSubscription:
		u.SubscriptionActive = false
		if u.SubscriptionPlan == "" {
			u.SubscriptionPlan = DefaultPlan
		}
	default:
		return
	}
	u.UpdatedAt = now
}
