// Package entitlement decides whether an account may sign in.
//
// The decision is split in two pure steps: Classify maps a user document to a
// State, and Transition maps a (State, Event) pair to the next State plus the
// side effects the caller must perform. Nothing here touches storage.
package entitlement

import (
	"time"

	"reviewdesk-backend-go/internal/models"
)

// DefaultTrialLength is the trial window granted to new and legacy accounts.
const DefaultTrialLength = 14 * 24 * time.Hour

// State is the entitlement state of an account.
type State string

const (
	NoRecord            State = "no_record"
	LegacyUnprovisioned State = "legacy_unprovisioned"
	TrialActive         State = "trial_active"
	TrialExpired        State = "trial_expired"
	SubscriptionActive  State = "subscription_active"
	SubscriptionExpired State = "subscription_expired"
	Admin               State = "admin"
)

// AllStates lists every state, in classification priority order.
var AllStates = []State{
	NoRecord, Admin, SubscriptionActive, TrialActive,
	LegacyUnprovisioned, SubscriptionExpired, TrialExpired,
}

// Event drives a transition.
type Event string

const (
	Login              Event = "login"
	Subscribe          Event = "subscribe"
	CancelSubscription Event = "cancel_subscription"
)

// Effect is a side effect the caller must carry out after a transition.
type Effect string

const (
	CreateAccount          Effect = "create_account"
	GrantTrial             Effect = "grant_trial"
	RecordLogin            Effect = "record_login"
	SignOut                Effect = "sign_out"
	ActivateSubscription   Effect = "activate_subscription"
	DeactivateSubscription Effect = "deactivate_subscription"
)

// Reason explains a denied login.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonTrialExpired        Reason = "trial expired"
	ReasonSubscriptionExpired Reason = "subscription expired"
)

// Decision is the outcome of evaluating a login.
type Decision struct {
	From    State    `json:"from"`
	To      State    `json:"to"`
	Allowed bool     `json:"allowed"`
	Reason  Reason   `json:"reason,omitempty"`
	Effects []Effect `json:"effects"`
}

// Has reports whether the decision carries effect e.
func (d Decision) Has(e Effect) bool {
	return hasEffect(d.Effects, e)
}

// Classify maps a user document to its state. A nil user means no document exists.
// Rules are applied in priority order; the first match wins.
func Classify(user *models.User, now time.Time) State {
	switch {
	case user == nil:
		return NoRecord
	case user.IsAdmin():
		return Admin
	case user.SubscriptionActive:
		return SubscriptionActive
	case user.TrialActive && user.TrialEndDate != nil && user.TrialEndDate.After(now):
		return TrialActive
	case user.TrialEndDate == nil && user.SubscriptionPlan == "" && user.Role == models.RoleBusinessUser:
		return LegacyUnprovisioned
	case user.SubscriptionPlan != "":
		return SubscriptionExpired
	default:
		return TrialExpired
	}
}

// Transition returns the next state and effects for event. Events that do not
// apply to a state leave it unchanged with no effects.
func Transition(state State, event Event) (State, []Effect) {
	switch event {
	case Login:
		switch state {
		case NoRecord:
			// First sign-in bootstraps the account; no history is recorded.
			return TrialActive, []Effect{CreateAccount}
		case LegacyUnprovisioned:
			return TrialActive, []Effect{GrantTrial, RecordLogin}
		case Admin, SubscriptionActive, TrialActive:
			return state, []Effect{RecordLogin}
		case TrialExpired, SubscriptionExpired:
			return state, []Effect{SignOut}
		}
	case Subscribe:
		switch state {
		case NoRecord, Admin:
			return state, nil
		default:
			return SubscriptionActive, []Effect{ActivateSubscription}
		}
	case CancelSubscription:
		if state == SubscriptionActive {
			return SubscriptionExpired, []Effect{DeactivateSubscription}
		}
	}
	return state, nil
}

// Evaluate classifies user and applies the Login event.
func Evaluate(user *models.User, now time.Time) Decision {
	from := Classify(user, now)
	to, effects := Transition(from, Login)
	d := Decision{
		From:    from,
		To:      to,
		Allowed: !hasEffect(effects, SignOut),
		Effects: effects,
	}
	if !d.Allowed {
		d.Reason = reasonFor(from)
	}
	return d
}

func reasonFor(s State) Reason {
	switch s {
	case SubscriptionExpired:
		return ReasonSubscriptionExpired
	case TrialExpired:
		return ReasonTrialExpired
	}
	return ReasonNone
}

func hasEffect(effects []Effect, e Effect) bool {
	for _, x := range effects {
		if x == e {
			return true
		}
	}
	return false
}
