package core

import "errors"

var (
	// Entitlement denials.
	ErrAccountInactive     = errors.New("account is inactive")
	ErrTrialExpired        = errors.New("trial expired")
	ErrSubscriptionExpired = errors.New("subscription expired")

	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found in login history")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidLogin    = errors.New("invalid login method")

	ErrLinkNotFound = errors.New("link not found")
	ErrLinkExpired  = errors.New("link expired")
	ErrLinkInactive = errors.New("link is no longer active")

	ErrBusinessInfoMissing = errors.New("business information has not been submitted")
	ErrBranchNotFound      = errors.New("branch not found")
	ErrPlaceNotFound       = errors.New("no matching place found for this business")
	ErrReviewsUnavailable  = errors.New("review service unavailable")

	ErrJobNotFound         = errors.New("job opening not found")
	ErrJobClosed           = errors.New("job opening is closed")
	ErrApplicationNotFound = errors.New("job application not found")

	ErrUnknownSettings = errors.New("unknown settings document")
	ErrMailUnavailable = errors.New("email delivery is not configured")

	ErrPasswordLoginUnavailable = errors.New("password sign-in is not configured")
)
