package api

import "reviewdesk-backend-go/internal/middleware"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// DenialResponse is returned with 403 when the entitlement gate refuses a login or request.
// Reason is one of trial_expired, subscription_expired or account_inactive.
type DenialResponse = middleware.DenialResponse

// SubscriptionResponse is the result of an admin subscription change.
type SubscriptionResponse struct {
	User  interface{} `json:"user"`
	State string      `json:"state"`
}
