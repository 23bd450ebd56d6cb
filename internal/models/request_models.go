package models

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionRequest is the body of POST /sessions, sent after a client-side identity provider sign-in.
type SessionRequest struct {
	LoginMethod string `json:"loginMethod" binding:"omitempty,oneof=email google"`
}

// PasswordResetRequest is the body of POST /auth/password-reset.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PreciseLocationRequest carries coordinates from the browser Geolocation API after the user opts in.
type PreciseLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
	Accuracy  float64 `json:"accuracy" binding:"min=0"` // meters
}

// BusinessInfoRequest is the onboarding form body.
type BusinessInfoRequest struct {
	Name     string   `json:"name" binding:"required"`
	Category string   `json:"category,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Website  string   `json:"website,omitempty"`
	Branches []Branch `json:"branches,omitempty"`
}

// CreateLinkRequest creates a sharable link. Zero TTL uses the configured default.
type CreateLinkRequest struct {
	TTLHours int `json:"ttlHours,omitempty" binding:"min=0"`
}

// SyncReviewsRequest selects which branch to sync. Empty means the business itself.
type SyncReviewsRequest struct {
	Branch string `json:"branch,omitempty"`
}

// JobOpeningRequest creates or replaces a job opening.
type JobOpeningRequest struct {
	Title          string   `json:"title" binding:"required"`
	Department     string   `json:"department,omitempty"`
	Location       string   `json:"location,omitempty"`
	EmploymentType string   `json:"employmentType,omitempty"`
	Description    string   `json:"description" binding:"required"`
	Requirements   []string `json:"requirements,omitempty"`
	Active         *bool    `json:"active,omitempty"`
}

// JobApplicationRequest is a public application for an opening.
type JobApplicationRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone,omitempty"`
	ResumeURL   string `json:"resumeUrl,omitempty"`
	CoverLetter string `json:"coverLetter,omitempty"`
}

// ApplicationStatusRequest updates an application status.
type ApplicationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// EmailReplyRequest is an administrator's reply to an applicant.
type EmailReplyRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// UserStatusRequest changes an account status.
type UserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SubscriptionRequest sets or cancels a user's subscription.
type SubscriptionRequest struct {
	Plan   string `json:"plan,omitempty"`
	Active bool   `json:"active"`
}
