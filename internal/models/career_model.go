package models

import "time"

// Application statuses.
const (
	ApplicationPending     = "pending"
	ApplicationReviewed    = "reviewed"
	ApplicationShortlisted = "shortlisted"
	ApplicationRejected    = "rejected"
)

// ValidApplicationStatus reports whether s is one of the known application statuses.
func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationPending, ApplicationReviewed, ApplicationShortlisted, ApplicationRejected:
		return true
	}
	return false
}

// JobOpening is a document in jobOpenings.
type JobOpening struct {
	ID             string    `json:"id" firestore:"-"`
	Title          string    `json:"title" firestore:"title"`
	Department     string    `json:"department,omitempty" firestore:"department,omitempty"`
	Location       string    `json:"location,omitempty" firestore:"location,omitempty"`
	EmploymentType string    `json:"employmentType,omitempty" firestore:"employmentType,omitempty"`
	Description    string    `json:"description" firestore:"description"`
	Requirements   []string  `json:"requirements,omitempty" firestore:"requirements,omitempty"`
	Active         bool      `json:"active" firestore:"active"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// JobApplication is a document in jobApplications. JobID references jobOpenings by convention.
type JobApplication struct {
	ID          string    `json:"id" firestore:"-"`
	JobID       string    `json:"jobId" firestore:"jobId"`
	JobTitle    string    `json:"jobTitle,omitempty" firestore:"jobTitle,omitempty"`
	Name        string    `json:"name" firestore:"name"`
	Email       string    `json:"email" firestore:"email"`
	Phone       string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	ResumeURL   string    `json:"resumeUrl,omitempty" firestore:"resumeUrl,omitempty"`
	CoverLetter string    `json:"coverLetter,omitempty" firestore:"coverLetter,omitempty"`
	Status      string    `json:"status" firestore:"status"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// EmailReply is a document in emailReplies recording a message sent to an applicant.
type EmailReply struct {
	ID            string    `json:"id" firestore:"-"`
	ApplicationID string    `json:"applicationId" firestore:"applicationId"`
	To            string    `json:"to" firestore:"to"`
	Subject       string    `json:"subject" firestore:"subject"`
	Body          string    `json:"body" firestore:"body"`
	SentBy        string    `json:"sentBy" firestore:"sentBy"`
	SentAt        time.Time `json:"sentAt" firestore:"sentAt"`
	Delivered     bool      `json:"delivered" firestore:"delivered"`
}
