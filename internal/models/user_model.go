package models

import "time"

// Roles stored on the user document.
const (
	RoleAdmin        = "ADMIN"
	RoleBusinessUser = "BUSER"
)

// Account statuses. Only StatusActive may sign in.
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusSuspended = "Suspended"
)

// ValidStatus reports whether s is a known account status.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive || s == StatusSuspended
}

// User represents a business owner or administrator profile in users/{uid}.
type User struct {
	ID                 string        `json:"id" firestore:"-"` // Firebase Auth UID, will be the document ID
	Email              string        `json:"email" firestore:"email"`
	Role               string        `json:"role" firestore:"role"`
	Status             string        `json:"status" firestore:"status"`
	TrialActive        bool          `json:"trialActive" firestore:"trialActive"`
	TrialStartDate     *time.Time    `json:"trialStartDate,omitempty" firestore:"trialStartDate,omitempty"`
	TrialEndDate       *time.Time    `json:"trialEndDate,omitempty" firestore:"trialEndDate,omitempty"`
	SubscriptionActive bool          `json:"subscriptionActive" firestore:"subscriptionActive"`
	SubscriptionPlan   string        `json:"subscriptionPlan,omitempty" firestore:"subscriptionPlan,omitempty"`
	BusinessFormFilled bool          `json:"businessFormFilled" firestore:"businessFormFilled"`
	LoginHistory       []LoginRecord `json:"loginHistory,omitempty" firestore:"loginHistory,omitempty"`
	LastLogin          *LoginRecord  `json:"lastLogin,omitempty" firestore:"lastLogin,omitempty"`
	BusinessInfo       *BusinessInfo `json:"businessInfo,omitempty" firestore:"businessInfo,omitempty"`
	CreatedAt          time.Time     `json:"createdAt" firestore:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt" firestore:"updatedAt"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// BusinessInfo is the onboarding data of a business owner plus metrics derived from synced reviews.
type BusinessInfo struct {
	Name           string     `json:"name" firestore:"name"`
	Category       string     `json:"category,omitempty" firestore:"category,omitempty"`
	Phone          string     `json:"phone,omitempty" firestore:"phone,omitempty"`
	Website        string     `json:"website,omitempty" firestore:"website,omitempty"`
	Branches       []Branch   `json:"branches,omitempty" firestore:"branches,omitempty"`
	AverageRating  float64    `json:"averageRating" firestore:"averageRating"`
	TotalReviews   int        `json:"totalReviews" firestore:"totalReviews"`
	LastReviewSync *time.Time `json:"lastReviewSync,omitempty" firestore:"lastReviewSync,omitempty"`
}

// Branch is one physical location of a business.
type Branch struct {
	Name    string `json:"name" firestore:"name"`
	Address string `json:"address,omitempty" firestore:"address,omitempty"`
	PlaceID string `json:"placeId,omitempty" firestore:"placeId,omitempty"`
}
