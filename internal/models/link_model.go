package models

import "time"

// SharableLink lives in users/{uid}/sharable_links/{slug} and backs the public review page.
type SharableLink struct {
	Slug      string    `json:"slug" firestore:"slug"`
	OwnerID   string    `json:"ownerId" firestore:"-"` // Inferred from the parent document
	ExpiresAt time.Time `json:"expiresAt" firestore:"expiresAt"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	Active    bool      `json:"active" firestore:"active"`
}

// Expired reports whether the link is past its expiry at now.
func (l *SharableLink) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}
