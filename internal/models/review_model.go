package models

import "time"

// Review is a public review fetched from the places API and stored in users/{uid}/reviews.
type Review struct {
	ID              string    `json:"id" firestore:"-"`
	AuthorName      string    `json:"authorName" firestore:"authorName"`
	Rating          int       `json:"rating" firestore:"rating"`
	Text            string    `json:"text" firestore:"text"`
	RelativeTime    string    `json:"relativeTime,omitempty" firestore:"relativeTime,omitempty"`
	Time            time.Time `json:"time" firestore:"time"`
	ProfilePhotoURL string    `json:"profilePhotoUrl,omitempty" firestore:"profilePhotoUrl,omitempty"`
	PlaceID         string    `json:"placeId" firestore:"placeId"`
	Branch          string    `json:"branch,omitempty" firestore:"branch,omitempty"`
	FetchedAt       time.Time `json:"fetchedAt" firestore:"fetchedAt"`
}

// ReviewSummary is the result of a review sync for one place.
type ReviewSummary struct {
	PlaceID      string   `json:"placeId"`
	PlaceName    string   `json:"placeName"`
	Rating       float64  `json:"rating"`
	TotalRatings int      `json:"totalRatings"`
	Reviews      []Review `json:"reviews"`
}
