package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"reviewdesk-backend-go/internal/models"
)

const reviewsSubcollection = "reviews"

type firestoreReviewRepository struct {
	client *firestore.Client
}

// NewFirestoreReviewRepository creates a ReviewRepository backed by Firestore.
func NewFirestoreReviewRepository(client *firestore.Client) ReviewRepository {
	return &firestoreReviewRepository{client: client}
}

func (r *firestoreReviewRepository) reviews(ownerID string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(ownerID).Collection(reviewsSubcollection)
}

// Upsert writes reviews keyed by their ID with a BulkWriter. Existing documents are replaced.
func (r *firestoreReviewRepository) Upsert(ctx context.Context, ownerID string, reviews []models.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(reviews))
	for i := range reviews {
		job, err := bw.Set(r.reviews(ownerID).Doc(reviews[i].ID), reviews[i])
		if err != nil {
			bw.End()
			return fmt.Errorf("failed to queue review '%s': %w", reviews[i].ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("failed to write review '%s': %w", reviews[i].ID, err)
		}
	}
	return nil
}

// ListByOwner returns stored reviews, most recent first.
func (r *firestoreReviewRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Review, error) {
	iter := r.reviews(ownerID).OrderBy("time", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var reviews []models.Review
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate reviews for owner '%s': %w", ownerID, err)
		}
		var review models.Review
		if err := doc.DataTo(&review); err != nil {
			return nil, fmt.Errorf("failed to decode review '%s': %w", doc.Ref.ID, err)
		}
		review.ID = doc.Ref.ID
		reviews = append(reviews, review)
	}
	return reviews, nil
}
