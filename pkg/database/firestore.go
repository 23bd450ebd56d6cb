package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreService implements the FirestoreDB interface on a shared client.
type FirestoreService struct {
	client *firestore.Client
}

// NewFirestoreService wraps an existing Firestore client.
func NewFirestoreService(client *firestore.Client) *FirestoreService {
	return &FirestoreService{client: client}
}

// Get retrieves a document as a map.
func (s *FirestoreService) Get(ctx context.Context, collection string, docID string) (map[string]interface{}, error) {
	doc, err := s.client.Collection(collection).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s/%s: %w", collection, docID, ErrNotFound)
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, docID, err)
	}
	return doc.Data(), nil
}

// Merge writes data into the document, creating it if needed. Nested maps are merged
// field by field; fields absent from data are left untouched.
func (s *FirestoreService) Merge(ctx context.Context, collection string, docID string, data map[string]interface{}) error {
	if _, err := s.client.Collection(collection).Doc(docID).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("merge %s/%s: %w", collection, docID, err)
	}
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *FirestoreService) Delete(ctx context.Context, collection string, docID string) error {
	if _, err := s.client.Collection(collection).Doc(docID).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, docID, err)
	}
	return nil
}
