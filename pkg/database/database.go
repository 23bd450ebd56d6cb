package database

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the document does not exist.
var ErrNotFound = errors.New("document not found")

// FirestoreDB defines loosely typed document operations for collections whose
// shape is not fixed, such as site settings.
type FirestoreDB interface {
	Get(ctx context.Context, collection string, docID string) (map[string]interface{}, error)
	Merge(ctx context.Context, collection string, docID string, data map[string]interface{}) error
	Delete(ctx context.Context, collection string, docID string) error
}
