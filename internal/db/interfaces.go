package db

import (
	"context"
	"errors"

	"reviewdesk-backend-go/internal/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when creating a document whose ID is taken.
	ErrAlreadyExists = errors.New("document already exists")
)

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	// Mutate reads the user, applies fn and writes the result atomically.
	// Returning an error from fn aborts the write.
	Mutate(ctx context.Context, userID string, fn func(*models.User) error) (*models.User, error)
	List(ctx context.Context, limit int) ([]*models.User, error)
}

// LinkRepository stores sharable links under users/{uid}/sharable_links.
type LinkRepository interface {
	Create(ctx context.Context, link *models.SharableLink) error
	Get(ctx context.Context, ownerID, slug string) (*models.SharableLink, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.SharableLink, error)
	Update(ctx context.Context, link *models.SharableLink) error
}

// ReviewRepository stores synced reviews under users/{uid}/reviews.
type ReviewRepository interface {
	Upsert(ctx context.Context, ownerID string, reviews []models.Review) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Review, error)
}

// ApplicationFilter narrows ListApplications. Empty fields match everything.
type ApplicationFilter struct {
	JobID  string
	Status string
}

// CareerRepository stores job openings, applications and replies.
type CareerRepository interface {
	CreateOpening(ctx context.Context, opening *models.JobOpening) error
	GetOpening(ctx context.Context, id string) (*models.JobOpening, error)
	ListOpenings(ctx context.Context, activeOnly bool) ([]*models.JobOpening, error)
	UpdateOpening(ctx context.Context, opening *models.JobOpening) error
	DeleteOpening(ctx context.Context, id string) error

	CreateApplication(ctx context.Context, app *models.JobApplication) error
	GetApplication(ctx context.Context, id string) (*models.JobApplication, error)
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]*models.JobApplication, error)
	UpdateApplication(ctx context.Context, app *models.JobApplication) error

	CreateReply(ctx context.Context, reply *models.EmailReply) error
	ListReplies(ctx context.Context, applicationID string) ([]*models.EmailReply, error)
}
