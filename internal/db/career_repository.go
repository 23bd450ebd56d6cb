package db

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"reviewdesk-backend-go/internal/models"
)

const (
	jobOpeningsCollection     = "jobOpenings"
	jobApplicationsCollection = "jobApplications"
	emailRepliesCollection    = "emailReplies"
)

type firestoreCareerRepository struct {
	client *firestore.Client
}

// NewFirestoreCareerRepository creates a CareerRepository backed by Firestore.
func NewFirestoreCareerRepository(client *firestore.Client) CareerRepository {
	return &firestoreCareerRepository{client: client}
}

// --- Openings ---

func (r *firestoreCareerRepository) CreateOpening(ctx context.Context, opening *models.JobOpening) error {
	ref := r.client.Collection(jobOpeningsCollection).NewDoc()
	opening.ID = ref.ID
	if _, err := ref.Create(ctx, opening); err != nil {
		return fmt.Errorf("failed to create job opening: %w", err)
	}
	return nil
}

func (r *firestoreCareerRepository) GetOpening(ctx context.Context, id string) (*models.JobOpening, error) {
	snap, err := r.client.Collection(jobOpeningsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("job opening '%s' not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job opening '%s': %w", id, err)
	}
	var opening models.JobOpening
	if err := snap.DataTo(&opening); err != nil {
		return nil, fmt.Errorf("failed to decode job opening '%s': %w", id, err)
	}
	opening.ID = snap.Ref.ID
	return &opening, nil
}

func (r *firestoreCareerRepository) ListOpenings(ctx context.Context, activeOnly bool) ([]*models.JobOpening, error) {
	query := r.client.Collection(jobOpeningsCollection).Query
	if activeOnly {
		query = query.Where("active", "==", true)
	}
	iter := query.Documents(ctx)
	defer iter.Stop()

	var openings []*models.JobOpening
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate job openings: %w", err)
		}
		var opening models.JobOpening
		if err := doc.DataTo(&opening); err != nil {
			return nil, fmt.Errorf("failed to decode job opening '%s': %w", doc.Ref.ID, err)
		}
		opening.ID = doc.Ref.ID
		openings = append(openings, &opening)
	}
	// Sorted here to avoid a composite index on (active, createdAt).
	sort.Slice(openings, func(i, j int) bool { return openings[i].CreatedAt.After(openings[j].CreatedAt) })
	return openings, nil
}

func (r *firestoreCareerRepository) UpdateOpening(ctx context.Context, opening *models.JobOpening) error {
	if _, err := r.client.Collection(jobOpeningsCollection).Doc(opening.ID).Set(ctx, opening); err != nil {
		return fmt.Errorf("failed to update job opening '%s': %w", opening.ID, err)
	}
	return nil
}

func (r *firestoreCareerRepository) DeleteOpening(ctx context.Context, id string) error {
	ref := r.client.Collection(jobOpeningsCollection).Doc(id)
	if _, err := ref.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("job opening '%s' not found: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete job opening '%s': %w", id, err)
	}
	return nil
}

// --- Applications ---

func (r *firestoreCareerRepository) CreateApplication(ctx context.Context, app *models.JobApplication) error {
	ref := r.client.Collection(jobApplicationsCollection).NewDoc()
	app.ID = ref.ID
	if _, err := ref.Create(ctx, app); err != nil {
		return fmt.Errorf("failed to create job application: %w", err)
	}
	return nil
}

func (r *firestoreCareerRepository) GetApplication(ctx context.Context, id string) (*models.JobApplication, error) {
	snap, err := r.client.Collection(jobApplicationsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("job application '%s' not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job application '%s': %w", id, err)
	}
	var app models.JobApplication
	if err := snap.DataTo(&app); err != nil {
		return nil, fmt.Errorf("failed to decode job application '%s': %w", id, err)
	}
	app.ID = snap.Ref.ID
	return &app, nil
}

func (r *firestoreCareerRepository) ListApplications(ctx context.Context, filter ApplicationFilter) ([]*models.JobApplication, error) {
	query := r.client.Collection(jobApplicationsCollection).Query
	if filter.JobID != "" {
		query = query.Where("jobId", "==", filter.JobID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}
	iter := query.Documents(ctx)
	defer iter.Stop()

	var apps []*models.JobApplication
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate job applications: %w", err)
		}
		var app models.JobApplication
		if err := doc.DataTo(&app); err != nil {
			return nil, fmt.Errorf("failed to decode job application '%s': %w", doc.Ref.ID, err)
		}
		app.ID = doc.Ref.ID
		apps = append(apps, &app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].CreatedAt.After(apps[j].CreatedAt) })
	return apps, nil
}

func (r *firestoreCareerRepository) UpdateApplication(ctx context.Context, app *models.JobApplication) error {
	if _, err := r.client.Collection(jobApplicationsCollection).Doc(app.ID).Set(ctx, app); err != nil {
		return fmt.Errorf("failed to update job application '%s': %w", app.ID, err)
	}
	return nil
}

// --- Replies ---

func (r *firestoreCareerRepository) CreateReply(ctx context.Context, reply *models.EmailReply) error {
	ref := r.client.Collection(emailRepliesCollection).NewDoc()
	reply.ID = ref.ID
	if _, err := ref.Create(ctx, reply); err != nil {
		return fmt.Errorf("failed to create email reply: %w", err)
	}
	return nil
}

func (r *firestoreCareerRepository) ListReplies(ctx context.Context, applicationID string) ([]*models.EmailReply, error) {
	iter := r.client.Collection(emailRepliesCollection).Where("applicationId", "==", applicationID).Documents(ctx)
	defer iter.Stop()

	var replies []*models.EmailReply
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate replies for application '%s': %w", applicationID, err)
		}
		var reply models.EmailReply
		if err := doc.DataTo(&reply); err != nil {
			return nil, fmt.Errorf("failed to decode reply '%s': %w", doc.Ref.ID, err)
		}
		reply.ID = doc.Ref.ID
		replies = append(replies, &reply)
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].SentAt.Before(replies[j].SentAt) })
	return replies, nil
}
