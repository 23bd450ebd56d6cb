package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"reviewdesk-backend-go/internal/models"
)

const linksSubcollection = "sharable_links"

type firestoreLinkRepository struct {
	client *firestore.Client
}

// NewFirestoreLinkRepository creates a LinkRepository backed by Firestore.
func NewFirestoreLinkRepository(client *firestore.Client) LinkRepository {
	return &firestoreLinkRepository{client: client}
}

func (r *firestoreLinkRepository) links(ownerID string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(ownerID).Collection(linksSubcollection)
}

func (r *firestoreLinkRepository) Create(ctx context.Context, link *models.SharableLink) error {
	_, err := r.links(link.OwnerID).Doc(link.Slug).Create(ctx, link)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("link '%s': %w", link.Slug, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create link '%s': %w", link.Slug, err)
	}
	return nil
}

func (r *firestoreLinkRepository) Get(ctx context.Context, ownerID, slug string) (*models.SharableLink, error) {
	snap, err := r.links(ownerID).Doc(slug).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("link '%s' not found: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get link '%s': %w", slug, err)
	}
	var link models.SharableLink
	if err := snap.DataTo(&link); err != nil {
		return nil, fmt.Errorf("failed to decode link '%s': %w", slug, err)
	}
	link.Slug = snap.Ref.ID
	link.OwnerID = ownerID
	return &link, nil
}

func (r *firestoreLinkRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.SharableLink, error) {
	iter := r.links(ownerID).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var links []*models.SharableLink
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate links for owner '%s': %w", ownerID, err)
		}
		var link models.SharableLink
		if err := doc.DataTo(&link); err != nil {
			return nil, fmt.Errorf("failed to decode link '%s': %w", doc.Ref.ID, err)
		}
		link.Slug = doc.Ref.ID
		link.OwnerID = ownerID
		links = append(links, &link)
	}
	return links, nil
}

func (r *firestoreLinkRepository) Update(ctx context.Context, link *models.SharableLink) error {
	if _, err := r.links(link.OwnerID).Doc(link.Slug).Set(ctx, link); err != nil {
		return fmt.Errorf("failed to update link '%s': %w", link.Slug, err)
	}
	return nil
}
