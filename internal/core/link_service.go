package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/db"
	"reviewdesk-backend-go/internal/models"
)

// DefaultLinkTTL is used when Create is called without a TTL.
const DefaultLinkTTL = 7 * 24 * time.Hour

const slugLength = 12

// PublicLink is what an anonymous visitor of a sharable link sees.
type PublicLink struct {
	Slug         string          `json:"slug"`
	OwnerID      string          `json:"ownerId"`
	BusinessName string          `json:"businessName"`
	Branches     []models.Branch `json:"branches,omitempty"`
	ExpiresAt    time.Time       `json:"expiresAt"`
}

type linkService struct {
	links      db.LinkRepository
	users      db.UserRepository
	defaultTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewLinkService creates a LinkService.
func NewLinkService(links db.LinkRepository, users db.UserRepository, defaultTTL time.Duration, logger *zap.Logger) LinkService {
	if defaultTTL <= 0 {
		defaultTTL = DefaultLinkTTL
	}
	return &linkService{links: links, users: users, defaultTTL: defaultTTL, logger: logger, now: time.Now}
}

func (s *linkService) Create(ctx context.Context, uid string, ttl time.Duration) (*models.SharableLink, error) {
	if _, err := s.users.GetByID(ctx, uid); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := s.now().UTC()
	link := &models.SharableLink{
		Slug:      newSlug(),
		OwnerID:   uid,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Active:    true,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}
	s.logger.Info("Sharable link created", zap.String("uid", uid), zap.String("slug", link.Slug), zap.Time("expires_at", link.ExpiresAt))
	return link, nil
}

func (s *linkService) List(ctx context.Context, uid string) ([]*models.SharableLink, error) {
	return s.links.ListByOwner(ctx, uid)
}

func (s *linkService) Deactivate(ctx context.Context, uid, slug string) error {
	link, err := s.links.Get(ctx, uid, slug)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrLinkNotFound
		}
		return err
	}
	if !link.Active {
		return nil
	}
	link.Active = false
	return s.links.Update(ctx, link)
}

// Resolve validates a link for the public review page.
func (s *linkService) Resolve(ctx context.Context, uid, slug string) (*PublicLink, error) {
	link, err := s.links.Get(ctx, uid, slug)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	if !link.Active {
		return nil, ErrLinkInactive
	}
	if link.Expired(s.now()) {
		return nil, ErrLinkExpired
	}

	owner, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to load link owner '%s': %w", uid, err)
	}
	pub := &PublicLink{Slug: link.Slug, OwnerID: uid, ExpiresAt: link.ExpiresAt}
	if owner.BusinessInfo != nil {
		pub.BusinessName = owner.BusinessInfo.Name
		pub.Branches = owner.BusinessInfo.Branches
	}
	return pub, nil
}

func newSlug() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:slugLength]
}
