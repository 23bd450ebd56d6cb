package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/db"
	"reviewdesk-backend-go/internal/models"
	"reviewdesk-backend-go/internal/places"
	"reviewdesk-backend-go/pkg/cache"
)

// reviewNamespace seeds deterministic review IDs so a re-sync overwrites instead of duplicating.
var reviewNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("reviewdesk/reviews"))

type reviewService struct {
	users    db.UserRepository
	reviews  db.ReviewRepository
	places   PlacesAPI
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewReviewService creates a ReviewService. c may be nil to disable caching of place details.
func NewReviewService(users db.UserRepository, reviews db.ReviewRepository, api PlacesAPI, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) ReviewService {
	return &reviewService{
		users:    users,
		reviews:  reviews,
		places:   api,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Sync fetches the business's (or one branch's) public reviews, stores them and
// refreshes the rating summary on the profile.
func (s *reviewService) Sync(ctx context.Context, uid, branchName string) (*models.ReviewSummary, error) {
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.BusinessInfo == nil || user.BusinessInfo.Name == "" {
		return nil, ErrBusinessInfoMissing
	}

	placeID, err := s.lookupPlace(ctx, user.BusinessInfo, branchName)
	if err != nil {
		return nil, err
	}
	details, err := s.details(ctx, placeID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	reviews := make([]models.Review, 0, len(details.Reviews))
	for _, r := range details.Reviews {
		reviews = append(reviews, models.Review{
			ID:              reviewID(placeID, r),
			AuthorName:      r.AuthorName,
			Rating:          r.Rating,
			Text:            r.Text,
			RelativeTime:    r.RelativeTime,
			Time:            time.Unix(r.Time, 0).UTC(),
			ProfilePhotoURL: r.ProfilePhotoURL,
			PlaceID:         placeID,
			Branch:          branchName,
			FetchedAt:       now,
		})
	}
	if err := s.reviews.Upsert(ctx, uid, reviews); err != nil {
		return nil, err
	}

	// Rating summary describes the business as a whole; branch syncs leave it alone.
	if branchName == "" {
		_, err = s.users.Mutate(ctx, uid, func(u *models.User) error {
			if u.BusinessInfo == nil {
				return ErrBusinessInfoMissing
			}
			u.BusinessInfo.AverageRating = details.Rating
			u.BusinessInfo.TotalReviews = details.UserRatingsTotal
			u.BusinessInfo.LastReviewSync = &now
			u.UpdatedAt = now
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info("Reviews synced",
		zap.String("uid", uid),
		zap.String("place_id", placeID),
		zap.String("branch", branchName),
		zap.Int("reviews", len(reviews)),
	)
	return &models.ReviewSummary{
		PlaceID:      placeID,
		PlaceName:    details.Name,
		Rating:       details.Rating,
		TotalRatings: details.UserRatingsTotal,
		Reviews:      reviews,
	}, nil
}

func (s *reviewService) List(ctx context.Context, uid string) ([]models.Review, error) {
	return s.reviews.ListByOwner(ctx, uid)
}

// lookupPlace returns a stored branch place ID or searches "<business> <branch>".
func (s *reviewService) lookupPlace(ctx context.Context, info *models.BusinessInfo, branchName string) (string, error) {
	query := info.Name
	if branchName != "" {
		branch, ok := findBranch(info.Branches, branchName)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrBranchNotFound, branchName)
		}
		if branch.PlaceID != "" {
			return branch.PlaceID, nil
		}
		query = strings.TrimSpace(info.Name + " " + branch.Name + " " + branch.Address)
	}

	cand, err := s.places.FindPlace(ctx, query)
	if err != nil {
		return "", placesError(err)
	}
	return cand.PlaceID, nil
}

func (s *reviewService) details(ctx context.Context, placeID string) (*places.Details, error) {
	key := "reviews:" + placeID
	if s.cache != nil {
		var cached places.Details
		found, err := cache.GetJSON(ctx, s.cache, key, &cached)
		if err != nil {
			s.logger.Warn("Review cache read failed", zap.String("place_id", placeID), zap.Error(err))
		} else if found {
			return &cached, nil
		}
	}

	details, err := s.places.Details(ctx, placeID)
	if err != nil {
		return nil, placesError(err)
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, details, s.cacheTTL); err != nil {
			s.logger.Warn("Review cache write failed", zap.String("place_id", placeID), zap.Error(err))
		}
	}
	return details, nil
}

func findBranch(branches []models.Branch, name string) (models.Branch, bool) {
	for _, b := range branches {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return models.Branch{}, false
}

func reviewID(placeID string, r places.Review) string {
	key := placeID + "|" + r.AuthorName + "|" + strconv.FormatInt(r.Time, 10)
	return uuid.NewSHA1(reviewNamespace, []byte(key)).String()
}

func placesError(err error) error {
	switch {
	case errors.Is(err, places.ErrPlaceNotFound):
		return ErrPlaceNotFound
	case errors.Is(err, places.ErrUnavailable), errors.Is(err, places.ErrNotConfigured):
		return fmt.Errorf("%w: %v", ErrReviewsUnavailable, err)
	}
	return err
}
