package core

import (
	"context"
	"time"

	"reviewdesk-backend-go/internal/db"
	"reviewdesk-backend-go/internal/entitlement"
	"reviewdesk-backend-go/internal/identity"
	"reviewdesk-backend-go/internal/models"
	"reviewdesk-backend-go/internal/places"
	"reviewdesk-backend-go/internal/session"
	"reviewdesk-backend-go/pkg/mailer"
)

// SessionService handles sign-in, sign-out and the login history.
type SessionService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	LoginWithPassword(ctx context.Context, email, password string, meta ClientMeta) (*PasswordLoginResult, error)
	Logout(ctx context.Context, sess session.Session) error
	History(ctx context.Context, uid string) ([]models.LoginRecord, error)
	UpdatePreciseLocation(ctx context.Context, sess session.Session, req models.PreciseLocationRequest) (*models.LoginRecord, error)
}

// AccountService manages a business owner's own profile.
type AccountService interface {
	Profile(ctx context.Context, uid string) (*models.User, error)
	Route(ctx context.Context, uid string) (Destination, error)
	SubmitBusinessInfo(ctx context.Context, uid string, req models.BusinessInfoRequest) (*models.User, error)
	SendPasswordReset(ctx context.Context, email string) error
}

// LinkService manages sharable review links.
type LinkService interface {
	Create(ctx context.Context, uid string, ttl time.Duration) (*models.SharableLink, error)
	List(ctx context.Context, uid string) ([]*models.SharableLink, error)
	Deactivate(ctx context.Context, uid, slug string) error
	Resolve(ctx context.Context, uid, slug string) (*PublicLink, error)
}

// ReviewService syncs and lists third-party reviews.
type ReviewService interface {
	Sync(ctx context.Context, uid, branch string) (*models.ReviewSummary, error)
	List(ctx context.Context, uid string) ([]models.Review, error)
}

// CareerService manages job openings, applications and replies.
type CareerService interface {
	ListOpenOpenings(ctx context.Context) ([]*models.JobOpening, error)
	ListAllOpenings(ctx context.Context) ([]*models.JobOpening, error)
	Apply(ctx context.Context, jobID string, req models.JobApplicationRequest) (*models.JobApplication, error)
	CreateOpening(ctx context.Context, req models.JobOpeningRequest) (*models.JobOpening, error)
	UpdateOpening(ctx context.Context, id string, req models.JobOpeningRequest) (*models.JobOpening, error)
	DeleteOpening(ctx context.Context, id string) error
	ListApplications(ctx context.Context, filter db.ApplicationFilter) ([]*models.JobApplication, error)
	UpdateApplicationStatus(ctx context.Context, id, status string) (*models.JobApplication, error)
	Reply(ctx context.Context, applicationID string, req models.EmailReplyRequest, sentBy string) (*models.EmailReply, error)
	ListReplies(ctx context.Context, applicationID string) ([]*models.EmailReply, error)
}

// SettingsService serves site content documents merged over defaults.
type SettingsService interface {
	Get(ctx context.Context, name string) (map[string]interface{}, error)
	Home(ctx context.Context) (*HomeSettings, error)
	Update(ctx context.Context, name string, patch map[string]interface{}) (map[string]interface{}, error)
	Reset(ctx context.Context, name string) error
}

// AdminService covers user administration.
type AdminService interface {
	ListUsers(ctx context.Context, limit int) ([]*UserSummary, error)
	SetStatus(ctx context.Context, uid, status string) (*models.User, error)
	SetSubscription(ctx context.Context, uid string, req models.SubscriptionRequest) (*models.User, entitlement.State, error)
	Stats(ctx context.Context) (*Stats, error)
}

// --- Outbound dependencies ---

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// EventPublisher publishes a message to a named queue.
type EventPublisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

// LocationResolver maps a client IP to a location. It never fails.
type LocationResolver interface {
	Resolve(ctx context.Context, ip, timeZone string) models.LocationInfo
}

// PlacesAPI is the third-party review source.
type PlacesAPI interface {
	FindPlace(ctx context.Context, query string) (*places.Candidate, error)
	Details(ctx context.Context, placeID string) (*places.Details, error)
}

// PasswordAuthenticator signs users in with email and password.
type PasswordAuthenticator interface {
	SignIn(ctx context.Context, email, password string) (*identity.SignInResult, error)
}
