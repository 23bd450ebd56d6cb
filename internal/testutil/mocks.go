package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"reviewdesk-backend-go/internal/identity"
	"reviewdesk-backend-go/internal/models"
	"reviewdesk-backend-go/internal/places"
	"reviewdesk-backend-go/pkg/mailer"
)

// MockIdentity is a mock implementation of identity.Provider.
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) VerifyIDToken(ctx context.Context, idToken string) (*identity.Token, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Token), args.Error(1)
}

func (m *MockIdentity) RevokeSessions(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockIdentity) PasswordResetLink(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockIdentity) GetUserByEmail(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

// MockMailer is a mock mail sender.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockPublisher is a mock event publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, queueName string, body []byte) error {
	args := m.Called(ctx, queueName, body)
	return args.Error(0)
}

// MockPasswords is a mock email/password authenticator.
type MockPasswords struct {
	mock.Mock
}

func (m *MockPasswords) SignIn(ctx context.Context, email, password string) (*identity.SignInResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.SignInResult), args.Error(1)
}

// MockPlaces is a mock places API.
type MockPlaces struct {
	mock.Mock
}

func (m *MockPlaces) FindPlace(ctx context.Context, query string) (*places.Candidate, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*places.Candidate), args.Error(1)
}

func (m *MockPlaces) Details(ctx context.Context, placeID string) (*places.Details, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*places.Details), args.Error(1)
}

// FixedLocation is a resolver that always answers Location.
type FixedLocation struct {
	Location models.LocationInfo
}

func (f FixedLocation) Resolve(_ context.Context, _, _ string) models.LocationInfo {
	return f.Location
}
