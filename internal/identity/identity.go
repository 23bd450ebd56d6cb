// Package identity wraps the Firebase identity provider.
package identity

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// ErrUserNotFound is returned when no identity exists for an email or UID.
var ErrUserNotFound = errors.New("identity not found")

// Token is the subset of a verified ID token the service relies on.
type Token struct {
	UID           string
	Email         string
	EmailVerified bool
	SignInMethod  string
}

// Provider is the identity operations used by the service layer.
type Provider interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Token, error)
	RevokeSessions(ctx context.Context, uid string) error
	PasswordResetLink(ctx context.Context, email string) (string, error)
	GetUserByEmail(ctx context.Context, email string) (string, error)
}

// FirebaseProvider implements Provider over the Firebase Admin auth client.
type FirebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider creates a FirebaseProvider.
func NewFirebaseProvider(client *auth.Client) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

// VerifyIDToken checks the token signature and expiry and that it was not revoked.
func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, idToken string) (*Token, error) {
	tok, err := p.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	t := &Token{UID: tok.UID, SignInMethod: signInProvider(tok)}
	if email, ok := tok.Claims["email"].(string); ok {
		t.Email = email
	}
	if verified, ok := tok.Claims["email_verified"].(bool); ok {
		t.EmailVerified = verified
	}
	return t, nil
}

// RevokeSessions invalidates every refresh token of uid, signing the user out everywhere.
func (p *FirebaseProvider) RevokeSessions(ctx context.Context, uid string) error {
	if err := p.client.RevokeRefreshTokens(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return fmt.Errorf("revoke sessions for %s: %w", uid, ErrUserNotFound)
		}
		return fmt.Errorf("revoke sessions for %s: %w", uid, err)
	}
	return nil
}

// PasswordResetLink generates an out-of-band password reset link.
func (p *FirebaseProvider) PasswordResetLink(ctx context.Context, email string) (string, error) {
	link, err := p.client.PasswordResetLink(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("password reset link: %w", err)
	}
	return link, nil
}

// GetUserByEmail returns the UID registered for email.
func (p *FirebaseProvider) GetUserByEmail(ctx context.Context, email string) (string, error) {
	u, err := p.client.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("get user by email: %w", err)
	}
	return u.UID, nil
}

func signInProvider(tok *auth.Token) string {
	switch tok.Firebase.SignInProvider {
	case "google.com":
		return "google"
	case "password":
		return "email"
	}
	return tok.Firebase.SignInProvider
}
