package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultIdentityToolkitURL is the Identity Toolkit REST endpoint.
const DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com"

// Provider error codes returned by accounts:signInWithPassword.
const (
	CodeEmailNotFound      = "EMAIL_NOT_FOUND"
	CodeInvalidPassword    = "INVALID_PASSWORD"
	CodeTooManyAttempts    = "TOO_MANY_ATTEMPTS_TRY_LATER"
	CodeInvalidCredentials = "INVALID_LOGIN_CREDENTIALS"
	CodeUserDisabled       = "USER_DISABLED"
	CodeInvalidEmail       = "INVALID_EMAIL"
)

var signInMessages = map[string]string{
	CodeEmailNotFound:      "No account found with this email",
	CodeInvalidPassword:    "Incorrect password",
	CodeTooManyAttempts:    "Too many failed attempts. Please try again later",
	CodeInvalidCredentials: "Invalid email or password",
	CodeUserDisabled:       "This account has been disabled",
	CodeInvalidEmail:       "Invalid email address",
}

// MessageFor maps a provider error code to a user-facing message.
func MessageFor(code string) string {
	if msg, ok := signInMessages[code]; ok {
		return msg
	}
	return "Login failed"
}

// SignInError is a rejected email/password sign-in.
type SignInError struct {
	Code string
}

func (e *SignInError) Error() string {
	return MessageFor(e.Code)
}

// SignInResult is a successful password sign-in.
type SignInResult struct {
	UID          string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// PasswordClient signs users in with email and password.
type PasswordClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewPasswordClient creates a PasswordClient. baseURL defaults to DefaultIdentityToolkitURL.
func NewPasswordClient(httpClient *http.Client, baseURL, apiKey string) *PasswordClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultIdentityToolkitURL
	}
	return &PasswordClient{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

// SignIn exchanges credentials for an ID token. Rejections are returned as *SignInError.
func (c *PasswordClient) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, fmt.Errorf("encode sign-in request: %w", err)
	}

	endpoint := c.baseURL + "/v1/accounts:signInWithPassword?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign-in request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("read sign-in response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(body, &apiErr)
		return nil, &SignInError{Code: errorCode(apiErr.Error.Message)}
	}

	var result SignInResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode sign-in response: %w", err)
	}
	return &result, nil
}

// errorCode strips the optional " : detail" suffix from a provider message.
func errorCode(message string) string {
	code, _, _ := strings.Cut(message, " ")
	return strings.TrimSpace(code)
}
