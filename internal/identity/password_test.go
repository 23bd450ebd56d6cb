package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageFor(t *testing.T) {
	tests := map[string]string{
		CodeInvalidPassword:    "Incorrect password",
		CodeEmailNotFound:      "No account found with this email",
		CodeTooManyAttempts:    "Too many failed attempts. Please try again later",
		CodeInvalidCredentials: "Invalid email or password",
		"SOMETHING_NEW":        "Login failed",
		"":                     "Login failed",
	}
	for code, want := range tests {
		assert.Equal(t, want, MessageFor(code), code)
	}
}

func TestSignIn_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "web-key", r.URL.Query().Get("key"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "owner@example.com", body["email"])
		assert.Equal(t, true, body["returnSecureToken"])

		_, _ = w.Write([]byte(`{"localId":"uid-1","email":"owner@example.com","idToken":"tok","refreshToken":"ref","expiresIn":"3600"}`))
	}))
	defer srv.Close()

	c := NewPasswordClient(srv.Client(), srv.URL, "web-key")
	res, err := c.SignIn(context.Background(), "owner@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "uid-1", res.UID)
	assert.Equal(t, "tok", res.IDToken)
}

func TestSignIn_ProviderErrorIsMapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"TOO_MANY_ATTEMPTS_TRY_LATER : Access to this account has been temporarily disabled"}}`))
	}))
	defer srv.Close()

	c := NewPasswordClient(srv.Client(), srv.URL, "web-key")
	_, err := c.SignIn(context.Background(), "owner@example.com", "wrong")

	var signInErr *SignInError
	require.True(t, errors.As(err, &signInErr))
	assert.Equal(t, CodeTooManyAttempts, signInErr.Code)
	assert.Equal(t, "Too many failed attempts. Please try again later", err.Error())
}

func TestSignIn_UnreadableErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewPasswordClient(srv.Client(), srv.URL, "k").SignIn(context.Background(), "a@b.co", "x")
	require.Error(t, err)
	assert.Equal(t, "Login failed", err.Error())
}
