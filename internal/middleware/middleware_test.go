package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/identity"
	"reviewdesk-backend-go/internal/models"
	"reviewdesk-backend-go/internal/observability"
	"reviewdesk-backend-go/internal/session"
	fakes "reviewdesk-backend-go/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(idp *fakes.MockIdentity, users *fakes.UserStore) *gin.Engine {
	auth := NewAuthMiddleware(idp, users, zap.NewNop())
	r := gin.New()
	r.GET("/me", auth.VerifyToken(), func(c *gin.Context) {
		sess, _ := CurrentSession(c)
		c.JSON(http.StatusOK, sess)
	})
	r.GET("/admin", auth.VerifyToken(), auth.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doRequest(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	req.Header.Set(SessionHeader, "1700000000000_abc123def")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVerifyToken(t *testing.T) {
	idp := &fakes.MockIdentity{}
	idp.On("VerifyIDToken", mock.Anything, "good").Return(&identity.Token{UID: "u1", Email: "u1@example.com"}, nil)
	idp.On("VerifyIDToken", mock.Anything, "fresh").Return(&identity.Token{UID: "new"}, nil)
	idp.On("VerifyIDToken", mock.Anything, "bad").Return(nil, errors.New("token expired"))
	users := fakes.NewUserStore(&models.User{ID: "u1", Role: models.RoleBusinessUser})
	r := newAuthRouter(idp, users)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header is required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Bearer"},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, "Invalid or expired"},
		{"known user", "Bearer good", http.StatusOK, `"role":"BUSER"`},
		{"first sign-in", "bearer fresh", http.StatusOK, `"uid":"new"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, "/me", tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}

	w := doRequest(r, "/me", "Bearer good")
	assert.Contains(t, w.Body.String(), `"sessionId":"1700000000000_abc123def"`)
}

func TestVerifyToken_StoreFailure(t *testing.T) {
	idp := &fakes.MockIdentity{}
	idp.On("VerifyIDToken", mock.Anything, "good").Return(&identity.Token{UID: "u1"}, nil)
	users := fakes.NewUserStore()
	users.Err = errors.New("unavailable")

	w := doRequest(newAuthRouter(idp, users), "/me", "Bearer good")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	idp := &fakes.MockIdentity{}
	idp.On("VerifyIDToken", mock.Anything, "owner").Return(&identity.Token{UID: "owner"}, nil)
	idp.On("VerifyIDToken", mock.Anything, "root").Return(&identity.Token{UID: "root"}, nil)
	users := fakes.NewUserStore(
		&models.User{ID: "owner", Role: models.RoleBusinessUser},
		&models.User{ID: "root", Role: models.RoleAdmin},
	)
	r := newAuthRouter(idp, users)

	assert.Equal(t, http.StatusForbidden, doRequest(r, "/admin", "Bearer owner").Code)
	assert.Equal(t, http.StatusNoContent, doRequest(r, "/admin", "Bearer root").Code)
}

func TestRequireEntitlement(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Hour), now.Add(time.Hour)
	idp := &fakes.MockIdentity{}
	for _, uid := range []string{"trial", "late", "lapsed", "blocked", "legacy", "paid", "new"} {
		idp.On("VerifyIDToken", mock.Anything, uid).Return(&identity.Token{UID: uid}, nil)
	}
	users := fakes.NewUserStore(
		&models.User{ID: "trial", Role: models.RoleBusinessUser, Status: models.StatusActive, TrialActive: true, TrialEndDate: &future},
		&models.User{ID: "late", Role: models.RoleBusinessUser, Status: models.StatusActive, TrialActive: true, TrialEndDate: &past},
		&models.User{ID: "lapsed", Role: models.RoleBusinessUser, Status: models.StatusActive, SubscriptionPlan: "pro", TrialEndDate: &past},
		&models.User{ID: "blocked", Role: models.RoleBusinessUser, Status: models.StatusInactive, SubscriptionActive: true},
		&models.User{ID: "legacy", Role: models.RoleBusinessUser, Status: models.StatusActive},
		&models.User{ID: "paid", Role: models.RoleBusinessUser, Status: models.StatusActive, SubscriptionActive: true},
	)

	auth := NewAuthMiddleware(idp, users, zap.NewNop())
	auth.now = func() time.Time { return now }
	r := gin.New()
	r.GET("/links", auth.VerifyToken(), auth.RequireEntitlement(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		token      string
		wantStatus int
		wantReason string
	}{
		{"trial", http.StatusNoContent, ""},
		{"paid", http.StatusNoContent, ""},
		{"legacy", http.StatusNoContent, ""},
		{"new", http.StatusNoContent, ""},
		{"late", http.StatusForbidden, DenialTrialExpired},
		{"lapsed", http.StatusForbidden, DenialSubscriptionExpired},
		{"blocked", http.StatusForbidden, DenialAccountInactive},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			w := doRequest(r, "/links", "Bearer "+tt.token)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantReason != "" {
				assert.Contains(t, w.Body.String(), `"reason":"`+tt.wantReason+`"`)
			}
		})
	}
}

func TestCurrentSession_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := CurrentSession(c)
	assert.False(t, ok)

	c.Set(session.ContextKey, session.Session{})
	_, ok = CurrentSession(c)
	assert.False(t, ok)
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestRequestLogger_CountsRoutes(t *testing.T) {
	metrics := observability.NewMetrics()
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop(), metrics))
	r.GET("/links/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/links/abc", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), `reviewdesk_http_requests_total{method="GET",route="/links/:slug",status="200"} 2`)
	assert.Contains(t, string(body), `reviewdesk_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://app.example.com/, https://admin.example.com"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "Authorization, X-Session-ID")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "x-session-id")
}
