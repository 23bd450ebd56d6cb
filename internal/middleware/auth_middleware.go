package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/db"
	"reviewdesk-backend-go/internal/entitlement"
	"reviewdesk-backend-go/internal/identity"
	"reviewdesk-backend-go/internal/models"
	"reviewdesk-backend-go/internal/session"
)

// SessionHeader carries the session ID returned by POST /sessions on later requests.
const SessionHeader = "X-Session-ID"

// userContextKey holds the *models.User loaded by VerifyToken, absent before the first sign-in.
const userContextKey = "user"

// Denial reasons and the front-end pages a denied user is sent to.
const (
	DenialAccountInactive     = "account_inactive"
	DenialTrialExpired        = "trial_expired"
	DenialSubscriptionExpired = "subscription_expired"
	RedirectPricing           = "/pricing"
	RedirectSupport           = "/support"
)

// DenialResponse is returned with 403 when an account may not use the service.
type DenialResponse struct {
	Error    string `json:"error"`
	Reason   string `json:"reason"`
	Redirect string `json:"redirect"`
}

// NewDenial builds the response body for reason.
func NewDenial(reason string) DenialResponse {
	switch reason {
	case DenialAccountInactive:
		return DenialResponse{Error: "Your account is inactive. Please contact support.", Reason: reason, Redirect: RedirectSupport}
	case DenialSubscriptionExpired:
		return DenialResponse{Error: "Your subscription has expired. Renew to continue.", Reason: reason, Redirect: RedirectPricing}
	default:
		return DenialResponse{Error: "Your free trial has ended. Choose a plan to continue.", Reason: DenialTrialExpired, Redirect: RedirectPricing}
	}
}

// ErrorResponse mirrors api.ErrorResponse; it is redeclared here to avoid an import cycle.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware verifies identity-provider ID tokens and loads the caller's role.
type AuthMiddleware struct {
	identity identity.Provider
	users    db.UserRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(idp identity.Provider, users db.UserRepository, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{identity: idp, users: users, logger: logger, now: time.Now}
}

// VerifyToken checks the Bearer token and stores a session.Session in the context.
// A caller without a user document yet gets an empty role; POST /sessions creates it.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.identity.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			m.logger.Info("Rejected ID token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		sess := session.Session{
			UID:       token.UID,
			Email:     token.Email,
			SessionID: c.GetHeader(SessionHeader),
		}
		user, err := m.users.GetByID(c.Request.Context(), token.UID)
		switch {
		case err == nil:
			sess.Role = user.Role
			c.Set(userContextKey, user)
		case errors.Is(err, db.ErrNotFound):
		default:
			m.logger.Error("Failed to load user for session", zap.String("uid", token.UID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load user profile"})
			return
		}

		c.Set(session.ContextKey, sess)
		c.Set("signInMethod", token.SignInMethod)
		c.Next()
	}
}

// RequireEntitlement applies the sign-in checks to every request: accounts that are
// not Active, or whose trial or subscription has lapsed, get a 403 denial. Callers
// without a user document pass; POST /sessions creates it. It must run after VerifyToken.
func (m *AuthMiddleware) RequireEntitlement() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(userContextKey)
		if !ok {
			c.Next()
			return
		}
		user, _ := v.(*models.User)
		if user == nil {
			c.Next()
			return
		}

		reason := ""
		if user.Status != models.StatusActive {
			reason = DenialAccountInactive
		} else {
			switch entitlement.Classify(user, m.now().UTC()) {
			case entitlement.TrialExpired:
				reason = DenialTrialExpired
			case entitlement.SubscriptionExpired:
				reason = DenialSubscriptionExpired
			}
		}
		if reason != "" {
			m.logger.Info("Request denied by entitlement",
				zap.String("uid", user.ID),
				zap.String("reason", reason),
				zap.String("path", c.FullPath()),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, NewDenial(reason))
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects callers without the administrator role. It must run after VerifyToken.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
			return
		}
		if !sess.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Administrator access required"})
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session stored by VerifyToken.
func CurrentSession(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(session.ContextKey)
	if !ok {
		return session.Session{}, false
	}
	sess, ok := v.(session.Session)
	return sess, ok && sess.UID != ""
}
