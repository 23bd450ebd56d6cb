// Package session holds the authenticated session value and the login-history rules.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reviewdesk-backend-go/internal/models"
)

// DefaultHistoryLimit is the number of login records kept per user.
const DefaultHistoryLimit = 50

// ContextKey is the gin context key under which the auth middleware stores the Session.
const ContextKey = "session"

// Session is the authenticated caller, derived from a verified ID token and the user document.
// SessionID is empty until a login has been recorded for the token.
type Session struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	SessionID string `json:"sessionId,omitempty"`
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// NewSessionID returns "<unix millis>_<9 random characters>".
func NewSessionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%d_%s", now.UnixMilli(), suffix)
}

// AppendLogin returns a new history with every existing record inactive, rec appended
// as the only active record, and at most limit entries (oldest dropped first).
// The input slice is not modified.
func AppendLogin(history []models.LoginRecord, rec models.LoginRecord, limit int) []models.LoginRecord {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	out := make([]models.LoginRecord, 0, len(history)+1)
	for _, r := range history {
		r.IsActive = false
		out = append(out, r)
	}
	rec.IsActive = true
	out = append(out, rec)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// EndSession marks the record with sessionID inactive. It reports whether a record matched.
func EndSession(history []models.LoginRecord, sessionID string) bool {
	for i := range history {
		if history[i].SessionID == sessionID {
			history[i].IsActive = false
			return true
		}
	}
	return false
}

// SetPreciseLocation stores browser-supplied coordinates on the record with sessionID.
func SetPreciseLocation(history []models.LoginRecord, sessionID string, lat, lon, accuracyMeters float64) (*models.LoginRecord, bool) {
	for i := range history {
		if history[i].SessionID != sessionID {
			continue
		}
		loc := &history[i].Location
		loc.Latitude = &lat
		loc.Longitude = &lon
		loc.Accuracy = fmt.Sprintf("%.0fm", accuracyMeters)
		loc.Source = "gps"
		return &history[i], true
	}
	return nil, false
}

// NewestFirst returns a reversed copy of history.
func NewestFirst(history []models.LoginRecord) []models.LoginRecord {
	out := make([]models.LoginRecord, len(history))
	for i, r := range history {
		out[len(history)-1-i] = r
	}
	return out
}
