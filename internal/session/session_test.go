package session

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewdesk-backend-go/internal/models"
)

func record(id string, active bool) models.LoginRecord {
	return models.LoginRecord{SessionID: id, IsActive: active, LoginMethod: models.LoginMethodEmail}
}

func TestNewSessionID(t *testing.T) {
	now := time.UnixMilli(1717243200123)
	id := NewSessionID(now)

	assert.Regexp(t, regexp.MustCompile(`^1717243200123_[0-9a-f]{9}$`), id)
	assert.NotEqual(t, id, NewSessionID(now))
}

func TestAppendLogin_ThirdRecord(t *testing.T) {
	history := []models.LoginRecord{record("a", true), record("b", true)}

	got := AppendLogin(history, record("c", false), DefaultHistoryLimit)

	require.Len(t, got, 3)
	active := 0
	for _, r := range got {
		if r.IsActive {
			active++
		}
	}
	assert.Equal(t, 1, active)
	assert.Equal(t, "c", got[2].SessionID)
	assert.True(t, got[2].IsActive)
	// input untouched
	assert.True(t, history[0].IsActive)
}

func TestAppendLogin_CapEvictsOldest(t *testing.T) {
	history := make([]models.LoginRecord, 0, 50)
	for i := 0; i < 50; i++ {
		history = append(history, record(fmt.Sprintf("s%02d", i), false))
	}

	got := AppendLogin(history, record("s50", false), 50)

	require.Len(t, got, 50)
	assert.Equal(t, "s01", got[0].SessionID)
	assert.Equal(t, "s50", got[49].SessionID)
	assert.True(t, got[49].IsActive)
}

func TestAppendLogin_DefaultLimit(t *testing.T) {
	got := AppendLogin(nil, record("only", false), 0)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsActive)
}

func TestEndSession(t *testing.T) {
	history := []models.LoginRecord{record("a", false), record("b", true)}

	assert.True(t, EndSession(history, "b"))
	assert.False(t, history[1].IsActive)
	assert.False(t, EndSession(history, "missing"))
}

func TestSetPreciseLocation(t *testing.T) {
	history := []models.LoginRecord{record("a", false), record("b", true)}
	history[1].Location = models.UnknownLocation("Europe/Lisbon")

	rec, ok := SetPreciseLocation(history, "b", 38.72, -9.14, 12.4)
	require.True(t, ok)
	assert.Equal(t, "gps", rec.Location.Source)
	assert.Equal(t, "12m", rec.Location.Accuracy)
	assert.InDelta(t, 38.72, *history[1].Location.Latitude, 1e-9)
	assert.InDelta(t, -9.14, *history[1].Location.Longitude, 1e-9)

	_, ok = SetPreciseLocation(history, "zzz", 0, 0, 0)
	assert.False(t, ok)
}

func TestNewestFirst(t *testing.T) {
	got := NewestFirst([]models.LoginRecord{record("a", false), record("b", false), record("c", true)})
	assert.Equal(t, []string{"c", "b", "a"}, []string{got[0].SessionID, got[1].SessionID, got[2].SessionID})
	assert.Empty(t, NewestFirst(nil))
}

func TestSession_IsAdmin(t *testing.T) {
	assert.True(t, Session{Role: models.RoleAdmin}.IsAdmin())
	assert.False(t, Session{Role: models.RoleBusinessUser}.IsAdmin())
}
