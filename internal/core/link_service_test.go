package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/models"
	"reviewdesk-backend-go/internal/testutil"
)

func newTestLinkService(now time.Time) (*linkService, *testutil.LinkStore) {
	users := testutil.NewUserStore(&models.User{
		ID: "owner",
		BusinessInfo: &models.BusinessInfo{
			Name:     "Café Aurora",
			Branches: []models.Branch{{Name: "Baixa"}},
		},
	})
	links := testutil.NewLinkStore()
	svc := NewLinkService(links, users, 0, zap.NewNop()).(*linkService)
	svc.now = func() time.Time { return now }
	return svc, links
}

func TestLinkLifecycle(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestLinkService(now)
	ctx := context.Background()

	link, err := svc.Create(ctx, "owner", 0)
	require.NoError(t, err)
	assert.Len(t, link.Slug, slugLength)
	assert.Equal(t, now.Add(DefaultLinkTTL), link.ExpiresAt)
	assert.True(t, link.Active)

	pub, err := svc.Resolve(ctx, "owner", link.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Café Aurora", pub.BusinessName)
	assert.Len(t, pub.Branches, 1)

	list, err := svc.List(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Deactivate(ctx, "owner", link.Slug))
	_, err = svc.Resolve(ctx, "owner", link.Slug)
	assert.ErrorIs(t, err, ErrLinkInactive)

	// Deactivating twice is a no-op.
	assert.NoError(t, svc.Deactivate(ctx, "owner", link.Slug))
}

func TestResolve_Expired(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestLinkService(now)
	ctx := context.Background()

	link, err := svc.Create(ctx, "owner", time.Hour)
	require.NoError(t, err)

	svc.now = func() time.Time { return now.Add(time.Hour) }
	_, err = svc.Resolve(ctx, "owner", link.Slug)
	assert.ErrorIs(t, err, ErrLinkExpired)
}

func TestLinkErrors(t *testing.T) {
	svc, _ := newTestLinkService(time.Now())
	ctx := context.Background()

	_, err := svc.Create(ctx, "ghost", 0)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Resolve(ctx, "owner", "missing")
	assert.ErrorIs(t, err, ErrLinkNotFound)

	assert.ErrorIs(t, svc.Deactivate(ctx, "owner", "missing"), ErrLinkNotFound)
}
