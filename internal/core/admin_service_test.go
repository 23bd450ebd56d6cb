package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/entitlement"
	"reviewdesk-backend-go/internal/models"
	"reviewdesk-backend-go/internal/testutil"
)

var adminNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func newTestAdminService(users *testutil.UserStore, idp *testutil.MockIdentity) *adminService {
	svc := NewAdminService(users, idp, zap.NewNop()).(*adminService)
	svc.now = func() time.Time { return adminNow }
	return svc
}

func adminFixtures() *testutil.UserStore {
	return testutil.NewUserStore(
		&models.User{ID: "admin", Role: models.RoleAdmin, Status: models.StatusActive, CreatedAt: adminNow.Add(-72 * time.Hour)},
		&models.User{
			ID: "trial", Role: models.RoleBusinessUser, Status: models.StatusActive, CreatedAt: adminNow.Add(-48 * time.Hour),
			TrialActive: true, TrialEndDate: timePtr(adminNow.AddDate(0, 0, 3)),
			LoginHistory: []models.LoginRecord{{SessionID: "s1"}},
			BusinessInfo: &models.BusinessInfo{Name: "Café Aurora"},
		},
		&models.User{
			ID: "expired", Role: models.RoleBusinessUser, Status: models.StatusActive, CreatedAt: adminNow.Add(-24 * time.Hour),
			TrialEndDate: timePtr(adminNow.AddDate(0, 0, -1)),
		},
	)
}

func TestListUsers(t *testing.T) {
	svc := newTestAdminService(adminFixtures(), &testutil.MockIdentity{})

	got, err := svc.ListUsers(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "expired", got[0].ID)
	assert.Equal(t, entitlement.TrialExpired, got[0].State)
	assert.Equal(t, "Café Aurora", got[1].BusinessName)
	assert.Equal(t, entitlement.TrialActive, got[1].State)

	limited, err := svc.ListUsers(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSetStatus(t *testing.T) {
	users := adminFixtures()
	idp := &testutil.MockIdentity{}
	idp.On("RevokeSessions", mock.Anything, "trial").Return(nil).Once()
	svc := newTestAdminService(users, idp)
	ctx := context.Background()

	u, err := svc.SetStatus(ctx, "trial", models.StatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, u.Status)

	// Reactivating does not revoke.
	_, err = svc.SetStatus(ctx, "trial", models.StatusActive)
	require.NoError(t, err)
	idp.AssertExpectations(t)

	_, err = svc.SetStatus(ctx, "trial", "Banished")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.SetStatus(ctx, "ghost", models.StatusActive)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetSubscription(t *testing.T) {
	users := adminFixtures()
	svc := newTestAdminService(users, &testutil.MockIdentity{})
	ctx := context.Background()

	u, state, err := svc.SetSubscription(ctx, "expired", models.SubscriptionRequest{Active: true})
	require.NoError(t, err)
	assert.Equal(t, entitlement.SubscriptionActive, state)
	assert.True(t, u.SubscriptionActive)
	assert.Equal(t, DefaultSubscriptionPlan, u.SubscriptionPlan)
	assert.False(t, u.TrialActive)

	u, state, err = svc.SetSubscription(ctx, "expired", models.SubscriptionRequest{Active: false})
	require.NoError(t, err)
	assert.Equal(t, entitlement.SubscriptionExpired, state)
	assert.False(t, u.SubscriptionActive)
	assert.Equal(t, entitlement.SubscriptionExpired, entitlement.Classify(users.Peek("expired"), adminNow))

	// Admins are never put on a subscription.
	u, state, err = svc.SetSubscription(ctx, "admin", models.SubscriptionRequest{Active: true, Plan: "pro"})
	require.NoError(t, err)
	assert.Equal(t, entitlement.Admin, state)
	assert.False(t, u.SubscriptionActive)

	_, _, err = svc.SetSubscription(ctx, "ghost", models.SubscriptionRequest{Active: true})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetSubscription_CancelPlanlessSubscription(t *testing.T) {
	users := testutil.NewUserStore(&models.User{
		ID: "comp", Role: models.RoleBusinessUser, Status: models.StatusActive, SubscriptionActive: true,
	})
	svc := newTestAdminService(users, &testutil.MockIdentity{})

	u, state, err := svc.SetSubscription(context.Background(), "comp", models.SubscriptionRequest{Active: false})
	require.NoError(t, err)
	assert.Equal(t, entitlement.SubscriptionExpired, state)
	assert.Equal(t, DefaultSubscriptionPlan, u.SubscriptionPlan)

	// The next login must be denied rather than granted a fresh trial.
	decision := entitlement.Evaluate(users.Peek("comp"), adminNow)
	assert.False(t, decision.Allowed)
	assert.Equal(t, entitlement.ReasonSubscriptionExpired, decision.Reason)
}

func TestStats(t *testing.T) {
	svc := newTestAdminService(adminFixtures(), &testutil.MockIdentity{})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ByState[entitlement.Admin])
	assert.Equal(t, 1, stats.ByState[entitlement.TrialActive])
	assert.Equal(t, 1, stats.ByState[entitlement.TrialExpired])
	assert.Equal(t, 0, stats.ByState[entitlement.SubscriptionActive])
	_, hasNoRecord := stats.ByState[entitlement.NoRecord]
	assert.False(t, hasNoRecord)
}
