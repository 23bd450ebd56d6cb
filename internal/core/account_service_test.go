package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/identity"
	"reviewdesk-backend-go/internal/models"
	"reviewdesk-backend-go/internal/testutil"
	"reviewdesk-backend-go/pkg/mailer"
)

func TestSubmitBusinessInfo_KeepsReviewMetrics(t *testing.T) {
	users := testutil.NewUserStore(&models.User{
		ID: "u1", Role: models.RoleBusinessUser,
		BusinessInfo: &models.BusinessInfo{Name: "Old", AverageRating: 4.6, TotalReviews: 120},
	})
	svc := NewAccountService(users, &testutil.MockIdentity{}, nil, zap.NewNop())

	user, err := svc.SubmitBusinessInfo(context.Background(), "u1", models.BusinessInfoRequest{
		Name:     "  Café Aurora ",
		Branches: []models.Branch{{Name: "Baixa", Address: "Rua Augusta 1"}},
	})
	require.NoError(t, err)
	assert.True(t, user.BusinessFormFilled)
	assert.Equal(t, "Café Aurora", user.BusinessInfo.Name)
	assert.Equal(t, 4.6, user.BusinessInfo.AverageRating)
	assert.Equal(t, 120, user.BusinessInfo.TotalReviews)

	dest, err := svc.Route(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, RouteDashboard, dest)
}

func TestProfile_NotFound(t *testing.T) {
	svc := NewAccountService(testutil.NewUserStore(), &testutil.MockIdentity{}, nil, zap.NewNop())
	_, err := svc.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSendPasswordReset(t *testing.T) {
	t.Run("sends link", func(t *testing.T) {
		idp := &testutil.MockIdentity{}
		idp.On("PasswordResetLink", mock.Anything, "a@example.com").Return("https://reset.example/abc", nil)
		m := &testutil.MockMailer{}
		m.On("Send", mock.Anything, mock.MatchedBy(func(msg mailer.Message) bool {
			return msg.To == "a@example.com" && strings.Contains(msg.Body, "https://reset.example/abc")
		})).Return(nil).Once()

		svc := NewAccountService(testutil.NewUserStore(), idp, m, zap.NewNop())
		require.NoError(t, svc.SendPasswordReset(context.Background(), "a@example.com"))
		m.AssertExpectations(t)
	})

	t.Run("unknown email is silent", func(t *testing.T) {
		idp := &testutil.MockIdentity{}
		idp.On("PasswordResetLink", mock.Anything, "nobody@example.com").Return("", identity.ErrUserNotFound)
		m := &testutil.MockMailer{}

		svc := NewAccountService(testutil.NewUserStore(), idp, m, zap.NewNop())
		require.NoError(t, svc.SendPasswordReset(context.Background(), "nobody@example.com"))
		m.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("mail failure", func(t *testing.T) {
		idp := &testutil.MockIdentity{}
		idp.On("PasswordResetLink", mock.Anything, "a@example.com").Return("https://reset.example/abc", nil)
		m := &testutil.MockMailer{}
		m.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		svc := NewAccountService(testutil.NewUserStore(), idp, m, zap.NewNop())
		assert.Error(t, svc.SendPasswordReset(context.Background(), "a@example.com"))
	})

	t.Run("no mailer", func(t *testing.T) {
		svc := NewAccountService(testutil.NewUserStore(), &testutil.MockIdentity{}, nil, zap.NewNop())
		assert.ErrorIs(t, svc.SendPasswordReset(context.Background(), "a@example.com"), ErrMailUnavailable)
	})
}
