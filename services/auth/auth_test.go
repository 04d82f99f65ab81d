package auth

import (
	"context"
	"testing"
	"time"

	"carvistors/config"
	"carvistors/models"
	"carvistors/services/notification"
	"carvistors/tests/testutil"
	"carvistors/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) (*DefaultAuthService, *testutil.MemoryAccounts, *testutil.MemoryNotifications) {
	t.Helper()
	config.AppConfig.JWTSecret = "test-secret"
	accounts := testutil.NewMemoryAccounts()
	store := testutil.NewMemoryNotifications()
	svc, err := notification.NewDefaultNotificationService(notification.NewRecipientDirectory(accounts), store, nil)
	require.NoError(t, err)
	notifier := notification.NewNotifier(svc, notification.NewAdminBroadcaster(accounts, svc, 0, nil), nil)
	auth, err := NewDefaultAuthService(accounts, notifier, time.Hour, nil)
	require.NoError(t, err)
	return auth, accounts, store
}

func TestRegisterUserNotifiesUserAndAdmins(t *testing.T) {
	ctx := context.Background()
	auth, accounts, store := newTestAuth(t)
	admins := []models.Account{
		accounts.Add(models.KindAdmin, "one@carvistors.com"),
		accounts.Add(models.KindAdmin, "two@carvistors.com"),
	}

	resp, err := auth.RegisterUser(ctx, Registration{FirstName: "Ann", Email: "A@B.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", resp.Account.Email)
	assert.NotEmpty(t, resp.Token)

	var welcome, alerts int
	for _, n := range store.All() {
		assert.False(t, n.Read)
		switch n.RecipientKind {
		case models.KindUser:
			welcome++
			assert.Equal(t, resp.Account.ID, n.RecipientID)
			assert.Equal(t, models.CategorySuccess, n.Category)
			assert.Equal(t, "/dashboard", n.Link)
		case models.KindAdmin:
			alerts++
			assert.Equal(t, "New User Registered", n.Title)
			assert.Equal(t, "Ann User (a@b.com) just created an account.", n.Message)
			assert.Equal(t, "a@b.com", n.Metadata["email"])
		}
	}
	assert.Equal(t, 1, welcome)
	assert.Equal(t, len(admins), alerts)

	claims, err := utils.ParseClaims(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Account.ID, claims.Subject)
	assert.Equal(t, models.KindUser, claims.Kind)
}

func TestRegisterUserDuplicate(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newTestAuth(t)
	_, err := auth.RegisterUser(ctx, Registration{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)

	_, err = auth.RegisterUser(ctx, Registration{Email: " A@b.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestRegisterUserSucceedsWhenNotificationsFail(t *testing.T) {
	auth, accounts, store := newTestAuth(t)
	accounts.Add(models.KindAdmin, "one@carvistors.com")
	store.FailInsert = func(models.NotificationDraft) error { return assert.AnError }

	resp, err := auth.RegisterUser(context.Background(), Registration{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Account.ID)
	assert.Equal(t, 0, store.Len())
}

func TestRegisterAdminSingleAdmin(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newTestAuth(t)

	resp, err := auth.RegisterAdmin(ctx, Registration{Email: "boss@carvistors.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.Account.Role)
	assert.Equal(t, models.KindAdmin, resp.Kind)

	_, err = auth.RegisterAdmin(ctx, Registration{Email: "other@carvistors.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrAdminRegistrationClosed)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newTestAuth(t)
	_, err := auth.RegisterUser(ctx, Registration{Email: "a@b.com", Password: "right"})
	require.NoError(t, err)

	resp, err := auth.Login(ctx, "A@B.COM", "right", models.KindUser)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", resp.Account.Email)

	_, err = auth.Login(ctx, "a@b.com", "wrong", models.KindUser)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "a@b.com", "right", models.KindAdmin)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "", "right", models.KindUser)
	assert.ErrorIs(t, err, ErrMissingFields)
}
