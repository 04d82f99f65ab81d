package contact

import (
	"context"
	"testing"

	"carvistors/models"
	"carvistors/services/notification"
	"carvistors/tests/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *testutil.MemoryAccounts, *testutil.MemoryNotifications) {
	t.Helper()
	accounts := testutil.NewMemoryAccounts()
	store := testutil.NewMemoryNotifications()
	ns, err := notification.NewDefaultNotificationService(notification.NewRecipientDirectory(accounts), store, nil)
	require.NoError(t, err)
	return NewService(notification.NewNotifier(ns, notification.NewAdminBroadcaster(accounts, ns, 0, nil), nil)), accounts, store
}

func TestSubmitBroadcasts(t *testing.T) {
	svc, accounts, store := newTestService(t)
	accounts.Add(models.KindAdmin, "one@carvistors.com")
	accounts.Add(models.KindAdmin, "two@carvistors.com")
	phone := "555-0100"

	got, err := svc.Submit(context.Background(), models.ContactSubmission{
		Name: "Ann", Email: "ann@b.com", Phone: &phone, Subject: "Refund", Message: "Please help",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)

	all := store.All()
	require.Len(t, all, 2)
	for _, n := range all {
		assert.Equal(t, models.KindAdmin, n.RecipientKind)
		assert.Equal(t, "New Contact Form Submission", n.Title)
		assert.Equal(t, "Ann (ann@b.com) - Phone: 555-0100 submitted a contact form.\n\nSubject: Refund\n\nMessage: Please help", n.Message)
		assert.Equal(t, "/admin/contact", n.Link)
		assert.Equal(t, "555-0100", n.Metadata["contactPhone"])
	}
}

func TestSubmitWithoutPhone(t *testing.T) {
	svc, accounts, store := newTestService(t)
	accounts.Add(models.KindAdmin, "one@carvistors.com")

	_, err := svc.Submit(context.Background(), models.ContactSubmission{Name: "Ann", Email: "ann@b.com", Subject: "Hi", Message: "Hello"})
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
	n := store.All()[0]
	assert.NotContains(t, n.Message, "Phone")
	assert.Nil(t, n.Metadata["contactPhone"])
}

func TestSubmitRequiresFields(t *testing.T) {
	svc, _, store := newTestService(t)
	_, err := svc.Submit(context.Background(), models.ContactSubmission{Name: "Ann", Email: "ann@b.com", Subject: " "})
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Equal(t, 0, store.Len())
}
