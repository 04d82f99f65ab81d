package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"carvistors/config"
	"carvistors/models"
	"carvistors/services/notification"
	"carvistors/services/tasks"
	"carvistors/tests/testutil"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWorkerDeps(t *testing.T) (*asynq.ServeMux, *testutil.MemoryAccounts, *testutil.MemoryNotifications) {
	t.Helper()
	accounts := testutil.NewMemoryAccounts()
	store := testutil.NewMemoryNotifications()
	svc, err := notification.NewDefaultNotificationService(notification.NewRecipientDirectory(accounts), store, nil)
	require.NoError(t, err)
	b := notification.NewAdminBroadcaster(accounts, svc, 0, nil)
	return NewMux(svc, b, zap.NewNop()), accounts, store
}

func TestRecipientTask(t *testing.T) {
	mux, accounts, store := newWorkerDeps(t)
	u := accounts.Add(models.KindUser, "a@b.com")

	task, _, err := tasks.NewRecipientTask(models.UserRef(u.ID), models.NotificationContent{Title: "t", Message: "m"})
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))
	assert.Equal(t, 1, store.Len())
}

func TestRecipientTaskNotFoundSkipsRetry(t *testing.T) {
	mux, _, store := newWorkerDeps(t)

	task, _, err := tasks.NewRecipientTask(models.UserEmailRef("ghost@b.com"), models.NotificationContent{Title: "t", Message: "m"})
	require.NoError(t, err)
	err = mux.ProcessTask(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Equal(t, 0, store.Len())
}

func TestRecipientTaskStorageErrorRetries(t *testing.T) {
	mux, accounts, store := newWorkerDeps(t)
	u := accounts.Add(models.KindUser, "a@b.com")
	store.FailInsert = func(models.NotificationDraft) error { return errors.New("primary stepped down") }

	task, _, err := tasks.NewRecipientTask(models.UserRef(u.ID), models.NotificationContent{Title: "t", Message: "m"})
	require.NoError(t, err)
	err = mux.ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestBadPayloadSkipsRetry(t *testing.T) {
	mux, _, _ := newWorkerDeps(t)
	err := mux.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeNotifyRecipient, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestAdminsTaskPartialFailureSucceeds(t *testing.T) {
	mux, accounts, store := newWorkerDeps(t)
	accounts.Add(models.KindAdmin, "one@carvistors.com")
	bad := accounts.Add(models.KindAdmin, "two@carvistors.com")
	store.FailInsert = func(d models.NotificationDraft) error {
		if d.RecipientID == bad.ID {
			return errors.New("timeout")
		}
		return nil
	}

	task, _, err := tasks.NewAdminsTask(models.NotificationContent{Title: "t", Message: "m"})
	require.NoError(t, err)
	assert.NoError(t, mux.ProcessTask(context.Background(), task))
	assert.Equal(t, 1, store.Len())
}

func TestAdminsTaskListFailureRetries(t *testing.T) {
	mux, accounts, store := newWorkerDeps(t)
	accounts.Err = errors.New("server selection timeout")

	task, _, err := tasks.NewAdminsTask(models.NotificationContent{Title: "t", Message: "m"})
	require.NoError(t, err)
	err = mux.ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, notification.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
	assert.Equal(t, 0, store.Len())
}

func TestAdminsTaskInvalidContentSkipsRetry(t *testing.T) {
	mux, accounts, _ := newWorkerDeps(t)
	accounts.Add(models.KindAdmin, "one@carvistors.com")

	task, _, err := tasks.NewAdminsTask(models.NotificationContent{Title: " ", Message: "m"})
	require.NoError(t, err)
	assert.ErrorIs(t, mux.ProcessTask(context.Background(), task), asynq.SkipRetry)
}

func TestMonitorRedisConnectionStopsOnCancel(t *testing.T) {
	prev := config.AppConfig
	config.AppConfig.RedisAddr = "127.0.0.1:1"
	t.Cleanup(func() { config.AppConfig = prev })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		monitorRedisConnection(ctx, zap.NewNop(), time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
