package notificationRepo

import (
	"context"

	"carvistors/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// NotificationRepository is the durable record of in-app notifications.
type NotificationRepository interface {
	// Insert assigns id and timestamps to draft and persists it.
	Insert(ctx context.Context, draft models.NotificationDraft) (*models.Notification, error)
	// FindByRecipient returns every notification for a recipient, newest first.
	FindByRecipient(ctx context.Context, kind models.AccountKind, recipientID string) ([]models.Notification, error)
	// MarkRead flips one notification to read. Returns (nil, nil) if the id is unknown.
	MarkRead(ctx context.Context, id string) (*models.Notification, error)
	// MarkAllRead flips every unread notification of a recipient and returns how many changed.
	MarkAllRead(ctx context.Context, kind models.AccountKind, recipientID string) (int64, error)
	// CountUnread returns the number of unread notifications for a recipient.
	CountUnread(ctx context.Context, kind models.AccountKind, recipientID string) (int64, error)
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo returns a NotificationRepository on the "notifications" collection.
func NewMongoNotificationRepo(db *mongo.Database) NotificationRepository {
	repo := &mongoNotificationRepo{coll: db.Collection("notifications")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("notification repo: failed to create indexes", zap.Error(err))
	}
	return repo
}
