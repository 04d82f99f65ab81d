package notificationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carvistors/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Insert persists a new notification. Read is always false on insert.
func (r *mongoNotificationRepo) Insert(ctx context.Context, draft models.NotificationDraft) (*models.Notification, error) {
	now := time.Now().UTC()
	metadata := draft.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	n := &models.Notification{
		ID:            uuid.New().String(),
		RecipientID:   draft.RecipientID,
		RecipientKind: draft.RecipientKind,
		Title:         draft.Title,
		Message:       draft.Message,
		Category:      draft.Category,
		Link:          draft.Link,
		Metadata:      metadata,
		Read:          false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}
	return n, nil
}

// FindByRecipient fetches a recipient's notifications sorted by createdAt descending.
func (r *mongoNotificationRepo) FindByRecipient(ctx context.Context, kind models.AccountKind, recipientID string) ([]models.Notification, error) {
	filter := bson.M{"recipientKind": kind, "recipientId": recipientID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications for %s %s: %w", kind, recipientID, err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead sets read=true on an unread notification. An already-read
// notification is returned unchanged.
func (r *mongoNotificationRepo) MarkRead(ctx context.Context, id string) (*models.Notification, error) {
	filter := bson.M{"id": id, "read": false}
	update := bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n models.Notification
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&n)
	if err == nil {
		return &n, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}

	// Either unknown or already read.
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch notification %s: %w", id, err)
	}
	return &n, nil
}

// MarkAllRead flips every unread notification of the recipient.
func (r *mongoNotificationRepo) MarkAllRead(ctx context.Context, kind models.AccountKind, recipientID string) (int64, error) {
	filter := bson.M{"recipientKind": kind, "recipientId": recipientID, "read": false}
	update := bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now().UTC()}}

	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read for %s %s: %w", kind, recipientID, err)
	}
	return res.ModifiedCount, nil
}

// CountUnread counts the unread notifications of the recipient.
func (r *mongoNotificationRepo) CountUnread(ctx context.Context, kind models.AccountKind, recipientID string) (int64, error) {
	filter := bson.M{"recipientKind": kind, "recipientId": recipientID, "read": false}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for %s %s: %w", kind, recipientID, err)
	}
	return n, nil
}
