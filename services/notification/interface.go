package notification

import (
	"context"
	"fmt"

	notificationRepo "carvistors/database/repository/notification"
	"carvistors/models"

	"go.uber.org/zap"
)

// NotificationService creates addressed notifications and serves a
// recipient's inbox.
type NotificationService interface {
	SendToOne(ctx context.Context, ref models.RecipientRef, content models.NotificationContent) (*models.Notification, error)
	ListForRecipient(ctx context.Context, ref models.RecipientRef) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, ref models.RecipientRef) (int64, error)
	CountUnread(ctx context.Context, ref models.RecipientRef) (int64, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	directory *RecipientDirectory
	store     notificationRepo.NotificationRepository
	logger    *zap.Logger
}

func NewDefaultNotificationService(
	directory *RecipientDirectory,
	store notificationRepo.NotificationRepository,
	logger *zap.Logger,
) (*DefaultNotificationService, error) {
	if directory == nil || store == nil {
		return nil, fmt.Errorf("notification service initialization error: directory or store is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{
		directory: directory,
		store:     store,
		logger:    logger,
	}, nil
}
