package notification

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"carvistors/models"

	"go.uber.org/zap"
)

// validateContent trims the text fields and applies defaults.
func validateContent(content models.NotificationContent) (models.NotificationContent, error) {
	content.Title = strings.TrimSpace(content.Title)
	content.Message = strings.TrimSpace(content.Message)
	if content.Title == "" || content.Message == "" {
		return content, fmt.Errorf("%w: title and message are required", ErrInvalidInput)
	}

	category, err := models.ParseCategory(string(content.Category))
	if err != nil {
		return content, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	content.Category = category

	// The stored record owns its metadata.
	metadata := make(map[string]any, len(content.Metadata))
	maps.Copy(metadata, content.Metadata)
	content.Metadata = metadata
	return content, nil
}

// SendToOne validates content, resolves ref and persists one notification.
// Resolution misses return ErrRecipientNotFound and write nothing.
func (s *DefaultNotificationService) SendToOne(
	ctx context.Context,
	ref models.RecipientRef,
	content models.NotificationContent,
) (*models.Notification, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	if err := checkRef(ref.Normalized()); err != nil {
		return nil, err
	}

	recipient, err := s.directory.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	n, err := s.store.Insert(ctx, models.NotificationDraft{
		RecipientID:   recipient.ID,
		RecipientKind: recipient.Kind,
		Title:         content.Title,
		Message:       content.Message,
		Category:      content.Category,
		Link:          content.Link,
		Metadata:      content.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	s.logger.Debug("notification stored",
		zap.String("id", n.ID),
		zap.String("recipientKind", string(n.RecipientKind)),
		zap.String("recipientId", n.RecipientID))
	return n, nil
}

// recipientID returns ref's id directly, resolving through the directory
// only when the ref is email-addressed.
func (s *DefaultNotificationService) recipientID(ctx context.Context, ref models.RecipientRef) (models.RecipientRef, error) {
	ref = ref.Normalized()
	if err := checkRef(ref); err != nil {
		return ref, err
	}
	if ref.HasID() {
		return ref, nil
	}
	recipient, err := s.directory.Resolve(ctx, ref)
	if err != nil {
		return ref, err
	}
	ref.ID = recipient.ID
	return ref, nil
}

// ListForRecipient returns a snapshot of the recipient's notifications, newest first.
func (s *DefaultNotificationService) ListForRecipient(ctx context.Context, ref models.RecipientRef) ([]models.Notification, error) {
	ref, err := s.recipientID(ctx, ref)
	if err != nil {
		return nil, err
	}
	list, err := s.store.FindByRecipient(ctx, ref.Kind, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return list, nil
}

// MarkRead flips one notification to read. Repeating it is a no-op success.
func (s *DefaultNotificationService) MarkRead(ctx context.Context, notificationID string) (*models.Notification, error) {
	notificationID = strings.TrimSpace(notificationID)
	if notificationID == "" {
		return nil, fmt.Errorf("%w: notification id is required", ErrInvalidInput)
	}
	n, err := s.store.MarkRead(ctx, notificationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotificationNotFound, notificationID)
	}
	return n, nil
}

// MarkAllRead flips every unread notification of the recipient.
func (s *DefaultNotificationService) MarkAllRead(ctx context.Context, ref models.RecipientRef) (int64, error) {
	ref, err := s.recipientID(ctx, ref)
	if err != nil {
		return 0, err
	}
	count, err := s.store.MarkAllRead(ctx, ref.Kind, ref.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return count, nil
}

// CountUnread reports how many of the recipient's notifications are unread.
func (s *DefaultNotificationService) CountUnread(ctx context.Context, ref models.RecipientRef) (int64, error) {
	ref, err := s.recipientID(ctx, ref)
	if err != nil {
		return 0, err
	}
	count, err := s.store.CountUnread(ctx, ref.Kind, ref.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return count, nil
}
