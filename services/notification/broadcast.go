package notification

import (
	"context"
	"fmt"

	"carvistors/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sender delivers one addressed notification.
type Sender interface {
	SendToOne(ctx context.Context, ref models.RecipientRef, content models.NotificationContent) (*models.Notification, error)
}

// Broadcaster fans one notification out to every admin.
type Broadcaster interface {
	SendToAllAdmins(ctx context.Context, content models.NotificationContent) ([]DeliveryResult, error)
}

// DeliveryResult is the per-admin outcome of a broadcast.
type DeliveryResult struct {
	AdminID      string
	Notification *models.Notification
	Err          error
}

// OK reports whether the delivery was persisted.
func (r DeliveryResult) OK() bool { return r.Err == nil && r.Notification != nil }

// Failed filters results down to the unsuccessful deliveries.
func Failed(results []DeliveryResult) []DeliveryResult {
	var out []DeliveryResult
	for _, r := range results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// AdminBroadcaster sends one notification event to each admin account.
type AdminBroadcaster struct {
	accounts    AccountLookup
	sender      Sender
	concurrency int
	logger      *zap.Logger
}

// NewAdminBroadcaster builds a broadcaster. concurrency <= 0 means one
// in-flight send per admin.
func NewAdminBroadcaster(accounts AccountLookup, sender Sender, concurrency int, logger *zap.Logger) *AdminBroadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminBroadcaster{
		accounts:    accounts,
		sender:      sender,
		concurrency: concurrency,
		logger:      logger,
	}
}

// SendToAllAdmins enumerates admins and sends to each concurrently. Individual
// failures are reported in the matching DeliveryResult; the returned error is
// reserved for invalid content and enumeration failures.
func (b *AdminBroadcaster) SendToAllAdmins(ctx context.Context, content models.NotificationContent) ([]DeliveryResult, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	admins, err := b.accounts.List(ctx, models.KindAdmin)
	if err != nil {
		return nil, fmt.Errorf("%w: list admins: %w", ErrStorageUnavailable, err)
	}
	results := make([]DeliveryResult, len(admins))
	if len(admins) == 0 {
		return results, nil
	}

	var g errgroup.Group
	if b.concurrency > 0 {
		g.SetLimit(b.concurrency)
	}
	for i, admin := range admins {
		i, admin := i, admin
		g.Go(func() error {
			results[i] = b.deliver(ctx, admin.ID, content)
			return nil
		})
	}
	_ = g.Wait()

	if failed := Failed(results); len(failed) > 0 {
		b.logger.Warn("admin broadcast partially failed",
			zap.String("title", content.Title),
			zap.Int("admins", len(results)),
			zap.Int("failed", len(failed)))
	}
	return results, nil
}

// deliver isolates one admin's send, including panics from the sender.
func (b *AdminBroadcaster) deliver(ctx context.Context, adminID string, content models.NotificationContent) (res DeliveryResult) {
	res.AdminID = adminID
	defer func() {
		if r := recover(); r != nil {
			res.Notification = nil
			res.Err = fmt.Errorf("delivery to admin %s panicked: %v", adminID, r)
		}
	}()

	// Each send gets its own metadata map.
	c := content
	c.Metadata = make(map[string]any, len(content.Metadata))
	for k, v := range content.Metadata {
		c.Metadata[k] = v
	}

	res.Notification, res.Err = b.sender.SendToOne(ctx, models.AdminRef(adminID), c)
	return res
}
