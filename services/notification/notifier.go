package notification

import (
	"context"
	"errors"
	"time"

	"carvistors/models"
	"carvistors/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier is the best-effort entry point for business workflows. Its methods
// never return errors: failures are logged and dropped so the calling
// workflow's own outcome is unaffected.
type Notifier struct {
	sender      Sender
	broadcaster Broadcaster
	queue       Enqueuer
	timeout     time.Duration
	logger      *zap.Logger
}

type NotifierOption func(*Notifier)

// WithQueue routes deliveries through asynq; inline delivery is the fallback
// when enqueueing fails.
func WithQueue(q Enqueuer) NotifierOption {
	return func(n *Notifier) { n.queue = q }
}

// WithTimeout bounds each inline delivery.
func WithTimeout(d time.Duration) NotifierOption {
	return func(n *Notifier) { n.timeout = d }
}

func NewNotifier(sender Sender, broadcaster Broadcaster, logger *zap.Logger, opts ...NotifierOption) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Notifier{
		sender:      sender,
		broadcaster: broadcaster,
		timeout:     10 * time.Second,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// detach keeps delivery alive after the triggering request finishes.
func (n *Notifier) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
}

// Notify delivers content to one recipient.
func (n *Notifier) Notify(ctx context.Context, ref models.RecipientRef, content models.NotificationContent) {
	ctx, cancel := n.detach(ctx)
	defer cancel()

	if n.queue != nil {
		task, opts, err := tasks.NewRecipientTask(ref, content)
		if err == nil {
			if _, err = n.queue.EnqueueContext(ctx, task, opts...); err == nil {
				return
			}
		}
		n.logger.Warn("notification enqueue failed, delivering inline", zap.Stringer("recipient", ref), zap.Error(err))
	}

	if _, err := n.sender.SendToOne(ctx, ref, content); err != nil {
		if errors.Is(err, ErrRecipientNotFound) {
			n.logger.Info("notification skipped: recipient not found", zap.Stringer("recipient", ref))
			return
		}
		n.logger.Error("notification delivery failed", zap.Stringer("recipient", ref), zap.String("title", content.Title), zap.Error(err))
	}
}

// NotifyAdmins broadcasts content to every admin account.
func (n *Notifier) NotifyAdmins(ctx context.Context, content models.NotificationContent) {
	ctx, cancel := n.detach(ctx)
	defer cancel()

	if n.queue != nil {
		task, opts, err := tasks.NewAdminsTask(content)
		if err == nil {
			if _, err = n.queue.EnqueueContext(ctx, task, opts...); err == nil {
				return
			}
		}
		n.logger.Warn("admin broadcast enqueue failed, delivering inline", zap.Error(err))
	}

	results, err := n.broadcaster.SendToAllAdmins(ctx, content)
	if err != nil {
		n.logger.Error("admin broadcast failed", zap.String("title", content.Title), zap.Error(err))
		return
	}
	for _, r := range Failed(results) {
		n.logger.Error("admin notification failed", zap.String("adminId", r.AdminID), zap.String("title", content.Title), zap.Error(r.Err))
	}
}
