package tasks

import (
	"encoding/json"
	"time"

	"carvistors/models"

	"github.com/hibiken/asynq"
)

const (
	TypeNotifyRecipient = "notification:recipient"
	TypeNotifyAdmins    = "notification:admins"

	// QueueNotifications is the asynq queue that carries notification tasks.
	QueueNotifications = "notifications"
)

// RecipientPayload is the body of a TypeNotifyRecipient task.
type RecipientPayload struct {
	Kind    models.AccountKind         `json:"kind"`
	ID      string                     `json:"id,omitempty"`
	Email   string                     `json:"email,omitempty"`
	Content models.NotificationContent `json:"content"`
}

// Ref converts the payload address back into a RecipientRef.
func (p RecipientPayload) Ref() models.RecipientRef {
	return models.RecipientRef{Kind: p.Kind, ID: p.ID, Email: p.Email}
}

// AdminsPayload is the body of a TypeNotifyAdmins task.
type AdminsPayload struct {
	Content models.NotificationContent `json:"content"`
}

func defaultOptions() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Second),
	}
}

// NewRecipientTask builds a task delivering content to one recipient.
func NewRecipientTask(ref models.RecipientRef, content models.NotificationContent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(RecipientPayload{Kind: ref.Kind, ID: ref.ID, Email: ref.Email, Content: content})
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypeNotifyRecipient, b), defaultOptions(), nil
}

// NewAdminsTask builds a task broadcasting content to every admin. The worker
// only asks for a retry when the admin list could not be read, before any row
// was written.
func NewAdminsTask(content models.NotificationContent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(AdminsPayload{Content: content})
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypeNotifyAdmins, b), defaultOptions(), nil
}
