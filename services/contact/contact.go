package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carvistors/models"
	"carvistors/services/notification"
)

var ErrMissingFields = errors.New("name, email, subject, and message are required")

// Service relays contact-form submissions to the admins.
type Service struct {
	notifier *notification.Notifier
}

func NewService(notifier *notification.Notifier) *Service {
	return &Service{notifier: notifier}
}

// Submit validates the submission and broadcasts it to every admin. Nothing
// else is persisted.
func (s *Service) Submit(ctx context.Context, sub models.ContactSubmission) (*models.ContactSubmission, error) {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Subject = strings.TrimSpace(sub.Subject)
	sub.Message = strings.TrimSpace(sub.Message)
	if sub.Phone != nil {
		if p := strings.TrimSpace(*sub.Phone); p != "" {
			sub.Phone = &p
		} else {
			sub.Phone = nil
		}
	}
	if sub.Name == "" || sub.Email == "" || sub.Subject == "" || sub.Message == "" {
		return nil, ErrMissingFields
	}

	var phoneLine string
	var phone any
	if sub.Phone != nil {
		phoneLine = " - Phone: " + *sub.Phone
		phone = *sub.Phone
	}

	s.notifier.NotifyAdmins(ctx, models.NotificationContent{
		Title:    "New Contact Form Submission",
		Message:  fmt.Sprintf("%s (%s)%s submitted a contact form.\n\nSubject: %s\n\nMessage: %s", sub.Name, sub.Email, phoneLine, sub.Subject, sub.Message),
		Category: models.CategoryInfo,
		Link:     "/admin/contact",
		Metadata: map[string]any{
			"contactName":    sub.Name,
			"contactEmail":   sub.Email,
			"contactPhone":   phone,
			"contactSubject": sub.Subject,
			"contactMessage": sub.Message,
		},
	})
	return &sub, nil
}
