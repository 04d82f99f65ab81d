package models

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies a notification for presentation.
type Category string

const (
	CategoryInfo    Category = "info"
	CategorySuccess Category = "success"
	CategoryWarning Category = "warning"
	CategoryError   Category = "error"
)

// ParseCategory accepts the four known categories; empty means info.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CategoryInfo, nil
	case CategoryInfo, CategorySuccess, CategoryWarning, CategoryError:
		return c, nil
	default:
		return "", fmt.Errorf("unknown notification category %q", s)
	}
}

// RecipientRef addresses an account either by id or by email.
// When both are set the id wins.
type RecipientRef struct {
	Kind  AccountKind
	ID    string
	Email string
}

// UserRef addresses a user account by id.
func UserRef(id string) RecipientRef {
	return RecipientRef{Kind: KindUser, ID: id}
}

// AdminRef addresses an admin account by id.
func AdminRef(id string) RecipientRef {
	return RecipientRef{Kind: KindAdmin, ID: id}
}

// UserEmailRef addresses a user account by email.
func UserEmailRef(email string) RecipientRef {
	return RecipientRef{Kind: KindUser, Email: email}
}

// Normalized trims the id, normalizes the email and defaults the kind to User.
func (r RecipientRef) Normalized() RecipientRef {
	if r.Kind == "" {
		r.Kind = KindUser
	}
	r.ID = strings.TrimSpace(r.ID)
	r.Email = NormalizeEmail(r.Email)
	return r
}

// HasID reports whether the ref addresses by identifier.
func (r RecipientRef) HasID() bool { return strings.TrimSpace(r.ID) != "" }

// HasEmail reports whether the ref carries an email.
func (r RecipientRef) HasEmail() bool { return NormalizeEmail(r.Email) != "" }

func (r RecipientRef) String() string {
	if r.HasID() {
		return fmt.Sprintf("%s:%s", r.Kind, r.ID)
	}
	return fmt.Sprintf("%s<%s>", r.Kind, r.Email)
}

// NotificationContent is the caller-supplied part of a notification.
type NotificationContent struct {
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Category Category       `json:"category,omitempty"`
	Link     string         `json:"link,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NotificationDraft is a resolved, validated notification awaiting insert.
type NotificationDraft struct {
	RecipientID   string
	RecipientKind AccountKind
	Title         string
	Message       string
	Category      Category
	Link          string
	Metadata      map[string]any
}

// Notification is a persisted in-app notification.
type Notification struct {
	ID            string         `json:"id" bson:"id"`
	RecipientID   string         `json:"recipientId" bson:"recipientId"`
	RecipientKind AccountKind    `json:"recipientKind" bson:"recipientKind"`
	Title         string         `json:"title" bson:"title"`
	Message       string         `json:"message" bson:"message"`
	Category      Category       `json:"category" bson:"category"`
	Link          string         `json:"link" bson:"link"`
	Metadata      map[string]any `json:"metadata" bson:"metadata"`
	Read          bool           `json:"read" bson:"read"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt" bson:"updatedAt"`
}
