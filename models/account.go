// models/account.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// AccountKind tags which account collection a document lives in.
type AccountKind string

const (
	KindUser  AccountKind = "User"
	KindAdmin AccountKind = "Admin"
)

// ParseAccountKind maps the wire values "user"/"admin" (any case) onto a kind.
// An empty value defaults to KindUser.
func ParseAccountKind(s string) (AccountKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user":
		return KindUser, nil
	case "admin":
		return KindAdmin, nil
	default:
		return "", fmt.Errorf("unknown account kind %q", s)
	}
}

// Valid reports whether k is one of the known kinds.
func (k AccountKind) Valid() bool {
	return k == KindUser || k == KindAdmin
}

const RoleAdmin = "admin"

// Account is a platform user or administrator.
type Account struct {
	ID           string    `json:"id" bson:"id"`
	FirstName    string    `json:"firstName" bson:"firstName"`
	LastName     string    `json:"lastName" bson:"lastName"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         string    `json:"role,omitempty" bson:"role,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NormalizeEmail lowercases and trims an address for lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
