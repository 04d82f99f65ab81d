package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	accountRepo "carvistors/database/repository/account"
	"carvistors/models"
	"carvistors/services/notification"

	"go.uber.org/zap"
)

var (
	ErrAccountExists           = errors.New("account already exists")
	ErrAdminRegistrationClosed = errors.New("admin registration is not allowed, only one admin can exist")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrMissingFields           = errors.New("email and password are required")
)

// Registration is the input for creating an account.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role,omitempty"`
}

// AuthResponse carries the issued token and the public account view.
type AuthResponse struct {
	Token   string             `json:"token"`
	Kind    models.AccountKind `json:"userType"`
	Account *models.Account    `json:"account"`
}

// AuthService registers and authenticates users and admins.
type AuthService interface {
	RegisterUser(ctx context.Context, reg Registration) (*AuthResponse, error)
	RegisterAdmin(ctx context.Context, reg Registration) (*AuthResponse, error)
	Login(ctx context.Context, email, password string, kind models.AccountKind) (*AuthResponse, error)
	ListAccounts(ctx context.Context, kind models.AccountKind) ([]models.Account, error)
	GetAccount(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error)
}

// DefaultAuthService is the production implementation.
type DefaultAuthService struct {
	Repo     accountRepo.AccountRepository
	Notifier *notification.Notifier
	TokenTTL time.Duration
	Logger   *zap.Logger
}

func NewDefaultAuthService(repo accountRepo.AccountRepository, notifier *notification.Notifier, tokenTTL time.Duration, logger *zap.Logger) (*DefaultAuthService, error) {
	if repo == nil || notifier == nil {
		return nil, fmt.Errorf("auth service initialization error: repository or notifier is nil")
	}
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAuthService{Repo: repo, Notifier: notifier, TokenTTL: tokenTTL, Logger: logger}, nil
}
