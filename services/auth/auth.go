package auth

import (
	"context"
	"fmt"
	"strings"

	"carvistors/models"
	"carvistors/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser creates a user account, welcomes the user and alerts admins.
func (s *DefaultAuthService) RegisterUser(ctx context.Context, reg Registration) (*AuthResponse, error) {
	account, err := s.register(ctx, models.KindUser, reg, "")
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(ctx, models.UserRef(account.ID), models.NotificationContent{
		Title:    "Welcome to Car Vistors",
		Message:  "Your account has been created successfully. Start decoding VINs anytime.",
		Category: models.CategorySuccess,
		Link:     "/dashboard",
	})
	s.Notifier.NotifyAdmins(ctx, models.NotificationContent{
		Title:    "New User Registered",
		Message:  fmt.Sprintf("%s %s (%s) just created an account.", orDefault(account.FirstName, "New"), orDefault(account.LastName, "User"), account.Email),
		Category: models.CategoryInfo,
		Link:     "/admin/users",
		Metadata: map[string]any{"email": account.Email},
	})

	return s.issue(account, models.KindUser)
}

// RegisterAdmin creates the single admin account.
func (s *DefaultAuthService) RegisterAdmin(ctx context.Context, reg Registration) (*AuthResponse, error) {
	count, err := s.Repo.Count(ctx, models.KindAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil, ErrAdminRegistrationClosed
	}

	role := strings.TrimSpace(reg.Role)
	if role == "" {
		role = models.RoleAdmin
	}
	account, err := s.register(ctx, models.KindAdmin, reg, role)
	if err != nil {
		return nil, err
	}
	return s.issue(account, models.KindAdmin)
}

// Login verifies credentials against the collection implied by kind.
func (s *DefaultAuthService) Login(ctx context.Context, email, password string, kind models.AccountKind) (*AuthResponse, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingFields
	}
	account, err := s.Repo.FindByEmail(ctx, kind, email)
	if err != nil {
		s.Logger.Error("Login: failed to fetch account", zap.String("kind", string(kind)), zap.Error(err))
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(account, kind)
}

// ListAccounts returns every account of the kind.
func (s *DefaultAuthService) ListAccounts(ctx context.Context, kind models.AccountKind) ([]models.Account, error) {
	accounts, err := s.Repo.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// GetAccount returns one account or nil when it does not exist.
func (s *DefaultAuthService) GetAccount(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error) {
	account, err := s.Repo.FindByID(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	return account, nil
}

func (s *DefaultAuthService) register(ctx context.Context, kind models.AccountKind, reg Registration, role string) (*models.Account, error) {
	email := models.NormalizeEmail(reg.Email)
	if email == "" || reg.Password == "" {
		return nil, ErrMissingFields
	}

	existing, err := s.Repo.FindByEmail(ctx, kind, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrAccountExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		FirstName:    strings.TrimSpace(reg.FirstName),
		LastName:     strings.TrimSpace(reg.LastName),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.Repo.Create(ctx, kind, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	s.Logger.Info("account registered", zap.String("kind", string(kind)), zap.String("id", account.ID))
	return account, nil
}

func (s *DefaultAuthService) issue(account *models.Account, kind models.AccountKind) (*AuthResponse, error) {
	token, err := utils.GenerateToken(account.ID, account.Email, kind, account.Role, s.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate auth token: %w", err)
	}
	return &AuthResponse{Token: token, Kind: kind, Account: account}, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
