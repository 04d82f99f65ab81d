package notification

import (
	"context"
	"fmt"

	"carvistors/models"
)

// AccountLookup is the slice of the account repository the subsystem reads.
type AccountLookup interface {
	FindByID(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, kind models.AccountKind, email string) (*models.Account, error)
	List(ctx context.Context, kind models.AccountKind) ([]models.Account, error)
}

// ResolvedAccount is a recipient that existed at resolution time.
type ResolvedAccount struct {
	ID    string
	Kind  models.AccountKind
	Email string
}

// RecipientDirectory turns a RecipientRef into an existing account.
type RecipientDirectory struct {
	accounts AccountLookup
}

func NewRecipientDirectory(accounts AccountLookup) *RecipientDirectory {
	return &RecipientDirectory{accounts: accounts}
}

// checkRef rejects refs that cannot be resolved without touching the directory.
func checkRef(ref models.RecipientRef) error {
	if !ref.Kind.Valid() {
		return fmt.Errorf("%w: unknown recipient kind %q", ErrInvalidInput, ref.Kind)
	}
	if !ref.HasID() && !ref.HasEmail() {
		return fmt.Errorf("%w: recipient id or email is required", ErrInvalidInput)
	}
	return nil
}

// Resolve looks the ref up in the collection implied by its kind. The id
// takes precedence over the email when both are present.
func (d *RecipientDirectory) Resolve(ctx context.Context, ref models.RecipientRef) (*ResolvedAccount, error) {
	ref = ref.Normalized()
	if err := checkRef(ref); err != nil {
		return nil, err
	}

	var (
		account *models.Account
		err     error
	)
	if ref.HasID() {
		account, err = d.accounts.FindByID(ctx, ref.Kind, ref.ID)
	} else {
		account, err = d.accounts.FindByEmail(ctx, ref.Kind, ref.Email)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", ErrStorageUnavailable, ref, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", ErrRecipientNotFound, ref)
	}
	return &ResolvedAccount{ID: account.ID, Kind: ref.Kind, Email: account.Email}, nil
}
