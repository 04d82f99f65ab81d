package accountRepo

import (
	"context"

	"carvistors/models"
)

// AccountRepository defines data access for the users and admins collections.
// Single-document lookups return (nil, nil) when nothing matches.
type AccountRepository interface {
	// FindByID retrieves an account of the given kind by its id.
	FindByID(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error)
	// FindByEmail retrieves an account of the given kind by its normalized email.
	FindByEmail(ctx context.Context, kind models.AccountKind, email string) (*models.Account, error)
	// List retrieves every account of the given kind.
	List(ctx context.Context, kind models.AccountKind) ([]models.Account, error)
	// Count returns the number of accounts of the given kind.
	Count(ctx context.Context, kind models.AccountKind) (int64, error)
	// Create inserts a new account record.
	Create(ctx context.Context, kind models.AccountKind, account *models.Account) error
}
