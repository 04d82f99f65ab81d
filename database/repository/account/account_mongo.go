package accountRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carvistors/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoAccountRepo implements AccountRepository using one collection per kind.
type MongoAccountRepo struct {
	users  *mongo.Collection
	admins *mongo.Collection
}

// NewMongoAccountRepo creates a new AccountRepository backed by db.
func NewMongoAccountRepo(db *mongo.Database) AccountRepository {
	repo := &MongoAccountRepo{
		users:  db.Collection("users"),
		admins: db.Collection("admins"),
	}

	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("account repo: failed to create indexes", zap.Error(err))
	}
	return repo
}

// newContext creates a context with the given timeout, bounded by parent.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

func (r *MongoAccountRepo) collection(kind models.AccountKind) (*mongo.Collection, error) {
	switch kind {
	case models.KindUser:
		return r.users, nil
	case models.KindAdmin:
		return r.admins, nil
	default:
		return nil, fmt.Errorf("unknown account kind %q", kind)
	}
}

func (r *MongoAccountRepo) findOne(ctx context.Context, kind models.AccountKind, filter bson.M) (*models.Account, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var account models.Account
	if err := coll.FindOne(ctx, filter).Decode(&account); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindByID retrieves an account by its unique ID.
func (r *MongoAccountRepo) FindByID(ctx context.Context, kind models.AccountKind, id string) (*models.Account, error) {
	account, err := r.findOne(ctx, kind, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s with id %s: %w", kind, id, err)
	}
	return account, nil
}

// FindByEmail retrieves an account by its email.
func (r *MongoAccountRepo) FindByEmail(ctx context.Context, kind models.AccountKind, email string) (*models.Account, error) {
	email = models.NormalizeEmail(email)
	account, err := r.findOne(ctx, kind, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s with email %s: %w", kind, email, err)
	}
	return account, nil
}

// List retrieves all accounts of a kind, oldest first.
func (r *MongoAccountRepo) List(ctx context.Context, kind models.AccountKind) ([]models.Account, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %s accounts: %w", kind, err)
	}
	defer cursor.Close(ctx)

	accounts := []models.Account{}
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode %s accounts: %w", kind, err)
	}
	return accounts, nil
}

// Count returns the number of accounts of a kind.
func (r *MongoAccountRepo) Count(ctx context.Context, kind models.AccountKind) (int64, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return 0, err
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	n, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s accounts: %w", kind, err)
	}
	return n, nil
}

// Create inserts a new account document, assigning id and timestamps.
func (r *MongoAccountRepo) Create(ctx context.Context, kind models.AccountKind, account *models.Account) error {
	coll, err := r.collection(kind)
	if err != nil {
		return err
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	account.Email = models.NormalizeEmail(account.Email)
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	if _, err := coll.InsertOne(ctx, account); err != nil {
		return fmt.Errorf("failed to create %s: %w", kind, err)
	}
	return nil
}
