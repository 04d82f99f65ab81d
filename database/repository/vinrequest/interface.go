package vinRequestRepo

import (
	"context"

	"carvistors/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// VinRequestRepository covers persistence of paid VIN report requests.
type VinRequestRepository interface {
	Create(ctx context.Context, req *models.VinRequest) error
	GetByID(ctx context.Context, id string) (*models.VinRequest, error)
	FindByVINAndEmail(ctx context.Context, vin, email string) (*models.VinRequest, error)
	List(ctx context.Context, filter models.VinRequestFilter) ([]models.VinRequest, int64, error)
	UpdateStatus(ctx context.Context, id string, status models.VinRequestStatus) (*models.VinRequest, error)
}

type mongoVinRequestRepo struct {
	coll *mongo.Collection
}

// NewMongoVinRequestRepo returns a VinRequestRepository on the "vinrequests" collection.
func NewMongoVinRequestRepo(db *mongo.Database) VinRequestRepository {
	repo := &mongoVinRequestRepo{coll: db.Collection("vinrequests")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("vin request repo: failed to create indexes", zap.Error(err))
	}
	return repo
}
