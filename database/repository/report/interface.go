package reportRepo

import (
	"context"
	"errors"

	"carvistors/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrDuplicateVIN is returned by Create when a report for the VIN already exists.
var ErrDuplicateVIN = errors.New("report already exists for this VIN")

// ReportRepository covers persistence of advanced decode reports.
// Lookups return (nil, nil) when nothing matches.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	FindByVIN(ctx context.Context, vin string) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int64, error)
}

type mongoReportRepo struct {
	coll *mongo.Collection
}

// NewMongoReportRepo returns a ReportRepository on the "reports" collection.
func NewMongoReportRepo(db *mongo.Database) ReportRepository {
	repo := &mongoReportRepo{coll: db.Collection("reports")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("report repo: failed to create indexes", zap.Error(err))
	}
	return repo
}
