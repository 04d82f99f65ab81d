package reportRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"carvistors/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a report, assigning id and timestamps. A second report for
// the same VIN fails with ErrDuplicateVIN.
func (r *mongoReportRepo) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	report.VIN = strings.ToUpper(strings.TrimSpace(report.VIN))
	now := time.Now().UTC()
	if report.DecodedDate.IsZero() {
		report.DecodedDate = now
	}
	report.CreatedAt = now
	report.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, report); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateVIN, report.VIN)
		}
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *mongoReportRepo) findOne(ctx context.Context, filter bson.M) (*models.Report, error) {
	var report models.Report
	if err := r.coll.FindOne(ctx, filter).Decode(&report); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// GetByID returns a report by id, or (nil, nil).
func (r *mongoReportRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	report, err := r.findOne(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report %s: %w", id, err)
	}
	return report, nil
}

// FindByVIN returns the report for vin, or (nil, nil).
func (r *mongoReportRepo) FindByVIN(ctx context.Context, vin string) (*models.Report, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	report, err := r.findOne(ctx, bson.M{"vin": vin})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report for vin %s: %w", vin, err)
	}
	return report, nil
}

func buildFilter(f models.ReportFilter) bson.M {
	filter := bson.M{}
	if s := strings.TrimSpace(f.Search); s != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"vin": rx},
			bson.M{"vehicleName": rx},
			bson.M{"decodedBy": rx},
		}
	}
	return filter
}

// List returns one page of reports, most recently decoded first, plus the
// total match count.
func (r *mongoReportRepo) List(ctx context.Context, f models.ReportFilter) ([]models.Report, int64, error) {
	filter := buildFilter(f)
	opts := options.Find().SetSort(bson.D{{Key: "decodedDate", Value: -1}})
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetLimit(f.Limit).SetSkip((page - 1) * f.Limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, fmt.Errorf("failed to decode reports: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return reports, total, nil
}
