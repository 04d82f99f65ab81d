package vinRequestRepo

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

// Create inserts a new VIN request, assigning id and timestamps.
func (r *mongoVinRequestRepo) Create(ctx context.Context, req *models.VinRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if req.RequestDate.IsZero() {
		req.RequestDate = now
	}
	req.CreatedAt = now
	req.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to create vin request: %w", err)
	}
	return nil
}

func (r *mongoVinRequestRepo) findOne(ctx context.Context, filter bson.M) (*models.VinRequest, error) {
	var req models.VinRequest
	if err := r.coll.FindOne(ctx, filter).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// GetByID returns a request by id, or (nil, nil).
func (r *mongoVinRequestRepo) GetByID(ctx context.Context, id string) (*models.VinRequest, error) {
	req, err := r.findOne(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vin request %s: %w", id, err)
	}
	return req, nil
}

// FindByVINAndEmail returns an existing request for the pair, or (nil, nil).
func (r *mongoVinRequestRepo) FindByVINAndEmail(ctx context.Context, vin, email string) (*models.VinRequest, error) {
	req, err := r.findOne(ctx, bson.M{"vin": vin, "userEmail": models.NormalizeEmail(email)})
	if err != nil {
		return nil, fmt.Errorf("failed to look up vin request: %w", err)
	}
	return req, nil
}

func buildFilter(f models.VinRequestFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.UserEmail != "" {
		filter["userEmail"] = models.NormalizeEmail(f.UserEmail)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"vin": rx},
			bson.M{"userEmail": rx},
			bson.M{"vehicleDetails.vehicle": rx},
			bson.M{"vehicleDetails.make": rx},
			bson.M{"vehicleDetails.model": rx},
		}
	}
	return filter
}

// List returns one page of requests, newest first, plus the total match count.
func (r *mongoVinRequestRepo) List(ctx context.Context, f models.VinRequestFilter) ([]models.VinRequest, int64, error) {
	filter := buildFilter(f)
	opts := options.Find().SetSort(bson.D{{Key: "requestDate", Value: -1}})
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetLimit(f.Limit).SetSkip((page - 1) * f.Limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vin requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []models.VinRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, fmt.Errorf("failed to decode vin requests: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count vin requests: %w", err)
	}
	return requests, total, nil
}

// UpdateStatus sets the status, stamping completedDate on completion.
func (r *mongoVinRequestRepo) UpdateStatus(ctx context.Context, id string, status models.VinRequestStatus) (*models.VinRequest, error) {
	now := time.Now().UTC()
	set := bson.M{"status": status, "updatedAt": now}
	if status == models.StatusCompleted {
		set["completedDate"] = now
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var req models.VinRequest
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update vin request %s: %w", id, err)
	}
	return &req, nil
}
