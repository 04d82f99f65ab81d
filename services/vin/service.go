package vin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	vinRequestRepo "carvistors/database/repository/vinrequest"
	"carvistors/models"
	"carvistors/services/notification"

	"go.uber.org/zap"
)

var (
	ErrDuplicateRequest = errors.New("VIN request already exists for this user")
	ErrRequestNotFound  = errors.New("VIN request not found")
	ErrEmailRequired    = errors.New("VIN and user email are required")
	ErrInvalidStatus    = errors.New("invalid VIN request status")
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// RequestService manages the VIN request lifecycle.
type RequestService interface {
	CreateRequest(ctx context.Context, vin, userEmail string) (*models.VinRequest, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.VinRequest, error)
	List(ctx context.Context, filter models.VinRequestFilter) ([]models.VinRequest, models.Pagination, error)
	Get(ctx context.Context, id string) (*models.VinRequest, error)
	ListByUser(ctx context.Context, email string, page, limit int64) ([]models.VinRequest, models.Pagination, error)
}

// DefaultRequestService is the production implementation.
type DefaultRequestService struct {
	repo     vinRequestRepo.VinRequestRepository
	decoder  Decoder
	notifier *notification.Notifier
	price    float64
	logger   *zap.Logger
}

func NewDefaultRequestService(
	repo vinRequestRepo.VinRequestRepository,
	decoder Decoder,
	notifier *notification.Notifier,
	price float64,
	logger *zap.Logger,
) (*DefaultRequestService, error) {
	if repo == nil || decoder == nil || notifier == nil {
		return nil, fmt.Errorf("vin request service initialization error: missing dependency")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultRequestService{repo: repo, decoder: decoder, notifier: notifier, price: price, logger: logger}, nil
}

// CreateRequest decodes the VIN, records a pending request and notifies the
// requester and every admin.
func (s *DefaultRequestService) CreateRequest(ctx context.Context, vin, userEmail string) (*models.VinRequest, error) {
	email := models.NormalizeEmail(userEmail)
	if strings.TrimSpace(vin) == "" || email == "" {
		return nil, ErrEmailRequired
	}
	vin, err := ValidateVIN(vin)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByVINAndEmail(ctx, vin, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing request: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateRequest
	}

	details, err := s.decoder.Decode(ctx, vin)
	if err != nil {
		return nil, err
	}

	req := &models.VinRequest{
		VIN:            vin,
		UserEmail:      email,
		VehicleDetails: *details,
		Status:         models.StatusPending,
		PaymentAmount:  s.price,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create VIN request: %w", err)
	}

	s.notifier.Notify(ctx, models.UserEmailRef(req.UserEmail), models.NotificationContent{
		Title:    "VIN Request Submitted",
		Message:  fmt.Sprintf("We received your VIN request for %s. Our team is working on it.", req.VIN),
		Category: models.CategoryInfo,
		Link:     "/requests",
		Metadata: map[string]any{"requestId": req.ID},
	})
	s.notifier.NotifyAdmins(ctx, models.NotificationContent{
		Title:    "New VIN Request",
		Message:  fmt.Sprintf("%s submitted a request for %s.", req.UserEmail, req.VIN),
		Category: models.CategoryInfo,
		Link:     "/admin/request/" + req.ID,
		Metadata: map[string]any{"requestId": req.ID},
	})
	return req, nil
}

// UpdateStatus moves a request to status and notifies the requester and admins.
func (s *DefaultRequestService) UpdateStatus(ctx context.Context, id, status string) (*models.VinRequest, error) {
	st, err := models.ParseVinRequestStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	req, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, fmt.Errorf("failed to update VIN request: %w", err)
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}

	userContent := models.NotificationContent{
		Title:    "VIN Request " + st.Title(),
		Message:  fmt.Sprintf("Your VIN request for %s was updated to %q.", req.VIN, req.Status),
		Category: models.CategoryInfo,
		Link:     "/requests",
		Metadata: map[string]any{"requestId": req.ID},
	}
	if st == models.StatusCompleted {
		userContent.Message = fmt.Sprintf("Your VIN request for %s is complete. Download the report now.", req.VIN)
		userContent.Category = models.CategorySuccess
	}
	s.notifier.Notify(ctx, models.UserEmailRef(req.UserEmail), userContent)
	s.notifier.NotifyAdmins(ctx, models.NotificationContent{
		Title:    "VIN Request Updated",
		Message:  fmt.Sprintf("%s's request for %s is now %q.", req.UserEmail, req.VIN, req.Status),
		Category: models.CategoryInfo,
		Link:     "/admin/request/" + req.ID,
		Metadata: map[string]any{"requestId": req.ID},
	})
	return req, nil
}

// List returns one page of requests matching filter, newest first.
func (s *DefaultRequestService) List(ctx context.Context, filter models.VinRequestFilter) ([]models.VinRequest, models.Pagination, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	filter.Search = strings.TrimSpace(filter.Search)
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list VIN requests: %w", err)
	}
	return list, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// ListByUser returns one page of the user's requests.
func (s *DefaultRequestService) ListByUser(ctx context.Context, email string, page, limit int64) ([]models.VinRequest, models.Pagination, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, models.Pagination{}, ErrEmailRequired
	}
	return s.List(ctx, models.VinRequestFilter{UserEmail: email, Page: page, Limit: limit})
}

// Get returns one request by id.
func (s *DefaultRequestService) Get(ctx context.Context, id string) (*models.VinRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch VIN request: %w", err)
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

func normalizePage(page, limit int64) (int64, int64) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}
