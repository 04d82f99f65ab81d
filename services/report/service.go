package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	reportRepo "carvistors/database/repository/report"
	"carvistors/models"
	vinService "carvistors/services/vin"

	"go.uber.org/zap"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrVINRequired    = errors.New("VIN is required")
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Service generates and serves advanced decode reports.
type Service interface {
	// Decode returns the stored report for vin, generating and saving one
	// first if none exists. created reports whether the API was called.
	Decode(ctx context.Context, vin, decodedBy string) (report *models.Report, created bool, err error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Report, error)
	GetByVIN(ctx context.Context, vin string) (*models.Report, error)
}

type DefaultReportService struct {
	repo    reportRepo.ReportRepository
	decoder AdvancedDecoder
	logger  *zap.Logger
}

func NewDefaultReportService(repo reportRepo.ReportRepository, decoder AdvancedDecoder, logger *zap.Logger) (*DefaultReportService, error) {
	if repo == nil || decoder == nil {
		return nil, fmt.Errorf("report service initialization error: missing dependency")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultReportService{repo: repo, decoder: decoder, logger: logger}, nil
}

func (s *DefaultReportService) Decode(ctx context.Context, vin, decodedBy string) (*models.Report, bool, error) {
	if strings.TrimSpace(vin) == "" {
		return nil, false, ErrVINRequired
	}
	vin, err := vinService.ValidateVIN(vin)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindByVIN(ctx, vin)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	decoded, err := s.decoder.Decode(ctx, vin)
	if err != nil {
		return nil, false, err
	}

	decodedBy = strings.TrimSpace(decodedBy)
	if decodedBy == "" {
		decodedBy = models.DefaultDecodedBy
	}
	report := &models.Report{
		VIN:         vin,
		VehicleName: decoded.VehicleName,
		ReportData:  decoded.Data,
		DecodedBy:   decodedBy,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		if !errors.Is(err, reportRepo.ErrDuplicateVIN) {
			return nil, false, err
		}
		// A concurrent decode saved the VIN first.
		existing, ferr := s.repo.FindByVIN(ctx, vin)
		if ferr != nil || existing == nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	s.logger.Info("advanced decode report saved",
		zap.String("vin", vin), zap.String("reportId", report.ID), zap.String("decodedBy", decodedBy))
	return report, true, nil
}

func (s *DefaultReportService) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	filter.Search = strings.TrimSpace(filter.Search)

	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return list, models.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *DefaultReportService) Get(ctx context.Context, id string) (*models.Report, error) {
	report, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

func (s *DefaultReportService) GetByVIN(ctx context.Context, vin string) (*models.Report, error) {
	report, err := s.repo.FindByVIN(ctx, vin)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("%w for this VIN", ErrReportNotFound)
	}
	return report, nil
}
