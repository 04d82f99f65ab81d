package vin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"carvistors/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var ErrUndecodable = errors.New("invalid or un-decodable VIN, please enter a correct VIN")

const notAvailable = "N/A"

// Decoder resolves a VIN into vehicle details.
type Decoder interface {
	Decode(ctx context.Context, vin string) (*models.VehicleDetails, error)
}

// NHTSADecoder calls the NHTSA vPIC decodevin endpoint. A nil cache disables
// caching.
type NHTSADecoder struct {
	client *resty.Client
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewNHTSADecoder(baseURL string, cache Cache, ttl time.Duration, logger *zap.Logger) *NHTSADecoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
	return &NHTSADecoder{client: client, cache: cache, ttl: ttl, logger: logger}
}

type vpicResult struct {
	Variable string `json:"Variable"`
	Value    string `json:"Value"`
}

type vpicResponse struct {
	Results []vpicResult `json:"Results"`
}

// Decode validates vin, serves it from cache when possible and otherwise
// queries vPIC.
func (d *NHTSADecoder) Decode(ctx context.Context, vin string) (*models.VehicleDetails, error) {
	vin, err := ValidateVIN(vin)
	if err != nil {
		return nil, err
	}

	if details := d.cached(ctx, vin); details != nil {
		return details, nil
	}

	var body vpicResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetQueryParam("format", "json").
		SetResult(&body).
		Get("/vehicles/decodevin/" + vin)
	if err != nil {
		return nil, fmt.Errorf("vin decode request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("vin decode request failed: status %d", resp.StatusCode())
	}
	if len(body.Results) == 0 {
		return nil, ErrUndecodable
	}

	details, err := buildDetails(vin, body.Results)
	if err != nil {
		return nil, err
	}
	d.store(ctx, vin, details)
	return details, nil
}

func (d *NHTSADecoder) cached(ctx context.Context, vin string) *models.VehicleDetails {
	if d.cache == nil {
		return nil
	}
	b, ok, err := d.cache.Get(ctx, cacheKey(vin))
	if err != nil {
		d.logger.Warn("vin cache read failed", zap.String("vin", vin), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var details models.VehicleDetails
	if err := json.Unmarshal(b, &details); err != nil {
		d.logger.Warn("vin cache entry corrupt", zap.String("vin", vin), zap.Error(err))
		return nil
	}
	return &details
}

func (d *NHTSADecoder) store(ctx context.Context, vin string, details *models.VehicleDetails) {
	if d.cache == nil {
		return
	}
	b, err := json.Marshal(details)
	if err != nil {
		return
	}
	if err := d.cache.Set(ctx, cacheKey(vin), b, d.ttl); err != nil {
		d.logger.Warn("vin cache write failed", zap.String("vin", vin), zap.Error(err))
	}
}

func buildDetails(vin string, results []vpicResult) (*models.VehicleDetails, error) {
	values := make(map[string]string, len(results))
	for _, r := range results {
		if _, seen := values[r.Variable]; !seen {
			values[r.Variable] = r.Value
		}
	}
	get := func(variable string) string {
		v := strings.TrimSpace(values[variable])
		if v == "" || v == "Not Applicable" || v == "Not Available" {
			return notAvailable
		}
		return v
	}
	first := func(vals ...string) string {
		for _, v := range vals {
			if v != notAvailable {
				return v
			}
		}
		return notAvailable
	}

	year, mk, model := get("Model Year"), get("Make"), get("Model")
	if year == notAvailable || mk == notAvailable || model == notAvailable {
		return nil, ErrUndecodable
	}

	engine := first(get("Engine Model"), get("Engine Configuration"))
	if engine == notAvailable {
		if disp, cyl := get("Displacement (L)"), get("Engine Number of Cylinders"); disp != notAvailable && cyl != notAvailable {
			engine = fmt.Sprintf("%sL %s-Cylinder", disp, cyl)
		}
	}

	return &models.VehicleDetails{
		Vehicle:      fmt.Sprintf("%s %s %s", year, mk, model),
		VIN:          vin,
		Year:         year,
		Make:         mk,
		Model:        model,
		Engine:       engine,
		Transmission: first(get("Transmission Style"), get("Drive Type")),
		FuelType:     get("Fuel Type - Primary"),
		Mileage:      notAvailable,
		Condition:    notAvailable,
	}, nil
}
