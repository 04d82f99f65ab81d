package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrNotConfigured = errors.New("advanced VIN decode is not configured")
	ErrUndecodable   = errors.New("failed to decode VIN, invalid or un-decodable VIN")
	ErrUpstream      = errors.New("advanced VIN decode API error")
)

const unknownVehicle = "Unknown Vehicle"

// Decoded is the payload of one advanced decode.
type Decoded struct {
	Data        map[string]any
	VehicleName string
}

// AdvancedDecoder fetches the full vehicle report for a VIN.
type AdvancedDecoder interface {
	Decode(ctx context.Context, vin string) (*Decoded, error)
}

// VehicleDatabasesClient calls the Vehicle Databases advanced-vin-decode API.
type VehicleDatabasesClient struct {
	client *resty.Client
	apiKey string
}

func NewVehicleDatabasesClient(baseURL, apiKey string) *VehicleDatabasesClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")
	return &VehicleDatabasesClient{client: client, apiKey: apiKey}
}

type advancedResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Decode requests vin, which must already be validated.
func (c *VehicleDatabasesClient) Decode(ctx context.Context, vin string) (*Decoded, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	var body advancedResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("x-AuthKey", c.apiKey).
		ExpectContentType("application/json").
		SetResult(&body).
		Get("/advanced-vin-decode/" + vin)
	if err != nil {
		return nil, fmt.Errorf("advanced decode request failed: %w", err)
	}
	if resp.IsError() {
		msg := strings.TrimSpace(resp.String())
		if msg == "" {
			msg = "Failed to decode VIN"
		}
		return nil, fmt.Errorf("%w: %d - %s", ErrUpstream, resp.StatusCode(), msg)
	}

	if body.Status != "success" || len(body.Data) == 0 || string(body.Data) == "null" {
		if body.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrUndecodable, body.Message)
		}
		return nil, ErrUndecodable
	}
	var data map[string]any
	if err := json.Unmarshal(body.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return &Decoded{Data: data, VehicleName: vehicleName(data, firstKey(body.Data))}, nil
}

// firstKey returns the first member name of a JSON object in document order.
func firstKey(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return ""
	}
	tok, err := dec.Token()
	if err != nil {
		return ""
	}
	key, _ := tok.(string)
	return key
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func usable(s string) bool {
	return s != "" && !strings.Contains(s, "undefined")
}

func composeName(year, mk, model, trim string) string {
	var parts []string
	for _, p := range []string{year, mk, model, trim} {
		if usable(p) {
			parts = append(parts, p)
		}
	}
	if len(parts) >= 2 {
		return strings.Join(parts, " ")
	}
	if mk != "" && model != "" {
		return mk + " " + model
	}
	return ""
}

func nameFromBasic(basic map[string]any) string {
	if name := text(basic["vehicle_name"]); usable(name) {
		return name
	}
	var trim string
	if t, ok := basic["trim"].(map[string]any); ok {
		trim = text(t["Trim"])
	}
	return composeName(text(basic["year"]), text(basic["make"]), text(basic["model"]), trim)
}

// vehicleName picks a display name from the report. The API nests most
// reports under a trim/style key, so that object is tried before the
// top-level fields.
func vehicleName(data map[string]any, first string) string {
	if nested, ok := data[first].(map[string]any); ok {
		if basic, ok := nested["basic"].(map[string]any); ok {
			if name := nameFromBasic(basic); name != "" {
				return name
			}
		}
	}
	if basic, ok := data["basic"].(map[string]any); ok {
		if name := nameFromBasic(basic); name != "" {
			return name
		}
	}
	if s := text(data["trim_and_style"]); usable(s) {
		return s
	}
	if name := composeName(text(data["year"]), text(data["make"]), text(data["model"]), text(data["trim"])); name != "" {
		return name
	}
	if vin := text(data["vin"]); vin != "" {
		return "Vehicle - " + vin
	}
	return unknownVehicle
}
