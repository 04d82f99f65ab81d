package models

import (
	"fmt"
	"strings"
	"time"
)

type VinRequestStatus string

const (
	StatusPending    VinRequestStatus = "pending"
	StatusProcessing VinRequestStatus = "processing"
	StatusCompleted  VinRequestStatus = "completed"
	StatusCancelled  VinRequestStatus = "cancelled"
)

// ParseVinRequestStatus validates a status value from a request body or query.
func ParseVinRequestStatus(s string) (VinRequestStatus, error) {
	switch st := VinRequestStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown VIN request status %q", s)
	}
}

// Title returns the status with its first letter upper-cased.
func (s VinRequestStatus) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// VehicleDetails is the decoded summary of a VIN.
type VehicleDetails struct {
	Vehicle      string `json:"vehicle" bson:"vehicle"`
	VIN          string `json:"vin,omitempty" bson:"vin,omitempty"`
	Year         string `json:"year" bson:"year"`
	Make         string `json:"make" bson:"make"`
	Model        string `json:"model" bson:"model"`
	Engine       string `json:"engine" bson:"engine"`
	Transmission string `json:"transmission" bson:"transmission"`
	FuelType     string `json:"fuelType" bson:"fuelType"`
	Mileage      string `json:"mileage" bson:"mileage"`
	Condition    string `json:"condition" bson:"condition"`
}

// VinRequest is a paid request for a full VIN report.
type VinRequest struct {
	ID             string           `json:"id" bson:"id"`
	VIN            string           `json:"vin" bson:"vin"`
	UserEmail      string           `json:"userEmail" bson:"userEmail"`
	VehicleDetails VehicleDetails   `json:"vehicleDetails" bson:"vehicleDetails"`
	Status         VinRequestStatus `json:"status" bson:"status"`
	PaymentAmount  float64          `json:"paymentAmount" bson:"paymentAmount"`
	RequestDate    time.Time        `json:"requestDate" bson:"requestDate"`
	CompletedDate  *time.Time       `json:"completedDate,omitempty" bson:"completedDate,omitempty"`
	CreatedAt      time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// VinRequestFilter narrows admin listings.
type VinRequestFilter struct {
	Status    VinRequestStatus
	Search    string
	UserEmail string
	Page      int64
	Limit     int64
}

// Pagination mirrors the listing envelope returned to clients.
type Pagination struct {
	Current int64 `json:"current"`
	Pages   int64 `json:"pages"`
	Total   int64 `json:"total"`
}

// NewPagination computes the page count for total items.
func NewPagination(page, limit, total int64) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Current: page, Pages: pages, Total: total}
}
