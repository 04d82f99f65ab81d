package models

import "time"

// DefaultDecodedBy is recorded when a report is generated without an operator email.
const DefaultDecodedBy = "admin@system.com"

// Report is a saved advanced decode, one per VIN.
type Report struct {
	ID          string         `json:"id" bson:"id"`
	VIN         string         `json:"vin" bson:"vin"`
	VehicleName string         `json:"vehicleName" bson:"vehicleName"`
	ReportData  map[string]any `json:"reportData" bson:"reportData"`
	DecodedBy   string         `json:"decodedBy" bson:"decodedBy"`
	DecodedDate time.Time      `json:"decodedDate" bson:"decodedDate"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// ReportFilter narrows report listings.
type ReportFilter struct {
	Search string
	Page   int64
	Limit  int64
}
