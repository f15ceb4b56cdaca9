package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnItemRequest conteo físico de una cubeta al retorno del vehículo.
type ReturnItemRequest struct {
	BucketType   string   `json:"bucket_type"` // full | empty | exchange | missing | damaged
	OrderID      *string  `json:"order_id,omitempty"`
	AssetType    string   `json:"asset_type,omitempty"`
	AssetSubtype string   `json:"asset_subtype,omitempty"`
	Quantity     int      `json:"quantity"`
	WeightKg     int      `json:"weight_kg,omitempty"`
	Serials      []string `json:"serials,omitempty"`
}

// CreateReturnLoadRequest body para POST /api/return-loads.
type CreateReturnLoadRequest struct {
	RouteLoadID string              `json:"route_load_id"`
	VehicleID   string              `json:"vehicle_id"`
	DriverID    *string             `json:"driver_id,omitempty"`
	ReturnDate  time.Time           `json:"return_date"`
	Items       []ReturnItemRequest `json:"items"`
}

// CompleteReturnLoadRequest body para POST /api/return-loads/:id/complete.
type CompleteReturnLoadRequest struct {
	Status           string `json:"status"` // completed | cancelled
	DiscrepancyNotes string `json:"discrepancy_notes,omitempty"`
}

// ReturnLoadItemResponse conteo por cubeta en respuestas.
type ReturnLoadItemResponse struct {
	ID           string   `json:"id"`
	BucketType   string   `json:"bucket_type"`
	OrderID      *string  `json:"order_id,omitempty"`
	AssetType    string   `json:"asset_type,omitempty"`
	AssetSubtype string   `json:"asset_subtype,omitempty"`
	Quantity     int      `json:"quantity"`
	WeightKg     int      `json:"weight_kg"`
	Serials      []string `json:"serials,omitempty"`
}

// ReturnLoadResponse conciliación de retorno en respuestas.
type ReturnLoadResponse struct {
	ID                 string                   `json:"id"`
	TenantID           string                   `json:"tenant_id"`
	RouteLoadID        string                   `json:"route_load_id"`
	VehicleID          string                   `json:"vehicle_id"`
	DriverID           *string                  `json:"driver_id,omitempty"`
	ReturnDate         time.Time                `json:"return_date"`
	Status             string                   `json:"status"`
	TotalFullReturned  int                      `json:"total_full_returned"`
	TotalEmptyReturned int                      `json:"total_empty_returned"`
	TotalExchanged     int                      `json:"total_exchanged"`
	TotalMissing       int                      `json:"total_missing"`
	TotalDamaged       int                      `json:"total_damaged"`
	TotalFullWeightKg  int                      `json:"total_full_weight_kg"`
	TotalEmptyWeightKg int                      `json:"total_empty_weight_kg"`
	DiscrepancyNotes   string                   `json:"discrepancy_notes,omitempty"`
	ResolvedBy         *string                  `json:"resolved_by,omitempty"`
	ResolvedAt         *time.Time               `json:"resolved_at,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	Items              []ReturnLoadItemResponse `json:"items,omitempty"`
}

// CreateDiscrepancyRequest body para POST /api/discrepancies. Levantar una
// discrepancia es un acto deliberado, separado del cierre de la conciliación.
type CreateDiscrepancyRequest struct {
	Type           string           `json:"type"`
	ReturnLoadID   *string          `json:"return_load_id,omitempty"`
	OrderID        *string          `json:"order_id,omitempty"`
	AssetType      string           `json:"asset_type,omitempty"`
	Serial         string           `json:"serial,omitempty"`
	ExpectedQty    int              `json:"expected_qty,omitempty"`
	ActualQty      int              `json:"actual_qty,omitempty"`
	DiscrepancyQty int              `json:"discrepancy_qty"`
	EstimatedValue *decimal.Decimal `json:"estimated_value,omitempty"`
}

// ResolveDiscrepancyRequest body para POST /api/discrepancies/:id/resolve.
type ResolveDiscrepancyRequest struct {
	Status          string           `json:"status"` // resolved | written_off
	ResolutionNotes string           `json:"resolution_notes,omitempty"`
	EstimatedValue  *decimal.Decimal `json:"estimated_value,omitempty"`
}

// DiscrepancyResponse discrepancia en respuestas.
type DiscrepancyResponse struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenant_id"`
	ReturnLoadID    *string         `json:"return_load_id,omitempty"`
	OrderID         *string         `json:"order_id,omitempty"`
	Type            string          `json:"type"`
	AssetType       string          `json:"asset_type,omitempty"`
	Serial          string          `json:"serial,omitempty"`
	ExpectedQty     int             `json:"expected_qty"`
	ActualQty       int             `json:"actual_qty"`
	DiscrepancyQty  int             `json:"discrepancy_qty"`
	Status          string          `json:"status"`
	EstimatedValue  decimal.Decimal `json:"estimated_value"`
	ResolutionNotes string          `json:"resolution_notes,omitempty"`
	ResolvedBy      *string         `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// DiscrepancyListResponse listado paginado de discrepancias.
type DiscrepancyListResponse struct {
	Items []DiscrepancyResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
