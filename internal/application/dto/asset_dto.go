package dto

import "time"

// RegisterAssetRequest body para POST /api/assets.
// Serial es opcional: si va vacío se genera con formato <prefijo>-<time36>-<rand4>.
type RegisterAssetRequest struct {
	Serial         string     `json:"serial,omitempty"`
	Type           string     `json:"type"`    // cylinder | tank
	Subtype        string     `json:"subtype"` // cil_10kg, tanque_500l, ...
	TareWeightKg   int        `json:"tare_weight_kg,omitempty"`
	CapacityKg     int        `json:"capacity_kg,omitempty"`
	LastInspection *time.Time `json:"last_inspection,omitempty"`
	NextInspection *time.Time `json:"next_inspection,omitempty"`
}

// ChangeAssetStatusRequest body para PUT /api/assets/:id/status.
type ChangeAssetStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// AssetResponse activo en respuestas.
type AssetResponse struct {
	ID               string     `json:"id"`
	TenantID         string     `json:"tenant_id"`
	Serial           string     `json:"serial"`
	Type             string     `json:"type"`
	Subtype          string     `json:"subtype"`
	Status           string     `json:"status"`
	CurrentOwnerID   *string    `json:"current_owner_id,omitempty"`
	CurrentOwnerType string     `json:"current_owner_type,omitempty"`
	TareWeightKg     int        `json:"tare_weight_kg"`
	CapacityKg       int        `json:"capacity_kg"`
	LastInspection   *time.Time `json:"last_inspection,omitempty"`
	NextInspection   *time.Time `json:"next_inspection,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// AssetHistoryEventResponse evento de bitácora en respuestas (orden DESC).
type AssetHistoryEventResponse struct {
	ID            string    `json:"id"`
	AssetID       string    `json:"asset_id"`
	Action        string    `json:"action"`
	PreviousValue string    `json:"previous_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
	Actor         string    `json:"actor,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AssetListResponse listado paginado de activos.
type AssetListResponse struct {
	Items []AssetResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
