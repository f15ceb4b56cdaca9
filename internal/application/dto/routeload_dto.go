package dto

import "time"

// CreateRouteLoadRequest body para POST /api/route-loads.
type CreateRouteLoadRequest struct {
	VehicleID         string    `json:"vehicle_id"`
	DriverID          *string   `json:"driver_id,omitempty"`
	LoadDate          time.Time `json:"load_date"`
	PlannedDeliveries int       `json:"planned_deliveries"`
}

// LoadItemRequest línea de carga: por seriales específicos o por
// cantidad/subtipo. Si Serials va lleno, Quantity debe coincidir con su largo.
type LoadItemRequest struct {
	AssetType       string   `json:"asset_type"`
	AssetSubtype    string   `json:"asset_subtype"`
	Quantity        int      `json:"quantity"`
	WeightPerUnitKg int      `json:"weight_per_unit_kg,omitempty"` // 0 = peso por defecto del subtipo
	Serials         []string `json:"serials,omitempty"`
}

// RegisterLoadRequest body para POST /api/route-loads/:id/items.
type RegisterLoadRequest struct {
	Items []LoadItemRequest `json:"items"`
}

// DispatchRouteLoadRequest body para POST /api/route-loads/:id/dispatch.
type DispatchRouteLoadRequest struct {
	DepartureTime *time.Time `json:"departure_time,omitempty"` // default: ahora
}

// CompleteRouteLoadRequest body para POST /api/route-loads/:id/complete.
type CompleteRouteLoadRequest struct {
	CompletedDeliveries *int       `json:"completed_deliveries,omitempty"`
	ReturnTime          *time.Time `json:"return_time,omitempty"`
	Notes               string     `json:"notes,omitempty"`
}

// CancelRouteLoadRequest body para POST /api/route-loads/:id/cancel.
type CancelRouteLoadRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RouteLoadItemResponse línea de carga en respuestas.
type RouteLoadItemResponse struct {
	ID              string   `json:"id"`
	AssetType       string   `json:"asset_type"`
	AssetSubtype    string   `json:"asset_subtype"`
	Quantity        int      `json:"quantity"`
	WeightPerUnitKg int      `json:"weight_per_unit_kg"`
	TotalWeightKg   int      `json:"total_weight_kg"`
	Serials         []string `json:"serials,omitempty"`
}

// RouteLoadResponse carga de ruta en respuestas.
type RouteLoadResponse struct {
	ID                  string                  `json:"id"`
	TenantID            string                  `json:"tenant_id"`
	VehicleID           string                  `json:"vehicle_id"`
	DriverID            *string                 `json:"driver_id,omitempty"`
	LoadDate            time.Time               `json:"load_date"`
	Status              string                  `json:"status"`
	PlannedDeliveries   int                     `json:"planned_deliveries"`
	CompletedDeliveries int                     `json:"completed_deliveries"`
	TotalCylinders      int                     `json:"total_cylinders"`
	TotalTanks          int                     `json:"total_tanks"`
	TotalWeightKg       int                     `json:"total_weight_kg"`
	DepartureTime       *time.Time              `json:"departure_time,omitempty"`
	ReturnTime          *time.Time              `json:"return_time,omitempty"`
	Notes               string                  `json:"notes,omitempty"`
	CreatedAt           time.Time               `json:"created_at"`
	Items               []RouteLoadItemResponse `json:"items,omitempty"`
}

// RouteLoadListResponse listado paginado de cargas.
type RouteLoadListResponse struct {
	Items []RouteLoadResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// DailyLoadSummaryResponse resumen diario derivado (caché, no fuente de verdad).
type DailyLoadSummaryResponse struct {
	Date                string `json:"date"`
	TotalRouteLoads     int    `json:"total_route_loads"`
	Dispatched          int    `json:"dispatched"`
	Completed           int    `json:"completed"`
	Cancelled           int    `json:"cancelled"`
	TotalCylinders      int    `json:"total_cylinders"`
	TotalTanks          int    `json:"total_tanks"`
	TotalWeightKg       int    `json:"total_weight_kg"`
	PlannedDeliveries   int    `json:"planned_deliveries"`
	CompletedDeliveries int    `json:"completed_deliveries"`
}
