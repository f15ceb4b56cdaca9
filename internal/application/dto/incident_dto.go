package dto

import "time"

// ReportIncidentRequest body para POST /api/incidents (cliente móvil de
// chofer). El motor no interpreta el contenido, solo lo sella y almacena.
type ReportIncidentRequest struct {
	RouteLoadID *string `json:"route_load_id,omitempty"`
	OrderID     *string `json:"order_id,omitempty"`
	Type        string  `json:"type,omitempty"`
	Description string  `json:"description"`
}

// IncidentResponse incidente en respuestas.
type IncidentResponse struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	DriverID    string    `json:"driver_id"`
	RouteLoadID *string   `json:"route_load_id,omitempty"`
	OrderID     *string   `json:"order_id,omitempty"`
	Type        string    `json:"type,omitempty"`
	Description string    `json:"description"`
	ReportedAt  time.Time `json:"reported_at"`
}

// IncidentListResponse listado paginado de incidentes.
type IncidentListResponse struct {
	Items []IncidentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
