package entity

import "time"

// Estados del ciclo de carga/despacho de un vehículo.
const (
	RouteLoadStatusPending    = "pending"
	RouteLoadStatusLoading    = "loading"
	RouteLoadStatusLoaded     = "loaded"
	RouteLoadStatusDispatched = "dispatched"
	RouteLoadStatusInProgress = "in_progress"
	RouteLoadStatusCompleted  = "completed"
	RouteLoadStatusCancelled  = "cancelled"
)

// RouteLoad modela el ciclo de carga, despacho y retorno de un vehículo
// para una fecha dada. Invariante: los totales agregados siempre son la suma
// de sus RouteLoadItem; no se agregan items en estados terminales ni después
// del despacho.
type RouteLoad struct {
	ID                  string
	TenantID            string
	VehicleID           string
	DriverID            *string
	LoadDate            time.Time
	Status              string
	PlannedDeliveries   int
	CompletedDeliveries int
	TotalCylinders      int // unidades tipo cylinder cargadas
	TotalTanks          int // unidades tipo tank cargadas
	TotalWeightKg       int // suma de TotalWeightKg de los items
	DepartureTime       *time.Time
	ReturnTime          *time.Time
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Items []*RouteLoadItem
}

// IsTerminal indica si la carga ya no admite transición alguna.
func (r *RouteLoad) IsTerminal() bool {
	return r.Status == RouteLoadStatusCompleted || r.Status == RouteLoadStatusCancelled
}

// CanRegisterLoad indica si todavía se pueden registrar items de carga.
func (r *RouteLoad) CanRegisterLoad() bool {
	return r.Status == RouteLoadStatusPending || r.Status == RouteLoadStatusLoading
}
