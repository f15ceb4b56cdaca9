package entity

import "time"

// Estados de una conciliación de retorno.
const (
	ReturnLoadStatusPending    = "pending"
	ReturnLoadStatusInProgress = "in_progress"
	ReturnLoadStatusCompleted  = "completed"
	ReturnLoadStatusCancelled  = "cancelled"
)

// ReturnLoad es el registro de conciliación creado cuando el vehículo de un
// RouteLoad regresa: compara lo cargado contra lo entregado y lo devuelto,
// acumulando conteos por cubeta (lleno/vacío/intercambio/faltante/dañado).
type ReturnLoad struct {
	ID                 string
	TenantID           string
	RouteLoadID        string
	VehicleID          string
	DriverID           *string
	ReturnDate         time.Time
	Status             string
	TotalFullReturned  int
	TotalEmptyReturned int
	TotalExchanged     int
	TotalMissing       int
	TotalDamaged       int
	TotalFullWeightKg  int
	TotalEmptyWeightKg int
	DiscrepancyNotes   string
	ResolvedBy         *string
	ResolvedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Items []*ReturnLoadItem
}

// IsOpen indica si la conciliación sigue abierta a cierre.
func (r *ReturnLoad) IsOpen() bool {
	return r.Status == ReturnLoadStatusPending || r.Status == ReturnLoadStatusInProgress
}
