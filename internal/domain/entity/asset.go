package entity

import "time"

// Tipos de activo serializado.
const (
	AssetTypeCylinder = "cylinder" // cilindro portátil de gas LP
	AssetTypeTank     = "tank"     // tanque estacionario
)

// Estados de un activo.
const (
	AssetStatusInStock     = "in_stock"    // en almacén, sin dueño
	AssetStatusInRoute     = "in_route"    // cargado en un vehículo
	AssetStatusDelivered   = "delivered"   // en poder de un cliente
	AssetStatusMaintenance = "maintenance" // en taller / revisión
	AssetStatusRetired     = "retired"     // dado de baja
)

// Tipos de dueño actual de un activo.
const (
	OwnerTypeDriver   = "driver"
	OwnerTypeCustomer = "customer"
	OwnerTypeVehicle  = "vehicle"
	OwnerTypeNone     = "" // sin dueño (en almacén)
)

// Subtipos (clase de capacidad) de cilindros y tanques.
const (
	SubtypeCylinder10  = "cil_10kg"
	SubtypeCylinder20  = "cil_20kg"
	SubtypeCylinder30  = "cil_30kg"
	SubtypeCylinder45  = "cil_45kg"
	SubtypeTank120     = "tanque_120l"
	SubtypeTank300     = "tanque_300l"
	SubtypeTank500     = "tanque_500l"
	SubtypeTank1000    = "tanque_1000l"
)

// Asset representa una unidad física serializada (cilindro o tanque).
// Invariante: status y dueño actual deben ser consistentes entre sí
// (in_route ⇔ dueño tipo vehicle; in_stock ⇒ sin dueño). Toda mutación
// pasa por el registro de activos y deja un AssetHistoryEvent.
type Asset struct {
	ID               string
	TenantID         string
	Serial           string // único por tenant
	Type             string // cylinder | tank
	Subtype          string // clase de capacidad (cil_20kg, tanque_500l, ...)
	Status           string
	CurrentOwnerID   *string
	CurrentOwnerType string // driver | customer | vehicle | "" (ninguno)
	TareWeightKg     int    // peso vacío
	CapacityKg       int    // capacidad de producto
	LastInspection   *time.Time
	NextInspection   *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsOwned indica si el activo tiene dueño actual.
func (a *Asset) IsOwned() bool {
	return a.CurrentOwnerID != nil && a.CurrentOwnerType != OwnerTypeNone
}

// ValidAssetType valida el tipo de activo.
func ValidAssetType(t string) bool {
	return t == AssetTypeCylinder || t == AssetTypeTank
}

// ValidAssetStatus valida el estado de un activo. El registro no impone
// tabla de transiciones entre estos valores: los flujos de corrección
// (ej. reactivar un cilindro retirado tras servicio) son legítimos.
func ValidAssetStatus(s string) bool {
	switch s {
	case AssetStatusInStock, AssetStatusInRoute, AssetStatusDelivered,
		AssetStatusMaintenance, AssetStatusRetired:
		return true
	}
	return false
}
