package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de discrepancia detectada en la conciliación.
const (
	DiscrepancyTypeMissingAsset   = "missing_asset"
	DiscrepancyTypeWeightMismatch = "weight_mismatch"
	DiscrepancyTypeDamagedAsset   = "damaged_asset"
	DiscrepancyTypeOverInventory  = "over_inventory"
	DiscrepancyTypeOther          = "other"
)

// Estados de una discrepancia. resolved y written_off son terminales:
// una corrección posterior crea una discrepancia nueva que referencia a la
// anterior, nunca reabre el registro (es la bitácora de una pérdida).
const (
	DiscrepancyStatusPending       = "pending"
	DiscrepancyStatusInvestigating = "investigating"
	DiscrepancyStatusResolved      = "resolved"
	DiscrepancyStatusWrittenOff    = "written_off"
)

// Discrepancy es una anomalía de inventario levantada por el motor de
// conciliación: la brecha numérica observada se vuelve pasivo rastreado solo
// mediante este registro, nunca de forma automática.
type Discrepancy struct {
	ID              string
	TenantID        string
	ReturnLoadID    *string
	OrderID         *string
	Type            string
	AssetType       string
	Serial          string
	ExpectedQty     int
	ActualQty       int
	DiscrepancyQty  int // con signo: negativo = faltante, positivo = sobrante
	Status          string
	EstimatedValue  decimal.Decimal
	ResolutionNotes string
	ResolvedBy      *string
	ResolvedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsTerminal indica si la discrepancia ya fue cerrada.
func (d *Discrepancy) IsTerminal() bool {
	return d.Status == DiscrepancyStatusResolved || d.Status == DiscrepancyStatusWrittenOff
}

// ValidDiscrepancyType valida el tipo de discrepancia.
func ValidDiscrepancyType(t string) bool {
	switch t {
	case DiscrepancyTypeMissingAsset, DiscrepancyTypeWeightMismatch,
		DiscrepancyTypeDamagedAsset, DiscrepancyTypeOverInventory, DiscrepancyTypeOther:
		return true
	}
	return false
}
