package entity

import "time"

// Acciones registradas en la bitácora de activos.
const (
	AssetActionCreated       = "created"
	AssetActionStatusChanged = "status_changed"
	AssetActionAssigned      = "assigned"
	AssetActionReleased      = "released"
)

// AssetHistoryEvent es un registro de auditoría de un activo (append-only,
// nunca se edita ni se borra). Se consulta en orden cronológico inverso.
type AssetHistoryEvent struct {
	ID            string
	TenantID      string
	AssetID       string
	Action        string // created | status_changed | assigned | released
	PreviousValue string
	NewValue      string
	Actor         string // UserID que ejecutó la operación
	Notes         string
	CreatedAt     time.Time
}
