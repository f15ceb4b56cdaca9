package entity

import "time"

// OrderHistoryEvent registra cada transición de estado de un pedido
// (append-only, consultable en orden cronológico inverso).
type OrderHistoryEvent struct {
	ID             string
	TenantID       string
	OrderID        string
	PreviousStatus string // vacío en el evento inicial
	NewStatus      string
	Actor          string
	Notes          string
	CreatedAt      time.Time
}
