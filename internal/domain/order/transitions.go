// Package order contiene la máquina de estados de pedidos: la única del
// sistema con grafo de transiciones explícito y obligatorio.
package order

import "github.com/OscarV-prog/gasera-sub000/internal/domain/entity"

// transitions es la tabla de adyacencia autoritativa de estados de pedido.
// delivered y cancelled son terminales (sin salidas, tampoco self-loops).
var transitions = map[string][]string{
	entity.OrderStatusPending:    {entity.OrderStatusAssigned, entity.OrderStatusCancelled},
	entity.OrderStatusAssigned:   {entity.OrderStatusInProgress, entity.OrderStatusCancelled},
	entity.OrderStatusInProgress: {entity.OrderStatusDelivered, entity.OrderStatusFailed, entity.OrderStatusCancelled},
	entity.OrderStatusFailed:     {entity.OrderStatusPending, entity.OrderStatusCancelled},
	entity.OrderStatusDelivered:  {},
	entity.OrderStatusCancelled:  {},
}

// CanTransition indica si el cambio de estado from → to está permitido.
// Cualquier par fuera de la tabla (incluyendo estados desconocidos) se rechaza.
func CanTransition(from, to string) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ValidStatus indica si el estado existe en la tabla.
func ValidStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

// Statuses devuelve todos los estados conocidos (para validación y tests).
func Statuses() []string {
	out := make([]string, 0, len(transitions))
	for s := range transitions {
		out = append(out, s)
	}
	return out
}
