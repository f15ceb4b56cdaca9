package repository

import "github.com/OscarV-prog/gasera-sub000/internal/domain/entity"

// OrderHistoryRepository define el puerto de la bitácora de pedidos
// (append-only, igual que la de activos).
type OrderHistoryRepository interface {
	Append(event *entity.OrderHistoryEvent) error
	// ListByOrder devuelve los eventos en orden cronológico inverso.
	ListByOrder(tenantID, orderID string, limit, offset int) ([]*entity.OrderHistoryEvent, error)
}
