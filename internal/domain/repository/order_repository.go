package repository

import "github.com/OscarV-prog/gasera-sub000/internal/domain/entity"

// OrderRepository define el puerto de persistencia de pedidos.
type OrderRepository interface {
	// Create persiste el pedido con sus líneas en una sola operación lógica.
	Create(order *entity.Order, items []*entity.OrderItem) error
	GetByID(tenantID, id string) (*entity.Order, error)
	// GetByIDForUpdate bloquea la fila para validar la transición contra el
	// estado recién leído dentro de la transacción.
	GetByIDForUpdate(tenantID, id string) (*entity.Order, error)
	Update(order *entity.Order) error
	List(tenantID, status, customerID string, limit, offset int) ([]*entity.Order, error)
	ListItems(tenantID, orderID string) ([]*entity.OrderItem, error)
}
