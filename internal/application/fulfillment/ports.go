package fulfillment

import (
	"context"

	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de pedidos atados a ella. Toda transición re-lee el pedido
// con SELECT FOR UPDATE y valida contra la tabla de adyacencia usando ese
// estado fresco; el cambio y su evento de bitácora se confirman juntos.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		historyRepo repository.OrderHistoryRepository,
	) error) error
}
