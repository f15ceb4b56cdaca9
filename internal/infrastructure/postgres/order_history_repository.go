package postgres

import (
	"context"
	"fmt"

	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

var _ repository.OrderHistoryRepository = (*OrderHistoryRepo)(nil)

// OrderHistoryRepo implementación de OrderHistoryRepository sobre PostgreSQL.
// La tabla es append-only.
type OrderHistoryRepo struct {
	q Querier
}

// NewOrderHistoryRepository construye el adaptador de bitácora de pedidos.
func NewOrderHistoryRepository(q Querier) *OrderHistoryRepo {
	return &OrderHistoryRepo{q: q}
}

// Append inserta el evento de transición.
func (r *OrderHistoryRepo) Append(e *entity.OrderHistoryEvent) error {
	query := `
		INSERT INTO order_history_events (
			id, tenant_id, order_id, previous_status, new_status,
			actor, notes, created_at
		) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.TenantID, e.OrderID, e.PreviousStatus, e.NewStatus,
		e.Actor, e.Notes, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append order history: %w", err)
	}
	return nil
}

// ListByOrder devuelve los eventos del pedido, más recientes primero.
func (r *OrderHistoryRepo) ListByOrder(tenantID, orderID string, limit, offset int) ([]*entity.OrderHistoryEvent, error) {
	query := `
		SELECT id, tenant_id, order_id, COALESCE(previous_status, ''), new_status,
		       actor, notes, created_at
		FROM order_history_events
		WHERE tenant_id = $1 AND order_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, tenantID, orderID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list order history: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderHistoryEvent
	for rows.Next() {
		var e entity.OrderHistoryEvent
		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.OrderID, &e.PreviousStatus, &e.NewStatus,
			&e.Actor, &e.Notes, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order history: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
