package postgres

import (
	"context"
	"fmt"

	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

var _ repository.AssetHistoryRepository = (*AssetHistoryRepo)(nil)

// AssetHistoryRepo implementación de AssetHistoryRepository sobre PostgreSQL.
// La tabla es append-only.
type AssetHistoryRepo struct {
	q Querier
}

// NewAssetHistoryRepository construye el adaptador de bitácora de activos.
func NewAssetHistoryRepository(q Querier) *AssetHistoryRepo {
	return &AssetHistoryRepo{q: q}
}

// Append inserta el evento de auditoría.
func (r *AssetHistoryRepo) Append(e *entity.AssetHistoryEvent) error {
	query := `
		INSERT INTO asset_history_events (
			id, tenant_id, asset_id, action, previous_value, new_value,
			actor, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.TenantID, e.AssetID, e.Action, e.PreviousValue, e.NewValue,
		e.Actor, e.Notes, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append asset history: %w", err)
	}
	return nil
}

// ListByAsset devuelve los eventos del activo, más recientes primero.
func (r *AssetHistoryRepo) ListByAsset(tenantID, assetID string, limit, offset int) ([]*entity.AssetHistoryEvent, error) {
	query := `
		SELECT id, tenant_id, asset_id, action, previous_value, new_value,
		       actor, notes, created_at
		FROM asset_history_events
		WHERE tenant_id = $1 AND asset_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, tenantID, assetID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list asset history: %w", err)
	}
	defer rows.Close()

	var out []*entity.AssetHistoryEvent
	for rows.Next() {
		var e entity.AssetHistoryEvent
		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.AssetID, &e.Action, &e.PreviousValue, &e.NewValue,
			&e.Actor, &e.Notes, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan asset history: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
