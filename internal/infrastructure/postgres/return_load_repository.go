package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

var _ repository.ReturnLoadRepository = (*ReturnLoadRepo)(nil)

const returnLoadColumns = `
	id, tenant_id, route_load_id, vehicle_id, driver_id, return_date, status,
	total_full_returned, total_empty_returned, total_exchanged,
	total_missing, total_damaged, total_full_weight_kg, total_empty_weight_kg,
	COALESCE(discrepancy_notes, ''), resolved_by, resolved_at,
	created_at, updated_at`

// ReturnLoadRepo implementación de ReturnLoadRepository sobre PostgreSQL
// (usable con pool o tx).
type ReturnLoadRepo struct {
	q Querier
}

// NewReturnLoadRepository construye el adaptador de conciliaciones de retorno.
func NewReturnLoadRepository(q Querier) *ReturnLoadRepo {
	return &ReturnLoadRepo{q: q}
}

// Create inserta la conciliación con sus conteos por cubeta. Los seriales de
// cada conteo van a return_load_item_serials, en orden.
func (r *ReturnLoadRepo) Create(load *entity.ReturnLoad, items []*entity.ReturnLoadItem) error {
	query := `
		INSERT INTO return_loads (
			id, tenant_id, route_load_id, vehicle_id, driver_id, return_date, status,
			total_full_returned, total_empty_returned, total_exchanged,
			total_missing, total_damaged, total_full_weight_kg, total_empty_weight_kg,
			discrepancy_notes, resolved_by, resolved_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			NULLIF($15, ''), $16, $17, $18, $19
		)`
	_, err := r.q.Exec(context.Background(), query,
		load.ID, load.TenantID, load.RouteLoadID, load.VehicleID, load.DriverID,
		load.ReturnDate, load.Status,
		load.TotalFullReturned, load.TotalEmptyReturned, load.TotalExchanged,
		load.TotalMissing, load.TotalDamaged, load.TotalFullWeightKg, load.TotalEmptyWeightKg,
		load.DiscrepancyNotes, load.ResolvedBy, load.ResolvedAt,
		load.CreatedAt, load.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create return load: %w", err)
	}
	for _, item := range items {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO return_load_items (
				id, tenant_id, return_load_id, bucket_type, order_id,
				asset_type, asset_subtype, quantity, weight_kg, created_at
			) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10)`,
			item.ID, item.TenantID, item.ReturnLoadID, item.BucketType, item.OrderID,
			item.AssetType, item.AssetSubtype, item.Quantity, item.WeightKg, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("create return load item: %w", err)
		}
		for pos, serial := range item.Serials {
			_, err := r.q.Exec(context.Background(), `
				INSERT INTO return_load_item_serials (item_id, tenant_id, position, serial)
				VALUES ($1, $2, $3, $4)`,
				item.ID, item.TenantID, pos, serial,
			)
			if err != nil {
				return fmt.Errorf("create return load item serial: %w", err)
			}
		}
	}
	return nil
}

// GetByID obtiene la conciliación del tenant, o (nil, nil) si no existe.
func (r *ReturnLoadRepo) GetByID(tenantID, id string) (*entity.ReturnLoad, error) {
	query := `SELECT ` + returnLoadColumns + ` FROM return_loads WHERE tenant_id = $1 AND id = $2`
	return r.scanOne(query, tenantID, id)
}

// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE); usar solo dentro de
// una transacción.
func (r *ReturnLoadRepo) GetByIDForUpdate(tenantID, id string) (*entity.ReturnLoad, error) {
	query := `SELECT ` + returnLoadColumns + ` FROM return_loads WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return r.scanOne(query, tenantID, id)
}

// Update persiste estado, notas de discrepancia y sello de resolución.
func (r *ReturnLoadRepo) Update(load *entity.ReturnLoad) error {
	query := `
		UPDATE return_loads
		SET status = $3, discrepancy_notes = NULLIF($4, ''),
		    resolved_by = $5, resolved_at = $6, updated_at = $7
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		load.TenantID, load.ID, load.Status, load.DiscrepancyNotes,
		load.ResolvedBy, load.ResolvedAt, load.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update return load: %w", err)
	}
	return nil
}

// ListByRouteLoad lista las conciliaciones de una carga de ruta.
func (r *ReturnLoadRepo) ListByRouteLoad(tenantID, routeLoadID string) ([]*entity.ReturnLoad, error) {
	query := `
		SELECT ` + returnLoadColumns + `
		FROM return_loads
		WHERE tenant_id = $1 AND route_load_id = $2
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, tenantID, routeLoadID)
	if err != nil {
		return nil, fmt.Errorf("list return loads: %w", err)
	}
	defer rows.Close()

	var out []*entity.ReturnLoad
	for rows.Next() {
		rl, err := scanReturnLoad(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rl)
	}
	return out, rows.Err()
}

// ListItems devuelve los conteos por cubeta con sus seriales en orden.
func (r *ReturnLoadRepo) ListItems(tenantID, returnLoadID string) ([]*entity.ReturnLoadItem, error) {
	query := `
		SELECT id, tenant_id, return_load_id, bucket_type, order_id,
		       COALESCE(asset_type, ''), COALESCE(asset_subtype, ''),
		       quantity, weight_kg, created_at
		FROM return_load_items
		WHERE tenant_id = $1 AND return_load_id = $2
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, tenantID, returnLoadID)
	if err != nil {
		return nil, fmt.Errorf("list return load items: %w", err)
	}
	defer rows.Close()

	var out []*entity.ReturnLoadItem
	for rows.Next() {
		var item entity.ReturnLoadItem
		if err := rows.Scan(
			&item.ID, &item.TenantID, &item.ReturnLoadID, &item.BucketType, &item.OrderID,
			&item.AssetType, &item.AssetSubtype, &item.Quantity, &item.WeightKg, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan return load item: %w", err)
		}
		out = append(out, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, item := range out {
		serials, err := r.listItemSerials(tenantID, item.ID)
		if err != nil {
			return nil, err
		}
		item.Serials = serials
	}
	return out, nil
}

func (r *ReturnLoadRepo) listItemSerials(tenantID, itemID string) ([]string, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT serial
		FROM return_load_item_serials
		WHERE tenant_id = $1 AND item_id = $2
		ORDER BY position`,
		tenantID, itemID)
	if err != nil {
		return nil, fmt.Errorf("list return load item serials: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var serial string
		if err := rows.Scan(&serial); err != nil {
			return nil, fmt.Errorf("scan return load item serial: %w", err)
		}
		out = append(out, serial)
	}
	return out, rows.Err()
}

func (r *ReturnLoadRepo) scanOne(query string, args ...any) (*entity.ReturnLoad, error) {
	row := r.q.QueryRow(context.Background(), query, args...)
	rl, err := scanReturnLoad(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rl, nil
}

func scanReturnLoad(row pgx.Row) (*entity.ReturnLoad, error) {
	var rl entity.ReturnLoad
	err := row.Scan(
		&rl.ID, &rl.TenantID, &rl.RouteLoadID, &rl.VehicleID, &rl.DriverID,
		&rl.ReturnDate, &rl.Status,
		&rl.TotalFullReturned, &rl.TotalEmptyReturned, &rl.TotalExchanged,
		&rl.TotalMissing, &rl.TotalDamaged, &rl.TotalFullWeightKg, &rl.TotalEmptyWeightKg,
		&rl.DiscrepancyNotes, &rl.ResolvedBy, &rl.ResolvedAt,
		&rl.CreatedAt, &rl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan return load: %w", err)
	}
	return &rl, nil
}
