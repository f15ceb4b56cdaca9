package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

var _ repository.RouteLoadRepository = (*RouteLoadRepo)(nil)

const routeLoadColumns = `
	id, tenant_id, vehicle_id, driver_id, load_date, status,
	planned_deliveries, completed_deliveries,
	total_cylinders, total_tanks, total_weight_kg,
	departure_time, return_time, COALESCE(notes, ''),
	created_at, updated_at`

// RouteLoadRepo implementación de RouteLoadRepository sobre PostgreSQL
// (usable con pool o tx).
type RouteLoadRepo struct {
	q Querier
}

// NewRouteLoadRepository construye el adaptador de cargas de ruta.
func NewRouteLoadRepository(q Querier) *RouteLoadRepo {
	return &RouteLoadRepo{q: q}
}

// Create inserta la carga de ruta.
func (r *RouteLoadRepo) Create(rl *entity.RouteLoad) error {
	query := `
		INSERT INTO route_loads (
			id, tenant_id, vehicle_id, driver_id, load_date, status,
			planned_deliveries, completed_deliveries,
			total_cylinders, total_tanks, total_weight_kg,
			departure_time, return_time, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NULLIF($14, ''), $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		rl.ID, rl.TenantID, rl.VehicleID, rl.DriverID, rl.LoadDate, rl.Status,
		rl.PlannedDeliveries, rl.CompletedDeliveries,
		rl.TotalCylinders, rl.TotalTanks, rl.TotalWeightKg,
		rl.DepartureTime, rl.ReturnTime, rl.Notes, rl.CreatedAt, rl.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create route load: %w", err)
	}
	return nil
}

// GetByID obtiene la carga del tenant, o (nil, nil) si no existe.
func (r *RouteLoadRepo) GetByID(tenantID, id string) (*entity.RouteLoad, error) {
	query := `SELECT ` + routeLoadColumns + ` FROM route_loads WHERE tenant_id = $1 AND id = $2`
	return r.scanOne(query, tenantID, id)
}

// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE); usar solo dentro de
// una transacción.
func (r *RouteLoadRepo) GetByIDForUpdate(tenantID, id string) (*entity.RouteLoad, error) {
	query := `SELECT ` + routeLoadColumns + ` FROM route_loads WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return r.scanOne(query, tenantID, id)
}

// Update persiste status, totales acumulados, tiempos y notas.
func (r *RouteLoadRepo) Update(rl *entity.RouteLoad) error {
	query := `
		UPDATE route_loads
		SET status = $3, planned_deliveries = $4, completed_deliveries = $5,
		    total_cylinders = $6, total_tanks = $7, total_weight_kg = $8,
		    departure_time = $9, return_time = $10, notes = NULLIF($11, ''),
		    updated_at = $12
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		rl.TenantID, rl.ID, rl.Status, rl.PlannedDeliveries, rl.CompletedDeliveries,
		rl.TotalCylinders, rl.TotalTanks, rl.TotalWeightKg,
		rl.DepartureTime, rl.ReturnTime, rl.Notes, rl.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update route load: %w", err)
	}
	return nil
}

// ListByDateRange lista cargas del tenant con load_date en [from, to).
func (r *RouteLoadRepo) ListByDateRange(tenantID string, from, to time.Time, limit, offset int) ([]*entity.RouteLoad, error) {
	query := `
		SELECT ` + routeLoadColumns + `
		FROM route_loads
		WHERE tenant_id = $1 AND load_date >= $2 AND load_date < $3
		ORDER BY load_date DESC, created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, tenantID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list route loads: %w", err)
	}
	defer rows.Close()

	var out []*entity.RouteLoad
	for rows.Next() {
		rl, err := scanRouteLoad(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rl)
	}
	return out, rows.Err()
}

// ActiveByDriver devuelve la carga no terminal más reciente del chofer.
func (r *RouteLoadRepo) ActiveByDriver(tenantID, driverID string) (*entity.RouteLoad, error) {
	query := `
		SELECT ` + routeLoadColumns + `
		FROM route_loads
		WHERE tenant_id = $1 AND driver_id = $2 AND status NOT IN ($3, $4)
		ORDER BY load_date DESC, created_at DESC
		LIMIT 1`
	return r.scanOne(query, tenantID, driverID,
		entity.RouteLoadStatusCompleted, entity.RouteLoadStatusCancelled)
}

// AddItem inserta la línea de carga y sus referencias ordenadas a assets en
// route_load_item_assets.
func (r *RouteLoadRepo) AddItem(item *entity.RouteLoadItem) error {
	query := `
		INSERT INTO route_load_items (
			id, tenant_id, route_load_id, asset_type, asset_subtype,
			quantity, weight_per_unit_kg, total_weight_kg, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.TenantID, item.RouteLoadID, item.AssetType, item.AssetSubtype,
		item.Quantity, item.WeightPerUnitKg, item.TotalWeightKg, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add route load item: %w", err)
	}
	for pos := range item.Serials {
		var assetID any
		if pos < len(item.AssetIDs) {
			assetID = item.AssetIDs[pos]
		}
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO route_load_item_assets (item_id, tenant_id, position, serial, asset_id)
			VALUES ($1, $2, $3, $4, $5)`,
			item.ID, item.TenantID, pos, item.Serials[pos], assetID,
		)
		if err != nil {
			return fmt.Errorf("add route load item asset: %w", err)
		}
	}
	return nil
}

// ListItems devuelve las líneas de la carga con sus seriales en orden.
func (r *RouteLoadRepo) ListItems(tenantID, routeLoadID string) ([]*entity.RouteLoadItem, error) {
	query := `
		SELECT id, tenant_id, route_load_id, asset_type, asset_subtype,
		       quantity, weight_per_unit_kg, total_weight_kg, created_at
		FROM route_load_items
		WHERE tenant_id = $1 AND route_load_id = $2
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, tenantID, routeLoadID)
	if err != nil {
		return nil, fmt.Errorf("list route load items: %w", err)
	}
	defer rows.Close()

	var out []*entity.RouteLoadItem
	for rows.Next() {
		var item entity.RouteLoadItem
		if err := rows.Scan(
			&item.ID, &item.TenantID, &item.RouteLoadID, &item.AssetType, &item.AssetSubtype,
			&item.Quantity, &item.WeightPerUnitKg, &item.TotalWeightKg, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan route load item: %w", err)
		}
		out = append(out, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, item := range out {
		serials, assetIDs, err := r.listItemAssets(tenantID, item.ID)
		if err != nil {
			return nil, err
		}
		item.Serials = serials
		item.AssetIDs = assetIDs
	}
	return out, nil
}

// ListTenantsWithLoads devuelve los tenants con cargas en la fecha.
func (r *RouteLoadRepo) ListTenantsWithLoads(date time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT tenant_id
		FROM route_loads
		WHERE load_date >= $1 AND load_date < $2`
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	rows, err := r.q.Query(context.Background(), query, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list tenants with loads: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var tenantID string
		if err := rows.Scan(&tenantID); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, tenantID)
	}
	return out, rows.Err()
}

func (r *RouteLoadRepo) listItemAssets(tenantID, itemID string) ([]string, []string, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT serial, asset_id
		FROM route_load_item_assets
		WHERE tenant_id = $1 AND item_id = $2
		ORDER BY position`,
		tenantID, itemID)
	if err != nil {
		return nil, nil, fmt.Errorf("list route load item assets: %w", err)
	}
	defer rows.Close()

	var serials, assetIDs []string
	for rows.Next() {
		var serial string
		var assetID *string
		if err := rows.Scan(&serial, &assetID); err != nil {
			return nil, nil, fmt.Errorf("scan route load item asset: %w", err)
		}
		serials = append(serials, serial)
		if assetID != nil {
			assetIDs = append(assetIDs, *assetID)
		}
	}
	return serials, assetIDs, rows.Err()
}

func (r *RouteLoadRepo) scanOne(query string, args ...any) (*entity.RouteLoad, error) {
	row := r.q.QueryRow(context.Background(), query, args...)
	rl, err := scanRouteLoad(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rl, nil
}

func scanRouteLoad(row pgx.Row) (*entity.RouteLoad, error) {
	var rl entity.RouteLoad
	err := row.Scan(
		&rl.ID, &rl.TenantID, &rl.VehicleID, &rl.DriverID, &rl.LoadDate, &rl.Status,
		&rl.PlannedDeliveries, &rl.CompletedDeliveries,
		&rl.TotalCylinders, &rl.TotalTanks, &rl.TotalWeightKg,
		&rl.DepartureTime, &rl.ReturnTime, &rl.Notes,
		&rl.CreatedAt, &rl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan route load: %w", err)
	}
	return &rl, nil
}
