package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

var _ repository.DiscrepancyRepository = (*DiscrepancyRepo)(nil)

const discrepancyColumns = `
	id, tenant_id, return_load_id, order_id, type,
	COALESCE(asset_type, ''), COALESCE(serial, ''),
	expected_qty, actual_qty, discrepancy_qty, status, estimated_value,
	COALESCE(resolution_notes, ''), resolved_by, resolved_at,
	created_at, updated_at`

// DiscrepancyRepo implementación de DiscrepancyRepository sobre PostgreSQL.
// No hay Delete: las discrepancias son la bitácora de pérdidas.
type DiscrepancyRepo struct {
	q Querier
}

// NewDiscrepancyRepository construye el adaptador de discrepancias.
func NewDiscrepancyRepository(q Querier) *DiscrepancyRepo {
	return &DiscrepancyRepo{q: q}
}

// Create inserta la discrepancia.
func (r *DiscrepancyRepo) Create(d *entity.Discrepancy) error {
	query := `
		INSERT INTO discrepancies (
			id, tenant_id, return_load_id, order_id, type,
			asset_type, serial, expected_qty, actual_qty, discrepancy_qty,
			status, estimated_value, resolution_notes, resolved_by, resolved_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10,
			$11, $12, NULLIF($13, ''), $14, $15, $16, $17
		)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.TenantID, d.ReturnLoadID, d.OrderID, d.Type,
		d.AssetType, d.Serial, d.ExpectedQty, d.ActualQty, d.DiscrepancyQty,
		d.Status, d.EstimatedValue, d.ResolutionNotes, d.ResolvedBy, d.ResolvedAt,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create discrepancy: %w", err)
	}
	return nil
}

// GetByID obtiene la discrepancia del tenant, o (nil, nil) si no existe.
func (r *DiscrepancyRepo) GetByID(tenantID, id string) (*entity.Discrepancy, error) {
	query := `SELECT ` + discrepancyColumns + ` FROM discrepancies WHERE tenant_id = $1 AND id = $2`
	return r.scanOne(query, tenantID, id)
}

// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE); usar solo dentro de
// una transacción.
func (r *DiscrepancyRepo) GetByIDForUpdate(tenantID, id string) (*entity.Discrepancy, error) {
	query := `SELECT ` + discrepancyColumns + ` FROM discrepancies WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return r.scanOne(query, tenantID, id)
}

// Update persiste estado, notas y sello de resolución.
func (r *DiscrepancyRepo) Update(d *entity.Discrepancy) error {
	query := `
		UPDATE discrepancies
		SET status = $3, estimated_value = $4, resolution_notes = NULLIF($5, ''),
		    resolved_by = $6, resolved_at = $7, updated_at = $8
		WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(context.Background(), query,
		d.TenantID, d.ID, d.Status, d.EstimatedValue, d.ResolutionNotes,
		d.ResolvedBy, d.ResolvedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update discrepancy: %w", err)
	}
	return nil
}

// List lista discrepancias del tenant con filtro opcional por estado.
func (r *DiscrepancyRepo) List(tenantID, status string, limit, offset int) ([]*entity.Discrepancy, error) {
	query := `
		SELECT ` + discrepancyColumns + `
		FROM discrepancies
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, tenantID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list discrepancies: %w", err)
	}
	defer rows.Close()

	var out []*entity.Discrepancy
	for rows.Next() {
		d, err := scanDiscrepancy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DiscrepancyRepo) scanOne(query string, args ...any) (*entity.Discrepancy, error) {
	row := r.q.QueryRow(context.Background(), query, args...)
	d, err := scanDiscrepancy(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

func scanDiscrepancy(row pgx.Row) (*entity.Discrepancy, error) {
	var d entity.Discrepancy
	err := row.Scan(
		&d.ID, &d.TenantID, &d.ReturnLoadID, &d.OrderID, &d.Type,
		&d.AssetType, &d.Serial,
		&d.ExpectedQty, &d.ActualQty, &d.DiscrepancyQty, &d.Status, &d.EstimatedValue,
		&d.ResolutionNotes, &d.ResolvedBy, &d.ResolvedAt,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan discrepancy: %w", err)
	}
	return &d, nil
}
