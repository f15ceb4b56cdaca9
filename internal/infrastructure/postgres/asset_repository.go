package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/OscarV-prog/gasera-sub000/internal/domain"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

var _ repository.AssetRepository = (*AssetRepo)(nil)

const assetColumns = `
	id, tenant_id, serial, type, subtype, status,
	current_owner_id, COALESCE(current_owner_type, ''),
	tare_weight_kg, capacity_kg, last_inspection, next_inspection,
	created_at, updated_at`

// AssetRepo implementación de AssetRepository sobre PostgreSQL (usable con pool o tx).
type AssetRepo struct {
	q Querier
}

// NewAssetRepository construye el adaptador de activos. Pasar pool o tx (Querier).
func NewAssetRepository(q Querier) *AssetRepo {
	return &AssetRepo{q: q}
}

// Create inserta el activo. El índice único (tenant_id, serial) traduce el
// choque a domain.ErrDuplicate.
func (r *AssetRepo) Create(a *entity.Asset) error {
	query := `
		INSERT INTO assets (
			id, tenant_id, serial, type, subtype, status,
			current_owner_id, current_owner_type,
			tare_weight_kg, capacity_kg, last_inspection, next_inspection,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.TenantID, a.Serial, a.Type, a.Subtype, a.Status,
		a.CurrentOwnerID, a.CurrentOwnerType,
		a.TareWeightKg, a.CapacityKg, a.LastInspection, a.NextInspection,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}

// GetByID obtiene el activo del tenant, o (nil, nil) si no existe.
func (r *AssetRepo) GetByID(tenantID, id string) (*entity.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE tenant_id = $1 AND id = $2`
	return r.scanOne(query, tenantID, id)
}

// GetBySerial obtiene el activo por serial dentro del tenant.
func (r *AssetRepo) GetBySerial(tenantID, serial string) (*entity.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE tenant_id = $1 AND serial = $2`
	return r.scanOne(query, tenantID, serial)
}

// GetBySerialForUpdate obtiene el activo por serial y bloquea la fila
// (SELECT FOR UPDATE). Usar solo dentro de una transacción.
func (r *AssetRepo) GetBySerialForUpdate(tenantID, serial string) (*entity.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE tenant_id = $1 AND serial = $2 FOR UPDATE`
	return r.scanOne(query, tenantID, serial)
}

// List lista activos del tenant con filtros opcionales por estado y tipo.
func (r *AssetRepo) List(tenantID, status, assetType string, limit, offset int) ([]*entity.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE tenant_id = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR type = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, tenantID, status, assetType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var out []*entity.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateStatus escribe el nuevo estado sin tocar al dueño.
func (r *AssetRepo) UpdateStatus(tenantID, id, status string) error {
	query := `UPDATE assets SET status = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(context.Background(), query, tenantID, id, status)
	if err != nil {
		return fmt.Errorf("update asset status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AssignOwner fija dueño y fuerza in_route, condicionado en el WHERE a que el
// activo esté libre o ya tenga al mismo dueño. Cero filas con el activo
// existente significa doble carga (ErrConflict).
func (r *AssetRepo) AssignOwner(tenantID, id, ownerID, ownerType string) error {
	query := `
		UPDATE assets
		SET current_owner_id = $3, current_owner_type = $4, status = $5, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
		  AND (current_owner_id IS NULL
		       OR (current_owner_id = $3 AND current_owner_type = $4))`
	tag, err := r.q.Exec(context.Background(), query,
		tenantID, id, ownerID, ownerType, entity.AssetStatusInRoute)
	if err != nil {
		return fmt.Errorf("assign asset owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.GetByID(tenantID, id)
		if err != nil {
			return err
		}
		if exists == nil {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// ReleaseOwners limpia al dueño de los activos y les escribe newStatus.
func (r *AssetRepo) ReleaseOwners(tenantID string, ids []string, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE assets
		SET current_owner_id = NULL, current_owner_type = NULL, status = $3, updated_at = now()
		WHERE tenant_id = $1 AND id = ANY($2)`
	_, err := r.q.Exec(context.Background(), query, tenantID, ids, newStatus)
	if err != nil {
		return fmt.Errorf("release asset owners: %w", err)
	}
	return nil
}

// Delete elimina el registro del activo.
func (r *AssetRepo) Delete(tenantID, id string) error {
	query := `DELETE FROM assets WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(context.Background(), query, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AssetRepo) scanOne(query string, args ...any) (*entity.Asset, error) {
	row := r.q.QueryRow(context.Background(), query, args...)
	a, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func scanAsset(row pgx.Row) (*entity.Asset, error) {
	var a entity.Asset
	err := row.Scan(
		&a.ID, &a.TenantID, &a.Serial, &a.Type, &a.Subtype, &a.Status,
		&a.CurrentOwnerID, &a.CurrentOwnerType,
		&a.TareWeightKg, &a.CapacityKg, &a.LastInspection, &a.NextInspection,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan asset: %w", err)
	}
	return &a, nil
}
