package postgres

import (
	"context"
	"fmt"

	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

var _ repository.IncidentRepository = (*IncidentRepo)(nil)

// IncidentRepo implementación de IncidentRepository sobre PostgreSQL.
type IncidentRepo struct {
	q Querier
}

// NewIncidentRepository construye el adaptador de incidentes.
func NewIncidentRepository(q Querier) *IncidentRepo {
	return &IncidentRepo{q: q}
}

// Create inserta el incidente.
func (r *IncidentRepo) Create(i *entity.Incident) error {
	query := `
		INSERT INTO incidents (
			id, tenant_id, driver_id, route_load_id, order_id,
			type, description, reported_at, created_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		i.ID, i.TenantID, i.DriverID, i.RouteLoadID, i.OrderID,
		i.Type, i.Description, i.ReportedAt, i.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create incident: %w", err)
	}
	return nil
}

// List lista incidentes del tenant, más recientes primero.
func (r *IncidentRepo) List(tenantID string, limit, offset int) ([]*entity.Incident, error) {
	query := `
		SELECT id, tenant_id, driver_id, route_load_id, order_id,
		       COALESCE(type, ''), description, reported_at, created_at
		FROM incidents
		WHERE tenant_id = $1
		ORDER BY reported_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var out []*entity.Incident
	for rows.Next() {
		var i entity.Incident
		if err := rows.Scan(
			&i.ID, &i.TenantID, &i.DriverID, &i.RouteLoadID, &i.OrderID,
			&i.Type, &i.Description, &i.ReportedAt, &i.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		out = append(out, &i)
	}
	return out, rows.Err()
}
