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

var _ repository.DailyLoadSummaryRepository = (*DailyLoadSummaryRepo)(nil)

// DailyLoadSummaryRepo implementación del caché de resumen diario sobre
// PostgreSQL. La tabla se reescribe completa por (tenant, fecha).
type DailyLoadSummaryRepo struct {
	q Querier
}

// NewDailyLoadSummaryRepository construye el adaptador del resumen diario.
func NewDailyLoadSummaryRepository(q Querier) *DailyLoadSummaryRepo {
	return &DailyLoadSummaryRepo{q: q}
}

// Upsert inserta o reescribe el resumen del día.
func (r *DailyLoadSummaryRepo) Upsert(s *entity.DailyLoadSummary) error {
	query := `
		INSERT INTO daily_load_summaries (
			tenant_id, date, total_route_loads, dispatched, completed, cancelled,
			total_cylinders, total_tanks, total_weight_kg,
			planned_deliveries, completed_deliveries, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (tenant_id, date)
		DO UPDATE SET
			total_route_loads = EXCLUDED.total_route_loads,
			dispatched = EXCLUDED.dispatched,
			completed = EXCLUDED.completed,
			cancelled = EXCLUDED.cancelled,
			total_cylinders = EXCLUDED.total_cylinders,
			total_tanks = EXCLUDED.total_tanks,
			total_weight_kg = EXCLUDED.total_weight_kg,
			planned_deliveries = EXCLUDED.planned_deliveries,
			completed_deliveries = EXCLUDED.completed_deliveries,
			generated_at = EXCLUDED.generated_at`
	_, err := r.q.Exec(context.Background(), query,
		s.TenantID, s.Date, s.TotalRouteLoads, s.Dispatched, s.Completed, s.Cancelled,
		s.TotalCylinders, s.TotalTanks, s.TotalWeightKg,
		s.PlannedDeliveries, s.CompletedDeliveries, s.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert daily load summary: %w", err)
	}
	return nil
}

// Get obtiene el resumen cacheado, o (nil, nil) si aún no se generó.
func (r *DailyLoadSummaryRepo) Get(tenantID string, date time.Time) (*entity.DailyLoadSummary, error) {
	query := `
		SELECT tenant_id, date, total_route_loads, dispatched, completed, cancelled,
		       total_cylinders, total_tanks, total_weight_kg,
		       planned_deliveries, completed_deliveries, generated_at
		FROM daily_load_summaries
		WHERE tenant_id = $1 AND date = $2`
	var s entity.DailyLoadSummary
	err := r.q.QueryRow(context.Background(), query, tenantID, date).Scan(
		&s.TenantID, &s.Date, &s.TotalRouteLoads, &s.Dispatched, &s.Completed, &s.Cancelled,
		&s.TotalCylinders, &s.TotalTanks, &s.TotalWeightKg,
		&s.PlannedDeliveries, &s.CompletedDeliveries, &s.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get daily load summary: %w", err)
	}
	return &s, nil
}
