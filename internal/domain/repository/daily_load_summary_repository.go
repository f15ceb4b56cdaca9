package repository

import (
	"time"

	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
)

// DailyLoadSummaryRepository define el puerto del caché de resumen diario.
// La tabla es derivada: se reescribe completa por (tenant, fecha).
type DailyLoadSummaryRepository interface {
	Upsert(summary *entity.DailyLoadSummary) error
	Get(tenantID string, date time.Time) (*entity.DailyLoadSummary, error)
}
