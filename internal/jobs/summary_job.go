// Package jobs contiene los trabajos programados del motor.
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/OscarV-prog/gasera-sub000/internal/application/routeload"
	"github.com/OscarV-prog/gasera-sub000/pkg/logger"
)

// SummaryJob refresca cada noche el caché de resumen diario de cargas para
// todos los tenants con actividad en el día. El caché es derivado: si una
// corrida falla, la siguiente lo reescribe completo.
type SummaryJob struct {
	usecase *routeload.UseCase
	cron    *cron.Cron
	spec    string
	log     *logger.Logger
}

// NewSummaryJob construye el job con la expresión cron (con segundos).
func NewSummaryJob(usecase *routeload.UseCase, spec string, log *logger.Logger) *SummaryJob {
	return &SummaryJob{
		usecase: usecase,
		cron:    cron.New(cron.WithSeconds()),
		spec:    spec,
		log:     log,
	}
}

// Start programa el refresco. Retorna error si la expresión cron es inválida.
func (j *SummaryJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, j.refresh)
	if err != nil {
		return err
	}
	j.cron.Start()
	j.log.Info().Str("spec", j.spec).Msg("job de resumen diario iniciado")
	return nil
}

// Stop detiene el scheduler.
func (j *SummaryJob) Stop() {
	j.cron.Stop()
	j.log.Info().Msg("job de resumen diario detenido")
}

func (j *SummaryJob) refresh() {
	date := time.Now()
	tenants, err := j.usecase.TenantsWithLoads(date)
	if err != nil {
		j.log.Error().Err(err).Msg("no se pudieron listar tenants con cargas")
		return
	}
	for _, tenantID := range tenants {
		if err := j.usecase.RefreshDailySummary(tenantID, date); err != nil {
			j.log.Error().Err(err).Str("tenant_id", tenantID).Msg("falló el refresco del resumen diario")
			continue
		}
	}
	j.log.Info().Int("tenants", len(tenants)).Msg("resumen diario refrescado")
}
