package repository

import "github.com/OscarV-prog/gasera-sub000/internal/domain/entity"

// IncidentRepository define el puerto de persistencia de incidentes de chofer.
type IncidentRepository interface {
	Create(incident *entity.Incident) error
	List(tenantID string, limit, offset int) ([]*entity.Incident, error)
}
