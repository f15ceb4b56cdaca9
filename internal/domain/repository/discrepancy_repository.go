package repository

import "github.com/OscarV-prog/gasera-sub000/internal/domain/entity"

// DiscrepancyRepository define el puerto de persistencia de discrepancias.
// Las discrepancias nunca se borran: son la bitácora de eventos de pérdida.
type DiscrepancyRepository interface {
	Create(d *entity.Discrepancy) error
	GetByID(tenantID, id string) (*entity.Discrepancy, error)
	GetByIDForUpdate(tenantID, id string) (*entity.Discrepancy, error)
	Update(d *entity.Discrepancy) error
	List(tenantID, status string, limit, offset int) ([]*entity.Discrepancy, error)
}
