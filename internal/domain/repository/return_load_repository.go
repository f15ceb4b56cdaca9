package repository

import "github.com/OscarV-prog/gasera-sub000/internal/domain/entity"

// ReturnLoadRepository define el puerto de persistencia de conciliaciones
// de retorno.
type ReturnLoadRepository interface {
	// Create persiste la conciliación con sus conteos por cubeta.
	Create(load *entity.ReturnLoad, items []*entity.ReturnLoadItem) error
	GetByID(tenantID, id string) (*entity.ReturnLoad, error)
	GetByIDForUpdate(tenantID, id string) (*entity.ReturnLoad, error)
	Update(load *entity.ReturnLoad) error
	ListByRouteLoad(tenantID, routeLoadID string) ([]*entity.ReturnLoad, error)
	ListItems(tenantID, returnLoadID string) ([]*entity.ReturnLoadItem, error)
}
