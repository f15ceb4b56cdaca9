package repository

import (
	"time"

	"github.com/OscarV-prog/gasera-sub000/internal/domain/entity"
)

// RouteLoadRepository define el puerto de persistencia de cargas de ruta.
type RouteLoadRepository interface {
	Create(load *entity.RouteLoad) error
	GetByID(tenantID, id string) (*entity.RouteLoad, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE) para re-leer
	// estado y totales dentro de la transacción de la mutación.
	GetByIDForUpdate(tenantID, id string) (*entity.RouteLoad, error)
	// Update persiste status, totales acumulados, tiempos y notas.
	Update(load *entity.RouteLoad) error
	ListByDateRange(tenantID string, from, to time.Time, limit, offset int) ([]*entity.RouteLoad, error)
	// ActiveByDriver devuelve la carga no terminal más reciente del chofer
	// (contrato del cliente móvil), o nil si no tiene.
	ActiveByDriver(tenantID, driverID string) (*entity.RouteLoad, error)
	// AddItem persiste una línea de carga junto con sus referencias
	// ordenadas a assets (route_load_item_assets).
	AddItem(item *entity.RouteLoadItem) error
	ListItems(tenantID, routeLoadID string) ([]*entity.RouteLoadItem, error)
	// ListTenantsWithLoads devuelve los tenants con cargas en la fecha
	// (para el refresco del caché de resumen diario).
	ListTenantsWithLoads(date time.Time) ([]string, error)
}
