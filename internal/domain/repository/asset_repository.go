package repository

import "github.com/OscarV-prog/gasera-sub000/internal/domain/entity"

// AssetRepository define el puerto de persistencia del registro de activos.
// Todas las consultas filtran por tenant: un ID de otro tenant se comporta
// como inexistente (nil, nil).
type AssetRepository interface {
	// Create persiste un activo nuevo. Retorna domain.ErrDuplicate si el
	// serial ya existe para el tenant.
	Create(asset *entity.Asset) error
	GetByID(tenantID, id string) (*entity.Asset, error)
	GetBySerial(tenantID, serial string) (*entity.Asset, error)
	// GetBySerialForUpdate bloquea la fila (SELECT FOR UPDATE); usar solo
	// dentro de una transacción.
	GetBySerialForUpdate(tenantID, serial string) (*entity.Asset, error)
	List(tenantID, status, assetType string, limit, offset int) ([]*entity.Asset, error)
	// UpdateStatus escribe el nuevo estado sin tocar al dueño.
	UpdateStatus(tenantID, id, status string) error
	// AssignOwner fija dueño y fuerza status in_route, condicionado a que el
	// activo no tenga dueño o ya sea el mismo. Retorna domain.ErrConflict si
	// otro dueño lo tiene (doble carga).
	AssignOwner(tenantID, id, ownerID, ownerType string) error
	// ReleaseOwners limpia el dueño de los activos y les escribe newStatus
	// (in_stock al cancelar/retornar, maintenance para dañados).
	ReleaseOwners(tenantID string, ids []string, newStatus string) error
	// Delete elimina el registro; solo lo permite el caso de uso cuando el
	// activo no tiene dueño.
	Delete(tenantID, id string) error
}
