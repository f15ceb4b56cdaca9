package repository

import "github.com/OscarV-prog/gasera-sub000/internal/domain/entity"

// AssetHistoryRepository define el puerto de la bitácora de activos.
// La tabla es append-only: nunca hay update ni delete.
type AssetHistoryRepository interface {
	Append(event *entity.AssetHistoryEvent) error
	// ListByAsset devuelve los eventos en orden cronológico inverso.
	ListByAsset(tenantID, assetID string, limit, offset int) ([]*entity.AssetHistoryEvent, error)
}
