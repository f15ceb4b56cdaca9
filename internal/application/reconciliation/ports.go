package reconciliation

import (
	"context"

	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de conciliación atados a ella. Cerrar una conciliación o
// resolver una discrepancia toca activos y su bitácora: el cierre y el
// destino de cada serial se confirman como una sola unidad.
type TxRunner interface {
	RunReturn(ctx context.Context, fn func(
		returnRepo repository.ReturnLoadRepository,
		assetRepo repository.AssetRepository,
		historyRepo repository.AssetHistoryRepository,
		discrepancyRepo repository.DiscrepancyRepository,
	) error) error
}
