package routeload

import (
	"context"

	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. RegisterLoad, Dispatch y Cancel re-leen el
// estado de la carga (SELECT FOR UPDATE), re-validan la guarda y asignan o
// liberan activos dentro de la misma transacción: todo se confirma o se
// revierte como unidad, nunca quedan activos a medio asignar.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		loadRepo repository.RouteLoadRepository,
		assetRepo repository.AssetRepository,
		historyRepo repository.AssetHistoryRepository,
	) error) error
}
