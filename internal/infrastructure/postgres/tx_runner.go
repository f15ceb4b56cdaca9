package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OscarV-prog/gasera-sub000/internal/application/fulfillment"
	"github.com/OscarV-prog/gasera-sub000/internal/application/reconciliation"
	"github.com/OscarV-prog/gasera-sub000/internal/application/routeload"
	"github.com/OscarV-prog/gasera-sub000/internal/domain/repository"
)

var _ routeload.TxRunner = (*TxRunner)(nil)
var _ fulfillment.TxRunner = (*TxRunner)(nil)
var _ reconciliation.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del ciclo de carga (carga de ruta,
// activos y su bitácora) atados a la tx, y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	loadRepo repository.RouteLoadRepository,
	assetRepo repository.AssetRepository,
	historyRepo repository.AssetHistoryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	loadRepo := NewRouteLoadRepository(tx)
	assetRepo := NewAssetRepository(tx)
	historyRepo := NewAssetHistoryRepository(tx)

	if err := fn(loadRepo, assetRepo, historyRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOrder inicia una transacción con los repos de pedidos (para las
// transiciones de la máquina de estados y su bitácora).
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	historyRepo repository.OrderHistoryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderRepo := NewOrderRepository(tx)
	historyRepo := NewOrderHistoryRepository(tx)

	if err := fn(orderRepo, historyRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReturn inicia una transacción con los repos de conciliación (retornos,
// activos, bitácora y discrepancias) para cierres que asientan seriales.
func (r *TxRunner) RunReturn(ctx context.Context, fn func(
	returnRepo repository.ReturnLoadRepository,
	assetRepo repository.AssetRepository,
	historyRepo repository.AssetHistoryRepository,
	discrepancyRepo repository.DiscrepancyRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	returnRepo := NewReturnLoadRepository(tx)
	assetRepo := NewAssetRepository(tx)
	historyRepo := NewAssetHistoryRepository(tx)
	discrepancyRepo := NewDiscrepancyRepository(tx)

	if err := fn(returnRepo, assetRepo, historyRepo, discrepancyRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
