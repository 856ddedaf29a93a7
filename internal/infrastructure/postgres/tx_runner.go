package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/mes-api/internal/application/routing"
	"github.com/jhoicas/mes-api/internal/application/stock"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// Ensure TxRunner implements routing.TxRunner and stock.TxRunner.
var _ routing.TxRunner = (*TxRunner)(nil)
var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunRouting inicia una transacción, ejecuta fn con el repositorio de rutas
// atado a la tx y hace Commit o Rollback. Los reemplazos de ruta
// (borrar-e-insertar) nunca deben ser observables a medias.
func (r *TxRunner) RunRouting(ctx context.Context, fn func(routingRepo repository.RoutingRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRoutingRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunStock inicia una transacción con los repositorios de lotes y consumos
// atados a la tx; Commit si fn devuelve nil, Rollback si no.
func (r *TxRunner) RunStock(ctx context.Context, fn func(
	lotRepo repository.StockLotRepository,
	consumptionRepo repository.LotConsumptionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockLotRepository(tx), NewLotConsumptionRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCarryOver inicia una transacción con el repositorio de arrastres atado a la tx.
func (r *TxRunner) RunCarryOver(ctx context.Context, fn func(carryOverRepo repository.CarryOverRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCarryOverRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
