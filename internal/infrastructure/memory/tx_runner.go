package memory

import (
	"context"

	"github.com/jhoicas/mes-api/internal/application/routing"
	"github.com/jhoicas/mes-api/internal/application/stock"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// Ensure TxRunner implements routing.TxRunner and stock.TxRunner.
var _ routing.TxRunner = (*TxRunner)(nil)
var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner pasa los repositorios en memoria directamente al callback:
// no hay transacción real, las operaciones se aplican según llegan.
// Suficiente para pruebas y ejecuciones locales sin base de datos.
type TxRunner struct {
	routingRepo   repository.RoutingRepository
	lotRepo       repository.StockLotRepository
	consumption   repository.LotConsumptionRepository
	carryOverRepo repository.CarryOverRepository
}

// NewTxRunner construye el runner con los repositorios en memoria.
func NewTxRunner(
	routingRepo repository.RoutingRepository,
	lotRepo repository.StockLotRepository,
	consumption repository.LotConsumptionRepository,
	carryOverRepo repository.CarryOverRepository,
) *TxRunner {
	return &TxRunner{
		routingRepo:   routingRepo,
		lotRepo:       lotRepo,
		consumption:   consumption,
		carryOverRepo: carryOverRepo,
	}
}

// RunRouting ejecuta fn con el repositorio de rutas.
func (r *TxRunner) RunRouting(_ context.Context, fn func(routingRepo repository.RoutingRepository) error) error {
	return fn(r.routingRepo)
}

// RunStock ejecuta fn con los repositorios de stock.
func (r *TxRunner) RunStock(_ context.Context, fn func(
	lotRepo repository.StockLotRepository,
	consumptionRepo repository.LotConsumptionRepository,
) error) error {
	return fn(r.lotRepo, r.consumption)
}

// RunCarryOver ejecuta fn con el repositorio de arrastres.
func (r *TxRunner) RunCarryOver(_ context.Context, fn func(carryOverRepo repository.CarryOverRepository) error) error {
	return fn(r.carryOverRepo)
}
