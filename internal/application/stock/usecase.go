package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// StockLedgerUseCase inventario de materiales a nivel de lote: recepción,
// consumo FIFO con tolerancia a stock negativo, disponibilidad y reportes.
type StockLedgerUseCase struct {
	txRunner        TxRunner
	lotRepo         repository.StockLotRepository
	consumptionRepo repository.LotConsumptionRepository
}

// NewStockLedgerUseCase construye el caso de uso.
func NewStockLedgerUseCase(txRunner TxRunner, lotRepo repository.StockLotRepository, consumptionRepo repository.LotConsumptionRepository) *StockLedgerUseCase {
	return &StockLedgerUseCase{txRunner: txRunner, lotRepo: lotRepo, consumptionRepo: consumptionRepo}
}

// Receive registra la recepción de un lote nuevo con UsedQty = 0.
// Devuelve ErrDuplicate si (materialID, lotNumber) ya existe.
func (uc *StockLedgerUseCase) Receive(materialID, lotNumber string, quantity decimal.Decimal, location string) (*entity.StockLot, error) {
	lotNumber = domain.NormalizeCode(lotNumber)
	if materialID == "" || lotNumber == "" || !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.lotRepo.GetByMaterialAndLot(materialID, lotNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	lot := &entity.StockLot{
		ID:         uuid.New().String(),
		MaterialID: materialID,
		LotNumber:  lotNumber,
		Quantity:   quantity,
		UsedQty:    decimal.Zero,
		Location:   location,
		ReceivedAt: now,
		UpdatedAt:  now,
	}
	if err := uc.lotRepo.Create(lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// ConsumeFIFO consume qty del material agotando primero los lotes más antiguos,
// en una sola transacción. Con allowNegative en false la insuficiencia devuelve
// ErrInsufficientStock sin mutación parcial; en true el remanente se fuerza
// sobre el lote más reciente. Si productionLotID no es vacío, cada consumo
// registra su fila puente para poder revertirlo.
func (uc *StockLedgerUseCase) ConsumeFIFO(ctx context.Context, materialID string, qty decimal.Decimal, productionLotID string, allowNegative bool) ([]LotUsage, error) {
	var usages []LotUsage
	err := uc.txRunner.RunStock(ctx, func(
		lotRepo repository.StockLotRepository,
		consumptionRepo repository.LotConsumptionRepository,
	) error {
		var err error
		usages, err = consumeLotsFIFO(lotRepo, consumptionRepo, materialID, qty, productionLotID, allowNegative)
		return err
	})
	if err != nil {
		return nil, err
	}
	return usages, nil
}

// AvailableQty suma (Quantity - UsedQty) de todos los lotes del material;
// puede ser negativo.
func (uc *StockLedgerUseCase) AvailableQty(materialID string) (decimal.Decimal, error) {
	lots, err := uc.lotRepo.ListByMaterial(materialID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(lot.AvailableQty())
	}
	return total, nil
}

// ListLots devuelve los lotes del material en orden FIFO.
func (uc *StockLedgerUseCase) ListLots(materialID string) ([]*entity.StockLot, error) {
	return uc.lotRepo.ListByMaterial(materialID)
}

// SummaryByMaterial agregado de stock por material, sin efectos secundarios.
func (uc *StockLedgerUseCase) SummaryByMaterial() ([]repository.MaterialStockSummary, error) {
	return uc.lotRepo.SummaryByMaterial()
}

// SummaryByLocation agregado de stock por ubicación, sin efectos secundarios.
func (uc *StockLedgerUseCase) SummaryByLocation() ([]repository.LocationStockSummary, error) {
	return uc.lotRepo.SummaryByLocation()
}

// LowStock materiales con disponible total por debajo del umbral de seguridad.
func (uc *StockLedgerUseCase) LowStock(threshold decimal.Decimal) ([]repository.MaterialStockSummary, error) {
	return uc.lotRepo.ListBelowThreshold(threshold)
}

// DeleteLot elimina físicamente un lote (operación destructiva explícita,
// fuera del flujo normal). Se rechaza con ErrLotInUse mientras existan
// consumos que lo referencien.
func (uc *StockLedgerUseCase) DeleteLot(id string) error {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return err
	}
	if lot == nil {
		return domain.ErrNotFound
	}
	refs, err := uc.consumptionRepo.CountByMaterialAndLot(lot.MaterialID, lot.LotNumber)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrLotInUse
	}
	return uc.lotRepo.Delete(id)
}
