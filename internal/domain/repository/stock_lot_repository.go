package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mes-api/internal/domain/entity"
)

// MaterialStockSummary agregado de stock por material.
type MaterialStockSummary struct {
	MaterialID     string
	LotCount       int
	TotalQuantity  decimal.Decimal
	TotalUsed      decimal.Decimal
	TotalAvailable decimal.Decimal
}

// LocationStockSummary agregado de stock por ubicación.
type LocationStockSummary struct {
	Location       string
	LotCount       int
	TotalAvailable decimal.Decimal
}

// StockLotRepository define el puerto de persistencia para lotes de stock.
// La unicidad de (MaterialID, LotNumber) la garantiza el almacenamiento.
type StockLotRepository interface {
	Create(lot *entity.StockLot) error
	GetByID(id string) (*entity.StockLot, error)
	GetByMaterialAndLot(materialID, lotNumber string) (*entity.StockLot, error)
	// ListByMaterial devuelve los lotes del material ordenados por ReceivedAt
	// ascendente (orden FIFO). El orden es determinante: decide qué lote absorbe
	// un remanente forzado a negativo.
	ListByMaterial(materialID string) ([]*entity.StockLot, error)
	// ListByMaterialForUpdate igual que ListByMaterial pero bloqueando las filas
	// (SELECT FOR UPDATE) dentro de una transacción.
	ListByMaterialForUpdate(materialID string) ([]*entity.StockLot, error)
	GetByMaterialAndLotForUpdate(materialID, lotNumber string) (*entity.StockLot, error)
	Update(lot *entity.StockLot) error
	Delete(id string) error
	SummaryByMaterial() ([]MaterialStockSummary, error)
	SummaryByLocation() ([]LocationStockSummary, error)
	// ListBelowThreshold devuelve los materiales cuyo disponible total está por
	// debajo del umbral de stock de seguridad.
	ListBelowThreshold(threshold decimal.Decimal) ([]MaterialStockSummary, error)
}
