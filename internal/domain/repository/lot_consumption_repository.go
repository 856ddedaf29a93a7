package repository

import "github.com/jhoicas/mes-api/internal/domain/entity"

// LotConsumptionRepository define el puerto de persistencia para los registros
// puente de consumo (lote de producción → lote de stock).
type LotConsumptionRepository interface {
	Create(c *entity.LotMaterialConsumption) error
	ListByProductionLot(productionLotID string) ([]*entity.LotMaterialConsumption, error)
	ListByMaterialAndLot(materialID, lotNumber string) ([]*entity.LotMaterialConsumption, error)
	CountByMaterialAndLot(materialID, lotNumber string) (int, error)
	// DeleteByProductionLot elimina todos los consumos del lote de producción
	// y devuelve cuántos había (cero si ya se hizo rollback).
	DeleteByProductionLot(productionLotID string) (int, error)
}
