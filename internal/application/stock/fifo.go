package stock

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// LotUsage consumo aplicado a un lote de stock en una operación.
type LotUsage struct {
	LotNumber    string
	UsedQty      decimal.Decimal
	WentNegative bool
}

// consumeLotsFIFO consume qty del material recorriendo sus lotes en orden
// ReceivedAt ascendente, agotando primero el disponible positivo más antiguo.
//
// Si el disponible total no alcanza y allowNegative es false, devuelve
// ErrInsufficientStock sin mutar nada (todo-o-nada). Si allowNegative es true,
// el remanente se fuerza sobre el lote recibido más recientemente, empujando
// su UsedQty por encima de Quantity. El recorrido es estrictamente secuencial:
// el orden decide qué lote absorbe el remanente negativo.
//
// Cada consumo registra una fila puente LotMaterialConsumption cuando se
// proporciona productionLotID. Debe invocarse con repos atados a una transacción.
func consumeLotsFIFO(
	lotRepo repository.StockLotRepository,
	consumptionRepo repository.LotConsumptionRepository,
	materialID string,
	qty decimal.Decimal,
	productionLotID string,
	allowNegative bool,
) ([]LotUsage, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	lots, err := lotRepo.ListByMaterialForUpdate(materialID)
	if err != nil {
		return nil, err
	}
	if len(lots) == 0 {
		return nil, fmt.Errorf("%w: material %s sin lotes", domain.ErrInsufficientStock, materialID)
	}

	totalAvailable := decimal.Zero
	for _, lot := range lots {
		if avail := lot.AvailableQty(); avail.IsPositive() {
			totalAvailable = totalAvailable.Add(avail)
		}
	}
	if totalAvailable.LessThan(qty) && !allowNegative {
		return nil, fmt.Errorf("%w: material %s requiere %s, disponible %s",
			domain.ErrInsufficientStock, materialID, qty.String(), totalAvailable.String())
	}

	remaining := qty
	takes := make(map[string]decimal.Decimal, len(lots)) // lotNumber -> cantidad a consumir
	order := make([]string, 0, len(lots))
	for _, lot := range lots {
		if !remaining.IsPositive() {
			break
		}
		avail := lot.AvailableQty()
		if !avail.IsPositive() {
			continue
		}
		take := decimal.Min(avail, remaining)
		takes[lot.LotNumber] = take
		order = append(order, lot.LotNumber)
		remaining = remaining.Sub(take)
	}

	negativeLot := ""
	if remaining.IsPositive() {
		// Remanente forzado: lo absorbe el lote recibido más recientemente.
		target := lots[len(lots)-1]
		if _, touched := takes[target.LotNumber]; !touched {
			order = append(order, target.LotNumber)
			takes[target.LotNumber] = decimal.Zero
		}
		takes[target.LotNumber] = takes[target.LotNumber].Add(remaining)
		negativeLot = target.LotNumber
	}

	byNumber := make(map[string]*entity.StockLot, len(lots))
	for _, lot := range lots {
		byNumber[lot.LotNumber] = lot
	}

	now := time.Now()
	usages := make([]LotUsage, 0, len(order))
	for _, lotNumber := range order {
		lot := byNumber[lotNumber]
		take := takes[lotNumber]
		lot.UsedQty = lot.UsedQty.Add(take)
		lot.UpdatedAt = now
		if err := lotRepo.Update(lot); err != nil {
			return nil, err
		}
		if productionLotID != "" {
			bridge := &entity.LotMaterialConsumption{
				ID:              uuid.New().String(),
				ProductionLotID: productionLotID,
				MaterialID:      materialID,
				LotNumber:       lotNumber,
				Quantity:        take,
				CreatedAt:       now,
			}
			if err := consumptionRepo.Create(bridge); err != nil {
				return nil, err
			}
		}
		usages = append(usages, LotUsage{
			LotNumber:    lotNumber,
			UsedQty:      take,
			WentNegative: lotNumber == negativeLot && lot.AvailableQty().IsNegative(),
		})
	}
	return usages, nil
}
