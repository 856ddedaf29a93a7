package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// LotHint lote concreto indicado por el llamador (escaneos ya ligados a lote).
// Quantity en cero significa "hasta donde alcance el requerimiento".
type LotHint struct {
	MaterialID string
	LotNumber  string
	Quantity   decimal.Decimal
}

// DeductionInput parámetros de una deducción por BOM.
type DeductionInput struct {
	ProductID       string
	ProcessCode     string
	ProductionLotID string
	ProductionQty   decimal.Decimal
	LotHints        []LotHint
	AllowNegative   bool
}

// DeductionItem resultado por material de una deducción.
type DeductionItem struct {
	MaterialID      string
	MaterialCode    string
	MaterialName    string
	RequiredQty     decimal.Decimal
	DeductedQty     decimal.Decimal
	RemainingQty    decimal.Decimal
	Lots            []LotUsage
	Success         bool
	AllowedNegative bool // algún lote quedó en negativo; dato informativo
	Message         string
}

// DeductionResult resultado agregado de una deducción.
type DeductionResult struct {
	Success bool
	Items   []DeductionItem
	Errors  []string
}

// BOMDeductionUseCase motor de deducción de materiales por BOM: resuelve los
// requerimientos, consume primero los lotes indicados por el llamador y el
// resto por FIFO, tolera stock negativo y soporta rollback completo por lote
// de producción.
type BOMDeductionUseCase struct {
	txRunner    TxRunner
	processRepo repository.ProcessRepository
	lotRepo     repository.StockLotRepository
	bomResolver BOMResolver
}

// NewBOMDeductionUseCase construye el caso de uso.
func NewBOMDeductionUseCase(txRunner TxRunner, processRepo repository.ProcessRepository, lotRepo repository.StockLotRepository, bomResolver BOMResolver) *BOMDeductionUseCase {
	return &BOMDeductionUseCase{txRunner: txRunner, processRepo: processRepo, lotRepo: lotRepo, bomResolver: bomResolver}
}

// Deduct ejecuta una deducción completa en una transacción.
//
// Con AllowNegative en false, el faltante de un material marca ese item y el
// agregado como fallidos pero NO revierte lo ya deducido para otros items de
// la misma llamada; el llamador debe invocar Rollback si necesita atomicidad
// entre materiales. Con AllowNegative en true (modo normal de operación) la
// llamada nunca falla por faltante: deduce todo, tomando prestado contra
// recepciones futuras.
func (uc *BOMDeductionUseCase) Deduct(ctx context.Context, in DeductionInput) (*DeductionResult, error) {
	processCode := domain.NormalizeCode(in.ProcessCode)
	if in.ProductID == "" || !in.ProductionQty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	process, err := uc.processRepo.GetByCode(processCode)
	if err != nil {
		return nil, err
	}
	if process == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProcessCode, processCode)
	}
	result := &DeductionResult{Success: true}
	if !process.HasMaterialInput {
		// El proceso no consume materiales; la deducción es trivialmente exitosa.
		return result, nil
	}

	requirements, err := uc.bomResolver.CalculateRequiredMaterials(ctx, in.ProductID, processCode, in.ProductionQty)
	if err != nil {
		return nil, err
	}
	if len(requirements) == 0 {
		return result, nil
	}

	hintsByMaterial := make(map[string][]LotHint)
	for _, h := range in.LotHints {
		h.LotNumber = domain.NormalizeCode(h.LotNumber)
		hintsByMaterial[h.MaterialID] = append(hintsByMaterial[h.MaterialID], h)
	}

	err = uc.txRunner.RunStock(ctx, func(
		lotRepo repository.StockLotRepository,
		consumptionRepo repository.LotConsumptionRepository,
	) error {
		for _, req := range requirements {
			item := DeductionItem{
				MaterialID:   req.MaterialID,
				MaterialCode: req.MaterialCode,
				MaterialName: req.MaterialName,
				RequiredQty:  req.RequiredQty,
				DeductedQty:  decimal.Zero,
				RemainingQty: req.RequiredQty,
			}

			usages, err := consumeHintedLots(lotRepo, consumptionRepo, req.MaterialID,
				hintsByMaterial[req.MaterialID], &item, in.ProductionLotID, in.AllowNegative)
			if err != nil {
				return err
			}
			item.Lots = usages

			if item.RemainingQty.IsPositive() {
				fifoUsages, err := consumeLotsFIFO(lotRepo, consumptionRepo, req.MaterialID,
					item.RemainingQty, in.ProductionLotID, in.AllowNegative)
				switch {
				case err == nil:
					for _, u := range fifoUsages {
						item.DeductedQty = item.DeductedQty.Add(u.UsedQty)
						item.RemainingQty = item.RemainingQty.Sub(u.UsedQty)
						if u.WentNegative {
							item.AllowedNegative = true
						}
					}
					item.Lots = append(item.Lots, fifoUsages...)
				case errors.Is(err, domain.ErrInsufficientStock):
					item.Message = err.Error()
				default:
					return err
				}
			}

			item.Success = item.RemainingQty.IsZero()
			if !item.Success && !in.AllowNegative {
				result.Errors = append(result.Errors,
					fmt.Sprintf("material %s: requerido %s, faltante %s",
						req.MaterialID, item.RequiredQty.String(), item.RemainingQty.String()))
			}
			result.Items = append(result.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	allOK := true
	for _, item := range result.Items {
		if !item.Success {
			allOK = false
			break
		}
	}
	// La tolerancia a negativo convierte el faltante en éxito forzado.
	result.Success = allOK || in.AllowNegative
	return result, nil
}

// consumeHintedLots consume de los lotes indicados por el llamador, en orden,
// hasta la cantidad declarada de cada uno (o la implícita por su disponible).
// Un lote desconocido se ignora: el escaneo inválido se trata como material
// desconocido y su cantidad cae al fallback FIFO.
func consumeHintedLots(
	lotRepo repository.StockLotRepository,
	consumptionRepo repository.LotConsumptionRepository,
	materialID string,
	hints []LotHint,
	item *DeductionItem,
	productionLotID string,
	allowNegative bool,
) ([]LotUsage, error) {
	var usages []LotUsage
	now := time.Now()
	for _, hint := range hints {
		if !item.RemainingQty.IsPositive() {
			break
		}
		lot, err := lotRepo.GetByMaterialAndLotForUpdate(materialID, hint.LotNumber)
		if err != nil {
			return nil, err
		}
		if lot == nil {
			continue
		}
		take := item.RemainingQty
		if hint.Quantity.IsPositive() {
			take = decimal.Min(take, hint.Quantity)
		}
		if !allowNegative {
			avail := lot.AvailableQty()
			if !avail.IsPositive() {
				continue
			}
			take = decimal.Min(take, avail)
		}
		if !take.IsPositive() {
			continue
		}
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
				LotNumber:       lot.LotNumber,
				Quantity:        take,
				CreatedAt:       now,
			}
			if err := consumptionRepo.Create(bridge); err != nil {
				return nil, err
			}
		}
		wentNegative := lot.AvailableQty().IsNegative()
		if wentNegative {
			item.AllowedNegative = true
		}
		usages = append(usages, LotUsage{LotNumber: lot.LotNumber, UsedQty: take, WentNegative: wentNegative})
		item.DeductedQty = item.DeductedQty.Add(take)
		item.RemainingQty = item.RemainingQty.Sub(take)
	}
	return usages, nil
}

// Rollback revierte todas las deducciones de un lote de producción: decrementa
// el UsedQty de cada lote de stock tocado (con piso en cero, defensivo) y
// elimina las filas puente. Devuelve cuántos lotes de stock distintos se
// restauraron. Idempotente: una segunda llamada no encuentra filas y devuelve 0.
func (uc *BOMDeductionUseCase) Rollback(ctx context.Context, productionLotID string) (int, error) {
	if productionLotID == "" {
		return 0, domain.ErrInvalidInput
	}
	restored := 0
	err := uc.txRunner.RunStock(ctx, func(
		lotRepo repository.StockLotRepository,
		consumptionRepo repository.LotConsumptionRepository,
	) error {
		rows, err := consumptionRepo.ListByProductionLot(productionLotID)
		if err != nil {
			return err
		}
		now := time.Now()
		touched := make(map[string]bool)
		for _, row := range rows {
			lot, err := lotRepo.GetByMaterialAndLotForUpdate(row.MaterialID, row.LotNumber)
			if err != nil {
				return err
			}
			if lot == nil {
				continue
			}
			lot.UsedQty = lot.UsedQty.Sub(row.Quantity)
			if lot.UsedQty.IsNegative() {
				lot.UsedQty = decimal.Zero
			}
			lot.UpdatedAt = now
			if err := lotRepo.Update(lot); err != nil {
				return err
			}
			touched[row.MaterialID+"/"+row.LotNumber] = true
		}
		if _, err := consumptionRepo.DeleteByProductionLot(productionLotID); err != nil {
			return err
		}
		restored = len(touched)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return restored, nil
}

// AvailabilityItem disponibilidad por material en una verificación previa.
type AvailabilityItem struct {
	MaterialID   string
	MaterialCode string
	RequiredQty  decimal.Decimal
	AvailableQty decimal.Decimal
	ShortageQty  decimal.Decimal
}

// AvailabilityResult resultado de una verificación previa de disponibilidad.
type AvailabilityResult struct {
	Available bool
	Items     []AvailabilityItem
}

// CheckAvailability informe de faltantes sin tocar el inventario (dry-run).
// El disponible por material es la suma de los disponibles positivos de sus
// lotes, lo mismo que una deducción sin negativo podría extraer realmente.
func (uc *BOMDeductionUseCase) CheckAvailability(ctx context.Context, productID, processCode string, productionQty decimal.Decimal) (*AvailabilityResult, error) {
	normalized := domain.NormalizeCode(processCode)
	if productID == "" || !productionQty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	process, err := uc.processRepo.GetByCode(normalized)
	if err != nil {
		return nil, err
	}
	if process == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProcessCode, normalized)
	}
	result := &AvailabilityResult{Available: true}
	if !process.HasMaterialInput {
		return result, nil
	}
	requirements, err := uc.bomResolver.CalculateRequiredMaterials(ctx, productID, normalized, productionQty)
	if err != nil {
		return nil, err
	}
	for _, req := range requirements {
		lots, err := uc.lotRepo.ListByMaterial(req.MaterialID)
		if err != nil {
			return nil, err
		}
		available := decimal.Zero
		for _, lot := range lots {
			if avail := lot.AvailableQty(); avail.IsPositive() {
				available = available.Add(avail)
			}
		}
		shortage := decimal.Zero
		if available.LessThan(req.RequiredQty) {
			shortage = req.RequiredQty.Sub(available)
			result.Available = false
		}
		result.Items = append(result.Items, AvailabilityItem{
			MaterialID:   req.MaterialID,
			MaterialCode: req.MaterialCode,
			RequiredQty:  req.RequiredQty,
			AvailableQty: available,
			ShortageQty:  shortage,
		})
	}
	return result, nil
}
