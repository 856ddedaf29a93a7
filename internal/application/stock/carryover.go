package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// CarryOverUseCase cantidades arrastradas de periodos anteriores por línea.
// Comparte con el ledger la tríada cantidad/usado/disponible y el consumo FIFO
// (por CreatedAt ascendente); el remanente forzado recae en el arrastre más reciente.
type CarryOverUseCase struct {
	txRunner      TxRunner
	carryOverRepo repository.CarryOverRepository
}

// NewCarryOverUseCase construye el caso de uso.
func NewCarryOverUseCase(txRunner TxRunner, carryOverRepo repository.CarryOverRepository) *CarryOverUseCase {
	return &CarryOverUseCase{txRunner: txRunner, carryOverRepo: carryOverRepo}
}

// Register registra un arrastre nuevo para una línea con UsedQty = 0.
func (uc *CarryOverUseCase) Register(lineID, materialID, lotNumber string, quantity decimal.Decimal) (*entity.CarryOver, error) {
	if lineID == "" || materialID == "" || !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	c := &entity.CarryOver{
		ID:         uuid.New().String(),
		LineID:     lineID,
		MaterialID: materialID,
		LotNumber:  domain.NormalizeCode(lotNumber),
		Quantity:   quantity,
		UsedQty:    decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.carryOverRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Consume consume qty de los arrastres de la línea en orden FIFO, en una
// transacción. La semántica de insuficiencia y de negativo forzado es la misma
// que la del ledger de stock.
func (uc *CarryOverUseCase) Consume(ctx context.Context, lineID, materialID string, qty decimal.Decimal, allowNegative bool) ([]LotUsage, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	var usages []LotUsage
	err := uc.txRunner.RunCarryOver(ctx, func(carryOverRepo repository.CarryOverRepository) error {
		rows, err := carryOverRepo.ListByLineAndMaterial(lineID, materialID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("%w: línea %s sin arrastres de %s", domain.ErrInsufficientStock, lineID, materialID)
		}
		totalAvailable := decimal.Zero
		for _, c := range rows {
			if avail := c.AvailableQty(); avail.IsPositive() {
				totalAvailable = totalAvailable.Add(avail)
			}
		}
		if totalAvailable.LessThan(qty) && !allowNegative {
			return fmt.Errorf("%w: requerido %s, disponible %s",
				domain.ErrInsufficientStock, qty.String(), totalAvailable.String())
		}

		now := time.Now()
		remaining := qty
		var lastTouched *entity.CarryOver
		for _, c := range rows {
			if !remaining.IsPositive() {
				break
			}
			avail := c.AvailableQty()
			if !avail.IsPositive() {
				continue
			}
			take := decimal.Min(avail, remaining)
			c.UsedQty = c.UsedQty.Add(take)
			c.UpdatedAt = now
			if err := carryOverRepo.Update(c); err != nil {
				return err
			}
			usages = append(usages, LotUsage{LotNumber: c.LotNumber, UsedQty: take})
			remaining = remaining.Sub(take)
			lastTouched = c
		}
		if remaining.IsPositive() {
			target := rows[len(rows)-1]
			if lastTouched != nil && lastTouched.ID == target.ID {
				// Mismo arrastre: acumular sobre su consumo ya registrado.
				target.UsedQty = target.UsedQty.Add(remaining)
				target.UpdatedAt = now
				if err := carryOverRepo.Update(target); err != nil {
					return err
				}
				usages[len(usages)-1].UsedQty = usages[len(usages)-1].UsedQty.Add(remaining)
				usages[len(usages)-1].WentNegative = true
			} else {
				target.UsedQty = target.UsedQty.Add(remaining)
				target.UpdatedAt = now
				if err := carryOverRepo.Update(target); err != nil {
					return err
				}
				usages = append(usages, LotUsage{LotNumber: target.LotNumber, UsedQty: remaining, WentNegative: true})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return usages, nil
}

// Available suma el disponible de los arrastres de la línea para un material.
func (uc *CarryOverUseCase) Available(lineID, materialID string) (decimal.Decimal, error) {
	rows, err := uc.carryOverRepo.ListByLineAndMaterial(lineID, materialID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range rows {
		total = total.Add(c.AvailableQty())
	}
	return total, nil
}
