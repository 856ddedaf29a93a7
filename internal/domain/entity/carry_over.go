package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CarryOver representa una cantidad reservada de un periodo o proceso anterior,
// arrastrada para uso de una línea concreta. Comparte la tríada
// cantidad/usado/disponible del StockLot y el mismo patrón de consumo FIFO.
type CarryOver struct {
	ID         string
	LineID     string
	MaterialID string
	LotNumber  string
	Quantity   decimal.Decimal
	UsedQty    decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AvailableQty devuelve Quantity - UsedQty; puede ser negativo.
func (c *CarryOver) AvailableQty() decimal.Decimal {
	return c.Quantity.Sub(c.UsedQty)
}
