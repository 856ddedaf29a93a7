package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLot representa una cantidad recibida de un material, rastreada por lote.
// (MaterialID, LotNumber) es único. UsedQty solo crece salvo rollback explícito;
// puede superar a Quantity cuando se permite stock negativo.
type StockLot struct {
	ID         string
	MaterialID string
	LotNumber  string // con significado externo, normalmente derivado de código de barras
	Quantity   decimal.Decimal
	UsedQty    decimal.Decimal
	Location   string
	ReceivedAt time.Time
	UpdatedAt  time.Time
}

// AvailableQty devuelve Quantity - UsedQty; puede ser negativo.
func (l *StockLot) AvailableQty() decimal.Decimal {
	return l.Quantity.Sub(l.UsedQty)
}
