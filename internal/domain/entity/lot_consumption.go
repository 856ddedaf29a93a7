package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotMaterialConsumption registra que un lote de producción consumió una cantidad
// de un lote de stock concreto. Se crea en la deducción y se elimina en el rollback,
// emparejado 1:1 con el decremento de UsedQty que revierte.
// Invariante de conciliación: la suma de consumos de un (MaterialID, LotNumber)
// debe igualar el UsedQty del lote en todo momento.
type LotMaterialConsumption struct {
	ID              string
	ProductionLotID string
	MaterialID      string
	LotNumber       string
	Quantity        decimal.Decimal
	CreatedAt       time.Time
}
