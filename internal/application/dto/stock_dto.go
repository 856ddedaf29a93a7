package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mes-api/internal/domain/entity"
)

// ReceiveLotRequest recepción de un lote de material.
type ReceiveLotRequest struct {
	MaterialID string          `json:"material_id"`
	LotNumber  string          `json:"lot_number"`
	Quantity   decimal.Decimal `json:"quantity"`
	Location   string          `json:"location"`
}

// ConsumeRequest consumo FIFO directo contra el ledger.
// allow_negative ausente usa el valor configurado del servicio.
type ConsumeRequest struct {
	MaterialID      string          `json:"material_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	ProductionLotID string          `json:"production_lot_id"`
	AllowNegative   *bool           `json:"allow_negative"`
}

// LotHintDTO lote concreto indicado por el llamador para una deducción.
type LotHintDTO struct {
	MaterialID string          `json:"material_id"`
	LotNumber  string          `json:"lot_number"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// DeductRequest deducción de materiales por BOM.
// allow_negative ausente usa el valor configurado del servicio.
type DeductRequest struct {
	ProductID       string          `json:"product_id"`
	ProcessCode     string          `json:"process_code"`
	ProductionLotID string          `json:"production_lot_id"`
	ProductionQty   decimal.Decimal `json:"production_qty"`
	LotHints        []LotHintDTO    `json:"lot_hints"`
	AllowNegative   *bool           `json:"allow_negative"`
}

// CheckAvailabilityRequest verificación previa sin efectos.
type CheckAvailabilityRequest struct {
	ProductID     string          `json:"product_id"`
	ProcessCode   string          `json:"process_code"`
	ProductionQty decimal.Decimal `json:"production_qty"`
}

// StockLotResponse representación HTTP de un lote de stock.
type StockLotResponse struct {
	ID           string          `json:"id"`
	MaterialID   string          `json:"material_id"`
	LotNumber    string          `json:"lot_number"`
	Quantity     decimal.Decimal `json:"quantity"`
	UsedQty      decimal.Decimal `json:"used_qty"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	Location     string          `json:"location,omitempty"`
	ReceivedAt   time.Time       `json:"received_at"`
}

// LotUsageResponse consumo aplicado a un lote en una operación.
type LotUsageResponse struct {
	LotNumber    string          `json:"lot_number"`
	UsedQty      decimal.Decimal `json:"used_qty"`
	WentNegative bool            `json:"went_negative,omitempty"`
}

// MaterialSummaryResponse agregado de stock por material.
type MaterialSummaryResponse struct {
	MaterialID     string          `json:"material_id"`
	LotCount       int             `json:"lot_count"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	TotalUsed      decimal.Decimal `json:"total_used"`
	TotalAvailable decimal.Decimal `json:"total_available"`
}

// LocationSummaryResponse agregado de disponibles por ubicación.
type LocationSummaryResponse struct {
	Location       string          `json:"location"`
	LotCount       int             `json:"lot_count"`
	TotalAvailable decimal.Decimal `json:"total_available"`
}

// RegisterCarryOverRequest alta de una cantidad arrastrada para una línea.
type RegisterCarryOverRequest struct {
	LineID     string          `json:"line_id"`
	MaterialID string          `json:"material_id"`
	LotNumber  string          `json:"lot_number"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ConsumeCarryOverRequest consumo FIFO de arrastres de una línea.
// allow_negative ausente usa el valor configurado del servicio.
type ConsumeCarryOverRequest struct {
	LineID        string          `json:"line_id"`
	MaterialID    string          `json:"material_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	AllowNegative *bool           `json:"allow_negative"`
}

// CarryOverResponse representación HTTP de un arrastre.
type CarryOverResponse struct {
	ID           string          `json:"id"`
	LineID       string          `json:"line_id"`
	MaterialID   string          `json:"material_id"`
	LotNumber    string          `json:"lot_number"`
	Quantity     decimal.Decimal `json:"quantity"`
	UsedQty      decimal.Decimal `json:"used_qty"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToCarryOverResponse mapea la entidad al DTO de respuesta.
func ToCarryOverResponse(co *entity.CarryOver) *CarryOverResponse {
	if co == nil {
		return nil
	}
	return &CarryOverResponse{
		ID:           co.ID,
		LineID:       co.LineID,
		MaterialID:   co.MaterialID,
		LotNumber:    co.LotNumber,
		Quantity:     co.Quantity,
		UsedQty:      co.UsedQty,
		AvailableQty: co.AvailableQty(),
		CreatedAt:    co.CreatedAt,
	}
}

// ToStockLotResponse mapea la entidad al DTO de respuesta.
func ToStockLotResponse(l *entity.StockLot) *StockLotResponse {
	if l == nil {
		return nil
	}
	return &StockLotResponse{
		ID:           l.ID,
		MaterialID:   l.MaterialID,
		LotNumber:    l.LotNumber,
		Quantity:     l.Quantity,
		UsedQty:      l.UsedQty,
		AvailableQty: l.AvailableQty(),
		Location:     l.Location,
		ReceivedAt:   l.ReceivedAt,
	}
}
