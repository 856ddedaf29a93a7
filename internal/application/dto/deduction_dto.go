package dto

import "github.com/shopspring/decimal"

// DeductionItemResponse resultado por material de una deducción.
type DeductionItemResponse struct {
	MaterialID      string             `json:"material_id"`
	MaterialCode    string             `json:"material_code,omitempty"`
	MaterialName    string             `json:"material_name,omitempty"`
	RequiredQty     decimal.Decimal    `json:"required_qty"`
	DeductedQty     decimal.Decimal    `json:"deducted_qty"`
	RemainingQty    decimal.Decimal    `json:"remaining_qty"`
	Lots            []LotUsageResponse `json:"lots"`
	Success         bool               `json:"success"`
	AllowedNegative bool               `json:"allowed_negative,omitempty"`
	Message         string             `json:"message,omitempty"`
}

// DeductionResponse resultado agregado de una deducción por BOM.
type DeductionResponse struct {
	Success bool                    `json:"success"`
	Items   []DeductionItemResponse `json:"items"`
	Errors  []string                `json:"errors,omitempty"`
}

// AvailabilityItemResponse faltante por material en una verificación previa.
type AvailabilityItemResponse struct {
	MaterialID   string          `json:"material_id"`
	MaterialCode string          `json:"material_code,omitempty"`
	RequiredQty  decimal.Decimal `json:"required_qty"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	ShortageQty  decimal.Decimal `json:"shortage_qty"`
}

// AvailabilityResponse resultado de una verificación previa de disponibilidad.
type AvailabilityResponse struct {
	Available bool                       `json:"available"`
	Items     []AvailabilityItemResponse `json:"items"`
}

// RollbackResponse lotes tocados al revertir los consumos de un lote de producción.
type RollbackResponse struct {
	ProductionLotID string `json:"production_lot_id"`
	RestoredLots    int    `json:"restored_lots"`
}
