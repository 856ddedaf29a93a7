package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mes-api/internal/application/dto"
	"github.com/jhoicas/mes-api/internal/application/stock"
	"github.com/jhoicas/mes-api/internal/domain"
)

// DeductionHandler maneja la deducción de materiales por BOM y su rollback.
type DeductionHandler struct {
	uc              *stock.BOMDeductionUseCase
	negativeDefault bool
}

// NewDeductionHandler construye el handler de deducción. negativeDefault es el
// allow_negative efectivo cuando la petición lo omite.
func NewDeductionHandler(uc *stock.BOMDeductionUseCase, negativeDefault bool) *DeductionHandler {
	return &DeductionHandler{uc: uc, negativeDefault: negativeDefault}
}

// Deduct godoc
// @Summary      Deducir los materiales del BOM para un lote de producción
// @Description  Consume primero los lotes indicados en lot_hints y el resto por FIFO.
// @Tags         deductions
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeductRequest  true  "deducción"
// @Success      200  {object}  dto.DeductionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/deductions [post]
func (h *DeductionHandler) Deduct(c *fiber.Ctx) error {
	var in dto.DeductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	hints := make([]stock.LotHint, len(in.LotHints))
	for i, hint := range in.LotHints {
		hints[i] = stock.LotHint{MaterialID: hint.MaterialID, LotNumber: hint.LotNumber, Quantity: hint.Quantity}
	}
	result, err := h.uc.Deduct(c.UserContext(), stock.DeductionInput{
		ProductID:       in.ProductID,
		ProcessCode:     in.ProcessCode,
		ProductionLotID: in.ProductionLotID,
		ProductionQty:   in.ProductionQty,
		LotHints:        hints,
		AllowNegative:   resolveAllowNegative(in.AllowNegative, h.negativeDefault),
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(toDeductionResponse(result))
}

// Rollback godoc
// @Summary      Revertir todos los consumos de un lote de producción
// @Description  Idempotente: un segundo rollback del mismo lote no revierte nada.
// @Tags         deductions
// @Produce      json
// @Param        productionLotId  path  string  true  "lote de producción"
// @Success      200  {object}  dto.RollbackResponse
// @Router       /api/deductions/{productionLotId} [delete]
func (h *DeductionHandler) Rollback(c *fiber.Ctx) error {
	productionLotID := c.Params("productionLotId")
	restored, err := h.uc.Rollback(c.UserContext(), productionLotID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.RollbackResponse{ProductionLotID: productionLotID, RestoredLots: restored})
}

// CheckAvailability godoc
// @Summary      Verificar disponibilidad de materiales sin deducir
// @Tags         deductions
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckAvailabilityRequest  true  "verificación"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/deductions/check [post]
func (h *DeductionHandler) CheckAvailability(c *fiber.Ctx) error {
	var in dto.CheckAvailabilityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.CheckAvailability(c.UserContext(), in.ProductID, in.ProcessCode, in.ProductionQty)
	if err != nil {
		return h.mapError(c, err)
	}
	out := dto.AvailabilityResponse{Available: result.Available, Items: make([]dto.AvailabilityItemResponse, len(result.Items))}
	for i, item := range result.Items {
		out.Items[i] = dto.AvailabilityItemResponse{
			MaterialID:   item.MaterialID,
			MaterialCode: item.MaterialCode,
			RequiredQty:  item.RequiredQty,
			AvailableQty: item.AvailableQty,
			ShortageQty:  item.ShortageQty,
		}
	}
	return c.JSON(out)
}

func (h *DeductionHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidProcessCode):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PROCESS_CODE", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toDeductionResponse(r *stock.DeductionResult) dto.DeductionResponse {
	out := dto.DeductionResponse{Success: r.Success, Errors: r.Errors, Items: make([]dto.DeductionItemResponse, len(r.Items))}
	for i, item := range r.Items {
		out.Items[i] = dto.DeductionItemResponse{
			MaterialID:      item.MaterialID,
			MaterialCode:    item.MaterialCode,
			MaterialName:    item.MaterialName,
			RequiredQty:     item.RequiredQty,
			DeductedQty:     item.DeductedQty,
			RemainingQty:    item.RemainingQty,
			Lots:            toLotUsageResponses(item.Lots),
			Success:         item.Success,
			AllowedNegative: item.AllowedNegative,
			Message:         item.Message,
		}
	}
	return out
}
