package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mes-api/internal/application/dto"
	"github.com/jhoicas/mes-api/internal/application/stock"
	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// StockHandler maneja el ledger de lotes: recepción, consumo FIFO, resúmenes
// y cantidades arrastradas.
type StockHandler struct {
	ledger          *stock.StockLedgerUseCase
	carryOver       *stock.CarryOverUseCase
	lowStockFloor   decimal.Decimal
	negativeDefault bool
}

// NewStockHandler construye el handler de stock. lowStockFloor es el umbral por
// defecto del reporte de faltantes cuando la petición no indica uno;
// negativeDefault es el allow_negative efectivo cuando la petición lo omite.
func NewStockHandler(ledger *stock.StockLedgerUseCase, carryOver *stock.CarryOverUseCase, lowStockFloor decimal.Decimal, negativeDefault bool) *StockHandler {
	return &StockHandler{ledger: ledger, carryOver: carryOver, lowStockFloor: lowStockFloor, negativeDefault: negativeDefault}
}

// ReceiveLot godoc
// @Summary      Recibir un lote de material
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveLotRequest  true  "lote"
// @Success      201  {object}  dto.StockLotResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/lots [post]
func (h *StockHandler) ReceiveLot(c *fiber.Ctx) error {
	var in dto.ReceiveLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lot, err := h.ledger.Receive(in.MaterialID, in.LotNumber, in.Quantity, in.Location)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockLotResponse(lot))
}

// ListLots godoc
// @Summary      Listar los lotes de un material en orden FIFO
// @Tags         stock
// @Produce      json
// @Param        material_id  query  string  true  "material"
// @Success      200  {array}  dto.StockLotResponse
// @Router       /api/stock/lots [get]
func (h *StockHandler) ListLots(c *fiber.Ctx) error {
	materialID := c.Query("material_id")
	if materialID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "material_id es requerido"})
	}
	lots, err := h.ledger.ListLots(materialID)
	if err != nil {
		return h.mapError(c, err)
	}
	out := make([]dto.StockLotResponse, len(lots))
	for i, l := range lots {
		out[i] = *dto.ToStockLotResponse(l)
	}
	return c.JSON(out)
}

// DeleteLot godoc
// @Summary      Eliminar un lote sin consumos registrados
// @Tags         stock
// @Param        id  path  string  true  "id del lote"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/lots/{id} [delete]
func (h *StockHandler) DeleteLot(c *fiber.Ctx) error {
	if err := h.ledger.DeleteLot(c.Params("id")); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Available godoc
// @Summary      Disponible total de un material (incluye negativos)
// @Tags         stock
// @Produce      json
// @Param        materialId  path  string  true  "material"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/stock/materials/{materialId}/available [get]
func (h *StockHandler) Available(c *fiber.Ctx) error {
	materialID := c.Params("materialId")
	qty, err := h.ledger.AvailableQty(materialID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"material_id": materialID, "available_qty": qty})
}

// Consume godoc
// @Summary      Consumir una cantidad de un material por FIFO
// @Description  Todo o nada: sin allow_negative falla si el disponible no alcanza.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeRequest  true  "consumo"
// @Success      200  {array}  dto.LotUsageResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/consume [post]
func (h *StockHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	usages, err := h.ledger.ConsumeFIFO(c.UserContext(), in.MaterialID, in.Quantity, in.ProductionLotID, resolveAllowNegative(in.AllowNegative, h.negativeDefault))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(toLotUsageResponses(usages))
}

// SummaryByMaterial godoc
// @Summary      Resumen de stock por material
// @Tags         stock
// @Produce      json
// @Success      200  {array}  dto.MaterialSummaryResponse
// @Router       /api/stock/summary/materials [get]
func (h *StockHandler) SummaryByMaterial(c *fiber.Ctx) error {
	summaries, err := h.ledger.SummaryByMaterial()
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(toMaterialSummaryResponses(summaries))
}

// SummaryByLocation godoc
// @Summary      Resumen de disponibles por ubicación
// @Tags         stock
// @Produce      json
// @Success      200  {array}  dto.LocationSummaryResponse
// @Router       /api/stock/summary/locations [get]
func (h *StockHandler) SummaryByLocation(c *fiber.Ctx) error {
	summaries, err := h.ledger.SummaryByLocation()
	if err != nil {
		return h.mapError(c, err)
	}
	out := make([]dto.LocationSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = dto.LocationSummaryResponse{
			Location:       s.Location,
			LotCount:       s.LotCount,
			TotalAvailable: s.TotalAvailable,
		}
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Materiales por debajo del umbral de stock de seguridad
// @Tags         stock
// @Produce      json
// @Param        threshold  query  number  false  "umbral; por defecto el configurado"
// @Success      200  {array}  dto.MaterialSummaryResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	threshold := h.lowStockFloor
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "threshold inválido"})
		}
		threshold = parsed
	}
	summaries, err := h.ledger.LowStock(threshold)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(toMaterialSummaryResponses(summaries))
}

// RegisterCarryOver godoc
// @Summary      Registrar una cantidad arrastrada para una línea
// @Tags         carryovers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterCarryOverRequest  true  "arrastre"
// @Success      201  {object}  dto.CarryOverResponse
// @Router       /api/carryovers [post]
func (h *StockHandler) RegisterCarryOver(c *fiber.Ctx) error {
	var in dto.RegisterCarryOverRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	co, err := h.carryOver.Register(in.LineID, in.MaterialID, in.LotNumber, in.Quantity)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToCarryOverResponse(co))
}

// ConsumeCarryOver godoc
// @Summary      Consumir arrastres de una línea por FIFO
// @Tags         carryovers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeCarryOverRequest  true  "consumo"
// @Success      200  {array}  dto.LotUsageResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/carryovers/consume [post]
func (h *StockHandler) ConsumeCarryOver(c *fiber.Ctx) error {
	var in dto.ConsumeCarryOverRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	usages, err := h.carryOver.Consume(c.UserContext(), in.LineID, in.MaterialID, in.Quantity, resolveAllowNegative(in.AllowNegative, h.negativeDefault))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(toLotUsageResponses(usages))
}

// CarryOverAvailable godoc
// @Summary      Disponible arrastrado de una línea y material
// @Tags         carryovers
// @Produce      json
// @Param        line_id      query  string  true  "línea"
// @Param        material_id  query  string  true  "material"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/carryovers/available [get]
func (h *StockHandler) CarryOverAvailable(c *fiber.Ctx) error {
	lineID, materialID := c.Query("line_id"), c.Query("material_id")
	if lineID == "" || materialID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "line_id y material_id son requeridos"})
	}
	qty, err := h.carryOver.Available(lineID, materialID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"line_id": lineID, "material_id": materialID, "available_qty": qty})
}

func (h *StockHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el lote ya existe para ese material"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrLotInUse):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOT_IN_USE", Message: "el lote tiene consumos registrados"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// resolveAllowNegative aplica el valor configurado cuando la petición omite
// allow_negative.
func resolveAllowNegative(requested *bool, configured bool) bool {
	if requested != nil {
		return *requested
	}
	return configured
}

func toLotUsageResponses(usages []stock.LotUsage) []dto.LotUsageResponse {
	out := make([]dto.LotUsageResponse, len(usages))
	for i, u := range usages {
		out[i] = dto.LotUsageResponse{LotNumber: u.LotNumber, UsedQty: u.UsedQty, WentNegative: u.WentNegative}
	}
	return out
}

func toMaterialSummaryResponses(summaries []repository.MaterialStockSummary) []dto.MaterialSummaryResponse {
	out := make([]dto.MaterialSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = dto.MaterialSummaryResponse{
			MaterialID:     s.MaterialID,
			LotCount:       s.LotCount,
			TotalQuantity:  s.TotalQuantity,
			TotalUsed:      s.TotalUsed,
			TotalAvailable: s.TotalAvailable,
		}
	}
	return out
}
