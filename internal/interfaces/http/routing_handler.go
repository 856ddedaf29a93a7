package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mes-api/internal/application/dto"
	"github.com/jhoicas/mes-api/internal/application/routing"
	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
)

// RoutingHandler maneja las rutas de fabricación por producto: reemplazo completo,
// patrones, navegación paso a paso y validaciones para la UI.
type RoutingHandler struct {
	uc        *routing.RoutingUseCase
	navigator *routing.Navigator
	validator *routing.Validator
}

// NewRoutingHandler construye el handler de ruteo.
func NewRoutingHandler(uc *routing.RoutingUseCase, navigator *routing.Navigator, validator *routing.Validator) *RoutingHandler {
	return &RoutingHandler{uc: uc, navigator: navigator, validator: validator}
}

// SetRouting godoc
// @Summary      Reemplazar la ruta completa de un producto
// @Description  Borra la ruta actual y crea la nueva en una sola transacción; seq = 10, 20, 30...
// @Tags         routing
// @Accept       json
// @Produce      json
// @Param        productId  path  string  true  "producto"
// @Param        body  body  dto.SetRoutingRequest  true  "códigos de proceso en orden"
// @Success      200  {array}  dto.RoutingEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/{productId}/routing [put]
func (h *RoutingHandler) SetRouting(c *fiber.Ctx) error {
	var in dto.SetRoutingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entries, err := h.uc.SetRouting(c.UserContext(), c.Params("productId"), in.ProcessCodes)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.ToRoutingEntryResponses(entries))
}

// SetFromPattern godoc
// @Summary      Crear la ruta de un producto desde un patrón incorporado
// @Tags         routing
// @Accept       json
// @Produce      json
// @Param        productId  path  string  true  "producto"
// @Param        body  body  dto.SetRoutingFromPatternRequest  true  "simple | medium | complex"
// @Success      200  {array}  dto.RoutingEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/{productId}/routing/from-pattern [post]
func (h *RoutingHandler) SetFromPattern(c *fiber.Ctx) error {
	var in dto.SetRoutingFromPatternRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entries, err := h.uc.SetRoutingFromPattern(c.UserContext(), c.Params("productId"), in.Pattern)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.ToRoutingEntryResponses(entries))
}

// GetRouting godoc
// @Summary      Obtener la ruta de un producto ordenada por seq
// @Tags         routing
// @Produce      json
// @Param        productId  path  string  true  "producto"
// @Success      200  {array}  dto.RoutingEntryResponse
// @Router       /api/products/{productId}/routing [get]
func (h *RoutingHandler) GetRouting(c *fiber.Ctx) error {
	entries, err := h.uc.GetRouting(c.Params("productId"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.ToRoutingEntryResponses(entries))
}

// ClearRouting godoc
// @Summary      Borrar la ruta de un producto
// @Tags         routing
// @Produce      json
// @Param        productId  path  string  true  "producto"
// @Success      200  {object}  map[string]int
// @Router       /api/products/{productId}/routing [delete]
func (h *RoutingHandler) ClearRouting(c *fiber.Ctx) error {
	deleted, err := h.uc.ClearRouting(c.UserContext(), c.Params("productId"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// CountRouting godoc
// @Summary      Contar los pasos de la ruta de un producto
// @Tags         routing
// @Produce      json
// @Param        productId  path  string  true  "producto"
// @Success      200  {object}  map[string]int
// @Router       /api/products/{productId}/routing/count [get]
func (h *RoutingHandler) CountRouting(c *fiber.Ctx) error {
	count, err := h.uc.CountRoutings(c.Params("productId"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// CopyRouting godoc
// @Summary      Copiar la ruta de un producto sobre otro
// @Description  Reemplaza por completo la ruta del producto destino.
// @Tags         routing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CopyRoutingRequest  true  "origen y destino"
// @Success      200  {array}  dto.RoutingEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/routing/copy [post]
func (h *RoutingHandler) CopyRouting(c *fiber.Ctx) error {
	var in dto.CopyRoutingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entries, err := h.uc.CopyRouting(c.UserContext(), in.SourceProductID, in.TargetProductID)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.ToRoutingEntryResponses(entries))
}

// CreateEntry godoc
// @Summary      Insertar un paso suelto en una ruta
// @Tags         routing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRoutingEntryRequest  true  "paso"
// @Success      201  {object}  dto.RoutingEntryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/routing/entries [post]
func (h *RoutingHandler) CreateEntry(c *fiber.Ctx) error {
	var in dto.CreateRoutingEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.CreateEntry(routing.CreateEntryInput{
		ProductID:   in.ProductID,
		ProcessCode: in.ProcessCode,
		Seq:         in.Seq,
		IsRequired:  in.IsRequired,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToRoutingEntryResponse(entry))
}

// UpdateEntry godoc
// @Summary      Editar seq o is_required de un paso
// @Tags         routing
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id del paso"
// @Param        body  body  dto.UpdateRoutingEntryRequest  true  "campos a cambiar"
// @Success      200  {object}  dto.RoutingEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/routing/entries/{id} [patch]
func (h *RoutingHandler) UpdateEntry(c *fiber.Ctx) error {
	var in dto.UpdateRoutingEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.UpdateEntry(c.Params("id"), in.Seq, in.IsRequired)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.ToRoutingEntryResponse(entry))
}

// DeleteEntry godoc
// @Summary      Eliminar un paso de ruta
// @Tags         routing
// @Param        id  path  string  true  "id del paso"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/routing/entries/{id} [delete]
func (h *RoutingHandler) DeleteEntry(c *fiber.Ctx) error {
	if err := h.uc.DeleteEntry(c.Params("id")); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPatterns godoc
// @Summary      Listar los patrones de ruta incorporados
// @Tags         routing
// @Produce      json
// @Success      200  {array}  map[string]interface{}
// @Router       /api/routing/patterns [get]
func (h *RoutingHandler) ListPatterns(c *fiber.Ctx) error {
	names := routing.PatternNames()
	out := make([]fiber.Map, 0, len(names))
	for _, name := range names {
		codes, _ := routing.Pattern(name)
		out = append(out, fiber.Map{"name": name, "process_codes": codes})
	}
	return c.JSON(out)
}

// IdentifyPattern godoc
// @Summary      Identificar a qué patrón corresponde una secuencia de procesos
// @Tags         routing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IdentifyPatternRequest  true  "códigos en orden"
// @Success      200  {object}  map[string]string
// @Router       /api/routing/patterns/identify [post]
func (h *RoutingHandler) IdentifyPattern(c *fiber.Ctx) error {
	var in dto.IdentifyPatternRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// Cadena vacía cuando la secuencia no corresponde a ningún patrón.
	return c.JSON(fiber.Map{"pattern": routing.IdentifyPattern(in.ProcessCodes)})
}

// NextProcess godoc
// @Summary      Proceso siguiente en la ruta
// @Tags         routing
// @Produce      json
// @Param        productId  path   string  true  "producto"
// @Param        from       query  string  true  "proceso actual"
// @Success      200  {object}  dto.RoutingEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{productId}/routing/next [get]
func (h *RoutingHandler) NextProcess(c *fiber.Ctx) error {
	entry, err := h.navigator.Next(c.Params("productId"), c.Query("from"))
	return h.respondEntry(c, entry, err)
}

// PreviousProcess godoc
// @Summary      Proceso anterior en la ruta
// @Tags         routing
// @Produce      json
// @Param        productId  path   string  true  "producto"
// @Param        from       query  string  true  "proceso actual"
// @Success      200  {object}  dto.RoutingEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{productId}/routing/previous [get]
func (h *RoutingHandler) PreviousProcess(c *fiber.Ctx) error {
	entry, err := h.navigator.Previous(c.Params("productId"), c.Query("from"))
	return h.respondEntry(c, entry, err)
}

// FirstProcess godoc
// @Summary      Primer proceso de la ruta
// @Tags         routing
// @Produce      json
// @Param        productId  path  string  true  "producto"
// @Success      200  {object}  dto.RoutingEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{productId}/routing/first [get]
func (h *RoutingHandler) FirstProcess(c *fiber.Ctx) error {
	entry, err := h.navigator.First(c.Params("productId"))
	return h.respondEntry(c, entry, err)
}

// LastProcess godoc
// @Summary      Último proceso de la ruta
// @Tags         routing
// @Produce      json
// @Param        productId  path  string  true  "producto"
// @Success      200  {object}  dto.RoutingEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{productId}/routing/last [get]
func (h *RoutingHandler) LastProcess(c *fiber.Ctx) error {
	entry, err := h.navigator.Last(c.Params("productId"))
	return h.respondEntry(c, entry, err)
}

// ValidateRouting godoc
// @Summary      Validar la ruta completa de un producto
// @Tags         routing
// @Produce      json
// @Param        productId  path  string  true  "producto"
// @Success      200  {object}  dto.ValidationResponse
// @Router       /api/products/{productId}/routing/validate [post]
func (h *RoutingHandler) ValidateRouting(c *fiber.Ctx) error {
	result, err := h.validator.ValidateRouting(c.Params("productId"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(toValidationResponse(result))
}

// ValidateOrder godoc
// @Summary      Validar que un proceso va después de otro en la ruta
// @Tags         routing
// @Accept       json
// @Produce      json
// @Param        productId  path  string  true  "producto"
// @Param        body  body  dto.ValidateOrderRequest  true  "par de procesos"
// @Success      200  {object}  dto.ValidationResponse
// @Router       /api/products/{productId}/routing/validate-order [post]
func (h *RoutingHandler) ValidateOrder(c *fiber.Ctx) error {
	var in dto.ValidateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.validator.ValidateOrder(c.Params("productId"), in.FromCode, in.ToCode)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(toValidationResponse(result))
}

// ValidateCodes godoc
// @Summary      Validar que una lista de códigos existe en el catálogo
// @Tags         routing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateProcessCodesRequest  true  "códigos"
// @Success      200  {object}  dto.ValidationResponse
// @Router       /api/routing/validate-codes [post]
func (h *RoutingHandler) ValidateCodes(c *fiber.Ctx) error {
	var in dto.ValidateProcessCodesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.validator.ValidateProcessCodes(in.ProcessCodes)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(toValidationResponse(result))
}

func (h *RoutingHandler) respondEntry(c *fiber.Ctx, entry *entity.RoutingEntry, err error) error {
	if err != nil {
		return h.mapError(c, err)
	}
	if entry == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no hay paso en esa posición"})
	}
	return c.JSON(dto.ToRoutingEntryResponse(entry))
}

func (h *RoutingHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrEmptyRouting):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidProcessCode):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PROCESS_CODE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnknownPattern):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_PATTERN", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrNothingToCopy), errors.Is(err, domain.ErrRoutingEntryNotFound), errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toValidationResponse(r routing.ValidationResult) dto.ValidationResponse {
	return dto.ValidationResponse{Valid: r.Valid, Code: r.Code, Message: r.Message}
}
