package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mes-api/internal/application/catalog"
	"github.com/jhoicas/mes-api/internal/application/dto"
	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// ProcessHandler maneja el catálogo maestro de procesos.
type ProcessHandler struct {
	uc *catalog.ProcessCatalogUseCase
}

// NewProcessHandler construye el handler del catálogo.
func NewProcessHandler(uc *catalog.ProcessCatalogUseCase) *ProcessHandler {
	return &ProcessHandler{uc: uc}
}

// List godoc
// @Summary      Listar procesos del catálogo
// @Tags         processes
// @Produce      json
// @Param        active          query  bool  false  "solo activos/inactivos"
// @Param        material_input  query  bool  false  "solo procesos que consumen material"
// @Param        inspection      query  bool  false  "solo procesos de inspección"
// @Success      200  {array}  dto.ProcessResponse
// @Router       /api/processes [get]
func (h *ProcessHandler) List(c *fiber.Ctx) error {
	var filter repository.ProcessFilter
	filter.IsActive = parseBoolQuery(c, "active")
	filter.HasMaterialInput = parseBoolQuery(c, "material_input")
	filter.IsInspection = parseBoolQuery(c, "inspection")

	processes, err := h.uc.List(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ProcessResponse, len(processes))
	for i, p := range processes {
		out[i] = *dto.ToProcessResponse(p)
	}
	return c.JSON(out)
}

// GetByCode godoc
// @Summary      Obtener un proceso por código
// @Tags         processes
// @Produce      json
// @Param        code  path  string  true  "código de proceso (ej. CA)"
// @Success      200  {object}  dto.ProcessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/processes/{code} [get]
func (h *ProcessHandler) GetByCode(c *fiber.Ctx) error {
	p, err := h.uc.GetByCode(c.Params("code"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "proceso no encontrado"})
	}
	return c.JSON(dto.ToProcessResponse(p))
}

// GetByShortCode godoc
// @Summary      Obtener un proceso por alias corto
// @Tags         processes
// @Produce      json
// @Param        short  path  string  true  "alias de una letra (ej. C)"
// @Success      200  {object}  dto.ProcessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/processes/short/{short} [get]
func (h *ProcessHandler) GetByShortCode(c *fiber.Ctx) error {
	p, err := h.uc.GetByShortCode(c.Params("short"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "proceso no encontrado"})
	}
	return c.JSON(dto.ToProcessResponse(p))
}

// Create godoc
// @Summary      Registrar un proceso
// @Tags         processes
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProcessRequest  true  "proceso"
// @Success      201  {object}  dto.ProcessResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/processes [post]
func (h *ProcessHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProcessRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.Create(catalog.CreateInput{
		Code:             in.Code,
		Name:             in.Name,
		Seq:              in.Seq,
		HasMaterialInput: in.HasMaterialInput,
		IsInspection:     in.IsInspection,
		ShortCode:        in.ShortCode,
		Description:      in.Description,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProcessResponse(p))
}

// Update godoc
// @Summary      Editar un proceso
// @Tags         processes
// @Accept       json
// @Produce      json
// @Param        code  path  string  true  "código de proceso"
// @Param        body  body  dto.UpdateProcessRequest  true  "campos a cambiar"
// @Success      200  {object}  dto.ProcessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/processes/{code} [put]
func (h *ProcessHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProcessRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.Update(c.Params("code"), catalog.UpdateInput{
		Name:             in.Name,
		Seq:              in.Seq,
		HasMaterialInput: in.HasMaterialInput,
		IsInspection:     in.IsInspection,
		Description:      in.Description,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.ToProcessResponse(p))
}

// Deactivate godoc
// @Summary      Desactivar un proceso (baja lógica)
// @Tags         processes
// @Param        code  path  string  true  "código de proceso"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/processes/{code}/deactivate [patch]
func (h *ProcessHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Params("code")); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Eliminar un proceso (baja física)
// @Description  Falla con 409 si alguna ruta de producto referencia el proceso.
// @Tags         processes
// @Param        code  path  string  true  "código de proceso"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/processes/{code} [delete]
func (h *ProcessHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("code")); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProcessHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "proceso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el código o alias ya existe"})
	case errors.Is(err, domain.ErrProcessInUse):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PROCESS_IN_USE", Message: "el proceso está referenciado por rutas de producto"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// parseBoolQuery devuelve nil si el query param no viene o no es booleano.
func parseBoolQuery(c *fiber.Ctx, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}
