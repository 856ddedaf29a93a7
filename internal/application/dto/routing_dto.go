package dto

import (
	"time"

	"github.com/jhoicas/mes-api/internal/domain/entity"
)

// SetRoutingRequest reemplazo completo de la ruta de un producto.
// El llamador debe enviar la secuencia deseada completa: el reemplazo no es
// un merge incremental.
type SetRoutingRequest struct {
	ProcessCodes []string `json:"process_codes"`
}

// SetRoutingFromPatternRequest creación de ruta desde un patrón incorporado.
type SetRoutingFromPatternRequest struct {
	Pattern string `json:"pattern"`
}

// CreateRoutingEntryRequest inserción de un paso suelto.
type CreateRoutingEntryRequest struct {
	ProductID   string `json:"product_id"`
	ProcessCode string `json:"process_code"`
	Seq         int    `json:"seq"`
	IsRequired  bool   `json:"is_required"`
}

// UpdateRoutingEntryRequest edición parcial de un paso; nil = sin cambio.
type UpdateRoutingEntryRequest struct {
	Seq        *int  `json:"seq"`
	IsRequired *bool `json:"is_required"`
}

// CopyRoutingRequest duplicación de la ruta de un producto sobre otro.
type CopyRoutingRequest struct {
	SourceProductID string `json:"source_product_id"`
	TargetProductID string `json:"target_product_id"`
}

// IdentifyPatternRequest identificación inversa de patrón.
type IdentifyPatternRequest struct {
	ProcessCodes []string `json:"process_codes"`
}

// ValidateOrderRequest validación de orden entre dos procesos de la ruta.
type ValidateOrderRequest struct {
	FromCode string `json:"from_code"`
	ToCode   string `json:"to_code"`
}

// ValidateProcessCodesRequest validación de una lista de códigos.
type ValidateProcessCodesRequest struct {
	ProcessCodes []string `json:"process_codes"`
}

// RoutingEntryResponse representación HTTP de un paso de ruta.
type RoutingEntryResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProcessCode string    `json:"process_code"`
	Seq         int       `json:"seq"`
	IsRequired  bool      `json:"is_required"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidationResponse resultado de validación para la UI.
type ValidationResponse struct {
	Valid   bool   `json:"valid"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ToRoutingEntryResponse mapea la entidad al DTO de respuesta.
func ToRoutingEntryResponse(e *entity.RoutingEntry) *RoutingEntryResponse {
	if e == nil {
		return nil
	}
	return &RoutingEntryResponse{
		ID:          e.ID,
		ProductID:   e.ProductID,
		ProcessCode: e.ProcessCode,
		Seq:         e.Seq,
		IsRequired:  e.IsRequired,
		CreatedAt:   e.CreatedAt,
	}
}

// ToRoutingEntryResponses mapea una lista de pasos.
func ToRoutingEntryResponses(entries []*entity.RoutingEntry) []RoutingEntryResponse {
	out := make([]RoutingEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = *ToRoutingEntryResponse(e)
	}
	return out
}
