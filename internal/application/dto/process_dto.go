package dto

import (
	"time"

	"github.com/jhoicas/mes-api/internal/domain/entity"
)

// CreateProcessRequest alta de un proceso en el catálogo.
type CreateProcessRequest struct {
	Code             string `json:"code"`
	Name             string `json:"name"`
	Seq              int    `json:"seq"`
	HasMaterialInput bool   `json:"has_material_input"`
	IsInspection     bool   `json:"is_inspection"`
	ShortCode        string `json:"short_code"`
	Description      string `json:"description"`
}

// UpdateProcessRequest edición parcial de un proceso; nil = sin cambio.
type UpdateProcessRequest struct {
	Name             *string `json:"name"`
	Seq              *int    `json:"seq"`
	HasMaterialInput *bool   `json:"has_material_input"`
	IsInspection     *bool   `json:"is_inspection"`
	Description      *string `json:"description"`
}

// ProcessResponse representación HTTP de un proceso.
type ProcessResponse struct {
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	Seq              int       `json:"seq"`
	HasMaterialInput bool      `json:"has_material_input"`
	IsInspection     bool      `json:"is_inspection"`
	ShortCode        string    `json:"short_code,omitempty"`
	Description      string    `json:"description,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToProcessResponse mapea la entidad al DTO de respuesta.
func ToProcessResponse(p *entity.Process) *ProcessResponse {
	if p == nil {
		return nil
	}
	return &ProcessResponse{
		Code:             p.Code,
		Name:             p.Name,
		Seq:              p.Seq,
		HasMaterialInput: p.HasMaterialInput,
		IsInspection:     p.IsInspection,
		ShortCode:        p.ShortCode,
		Description:      p.Description,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
