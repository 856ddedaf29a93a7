package catalog

import (
	"time"

	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

// ProcessCatalogUseCase consultas y administración del catálogo maestro de procesos.
// Todas las comparaciones de código normalizan a mayúsculas antes de buscar;
// la ausencia en consultas simples se señala con nil, nunca con error.
type ProcessCatalogUseCase struct {
	processRepo repository.ProcessRepository
	routingRepo repository.RoutingRepository
}

// NewProcessCatalogUseCase construye el caso de uso.
func NewProcessCatalogUseCase(processRepo repository.ProcessRepository, routingRepo repository.RoutingRepository) *ProcessCatalogUseCase {
	return &ProcessCatalogUseCase{processRepo: processRepo, routingRepo: routingRepo}
}

// GetByCode busca un proceso por código (insensible a mayúsculas). nil si no existe.
func (uc *ProcessCatalogUseCase) GetByCode(code string) (*entity.Process, error) {
	return uc.processRepo.GetByCode(domain.NormalizeCode(code))
}

// GetByShortCode busca un proceso por su alias de una letra. nil si no existe.
func (uc *ProcessCatalogUseCase) GetByShortCode(shortCode string) (*entity.Process, error) {
	return uc.processRepo.GetByShortCode(domain.NormalizeCode(shortCode))
}

// Exists indica si un código de proceso está registrado.
func (uc *ProcessCatalogUseCase) Exists(code string) (bool, error) {
	p, err := uc.processRepo.GetByCode(domain.NormalizeCode(code))
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// ShortCodeOf devuelve el alias corto de un proceso; cadena vacía si no existe o no tiene.
func (uc *ProcessCatalogUseCase) ShortCodeOf(code string) (string, error) {
	p, err := uc.processRepo.GetByCode(domain.NormalizeCode(code))
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", nil
	}
	return p.ShortCode, nil
}

// List devuelve los procesos que pasan el filtro, ordenados por Seq ascendente.
func (uc *ProcessCatalogUseCase) List(filter repository.ProcessFilter) ([]*entity.Process, error) {
	return uc.processRepo.List(filter)
}

// CreateInput datos para registrar un proceso en el catálogo.
type CreateInput struct {
	Code             string
	Name             string
	Seq              int
	HasMaterialInput bool
	IsInspection     bool
	ShortCode        string
	Description      string
}

// Create registra un proceso nuevo. Devuelve ErrDuplicate si el código
// o el alias corto ya existen.
func (uc *ProcessCatalogUseCase) Create(in CreateInput) (*entity.Process, error) {
	code := domain.NormalizeCode(in.Code)
	if code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.processRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	shortCode := domain.NormalizeCode(in.ShortCode)
	if shortCode != "" {
		byShort, err := uc.processRepo.GetByShortCode(shortCode)
		if err != nil {
			return nil, err
		}
		if byShort != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	p := &entity.Process{
		Code:             code,
		Name:             in.Name,
		Seq:              in.Seq,
		HasMaterialInput: in.HasMaterialInput,
		IsInspection:     in.IsInspection,
		ShortCode:        shortCode,
		Description:      in.Description,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.processRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateInput campos editables de un proceso; puntero nil = sin cambio.
type UpdateInput struct {
	Name             *string
	Seq              *int
	HasMaterialInput *bool
	IsInspection     *bool
	Description      *string
}

// Update edita un proceso existente. Devuelve ErrNotFound si el código no existe.
func (uc *ProcessCatalogUseCase) Update(code string, in UpdateInput) (*entity.Process, error) {
	p, err := uc.processRepo.GetByCode(domain.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Seq != nil {
		p.Seq = *in.Seq
	}
	if in.HasMaterialInput != nil {
		p.HasMaterialInput = *in.HasMaterialInput
	}
	if in.IsInspection != nil {
		p.IsInspection = *in.IsInspection
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	p.UpdatedAt = time.Now()
	if err := uc.processRepo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Deactivate marca un proceso como inactivo (borrado lógico).
func (uc *ProcessCatalogUseCase) Deactivate(code string) error {
	p, err := uc.processRepo.GetByCode(domain.NormalizeCode(code))
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	p.IsActive = false
	p.UpdatedAt = time.Now()
	return uc.processRepo.Update(p)
}

// Delete elimina físicamente un proceso. Solo se permite si ninguna ruta lo
// referencia; si hay referencias devuelve ErrProcessInUse.
func (uc *ProcessCatalogUseCase) Delete(code string) error {
	normalized := domain.NormalizeCode(code)
	p, err := uc.processRepo.GetByCode(normalized)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	refs, err := uc.routingRepo.CountByProcessCode(normalized)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrProcessInUse
	}
	return uc.processRepo.Delete(normalized)
}
