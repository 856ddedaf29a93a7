package repository

import "github.com/jhoicas/mes-api/internal/domain/entity"

// ProcessFilter filtros opcionales para listar el catálogo de procesos.
// Un puntero nil significa "sin filtrar por ese campo".
type ProcessFilter struct {
	IsActive         *bool
	HasMaterialInput *bool
	IsInspection     *bool
}

// ProcessRepository define el puerto de persistencia del catálogo de procesos.
// Los códigos llegan ya normalizados a mayúsculas; la ausencia se señala con nil, nil.
type ProcessRepository interface {
	Create(p *entity.Process) error
	GetByCode(code string) (*entity.Process, error)
	GetByShortCode(shortCode string) (*entity.Process, error)
	// List devuelve los procesos que pasan el filtro, ordenados por Seq ascendente
	// (empates resueltos de forma estable por código).
	List(filter ProcessFilter) ([]*entity.Process, error)
	Update(p *entity.Process) error
	Delete(code string) error
}
