package repository

import "github.com/jhoicas/mes-api/internal/domain/entity"

// CarryOverRepository define el puerto de persistencia para cantidades arrastradas.
type CarryOverRepository interface {
	Create(c *entity.CarryOver) error
	GetByID(id string) (*entity.CarryOver, error)
	// ListByLineAndMaterial devuelve los arrastres ordenados por CreatedAt ascendente (FIFO).
	ListByLineAndMaterial(lineID, materialID string) ([]*entity.CarryOver, error)
	Update(c *entity.CarryOver) error
	Delete(id string) error
}
