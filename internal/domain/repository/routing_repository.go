package repository

import "github.com/jhoicas/mes-api/internal/domain/entity"

// RoutingRepository define el puerto de persistencia para las rutas de fabricación.
// La unicidad de (ProductID, ProcessCode) la garantiza el almacenamiento.
type RoutingRepository interface {
	Create(e *entity.RoutingEntry) error
	GetByID(id string) (*entity.RoutingEntry, error)
	// ListByProduct devuelve los pasos del producto ordenados por Seq ascendente,
	// sin importar el orden de inserción.
	ListByProduct(productID string) ([]*entity.RoutingEntry, error)
	Update(e *entity.RoutingEntry) error
	Delete(id string) error
	// DeleteByProduct elimina todos los pasos del producto y devuelve cuántos había.
	DeleteByProduct(productID string) (int, error)
	CountByProduct(productID string) (int, error)
	// CountByProcessCode cuenta cuántas rutas referencian un proceso (para borrado físico).
	CountByProcessCode(code string) (int, error)
}
