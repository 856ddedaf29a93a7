package memory

import (
	"sort"
	"sync"

	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

var _ repository.RoutingRepository = (*RoutingRepo)(nil)

// RoutingRepo implementación en memoria de RoutingRepository.
// Reproduce la restricción de unicidad (ProductID, ProcessCode) del almacenamiento.
type RoutingRepo struct {
	mu      sync.RWMutex
	entries map[string]entity.RoutingEntry // id -> paso
}

// NewRoutingRepository construye el repositorio vacío.
func NewRoutingRepository() *RoutingRepo {
	return &RoutingRepo{entries: make(map[string]entity.RoutingEntry)}
}

// Create inserta un paso. ErrDuplicate si el producto ya contiene ese proceso.
func (r *RoutingRepo) Create(e *entity.RoutingEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.entries {
		if existing.ProductID == e.ProductID && existing.ProcessCode == e.ProcessCode {
			return domain.ErrDuplicate
		}
	}
	r.entries[e.ID] = *e
	return nil
}

// GetByID busca un paso por id. nil si no existe.
func (r *RoutingRepo) GetByID(id string) (*entity.RoutingEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	out := e
	return &out, nil
}

// ListByProduct devuelve los pasos del producto ordenados por Seq ascendente.
func (r *RoutingRepo) ListByProduct(productID string) ([]*entity.RoutingEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.RoutingEntry
	for _, e := range r.entries {
		if e.ProductID == productID {
			cp := e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

// Update reemplaza un paso existente. ErrNotFound si no existe.
func (r *RoutingRepo) Update(e *entity.RoutingEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.ID]; !ok {
		return domain.ErrNotFound
	}
	r.entries[e.ID] = *e
	return nil
}

// Delete elimina un paso por id. ErrNotFound si no existe.
func (r *RoutingRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

// DeleteByProduct elimina todos los pasos del producto y devuelve cuántos había.
func (r *RoutingRepo) DeleteByProduct(productID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.entries {
		if e.ProductID == productID {
			delete(r.entries, id)
			removed++
		}
	}
	return removed, nil
}

// CountByProduct cuenta los pasos del producto.
func (r *RoutingRepo) CountByProduct(productID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, e := range r.entries {
		if e.ProductID == productID {
			count++
		}
	}
	return count, nil
}

// CountByProcessCode cuenta cuántos pasos (de cualquier producto) referencian un proceso.
func (r *RoutingRepo) CountByProcessCode(code string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, e := range r.entries {
		if e.ProcessCode == code {
			count++
		}
	}
	return count, nil
}
