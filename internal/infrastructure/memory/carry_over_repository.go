package memory

import (
	"sort"
	"sync"

	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

var _ repository.CarryOverRepository = (*CarryOverRepo)(nil)

// CarryOverRepo implementación en memoria de CarryOverRepository.
type CarryOverRepo struct {
	mu   sync.RWMutex
	rows map[string]carryOverRow
	next int
}

type carryOverRow struct {
	co  entity.CarryOver
	ord int
}

// NewCarryOverRepository construye el repositorio vacío.
func NewCarryOverRepository() *CarryOverRepo {
	return &CarryOverRepo{rows: make(map[string]carryOverRow)}
}

// Create registra un arrastre.
func (r *CarryOverRepo) Create(c *entity.CarryOver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = carryOverRow{co: *c, ord: r.next}
	r.next++
	return nil
}

// GetByID busca un arrastre por id. nil si no existe.
func (r *CarryOverRepo) GetByID(id string) (*entity.CarryOver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	out := row.co
	return &out, nil
}

// ListByLineAndMaterial devuelve los arrastres de la línea ordenados por
// CreatedAt ascendente (FIFO), desempatando por orden de inserción.
func (r *CarryOverRepo) ListByLineAndMaterial(lineID, materialID string) ([]*entity.CarryOver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var rows []carryOverRow
	for _, row := range r.rows {
		if row.co.LineID == lineID && row.co.MaterialID == materialID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].co.CreatedAt.Equal(rows[j].co.CreatedAt) {
			return rows[i].co.CreatedAt.Before(rows[j].co.CreatedAt)
		}
		return rows[i].ord < rows[j].ord
	})
	out := make([]*entity.CarryOver, len(rows))
	for i, row := range rows {
		cp := row.co
		out[i] = &cp
	}
	return out, nil
}

// Update reemplaza un arrastre existente. ErrNotFound si no existe.
func (r *CarryOverRepo) Update(c *entity.CarryOver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	row.co = *c
	r.rows[c.ID] = row
	return nil
}

// Delete elimina un arrastre por id. ErrNotFound si no existe.
func (r *CarryOverRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}
