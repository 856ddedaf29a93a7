package memory

import (
	"sort"
	"sync"

	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

var _ repository.ProcessRepository = (*ProcessRepo)(nil)

// ProcessRepo implementación en memoria de ProcessRepository, para pruebas
// y ejecuciones sin base de datos.
type ProcessRepo struct {
	mu        sync.RWMutex
	processes map[string]entity.Process // code -> proceso
}

// NewProcessRepository construye el repositorio vacío.
func NewProcessRepository() *ProcessRepo {
	return &ProcessRepo{processes: make(map[string]entity.Process)}
}

// NewProcessRepositoryWithDefaults construye el repositorio precargado con el
// catálogo incorporado de procesos de arnés.
func NewProcessRepositoryWithDefaults() *ProcessRepo {
	r := NewProcessRepository()
	for _, p := range entity.DefaultProcesses() {
		r.processes[p.Code] = p
	}
	return r
}

// Create registra un proceso. ErrDuplicate si el código ya existe.
func (r *ProcessRepo) Create(p *entity.Process) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.processes[p.Code]; ok {
		return domain.ErrDuplicate
	}
	r.processes[p.Code] = *p
	return nil
}

// GetByCode busca por código. nil si no existe.
func (r *ProcessRepo) GetByCode(code string) (*entity.Process, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.processes[code]
	if !ok {
		return nil, nil
	}
	out := p
	return &out, nil
}

// GetByShortCode busca por alias corto. nil si no existe.
func (r *ProcessRepo) GetByShortCode(shortCode string) (*entity.Process, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.processes {
		if p.ShortCode != "" && p.ShortCode == shortCode {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

// List devuelve los procesos que pasan el filtro, ordenados por Seq ascendente
// con empates resueltos por código.
func (r *ProcessRepo) List(filter repository.ProcessFilter) ([]*entity.Process, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Process
	for _, p := range r.processes {
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		if filter.HasMaterialInput != nil && p.HasMaterialInput != *filter.HasMaterialInput {
			continue
		}
		if filter.IsInspection != nil && p.IsInspection != *filter.IsInspection {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seq != out[j].Seq {
			return out[i].Seq < out[j].Seq
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// Update reemplaza un proceso existente. ErrNotFound si no existe.
func (r *ProcessRepo) Update(p *entity.Process) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.processes[p.Code]; !ok {
		return domain.ErrNotFound
	}
	r.processes[p.Code] = *p
	return nil
}

// Delete elimina físicamente un proceso. ErrNotFound si no existe.
func (r *ProcessRepo) Delete(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.processes[code]; !ok {
		return domain.ErrNotFound
	}
	delete(r.processes, code)
	return nil
}
