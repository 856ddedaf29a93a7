package memory

import (
	"sort"
	"sync"

	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

var _ repository.LotConsumptionRepository = (*LotConsumptionRepo)(nil)

// LotConsumptionRepo implementación en memoria de LotConsumptionRepository.
type LotConsumptionRepo struct {
	mu   sync.RWMutex
	rows map[string]consumptionRow
	next int
}

type consumptionRow struct {
	c   entity.LotMaterialConsumption
	ord int
}

// NewLotConsumptionRepository construye el repositorio vacío.
func NewLotConsumptionRepository() *LotConsumptionRepo {
	return &LotConsumptionRepo{rows: make(map[string]consumptionRow)}
}

// Create registra un consumo.
func (r *LotConsumptionRepo) Create(c *entity.LotMaterialConsumption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.ID] = consumptionRow{c: *c, ord: r.next}
	r.next++
	return nil
}

// sortConsumptions ordena por CreatedAt ascendente, desempatando por orden de
// inserción: los consumos de una misma llamada comparten CreatedAt.
func sortConsumptions(rows []consumptionRow) []*entity.LotMaterialConsumption {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].c.CreatedAt.Equal(rows[j].c.CreatedAt) {
			return rows[i].c.CreatedAt.Before(rows[j].c.CreatedAt)
		}
		return rows[i].ord < rows[j].ord
	})
	out := make([]*entity.LotMaterialConsumption, len(rows))
	for i, row := range rows {
		cp := row.c
		out[i] = &cp
	}
	return out
}

// ListByProductionLot devuelve los consumos del lote de producción,
// ordenados por CreatedAt ascendente.
func (r *LotConsumptionRepo) ListByProductionLot(productionLotID string) ([]*entity.LotMaterialConsumption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var rows []consumptionRow
	for _, row := range r.rows {
		if row.c.ProductionLotID == productionLotID {
			rows = append(rows, row)
		}
	}
	return sortConsumptions(rows), nil
}

// ListByMaterialAndLot devuelve los consumos registrados contra un lote de stock.
func (r *LotConsumptionRepo) ListByMaterialAndLot(materialID, lotNumber string) ([]*entity.LotMaterialConsumption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var rows []consumptionRow
	for _, row := range r.rows {
		if row.c.MaterialID == materialID && row.c.LotNumber == lotNumber {
			rows = append(rows, row)
		}
	}
	return sortConsumptions(rows), nil
}

// CountByMaterialAndLot cuenta los consumos registrados contra un lote de stock.
func (r *LotConsumptionRepo) CountByMaterialAndLot(materialID, lotNumber string) (int, error) {
	rows, err := r.ListByMaterialAndLot(materialID, lotNumber)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// DeleteByProductionLot elimina los consumos del lote de producción y devuelve cuántos había.
func (r *LotConsumptionRepo) DeleteByProductionLot(productionLotID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, row := range r.rows {
		if row.c.ProductionLotID == productionLotID {
			delete(r.rows, id)
			removed++
		}
	}
	return removed, nil
}
