package memory

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

var _ repository.StockLotRepository = (*StockLotRepo)(nil)

// StockLotRepo implementación en memoria de StockLotRepository.
// El orden FIFO se reproduce ordenando por ReceivedAt con el orden de
// inserción como desempate estable.
type StockLotRepo struct {
	mu   sync.RWMutex
	lots map[string]stockLotRow // id -> lote
	next int
}

type stockLotRow struct {
	lot entity.StockLot
	ord int // orden de inserción, desempate de ReceivedAt iguales
}

// NewStockLotRepository construye el repositorio vacío.
func NewStockLotRepository() *StockLotRepo {
	return &StockLotRepo{lots: make(map[string]stockLotRow)}
}

// Create registra un lote. ErrDuplicate si (MaterialID, LotNumber) ya existe.
func (r *StockLotRepo) Create(lot *entity.StockLot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.lots {
		if row.lot.MaterialID == lot.MaterialID && row.lot.LotNumber == lot.LotNumber {
			return domain.ErrDuplicate
		}
	}
	r.lots[lot.ID] = stockLotRow{lot: *lot, ord: r.next}
	r.next++
	return nil
}

// GetByID busca un lote por id. nil si no existe.
func (r *StockLotRepo) GetByID(id string) (*entity.StockLot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.lots[id]
	if !ok {
		return nil, nil
	}
	out := row.lot
	return &out, nil
}

// GetByMaterialAndLot busca por material y número de lote. nil si no existe.
func (r *StockLotRepo) GetByMaterialAndLot(materialID, lotNumber string) (*entity.StockLot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.lots {
		if row.lot.MaterialID == materialID && row.lot.LotNumber == lotNumber {
			out := row.lot
			return &out, nil
		}
	}
	return nil, nil
}

// GetByMaterialAndLotForUpdate en memoria equivale a GetByMaterialAndLot.
func (r *StockLotRepo) GetByMaterialAndLotForUpdate(materialID, lotNumber string) (*entity.StockLot, error) {
	return r.GetByMaterialAndLot(materialID, lotNumber)
}

// ListByMaterial devuelve los lotes del material en orden FIFO (ReceivedAt ascendente).
func (r *StockLotRepo) ListByMaterial(materialID string) ([]*entity.StockLot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var rows []stockLotRow
	for _, row := range r.lots {
		if row.lot.MaterialID == materialID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].lot.ReceivedAt.Equal(rows[j].lot.ReceivedAt) {
			return rows[i].lot.ReceivedAt.Before(rows[j].lot.ReceivedAt)
		}
		return rows[i].ord < rows[j].ord
	})
	out := make([]*entity.StockLot, len(rows))
	for i, row := range rows {
		cp := row.lot
		out[i] = &cp
	}
	return out, nil
}

// ListByMaterialForUpdate en memoria equivale a ListByMaterial.
func (r *StockLotRepo) ListByMaterialForUpdate(materialID string) ([]*entity.StockLot, error) {
	return r.ListByMaterial(materialID)
}

// Update reemplaza un lote existente. ErrNotFound si no existe.
func (r *StockLotRepo) Update(lot *entity.StockLot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.lots[lot.ID]
	if !ok {
		return domain.ErrNotFound
	}
	row.lot = *lot
	r.lots[lot.ID] = row
	return nil
}

// Delete elimina un lote por id. ErrNotFound si no existe.
func (r *StockLotRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.lots, id)
	return nil
}

// SummaryByMaterial agrega cantidades por material, ordenado por MaterialID.
func (r *StockLotRepo) SummaryByMaterial() ([]repository.MaterialStockSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byMaterial := make(map[string]*repository.MaterialStockSummary)
	for _, row := range r.lots {
		s, ok := byMaterial[row.lot.MaterialID]
		if !ok {
			s = &repository.MaterialStockSummary{
				MaterialID:     row.lot.MaterialID,
				TotalQuantity:  decimal.Zero,
				TotalUsed:      decimal.Zero,
				TotalAvailable: decimal.Zero,
			}
			byMaterial[row.lot.MaterialID] = s
		}
		s.LotCount++
		s.TotalQuantity = s.TotalQuantity.Add(row.lot.Quantity)
		s.TotalUsed = s.TotalUsed.Add(row.lot.UsedQty)
		s.TotalAvailable = s.TotalAvailable.Add(row.lot.AvailableQty())
	}
	out := make([]repository.MaterialStockSummary, 0, len(byMaterial))
	for _, s := range byMaterial {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialID < out[j].MaterialID })
	return out, nil
}

// SummaryByLocation agrega disponibles por ubicación, ordenado por Location.
func (r *StockLotRepo) SummaryByLocation() ([]repository.LocationStockSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byLocation := make(map[string]*repository.LocationStockSummary)
	for _, row := range r.lots {
		s, ok := byLocation[row.lot.Location]
		if !ok {
			s = &repository.LocationStockSummary{Location: row.lot.Location, TotalAvailable: decimal.Zero}
			byLocation[row.lot.Location] = s
		}
		s.LotCount++
		s.TotalAvailable = s.TotalAvailable.Add(row.lot.AvailableQty())
	}
	out := make([]repository.LocationStockSummary, 0, len(byLocation))
	for _, s := range byLocation {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out, nil
}

// ListBelowThreshold materiales con disponible total por debajo del umbral.
func (r *StockLotRepo) ListBelowThreshold(threshold decimal.Decimal) ([]repository.MaterialStockSummary, error) {
	summaries, err := r.SummaryByMaterial()
	if err != nil {
		return nil, err
	}
	var out []repository.MaterialStockSummary
	for _, s := range summaries {
		if s.TotalAvailable.LessThan(threshold) {
			out = append(out, s)
		}
	}
	return out, nil
}
