package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

var _ repository.StockLotRepository = (*StockLotRepo)(nil)

// StockLotRepo implementación de StockLotRepository sobre PostgreSQL (usable con pool o tx).
type StockLotRepo struct {
	q Querier
}

// NewStockLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockLotRepository(q Querier) *StockLotRepo {
	return &StockLotRepo{q: q}
}

const stockLotColumns = `id, material_id, lot_number, quantity, used_qty, location, received_at, updated_at`

func scanStockLot(row pgx.Row) (*entity.StockLot, error) {
	var l entity.StockLot
	var location *string
	err := row.Scan(
		&l.ID, &l.MaterialID, &l.LotNumber, &l.Quantity, &l.UsedQty,
		&location, &l.ReceivedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if location != nil {
		l.Location = *location
	}
	return &l, nil
}

// Create persiste un lote nuevo. ErrDuplicate si (material_id, lot_number) ya existe.
func (r *StockLotRepo) Create(lot *entity.StockLot) error {
	query := `
		INSERT INTO stock_lots (id, material_id, lot_number, quantity, used_qty, location, received_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.MaterialID, lot.LotNumber, lot.Quantity, lot.UsedQty,
		nullable(lot.Location), lot.ReceivedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por id. nil si no existe.
func (r *StockLotRepo) GetByID(id string) (*entity.StockLot, error) {
	query := `SELECT ` + stockLotColumns + ` FROM stock_lots WHERE id = $1`
	lot, err := scanStockLot(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot: %w", err)
	}
	return lot, nil
}

// GetByMaterialAndLot obtiene un lote por material y número de lote. nil si no existe.
func (r *StockLotRepo) GetByMaterialAndLot(materialID, lotNumber string) (*entity.StockLot, error) {
	query := `SELECT ` + stockLotColumns + ` FROM stock_lots WHERE material_id = $1 AND lot_number = $2`
	lot, err := scanStockLot(r.q.QueryRow(context.Background(), query, materialID, lotNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot by material and lot: %w", err)
	}
	return lot, nil
}

// GetByMaterialAndLotForUpdate igual que GetByMaterialAndLot bloqueando la fila (SELECT FOR UPDATE).
func (r *StockLotRepo) GetByMaterialAndLotForUpdate(materialID, lotNumber string) (*entity.StockLot, error) {
	query := `SELECT ` + stockLotColumns + ` FROM stock_lots WHERE material_id = $1 AND lot_number = $2 FOR UPDATE`
	lot, err := scanStockLot(r.q.QueryRow(context.Background(), query, materialID, lotNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot for update: %w", err)
	}
	return lot, nil
}

// ListByMaterial devuelve los lotes del material en orden FIFO (received_at ascendente).
func (r *StockLotRepo) ListByMaterial(materialID string) ([]*entity.StockLot, error) {
	return r.listByMaterial(materialID, false)
}

// ListByMaterialForUpdate igual que ListByMaterial bloqueando las filas (SELECT FOR UPDATE).
func (r *StockLotRepo) ListByMaterialForUpdate(materialID string) ([]*entity.StockLot, error) {
	return r.listByMaterial(materialID, true)
}

func (r *StockLotRepo) listByMaterial(materialID string, forUpdate bool) ([]*entity.StockLot, error) {
	query := `SELECT ` + stockLotColumns + ` FROM stock_lots WHERE material_id = $1 ORDER BY received_at ASC, entry_no ASC`
	if forUpdate {
		query += " FOR UPDATE"
	}
	rows, err := r.q.Query(context.Background(), query, materialID)
	if err != nil {
		return nil, fmt.Errorf("list stock lots: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockLot
	for rows.Next() {
		lot, err := scanStockLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock lot: %w", err)
		}
		out = append(out, lot)
	}
	return out, rows.Err()
}

// Update actualiza cantidades y ubicación de un lote.
func (r *StockLotRepo) Update(lot *entity.StockLot) error {
	query := `
		UPDATE stock_lots
		SET quantity = $2, used_qty = $3, location = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.Quantity, lot.UsedQty, nullable(lot.Location), lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina físicamente un lote.
func (r *StockLotRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM stock_lots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SummaryByMaterial agregado de stock por material.
func (r *StockLotRepo) SummaryByMaterial() ([]repository.MaterialStockSummary, error) {
	query := `
		SELECT material_id, COUNT(*), COALESCE(SUM(quantity), 0), COALESCE(SUM(used_qty), 0), COALESCE(SUM(quantity - used_qty), 0)
		FROM stock_lots
		GROUP BY material_id
		ORDER BY material_id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("summary by material: %w", err)
	}
	defer rows.Close()

	var out []repository.MaterialStockSummary
	for rows.Next() {
		var s repository.MaterialStockSummary
		if err := rows.Scan(&s.MaterialID, &s.LotCount, &s.TotalQuantity, &s.TotalUsed, &s.TotalAvailable); err != nil {
			return nil, fmt.Errorf("scan material summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SummaryByLocation agregado de disponibles por ubicación.
func (r *StockLotRepo) SummaryByLocation() ([]repository.LocationStockSummary, error) {
	query := `
		SELECT COALESCE(location, ''), COUNT(*), COALESCE(SUM(quantity - used_qty), 0)
		FROM stock_lots
		GROUP BY location
		ORDER BY COALESCE(location, '')`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("summary by location: %w", err)
	}
	defer rows.Close()

	var out []repository.LocationStockSummary
	for rows.Next() {
		var s repository.LocationStockSummary
		if err := rows.Scan(&s.Location, &s.LotCount, &s.TotalAvailable); err != nil {
			return nil, fmt.Errorf("scan location summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListBelowThreshold materiales con disponible total por debajo del umbral.
func (r *StockLotRepo) ListBelowThreshold(threshold decimal.Decimal) ([]repository.MaterialStockSummary, error) {
	query := `
		SELECT material_id, COUNT(*), COALESCE(SUM(quantity), 0), COALESCE(SUM(used_qty), 0), COALESCE(SUM(quantity - used_qty), 0)
		FROM stock_lots
		GROUP BY material_id
		HAVING COALESCE(SUM(quantity - used_qty), 0) < $1
		ORDER BY material_id`
	rows, err := r.q.Query(context.Background(), query, threshold)
	if err != nil {
		return nil, fmt.Errorf("list below threshold: %w", err)
	}
	defer rows.Close()

	var out []repository.MaterialStockSummary
	for rows.Next() {
		var s repository.MaterialStockSummary
		if err := rows.Scan(&s.MaterialID, &s.LotCount, &s.TotalQuantity, &s.TotalUsed, &s.TotalAvailable); err != nil {
			return nil, fmt.Errorf("scan material summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
