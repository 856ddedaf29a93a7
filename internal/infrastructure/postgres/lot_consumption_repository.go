package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

var _ repository.LotConsumptionRepository = (*LotConsumptionRepo)(nil)

// LotConsumptionRepo implementación de LotConsumptionRepository sobre PostgreSQL.
type LotConsumptionRepo struct {
	q Querier
}

func NewLotConsumptionRepository(q Querier) *LotConsumptionRepo {
	return &LotConsumptionRepo{q: q}
}

func (r *LotConsumptionRepo) Create(c *entity.LotMaterialConsumption) error {
	query := `
		INSERT INTO lot_material_consumptions (id, production_lot_id, material_id, lot_number, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.ProductionLotID, c.MaterialID, c.LotNumber, c.Quantity, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lot consumption: %w", err)
	}
	return nil
}

// ListByProductionLot devuelve los consumos del lote de producción en orden de creación.
func (r *LotConsumptionRepo) ListByProductionLot(productionLotID string) ([]*entity.LotMaterialConsumption, error) {
	query := `
		SELECT id, production_lot_id, material_id, lot_number, quantity, created_at
		FROM lot_material_consumptions
		WHERE production_lot_id = $1
		ORDER BY created_at ASC, entry_no ASC`
	return r.list(query, productionLotID)
}

func (r *LotConsumptionRepo) ListByMaterialAndLot(materialID, lotNumber string) ([]*entity.LotMaterialConsumption, error) {
	query := `
		SELECT id, production_lot_id, material_id, lot_number, quantity, created_at
		FROM lot_material_consumptions
		WHERE material_id = $1 AND lot_number = $2
		ORDER BY created_at ASC, entry_no ASC`
	return r.list(query, materialID, lotNumber)
}

func (r *LotConsumptionRepo) CountByMaterialAndLot(materialID, lotNumber string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM lot_material_consumptions WHERE material_id = $1 AND lot_number = $2`,
		materialID, lotNumber,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count lot consumptions: %w", err)
	}
	return count, nil
}

// DeleteByProductionLot elimina todos los consumos del lote de producción.
func (r *LotConsumptionRepo) DeleteByProductionLot(productionLotID string) (int, error) {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM lot_material_consumptions WHERE production_lot_id = $1`, productionLotID)
	if err != nil {
		return 0, fmt.Errorf("delete lot consumptions: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

func (r *LotConsumptionRepo) list(query string, args ...any) ([]*entity.LotMaterialConsumption, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lot consumptions: %w", err)
	}
	defer rows.Close()

	var out []*entity.LotMaterialConsumption
	for rows.Next() {
		var c entity.LotMaterialConsumption
		if err := rows.Scan(&c.ID, &c.ProductionLotID, &c.MaterialID, &c.LotNumber, &c.Quantity, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lot consumption: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
