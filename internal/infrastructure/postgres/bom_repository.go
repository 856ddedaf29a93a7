package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mes-api/internal/application/stock"
	"github.com/jhoicas/mes-api/internal/domain"
)

var _ stock.BOMResolver = (*BOMRepo)(nil)

// BOMRepo resuelve los requerimientos de material de un producto/proceso desde
// la tabla bom_lines, escalados por la cantidad a producir.
type BOMRepo struct {
	q Querier
}

func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

// CalculateRequiredMaterials devuelve los materiales del BOM con la cantidad
// por unidad multiplicada por qty. Lista vacía si el BOM no tiene líneas.
func (r *BOMRepo) CalculateRequiredMaterials(ctx context.Context, productID, processCode string, qty decimal.Decimal) ([]stock.MaterialRequirement, error) {
	query := `
		SELECT material_id, material_code, material_name, qty_per_unit
		FROM bom_lines
		WHERE product_id = $1 AND process_code = $2
		ORDER BY material_id`
	rows, err := r.q.Query(ctx, query, productID, domain.NormalizeCode(processCode))
	if err != nil {
		return nil, fmt.Errorf("list bom lines: %w", err)
	}
	defer rows.Close()

	var out []stock.MaterialRequirement
	for rows.Next() {
		var req stock.MaterialRequirement
		var perUnit decimal.Decimal
		if err := rows.Scan(&req.MaterialID, &req.MaterialCode, &req.MaterialName, &perUnit); err != nil {
			return nil, fmt.Errorf("scan bom line: %w", err)
		}
		req.RequiredQty = perUnit.Mul(qty)
		out = append(out, req)
	}
	return out, rows.Err()
}
