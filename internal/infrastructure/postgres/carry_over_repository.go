package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mes-api/internal/domain"
	"github.com/jhoicas/mes-api/internal/domain/entity"
	"github.com/jhoicas/mes-api/internal/domain/repository"
)

var _ repository.CarryOverRepository = (*CarryOverRepo)(nil)

// CarryOverRepo implementación de CarryOverRepository sobre PostgreSQL.
type CarryOverRepo struct {
	q Querier
}

func NewCarryOverRepository(q Querier) *CarryOverRepo {
	return &CarryOverRepo{q: q}
}

const carryOverColumns = `id, line_id, material_id, lot_number, quantity, used_qty, created_at, updated_at`

func scanCarryOver(row pgx.Row) (*entity.CarryOver, error) {
	var c entity.CarryOver
	err := row.Scan(&c.ID, &c.LineID, &c.MaterialID, &c.LotNumber, &c.Quantity, &c.UsedQty, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CarryOverRepo) Create(c *entity.CarryOver) error {
	query := `
		INSERT INTO carry_overs (id, line_id, material_id, lot_number, quantity, used_qty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.LineID, c.MaterialID, c.LotNumber, c.Quantity, c.UsedQty, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert carry over: %w", err)
	}
	return nil
}

func (r *CarryOverRepo) GetByID(id string) (*entity.CarryOver, error) {
	query := `SELECT ` + carryOverColumns + ` FROM carry_overs WHERE id = $1`
	c, err := scanCarryOver(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get carry over: %w", err)
	}
	return c, nil
}

// ListByLineAndMaterial devuelve los arrastres en orden FIFO (created_at ascendente).
func (r *CarryOverRepo) ListByLineAndMaterial(lineID, materialID string) ([]*entity.CarryOver, error) {
	query := `SELECT ` + carryOverColumns + ` FROM carry_overs
		WHERE line_id = $1 AND material_id = $2
		ORDER BY created_at ASC, entry_no ASC`
	rows, err := r.q.Query(context.Background(), query, lineID, materialID)
	if err != nil {
		return nil, fmt.Errorf("list carry overs: %w", err)
	}
	defer rows.Close()

	var out []*entity.CarryOver
	for rows.Next() {
		c, err := scanCarryOver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan carry over: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CarryOverRepo) Update(c *entity.CarryOver) error {
	query := `
		UPDATE carry_overs
		SET quantity = $2, used_qty = $3, updated_at = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, c.ID, c.Quantity, c.UsedQty, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update carry over: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CarryOverRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM carry_overs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete carry over: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
