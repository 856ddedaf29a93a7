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

var _ repository.RoutingRepository = (*RoutingRepo)(nil)

// RoutingRepo implementación de RoutingRepository sobre PostgreSQL (usable con pool o tx).
type RoutingRepo struct {
	q Querier
}

// NewRoutingRepository construye el adaptador de rutas. Pasar pool o tx (Querier).
func NewRoutingRepository(q Querier) *RoutingRepo {
	return &RoutingRepo{q: q}
}

// Create inserta un paso de ruta. ErrDuplicate si (product_id, process_code) ya existe.
func (r *RoutingRepo) Create(e *entity.RoutingEntry) error {
	query := `
		INSERT INTO routing_entries (id, product_id, process_code, seq, is_required, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.ProductID, e.ProcessCode, e.Seq, e.IsRequired, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert routing entry: %w", err)
	}
	return nil
}

// GetByID obtiene un paso por id. nil si no existe.
func (r *RoutingRepo) GetByID(id string) (*entity.RoutingEntry, error) {
	query := `
		SELECT id, product_id, process_code, seq, is_required, created_at
		FROM routing_entries WHERE id = $1`
	var e entity.RoutingEntry
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.ProductID, &e.ProcessCode, &e.Seq, &e.IsRequired, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get routing entry: %w", err)
	}
	return &e, nil
}

// ListByProduct devuelve los pasos del producto ordenados por seq ascendente.
func (r *RoutingRepo) ListByProduct(productID string) ([]*entity.RoutingEntry, error) {
	query := `
		SELECT id, product_id, process_code, seq, is_required, created_at
		FROM routing_entries WHERE product_id = $1
		ORDER BY seq ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list routing entries: %w", err)
	}
	defer rows.Close()

	var out []*entity.RoutingEntry
	for rows.Next() {
		var e entity.RoutingEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.ProcessCode, &e.Seq, &e.IsRequired, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan routing entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Update actualiza seq e is_required de un paso.
func (r *RoutingRepo) Update(e *entity.RoutingEntry) error {
	query := `UPDATE routing_entries SET seq = $2, is_required = $3 WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, e.ID, e.Seq, e.IsRequired)
	if err != nil {
		return fmt.Errorf("update routing entry: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un paso por id.
func (r *RoutingRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM routing_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete routing entry: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByProduct elimina todos los pasos del producto y devuelve cuántos había.
func (r *RoutingRepo) DeleteByProduct(productID string) (int, error) {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM routing_entries WHERE product_id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("delete routing entries: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

// CountByProduct cuenta los pasos del producto.
func (r *RoutingRepo) CountByProduct(productID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM routing_entries WHERE product_id = $1`, productID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count routing entries: %w", err)
	}
	return count, nil
}

// CountByProcessCode cuenta cuántos pasos referencian un proceso.
func (r *RoutingRepo) CountByProcessCode(code string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM routing_entries WHERE process_code = $1`, code).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count routing entries by process: %w", err)
	}
	return count, nil
}
