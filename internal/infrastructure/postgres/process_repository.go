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

var _ repository.ProcessRepository = (*ProcessRepo)(nil)

// ProcessRepo implementación de ProcessRepository sobre PostgreSQL (usable con pool o tx).
type ProcessRepo struct {
	q Querier
}

// NewProcessRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewProcessRepository(q Querier) *ProcessRepo {
	return &ProcessRepo{q: q}
}

const processColumns = `code, name, seq, has_material_input, is_inspection, short_code, description, is_active, created_at, updated_at`

func scanProcess(row pgx.Row) (*entity.Process, error) {
	var p entity.Process
	var shortCode, description *string
	err := row.Scan(
		&p.Code, &p.Name, &p.Seq, &p.HasMaterialInput, &p.IsInspection,
		&shortCode, &description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if shortCode != nil {
		p.ShortCode = *shortCode
	}
	if description != nil {
		p.Description = *description
	}
	return &p, nil
}

// Create persiste un proceso nuevo.
func (r *ProcessRepo) Create(p *entity.Process) error {
	query := `
		INSERT INTO processes (code, name, seq, has_material_input, is_inspection, short_code, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	shortCode := nullable(p.ShortCode)
	description := nullable(p.Description)
	_, err := r.q.Exec(context.Background(), query,
		p.Code, p.Name, p.Seq, p.HasMaterialInput, p.IsInspection,
		shortCode, description, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert process: %w", err)
	}
	return nil
}

// GetByCode obtiene un proceso por código. nil si no existe.
func (r *ProcessRepo) GetByCode(code string) (*entity.Process, error) {
	query := `SELECT ` + processColumns + ` FROM processes WHERE code = $1`
	p, err := scanProcess(r.q.QueryRow(context.Background(), query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get process: %w", err)
	}
	return p, nil
}

// GetByShortCode obtiene un proceso por alias corto. nil si no existe.
func (r *ProcessRepo) GetByShortCode(shortCode string) (*entity.Process, error) {
	query := `SELECT ` + processColumns + ` FROM processes WHERE short_code = $1`
	p, err := scanProcess(r.q.QueryRow(context.Background(), query, shortCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get process by short code: %w", err)
	}
	return p, nil
}

// List devuelve los procesos que pasan el filtro, ordenados por seq ascendente
// con empates resueltos por código.
func (r *ProcessRepo) List(filter repository.ProcessFilter) ([]*entity.Process, error) {
	query := `SELECT ` + processColumns + ` FROM processes WHERE 1=1`
	args := []any{}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	if filter.HasMaterialInput != nil {
		args = append(args, *filter.HasMaterialInput)
		query += fmt.Sprintf(" AND has_material_input = $%d", len(args))
	}
	if filter.IsInspection != nil {
		args = append(args, *filter.IsInspection)
		query += fmt.Sprintf(" AND is_inspection = $%d", len(args))
	}
	query += " ORDER BY seq ASC, code ASC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Process
	for rows.Next() {
		p, err := scanProcess(rows)
		if err != nil {
			return nil, fmt.Errorf("scan process: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update actualiza un proceso existente.
func (r *ProcessRepo) Update(p *entity.Process) error {
	query := `
		UPDATE processes
		SET name = $2, seq = $3, has_material_input = $4, is_inspection = $5,
		    short_code = $6, description = $7, is_active = $8, updated_at = $9
		WHERE code = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		p.Code, p.Name, p.Seq, p.HasMaterialInput, p.IsInspection,
		nullable(p.ShortCode), nullable(p.Description), p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update process: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina físicamente un proceso.
func (r *ProcessRepo) Delete(code string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM processes WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete process: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// nullable convierte cadena vacía en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
