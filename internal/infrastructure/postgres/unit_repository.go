package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

const unitColumns = `id, name, symbol, description, is_active, created_at, updated_at, created_by`

// UnitRepo implementación del puerto UnitRepository sobre PostgreSQL.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador de persistencia para unidades.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// Create persiste una nueva unidad.
func (r *UnitRepo) Create(ctx context.Context, u *entity.Unit) error {
	_, err := r.q.Exec(ctx, `INSERT INTO units (`+unitColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Name, u.Symbol, u.Description, u.IsActive, u.CreatedAt, u.UpdatedAt, u.CreatedBy,
	)
	if err != nil {
		return writeError("insert unit", err)
	}
	return nil
}

// GetByID obtiene una unidad activa.
func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	u, err := scanUnit(r.q.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE id = $1 AND is_active`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, readError("get unit", err)
	}
	return u, nil
}

// ExistsByName nombre usado por otra unidad activa.
func (r *UnitRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	return r.exists(ctx, `lower(name) = lower($1)`, name, excludeID)
}

// ExistsBySymbol símbolo usado por otra unidad activa.
func (r *UnitRepo) ExistsBySymbol(ctx context.Context, symbol, excludeID string) (bool, error) {
	return r.exists(ctx, `lower(symbol) = lower($1)`, symbol, excludeID)
}

func (r *UnitRepo) exists(ctx context.Context, cond, value, excludeID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM units WHERE ` + cond + ` AND is_active AND ($2 = '' OR id::text <> $2))`
	if err := r.q.QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return false, readError("unit exists", err)
	}
	return exists, nil
}

// Update actualiza una unidad.
func (r *UnitRepo) Update(ctx context.Context, u *entity.Unit) error {
	_, err := r.q.Exec(ctx,
		`UPDATE units SET name = $2, symbol = $3, description = $4, is_active = $5, updated_at = $6 WHERE id = $1`,
		u.ID, u.Name, u.Symbol, u.Description, u.IsActive, u.UpdatedAt,
	)
	if err != nil {
		return writeError("update unit", err)
	}
	return nil
}

// List listado paginado.
func (r *UnitRepo) List(ctx context.Context, f repository.UnitFilter) ([]*entity.Unit, int, error) {
	w := &whereBuilder{}
	if !f.IncludeInactive {
		w.addRaw("is_active")
	}
	if f.Search != "" {
		w.add("(name ILIKE ? OR symbol ILIKE ?)", likePattern(f.Search))
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM units`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, readError("count units", err)
	}
	query := `SELECT ` + unitColumns + ` FROM units` + w.sql() + ` ORDER BY name, id`
	query += w.page(f.Page.Limit, f.Page.Offset)
	list, err := r.list(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListActive unidades activas por nombre.
func (r *UnitRepo) ListActive(ctx context.Context) ([]*entity.Unit, error) {
	return r.list(ctx, `SELECT `+unitColumns+` FROM units WHERE is_active ORDER BY name, id`)
}

// SoftDelete marca la unidad como inactiva.
func (r *UnitRepo) SoftDelete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `UPDATE units SET is_active = FALSE, updated_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("soft delete unit: %w", err)
	}
	return nil
}

func (r *UnitRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Unit, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, readError("list units", err)
	}
	defer rows.Close()
	var out []*entity.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, readError("scan unit", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUnit(row pgx.Row) (*entity.Unit, error) {
	var u entity.Unit
	if err := row.Scan(&u.ID, &u.Name, &u.Symbol, &u.Description, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt, &u.CreatedBy); err != nil {
		return nil, err
	}
	return &u, nil
}
