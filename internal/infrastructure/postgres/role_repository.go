package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

const roleColumns = `id, name, description, is_active, created_at, updated_at, created_by`

// RoleRepo implementación del puerto RoleRepository sobre PostgreSQL.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador de persistencia para roles.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// Create persiste un rol.
func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	_, err := r.q.Exec(ctx, `INSERT INTO roles (`+roleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		role.ID, role.Name, role.Description, role.IsActive, role.CreatedAt, role.UpdatedAt, role.CreatedBy,
	)
	if err != nil {
		return writeError("insert role", err)
	}
	return nil
}

// GetByID obtiene un rol activo.
func (r *RoleRepo) GetByID(ctx context.Context, id string) (*entity.Role, error) {
	return r.getOne(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1 AND is_active`, id)
}

// GetByName obtiene un rol activo por nombre.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.getOne(ctx, `SELECT `+roleColumns+` FROM roles WHERE lower(name) = lower($1) AND is_active`, name)
}

func (r *RoleRepo) getOne(ctx context.Context, query string, arg string) (*entity.Role, error) {
	role, err := scanRole(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, readError("get role", err)
	}
	return role, nil
}

// ExistsByName nombre usado por otro rol activo.
func (r *RoleRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM roles WHERE lower(name) = lower($1) AND is_active AND ($2 = '' OR id::text <> $2))`
	if err := r.q.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, readError("role exists", err)
	}
	return exists, nil
}

// Update actualiza nombre y descripción.
func (r *RoleRepo) Update(ctx context.Context, role *entity.Role) error {
	_, err := r.q.Exec(ctx, `UPDATE roles SET name = $2, description = $3, updated_at = $4 WHERE id = $1`,
		role.ID, role.Name, role.Description, role.UpdatedAt,
	)
	if err != nil {
		return writeError("update role", err)
	}
	return nil
}

// List roles activos paginados.
func (r *RoleRepo) List(ctx context.Context, page repository.Page) ([]*entity.Role, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM roles WHERE is_active`).Scan(&total); err != nil {
		return nil, 0, readError("count roles", err)
	}
	list, err := r.list(ctx, `SELECT `+roleColumns+` FROM roles WHERE is_active ORDER BY name, id LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListActive todos los roles activos.
func (r *RoleRepo) ListActive(ctx context.Context) ([]*entity.Role, error) {
	return r.list(ctx, `SELECT `+roleColumns+` FROM roles WHERE is_active ORDER BY name, id`)
}

// CountActiveUsers usuarios activos por rol.
func (r *RoleRepo) CountActiveUsers(ctx context.Context, roleIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(roleIDs))
	if len(roleIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT role_id::text, count(*) FROM users
		WHERE is_active AND role_id::text = ANY($1)
		GROUP BY role_id`, roleIDs)
	if err != nil {
		return nil, readError("count users by role", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id    string
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, readError("scan user count", err)
		}
		out[id] = count
	}
	return out, rows.Err()
}

// SoftDelete marca el rol como inactivo.
func (r *RoleRepo) SoftDelete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `UPDATE roles SET is_active = FALSE, updated_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("soft delete role: %w", err)
	}
	return nil
}

func (r *RoleRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Role, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, readError("list roles", err)
	}
	defer rows.Close()
	var out []*entity.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, readError("scan role", err)
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func scanRole(row pgx.Row) (*entity.Role, error) {
	var role entity.Role
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &role.IsActive,
		&role.CreatedAt, &role.UpdatedAt, &role.CreatedBy); err != nil {
		return nil, err
	}
	return &role, nil
}
