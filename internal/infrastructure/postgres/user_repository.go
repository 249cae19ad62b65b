package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// userSelect columnas del usuario con el nombre del rol (JOIN).
const userSelect = `
	SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.phone,
		u.role_id, COALESCE(r.name, ''), u.last_login_at, u.refresh_token, u.refresh_token_expires_at,
		u.is_active, u.created_at, u.updated_at, u.created_by
	FROM users u
	LEFT JOIN roles r ON r.id = u.role_id`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, phone, role_id,
			is_active, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.RoleID,
		u.IsActive, u.CreatedAt, u.UpdatedAt, u.CreatedBy,
	)
	if err != nil {
		return writeError("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.id = $1`, id)
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE lower(u.email) = lower($1)`, email)
}

// GetByUsername obtiene un usuario por username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE lower(u.username) = lower($1)`, username)
}

// GetByRefreshToken obtiene el dueño del refresh token.
func (r *UserRepo) GetByRefreshToken(ctx context.Context, token string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.refresh_token = $1`, token)
}

func (r *UserRepo) getOne(ctx context.Context, query, arg string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, readError("get user", err)
	}
	return u, nil
}

// ExistsByEmail email usado por otro usuario (activo o no).
func (r *UserRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, `lower(email) = lower($1)`, email, excludeID)
}

// ExistsByUsername username usado por otro usuario (activo o no).
func (r *UserRepo) ExistsByUsername(ctx context.Context, username, excludeID string) (bool, error) {
	return r.exists(ctx, `lower(username) = lower($1)`, username, excludeID)
}

func (r *UserRepo) exists(ctx context.Context, cond, value, excludeID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE ` + cond + ` AND ($2 = '' OR id::text <> $2))`
	if err := r.q.QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return false, readError("user exists", err)
	}
	return exists, nil
}

// Update actualiza datos, contraseña, rol y estado.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE users SET email = $2, password_hash = $3, first_name = $4, last_name = $5, phone = $6,
			role_id = $7, is_active = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.RoleID, u.IsActive, u.UpdatedAt,
	)
	if err != nil {
		return writeError("update user", err)
	}
	return nil
}

// UpdateRole cambia el rol del usuario.
func (r *UserRepo) UpdateRole(ctx context.Context, userID, roleID string) error {
	_, err := r.q.Exec(ctx, `UPDATE users SET role_id = $2, updated_at = now() WHERE id = $1`, userID, roleID)
	if err != nil {
		return writeError("update user role", err)
	}
	return nil
}

// UpdateRefreshToken guarda (o borra con token vacío) el refresh token vigente.
func (r *UserRepo) UpdateRefreshToken(ctx context.Context, userID, token string, expiresAt *time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE users SET refresh_token = $2, refresh_token_expires_at = $3, updated_at = now() WHERE id = $1`,
		userID, nullable(token), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	return nil
}

// UpdateLastLogin registra el último login.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	if _, err := r.q.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, userID, at); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// List listado filtrado y paginado (activos e inactivos salvo filtro).
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	w := &whereBuilder{}
	if f.Search != "" {
		w.add("(u.username ILIKE ? OR u.email ILIKE ? OR u.first_name ILIKE ? OR u.last_name ILIKE ?)", likePattern(f.Search))
	}
	if f.RoleID != "" {
		w.add("u.role_id = ?", f.RoleID)
	}
	if f.IsActive != nil {
		w.add("u.is_active = ?", *f.IsActive)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM users u`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, readError("count users", err)
	}
	query := userSelect + w.sql() + ` ORDER BY u.username, u.id` + w.page(f.Page.Limit, f.Page.Offset)
	list, err := r.list(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByRole usuarios activos del rol.
func (r *UserRepo) ListByRole(ctx context.Context, roleID string) ([]*entity.User, error) {
	return r.list(ctx, userSelect+` WHERE u.is_active AND u.role_id = $1 ORDER BY u.username`, roleID)
}

// SoftDelete desactiva el usuario y corta su sesión.
func (r *UserRepo) SoftDelete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE users SET is_active = FALSE, refresh_token = NULL, refresh_token_expires_at = NULL, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	return nil
}

func (r *UserRepo) list(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, readError("list users", err)
	}
	defer rows.Close()
	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, readError("scan user", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u            entity.User
		refreshToken *string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.RoleID, &u.RoleName, &u.LastLoginAt, &refreshToken, &u.RefreshTokenExpiresAt,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.CreatedBy); err != nil {
		return nil, err
	}
	u.RefreshToken = deref(refreshToken)
	return &u, nil
}
