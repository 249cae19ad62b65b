package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, code, name, description, parent_id, is_active, created_at, updated_at, created_by`

var categorySort = map[string]string{
	repository.SortByName:      "name",
	repository.SortByCode:      "code",
	repository.SortByCreatedAt: "created_at",
}

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una nueva categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Code, c.Name, c.Description, nullable(c.ParentID), c.IsActive,
		c.CreatedAt, c.UpdatedAt, c.CreatedBy,
	)
	if err != nil {
		return writeError("insert category", err)
	}
	return nil
}

// GetByID obtiene una categoría activa por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND is_active`
	c, err := scanCategory(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, readError("get category", err)
	}
	return c, nil
}

// ExistsByCode indica si otra categoría activa usa el código (sin distinguir mayúsculas).
func (r *CategoryRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return r.exists(ctx, `upper(code) = upper($1)`, code, excludeID)
}

// ExistsByName indica si otra categoría activa usa el nombre (sin distinguir mayúsculas).
func (r *CategoryRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	return r.exists(ctx, `lower(name) = lower($1)`, name, excludeID)
}

func (r *CategoryRepo) exists(ctx context.Context, cond, value, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE ` + cond + ` AND is_active AND ($2 = '' OR id::text <> $2))`
	var exists bool
	if err := r.q.QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return false, readError("category exists", err)
	}
	return exists, nil
}

// Update reemplaza los campos editables de la categoría.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `
		UPDATE categories SET code = $2, name = $3, description = $4, parent_id = $5, is_active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Code, c.Name, c.Description, nullable(c.ParentID), c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		return writeError("update category", err)
	}
	return nil
}

// ListActive todas las categorías activas.
func (r *CategoryRepo) ListActive(ctx context.Context) ([]*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE is_active ORDER BY name, id`
	return r.list(ctx, query)
}

// ListByParent hijos activos de parentID ("" = raíces).
func (r *CategoryRepo) ListByParent(ctx context.Context, parentID string) ([]*entity.Category, error) {
	if parentID == "" {
		return r.list(ctx, `SELECT `+categoryColumns+` FROM categories WHERE is_active AND parent_id IS NULL ORDER BY name, id`)
	}
	return r.list(ctx, `SELECT `+categoryColumns+` FROM categories WHERE is_active AND parent_id = $1 ORDER BY name, id`, parentID)
}

// List listado filtrado y paginado; devuelve también el total sin paginar.
func (r *CategoryRepo) List(ctx context.Context, f repository.CategoryFilter) ([]*entity.Category, int, error) {
	w := &whereBuilder{}
	w.addRaw("is_active")
	if f.Code != "" {
		w.add("code ILIKE ?", likePattern(f.Code))
	}
	if f.Name != "" {
		w.add("name ILIKE ?", likePattern(f.Name))
	}
	if f.ParentID != nil {
		if *f.ParentID == "" {
			w.addRaw("parent_id IS NULL")
		} else {
			w.add("parent_id = ?", *f.ParentID)
		}
	}
	if f.Search != "" {
		w.add("(code ILIKE ? OR name ILIKE ? OR description ILIKE ?)", likePattern(f.Search))
	}
	if f.CreatedFrom != nil {
		w.add("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		w.add("created_at <= ?", *f.CreatedTo)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM categories`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, readError("count categories", err)
	}
	query := `SELECT ` + categoryColumns + ` FROM categories` + w.sql() +
		orderBy(f.SortBy, f.SortDesc, categorySort, "name")
	query += w.page(f.Page.Limit, f.Page.Offset)
	list, err := r.list(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// SoftDelete marca la categoría como inactiva.
func (r *CategoryRepo) SoftDelete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `UPDATE categories SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, readError("list categories", err)
	}
	defer rows.Close()
	var out []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, readError("scan category", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var (
		c        entity.Category
		parentID *string
	)
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &parentID, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt, &c.CreatedBy); err != nil {
		return nil, err
	}
	c.ParentID = deref(parentID)
	return &c, nil
}
