package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, name, description, category_id, unit_id, sale_price, purchase_price,
	current_stock, min_stock_level, barcode, vat_rate, image_path, is_active, created_at, updated_at, created_by`

var productSort = map[string]string{
	repository.SortByName:      "name",
	repository.SortByCode:      "code",
	repository.SortByCreatedAt: "created_at",
	"sale_price":               "sale_price",
	"current_stock":            "current_stock",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.CategoryID, p.UnitID, p.SalePrice, p.PurchasePrice,
		p.CurrentStock, p.MinStockLevel, nullable(p.Barcode), p.VatRate, p.ImagePath, p.IsActive,
		p.CreatedAt, p.UpdatedAt, p.CreatedBy,
	)
	if err != nil {
		return writeError("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto activo por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND is_active`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, readError("get product", err)
	}
	return p, nil
}

// ExistsByCode indica si otro producto activo usa el código.
func (r *ProductRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return r.exists(ctx, `upper(code) = upper($1)`, code, excludeID)
}

// ExistsByBarcode indica si otro producto activo usa el código de barras.
func (r *ProductRepo) ExistsByBarcode(ctx context.Context, barcode, excludeID string) (bool, error) {
	if barcode == "" {
		return false, nil
	}
	return r.exists(ctx, `barcode = $1`, barcode, excludeID)
}

func (r *ProductRepo) exists(ctx context.Context, cond, value, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE ` + cond + ` AND is_active AND ($2 = '' OR id::text <> $2))`
	var exists bool
	if err := r.q.QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return false, readError("product exists", err)
	}
	return exists, nil
}

// Update actualiza un producto existente. No modifica el stock (se maneja vía UpdateStock).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET code = $2, name = $3, description = $4, category_id = $5, unit_id = $6,
			sale_price = $7, purchase_price = $8, min_stock_level = $9, barcode = $10, vat_rate = $11,
			image_path = $12, is_active = $13, updated_at = $14
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.CategoryID, p.UnitID,
		p.SalePrice, p.PurchasePrice, p.MinStockLevel, nullable(p.Barcode), p.VatRate,
		p.ImagePath, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return writeError("update product", err)
	}
	return nil
}

// UpdateStock fija el saldo de stock del producto.
func (r *ProductRepo) UpdateStock(ctx context.Context, productID string, stock decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET current_stock = $2, updated_at = now() WHERE id = $1`,
		productID, stock,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// List listado filtrado y paginado de productos activos.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	w := &whereBuilder{}
	w.addRaw("is_active")
	if f.Search != "" {
		w.add("(name ILIKE ? OR code ILIKE ? OR barcode ILIKE ?)", likePattern(f.Search))
	}
	if f.CategoryID != "" {
		w.add("category_id = ?", f.CategoryID)
	}
	if f.UnitID != "" {
		w.add("unit_id = ?", f.UnitID)
	}
	if f.MinPrice != nil {
		w.add("sale_price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		w.add("sale_price <= ?", *f.MaxPrice)
	}
	if f.LowStockOnly {
		w.addRaw("current_stock <= min_stock_level")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, readError("count products", err)
	}
	query := `SELECT ` + productColumns + ` FROM products` + w.sql() +
		orderBy(f.SortBy, f.SortDesc, productSort, "name")
	query += w.page(f.Page.Limit, f.Page.Offset)
	list, err := r.list(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByCategory productos activos de la categoría.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID string) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE is_active AND category_id = $1 ORDER BY name, id`, categoryID)
}

// ListActive todos los productos activos.
func (r *ProductRepo) ListActive(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE is_active ORDER BY name, id`)
}

// ListLowStock productos activos con stock menor o igual al mínimo.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE is_active AND current_stock <= min_stock_level ORDER BY current_stock, name`)
}

// Search busca por nombre, código o código de barras.
func (r *ProductRepo) Search(ctx context.Context, term string, limit int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE is_active AND (name ILIKE $1 OR code ILIKE $1 OR barcode ILIKE $1)
		ORDER BY name, id LIMIT $2`
	return r.list(ctx, query, likePattern(term), limit)
}

// ListCodes códigos con el prefijo dado, activos o no.
func (r *ProductRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT code FROM products WHERE code LIKE $1 || '%'`, prefix)
	if err != nil {
		return nil, readError("list product codes", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, readError("scan product code", err)
		}
		out = append(out, code)
	}
	return out, rows.Err()
}

// CountActiveByCategory cantidad de productos activos por categoría.
func (r *ProductRepo) CountActiveByCategory(ctx context.Context, categoryIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT category_id::text, count(*) FROM products
		WHERE is_active AND category_id::text = ANY($1)
		GROUP BY category_id`, categoryIDs)
	if err != nil {
		return nil, readError("count products by category", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id    string
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, readError("scan product count", err)
		}
		out[id] = count
	}
	return out, rows.Err()
}

// CountActiveByUnit cantidad de productos activos que usan la unidad.
func (r *ProductRepo) CountActiveByUnit(ctx context.Context, unitID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE is_active AND unit_id = $1`, unitID).Scan(&count)
	if err != nil {
		return 0, readError("count products by unit", err)
	}
	return count, nil
}

// SoftDelete marca el producto como inactivo.
func (r *ProductRepo) SoftDelete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, readError("list products", err)
	}
	defer rows.Close()
	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, readError("scan product", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p       entity.Product
		barcode *string
	)
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.CategoryID, &p.UnitID,
		&p.SalePrice, &p.PurchasePrice, &p.CurrentStock, &p.MinStockLevel, &barcode, &p.VatRate,
		&p.ImagePath, &p.IsActive, &p.CreatedAt, &p.UpdatedAt, &p.CreatedBy); err != nil {
		return nil, err
	}
	p.Barcode = deref(barcode)
	return &p, nil
}
