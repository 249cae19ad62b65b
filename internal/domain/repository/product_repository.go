package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	ExistsByBarcode(ctx context.Context, barcode, excludeID string) (bool, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, productID string, stock decimal.Decimal) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*entity.Product, error)
	ListActive(ctx context.Context) ([]*entity.Product, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	Search(ctx context.Context, term string, limit int) ([]*entity.Product, error)
	// ListCodes códigos existentes con el prefijo dado (activos o no), para generar el siguiente.
	ListCodes(ctx context.Context, prefix string) ([]string, error)
	// CountActiveByCategory cantidad de productos activos por categoría (una sola consulta).
	CountActiveByCategory(ctx context.Context, categoryIDs []string) (map[string]int, error)
	CountActiveByUnit(ctx context.Context, unitID string) (int, error)
	SoftDelete(ctx context.Context, id string) error
}
