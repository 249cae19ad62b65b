package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-api/internal/domain/repository"
)

// CategoryTxRunner ejecuta una mutación de categorías dentro de una transacción.
// Con strict = true la transacción toma el candado de jerarquía antes de leer el árbol.
type CategoryTxRunner interface {
	RunCategory(ctx context.Context, strict bool, fn func(
		categoryRepo repository.CategoryRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StockTxRunner actualiza el stock y registra el movimiento de forma atómica.
type StockTxRunner interface {
	RunStock(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}

// ImageStore guarda imágenes recibidas en base64 y devuelve su ruta pública.
type ImageStore interface {
	SaveBase64(ctx context.Context, payload, baseName string) (string, error)
}

// StockReportRow fila del reporte de stock.
type StockReportRow struct {
	Code          string
	Name          string
	CategoryPath  string
	UnitSymbol    string
	CurrentStock  decimal.Decimal
	MinStockLevel decimal.Decimal
	SalePrice     decimal.Decimal
	IsLowStock    bool
}

// StockReportGenerator genera el PDF del reporte de stock.
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, title string, rows []StockReportRow, generatedAt time.Time) ([]byte, error)
}
