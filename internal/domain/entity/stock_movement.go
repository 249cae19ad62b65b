package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIn         = "IN"
	MovementTypeOut        = "OUT"
	MovementTypeAdjustment = "ADJUSTMENT"
)

// StockMovement registro de un cambio de stock de un producto.
type StockMovement struct {
	ID           string
	ProductID    string
	MovementType string // IN, OUT, ADJUSTMENT
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	TotalAmount  decimal.Decimal
	DocumentType string
	DocumentID   string
	Description  string
	MovementDate time.Time
	CreatedAt    time.Time
	CreatedBy    string
}
