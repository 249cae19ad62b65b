package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultVatRate IVA por defecto de un producto (%).
var DefaultVatRate = decimal.NewFromInt(18)

// Product representa un producto del catálogo. El stock es un único saldo por producto;
// cada cambio queda registrado como StockMovement.
type Product struct {
	ID            string
	Code          string // único, ej. PRD000001
	Name          string
	Description   string
	CategoryID    string
	UnitID        string
	SalePrice     decimal.Decimal
	PurchasePrice decimal.Decimal
	CurrentStock  decimal.Decimal
	MinStockLevel decimal.Decimal
	Barcode       string // EAN-13 opcional, único si está presente
	VatRate       decimal.Decimal
	ImagePath     string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
}
