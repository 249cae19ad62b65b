package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Code vacío se genera automáticamente.
type CreateProductRequest struct {
	Code          string           `json:"code" validate:"omitempty,max=50"`
	Name          string           `json:"name" validate:"required,min=1,max=200"`
	Description   string           `json:"description" validate:"max=500"`
	CategoryID    string           `json:"category_id" validate:"required,uuid"`
	UnitID        string           `json:"unit_id" validate:"required,uuid"`
	SalePrice     decimal.Decimal  `json:"sale_price" validate:"gt=0"`
	PurchasePrice decimal.Decimal  `json:"purchase_price" validate:"gte=0"`
	CurrentStock  decimal.Decimal  `json:"current_stock" validate:"gte=0"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level" validate:"gte=0"`
	Barcode       string           `json:"barcode" validate:"omitempty,max=100"`
	VatRate       *decimal.Decimal `json:"vat_rate" validate:"omitempty,gte=0,lte=100"`
	ImagePath     string           `json:"image_path" validate:"omitempty,max=500"`
}

// UpdateProductRequest entrada para actualizar un producto. El stock se cambia por UpdateStock.
type UpdateProductRequest struct {
	Code          string          `json:"code" validate:"required,max=50"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description" validate:"max=500"`
	CategoryID    string          `json:"category_id" validate:"required,uuid"`
	UnitID        string          `json:"unit_id" validate:"required,uuid"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"gt=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"gte=0"`
	MinStockLevel decimal.Decimal `json:"min_stock_level" validate:"gte=0"`
	Barcode       string          `json:"barcode" validate:"omitempty,max=100"`
	VatRate       decimal.Decimal `json:"vat_rate" validate:"gte=0,lte=100"`
	ImagePath     string          `json:"image_path" validate:"omitempty,max=500"`
}

// UpdateStockRequest nuevo saldo de stock.
type UpdateStockRequest struct {
	NewStock    decimal.Decimal `json:"new_stock"`
	Description string          `json:"description" validate:"max=255"`
}

// ProductFilterRequest filtros del listado paginado. MinPrice y MaxPrice los completa el handler.
type ProductFilterRequest struct {
	PageRequest
	Search       string           `query:"search" validate:"max=100"`
	CategoryID   string           `query:"category_id" validate:"omitempty,uuid"`
	UnitID       string           `query:"unit_id" validate:"omitempty,uuid"`
	MinPrice     *decimal.Decimal `query:"-"`
	MaxPrice     *decimal.Decimal `query:"-"`
	LowStockOnly bool             `query:"low_stock_only"`
	SortBy       string           `query:"sort_by" validate:"omitempty,oneof=code name created_at sale_price current_stock"`
	SortDesc     bool             `query:"sort_desc"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	UnitID        string          `json:"unit_id"`
	UnitName      string          `json:"unit_name,omitempty"`
	UnitSymbol    string          `json:"unit_symbol,omitempty"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	IsLowStock    bool            `json:"is_low_stock"`
	Barcode       string          `json:"barcode"`
	VatRate       decimal.Decimal `json:"vat_rate"`
	ImagePath     string          `json:"image_path"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductStockInfoResponse resumen de stock de un producto.
type ProductStockInfoResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	UnitSymbol    string          `json:"unit_symbol"`
	IsLowStock    bool            `json:"is_low_stock"`
}

// GeneratedValueResponse código o código de barras generado.
type GeneratedValueResponse struct {
	Value string `json:"value"`
}

// UniqueCheckResponse resultado de validar unicidad.
type UniqueCheckResponse struct {
	Value    string `json:"value"`
	IsUnique bool   `json:"is_unique"`
}

// UploadImageRequest imagen en base64, con o sin prefijo data:<mime>;base64,
type UploadImageRequest struct {
	Base64Image string `json:"base64_image" validate:"required"`
	FileName    string `json:"file_name" validate:"max=200"`
	ProductID   string `json:"product_id" validate:"omitempty,uuid"`
}

// UploadImageResponse ruta pública de la imagen guardada.
type UploadImageResponse struct {
	ImagePath string `json:"image_path"`
}

// StockMovementResponse movimiento del historial de stock.
type StockMovementResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	DocumentType string          `json:"document_type"`
	Description  string          `json:"description"`
	MovementDate time.Time       `json:"movement_date"`
	CreatedBy    string          `json:"created_by"`
}
