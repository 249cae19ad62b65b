package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campos de ordenamiento admitidos por los listados.
const (
	SortByName      = "name"
	SortByCode      = "code"
	SortByCreatedAt = "created_at"
)

// Page ventana de resultados (limit/offset ya validados por la capa de aplicación).
type Page struct {
	Limit  int
	Offset int
}

// CategoryFilter filtros del listado paginado de categorías (solo activas).
type CategoryFilter struct {
	Code        string  // contiene, sin distinguir mayúsculas
	Name        string  // contiene, sin distinguir mayúsculas
	ParentID    *string // nil = cualquiera; "" = solo raíces
	Search      string  // código, nombre o descripción
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	SortBy      string
	SortDesc    bool
	Page        Page
}

// ProductFilter filtros del listado paginado de productos.
type ProductFilter struct {
	Search       string // nombre, código o código de barras
	CategoryID   string
	UnitID       string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	LowStockOnly bool
	SortBy       string
	SortDesc     bool
	Page         Page
}

// UnitFilter filtros del listado de unidades.
type UnitFilter struct {
	Search          string
	IncludeInactive bool
	Page            Page
}

// UserFilter filtros del listado de usuarios.
type UserFilter struct {
	Search   string // username, email, nombre o apellido
	RoleID   string
	IsActive *bool
	Page     Page
}
