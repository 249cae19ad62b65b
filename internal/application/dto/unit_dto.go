package dto

import "time"

// CreateUnitRequest entrada para crear una unidad.
type CreateUnitRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Symbol      string `json:"symbol" validate:"required,min=1,max=10"`
	Description string `json:"description" validate:"max=100"`
}

// UpdateUnitRequest entrada para actualizar una unidad.
type UpdateUnitRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Symbol      string `json:"symbol" validate:"required,min=1,max=10"`
	Description string `json:"description" validate:"max=100"`
	IsActive    *bool  `json:"is_active"`
}

// UnitFilterRequest filtros del listado de unidades.
type UnitFilterRequest struct {
	PageRequest
	Search          string `query:"search" validate:"max=50"`
	IncludeInactive bool   `query:"include_inactive"`
}

// UnitResponse salida de una unidad.
type UnitResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Symbol      string    `json:"symbol"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UnitListResponse lista paginada de unidades.
type UnitListResponse struct {
	Items []UnitResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// UnitSelectResponse opción para selects.
type UnitSelectResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// UnitUsageResponse uso de una unidad por productos.
type UnitUsageResponse struct {
	ID           string `json:"id"`
	ProductCount int    `json:"product_count"`
	CanBeDeleted bool   `json:"can_be_deleted"`
}
