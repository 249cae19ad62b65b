package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Code        string  `json:"code" validate:"required,min=1,max=20,category_code"`
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description string  `json:"description" validate:"max=255"`
	ParentID    *string `json:"parent_id" validate:"omitempty,uuid"`
}

// UpdateCategoryRequest reemplaza los datos de una categoría.
// ParentID nil o vacío la deja como raíz; IsActive nil la mantiene activa.
type UpdateCategoryRequest struct {
	Code        string  `json:"code" validate:"required,min=1,max=20,category_code"`
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description string  `json:"description" validate:"max=255"`
	ParentID    *string `json:"parent_id" validate:"omitempty,uuid"`
	IsActive    *bool   `json:"is_active"`
}

// CategoryFilterRequest filtros del listado paginado.
type CategoryFilterRequest struct {
	PageRequest
	Code        string `query:"code" validate:"max=20"`
	Name        string `query:"name" validate:"max=100"`
	ParentID    string `query:"parent_id" validate:"omitempty,uuid"`
	RootsOnly   bool   `query:"roots_only"`
	Search      string `query:"search" validate:"max=100"`
	CreatedFrom string `query:"created_from" validate:"omitempty,datetime=2006-01-02"`
	CreatedTo   string `query:"created_to" validate:"omitempty,datetime=2006-01-02"`
	SortBy      string `query:"sort_by" validate:"omitempty,oneof=code name created_at"`
	SortDesc    bool   `query:"sort_desc"`
}

// CategoryTreeRequest parámetros del árbol. MaxLevel nil no limita la profundidad.
type CategoryTreeRequest struct {
	ParentID string `validate:"omitempty,uuid"`
	MaxLevel *int   `validate:"omitempty,min=0,max=10"`
}

// CategoryResponse salida hidratada de una categoría.
type CategoryResponse struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ParentID      *string   `json:"parent_id"`
	ParentName    string    `json:"parent_name,omitempty"`
	IsActive      bool      `json:"is_active"`
	Level         int       `json:"level"`
	FullPath      string    `json:"full_path"`
	HasChildren   bool      `json:"has_children"`
	ChildrenCount int       `json:"children_count"`
	ProductCount  int       `json:"product_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CreatedBy     string    `json:"created_by"`
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CategoryTreeNode nodo del árbol de categorías.
type CategoryTreeNode struct {
	ID           string             `json:"id"`
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	ParentID     *string            `json:"parent_id"`
	Level        int                `json:"level"`
	HasChildren  bool               `json:"has_children"`
	ProductCount int                `json:"product_count"`
	Children     []CategoryTreeNode `json:"children"`
}

// CategoryFullPathResponse ruta legible de una categoría.
type CategoryFullPathResponse struct {
	ID       string `json:"id"`
	FullPath string `json:"full_path"`
}

// CategoryCanDeleteResponse indica si la categoría se puede eliminar y por qué no.
type CategoryCanDeleteResponse struct {
	ID        string `json:"id"`
	CanDelete bool   `json:"can_delete"`
	Reason    string `json:"reason,omitempty"`
}

// CategoryStatisticsResponse métricas de una categoría.
type CategoryStatisticsResponse struct {
	ID            string `json:"id"`
	ProductCount  int    `json:"product_count"`
	ChildrenCount int    `json:"children_count"`
	Level         int    `json:"level"`
	HasChildren   bool   `json:"has_children"`
	HasProducts   bool   `json:"has_products"`
}
