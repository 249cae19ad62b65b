package entity

import "time"

// Category representa una categoría de productos dentro de una jerarquía (bosque) de hasta 5 niveles.
// La relación padre se guarda por ID; la navegación se resuelve en internal/domain/category.
type Category struct {
	ID          string
	Code        string // único entre activas, siempre en mayúsculas
	Name        string // único entre activas
	Description string
	ParentID    string // vacío si es raíz
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
}

// IsRoot indica si la categoría no tiene padre.
func (c *Category) IsRoot() bool {
	return c.ParentID == ""
}
