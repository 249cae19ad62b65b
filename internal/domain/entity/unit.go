package entity

import "time"

// Unit unidad de medida (kg, und, lt...).
type Unit struct {
	ID          string
	Name        string
	Symbol      string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
}
