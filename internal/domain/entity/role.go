package entity

import "time"

// Roles base creados por las migraciones.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// Role rol de usuario. Name es lo que viaja en el JWT y lo que valida RequireRole.
type Role struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
}
