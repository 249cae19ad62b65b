package dto

import "time"

// CreateRoleRequest entrada para crear un rol.
type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"max=200"`
}

// UpdateRoleRequest entrada para actualizar un rol.
type UpdateRoleRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"max=200"`
}

// AssignRoleRequest asigna un rol a un usuario.
type AssignRoleRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	RoleID string `json:"role_id" validate:"required,uuid"`
}

// RoleResponse salida de un rol.
type RoleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserCount   int       `json:"user_count"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleWithUsersResponse rol con sus usuarios activos.
type RoleWithUsersResponse struct {
	RoleResponse
	Users []UserResponse `json:"users"`
}

// RoleListResponse lista paginada de roles.
type RoleListResponse struct {
	Items []RoleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// RoleDropdownResponse opción para selects.
type RoleDropdownResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
