package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=20,username"`
	Email           string `json:"email" validate:"required,email,max=100"`
	Password        string `json:"password" validate:"required,min=6,max=50"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"required,max=50"`
	LastName        string `json:"last_name" validate:"required,max=50"`
	Phone           string `json:"phone" validate:"omitempty,max=20"`
	RoleID          string `json:"role_id" validate:"required,uuid"`
}

// UpdateUserRequest entrada para actualizar un usuario.
type UpdateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=100"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	RoleID    string `json:"role_id" validate:"required,uuid"`
	IsActive  *bool  `json:"is_active"`
}

// UserFilterRequest filtros del listado de usuarios.
type UserFilterRequest struct {
	PageRequest
	Search string `query:"search" validate:"max=100"`
	RoleID string `query:"role_id" validate:"omitempty,uuid"`
	Status string `query:"status" validate:"omitempty,oneof=active inactive"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone"`
	RoleID      string     `json:"role_id"`
	RoleName    string     `json:"role_name"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ChangePasswordRequest cambio de contraseña del propio usuario.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=50"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}
