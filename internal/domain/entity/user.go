package entity

import "time"

// User representa un usuario del sistema.
type User struct {
	ID                    string
	Username              string
	Email                 string
	PasswordHash          string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName             string
	LastName              string
	Phone                 string
	RoleID                string
	RoleName              string // solo lectura, viene del JOIN con roles
	LastLoginAt           *time.Time
	RefreshToken          string
	RefreshTokenExpiresAt *time.Time
	IsActive              bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
	CreatedBy             string
}

// FullName nombre y apellido.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
