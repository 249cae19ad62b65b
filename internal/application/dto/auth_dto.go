package dto

import "time"

// LoginRequest entrada para login: email o username más contraseña.
type LoginRequest struct {
	EmailOrUsername string `json:"email_or_username" validate:"required,max=100"`
	Password        string `json:"password" validate:"required"`
}

// LoginResponse tokens emitidos y datos del usuario.
type LoginResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	TokenType             string       `json:"token_type"`
	ExpiresAt             time.Time    `json:"expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	User                  UserResponse `json:"user"`
}

// RefreshTokenRequest entrada para rotar el refresh token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenInfoResponse claims de un access token válido.
type TokenInfoResponse struct {
	Valid     bool      `json:"valid"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	TokenID   string    `json:"jti"`
	ExpiresAt time.Time `json:"expires_at"`
}
