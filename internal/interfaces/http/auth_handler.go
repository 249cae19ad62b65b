package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-api/internal/application/auth"
	"github.com/jhoicas/erp-api/internal/application/dto"
)

// AuthHandler maneja login, refresh, logout y perfil.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	val *Validator
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, val *Validator) *AuthHandler {
	return &AuthHandler{uc: uc, val: val}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Acepta email o username. Devuelve access token y refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Rotar refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshTokenRequest  true  "Refresh token"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/refresh-token [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshTokenRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Refresh(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Invalida el refresh token y revoca el access token actual.
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetUserID(c), GetTokenID(c), GetTokenExpiry(c)); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "sesión cerrada"})
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ValidateToken godoc
// @Summary      Validar access token
// @Description  Responde 200 con los claims si el token es válido y no está revocado; 401 en otro caso.
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TokenInfoResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/validate-token [get]
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	return c.JSON(dto.TokenInfoResponse{
		Valid:     true,
		UserID:    GetUserID(c),
		Username:  GetUsername(c),
		Role:      GetRole(c),
		TokenID:   GetTokenID(c),
		ExpiresAt: GetTokenExpiry(c),
	})
}
