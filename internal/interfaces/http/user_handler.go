package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/application/usecase"
	"github.com/jhoicas/erp-api/internal/domain"
)

// UserHandler administración de usuarios. Cambio de contraseña solo sobre el propio usuario.
type UserHandler struct {
	uc  *usecase.UserUseCase
	val *Validator
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase, val *Validator) *UserHandler {
	return &UserHandler{uc: uc, val: val}
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in, GetUsername(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "Usuario"
// @Success      200   {object}  dto.UserResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateUserRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Desactivar usuario
// @Tags         users
// @Security     Bearer
// @Param        id   path  string  true  "ID del usuario"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id, GetUserID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangePassword godoc
// @Summary      Cambiar la contraseña propia
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del usuario (debe ser el del token)"
// @Param        body  body  dto.ChangePasswordRequest  true  "Contraseñas"
// @Success      200   {object}  dto.MessageResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	if id != GetUserID(c) {
		return domain.ErrForbidden
	}
	var in dto.ChangePasswordRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	if err := h.uc.ChangePassword(c.UserContext(), id, in); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "contraseña actualizada"})
}

// GetByID godoc
// @Summary      Obtener usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetPaged godoc
// @Summary      Listado paginado de usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        page       query  int     false  "Página"
// @Param        page_size  query  int     false  "Tamaño de página"
// @Param        search     query  string  false  "Username, email o nombre"
// @Param        role_id    query  string  false  "Rol"
// @Param        status     query  string  false  "active | inactive"
// @Success      200  {object}  dto.UserListResponse
// @Router       /api/users/paged [get]
func (h *UserHandler) GetPaged(c *fiber.Ctx) error {
	var in dto.UserFilterRequest
	if err := h.val.bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.GetPaged(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetAll godoc
// @Summary      Listado completo de usuarios
// @Description  Mismos filtros que /users/paged, sin paginar.
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        search   query  string  false  "Username, email o nombre"
// @Param        role_id  query  string  false  "Rol"
// @Param        status   query  string  false  "active | inactive"
// @Success      200  {array}   dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) GetAll(c *fiber.Ctx) error {
	var in dto.UserFilterRequest
	if err := h.val.bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.GetAll(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
