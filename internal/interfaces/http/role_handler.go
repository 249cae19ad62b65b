package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/application/usecase"
)

// RoleHandler maneja las peticiones HTTP de roles (solo admin).
type RoleHandler struct {
	uc  *usecase.RoleUseCase
	val *Validator
}

// NewRoleHandler construye el handler.
func NewRoleHandler(uc *usecase.RoleUseCase, val *Validator) *RoleHandler {
	return &RoleHandler{uc: uc, val: val}
}

// Create godoc
// @Summary      Crear rol
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRoleRequest  true  "Rol"
// @Success      201   {object}  dto.RoleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/roles [post]
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRoleRequest
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
// @Summary      Actualizar rol
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del rol"
// @Param        body  body  dto.UpdateRoleRequest  true  "Rol"
// @Success      200   {object}  dto.RoleResponse
// @Router       /api/roles/{id} [put]
func (h *RoleHandler) Update(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateRoleRequest
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
// @Summary      Eliminar rol sin usuarios activos
// @Tags         roles
// @Security     Bearer
// @Param        id   path  string  true  "ID del rol"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/roles/{id} [delete]
func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener rol
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del rol"
// @Success      200  {object}  dto.RoleResponse
// @Router       /api/roles/{id} [get]
func (h *RoleHandler) GetByID(c *fiber.Ctx) error {
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

// GetWithUsers godoc
// @Summary      Rol con sus usuarios
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del rol"
// @Success      200  {object}  dto.RoleWithUsersResponse
// @Router       /api/roles/{id}/with-users [get]
func (h *RoleHandler) GetWithUsers(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetWithUsers(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetPaged godoc
// @Summary      Listado paginado de roles
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        page       query  int  false  "Página"
// @Param        page_size  query  int  false  "Tamaño de página"
// @Success      200  {object}  dto.RoleListResponse
// @Router       /api/roles [get]
func (h *RoleHandler) GetPaged(c *fiber.Ctx) error {
	var in dto.PageRequest
	if err := h.val.bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.GetPaged(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetDropdown godoc
// @Summary      Roles activos para selects
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RoleDropdownResponse
// @Router       /api/roles/dropdown [get]
func (h *RoleHandler) GetDropdown(c *fiber.Ctx) error {
	out, err := h.uc.GetDropdown(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AssignRole godoc
// @Summary      Asignar rol a un usuario
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignRoleRequest  true  "Usuario y rol"
// @Success      200   {object}  dto.UserResponse
// @Router       /api/roles/assign [post]
func (h *RoleHandler) AssignRole(c *fiber.Ctx) error {
	var in dto.AssignRoleRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AssignRole(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
