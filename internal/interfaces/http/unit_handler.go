package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/application/usecase"
)

// UnitHandler maneja las peticiones HTTP de unidades de medida (protegido).
type UnitHandler struct {
	uc  *usecase.UnitUseCase
	val *Validator
}

// NewUnitHandler construye el handler.
func NewUnitHandler(uc *usecase.UnitUseCase, val *Validator) *UnitHandler {
	return &UnitHandler{uc: uc, val: val}
}

// Create godoc
// @Summary      Crear unidad
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUnitRequest  true  "Unidad"
// @Success      201   {object}  dto.UnitResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/units [post]
func (h *UnitHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUnitRequest
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
// @Summary      Actualizar unidad
// @Tags         units
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la unidad"
// @Param        body  body  dto.UpdateUnitRequest  true  "Unidad"
// @Success      200   {object}  dto.UnitResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/units/{id} [put]
func (h *UnitHandler) Update(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateUnitRequest
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
// @Summary      Eliminar unidad sin productos
// @Tags         units
// @Security     Bearer
// @Param        id   path  string  true  "ID de la unidad"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/units/{id} [delete]
func (h *UnitHandler) Delete(c *fiber.Ctx) error {
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
// @Summary      Obtener unidad
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la unidad"
// @Success      200  {object}  dto.UnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/units/{id} [get]
func (h *UnitHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listado paginado
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        page              query  int     false  "Página"
// @Param        page_size         query  int     false  "Tamaño de página"
// @Param        search            query  string  false  "Nombre o símbolo"
// @Param        include_inactive  query  bool    false  "Incluir inactivas"
// @Success      200  {object}  dto.UnitListResponse
// @Router       /api/units/paged [get]
func (h *UnitHandler) GetPaged(c *fiber.Ctx) error {
	var in dto.UnitFilterRequest
	if err := h.val.bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.GetPaged(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetForSelect godoc
// @Summary      Unidades activas para selects
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UnitSelectResponse
// @Router       /api/units/select [get]
func (h *UnitHandler) GetForSelect(c *fiber.Ctx) error {
	out, err := h.uc.GetForSelect(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Usage godoc
// @Summary      Productos que usan la unidad
// @Tags         units
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la unidad"
// @Success      200  {object}  dto.UnitUsageResponse
// @Router       /api/units/{id}/usage [get]
func (h *UnitHandler) Usage(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Usage(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
