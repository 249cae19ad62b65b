package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/application/usecase"
)

// CategoryHandler maneja las peticiones HTTP de la jerarquía de categorías (protegido).
type CategoryHandler struct {
	uc  *usecase.CategoryUseCase
	val *Validator
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, val *Validator) *CategoryHandler {
	return &CategoryHandler{uc: uc, val: val}
}

// GetAll godoc
// @Summary      Listar categorías activas
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) GetAll(c *fiber.Ctx) error {
	out, err := h.uc.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetPaged godoc
// @Summary      Listado paginado y filtrado
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        page          query  int     false  "Página (desde 1)"
// @Param        page_size     query  int     false  "Tamaño de página (máx 100)"
// @Param        search        query  string  false  "Texto en código, nombre o descripción"
// @Param        parent_id     query  string  false  "Solo hijas de esta categoría"
// @Param        roots_only    query  bool    false  "Solo raíces"
// @Param        created_from  query  string  false  "YYYY-MM-DD"
// @Param        created_to    query  string  false  "YYYY-MM-DD"
// @Param        sort_by       query  string  false  "code | name | created_at"
// @Success      200  {object}  dto.CategoryListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/categories/paged [get]
func (h *CategoryHandler) GetPaged(c *fiber.Ctx) error {
	var in dto.CategoryFilterRequest
	if err := h.val.bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.GetPaged(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetRoots godoc
// @Summary      Categorías raíz
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories/root [get]
func (h *CategoryHandler) GetRoots(c *fiber.Ctx) error {
	out, err := h.uc.GetRoots(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetTree godoc
// @Summary      Árbol de categorías
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        parent_id  query  string  false  "Subárbol bajo esta categoría (vacío = bosque completo)"
// @Param        max_level  query  int     false  "Niveles bajo los nodos superiores"
// @Success      200  {array}  dto.CategoryTreeNode
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/categories/tree [get]
func (h *CategoryHandler) GetTree(c *fiber.Ctx) error {
	in := dto.CategoryTreeRequest{ParentID: c.Query("parent_id")}
	if raw := c.Query("max_level"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return &validationError{Fields: map[string]string{"max_level": "numeric"}}
		}
		in.MaxLevel = &n
	}
	if err := h.val.Struct(in); err != nil {
		return err
	}
	out, err := h.uc.GetTree(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
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

// GetChildren godoc
// @Summary      Hijas directas activas
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {array}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/children [get]
func (h *CategoryHandler) GetChildren(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetChildren(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetPath godoc
// @Summary      Camino raíz -> categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {array}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/path [get]
func (h *CategoryHandler) GetPath(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetPath(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetFullPath godoc
// @Summary      Ruta legible (A > B > C)
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryFullPathResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/fullpath [get]
func (h *CategoryHandler) GetFullPath(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetFullPath(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CanDelete godoc
// @Summary      Indica si la categoría se puede eliminar
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryCanDeleteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/can-delete [get]
func (h *CategoryHandler) CanDelete(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.CanDelete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Statistics godoc
// @Summary      Estadísticas de la categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryStatisticsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/statistics [get]
func (h *CategoryHandler) Statistics(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Statistics(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
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
// @Summary      Actualizar categoría (reemplazo completo)
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Datos de la categoría"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateCategoryRequest
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
// @Summary      Eliminar categoría (baja lógica)
// @Tags         categories
// @Security     Bearer
// @Param        id   path  string  true  "ID de la categoría"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
