package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	val *Validator
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, val *Validator) *ProductHandler {
	return &ProductHandler{uc: uc, val: val}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
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
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateProductRequest
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
// @Summary      Eliminar producto (baja lógica)
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateStock godoc
// @Summary      Fijar el stock y registrar el ajuste
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateStockRequest  true  "Nuevo saldo"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [put]
func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateStockRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateStock(c.UserContext(), id, in, GetUsername(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
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

// Movements godoc
// @Summary      Historial de movimientos de stock
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        limit  query  int     false  "Máximo 50"
// @Success      200  {array}  dto.StockMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *ProductHandler) Movements(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Movements(c.UserContext(), id, c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetPaged godoc
// @Summary      Listado paginado y filtrado
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        page            query  int     false  "Página (desde 1)"
// @Param        page_size       query  int     false  "Tamaño de página"
// @Param        search          query  string  false  "Código, nombre o código de barras"
// @Param        category_id     query  string  false  "Categoría"
// @Param        unit_id         query  string  false  "Unidad"
// @Param        min_price       query  number  false  "Precio de venta mínimo"
// @Param        max_price       query  number  false  "Precio de venta máximo"
// @Param        low_stock_only  query  bool    false  "Solo stock bajo"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/paged [get]
func (h *ProductHandler) GetPaged(c *fiber.Ctx) error {
	var in dto.ProductFilterRequest
	if err := h.val.bindQuery(c, &in); err != nil {
		return err
	}
	var err error
	if in.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return err
	}
	if in.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return err
	}
	out, err := h.uc.GetPaged(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByCategory godoc
// @Summary      Productos de una categoría
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products/category/{id} [get]
func (h *ProductHandler) GetByCategory(c *fiber.Ctx) error {
	id, err := h.val.paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByCategory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetActive godoc
// @Summary      Productos activos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products/active [get]
func (h *ProductHandler) GetActive(c *fiber.Ctx) error {
	out, err := h.uc.GetActive(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Búsqueda rápida (máx 50)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        term  query  string  true  "Texto a buscar"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), c.Query("term"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// StockInfo godoc
// @Summary      Resumen de stock de los productos activos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductStockInfoResponse
// @Router       /api/products/stock-info [get]
func (h *ProductHandler) StockInfo(c *fiber.Ctx) error {
	out, err := h.uc.StockInfo(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GenerateCode godoc
// @Summary      Siguiente código PRD libre
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GeneratedValueResponse
// @Router       /api/products/generate-code [get]
func (h *ProductHandler) GenerateCode(c *fiber.Ctx) error {
	code, err := h.uc.GenerateCode(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.GeneratedValueResponse{Value: code})
}

// GenerateBarcode godoc
// @Summary      Código de barras de 13 dígitos libre
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GeneratedValueResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/generate-barcode [get]
func (h *ProductHandler) GenerateBarcode(c *fiber.Ctx) error {
	barcode, err := h.uc.GenerateBarcode(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.GeneratedValueResponse{Value: barcode})
}

// ValidateCode godoc
// @Summary      Verifica si el código está libre
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        code        query  string  true   "Código"
// @Param        exclude_id  query  string  false  "Producto a excluir (edición)"
// @Success      200  {object}  dto.UniqueCheckResponse
// @Router       /api/products/validate-code [get]
func (h *ProductHandler) ValidateCode(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return &validationError{Fields: map[string]string{"code": "required"}}
	}
	excludeID, err := h.val.queryID(c, "exclude_id")
	if err != nil {
		return err
	}
	unique, err := h.uc.IsCodeUnique(c.UserContext(), code, excludeID)
	if err != nil {
		return err
	}
	return c.JSON(dto.UniqueCheckResponse{Value: code, IsUnique: unique})
}

// ValidateBarcode godoc
// @Summary      Verifica si el código de barras está libre
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        barcode     query  string  true   "Código de barras"
// @Param        exclude_id  query  string  false  "Producto a excluir (edición)"
// @Success      200  {object}  dto.UniqueCheckResponse
// @Router       /api/products/validate-barcode [get]
func (h *ProductHandler) ValidateBarcode(c *fiber.Ctx) error {
	barcode := c.Query("barcode")
	if barcode == "" {
		return &validationError{Fields: map[string]string{"barcode": "required"}}
	}
	excludeID, err := h.val.queryID(c, "exclude_id")
	if err != nil {
		return err
	}
	unique, err := h.uc.IsBarcodeUnique(c.UserContext(), barcode, excludeID)
	if err != nil {
		return err
	}
	return c.JSON(dto.UniqueCheckResponse{Value: barcode, IsUnique: unique})
}

// UploadImage godoc
// @Summary      Subir imagen en base64
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UploadImageRequest  true  "Imagen"
// @Success      201   {object}  dto.UploadImageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/upload-base64-image [post]
func (h *ProductHandler) UploadImage(c *fiber.Ctx) error {
	var in dto.UploadImageRequest
	if err := h.val.bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UploadImage(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// StockReport godoc
// @Summary      Reporte de stock en PDF
// @Tags         products
// @Security     Bearer
// @Produce      application/pdf
// @Param        low_stock_only  query  bool  false  "Solo stock bajo"
// @Success      200  {file}  binary
// @Router       /api/products/report/stock.pdf [get]
func (h *ProductHandler) StockReport(c *fiber.Ctx) error {
	lowOnly := c.QueryBool("low_stock_only", false)
	doc, err := h.uc.StockReportPDF(c.UserContext(), lowOnly)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="stock.pdf"`)
	return c.Send(doc)
}

// queryDecimal lee un decimal opcional de la query.
func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &validationError{Fields: map[string]string{key: "numeric"}}
	}
	return &d, nil
}
