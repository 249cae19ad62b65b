package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/domain"
	"github.com/jhoicas/erp-api/internal/domain/category"
	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/inventory"
	"github.com/jhoicas/erp-api/internal/domain/repository"
)

const (
	productCodePrefix = "PRD"
	barcodeLength     = 13
	barcodeAttempts   = 20
	searchLimit       = 50
	movementsLimit    = 50
)

// ProductUseCase casos de uso del catálogo de productos. El stock solo cambia vía UpdateStock,
// que deja un StockMovement en la misma transacción.
type ProductUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	units      repository.UnitRepository
	movements  repository.StockMovementRepository
	tx         StockTxRunner
	images     ImageStore
	reports    StockReportGenerator
	digits     func(n int) string
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	units repository.UnitRepository,
	movements repository.StockMovementRepository,
	tx StockTxRunner,
	images ImageStore,
	reports StockReportGenerator,
) *ProductUseCase {
	return &ProductUseCase{
		products:   products,
		categories: categories,
		units:      units,
		movements:  movements,
		tx:         tx,
		images:     images,
		reports:    reports,
		digits:     randomDigits,
	}
}

// Create crea un producto. Sin código se asigna el siguiente PRD000001 libre; el stock inicial
// se registra como movimiento de entrada.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, createdBy string) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		generated, err := uc.GenerateCode(ctx)
		if err != nil {
			return nil, err
		}
		code = generated
	}
	barcode := strings.TrimSpace(in.Barcode)
	if err := uc.checkUnique(ctx, code, barcode, ""); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, in.CategoryID, in.UnitID); err != nil {
		return nil, err
	}
	vat := entity.DefaultVatRate
	if in.VatRate != nil {
		vat = *in.VatRate
	}
	if createdBy == "" {
		createdBy = "System"
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		CategoryID:    in.CategoryID,
		UnitID:        in.UnitID,
		SalePrice:     in.SalePrice,
		PurchasePrice: in.PurchasePrice,
		CurrentStock:  in.CurrentStock,
		MinStockLevel: in.MinStockLevel,
		Barcode:       barcode,
		VatRate:       vat,
		ImagePath:     in.ImagePath,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     createdBy,
	}
	err := uc.tx.RunStock(ctx, func(products repository.ProductRepository, movements repository.StockMovementRepository) error {
		if err := products.Create(ctx, product); err != nil {
			return err
		}
		if !product.CurrentStock.IsPositive() {
			return nil
		}
		return movements.Create(ctx, newMovement(product, entity.MovementTypeIn, product.CurrentStock, "INITIAL_STOCK", "stock inicial", createdBy, now))
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, product.ID)
}

// Update actualiza los datos de un producto activo (no el stock).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	code := strings.TrimSpace(in.Code)
	barcode := strings.TrimSpace(in.Barcode)
	if err := uc.checkUnique(ctx, code, barcode, id); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, in.CategoryID, in.UnitID); err != nil {
		return nil, err
	}
	product.Code = code
	product.Name = strings.TrimSpace(in.Name)
	product.Description = strings.TrimSpace(in.Description)
	product.CategoryID = in.CategoryID
	product.UnitID = in.UnitID
	product.SalePrice = in.SalePrice
	product.PurchasePrice = in.PurchasePrice
	product.MinStockLevel = in.MinStockLevel
	product.Barcode = barcode
	product.VatRate = in.VatRate
	if in.ImagePath != "" {
		product.ImagePath = in.ImagePath
	}
	product.UpdatedAt = time.Now()
	if err := uc.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete desactiva un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.products.SoftDelete(ctx, id)
}

// UpdateStock fija el stock del producto y registra el ajuste.
func (uc *ProductUseCase) UpdateStock(ctx context.Context, id string, in dto.UpdateStockRequest, userID string) (*dto.ProductResponse, error) {
	if in.NewStock.IsNegative() {
		return nil, domain.NewRuleViolation(domain.RuleNegativeStock, "el stock no puede ser negativo")
	}
	if userID == "" {
		userID = "System"
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = "ajuste manual de stock"
	}
	err := uc.tx.RunStock(ctx, func(products repository.ProductRepository, movements repository.StockMovementRepository) error {
		product, err := products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		delta := inventory.StockDelta(product.CurrentStock, in.NewStock)
		if delta.IsZero() {
			return nil
		}
		if err := products.UpdateStock(ctx, id, in.NewStock); err != nil {
			return err
		}
		return movements.Create(ctx, newMovement(product, entity.MovementTypeAdjustment, delta, "STOCK_UPDATE", description, userID, time.Now()))
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

// GetByID obtiene un producto activo.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.enrich(ctx, []*entity.Product{product})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// GetPaged listado paginado con filtros.
func (uc *ProductUseCase) GetPaged(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	filter := repository.ProductFilter{
		Search:       strings.TrimSpace(in.Search),
		CategoryID:   in.CategoryID,
		UnitID:       in.UnitID,
		MinPrice:     in.MinPrice,
		MaxPrice:     in.MaxPrice,
		LowStockOnly: in.LowStockOnly,
		SortBy:       in.SortBy,
		SortDesc:     in.SortDesc,
		Page:         repository.Page{Limit: in.PageSize, Offset: in.Offset()},
	}
	if filter.SortBy == "" {
		filter.SortBy = repository.SortByName
	}
	list, total, err := uc.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := uc.enrich(ctx, list)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, total)}, nil
}

// Movements historial de stock del producto, más recientes primero. limit fuera de 1..50 usa 50.
func (uc *ProductUseCase) Movements(ctx context.Context, productID string, limit int) ([]dto.StockMovementResponse, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 || limit > movementsLimit {
		limit = movementsLimit
	}
	list, err := uc.movements.ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:           m.ID,
			ProductID:    m.ProductID,
			MovementType: m.MovementType,
			Quantity:     m.Quantity,
			UnitPrice:    m.UnitPrice,
			TotalAmount:  m.TotalAmount,
			DocumentType: m.DocumentType,
			Description:  m.Description,
			MovementDate: m.MovementDate,
			CreatedBy:    m.CreatedBy,
		})
	}
	return out, nil
}

// GetByCategory productos activos de una categoría.
func (uc *ProductUseCase) GetByCategory(ctx context.Context, categoryID string) ([]dto.ProductResponse, error) {
	list, err := uc.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return uc.enrich(ctx, list)
}

// GetActive todos los productos activos.
func (uc *ProductUseCase) GetActive(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return uc.enrich(ctx, list)
}

// Search busca por nombre, código o código de barras.
func (uc *ProductUseCase) Search(ctx context.Context, term string) ([]dto.ProductResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []dto.ProductResponse{}, nil
	}
	list, err := uc.products.Search(ctx, term, searchLimit)
	if err != nil {
		return nil, err
	}
	return uc.enrich(ctx, list)
}

// LowStock productos con stock menor o igual al mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.products.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return uc.enrich(ctx, list)
}

// StockInfo resumen de stock de todos los productos activos.
func (uc *ProductUseCase) StockInfo(ctx context.Context) ([]dto.ProductStockInfoResponse, error) {
	list, err := uc.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	symbols, err := uc.unitSymbols(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductStockInfoResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ProductStockInfoResponse{
			ID:            p.ID,
			Code:          p.Code,
			Name:          p.Name,
			CurrentStock:  p.CurrentStock,
			MinStockLevel: p.MinStockLevel,
			UnitSymbol:    symbols[p.UnitID].Symbol,
			IsLowStock:    inventory.IsLowStock(p.CurrentStock, p.MinStockLevel),
		})
	}
	return out, nil
}

// GenerateCode primer código PRD###### libre.
func (uc *ProductUseCase) GenerateCode(ctx context.Context) (string, error) {
	codes, err := uc.products.ListCodes(ctx, productCodePrefix)
	if err != nil {
		return "", err
	}
	return nextProductCode(codes), nil
}

// GenerateBarcode código de barras de 13 dígitos que no usa ningún producto.
func (uc *ProductUseCase) GenerateBarcode(ctx context.Context) (string, error) {
	for i := 0; i < barcodeAttempts; i++ {
		candidate := uc.digits(barcodeLength)
		exists, err := uc.products.ExistsByBarcode(ctx, candidate, "")
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no se pudo generar un código de barras único", domain.ErrConflict)
}

// IsCodeUnique indica si el código está libre (excludeID permite validar en edición).
func (uc *ProductUseCase) IsCodeUnique(ctx context.Context, code, excludeID string) (bool, error) {
	exists, err := uc.products.ExistsByCode(ctx, strings.TrimSpace(code), excludeID)
	return !exists, err
}

// IsBarcodeUnique indica si el código de barras está libre.
func (uc *ProductUseCase) IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error) {
	exists, err := uc.products.ExistsByBarcode(ctx, strings.TrimSpace(barcode), excludeID)
	return !exists, err
}

// UploadImage guarda la imagen y, si viene ProductID, la asigna al producto.
func (uc *ProductUseCase) UploadImage(ctx context.Context, in dto.UploadImageRequest) (*dto.UploadImageResponse, error) {
	var product *entity.Product
	if in.ProductID != "" {
		p, err := uc.products.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		product = p
	}
	base := in.FileName
	if product != nil {
		base = product.Code
	}
	base = slug.Make(strings.TrimSuffix(base, extOf(base)))
	if base == "" {
		base = "product"
	}
	path, err := uc.images.SaveBase64(ctx, in.Base64Image, base)
	if err != nil {
		return nil, err
	}
	if product != nil {
		product.ImagePath = path
		product.UpdatedAt = time.Now()
		if err := uc.products.Update(ctx, product); err != nil {
			return nil, err
		}
	}
	return &dto.UploadImageResponse{ImagePath: path}, nil
}

// StockReportPDF reporte de stock (todos o solo los de stock bajo).
func (uc *ProductUseCase) StockReportPDF(ctx context.Context, lowStockOnly bool) ([]byte, error) {
	var (
		list []*entity.Product
		err  error
	)
	title := "Reporte de stock"
	if lowStockOnly {
		title = "Productos con stock bajo"
		list, err = uc.products.ListLowStock(ctx)
	} else {
		list, err = uc.products.ListActive(ctx)
	}
	if err != nil {
		return nil, err
	}
	cats, err := uc.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	h := category.NewHierarchy(cats)
	symbols, err := uc.unitSymbols(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]StockReportRow, 0, len(list))
	for _, p := range list {
		path, _ := h.FullPath(p.CategoryID)
		rows = append(rows, StockReportRow{
			Code:          p.Code,
			Name:          p.Name,
			CategoryPath:  path,
			UnitSymbol:    symbols[p.UnitID].Symbol,
			CurrentStock:  p.CurrentStock,
			MinStockLevel: p.MinStockLevel,
			SalePrice:     p.SalePrice,
			IsLowStock:    inventory.IsLowStock(p.CurrentStock, p.MinStockLevel),
		})
	}
	return uc.reports.GenerateStockReport(ctx, title, rows, time.Now())
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (uc *ProductUseCase) checkUnique(ctx context.Context, code, barcode, excludeID string) error {
	exists, err := uc.products.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewRuleViolation(domain.RuleDuplicateCode, "ya existe un producto con el código %q", code)
	}
	if barcode == "" {
		return nil
	}
	exists, err = uc.products.ExistsByBarcode(ctx, barcode, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewRuleViolation(domain.RuleDuplicateBarcode, "ya existe un producto con el código de barras %q", barcode)
	}
	return nil
}

func (uc *ProductUseCase) checkReferences(ctx context.Context, categoryID, unitID string) error {
	c, err := uc.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NewRuleViolation(domain.RuleInvalidCategory, "la categoría no existe o está inactiva")
	}
	u, err := uc.units.GetByID(ctx, unitID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.NewRuleViolation(domain.RuleInvalidUnit, "la unidad no existe o está inactiva")
	}
	return nil
}

func (uc *ProductUseCase) unitSymbols(ctx context.Context) (map[string]*entity.Unit, error) {
	units, err := uc.units.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*entity.Unit, len(units))
	for _, u := range units {
		out[u.ID] = u
	}
	return out, nil
}

func (uc *ProductUseCase) enrich(ctx context.Context, list []*entity.Product) ([]dto.ProductResponse, error) {
	items := make([]dto.ProductResponse, 0, len(list))
	if len(list) == 0 {
		return items, nil
	}
	cats, err := uc.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	units, err := uc.unitSymbols(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		resp := toProductResponse(p)
		resp.CategoryName = names[p.CategoryID]
		if u, ok := units[p.UnitID]; ok {
			resp.UnitName = u.Name
			resp.UnitSymbol = u.Symbol
		}
		items = append(items, resp)
	}
	return items, nil
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		UnitID:        p.UnitID,
		SalePrice:     p.SalePrice,
		PurchasePrice: p.PurchasePrice,
		ProfitMargin:  inventory.ProfitMargin(p.SalePrice, p.PurchasePrice),
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
		IsLowStock:    inventory.IsLowStock(p.CurrentStock, p.MinStockLevel),
		Barcode:       p.Barcode,
		VatRate:       p.VatRate,
		ImagePath:     p.ImagePath,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func newMovement(p *entity.Product, movementType string, quantity decimal.Decimal, docType, description, createdBy string, at time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ID:           uuid.New().String(),
		ProductID:    p.ID,
		MovementType: movementType,
		Quantity:     quantity,
		UnitPrice:    p.PurchasePrice,
		TotalAmount:  quantity.Abs().Mul(p.PurchasePrice),
		DocumentType: docType,
		DocumentID:   p.ID,
		Description:  description,
		MovementDate: at,
		CreatedAt:    at,
		CreatedBy:    createdBy,
	}
}

// nextProductCode primer PRD###### cuyo número no está tomado.
func nextProductCode(codes []string) string {
	taken := make(map[int]bool, len(codes))
	for _, c := range codes {
		if !strings.HasPrefix(c, productCodePrefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(c, productCodePrefix)); err == nil {
			taken[n] = true
		}
	}
	n := 1
	for taken[n] {
		n++
	}
	return fmt.Sprintf("%s%06d", productCodePrefix, n)
}

func randomDigits(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	return b.String()
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
