package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/application/usecase"
	"github.com/jhoicas/erp-api/internal/domain"
	"github.com/jhoicas/erp-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCategoryID = "11111111-1111-1111-1111-111111111111"
	testUnitID     = "22222222-2222-2222-2222-222222222222"
)

type productEnv struct {
	uc        *usecase.ProductUseCase
	products  *fakeProductRepo
	movements *fakeMovementRepo
	images    *fakeImageStore
	report    *fakeReport
}

func newProductEnv() *productEnv {
	categories := newFakeCategoryRepo()
	_ = categories.Create(context.Background(), &entity.Category{ID: testCategoryID, Code: "BEB", Name: "Bebidas", IsActive: true})
	units := newFakeUnitRepo(&entity.Unit{ID: testUnitID, Name: "Unidad", Symbol: "und", IsActive: true})
	products := newFakeProductRepo()
	movements := &fakeMovementRepo{}
	tx := &fakeTx{categories: categories, products: products, movements: movements}
	images := &fakeImageStore{}
	report := &fakeReport{}
	return &productEnv{
		uc:        usecase.NewProductUseCase(products, categories, units, movements, tx, images, report),
		products:  products,
		movements: movements,
		images:    images,
		report:    report,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func productInput(code string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Code:          code,
		Name:          "Agua 500ml",
		CategoryID:    testCategoryID,
		UnitID:        testUnitID,
		SalePrice:     dec("150"),
		PurchasePrice: dec("100"),
		CurrentStock:  dec("10"),
		MinStockLevel: dec("5"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestProduct_CreateGeneraCodigoYRegistraStockInicial(t *testing.T) {
	env := newProductEnv()
	out, err := env.uc.Create(context.Background(), productInput(""), "tester")
	require.NoError(t, err)

	assert.Equal(t, "PRD000001", out.Code)
	assert.Equal(t, "Bebidas", out.CategoryName)
	assert.Equal(t, "und", out.UnitSymbol)
	assert.True(t, out.ProfitMargin.Equal(dec("50")), "margen (150-100)/100")
	assert.True(t, out.VatRate.Equal(entity.DefaultVatRate))
	assert.False(t, out.IsLowStock)

	require.Len(t, env.movements.items, 1)
	m := env.movements.items[0]
	assert.Equal(t, entity.MovementTypeIn, m.MovementType)
	assert.True(t, m.Quantity.Equal(dec("10")))
	assert.True(t, m.TotalAmount.Equal(dec("1000")))
}

func TestProduct_CreateReglas(t *testing.T) {
	ctx := context.Background()
	env := newProductEnv()
	in := productInput("P1")
	in.Barcode = "7701234567890"
	_, err := env.uc.Create(ctx, in, "")
	require.NoError(t, err)

	_, err = env.uc.Create(ctx, productInput("p1"), "")
	assertRule(t, err, domain.RuleDuplicateCode)

	dup := productInput("P2")
	dup.Barcode = "7701234567890"
	_, err = env.uc.Create(ctx, dup, "")
	assertRule(t, err, domain.RuleDuplicateBarcode)

	badCat := productInput("P3")
	badCat.CategoryID = "99999999-9999-9999-9999-999999999999"
	_, err = env.uc.Create(ctx, badCat, "")
	assertRule(t, err, domain.RuleInvalidCategory)

	badUnit := productInput("P4")
	badUnit.UnitID = "99999999-9999-9999-9999-999999999999"
	_, err = env.uc.Create(ctx, badUnit, "")
	assertRule(t, err, domain.RuleInvalidUnit)
}

func TestProduct_GenerateCode_PrimerHuecoLibre(t *testing.T) {
	env := newProductEnv()
	env.products.add(&entity.Product{ID: "a", Code: "PRD000001", IsActive: true})
	env.products.add(&entity.Product{ID: "b", Code: "PRD000003", IsActive: false})

	code, err := env.uc.GenerateCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PRD000002", code)
}

func TestProduct_GenerateBarcode(t *testing.T) {
	env := newProductEnv()
	code, err := env.uc.GenerateBarcode(context.Background())
	require.NoError(t, err)
	assert.Len(t, code, 13)
	assert.Regexp(t, `^[0-9]{13}$`, code)

	unique, err := env.uc.IsBarcodeUnique(context.Background(), code, "")
	require.NoError(t, err)
	assert.True(t, unique)
}

func TestProduct_UpdateStock(t *testing.T) {
	ctx := context.Background()
	env := newProductEnv()
	p, err := env.uc.Create(ctx, productInput("P1"), "")
	require.NoError(t, err)

	out, err := env.uc.UpdateStock(ctx, p.ID, dto.UpdateStockRequest{NewStock: dec("4")}, "user-1")
	require.NoError(t, err)
	assert.True(t, out.CurrentStock.Equal(dec("4")))
	assert.True(t, out.IsLowStock, "4 <= 5")

	require.Len(t, env.movements.items, 2)
	adj := env.movements.items[1]
	assert.Equal(t, entity.MovementTypeAdjustment, adj.MovementType)
	assert.True(t, adj.Quantity.Equal(dec("-6")))
	assert.True(t, adj.TotalAmount.Equal(dec("600")))
	assert.Equal(t, "user-1", adj.CreatedBy)

	low, err := env.uc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)

	_, err = env.uc.UpdateStock(ctx, p.ID, dto.UpdateStockRequest{NewStock: dec("-1")}, "")
	assertRule(t, err, domain.RuleNegativeStock)

	_, err = env.uc.UpdateStock(ctx, "nope", dto.UpdateStockRequest{NewStock: dec("1")}, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_UpdateStockSinCambio_NoRegistraMovimiento(t *testing.T) {
	ctx := context.Background()
	env := newProductEnv()
	p, err := env.uc.Create(ctx, productInput("P1"), "")
	require.NoError(t, err)

	_, err = env.uc.UpdateStock(ctx, p.ID, dto.UpdateStockRequest{NewStock: dec("10")}, "")
	require.NoError(t, err)
	assert.Len(t, env.movements.items, 1)
}

func TestProduct_UploadImage_AsignaRuta(t *testing.T) {
	ctx := context.Background()
	env := newProductEnv()
	p, err := env.uc.Create(ctx, productInput("PRD-AGUA 01"), "")
	require.NoError(t, err)

	out, err := env.uc.UploadImage(ctx, dto.UploadImageRequest{Base64Image: "aGVsbG8=", ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, "prd-agua-01", env.images.baseName)
	assert.Equal(t, out.ImagePath, "/uploads/products/prd-agua-01.png")

	got, err := env.uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ImagePath, got.ImagePath)
}

func TestProduct_StockReportPDF(t *testing.T) {
	ctx := context.Background()
	env := newProductEnv()
	_, err := env.uc.Create(ctx, productInput("P1"), "")
	require.NoError(t, err)

	pdf, err := env.uc.StockReportPDF(ctx, false)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	require.Len(t, env.report.rows, 1)
	assert.Equal(t, "Bebidas", env.report.rows[0].CategoryPath)
	assert.Equal(t, "und", env.report.rows[0].UnitSymbol)

	_, err = env.uc.StockReportPDF(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "Productos con stock bajo", env.report.title)
	assert.Empty(t, env.report.rows)
}

func TestProduct_SearchVacio(t *testing.T) {
	env := newProductEnv()
	out, err := env.uc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestProduct_Delete(t *testing.T) {
	ctx := context.Background()
	env := newProductEnv()
	p, err := env.uc.Create(ctx, productInput("P1"), "")
	require.NoError(t, err)

	require.NoError(t, env.uc.Delete(ctx, p.ID))
	_, err = env.uc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, env.uc.Delete(ctx, p.ID), domain.ErrNotFound)
}

func TestProduct_Movements(t *testing.T) {
	env := newProductEnv()
	ctx := context.Background()
	p, err := env.uc.Create(ctx, productInput("MOV1"), "tester")
	require.NoError(t, err)
	_, err = env.uc.UpdateStock(ctx, p.ID, dto.UpdateStockRequest{NewStock: dec("4")}, "tester")
	require.NoError(t, err)

	list, err := env.uc.Movements(ctx, p.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 2, "stock inicial más el ajuste")
	types := []string{list[0].MovementType, list[1].MovementType}
	assert.ElementsMatch(t, []string{entity.MovementTypeIn, entity.MovementTypeAdjustment}, types)

	_, err = env.uc.Movements(ctx, "no-existe", 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
