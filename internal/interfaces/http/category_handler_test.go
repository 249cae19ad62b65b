package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/application/usecase"
	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
	apphttp "github.com/jhoicas/erp-api/internal/interfaces/http"
	"github.com/jhoicas/erp-api/pkg/metrics"
)

// memCategories repositorio de categorías en memoria (solo lo que usa el caso de uso).
type memCategories struct {
	repository.CategoryRepository
	mu    sync.Mutex
	items map[string]*entity.Category
}

func (r *memCategories) Create(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *memCategories) Update(ctx context.Context, c *entity.Category) error {
	return r.Create(ctx, c)
}

func (r *memCategories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok || !c.IsActive {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCategories) ExistsByCode(_ context.Context, code, excludeID string) (bool, error) {
	return r.exists(func(c *entity.Category) bool { return strings.EqualFold(c.Code, code) }, excludeID), nil
}

func (r *memCategories) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	return r.exists(func(c *entity.Category) bool { return strings.EqualFold(c.Name, name) }, excludeID), nil
}

func (r *memCategories) exists(match func(*entity.Category) bool, excludeID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.IsActive && c.ID != excludeID && match(c) {
			return true
		}
	}
	return false
}

func (r *memCategories) ListActive(_ context.Context) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.items))
	for _, c := range r.items {
		if c.IsActive {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCategories) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.items[id]; ok {
		c.IsActive = false
	}
	return nil
}

// noProducts ninguna categoría tiene productos.
type noProducts struct {
	repository.ProductRepository
}

func (noProducts) CountActiveByCategory(_ context.Context, _ []string) (map[string]int, error) {
	return map[string]int{}, nil
}

type directTx struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

func (t directTx) RunCategory(_ context.Context, _ bool, fn func(repository.CategoryRepository, repository.ProductRepository) error) error {
	return fn(t.categories, t.products)
}

type categoryAPI struct {
	app     *fiber.App
	metrics *metrics.Collector
	admin   string
	reader  string
}

func newCategoryAPI(t *testing.T) *categoryAPI {
	t.Helper()
	cats := &memCategories{items: map[string]*entity.Category{}}
	uc := usecase.NewCategoryUseCase(cats, noProducts{}, directTx{categories: cats, products: noProducts{}}, usecase.CategoryOptions{StrictLocking: true})

	m := metrics.NewCollector("erp_test")
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(zerolog.Nop(), m)})
	apphttp.Router(app, apphttp.RouterDeps{
		CategoryUC: uc,
		Validator:  apphttp.NewValidator(),
		JWTSecret:  testJWTSecret,
	})
	return &categoryAPI{
		app:     app,
		metrics: m,
		admin:   tokenForRole(t, entity.RoleAdmin),
		reader:  tokenForRole(t, entity.RoleEmployee),
	}
}

func (a *categoryAPI) do(t *testing.T, method, target, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (a *categoryAPI) create(t *testing.T, code, name string, parentID *string) dto.CategoryResponse {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/categories", a.admin, dto.CreateCategoryRequest{Code: code, Name: name, ParentID: parentID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.CategoryResponse](t, resp)
}

func TestCategoryAPI_CrearYLeerJerarquia(t *testing.T) {
	api := newCategoryAPI(t)

	root := api.create(t, "elec", "Electrónica", nil)
	assert.Equal(t, "ELEC", root.Code, "el código se normaliza a mayúsculas")
	assert.Equal(t, 0, root.Level)

	child := api.create(t, "CEL", "Celulares", &root.ID)
	assert.Equal(t, 1, child.Level)
	assert.Equal(t, "Electrónica > Celulares", child.FullPath)
	assert.Equal(t, "Electrónica", child.ParentName)

	resp := api.do(t, http.MethodGet, "/api/categories/"+child.ID+"/fullpath", api.reader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	full := decode[dto.CategoryFullPathResponse](t, resp)
	assert.Equal(t, "Electrónica > Celulares", full.FullPath)

	resp = api.do(t, http.MethodGet, "/api/categories/tree", api.reader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tree := decode[[]dto.CategoryTreeNode](t, resp)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "CEL", tree[0].Children[0].Code)
}

func TestCategoryAPI_ReglasDeNegocio(t *testing.T) {
	api := newCategoryAPI(t)
	root := api.create(t, "ELEC", "Electrónica", nil)
	child := api.create(t, "CEL", "Celulares", &root.ID)

	t.Run("código duplicado sin distinguir mayúsculas", func(t *testing.T) {
		resp := api.do(t, http.MethodPost, "/api/categories", api.admin, dto.CreateCategoryRequest{Code: "elec", Name: "Otra"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "DUPLICATE_CODE", decode[dto.ErrorResponse](t, resp).Code)
	})
	t.Run("padre propio", func(t *testing.T) {
		resp := api.do(t, http.MethodPut, "/api/categories/"+root.ID, api.admin, dto.UpdateCategoryRequest{Code: "ELEC", Name: "Electrónica", ParentID: &root.ID})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "SELF_PARENT", decode[dto.ErrorResponse](t, resp).Code)
	})
	t.Run("ciclo", func(t *testing.T) {
		resp := api.do(t, http.MethodPut, "/api/categories/"+root.ID, api.admin, dto.UpdateCategoryRequest{Code: "ELEC", Name: "Electrónica", ParentID: &child.ID})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "CYCLICAL_REFERENCE", decode[dto.ErrorResponse](t, resp).Code)
	})
	t.Run("eliminar con hijos", func(t *testing.T) {
		resp := api.do(t, http.MethodDelete, "/api/categories/"+root.ID, api.admin, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "HAS_DEPENDENTS", decode[dto.ErrorResponse](t, resp).Code)
	})

	resp := api.do(t, http.MethodDelete, "/api/categories/"+child.ID, api.admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	rejected, err := api.metrics.Registry().Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range rejected {
		if mf.GetName() == "erp_test_business_rule_rejections_total" {
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, float64(4), total, "cada rechazo se cuenta por regla")
}

func TestCategoryAPI_ErroresDeEntrada(t *testing.T) {
	api := newCategoryAPI(t)

	t.Run("código con espacios", func(t *testing.T) {
		resp := api.do(t, http.MethodPost, "/api/categories", api.admin, dto.CreateCategoryRequest{Code: "EL EC", Name: "Electrónica"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, "VALIDATION", body.Code)
		assert.Equal(t, "category_code", body.Errors["code"])
	})
	t.Run("cuerpo inválido", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader("{"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(fiber.HeaderAuthorization, api.admin)
		resp, err := api.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
	})
	t.Run("max_level no numérico", func(t *testing.T) {
		resp := api.do(t, http.MethodGet, "/api/categories/tree?max_level=abc", api.reader, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
	})
	t.Run("inexistente", func(t *testing.T) {
		resp := api.do(t, http.MethodGet, "/api/categories/"+uuid.NewString(), api.reader, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
	})
	t.Run("id que no es UUID", func(t *testing.T) {
		for _, target := range []string{
			"/api/categories/abc",
			"/api/categories/abc/fullpath",
			"/api/products/abc",
			"/api/products/category/abc",
		} {
			resp := api.do(t, http.MethodGet, target, api.reader, nil)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode, target)
			assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code, target)
		}
	})
}

func TestCategoryAPI_EscrituraSoloAdmin(t *testing.T) {
	api := newCategoryAPI(t)

	resp := api.do(t, http.MethodPost, "/api/categories", api.reader, dto.CreateCategoryRequest{Code: "ELEC", Name: "Electrónica"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodGet, "/api/categories", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodGet, "/api/categories", api.reader, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.CategoryResponse](t, resp))
}
