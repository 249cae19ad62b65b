package usecase_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-api/internal/application/usecase"
	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeCategoryRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Category
	calls int
	// onListActive se invoca (fuera del candado) con el número de llamada a ListActive.
	onListActive func(call int)
}

var _ repository.CategoryRepository = (*fakeCategoryRepo)(nil)

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{items: map[string]*entity.Category{}}
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok || !c.IsActive {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) ExistsByCode(_ context.Context, code, excludeID string) (bool, error) {
	return r.exists(func(c *entity.Category) bool { return strings.EqualFold(c.Code, code) }, excludeID), nil
}

func (r *fakeCategoryRepo) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	return r.exists(func(c *entity.Category) bool { return strings.EqualFold(c.Name, name) }, excludeID), nil
}

func (r *fakeCategoryRepo) exists(match func(*entity.Category) bool, excludeID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.IsActive && c.ID != excludeID && match(c) {
			return true
		}
	}
	return false
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) ListActive(_ context.Context) ([]*entity.Category, error) {
	r.mu.Lock()
	r.calls++
	call, hook := r.calls, r.onListActive
	out := r.activeLocked(func(*entity.Category) bool { return true })
	r.mu.Unlock()
	if hook != nil {
		hook(call)
	}
	return out, nil
}

func (r *fakeCategoryRepo) ListByParent(_ context.Context, parentID string) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked(func(c *entity.Category) bool { return c.ParentID == parentID }), nil
}

func (r *fakeCategoryRepo) List(_ context.Context, f repository.CategoryFilter) ([]*entity.Category, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.activeLocked(func(c *entity.Category) bool {
		if f.ParentID != nil && c.ParentID != *f.ParentID {
			return false
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
			return false
		}
		return true
	})
	total := len(list)
	end := f.Page.Offset + f.Page.Limit
	if f.Page.Offset >= total {
		return []*entity.Category{}, total, nil
	}
	if end > total {
		end = total
	}
	return list[f.Page.Offset:end], total, nil
}

func (r *fakeCategoryRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.items[id]; ok {
		c.IsActive = false
	}
	return nil
}

// activeLocked copias de las activas que cumplen keep, ordenadas por nombre.
func (r *fakeCategoryRepo) activeLocked(keep func(*entity.Category) bool) []*entity.Category {
	out := make([]*entity.Category, 0, len(r.items))
	for _, c := range r.items {
		if c.IsActive && keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeCategoryRepo) raw(id string) entity.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.items[id]
}

type fakeProductRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Product
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{items: map[string]*entity.Product{}}
}

func (r *fakeProductRepo) add(p *entity.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = p
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok || !p.IsActive {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) ExistsByCode(_ context.Context, code, excludeID string) (bool, error) {
	return r.exists(func(p *entity.Product) bool { return strings.EqualFold(p.Code, code) }, excludeID), nil
}

func (r *fakeProductRepo) ExistsByBarcode(_ context.Context, barcode, excludeID string) (bool, error) {
	return r.exists(func(p *entity.Product) bool { return p.Barcode != "" && p.Barcode == barcode }, excludeID), nil
}

func (r *fakeProductRepo) exists(match func(*entity.Product) bool, excludeID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.IsActive && p.ID != excludeID && match(p) {
			return true
		}
	}
	return false
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateStock(_ context.Context, id string, stock decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id].CurrentStock = stock
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	list := r.active(func(p *entity.Product) bool {
		return f.CategoryID == "" || p.CategoryID == f.CategoryID
	})
	return list, len(list), nil
}

func (r *fakeProductRepo) ListByCategory(_ context.Context, categoryID string) ([]*entity.Product, error) {
	return r.active(func(p *entity.Product) bool { return p.CategoryID == categoryID }), nil
}

func (r *fakeProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	return r.active(func(*entity.Product) bool { return true }), nil
}

func (r *fakeProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	return r.active(func(p *entity.Product) bool { return p.CurrentStock.LessThanOrEqual(p.MinStockLevel) }), nil
}

func (r *fakeProductRepo) Search(_ context.Context, term string, limit int) ([]*entity.Product, error) {
	list := r.active(func(p *entity.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), strings.ToLower(term))
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *fakeProductRepo) ListCodes(_ context.Context, prefix string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, p := range r.items {
		if strings.HasPrefix(p.Code, prefix) {
			out = append(out, p.Code)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) CountActiveByCategory(_ context.Context, ids []string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(ids))
	for _, id := range ids {
		for _, p := range r.items {
			if p.IsActive && p.CategoryID == id {
				out[id]++
			}
		}
	}
	return out, nil
}

func (r *fakeProductRepo) CountActiveByUnit(_ context.Context, unitID string) (int, error) {
	return len(r.active(func(p *entity.Product) bool { return p.UnitID == unitID })), nil
}

func (r *fakeProductRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.items[id]; ok {
		p.IsActive = false
	}
	return nil
}

func (r *fakeProductRepo) active(keep func(*entity.Product) bool) []*entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.items))
	for _, p := range r.items {
		if p.IsActive && keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type fakeMovementRepo struct {
	mu    sync.Mutex
	items []*entity.StockMovement
}

var _ repository.StockMovementRepository = (*fakeMovementRepo)(nil)

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, m)
	return nil
}

func (r *fakeMovementRepo) ListByProduct(_ context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.items {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeUnitRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Unit
}

var _ repository.UnitRepository = (*fakeUnitRepo)(nil)

func newFakeUnitRepo(units ...*entity.Unit) *fakeUnitRepo {
	r := &fakeUnitRepo{items: map[string]*entity.Unit{}}
	for _, u := range units {
		r.items[u.ID] = u
	}
	return r
}

func (r *fakeUnitRepo) Create(_ context.Context, u *entity.Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.items[u.ID] = &cp
	return nil
}

func (r *fakeUnitRepo) GetByID(_ context.Context, id string) (*entity.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok || !u.IsActive {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUnitRepo) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	return r.exists(func(u *entity.Unit) bool { return strings.EqualFold(u.Name, name) }, excludeID), nil
}

func (r *fakeUnitRepo) ExistsBySymbol(_ context.Context, symbol, excludeID string) (bool, error) {
	return r.exists(func(u *entity.Unit) bool { return strings.EqualFold(u.Symbol, symbol) }, excludeID), nil
}

func (r *fakeUnitRepo) exists(match func(*entity.Unit) bool, excludeID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.IsActive && u.ID != excludeID && match(u) {
			return true
		}
	}
	return false
}

func (r *fakeUnitRepo) Update(_ context.Context, u *entity.Unit) error {
	return r.Create(context.Background(), u)
}

func (r *fakeUnitRepo) List(ctx context.Context, _ repository.UnitFilter) ([]*entity.Unit, int, error) {
	list, _ := r.ListActive(ctx)
	return list, len(list), nil
}

func (r *fakeUnitRepo) ListActive(_ context.Context) ([]*entity.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Unit
	for _, u := range r.items {
		if u.IsActive {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeUnitRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.items[id]; ok {
		u.IsActive = false
	}
	return nil
}

type fakeRoleRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Role
	users *fakeUserRepo
}

var _ repository.RoleRepository = (*fakeRoleRepo)(nil)

func newFakeRoleRepo(users *fakeUserRepo, roles ...*entity.Role) *fakeRoleRepo {
	r := &fakeRoleRepo{items: map[string]*entity.Role{}, users: users}
	for _, role := range roles {
		r.items[role.ID] = role
	}
	return r
}

func (r *fakeRoleRepo) Create(_ context.Context, role *entity.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *role
	r.items[role.ID] = &cp
	return nil
}

func (r *fakeRoleRepo) GetByID(_ context.Context, id string) (*entity.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.items[id]
	if !ok || !role.IsActive {
		return nil, nil
	}
	cp := *role
	return &cp, nil
}

func (r *fakeRoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.items {
		if role.IsActive && strings.EqualFold(role.Name, name) {
			cp := *role
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRoleRepo) ExistsByName(_ context.Context, name, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.items {
		if role.IsActive && role.ID != excludeID && strings.EqualFold(role.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRoleRepo) Update(ctx context.Context, role *entity.Role) error {
	return r.Create(ctx, role)
}

func (r *fakeRoleRepo) List(ctx context.Context, _ repository.Page) ([]*entity.Role, int, error) {
	list, _ := r.ListActive(ctx)
	return list, len(list), nil
}

func (r *fakeRoleRepo) ListActive(_ context.Context) ([]*entity.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Role
	for _, role := range r.items {
		if role.IsActive {
			cp := *role
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeRoleRepo) CountActiveUsers(ctx context.Context, roleIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(roleIDs))
	for _, id := range roleIDs {
		users, _ := r.users.ListByRole(ctx, id)
		out[id] = len(users)
	}
	return out, nil
}

func (r *fakeRoleRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if role, ok := r.items[id]; ok {
		role.IsActive = false
	}
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	items map[string]*entity.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.items[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Username, username) }), nil
}

func (r *fakeUserRepo) GetByRefreshToken(_ context.Context, token string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.RefreshToken != "" && u.RefreshToken == token }), nil
}

func (r *fakeUserRepo) find(match func(*entity.User) bool) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email, excludeID string) (bool, error) {
	u := r.find(func(u *entity.User) bool { return u.ID != excludeID && strings.EqualFold(u.Email, email) })
	return u != nil, nil
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username, excludeID string) (bool, error) {
	u := r.find(func(u *entity.User) bool { return u.ID != excludeID && strings.EqualFold(u.Username, username) })
	return u != nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *entity.User) error {
	return r.Create(ctx, u)
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, userID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[userID].RoleID = roleID
	return nil
}

func (r *fakeUserRepo) UpdateRefreshToken(_ context.Context, userID, token string, expiresAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[userID].RefreshToken = token
	r.items[userID].RefreshTokenExpiresAt = expiresAt
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[userID].LastLoginAt = &at
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.items {
		if f.IsActive != nil && u.IsActive != *f.IsActive {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeUserRepo) ListByRole(_ context.Context, roleID string) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.items {
		if u.IsActive && u.RoleID == roleID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.items[id]; ok {
		u.IsActive = false
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones, imágenes y reportes
// ──────────────────────────────────────────────────────────────────────────────

// fakeTx ejecuta fn directamente sobre los repos en memoria.
type fakeTx struct {
	categories *fakeCategoryRepo
	products   *fakeProductRepo
	movements  *fakeMovementRepo
	strict     []bool
	mu         sync.Mutex
}

var (
	_ usecase.CategoryTxRunner = (*fakeTx)(nil)
	_ usecase.StockTxRunner    = (*fakeTx)(nil)
)

func (t *fakeTx) RunCategory(_ context.Context, strict bool, fn func(repository.CategoryRepository, repository.ProductRepository) error) error {
	t.mu.Lock()
	t.strict = append(t.strict, strict)
	t.mu.Unlock()
	return fn(t.categories, t.products)
}

func (t *fakeTx) RunStock(_ context.Context, fn func(repository.ProductRepository, repository.StockMovementRepository) error) error {
	return fn(t.products, t.movements)
}

type fakeImageStore struct {
	payload  string
	baseName string
}

func (s *fakeImageStore) SaveBase64(_ context.Context, payload, baseName string) (string, error) {
	s.payload, s.baseName = payload, baseName
	return "/uploads/products/" + baseName + ".png", nil
}

type fakeReport struct {
	title string
	rows  []usecase.StockReportRow
}

func (r *fakeReport) GenerateStockReport(_ context.Context, title string, rows []usecase.StockReportRow, _ time.Time) ([]byte, error) {
	r.title, r.rows = title, rows
	return []byte("%PDF-fake"), nil
}
