package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-api/internal/application/dto"
	"github.com/jhoicas/erp-api/internal/domain"
	"github.com/jhoicas/erp-api/internal/domain/category"
	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
)

// CategoryOptions opciones del caso de uso de categorías.
type CategoryOptions struct {
	// StrictLocking serializa las mutaciones estructurales (mutex en proceso + advisory lock en BD).
	StrictLocking bool
}

// CategoryUseCase es el único escritor de categorías: toda mutación pasa por la validación
// de la jerarquía dentro de una transacción. Las lecturas devuelven categorías hidratadas
// (nivel, ruta, hijos y cantidad de productos).
type CategoryUseCase struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	tx         CategoryTxRunner
	opts       CategoryOptions
	mu         sync.Mutex
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categories repository.CategoryRepository, products repository.ProductRepository, tx CategoryTxRunner, opts CategoryOptions) *CategoryUseCase {
	return &CategoryUseCase{categories: categories, products: products, tx: tx, opts: opts}
}

// ── Mutaciones ───────────────────────────────────────────────────────────────

// Create crea una categoría (raíz si ParentID es nil o vacío).
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest, createdBy string) (*dto.CategoryResponse, error) {
	code := category.NormalizeCode(in.Code)
	name := strings.TrimSpace(in.Name)
	parentID := deref(in.ParentID)
	if createdBy == "" {
		createdBy = "System"
	}

	var created *entity.Category
	err := uc.mutate(ctx, func(categories repository.CategoryRepository, _ repository.ProductRepository) error {
		if err := checkCategoryUnique(ctx, categories, code, name, ""); err != nil {
			return err
		}
		if parentID != "" {
			h, err := loadHierarchy(ctx, categories)
			if err != nil {
				return err
			}
			if err := h.ValidateMutation("", parentID); err != nil {
				return err
			}
		}
		now := time.Now()
		created = &entity.Category{
			ID:          uuid.New().String(),
			Code:        code,
			Name:        name,
			Description: strings.TrimSpace(in.Description),
			ParentID:    parentID,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
			CreatedBy:   createdBy,
		}
		return categories.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, created.ID)
}

// Update reemplaza código, nombre, descripción, padre y estado de una categoría activa.
// Desactivarla está sujeto a la misma regla que eliminarla.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	code := category.NormalizeCode(in.Code)
	name := strings.TrimSpace(in.Name)
	parentID := deref(in.ParentID)
	active := in.IsActive == nil || *in.IsActive

	var (
		updated  entity.Category
		snapshot *category.Hierarchy
	)
	err := uc.mutate(ctx, func(categories repository.CategoryRepository, products repository.ProductRepository) error {
		h, err := loadHierarchy(ctx, categories)
		if err != nil {
			return err
		}
		existing, ok := h.Get(id)
		if !ok {
			return domain.ErrNotFound
		}
		if err := checkCategoryUnique(ctx, categories, code, name, id); err != nil {
			return err
		}
		if parentID != "" {
			if err := h.ValidateMutation(id, parentID); err != nil {
				return err
			}
		}
		if !active {
			if err := ensureDeletable(ctx, h, products, id); err != nil {
				return err
			}
		}
		updated = *existing
		updated.Code = code
		updated.Name = name
		updated.Description = strings.TrimSpace(in.Description)
		updated.ParentID = parentID
		updated.IsActive = active
		updated.UpdatedAt = time.Now()
		snapshot = h
		return categories.Update(ctx, &updated)
	})
	if err != nil {
		return nil, err
	}
	if updated.IsActive {
		return uc.GetByID(ctx, id)
	}
	// Ya no es visible en las lecturas por defecto: se responde con la posición que tenía.
	resp := toCategoryResponse(&updated)
	if parent, ok := snapshot.Get(updated.ParentID); ok {
		resp.ParentName = parent.Name
	}
	if level, path, err := placement(snapshot, updated.ParentID, updated.Name); err == nil {
		resp.Level, resp.FullPath = level, path
	}
	return resp, nil
}

// Delete desactiva la categoría si no tiene hijos ni productos activos.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.mutate(ctx, func(categories repository.CategoryRepository, products repository.ProductRepository) error {
		h, err := loadHierarchy(ctx, categories)
		if err != nil {
			return err
		}
		if _, ok := h.Get(id); !ok {
			return domain.ErrNotFound
		}
		if err := ensureDeletable(ctx, h, products, id); err != nil {
			return err
		}
		return categories.SoftDelete(ctx, id)
	})
}

func (uc *CategoryUseCase) mutate(ctx context.Context, fn func(repository.CategoryRepository, repository.ProductRepository) error) error {
	if uc.opts.StrictLocking {
		uc.mu.Lock()
		defer uc.mu.Unlock()
	}
	return uc.tx.RunCategory(ctx, uc.opts.StrictLocking, fn)
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

// GetByID obtiene una categoría activa hidratada.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	h, err := loadHierarchy(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	c, ok := h.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	items, err := uc.hydrate(ctx, h, []*entity.Category{c})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// GetAll todas las categorías activas en orden de árbol.
func (uc *CategoryUseCase) GetAll(ctx context.Context) ([]dto.CategoryResponse, error) {
	h, err := loadHierarchy(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	return uc.hydrate(ctx, h, h.All())
}

// GetPaged listado paginado con filtros.
func (uc *CategoryUseCase) GetPaged(ctx context.Context, in dto.CategoryFilterRequest) (*dto.CategoryListResponse, error) {
	in.DefaultPage()
	filter := repository.CategoryFilter{
		Code:     strings.TrimSpace(in.Code),
		Name:     strings.TrimSpace(in.Name),
		Search:   strings.TrimSpace(in.Search),
		SortBy:   in.SortBy,
		SortDesc: in.SortDesc,
		Page:     repository.Page{Limit: in.PageSize, Offset: in.Offset()},
	}
	switch {
	case in.ParentID != "":
		filter.ParentID = &in.ParentID
	case in.RootsOnly:
		root := ""
		filter.ParentID = &root
	}
	if filter.SortBy == "" {
		filter.SortBy = repository.SortByName
	}
	var err error
	if filter.CreatedFrom, err = parseDate(in.CreatedFrom, false); err != nil {
		return nil, err
	}
	if filter.CreatedTo, err = parseDate(in.CreatedTo, true); err != nil {
		return nil, err
	}

	rows, total, err := uc.categories.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	h, err := loadHierarchy(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	items, err := uc.hydrate(ctx, h, rows)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, total)}, nil
}

// GetRoots categorías raíz ordenadas por nombre.
func (uc *CategoryUseCase) GetRoots(ctx context.Context) ([]dto.CategoryResponse, error) {
	h, err := loadHierarchy(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	return uc.hydrate(ctx, h, h.Roots())
}

// GetChildren hijos directos de parentID ordenados por nombre.
func (uc *CategoryUseCase) GetChildren(ctx context.Context, parentID string) ([]dto.CategoryResponse, error) {
	h, err := loadHierarchy(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	if _, ok := h.Get(parentID); !ok {
		return nil, domain.ErrNotFound
	}
	return uc.hydrate(ctx, h, h.Children(parentID))
}

// GetTree árbol desde las raíces (o desde los hijos de ParentID) limitado a MaxLevel niveles.
func (uc *CategoryUseCase) GetTree(ctx context.Context, in dto.CategoryTreeRequest) ([]dto.CategoryTreeNode, error) {
	h, err := loadHierarchy(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	tree, err := h.BuildTree(in.ParentID, in.MaxLevel)
	if err != nil {
		return nil, err
	}
	flat := category.Flatten(tree)
	ids := make([]string, 0, len(flat))
	for _, n := range flat {
		ids = append(ids, n.Category.ID)
	}
	counts, err := uc.countProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toTreeNodes(tree, counts), nil
}

// GetPath ancestros de la categoría, de la raíz a ella misma.
func (uc *CategoryUseCase) GetPath(ctx context.Context, id string) ([]dto.CategoryResponse, error) {
	h, err := loadHierarchy(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	path, err := h.AncestorPath(id)
	if err != nil {
		return nil, err
	}
	return uc.hydrate(ctx, h, path)
}

// GetFullPath ruta legible "Raíz > ... > Categoría".
func (uc *CategoryUseCase) GetFullPath(ctx context.Context, id string) (*dto.CategoryFullPathResponse, error) {
	h, err := loadHierarchy(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	path, err := h.FullPath(id)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryFullPathResponse{ID: id, FullPath: path}, nil
}

// CanDelete indica si la categoría se puede eliminar.
func (uc *CategoryUseCase) CanDelete(ctx context.Context, id string) (*dto.CategoryCanDeleteResponse, error) {
	h, err := loadHierarchy(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	if _, ok := h.Get(id); !ok {
		return nil, domain.ErrNotFound
	}
	out := &dto.CategoryCanDeleteResponse{ID: id, CanDelete: true}
	if err := ensureDeletable(ctx, h, uc.products, id); err != nil {
		var rv *domain.RuleViolation
		if !errors.As(err, &rv) {
			return nil, err
		}
		out.CanDelete = false
		out.Reason = rv.Message
	}
	return out, nil
}

// Statistics cantidad de productos, hijos y nivel de la categoría.
func (uc *CategoryUseCase) Statistics(ctx context.Context, id string) (*dto.CategoryStatisticsResponse, error) {
	h, err := loadHierarchy(ctx, uc.categories)
	if err != nil {
		return nil, err
	}
	level, err := h.Level(id)
	if err != nil {
		return nil, err
	}
	counts, err := uc.countProducts(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	return &dto.CategoryStatisticsResponse{
		ID:            id,
		ProductCount:  counts[id],
		ChildrenCount: h.ChildrenCount(id),
		Level:         level,
		HasChildren:   h.HasActiveChildren(id),
		HasProducts:   counts[id] > 0,
	}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func loadHierarchy(ctx context.Context, categories repository.CategoryRepository) (*category.Hierarchy, error) {
	list, err := categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return category.NewHierarchy(list), nil
}

func checkCategoryUnique(ctx context.Context, categories repository.CategoryRepository, code, name, excludeID string) error {
	exists, err := categories.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewRuleViolation(domain.RuleDuplicateCode, "ya existe una categoría con el código %q", code)
	}
	exists, err = categories.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewRuleViolation(domain.RuleDuplicateName, "ya existe una categoría con el nombre %q", name)
	}
	return nil
}

func ensureDeletable(ctx context.Context, h *category.Hierarchy, products repository.ProductRepository, id string) error {
	counts, err := products.CountActiveByCategory(ctx, []string{id})
	if err != nil {
		return err
	}
	hasChildren := h.HasActiveChildren(id)
	if category.CanDelete(hasChildren, counts[id]) {
		return nil
	}
	switch {
	case hasChildren && counts[id] > 0:
		return domain.NewRuleViolation(domain.RuleHasDependents,
			"no se puede eliminar la categoría: tiene %d subcategorías y %d productos activos", h.ChildrenCount(id), counts[id])
	case hasChildren:
		return domain.NewRuleViolation(domain.RuleHasDependents,
			"no se puede eliminar la categoría: tiene %d subcategorías activas", h.ChildrenCount(id))
	default:
		return domain.NewRuleViolation(domain.RuleHasDependents,
			"no se puede eliminar la categoría: tiene %d productos activos", counts[id])
	}
}

// placement nivel y ruta que tendría una categoría llamada name bajo parentID.
func placement(h *category.Hierarchy, parentID, name string) (int, string, error) {
	if parentID == "" {
		return 0, name, nil
	}
	level, err := h.Level(parentID)
	if err != nil {
		return 0, "", err
	}
	path, err := h.FullPath(parentID)
	if err != nil {
		return 0, "", err
	}
	return level + 1, path + category.PathSeparator + name, nil
}

func (uc *CategoryUseCase) countProducts(ctx context.Context, ids []string) (map[string]int, error) {
	if len(ids) == 0 {
		return map[string]int{}, nil
	}
	return uc.products.CountActiveByCategory(ctx, ids)
}

func (uc *CategoryUseCase) hydrate(ctx context.Context, h *category.Hierarchy, list []*entity.Category) ([]dto.CategoryResponse, error) {
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	counts, err := uc.countProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		path, err := h.AncestorPath(c.ID)
		if errors.Is(err, domain.ErrNotFound) {
			// Fila leída fuera de la instantánea (cambió entre ambas consultas).
			path = []*entity.Category{c}
		} else if err != nil {
			return nil, err
		}
		resp := toCategoryResponse(c)
		names := make([]string, len(path))
		for i, p := range path {
			names[i] = p.Name
		}
		resp.Level = len(path) - 1
		resp.FullPath = strings.Join(names, category.PathSeparator)
		if len(path) > 1 {
			resp.ParentName = path[len(path)-2].Name
		}
		resp.ChildrenCount = h.ChildrenCount(c.ID)
		resp.HasChildren = resp.ChildrenCount > 0
		resp.ProductCount = counts[c.ID]
		items = append(items, *resp)
	}
	return items, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    ptrOrNil(c.ParentID),
		IsActive:    c.IsActive,
		FullPath:    c.Name,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		CreatedBy:   c.CreatedBy,
	}
}

func toTreeNodes(nodes []category.TreeNode, counts map[string]int) []dto.CategoryTreeNode {
	out := make([]dto.CategoryTreeNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, dto.CategoryTreeNode{
			ID:           n.Category.ID,
			Code:         n.Category.Code,
			Name:         n.Category.Name,
			Description:  n.Category.Description,
			ParentID:     ptrOrNil(n.Category.ParentID),
			Level:        n.Level,
			HasChildren:  n.HasChildren,
			ProductCount: counts[n.Category.ID],
			Children:     toTreeNodes(n.Children, counts),
		})
	}
	return out
}
