// Package category contiene el motor de la jerarquía de categorías: consultas de
// ancestros, nivel, ruta y árbol, y la validación de mutaciones contra las
// invariantes del bosque (sin ciclos, máximo 5 niveles, padre activo).
//
// Todo se resuelve sobre un arena indexado por ID construido a partir de las
// categorías activas; nunca se siguen punteros entre entidades ni se mutan.
package category

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/erp-api/internal/domain"
	"github.com/jhoicas/erp-api/internal/domain/entity"
)

const (
	// MaxDepth número máximo de niveles del árbol.
	MaxDepth = 5
	// MaxLevel nivel más profundo permitido (raíz = 0).
	MaxLevel = MaxDepth - 1
	// PathSeparator separador de FullPath.
	PathSeparator = " > "
)

// Hierarchy es una instantánea de solo lectura de las categorías activas.
type Hierarchy struct {
	nodes    map[string]*entity.Category
	children map[string][]string // parentID -> hijos ordenados por Name; "" son las raíces
}

// NewHierarchy indexa las categorías recibidas. Las inactivas se ignoran.
func NewHierarchy(categories []*entity.Category) *Hierarchy {
	h := &Hierarchy{
		nodes:    make(map[string]*entity.Category, len(categories)),
		children: make(map[string][]string),
	}
	for _, c := range categories {
		if c == nil || !c.IsActive {
			continue
		}
		h.nodes[c.ID] = c
	}
	for id, c := range h.nodes {
		h.children[c.ParentID] = append(h.children[c.ParentID], id)
	}
	less := byName()
	for parent := range h.children {
		ids := h.children[parent]
		sort.Slice(ids, func(i, j int) bool { return less(h.nodes[ids[i]], h.nodes[ids[j]]) })
	}
	return h
}

// byName ordena por Name con collation española (acentos y mayúsculas no
// alteran el orden alfabético) y desempata por ID. El Collator no es seguro
// para uso concurrente: cada llamada crea el suyo.
func byName() func(a, b *entity.Category) bool {
	col := collate.New(language.Spanish)
	return func(a, b *entity.Category) bool {
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	}
}

// Len cantidad de categorías activas indexadas.
func (h *Hierarchy) Len() int { return len(h.nodes) }

// Get resuelve una categoría activa por ID.
func (h *Hierarchy) Get(id string) (*entity.Category, bool) {
	c, ok := h.nodes[id]
	return c, ok
}

// All devuelve las categorías en orden de recorrido en profundidad (raíces por nombre).
func (h *Hierarchy) All() []*entity.Category {
	out := make([]*entity.Category, 0, len(h.nodes))
	seen := make(map[string]bool, len(h.nodes))
	var walk func(parentID string)
	walk = func(parentID string) {
		for _, id := range h.children[parentID] {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, h.nodes[id])
			walk(id)
		}
	}
	walk("")
	if len(out) == len(h.nodes) {
		return out
	}
	// Huérfanas (padre fuera de la instantánea) y miembros de ciclos: al final, por nombre.
	rest := make([]*entity.Category, 0, len(h.nodes)-len(out))
	for id, c := range h.nodes {
		if !seen[id] {
			rest = append(rest, c)
		}
	}
	less := byName()
	sort.Slice(rest, func(i, j int) bool { return less(rest[i], rest[j]) })
	return append(out, rest...)
}

// AncestorPath devuelve la cadena raíz → categoría (inclusive).
// Corta con ErrHierarchyIntegrity si detecta un ciclo o una profundidad imposible.
func (h *Hierarchy) AncestorPath(id string) ([]*entity.Category, error) {
	current, ok := h.nodes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	path := make([]*entity.Category, 0, MaxDepth)
	visited := make(map[string]bool, MaxDepth)
	for current != nil {
		if visited[current.ID] || len(path) > MaxDepth {
			return nil, domain.ErrHierarchyIntegrity
		}
		visited[current.ID] = true
		path = append(path, current)
		if current.ParentID == "" {
			break
		}
		// Un padre fuera de la instantánea (inactivo o inexistente) cierra la cadena.
		current = h.nodes[current.ParentID]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// Level distancia a la raíz (raíz = 0).
func (h *Hierarchy) Level(id string) (int, error) {
	path, err := h.AncestorPath(id)
	if err != nil {
		return 0, err
	}
	return len(path) - 1, nil
}

// FullPath nombres de la raíz a la categoría separados por " > ".
func (h *Hierarchy) FullPath(id string) (string, error) {
	path, err := h.AncestorPath(id)
	if err != nil {
		return "", err
	}
	names := make([]string, len(path))
	for i, c := range path {
		names[i] = c.Name
	}
	return strings.Join(names, PathSeparator), nil
}

// IsDescendantOf indica si ancestorID aparece en la cadena de padres de nodeID.
// Un nodo no es descendiente de sí mismo.
func (h *Hierarchy) IsDescendantOf(nodeID, ancestorID string) (bool, error) {
	path, err := h.AncestorPath(nodeID)
	if err != nil {
		return false, err
	}
	for _, c := range path[:len(path)-1] {
		if c.ID == ancestorID {
			return true, nil
		}
	}
	return false, nil
}

// Children hijos activos directos ordenados por Name. Con parentID vacío devuelve las raíces.
func (h *Hierarchy) Children(parentID string) []*entity.Category {
	ids := h.children[parentID]
	out := make([]*entity.Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, h.nodes[id])
	}
	return out
}

// Roots categorías sin padre.
func (h *Hierarchy) Roots() []*entity.Category {
	return h.Children("")
}

// ChildrenCount cantidad de hijos activos directos.
func (h *Hierarchy) ChildrenCount(id string) int {
	if id == "" {
		return 0
	}
	return len(h.children[id])
}

// HasActiveChildren indica si la categoría tiene al menos un hijo activo.
func (h *Hierarchy) HasActiveChildren(id string) bool {
	return h.ChildrenCount(id) > 0
}

// Descendants todos los descendientes activos, en profundidad y ordenados por Name en cada nivel.
func (h *Hierarchy) Descendants(id string) ([]*entity.Category, error) {
	if _, ok := h.nodes[id]; !ok {
		return nil, domain.ErrNotFound
	}
	var out []*entity.Category
	visited := map[string]bool{id: true}
	var walk func(parentID string, depth int) error
	walk = func(parentID string, depth int) error {
		if depth > MaxDepth {
			return domain.ErrHierarchyIntegrity
		}
		for _, childID := range h.children[parentID] {
			if visited[childID] {
				return domain.ErrHierarchyIntegrity
			}
			visited[childID] = true
			out = append(out, h.nodes[childID])
			if err := walk(childID, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(id, 1); err != nil {
		return nil, err
	}
	return out, nil
}

// subtreeHeight niveles por debajo de id (0 si es hoja).
func (h *Hierarchy) subtreeHeight(id string) (int, error) {
	visited := map[string]bool{id: true}
	var height func(nodeID string, depth int) (int, error)
	height = func(nodeID string, depth int) (int, error) {
		if depth > MaxDepth {
			return 0, domain.ErrHierarchyIntegrity
		}
		best := 0
		for _, childID := range h.children[nodeID] {
			if visited[childID] {
				return 0, domain.ErrHierarchyIntegrity
			}
			visited[childID] = true
			sub, err := height(childID, depth+1)
			if err != nil {
				return 0, err
			}
			if sub+1 > best {
				best = sub + 1
			}
		}
		return best, nil
	}
	return height(id, 0)
}

// CanDelete una categoría se puede borrar si no tiene hijos ni productos activos.
func CanDelete(hasActiveChildren bool, activeProductCount int) bool {
	return !hasActiveChildren && activeProductCount == 0
}
