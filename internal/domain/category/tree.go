package category

import (
	"github.com/jhoicas/erp-api/internal/domain"
	"github.com/jhoicas/erp-api/internal/domain/entity"
)

// TreeNode nodo del árbol construido por BuildTree. Es una copia: modificarlo no afecta la jerarquía.
type TreeNode struct {
	Category    entity.Category
	Level       int
	HasChildren bool // refleja los hijos reales aunque maxDepth los haya recortado
	Children    []TreeNode
}

// BuildTree arma el bosque a partir de los hijos de rootID (o de las raíces si rootID es vacío).
// maxDepth nil no limita; con maxDepth = n se expanden n niveles por debajo de los nodos superiores.
func (h *Hierarchy) BuildTree(rootID string, maxDepth *int) ([]TreeNode, error) {
	baseLevel := 0
	if rootID != "" {
		level, err := h.Level(rootID)
		if err != nil {
			return nil, err
		}
		baseLevel = level + 1
	}
	remaining := -1
	if maxDepth != nil {
		remaining = *maxDepth
		if remaining < 0 {
			remaining = 0
		}
	}
	visited := make(map[string]bool)
	if rootID != "" {
		visited[rootID] = true
	}
	return h.buildLevel(rootID, baseLevel, remaining, visited)
}

func (h *Hierarchy) buildLevel(parentID string, level, remaining int, visited map[string]bool) ([]TreeNode, error) {
	ids := h.children[parentID]
	nodes := make([]TreeNode, 0, len(ids))
	for _, id := range ids {
		if visited[id] || level > MaxDepth {
			return nil, domain.ErrHierarchyIntegrity
		}
		visited[id] = true
		c := h.nodes[id]
		node := TreeNode{
			Category:    *c,
			Level:       level,
			HasChildren: h.HasActiveChildren(id),
		}
		if remaining != 0 && node.HasChildren {
			children, err := h.buildLevel(id, level+1, remaining-1, visited)
			if err != nil {
				return nil, err
			}
			node.Children = children
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Flatten recorre el árbol en profundidad y devuelve los nodos en orden.
func Flatten(nodes []TreeNode) []TreeNode {
	var out []TreeNode
	for _, n := range nodes {
		out = append(out, n)
		out = append(out, Flatten(n.Children)...)
	}
	return out
}
