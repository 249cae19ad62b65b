package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-api/internal/domain"
	"github.com/jhoicas/erp-api/internal/domain/category"
	"github.com/jhoicas/erp-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func cat(id, name, parentID string) *entity.Category {
	return &entity.Category{ID: id, Code: id, Name: name, ParentID: parentID, IsActive: true}
}

// chain crea una cadena L0 > L1 > ... > L{n-1}.
func chain(n int) []*entity.Category {
	ids := []string{"L0", "L1", "L2", "L3", "L4", "L5", "L6"}
	out := make([]*entity.Category, 0, n)
	for i := 0; i < n; i++ {
		parent := ""
		if i > 0 {
			parent = ids[i-1]
		}
		out = append(out, cat(ids[i], ids[i], parent))
	}
	return out
}

func abc() *category.Hierarchy {
	return category.NewHierarchy([]*entity.Category{
		cat("A", "A", ""),
		cat("B", "B", "A"),
		cat("C", "C", "B"),
	})
}

func requireRule(t *testing.T, err error, rule string) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrBusinessRule)
	got, ok := domain.RuleOf(err)
	require.True(t, ok)
	assert.Equal(t, rule, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ancestros, nivel y ruta
// ──────────────────────────────────────────────────────────────────────────────

func TestHierarchy_NivelesYRutas(t *testing.T) {
	h := abc()

	cases := []struct {
		id    string
		level int
		path  string
	}{
		{"A", 0, "A"},
		{"B", 1, "A > B"},
		{"C", 2, "A > B > C"},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			level, err := h.Level(tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.level, level)

			path, err := h.FullPath(tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.path, path)

			ancestors, err := h.AncestorPath(tc.id)
			require.NoError(t, err)
			assert.Equal(t, level, len(ancestors)-1, "Level debe ser len(AncestorPath)-1")
			assert.Equal(t, "A", ancestors[0].ID, "la ruta empieza en la raíz")
			assert.Equal(t, tc.id, ancestors[len(ancestors)-1].ID, "la ruta termina en la categoría")
		})
	}
}

func TestHierarchy_FullPathIdempotente(t *testing.T) {
	h := abc()
	first, err := h.FullPath("C")
	require.NoError(t, err)
	second, err := h.FullPath("C")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHierarchy_AncestorPath_NoExiste(t *testing.T) {
	_, err := abc().AncestorPath("Z")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHierarchy_InactivasExcluidas(t *testing.T) {
	inactive := cat("X", "X", "")
	inactive.IsActive = false
	h := category.NewHierarchy([]*entity.Category{cat("A", "A", ""), inactive})

	_, ok := h.Get("X")
	assert.False(t, ok)
	assert.Equal(t, 1, h.Len())
}

func TestHierarchy_CicloCorrupto_RetornaIntegridad(t *testing.T) {
	// Ciclo introducido por fuera del motor (edición directa de la tabla).
	h := category.NewHierarchy([]*entity.Category{
		cat("A", "A", "C"),
		cat("B", "B", "A"),
		cat("C", "C", "B"),
	})

	_, err := h.AncestorPath("A")
	assert.ErrorIs(t, err, domain.ErrHierarchyIntegrity)

	_, err = h.FullPath("B")
	assert.ErrorIs(t, err, domain.ErrHierarchyIntegrity)

	err = h.ValidateMutation("", "C")
	assert.ErrorIs(t, err, domain.ErrHierarchyIntegrity)

	assert.Len(t, h.All(), 3, "All incluye los miembros del ciclo sin colgarse")
}

func TestHierarchy_ProfundidadImposible_RetornaIntegridad(t *testing.T) {
	h := category.NewHierarchy(chain(7))
	_, err := h.AncestorPath("L6")
	assert.ErrorIs(t, err, domain.ErrHierarchyIntegrity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Descendencia e hijos
// ──────────────────────────────────────────────────────────────────────────────

func TestHierarchy_IsDescendantOf(t *testing.T) {
	h := abc()

	yes, err := h.IsDescendantOf("C", "A")
	require.NoError(t, err)
	assert.True(t, yes, "C desciende de A")

	no, err := h.IsDescendantOf("A", "C")
	require.NoError(t, err)
	assert.False(t, no, "A no desciende de C")

	self, err := h.IsDescendantOf("B", "B")
	require.NoError(t, err)
	assert.False(t, self, "un nodo no es descendiente de sí mismo")
}

func TestHierarchy_PadreNuncaDescendienteDelHijo(t *testing.T) {
	h := category.NewHierarchy(append(chain(5), cat("S", "S", "L1"), cat("T", "T", "S")))
	for _, c := range h.All() {
		if c.ParentID == "" {
			continue
		}
		got, err := h.IsDescendantOf(c.ParentID, c.ID)
		require.NoError(t, err)
		assert.False(t, got, "el padre de %s no puede descender de %s", c.ID, c.ID)
	}
}

func TestHierarchy_HijosOrdenadosPorNombre(t *testing.T) {
	h := category.NewHierarchy([]*entity.Category{
		cat("R", "Raíz", ""),
		cat("3", "Zapatos", "R"),
		cat("1", "Abrigos", "R"),
		cat("2", "Medias", "R"),
	})
	children := h.Children("R")
	require.Len(t, children, 3)
	assert.Equal(t, []string{"Abrigos", "Medias", "Zapatos"},
		[]string{children[0].Name, children[1].Name, children[2].Name})
	assert.True(t, h.HasActiveChildren("R"))
	assert.False(t, h.HasActiveChildren("1"))
	assert.Equal(t, 3, h.ChildrenCount("R"))
}

func TestHierarchy_OrdenAlfabeticoConAcentosYMayusculas(t *testing.T) {
	h := category.NewHierarchy([]*entity.Category{
		cat("z", "Zapatos", ""),
		cat("b", "bebidas", ""),
		cat("a", "Árboles", ""),
	})
	names := func(list []*entity.Category) []string {
		out := make([]string, 0, len(list))
		for _, c := range list {
			out = append(out, c.Name)
		}
		return out
	}
	want := []string{"Árboles", "bebidas", "Zapatos"}
	assert.Equal(t, want, names(h.Roots()))
	assert.Equal(t, want, names(h.All()))
}

func TestHierarchy_HuerfanasOrdenadasConCollation(t *testing.T) {
	h := category.NewHierarchy([]*entity.Category{
		cat("z", "zanahoria", "fuera"),
		cat("e", "Éxito", "fuera"),
		cat("m", "Manzana", "fuera"),
	})
	all := h.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Éxito", "Manzana", "zanahoria"},
		[]string{all[0].Name, all[1].Name, all[2].Name})
}

func TestHierarchy_Descendants(t *testing.T) {
	h := category.NewHierarchy([]*entity.Category{
		cat("A", "A", ""),
		cat("B", "B", "A"),
		cat("C", "C", "B"),
		cat("D", "D", "A"),
	})
	desc, err := h.Descendants("A")
	require.NoError(t, err)
	ids := make([]string, 0, len(desc))
	for _, c := range desc {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"B", "C", "D"}, ids)
}

func TestCanDelete(t *testing.T) {
	assert.True(t, category.CanDelete(false, 0))
	assert.False(t, category.CanDelete(true, 0))
	assert.False(t, category.CanDelete(false, 2))
}
