package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-api/internal/domain"
	"github.com/jhoicas/erp-api/internal/domain/category"
	"github.com/jhoicas/erp-api/internal/domain/entity"
)

func TestValidateMutation_SinPadre_Pasa(t *testing.T) {
	assert.NoError(t, abc().ValidateMutation("", ""))
	assert.NoError(t, abc().ValidateMutation("C", ""))
}

func TestValidateMutation_PropioPadre(t *testing.T) {
	requireRule(t, abc().ValidateMutation("B", "B"), domain.RuleSelfParent)
}

func TestValidateMutation_ReferenciaCiclica(t *testing.T) {
	// Mover A debajo de C: C es descendiente de A.
	requireRule(t, abc().ValidateMutation("A", "C"), domain.RuleCyclicalReference)
	requireRule(t, abc().ValidateMutation("A", "B"), domain.RuleCyclicalReference)
}

func TestValidateMutation_PadreInvalido(t *testing.T) {
	inactive := cat("X", "X", "")
	inactive.IsActive = false
	h := category.NewHierarchy([]*entity.Category{cat("A", "A", ""), inactive})

	requireRule(t, h.ValidateMutation("", "NOPE"), domain.RuleInvalidParent)
	requireRule(t, h.ValidateMutation("", "X"), domain.RuleInvalidParent)
	requireRule(t, h.ValidateMutation("A", "X"), domain.RuleInvalidParent)
}

func TestValidateMutation_LimiteDeProfundidad(t *testing.T) {
	h := category.NewHierarchy(chain(5)) // L0..L4

	assert.NoError(t, h.ValidateMutation("", "L3"), "bajo un padre de nivel 3 se permite (nivel 4)")
	requireRule(t, h.ValidateMutation("", "L4"), domain.RuleMaxDepthExceeded)
}

func TestValidateMutation_MoverSubarbolExcedeProfundidad(t *testing.T) {
	// L0..L3 más una rama S > T de altura 1 colgando de la raíz.
	cats := append(chain(4), cat("S", "S", "L0"), cat("T", "T", "S"))
	h := category.NewHierarchy(cats)

	// S bajo L2 → S nivel 3, T nivel 4: permitido.
	assert.NoError(t, h.ValidateMutation("S", "L2"))
	// S bajo L3 → S nivel 4, T nivel 5: rechazado.
	requireRule(t, h.ValidateMutation("S", "L3"), domain.RuleMaxDepthExceeded)
	// T solo (hoja) bajo L3 sí entra.
	assert.NoError(t, h.ValidateMutation("T", "L3"))
}

func TestValidateMutation_OrdenDeReglas(t *testing.T) {
	// El propio padre se reporta antes que cualquier otra regla.
	h := category.NewHierarchy(chain(5))
	requireRule(t, h.ValidateMutation("L4", "L4"), domain.RuleSelfParent)
	// Ciclo antes que profundidad: L0 bajo L4 es ciclo y también excede profundidad.
	requireRule(t, h.ValidateMutation("L0", "L4"), domain.RuleCyclicalReference)
}

func TestValidateMutation_CategoriaNoIndexada(t *testing.T) {
	// Una categoría que aún no está en la instantánea (p. ej. creación) no rompe la validación.
	h := abc()
	require.NoError(t, h.ValidateMutation("NEW", "B"))
}
