package category

import (
	"errors"

	"github.com/jhoicas/erp-api/internal/domain"
)

// ValidateMutation comprueba si categoryID (vacío al crear) puede colgar de proposedParentID.
// Devuelve nil, un *domain.RuleViolation con la regla incumplida o ErrHierarchyIntegrity.
// Orden: propio padre, referencia cíclica, padre inválido, profundidad máxima.
func (h *Hierarchy) ValidateMutation(categoryID, proposedParentID string) error {
	if proposedParentID == "" {
		return nil
	}
	if categoryID != "" && proposedParentID == categoryID {
		return domain.NewRuleViolation(domain.RuleSelfParent,
			"una categoría no puede ser su propia categoría padre")
	}
	if categoryID != "" {
		cyclic, err := h.IsDescendantOf(proposedParentID, categoryID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if cyclic {
			return domain.NewRuleViolation(domain.RuleCyclicalReference,
				"referencia cíclica: la categoría padre propuesta es descendiente de la categoría")
		}
	}
	if _, ok := h.Get(proposedParentID); !ok {
		return domain.NewRuleViolation(domain.RuleInvalidParent,
			"la categoría padre no existe o está inactiva")
	}
	parentLevel, err := h.Level(proposedParentID)
	if err != nil {
		return err
	}
	if parentLevel >= MaxLevel {
		return domain.NewRuleViolation(domain.RuleMaxDepthExceeded,
			"se alcanzó la profundidad máxima de %d niveles", MaxDepth)
	}
	if categoryID == "" {
		return nil
	}
	if _, ok := h.Get(categoryID); !ok {
		return nil
	}
	height, err := h.subtreeHeight(categoryID)
	if err != nil {
		return err
	}
	if parentLevel+1+height > MaxLevel {
		return domain.NewRuleViolation(domain.RuleMaxDepthExceeded,
			"mover la categoría dejaría descendientes por debajo del nivel %d", MaxLevel)
	}
	return nil
}
