package repository

import (
	"context"

	"github.com/jhoicas/erp-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// Salvo que se indique, todas las lecturas excluyen las categorías inactivas.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// ExistsByCode / ExistsByName comparan sin distinguir mayúsculas; excludeID vacío no excluye nada.
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Update(ctx context.Context, category *entity.Category) error
	// ListActive devuelve todas las categorías activas (insumo de la jerarquía).
	ListActive(ctx context.Context) ([]*entity.Category, error)
	ListByParent(ctx context.Context, parentID string) ([]*entity.Category, error)
	List(ctx context.Context, filter CategoryFilter) ([]*entity.Category, int, error)
	SoftDelete(ctx context.Context, id string) error
}
