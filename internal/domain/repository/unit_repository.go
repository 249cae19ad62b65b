package repository

import (
	"context"

	"github.com/jhoicas/erp-api/internal/domain/entity"
)

// UnitRepository define el puerto de persistencia para Unit (DIP).
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.Unit) error
	GetByID(ctx context.Context, id string) (*entity.Unit, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	ExistsBySymbol(ctx context.Context, symbol, excludeID string) (bool, error)
	Update(ctx context.Context, unit *entity.Unit) error
	List(ctx context.Context, filter UnitFilter) ([]*entity.Unit, int, error)
	ListActive(ctx context.Context) ([]*entity.Unit, error)
	SoftDelete(ctx context.Context, id string) error
}
