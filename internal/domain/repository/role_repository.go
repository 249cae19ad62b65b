package repository

import (
	"context"

	"github.com/jhoicas/erp-api/internal/domain/entity"
)

// RoleRepository define el puerto de persistencia para Role (DIP).
type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	GetByID(ctx context.Context, id string) (*entity.Role, error)
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Update(ctx context.Context, role *entity.Role) error
	List(ctx context.Context, page Page) ([]*entity.Role, int, error)
	ListActive(ctx context.Context) ([]*entity.Role, error)
	CountActiveUsers(ctx context.Context, roleIDs []string) (map[string]int, error)
	SoftDelete(ctx context.Context, id string) error
}
