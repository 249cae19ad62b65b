package repository

import (
	"context"
	"time"

	"github.com/jhoicas/erp-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// GetBy* devuelven también usuarios inactivos: login y refresh necesitan distinguirlos.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	ExistsByUsername(ctx context.Context, username, excludeID string) (bool, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateRole(ctx context.Context, userID, roleID string) error
	UpdateRefreshToken(ctx context.Context, userID, token string, expiresAt *time.Time) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	List(ctx context.Context, filter UserFilter) ([]*entity.User, int, error)
	ListByRole(ctx context.Context, roleID string) ([]*entity.User, error)
	SoftDelete(ctx context.Context, id string) error
}
