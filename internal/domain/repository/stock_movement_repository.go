package repository

import (
	"context"

	"github.com/jhoicas/erp-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para movimientos de stock (DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error)
}
