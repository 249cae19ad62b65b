package postgres

import (
	"context"

	"github.com/jhoicas/erp-api/internal/domain/entity"
	"github.com/jhoicas/erp-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo historial de movimientos de stock (solo inserción).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create registra un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, movement_type, quantity, unit_price, total_amount,
			document_type, document_id, description, movement_date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.MovementType, m.Quantity, m.UnitPrice, m.TotalAmount,
		m.DocumentType, m.DocumentID, m.Description, m.MovementDate, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return writeError("insert stock movement", err)
	}
	return nil
}

// ListByProduct últimos movimientos del producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, movement_type, quantity, unit_price, total_amount,
			document_type, document_id, description, movement_date, created_at, created_by
		FROM stock_movements WHERE product_id = $1
		ORDER BY movement_date DESC LIMIT $2`, productID, limit)
	if err != nil {
		return nil, readError("list stock movements", err)
	}
	defer rows.Close()
	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.MovementType, &m.Quantity, &m.UnitPrice, &m.TotalAmount,
			&m.DocumentType, &m.DocumentID, &m.Description, &m.MovementDate, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, readError("scan stock movement", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
