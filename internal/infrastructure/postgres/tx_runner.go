package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/erp-api/internal/application/usecase"
	"github.com/jhoicas/erp-api/internal/domain/repository"
)

// Ensure TxRunner implements usecase.CategoryTxRunner and usecase.StockTxRunner.
var (
	_ usecase.CategoryTxRunner = (*TxRunner)(nil)
	_ usecase.StockTxRunner    = (*TxRunner)(nil)
)

// categoryHierarchyLockKey clave del advisory lock que serializa las mutaciones de la jerarquía.
const categoryHierarchyLockKey int64 = 0x43415447 // "CATG"

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCategory ejecuta fn con repos atados a la tx. Con strict toma pg_advisory_xact_lock antes de
// leer el árbol, de modo que dos réplicas no validen sobre la misma instantánea.
func (r *TxRunner) RunCategory(ctx context.Context, strict bool, fn func(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		if strict {
			if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, categoryHierarchyLockKey); err != nil {
				return fmt.Errorf("lock category hierarchy: %w", err)
			}
		}
		return fn(NewCategoryRepository(tx), NewProductRepository(tx))
	})
}

// RunStock ejecuta fn con repos de productos y movimientos atados a la tx.
func (r *TxRunner) RunStock(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewProductRepository(tx), NewStockMovementRepository(tx))
	})
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
