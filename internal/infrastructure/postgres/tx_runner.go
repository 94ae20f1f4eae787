package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/mayoreo-api/internal/application/cart"
	"github.com/jhoicas/mayoreo-api/internal/application/catalog"
	"github.com/jhoicas/mayoreo-api/internal/application/inventory"
	"github.com/jhoicas/mayoreo-api/internal/application/order"
	"github.com/jhoicas/mayoreo-api/internal/application/permission"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner  = (*TxRunner)(nil)
	_ cart.TxRunner       = (*TxRunner)(nil)
	_ order.TxRunner      = (*TxRunner)(nil)
	_ catalog.TxRunner    = (*TxRunner)(nil)
	_ permission.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool  *pgxpool.Pool
	parts *BranchPartitions
}

// NewTxRunner construye el runner con el pool y las particiones de sucursal.
func NewTxRunner(pool *pgxpool.Pool, parts *BranchPartitions) *TxRunner {
	return &TxRunner{pool: pool, parts: parts}
}

// run inicia una transacción, ejecuta fn y hace Commit; cualquier error (o panic) hace Rollback.
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

// RunStock transacción con el repositorio de existencias.
func (r *TxRunner) RunStock(ctx context.Context, fn func(stockRepo repository.BranchStockRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewBranchStockRepository(tx, r.parts))
	})
}

// RunCart transacción para mutaciones del carrito.
func (r *TxRunner) RunCart(ctx context.Context, fn func(
	cartRepo repository.CartRepository,
	stockRepo repository.BranchStockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCartRepository(tx, r.parts), NewBranchStockRepository(tx, r.parts), NewProductRepository(tx, r.parts))
	})
}

// RunCheckout transacción del cierre de pedido.
func (r *TxRunner) RunCheckout(ctx context.Context, fn func(
	cartRepo repository.CartRepository,
	stockRepo repository.BranchStockRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCartRepository(tx, r.parts), NewBranchStockRepository(tx, r.parts), NewOrderRepository(tx))
	})
}

// RunCatalog transacción para alta y edición de productos.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	stockRepo repository.BranchStockRepository,
	typeRepo repository.ProductTypeRepository,
	settingsRepo repository.SettingsRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewProductRepository(tx, r.parts),
			NewBranchStockRepository(tx, r.parts),
			NewProductTypeRepository(tx),
			NewSettingsRepository(tx),
		)
	})
}

// RunUsers transacción para administración de usuarios y permisos.
func (r *TxRunner) RunUsers(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	permRepo repository.PermissionRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewPermissionRepository(tx))
	})
}
