package repository

import (
	"context"

	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BranchRepository define el puerto de lectura de sucursales.
type BranchRepository interface {
	List(ctx context.Context, appOnly bool) ([]entity.Branch, error)
	GetByID(ctx context.Context, id int) (*entity.Branch, error)
}

// BranchStockRepository define el puerto de existencias por sucursal. Cada sucursal vive
// en su propia partición física; la implementación resuelve la partición por ID.
// Usado dentro de transacciones para garantizar consistencia.
type BranchStockRepository interface {
	// Get devuelve la existencia (cero si la sucursal no tiene registro del producto).
	Get(ctx context.Context, branchID int, code string) (*entity.BranchStock, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE) hasta el fin de la tx.
	GetForUpdate(ctx context.Context, branchID int, code string) (*entity.BranchStock, error)
	// SetSellable escribe la existencia de piso de venta de una fila ya bloqueada.
	SetSellable(ctx context.Context, branchID int, code string, qty decimal.Decimal) error
	// Update escribe piso de venta, cajas y estado activo.
	Update(ctx context.Context, stock *entity.BranchStock) error
	// Provision crea el registro inicial (inactivo, en cero) de un producto en una sucursal.
	Provision(ctx context.Context, branchID int, code string) error
}

// BranchDirectory conoce el conjunto fijo de sucursales configurado al arranque.
type BranchDirectory interface {
	Contains(branchID int) bool
	IDs() []int
}
