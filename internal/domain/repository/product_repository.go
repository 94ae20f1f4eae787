package repository

import (
	"context"

	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
)

// StoreInventoryItem producto visible en tienda con la existencia de la sucursal consultada.
type StoreInventoryItem struct {
	Product   entity.Product
	Available int64
}

// AdminInventoryItem producto con existencias totales (piezas + cajas) por sucursal.
type AdminInventoryItem struct {
	Product entity.Product
	Totals  map[int]int64 // branchID -> piezas totales
}

// ProductRepository define el puerto de persistencia para productos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// Update modifica los campos editables; la Clave es inmutable.
	Update(ctx context.Context, product *entity.Product) error
	// NextCode devuelve max(Clave numérica) + 1.
	NextCode(ctx context.Context) (int64, error)
	// SearchStore lista productos activos con existencia > 0 en branchID (búsqueda por clave, descripción o tipo).
	SearchStore(ctx context.Context, branchID int, query string, limit, offset int) ([]StoreInventoryItem, error)
	// SearchAdmin lista todos los productos (búsqueda también por códigos de barras) con existencias totales.
	SearchAdmin(ctx context.Context, query string, limit, offset int) ([]AdminInventoryItem, error)
}

// ProductTypeRepository define el puerto para el catálogo de tipos de producto.
type ProductTypeRepository interface {
	List(ctx context.Context) ([]entity.ProductType, error)
	IncrementConsecutive(ctx context.Context, description string) error
}

// SettingsRepository define el puerto para los contadores globales (tabla config).
type SettingsRepository interface {
	// NextBarcode devuelve el folio de código de barras sugerido.
	NextBarcode(ctx context.Context) (string, error)
	// IncrementBarcode avanza el folio solo si expected sigue siendo el sugerido.
	IncrementBarcode(ctx context.Context, expected string) error
}
