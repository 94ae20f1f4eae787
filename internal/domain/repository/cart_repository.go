package repository

import (
	"context"

	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
)

// CartRepository define el puerto de persistencia del carrito (clave: cliente + producto).
type CartRepository interface {
	// Lock serializa las mutaciones del carrito de un cliente hasta el fin de la tx
	// (también cuando el carrito está vacío).
	Lock(ctx context.Context, clientID string) error
	Lines(ctx context.Context, clientID string) ([]entity.CartLine, error)
	// Items devuelve las líneas enriquecidas con datos de producto y existencia de su sucursal.
	Items(ctx context.Context, clientID string) ([]entity.CartItemView, error)
	Upsert(ctx context.Context, line *entity.CartLine) error
	Remove(ctx context.Context, clientID string, productID int64) error
	Clear(ctx context.Context, clientID string) error
	Count(ctx context.Context, clientID string) (int64, error)
}
