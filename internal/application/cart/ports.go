package cart

import (
	"context"

	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
)

// TxRunner ejecuta las mutaciones del carrito en una transacción con repositorios atados a ella.
type TxRunner interface {
	RunCart(ctx context.Context, fn func(
		cartRepo repository.CartRepository,
		stockRepo repository.BranchStockRepository,
		productRepo repository.ProductRepository,
	) error) error
}
