package inventory

import (
	"context"

	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
type TxRunner interface {
	RunStock(ctx context.Context, fn func(stockRepo repository.BranchStockRepository) error) error
}
