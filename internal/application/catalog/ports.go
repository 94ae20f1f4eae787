package catalog

import (
	"context"

	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
)

// TxRunner ejecuta el alta y la edición de productos en una transacción.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		stockRepo repository.BranchStockRepository,
		typeRepo repository.ProductTypeRepository,
		settingsRepo repository.SettingsRepository,
	) error) error
}
