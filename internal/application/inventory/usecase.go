package inventory

import (
	"context"

	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UseCase existencias por sucursal: lectura y descuento protegido.
type UseCase struct {
	txRunner    TxRunner
	stockRepo   repository.BranchStockRepository
	productRepo repository.ProductRepository
	branches    repository.BranchDirectory
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	stockRepo repository.BranchStockRepository,
	productRepo repository.ProductRepository,
	branches repository.BranchDirectory,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		stockRepo:   stockRepo,
		productRepo: productRepo,
		branches:    branches,
	}
}

// GetAvailable devuelve la existencia vendible (piso de venta) del producto en la sucursal.
// Una sucursal sin registro del producto tiene 0.
func (uc *UseCase) GetAvailable(ctx context.Context, branchID int, code string) (decimal.Decimal, error) {
	if !uc.branches.Contains(branchID) {
		return decimal.Zero, domain.ErrUnknownBranch
	}
	return AvailableInTx(ctx, uc.stockRepo, branchID, code)
}

// AvailableInTx lee la existencia vendible con el repositorio que reciba (pool o tx).
func AvailableInTx(ctx context.Context, stockRepo repository.BranchStockRepository, branchID int, code string) (decimal.Decimal, error) {
	stock, err := stockRepo.Get(ctx, branchID, code)
	if err != nil {
		return decimal.Zero, err
	}
	return stock.Sellable, nil
}

// Decrement descuenta amount piezas del piso de venta en su propia transacción.
func (uc *UseCase) Decrement(ctx context.Context, branchID int, code string, amount int64) error {
	if !uc.branches.Contains(branchID) {
		return domain.ErrUnknownBranch
	}
	return uc.txRunner.RunStock(ctx, func(stockRepo repository.BranchStockRepository) error {
		return DecrementInTx(ctx, stockRepo, branchID, code, amount)
	})
}

// DecrementInTx descuenta usando el repositorio de la transacción del caller:
// bloquea la fila (SELECT FOR UPDATE), verifica y escribe. Nunca deja el piso de venta negativo.
func DecrementInTx(ctx context.Context, stockRepo repository.BranchStockRepository, branchID int, code string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidInput.WithMessage("la cantidad a descontar debe ser mayor a cero")
	}
	stock, err := stockRepo.GetForUpdate(ctx, branchID, code)
	if err != nil {
		return err
	}
	qty := decimal.NewFromInt(amount)
	if stock.Sellable.LessThan(qty) {
		return domain.InsufficientStock(stock.Sellable.Floor().IntPart())
	}
	return stockRepo.SetSellable(ctx, branchID, code, stock.Sellable.Sub(qty))
}

// Levels devuelve las existencias del producto en todas las sucursales configuradas.
func (uc *UseCase) Levels(ctx context.Context, code string) ([]dto.StockLevelDTO, error) {
	product, err := uc.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	ids := uc.branches.IDs()
	out := make([]dto.StockLevelDTO, 0, len(ids))
	for _, id := range ids {
		s, err := uc.stockRepo.Get(ctx, id, product.Code)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.StockLevelDTO{
			BranchID: id,
			Sellable: s.Sellable,
			Cases:    s.Cases,
			Active:   s.Active,
			Total:    s.Total(product.PiecesPerBox),
		})
	}
	return out, nil
}
