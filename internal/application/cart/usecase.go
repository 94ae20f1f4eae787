package cart

import (
	"context"
	"strings"

	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/application/inventory"
	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UseCase carrito por cliente anónimo. Todas las líneas de un carrito son de una sola sucursal
// y la cantidad de cada línea nunca supera la existencia vendible al momento de validar.
// Las existencias solo se leen aquí; el carrito no reserva.
type UseCase struct {
	txRunner   TxRunner
	cartRepo   repository.CartRepository
	branchRepo repository.BranchRepository
	branches   repository.BranchDirectory
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	cartRepo repository.CartRepository,
	branchRepo repository.BranchRepository,
	branches repository.BranchDirectory,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		cartRepo:   cartRepo,
		branchRepo: branchRepo,
		branches:   branches,
	}
}

// AddOrIncrement agrega el producto al carrito o ajusta su cantidad.
// Con IsIncrement la cantidad final es actual + Qty (Qty puede ser negativo); si no, Qty.
// Price 0 toma el precio de mayoreo correspondiente a la cantidad final.
func (uc *UseCase) AddOrIncrement(ctx context.Context, in dto.AddToCartRequest) (*dto.AddToCartResponse, error) {
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" || in.ProductID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput.WithMessage("el precio no puede ser negativo")
	}
	if !uc.branches.Contains(in.BranchID) {
		return nil, domain.ErrUnknownBranch
	}

	var out dto.AddToCartResponse
	err := uc.txRunner.RunCart(ctx, func(
		cartRepo repository.CartRepository,
		stockRepo repository.BranchStockRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := cartRepo.Lock(ctx, clientID); err != nil {
			return err
		}
		lines, err := cartRepo.Lines(ctx, clientID)
		if err != nil {
			return err
		}
		var current int64
		for _, l := range lines {
			if l.BranchID != in.BranchID {
				return domain.ErrDifferentBranch
			}
			if l.ProductID == in.ProductID {
				current = l.Quantity
			}
		}

		product, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}

		available, err := inventory.AvailableInTx(ctx, stockRepo, in.BranchID, product.Code)
		if err != nil {
			return err
		}
		ceiling := maxSellable(available)

		final := in.Qty
		if in.IsIncrement {
			// se compara contra el margen restante para que current + Qty no desborde
			if in.Qty > ceiling-current {
				return domain.InsufficientStock(ceiling)
			}
			final = current + in.Qty
		}
		if final < 1 {
			return domain.ErrBelowMinimum
		}
		if final > ceiling {
			return domain.InsufficientStock(ceiling)
		}

		price := in.Price
		if price.IsZero() {
			price = product.PriceFor(final)
		}
		line := entity.CartLine{
			ClientID:  clientID,
			ProductID: product.ID,
			Quantity:  final,
			Price:     price,
			BranchID:  in.BranchID,
		}
		if err := cartRepo.Upsert(ctx, &line); err != nil {
			return err
		}
		out = dto.AddToCartResponse{Success: true, Qty: final, Price: price}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func maxSellable(sellable decimal.Decimal) int64 {
	n := sellable.Floor().IntPart()
	if n < 0 {
		return 0
	}
	return n
}

// Remove elimina una línea del carrito.
func (uc *UseCase) Remove(ctx context.Context, clientID string, productID int64) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunCart(ctx, func(cartRepo repository.CartRepository, _ repository.BranchStockRepository, _ repository.ProductRepository) error {
		if err := cartRepo.Lock(ctx, clientID); err != nil {
			return err
		}
		return cartRepo.Remove(ctx, clientID, productID)
	})
}

// Clear vacía el carrito del cliente.
func (uc *UseCase) Clear(ctx context.Context, clientID string) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunCart(ctx, func(cartRepo repository.CartRepository, _ repository.BranchStockRepository, _ repository.ProductRepository) error {
		if err := cartRepo.Lock(ctx, clientID); err != nil {
			return err
		}
		return cartRepo.Clear(ctx, clientID)
	})
}

// List devuelve el carrito con datos de producto y existencia en vivo de su sucursal.
func (uc *UseCase) List(ctx context.Context, clientID string) (*dto.CartResponse, error) {
	items, err := uc.cartRepo.Items(ctx, strings.TrimSpace(clientID))
	if err != nil {
		return nil, err
	}
	out := &dto.CartResponse{Items: make([]dto.CartItemDTO, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		sub := it.Subtotal()
		out.Items = append(out.Items, dto.CartItemDTO{
			ProductID:   it.ProductID,
			Qty:         it.Quantity,
			Price:       it.Price,
			BranchID:    it.BranchID,
			Code:        it.Code,
			Description: it.Description,
			Photo:       it.Photo,
			Prices:      it.Prices,
			Minimums:    it.Minimums,
			Available:   it.Available,
			Subtotal:    sub,
		})
		out.TotalQty += it.Quantity
		out.Total = out.Total.Add(sub)
	}
	if len(items) > 0 {
		out.BranchID = items[0].BranchID
		branch, err := uc.branchRepo.GetByID(ctx, out.BranchID)
		if err != nil {
			return nil, err
		}
		if branch != nil {
			out.BranchName = branch.Name
		}
	}
	return out, nil
}

// Count devuelve la suma de cantidades del carrito (0 si está vacío).
func (uc *UseCase) Count(ctx context.Context, clientID string) (int64, error) {
	return uc.cartRepo.Count(ctx, strings.TrimSpace(clientID))
}
