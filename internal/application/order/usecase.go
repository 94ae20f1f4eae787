package order

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/application/inventory"
	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// StockPolicy define qué hace el cierre de pedido con las existencias.
type StockPolicy string

const (
	// PolicyAdmission valida bajo bloqueo de fila y no descuenta. Dos pedidos concurrentes
	// pueden pasar la validación sobre la misma existencia; el descuento ocurre en el surtido.
	PolicyAdmission StockPolicy = "admission"
	// PolicyReserve descuenta cada línea dentro de la misma transacción del pedido.
	PolicyReserve StockPolicy = "reserve"
)

// Options parámetros opcionales del caso de uso.
type Options struct {
	StockPolicy StockPolicy
	Folio       FolioGenerator
	Now         func() time.Time
}

// UseCase cierre de pedido: valida el carrito contra existencias en vivo, persiste cabecera y
// líneas, vacía el carrito y confirma, todo en una transacción.
type UseCase struct {
	txRunner   TxRunner
	cartRepo   repository.CartRepository
	orderRepo  repository.OrderRepository
	branchRepo repository.BranchRepository
	branches   repository.BranchDirectory
	publisher  EventPublisher
	tickets    TicketRenderer
	policy     StockPolicy
	folio      FolioGenerator
	now        func() time.Time
	log        zerolog.Logger
}

// NewUseCase construye el caso de uso. publisher y tickets pueden ser nil.
func NewUseCase(
	txRunner TxRunner,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	branchRepo repository.BranchRepository,
	branches repository.BranchDirectory,
	publisher EventPublisher,
	tickets TicketRenderer,
	log zerolog.Logger,
	opts Options,
) *UseCase {
	uc := &UseCase{
		txRunner:   txRunner,
		cartRepo:   cartRepo,
		orderRepo:  orderRepo,
		branchRepo: branchRepo,
		branches:   branches,
		publisher:  publisher,
		tickets:    tickets,
		policy:     opts.StockPolicy,
		folio:      opts.Folio,
		now:        opts.Now,
		log:        log,
	}
	if uc.policy == "" {
		uc.policy = PolicyAdmission
	}
	if uc.folio == nil {
		uc.folio = NewTimeFolio()
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// PlaceOrder convierte el carrito del cliente en un pedido PENDIENTE.
// Cualquier error revierte la transacción y deja el carrito intacto.
func (uc *UseCase) PlaceOrder(ctx context.Context, in dto.PlaceOrderRequest) (*dto.PlaceOrderResponse, error) {
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" || in.CustomerID < 0 {
		return nil, domain.ErrInvalidInput
	}
	if !uc.branches.Contains(in.BranchID) {
		return nil, domain.ErrUnknownBranch
	}

	// Carrito vacío: se rechaza sin abrir transacción ni escribir nada.
	pending, err := uc.cartRepo.Lines(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var order entity.Order
	err = uc.txRunner.RunCheckout(ctx, func(
		cartRepo repository.CartRepository,
		stockRepo repository.BranchStockRepository,
		orderRepo repository.OrderRepository,
	) error {
		if err := cartRepo.Lock(ctx, clientID); err != nil {
			return err
		}
		items, err := cartRepo.Items(ctx, clientID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrEmptyCart
		}
		// Orden fijo de bloqueo (por clave) para que dos cierres concurrentes no se bloqueen mutuamente.
		sort.SliceStable(items, func(i, j int) bool { return items[i].Code < items[j].Code })

		var shortages []domain.StockShortage
		for _, it := range items {
			if it.BranchID != in.BranchID {
				return domain.ErrDifferentBranch
			}
			stock, err := stockRepo.GetForUpdate(ctx, in.BranchID, it.Code)
			if err != nil {
				return err
			}
			if decimal.NewFromInt(it.Quantity).GreaterThan(stock.Sellable) {
				shortages = append(shortages, domain.StockShortage{
					ProductID:   it.ProductID,
					Code:        it.Code,
					Description: it.Description,
					Available:   stock.Sellable,
					Requested:   it.Quantity,
				})
			}
		}
		if len(shortages) > 0 {
			return domain.InsufficientStockLines(shortages)
		}

		if uc.policy == PolicyReserve {
			for _, it := range items {
				if err := inventory.DecrementInTx(ctx, stockRepo, in.BranchID, it.Code, it.Quantity); err != nil {
					return err
				}
			}
		}

		order = entity.Order{
			InvoiceNo:  uc.folio(),
			CustomerID: in.CustomerID,
			BranchID:   in.BranchID,
			Total:      decimal.Zero,
			Status:     entity.OrderStatusPending,
			CreatedAt:  uc.now(),
		}
		for _, it := range items {
			order.TotalQty += it.Quantity
			order.Total = order.Total.Add(it.Subtotal())
			order.Lines = append(order.Lines, entity.OrderLine{
				InvoiceNo:   order.InvoiceNo,
				ProductID:   it.ProductID,
				Code:        it.Code,
				Description: it.Description,
				Quantity:    it.Quantity,
				Price:       it.Price,
				BranchID:    in.BranchID,
				Status:      entity.OrderStatusPending,
			})
		}
		if err := orderRepo.Create(ctx, &order); err != nil {
			return err
		}
		for i := range order.Lines {
			if err := orderRepo.CreateLine(ctx, &order.Lines[i]); err != nil {
				return err
			}
		}
		return cartRepo.Clear(ctx, clientID)
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			uc.log.Error().Err(err).Str("client", clientID).Int("branch", in.BranchID).Msg("cierre de pedido fallido")
		}
		return nil, err
	}

	uc.log.Info().
		Int64("invoice_no", order.InvoiceNo).
		Int64("customer_id", order.CustomerID).
		Int("branch", order.BranchID).
		Int("lines", len(order.Lines)).
		Str("stock_policy", string(uc.policy)).
		Msg("pedido registrado")

	resp := &dto.PlaceOrderResponse{
		Success:   true,
		InvoiceNo: order.InvoiceNo,
		TotalQty:  order.TotalQty,
		Total:     order.Total,
	}
	if branch, err := uc.branchRepo.GetByID(ctx, in.BranchID); err != nil {
		uc.log.Warn().Err(err).Int("branch", in.BranchID).Msg("no se obtuvo el contacto de la sucursal")
	} else if branch != nil {
		resp.WhatsAppPhone = branch.WhatsApp
	}
	uc.publish(ctx, &order)
	return resp, nil
}

// publish notifica el pedido ya confirmado; un fallo solo se registra.
func (uc *UseCase) publish(ctx context.Context, order *entity.Order) {
	if uc.publisher == nil {
		return
	}
	evt := PlacedEvent{
		EventID:     uuid.NewString(),
		InvoiceNo:   order.InvoiceNo,
		CustomerID:  order.CustomerID,
		BranchID:    order.BranchID,
		TotalQty:    order.TotalQty,
		Total:       order.Total,
		StockPolicy: string(uc.policy),
		OccurredAt:  order.CreatedAt,
	}
	for _, l := range order.Lines {
		evt.Lines = append(evt.Lines, PlacedLine{ProductID: l.ProductID, Code: l.Code, Qty: l.Quantity, Price: l.Price})
	}
	if err := uc.publisher.PublishOrderPlaced(ctx, evt); err != nil {
		uc.log.Warn().Err(err).Int64("invoice_no", order.InvoiceNo).Msg("evento de pedido no publicado")
	}
}

// GetOrder devuelve cabecera y líneas de un pedido.
func (uc *UseCase) GetOrder(ctx context.Context, invoiceNo int64) (*dto.OrderDTO, error) {
	o, err := uc.load(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderDTO{
		InvoiceNo:  o.InvoiceNo,
		CustomerID: o.CustomerID,
		BranchID:   o.BranchID,
		TotalQty:   o.TotalQty,
		Total:      o.Total,
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
		Lines:      make([]dto.OrderLineDTO, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, dto.OrderLineDTO{
			ProductID:   l.ProductID,
			Code:        l.Code,
			Description: l.Description,
			Qty:         l.Quantity,
			Price:       l.Price,
			Subtotal:    l.Price.Mul(decimal.NewFromInt(l.Quantity)),
			Status:      l.Status,
		})
	}
	return out, nil
}

// TicketPDF genera el ticket imprimible del pedido.
func (uc *UseCase) TicketPDF(ctx context.Context, invoiceNo int64) ([]byte, error) {
	if uc.tickets == nil {
		return nil, fmt.Errorf("ticket renderer no configurado")
	}
	o, err := uc.load(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}
	branch, err := uc.branchRepo.GetByID(ctx, o.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		branch = &entity.Branch{ID: o.BranchID, Name: fmt.Sprintf("SUC %d", o.BranchID)}
	}
	return uc.tickets.RenderOrderTicket(o, branch)
}

func (uc *UseCase) load(ctx context.Context, invoiceNo int64) (*entity.Order, error) {
	if invoiceNo <= 0 {
		return nil, domain.ErrInvalidInput
	}
	o, err := uc.orderRepo.GetByInvoice(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}
