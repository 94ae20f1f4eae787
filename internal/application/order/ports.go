package order

import (
	"context"
	"time"

	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TxRunner ejecuta el cierre de pedido en una sola transacción: Commit o Rollback, nada intermedio.
type TxRunner interface {
	RunCheckout(ctx context.Context, fn func(
		cartRepo repository.CartRepository,
		stockRepo repository.BranchStockRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// PlacedEvent se publica después del commit de un pedido.
type PlacedEvent struct {
	EventID     string          `json:"event_id"`
	InvoiceNo   int64           `json:"invoice_no"`
	CustomerID  int64           `json:"customer_id"`
	BranchID    int             `json:"num_suc"`
	TotalQty    int64           `json:"total_qty"`
	Total       decimal.Decimal `json:"total"`
	StockPolicy string          `json:"stock_policy"`
	Lines       []PlacedLine    `json:"lines"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// PlacedLine línea del evento de pedido.
type PlacedLine struct {
	ProductID int64           `json:"product_id"`
	Code      string          `json:"clave"`
	Qty       int64           `json:"qty"`
	Price     decimal.Decimal `json:"p_price"`
}

// EventPublisher publica eventos de pedido hacia sistemas externos (surtido, notificaciones).
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, evt PlacedEvent) error
}

// TicketRenderer genera el ticket imprimible de un pedido.
type TicketRenderer interface {
	RenderOrderTicket(order *entity.Order, branch *entity.Branch) ([]byte, error)
}

// FolioGenerator produce folios de pedido. Deben ser prácticamente únicos en la ventana de operación;
// una colisión se rechaza por la restricción única y el pedido completo se revierte.
type FolioGenerator func() int64
