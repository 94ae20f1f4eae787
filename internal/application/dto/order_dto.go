package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlaceOrderRequest body para POST /api/finalizar_pedido.
type PlaceOrderRequest struct {
	ClientID   string `json:"ip_add"`
	CustomerID int64  `json:"customer_id"`
	BranchID   int    `json:"num_suc"`
}

// PlaceOrderResponse folio del pedido y canal de contacto de la sucursal.
type PlaceOrderResponse struct {
	Success       bool            `json:"success"`
	InvoiceNo     int64           `json:"invoice_no"`
	WhatsAppPhone string          `json:"whatsapp_phone"`
	TotalQty      int64           `json:"total_qty"`
	Total         decimal.Decimal `json:"total"`
}

// OrderLineDTO línea de pedido.
type OrderLineDTO struct {
	ProductID   int64           `json:"product_id"`
	Code        string          `json:"clave"`
	Description string          `json:"descripcion"`
	Qty         int64           `json:"qty"`
	Price       decimal.Decimal `json:"p_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Status      string          `json:"status"`
}

// OrderDTO pedido con sus líneas.
type OrderDTO struct {
	InvoiceNo  int64           `json:"invoice_no"`
	CustomerID int64           `json:"customer_id"`
	BranchID   int             `json:"num_suc"`
	TotalQty   int64           `json:"total_qty"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	Lines      []OrderLineDTO  `json:"lines"`
}
