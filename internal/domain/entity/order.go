package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pedido. Solo PENDIENTE se asigna aquí; las transiciones posteriores
// pertenecen al surtido.
const (
	OrderStatusPending = "PENDIENTE"
)

// Order es la cabecera de un pedido creado desde un carrito.
type Order struct {
	InvoiceNo  int64
	CustomerID int64
	BranchID   int
	TotalQty   int64
	Total      decimal.Decimal
	Status     string
	CreatedAt  time.Time
	Lines      []OrderLine
}

// OrderLine es una línea del pedido con el precio capturado en el carrito.
type OrderLine struct {
	InvoiceNo   int64
	ProductID   int64
	Code        string // solo lectura (join con productos)
	Description string // solo lectura (join con productos)
	Quantity    int64
	Price       decimal.Decimal
	BranchID    int
	Status      string
}
