package entity

import "github.com/shopspring/decimal"

// CartLine es una línea del carrito de un cliente anónimo (ip_add).
// Todas las líneas de un mismo carrito pertenecen a una sola sucursal.
type CartLine struct {
	ClientID  string
	ProductID int64
	Quantity  int64
	Price     decimal.Decimal // precio unitario capturado al agregar
	BranchID  int
}

// Subtotal devuelve cantidad * precio.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// CartItemView es la línea del carrito enriquecida para mostrar al cliente.
type CartItemView struct {
	CartLine
	Code        string
	Description string
	Photo       string
	Prices      [3]decimal.Decimal
	Minimums    [3]decimal.Decimal
	Available   decimal.Decimal
}
