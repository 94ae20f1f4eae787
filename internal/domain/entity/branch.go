package entity

import "github.com/shopspring/decimal"

// Branch representa una sucursal física con su propia partición de inventario.
type Branch struct {
	ID           int
	Name         string
	ShippingInfo string
	AppVisible   bool
	WhatsApp     string // canal de contacto para notificar pedidos
}

// BranchStock es el registro de existencias de un producto en una sucursal.
// Sellable (ExisPVentas) nunca debe ser negativo; Cases (ExisBodega) es la reserva en cajas.
type BranchStock struct {
	BranchID int
	Code     string
	Sellable decimal.Decimal
	Cases    decimal.Decimal
	Active   bool
}

// Total devuelve las piezas totales: piso de venta + cajas * piezas por caja (solo vistas admin).
func (s BranchStock) Total(piecesPerBox decimal.Decimal) decimal.Decimal {
	if !piecesPerBox.IsPositive() {
		piecesPerBox = decimal.NewFromInt(1)
	}
	return s.Sellable.Add(s.Cases.Mul(piecesPerBox))
}
