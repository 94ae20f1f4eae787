package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo. Clave es el identificador de negocio,
// único e inmutable, compartido por todas las sucursales (no es autonumérico aunque
// su contenido suela ser numérico). ID es el identificador interno que usa el carrito.
type Product struct {
	ID           int64
	Code         string // Clave
	Description  string
	Barcode      string // CB
	SupplierKey  string // ClavePro
	Type         string // código de CATTIPOPROD
	Cost         decimal.Decimal
	PiecesPerBox decimal.Decimal    // PzasxCaja
	Prices       [3]decimal.Decimal // Precio1..3
	Minimums     [3]decimal.Decimal // Min1..3 (cantidad mínima para aplicar cada precio)
	Utilities    [3]decimal.Decimal // Util1..3
	UtilityPcts  [3]decimal.Decimal // PorUtil1..3
	Photo        string
	Status       bool // visible en tienda
	Active       bool
	CreatedAt    time.Time
}

// PriceFor devuelve el precio de mayoreo aplicable a qty: el nivel más alto cuyo mínimo
// se cumple. Sin mínimos configurados aplica Precio1.
func (p *Product) PriceFor(qty int64) decimal.Decimal {
	q := decimal.NewFromInt(qty)
	price := p.Prices[0]
	for i := 1; i < len(p.Prices); i++ {
		m := p.Minimums[i]
		if m.IsPositive() && q.GreaterThanOrEqual(m) && p.Prices[i].IsPositive() {
			price = p.Prices[i]
		}
	}
	return price
}

// Profit calcula utilidad y porcentaje de utilidad sobre costo para un precio.
// Precio 0 produce (0, 0); costo 0 deja el porcentaje en 0.
func Profit(price, cost decimal.Decimal) (utility, pct decimal.Decimal) {
	if price.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	utility = price.Sub(cost)
	if cost.IsPositive() {
		pct = utility.Div(cost).Mul(decimal.NewFromInt(100)).Round(4)
	}
	return utility, pct
}

// ProductType es una categoría de producto (CATTIPOPROD) con su consecutivo.
type ProductType struct {
	Description string
	Letter      string
	Consecutive int64
}
