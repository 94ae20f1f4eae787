package dto

import "github.com/shopspring/decimal"

// AddToCartRequest body para POST /api/agregar_carrito.
// Price 0 indica que se use el precio de mayoreo que corresponda a la cantidad final.
type AddToCartRequest struct {
	ClientID    string          `json:"ip_add"`
	ProductID   int64           `json:"p_id"`
	BranchID    int             `json:"num_suc"`
	Qty         int64           `json:"qty"`
	Price       decimal.Decimal `json:"p_price"`
	IsIncrement bool            `json:"is_increment"`
}

// AddToCartResponse cantidad final de la línea.
type AddToCartResponse struct {
	Success bool            `json:"success"`
	Qty     int64           `json:"qty"`
	Price   decimal.Decimal `json:"p_price"`
}

// CartLineRequest body para POST /api/carrito/eliminar.
type CartLineRequest struct {
	ClientID  string `json:"ip_add"`
	ProductID int64  `json:"p_id"`
}

// ClearCartRequest body para POST /api/carrito/vaciar.
type ClearCartRequest struct {
	ClientID string `json:"ip_add"`
}

// CartItemDTO línea del carrito enriquecida.
type CartItemDTO struct {
	ProductID   int64              `json:"p_id"`
	Qty         int64              `json:"qty"`
	Price       decimal.Decimal    `json:"p_price"`
	BranchID    int                `json:"num_suc"`
	Code        string             `json:"clave"`
	Description string             `json:"descripcion"`
	Photo       string             `json:"foto,omitempty"`
	Prices      [3]decimal.Decimal `json:"precios"`
	Minimums    [3]decimal.Decimal `json:"minimos"`
	Available   decimal.Decimal    `json:"stock_disponible"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
}

// CartResponse contenido del carrito de un cliente.
type CartResponse struct {
	BranchID   int             `json:"num_suc,omitempty"`
	BranchName string          `json:"nombre_sucursal,omitempty"`
	Items      []CartItemDTO   `json:"items"`
	TotalQty   int64           `json:"total_qty"`
	Total      decimal.Decimal `json:"total"`
}

// CartCountResponse suma de cantidades del carrito.
type CartCountResponse struct {
	Total int64 `json:"total"`
}
