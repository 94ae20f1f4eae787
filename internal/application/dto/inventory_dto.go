package dto

import "github.com/shopspring/decimal"

// StockLevelDTO existencias de un producto en una sucursal (vista admin).
type StockLevelDTO struct {
	BranchID int             `json:"num_suc"`
	Sellable decimal.Decimal `json:"exis_pventas"`
	Cases    decimal.Decimal `json:"exis_bodega"`
	Active   bool            `json:"activo"`
	Total    decimal.Decimal `json:"total"` // piso de venta + cajas * PzasxCaja
}

// StoreInventoryItemDTO producto de tienda con existencia vendible de la sucursal.
type StoreInventoryItemDTO struct {
	ProductDTO
	Available int64 `json:"stock_disponible"`
}

// AdminInventoryItemDTO producto con piezas totales por sucursal.
type AdminInventoryItemDTO struct {
	ProductDTO
	Totals map[int]int64 `json:"existencias"`
}

// StoreInventoryResponse página de inventario de tienda.
type StoreInventoryResponse struct {
	PageResponse
	BranchID int                     `json:"num_suc"`
	Items    []StoreInventoryItemDTO `json:"items"`
}

// AdminInventoryResponse página de inventario administrativo.
type AdminInventoryResponse struct {
	PageResponse
	Items []AdminInventoryItemDTO `json:"items"`
}

// AvailabilityDTO existencia vendible de un producto en una sucursal (tope del carrito).
type AvailabilityDTO struct {
	Code      string          `json:"clave"`
	BranchID  int             `json:"num_suc"`
	Available decimal.Decimal `json:"disponible"`
}
