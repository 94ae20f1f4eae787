package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductDTO salida de un producto del catálogo.
type ProductDTO struct {
	ID           int64              `json:"id"`
	Code         string             `json:"clave"`
	Description  string             `json:"descripcion"`
	Barcode      string             `json:"cb,omitempty"`
	SupplierKey  string             `json:"clave_pro,omitempty"`
	Type         string             `json:"tipo"`
	Cost         decimal.Decimal    `json:"pcosto"`
	PiecesPerBox decimal.Decimal    `json:"pzas_x_caja"`
	Prices       [3]decimal.Decimal `json:"precios"`
	Minimums     [3]decimal.Decimal `json:"minimos"`
	Utilities    [3]decimal.Decimal `json:"utilidades"`
	UtilityPcts  [3]decimal.Decimal `json:"por_utilidades"`
	Photo        string             `json:"foto,omitempty"`
	Status       bool               `json:"status"`
	Active       bool               `json:"activo"`
	CreatedAt    time.Time          `json:"created_at"`
}

// ProductDetailDTO producto con existencias por sucursal.
type ProductDetailDTO struct {
	ProductDTO
	Stock []StockLevelDTO `json:"existencias"`
}

// ProductInput campos editables de un producto (alta y edición).
type ProductInput struct {
	Description  string             `json:"descripcion"`
	Barcode      string             `json:"cb"`
	SupplierKey  string             `json:"clave_pro"`
	Type         string             `json:"tipo"`
	Cost         decimal.Decimal    `json:"pcosto"`
	PiecesPerBox decimal.Decimal    `json:"pzas_x_caja"`
	Prices       [3]decimal.Decimal `json:"precios"`
	Minimums     [3]decimal.Decimal `json:"minimos"`
	Photo        string             `json:"foto"`
	Status       bool               `json:"status"`
	Active       bool               `json:"activo"`
}

// CreateProductRequest body para POST /api/abmc/producto/nuevo.
type CreateProductRequest struct {
	Code string `json:"clave"`
	ProductInput
}

// BranchStockInput existencias a fijar en una sucursal al editar un producto.
type BranchStockInput struct {
	BranchID int             `json:"num_suc"`
	Sellable decimal.Decimal `json:"exis_pventas"`
	Cases    decimal.Decimal `json:"exis_bodega"`
	Active   bool            `json:"activo"`
}

// UpdateProductRequest body para POST /api/abmc/producto/:clave.
type UpdateProductRequest struct {
	ProductInput
	Stock []BranchStockInput `json:"existencias"`
}

// NextCodeResponse siguiente Clave numérica sugerida.
type NextCodeResponse struct {
	Next int64 `json:"siguiente"`
}

// NextBarcodeResponse siguiente código de barras sugerido.
type NextBarcodeResponse struct {
	Barcode string `json:"cb"`
}

// ProductTypeDTO tipo de producto.
type ProductTypeDTO struct {
	Description string `json:"descripcion"`
	Letter      string `json:"letra"`
	Consecutive int64  `json:"consecutivo"`
}

// BranchDTO sucursal.
type BranchDTO struct {
	ID           int    `json:"id"`
	Name         string `json:"sucursal"`
	ShippingInfo string `json:"info_envio,omitempty"`
	AppVisible   bool   `json:"app_visible"`
}

// BranchContactDTO canal de contacto de una sucursal.
type BranchContactDTO struct {
	BranchID int    `json:"num_suc"`
	Name     string `json:"sucursal"`
	WhatsApp string `json:"whatsapp_phone"`
}
