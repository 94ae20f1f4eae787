package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashRegisterSummary es el corte por caja (vigente o histórico agregado).
type CashRegisterSummary struct {
	BranchName  string          `json:"nombre_sucursal"`
	BranchID    int             `json:"num_suc"`
	RegisterNo  int             `json:"num_caja"`
	CashierName string          `json:"nombre_cajero,omitempty"`
	Total       decimal.Decimal `json:"venta_total"`
	Cash        decimal.Decimal `json:"efectivo"`
	Card        decimal.Decimal `json:"tarjeta"`
	Bank        decimal.Decimal `json:"bancario"`
	Refunds     decimal.Decimal `json:"devoluciones"`
	Withdrawals decimal.Decimal `json:"retiros"`
	NetCash     decimal.Decimal `json:"efectivo_neto"`
}

// CashTotals totales globales de un reporte.
type CashTotals struct {
	Total   decimal.Decimal `json:"total_venta"`
	Cash    decimal.Decimal `json:"total_efectivo"`
	Card    decimal.Decimal `json:"total_tarjeta"`
	Bank    decimal.Decimal `json:"total_bancario"`
	NetCash decimal.Decimal `json:"total_efectivo_neto"`
}

// Withdrawal es un retiro de efectivo de caja.
type Withdrawal struct {
	Reason     string          `json:"motivo"`
	Amount     decimal.Decimal `json:"monto"`
	SellerName string          `json:"nombre_vendedor"`
	Date       time.Time       `json:"fecha"`
}
