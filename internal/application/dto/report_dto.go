package dto

import "github.com/jhoicas/mayoreo-api/internal/domain/entity"

// Rangos de histórico de ventas.
const (
	RangeDay   = "dia"
	RangeWeek  = "semana"
	RangeMonth = "mes"
)

// SalesHistoryQuery filtros de GET /api/reportes/historico.
type SalesHistoryQuery struct {
	Range string `query:"rango"`
	Date  string `query:"fecha"` // YYYY-MM-DD (dia, semana)
	Month int    `query:"mes"`
	Year  int    `query:"anio"`
}

// WithdrawalsQuery filtros de GET /api/reportes/retiros-detalle.
type WithdrawalsQuery struct {
	BranchID   int    `query:"numSuc"`
	RegisterNo int    `query:"numCaja"`
	From       string `query:"fechaInicio"`
	To         string `query:"fechaFin"`
}

// CashReportResponse detalle por caja y totales globales.
type CashReportResponse struct {
	Details []entity.CashRegisterSummary `json:"detalles"`
	Global  entity.CashTotals            `json:"global"`
}
