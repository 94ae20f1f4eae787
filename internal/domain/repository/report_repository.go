package repository

import (
	"context"
	"time"

	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
)

// SalesFilter filtro de fechas ya validado para el histórico de ventas.
// Todos los valores viajan como parámetros de la consulta, nunca interpolados.
type SalesFilter struct {
	From *time.Time // inclusivo
	To   *time.Time // exclusivo
}

// ReportRepository define las consultas de lectura para cortes de caja.
type ReportRepository interface {
	CashRegisters(ctx context.Context) ([]entity.CashRegisterSummary, entity.CashTotals, error)
	SalesHistory(ctx context.Context, f SalesFilter) ([]entity.CashRegisterSummary, entity.CashTotals, error)
	Withdrawals(ctx context.Context, branchID, registerNo int, from, to time.Time) ([]entity.Withdrawal, error)
}
