package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para cortes de caja.
type ReportRepo struct {
	q Querier
}

func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// CashRegisters devuelve el corte vigente de cada caja (catcaja) y los totales globales.
func (r *ReportRepo) CashRegisters(ctx context.Context) ([]entity.CashRegisterSummary, entity.CashTotals, error) {
	var totals entity.CashTotals
	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(e.sucursal, 'SUC ' || c.num_suc), c.num_suc, c.num_caja, COALESCE(c.nombre, ''),
			c.efectivo + c.tarjeta + c.cheque, c.efectivo, c.tarjeta, c.cheque, c.devolucion, c.retiro
		FROM catcaja c
		LEFT JOIN empresa e ON e.id = c.num_suc
		ORDER BY c.num_suc, c.num_caja`)
	if err != nil {
		return nil, totals, fmt.Errorf("cash registers: %w", err)
	}
	defer rows.Close()
	var out []entity.CashRegisterSummary
	for rows.Next() {
		var s entity.CashRegisterSummary
		if err := rows.Scan(&s.BranchName, &s.BranchID, &s.RegisterNo, &s.CashierName,
			&s.Total, &s.Cash, &s.Card, &s.Bank, &s.Refunds, &s.Withdrawals); err != nil {
			return nil, totals, fmt.Errorf("scan cash register: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, totals, err
	}

	err = r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(efectivo + tarjeta + cheque), 0), COALESCE(SUM(efectivo), 0),
			COALESCE(SUM(tarjeta), 0), COALESCE(SUM(cheque), 0)
		FROM catcaja`).Scan(&totals.Total, &totals.Cash, &totals.Card, &totals.Bank)
	if err != nil {
		return nil, totals, fmt.Errorf("cash register totals: %w", err)
	}
	return out, totals, nil
}

// SalesHistory agrupa venta_diaria por sucursal y caja dentro del rango [From, To).
func (r *ReportRepo) SalesHistory(ctx context.Context, f repository.SalesFilter) ([]entity.CashRegisterSummary, entity.CashTotals, error) {
	var totals entity.CashTotals
	const where = `WHERE ($1::date IS NULL OR v.fecha >= $1::date) AND ($2::date IS NULL OR v.fecha < $2::date)`
	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(e.sucursal, 'SUC ' || v.num_suc), v.num_suc, v.num_caja,
			SUM(COALESCE(v.efectivo, 0) + COALESCE(v.tarjeta, 0) + COALESCE(v.cheque, 0)),
			SUM(COALESCE(v.efectivo, 0)), SUM(COALESCE(v.tarjeta, 0)), SUM(COALESCE(v.cheque, 0)),
			SUM(COALESCE(v.retiro, 0)), SUM(COALESCE(v.entregar, 0))
		FROM venta_diaria v
		LEFT JOIN empresa e ON e.id = v.num_suc
		`+where+`
		GROUP BY v.num_suc, v.num_caja, e.sucursal
		ORDER BY v.num_suc, v.num_caja`, f.From, f.To)
	if err != nil {
		return nil, totals, fmt.Errorf("sales history: %w", err)
	}
	defer rows.Close()
	var out []entity.CashRegisterSummary
	for rows.Next() {
		var s entity.CashRegisterSummary
		if err := rows.Scan(&s.BranchName, &s.BranchID, &s.RegisterNo,
			&s.Total, &s.Cash, &s.Card, &s.Bank, &s.Withdrawals, &s.NetCash); err != nil {
			return nil, totals, fmt.Errorf("scan sales history: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, totals, err
	}

	err = r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(COALESCE(v.efectivo, 0) + COALESCE(v.tarjeta, 0) + COALESCE(v.cheque, 0)), 0),
			COALESCE(SUM(v.efectivo), 0), COALESCE(SUM(v.tarjeta), 0), COALESCE(SUM(v.cheque), 0),
			COALESCE(SUM(v.entregar), 0)
		FROM venta_diaria v `+where, f.From, f.To).Scan(&totals.Total, &totals.Cash, &totals.Card, &totals.Bank, &totals.NetCash)
	if err != nil {
		return nil, totals, fmt.Errorf("sales history totals: %w", err)
	}
	return out, totals, nil
}

// Withdrawals lista los retiros de una caja entre dos días (inclusive).
func (r *ReportRepo) Withdrawals(ctx context.Context, branchID, registerNo int, from, to time.Time) ([]entity.Withdrawal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(w.motivo, ''), w.monto::numeric(19,2),
			COALESCE(u.nombre, 'Vendedor ' || w.vendedor), w.fecha
		FROM retiros w
		LEFT JOIN usuarios u ON u.id = w.vendedor
		WHERE w.num_suc = $1 AND w.num_caja = $2 AND w.fecha::date BETWEEN $3::date AND $4::date
		ORDER BY w.id DESC`, branchID, registerNo, from, to)
	if err != nil {
		return nil, fmt.Errorf("withdrawals: %w", err)
	}
	defer rows.Close()
	var out []entity.Withdrawal
	for rows.Next() {
		var w entity.Withdrawal
		if err := rows.Scan(&w.Reason, &w.Amount, &w.SellerName, &w.Date); err != nil {
			return nil, fmt.Errorf("scan withdrawal: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
