package report

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// UseCase reportes de caja de solo lectura.
type UseCase struct {
	reportRepo repository.ReportRepository
	branches   repository.BranchDirectory
}

func NewUseCase(reportRepo repository.ReportRepository, branches repository.BranchDirectory) *UseCase {
	return &UseCase{reportRepo: reportRepo, branches: branches}
}

// CashRegisters corte vigente de todas las cajas con totales globales.
func (uc *UseCase) CashRegisters(ctx context.Context) (*dto.CashReportResponse, error) {
	details, totals, err := uc.reportRepo.CashRegisters(ctx)
	if err != nil {
		return nil, err
	}
	return response(details, totals), nil
}

// History ventas agregadas por sucursal y caja en el rango pedido.
func (uc *UseCase) History(ctx context.Context, q dto.SalesHistoryQuery) (*dto.CashReportResponse, error) {
	f, err := SalesFilterFor(q)
	if err != nil {
		return nil, err
	}
	details, totals, err := uc.reportRepo.SalesHistory(ctx, f)
	if err != nil {
		return nil, err
	}
	return response(details, totals), nil
}

// Withdrawals retiros de una caja entre dos días, ambos inclusive.
func (uc *UseCase) Withdrawals(ctx context.Context, q dto.WithdrawalsQuery) ([]entity.Withdrawal, error) {
	if !uc.branches.Contains(q.BranchID) {
		return nil, domain.ErrUnknownBranch
	}
	if q.RegisterNo <= 0 {
		return nil, domain.ErrInvalidInput.WithMessage("numCaja es obligatorio")
	}
	from, err := parseDate(q.From)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(q.To)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, domain.ErrInvalidInput.WithMessage("fechaFin anterior a fechaInicio")
	}
	list, err := uc.reportRepo.Withdrawals(ctx, q.BranchID, q.RegisterNo, from, to)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []entity.Withdrawal{}
	}
	return list, nil
}

// SalesFilterFor traduce el rango pedido a un intervalo [From, To):
// dia = esa fecha, semana = semana ISO (lunes a domingo) de la fecha, mes = mes/año.
// Sin rango no se filtra.
func SalesFilterFor(q dto.SalesHistoryQuery) (repository.SalesFilter, error) {
	var f repository.SalesFilter
	switch strings.ToLower(strings.TrimSpace(q.Range)) {
	case "":
		return f, nil
	case dto.RangeDay:
		d, err := parseDate(q.Date)
		if err != nil {
			return f, err
		}
		to := d.AddDate(0, 0, 1)
		f.From, f.To = &d, &to
	case dto.RangeWeek:
		d, err := parseDate(q.Date)
		if err != nil {
			return f, err
		}
		monday := d.AddDate(0, 0, -((int(d.Weekday()) + 6) % 7))
		to := monday.AddDate(0, 0, 7)
		f.From, f.To = &monday, &to
	case dto.RangeMonth:
		if q.Month < 1 || q.Month > 12 || q.Year < 1900 || q.Year > 9999 {
			return f, domain.ErrInvalidInput.WithMessage("mes o año inválido")
		}
		from := time.Date(q.Year, time.Month(q.Month), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0)
		f.From, f.To = &from, &to
	default:
		return f, domain.ErrInvalidInput.WithMessage("rango debe ser dia, semana o mes")
	}
	return f, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput.WithMessage("fecha inválida, use AAAA-MM-DD")
	}
	return d, nil
}

func response(details []entity.CashRegisterSummary, totals entity.CashTotals) *dto.CashReportResponse {
	if details == nil {
		details = []entity.CashRegisterSummary{}
	}
	return &dto.CashReportResponse{Details: details, Global: totals}
}
