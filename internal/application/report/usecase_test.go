package report

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
	"github.com/jhoicas/mayoreo-api/internal/testutil/memdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReports struct {
	filter       repository.SalesFilter
	wFrom, wTo   time.Time
	withdrawals  []entity.Withdrawal
	historyCalls int
}

func (f *fakeReports) CashRegisters(ctx context.Context) ([]entity.CashRegisterSummary, entity.CashTotals, error) {
	return []entity.CashRegisterSummary{{BranchID: 1, RegisterNo: 1, Total: decimal.NewFromInt(100)}},
		entity.CashTotals{Total: decimal.NewFromInt(100)}, nil
}

func (f *fakeReports) SalesHistory(ctx context.Context, filter repository.SalesFilter) ([]entity.CashRegisterSummary, entity.CashTotals, error) {
	f.historyCalls++
	f.filter = filter
	return nil, entity.CashTotals{}, nil
}

func (f *fakeReports) Withdrawals(ctx context.Context, branchID, registerNo int, from, to time.Time) ([]entity.Withdrawal, error) {
	f.wFrom, f.wTo = from, to
	return f.withdrawals, nil
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestSalesFilterFor(t *testing.T) {
	tests := []struct {
		name     string
		q        dto.SalesHistoryQuery
		from, to time.Time
		all      bool
		wantErr  bool
	}{
		{name: "sin rango", q: dto.SalesHistoryQuery{}, all: true},
		{name: "dia", q: dto.SalesHistoryQuery{Range: "dia", Date: "2026-03-04"}, from: day(2026, 3, 4), to: day(2026, 3, 5)},
		// 2026-03-04 es miércoles: la semana ISO inicia el lunes 2.
		{name: "semana", q: dto.SalesHistoryQuery{Range: "semana", Date: "2026-03-04"}, from: day(2026, 3, 2), to: day(2026, 3, 9)},
		{name: "semana en domingo", q: dto.SalesHistoryQuery{Range: "semana", Date: "2026-03-08"}, from: day(2026, 3, 2), to: day(2026, 3, 9)},
		{name: "mes diciembre", q: dto.SalesHistoryQuery{Range: "MES", Month: 12, Year: 2025}, from: day(2025, 12, 1), to: day(2026, 1, 1)},
		{name: "fecha inválida", q: dto.SalesHistoryQuery{Range: "dia", Date: "04/03/2026"}, wantErr: true},
		{name: "inyección", q: dto.SalesHistoryQuery{Range: "dia", Date: "2026-03-04' OR 1=1 --"}, wantErr: true},
		{name: "mes fuera de rango", q: dto.SalesHistoryQuery{Range: "mes", Month: 13, Year: 2025}, wantErr: true},
		{name: "rango desconocido", q: dto.SalesHistoryQuery{Range: "anual"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := SalesFilterFor(tt.q)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Equal(t, domain.KindValidation, domain.KindOf(err))
				return
			}
			require.NoError(t, err)
			if tt.all {
				assert.Nil(t, f.From)
				assert.Nil(t, f.To)
				return
			}
			require.NotNil(t, f.From)
			require.NotNil(t, f.To)
			assert.True(t, tt.from.Equal(*f.From), "from %v", *f.From)
			assert.True(t, tt.to.Equal(*f.To), "to %v", *f.To)
		})
	}
}

func TestHistory_EntradaInvalidaNoConsulta(t *testing.T) {
	repo := &fakeReports{}
	uc := NewUseCase(repo, memdb.New(2))

	_, err := uc.History(context.Background(), dto.SalesHistoryQuery{Range: "dia", Date: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, repo.historyCalls)

	out, err := uc.History(context.Background(), dto.SalesHistoryQuery{})
	require.NoError(t, err)
	assert.NotNil(t, out.Details)
	assert.Equal(t, 1, repo.historyCalls)
}

func TestCashRegisters(t *testing.T) {
	uc := NewUseCase(&fakeReports{}, memdb.New(2))
	out, err := uc.CashRegisters(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Details, 1)
	assert.True(t, decimal.NewFromInt(100).Equal(out.Global.Total))
}

func TestWithdrawals(t *testing.T) {
	repo := &fakeReports{}
	uc := NewUseCase(repo, memdb.New(2))
	ctx := context.Background()

	list, err := uc.Withdrawals(ctx, dto.WithdrawalsQuery{BranchID: 2, RegisterNo: 1, From: "2026-03-01", To: "2026-03-03"})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.True(t, day(2026, 3, 1).Equal(repo.wFrom))
	assert.True(t, day(2026, 3, 3).Equal(repo.wTo))

	_, err = uc.Withdrawals(ctx, dto.WithdrawalsQuery{BranchID: 5, RegisterNo: 1, From: "2026-03-01", To: "2026-03-03"})
	assert.ErrorIs(t, err, domain.ErrUnknownBranch)
	_, err = uc.Withdrawals(ctx, dto.WithdrawalsQuery{BranchID: 1, RegisterNo: 1, From: "2026-03-04", To: "2026-03-03"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Withdrawals(ctx, dto.WithdrawalsQuery{BranchID: 1, From: "2026-03-01", To: "2026-03-03"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
