package inventory

import (
	"context"
	"testing"

	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/testutil/memdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*memdb.Store, *UseCase) {
	t.Helper()
	store := memdb.New(2)
	store.AddBranch(entity.Branch{ID: 1, Name: "Centro"})
	store.AddBranch(entity.Branch{ID: 2, Name: "Norte"})
	store.AddProduct(entity.Product{Code: "100", Description: "CUADERNO", Status: true, PiecesPerBox: decimal.NewFromInt(12)})
	store.SetStock(1, "100", 5)
	return store, NewUseCase(store, store.Stock(), store.Products(), store)
}

// ─── GetAvailable ───────────────────────────────────────────────────────────

func TestGetAvailable(t *testing.T) {
	_, uc := newStore(t)
	ctx := context.Background()

	got, err := uc.GetAvailable(ctx, 1, "100")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(got))

	// Sin fila en la sucursal la existencia es cero.
	got, err = uc.GetAvailable(ctx, 2, "100")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = uc.GetAvailable(ctx, 9, "100")
	require.ErrorIs(t, err, domain.ErrUnknownBranch)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

// ─── Decrement ──────────────────────────────────────────────────────────────

func TestDecrement_Exito(t *testing.T) {
	store, uc := newStore(t)

	require.NoError(t, uc.Decrement(context.Background(), 1, "100", 3))
	s, _ := store.StockOf(1, "100")
	assert.True(t, decimal.NewFromInt(2).Equal(s.Sellable))

	// Hasta dejarla en cero.
	require.NoError(t, uc.Decrement(context.Background(), 1, "100", 2))
	s, _ = store.StockOf(1, "100")
	assert.True(t, s.Sellable.IsZero())
}

func TestDecrement_CantidadNoPositiva(t *testing.T) {
	store, uc := newStore(t)

	for _, amount := range []int64{0, -1} {
		err := uc.Decrement(context.Background(), 1, "100", amount)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	}
	s, _ := store.StockOf(1, "100")
	assert.True(t, decimal.NewFromInt(5).Equal(s.Sellable))
}

func TestDecrement_MasQueLaExistenciaNoModificaLaFila(t *testing.T) {
	store, uc := newStore(t)
	writes := store.Writes()

	err := uc.Decrement(context.Background(), 1, "100", 6)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	de, ok := domain.AsError(err)
	require.True(t, ok)
	require.NotNil(t, de.Available)
	assert.Equal(t, int64(5), *de.Available)

	s, _ := store.StockOf(1, "100")
	assert.True(t, decimal.NewFromInt(5).Equal(s.Sellable))
	assert.Equal(t, writes, store.Writes())
}

func TestDecrement_SinFilaEsExistenciaCero(t *testing.T) {
	_, uc := newStore(t)

	err := uc.Decrement(context.Background(), 2, "100", 1)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	de, _ := domain.AsError(err)
	assert.Equal(t, int64(0), *de.Available)
}

func TestDecrement_SucursalDesconocida(t *testing.T) {
	store, uc := newStore(t)
	txs := store.TxCount()

	err := uc.Decrement(context.Background(), 9, "100", 1)
	require.ErrorIs(t, err, domain.ErrUnknownBranch)
	assert.Equal(t, txs, store.TxCount())
}

func TestDecrementInTx_NuncaDejaNegativo(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		_ = DecrementInTx(ctx, store.Stock(), 1, "100", 2)
		s, _ := store.StockOf(1, "100")
		assert.False(t, s.Sellable.IsNegative())
	}
	s, _ := store.StockOf(1, "100")
	assert.True(t, decimal.NewFromInt(1).Equal(s.Sellable))
}

// ─── Levels ─────────────────────────────────────────────────────────────────

func TestLevels(t *testing.T) {
	_, uc := newStore(t)

	levels, err := uc.Levels(context.Background(), "100")
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, 1, levels[0].BranchID)
	assert.True(t, decimal.NewFromInt(5).Equal(levels[0].Total))
	assert.Equal(t, 2, levels[1].BranchID)
	assert.True(t, levels[1].Sellable.IsZero())

	_, err = uc.Levels(context.Background(), "nada")
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}
