package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/testutil/memdb"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []PlacedEvent
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(ctx context.Context, evt PlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

type fixture struct {
	store *memdb.Store
	pub   *recordingPublisher
	uc    *UseCase
	a, b  int64
}

func sequentialFolio(start int64) FolioGenerator {
	var mu sync.Mutex
	next := start
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		next++
		return next
	}
}

func newFixture(t *testing.T, policy StockPolicy) *fixture {
	t.Helper()
	store := memdb.New(2)
	store.AddBranch(entity.Branch{ID: 1, Name: "Centro", WhatsApp: "5215550001"})
	store.AddBranch(entity.Branch{ID: 2, Name: "Norte", WhatsApp: "5215550002"})
	a := store.AddProduct(entity.Product{Code: "A1", Description: "CUADERNO", Status: true, Prices: [3]decimal.Decimal{decimal.NewFromInt(20)}})
	b := store.AddProduct(entity.Product{Code: "B2", Description: "LAPIZ", Status: true, Prices: [3]decimal.Decimal{decimal.NewFromInt(5)}})
	store.SetStock(1, "A1", 10)
	store.SetStock(1, "B2", 4)
	store.SetStock(2, "A1", 10)

	pub := &recordingPublisher{}
	fixed := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	uc := NewUseCase(store, store.Cart(), store.Orders(), store.Branches(), store, pub, nil, zerolog.Nop(), Options{
		StockPolicy: policy,
		Folio:       sequentialFolio(1000),
		Now:         func() time.Time { return fixed },
	})
	return &fixture{store: store, pub: pub, uc: uc, a: a, b: b}
}

func (f *fixture) putLine(t *testing.T, client string, product int64, branch int, qty, price int64) {
	t.Helper()
	require.NoError(t, f.store.Cart().Upsert(context.Background(), &entity.CartLine{
		ClientID: client, ProductID: product, Quantity: qty, Price: decimal.NewFromInt(price), BranchID: branch,
	}))
}

func (f *fixture) place(client string, branch int) (*dto.PlaceOrderResponse, error) {
	return f.uc.PlaceOrder(context.Background(), dto.PlaceOrderRequest{ClientID: client, CustomerID: 7, BranchID: branch})
}

func TestPlaceOrder_CarritoVacioNoEscribe(t *testing.T) {
	f := newFixture(t, PolicyAdmission)
	writes, txs := f.store.Writes(), f.store.TxCount()

	_, err := f.place("c1", 1)
	require.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, writes, f.store.Writes())
	assert.Equal(t, txs, f.store.TxCount())
	assert.Empty(t, f.store.AllOrders())
}

func TestPlaceOrder_ExitoCreaPedidoYVaciaCarrito(t *testing.T) {
	f := newFixture(t, PolicyAdmission)
	f.putLine(t, "c1", f.a, 1, 3, 20)
	f.putLine(t, "c1", f.b, 1, 4, 5)

	resp, err := f.place("c1", 1)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(1001), resp.InvoiceNo)
	assert.Equal(t, "5215550001", resp.WhatsAppPhone)
	assert.Equal(t, int64(7), resp.TotalQty)
	assert.True(t, decimal.NewFromInt(80).Equal(resp.Total))

	orders := f.store.AllOrders()
	require.Len(t, orders, 1)
	assert.Equal(t, entity.OrderStatusPending, orders[0].Status)
	assert.Len(t, orders[0].Lines, 2)
	assert.Empty(t, f.store.CartLines("c1"))

	// Política de admisión: la existencia no se toca.
	s, _ := f.store.StockOf(1, "A1")
	assert.True(t, decimal.NewFromInt(10).Equal(s.Sellable))

	require.Len(t, f.pub.events, 1)
	evt := f.pub.events[0]
	assert.Equal(t, int64(1001), evt.InvoiceNo)
	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, string(PolicyAdmission), evt.StockPolicy)
	assert.Len(t, evt.Lines, 2)
}

func TestPlaceOrder_FaltanteReportaTodasLasLineasYRevierte(t *testing.T) {
	f := newFixture(t, PolicyAdmission)
	f.putLine(t, "c1", f.a, 1, 3, 20)
	f.putLine(t, "c1", f.b, 1, 4, 5)
	f.store.SetStock(1, "A1", 2)
	f.store.SetStock(1, "B2", 1)
	before := f.store.CartLines("c1")

	_, err := f.place("c1", 1)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	de, ok := domain.AsError(err)
	require.True(t, ok)
	require.Len(t, de.Shortages, 2)
	assert.Equal(t, "A1", de.Shortages[0].Code)
	assert.Equal(t, int64(3), de.Shortages[0].Requested)
	assert.True(t, decimal.NewFromInt(2).Equal(de.Shortages[0].Available))
	assert.Equal(t, "B2", de.Shortages[1].Code)

	assert.Empty(t, f.store.AllOrders())
	assert.Equal(t, before, f.store.CartLines("c1"))
	assert.Empty(t, f.pub.events)
}

func TestPlaceOrder_FalloIntermedioRevierteTodo(t *testing.T) {
	f := newFixture(t, PolicyReserve)
	f.putLine(t, "c1", f.a, 1, 3, 20)
	f.putLine(t, "c1", f.b, 1, 4, 5)
	f.store.FailOn("order.CreateLine", errors.New("conexión perdida"))

	_, err := f.place("c1", 1)
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))

	assert.Empty(t, f.store.AllOrders())
	assert.Len(t, f.store.CartLines("c1"), 2)
	s, _ := f.store.StockOf(1, "A1")
	assert.True(t, decimal.NewFromInt(10).Equal(s.Sellable))
}

func TestPlaceOrder_FalloAlVaciarCarritoRevierteElPedido(t *testing.T) {
	f := newFixture(t, PolicyAdmission)
	f.putLine(t, "c1", f.a, 1, 1, 20)
	f.store.FailOn("cart.Clear", errors.New("timeout"))

	_, err := f.place("c1", 1)
	require.Error(t, err)
	assert.Empty(t, f.store.AllOrders())
	assert.Len(t, f.store.CartLines("c1"), 1)
}

func TestPlaceOrder_ReservaDescuentaExistencia(t *testing.T) {
	f := newFixture(t, PolicyReserve)
	f.putLine(t, "c1", f.a, 1, 3, 20)

	_, err := f.place("c1", 1)
	require.NoError(t, err)
	s, _ := f.store.StockOf(1, "A1")
	assert.True(t, decimal.NewFromInt(7).Equal(s.Sellable))
}

func TestPlaceOrder_SucursalDistintaAlCarrito(t *testing.T) {
	f := newFixture(t, PolicyAdmission)
	f.putLine(t, "c1", f.a, 2, 1, 20)

	_, err := f.place("c1", 1)
	require.ErrorIs(t, err, domain.ErrDifferentBranch)
	assert.Empty(t, f.store.AllOrders())
	assert.Len(t, f.store.CartLines("c1"), 1)
}

func TestPlaceOrder_EntradaInvalida(t *testing.T) {
	f := newFixture(t, PolicyAdmission)

	_, err := f.place("  ", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.place("c1", 9)
	assert.ErrorIs(t, err, domain.ErrUnknownBranch)
}

func TestPlaceOrder_FalloDelPublicadorNoAfectaElPedido(t *testing.T) {
	f := newFixture(t, PolicyAdmission)
	f.pub.err = errors.New("broker caído")
	f.putLine(t, "c1", f.a, 1, 1, 20)

	resp, err := f.place("c1", 1)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Len(t, f.store.AllOrders(), 1)
}

func TestPlaceOrder_ReservaConcurrenteNoSobrevende(t *testing.T) {
	f := newFixture(t, PolicyReserve)
	f.putLine(t, "c1", f.a, 1, 6, 20)
	f.putLine(t, "c2", f.a, 1, 6, 20)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, client := range []string{"c1", "c2"} {
		wg.Add(1)
		go func(i int, client string) {
			defer wg.Done()
			_, errs[i] = f.place(client, 1)
		}(i, client)
	}
	wg.Wait()

	var ok, short int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			short++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, short)
	s, _ := f.store.StockOf(1, "A1")
	assert.True(t, decimal.NewFromInt(4).Equal(s.Sellable))
}

// Con admisión cada pedido se valida contra la existencia sin descontarla:
// dos carritos que juntos superan la existencia se confirman ambos.
func TestPlaceOrder_AdmisionNoDescuentaYAdmiteAmbosPedidos(t *testing.T) {
	f := newFixture(t, PolicyAdmission)
	f.store.SetStock(1, "A1", 5)
	f.putLine(t, "c1", f.a, 1, 4, 20)
	f.putLine(t, "c2", f.a, 1, 4, 20)

	first, err := f.place("c1", 1)
	require.NoError(t, err)
	second, err := f.place("c2", 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.InvoiceNo, second.InvoiceNo)

	assert.Len(t, f.store.AllOrders(), 2)
	s, _ := f.store.StockOf(1, "A1")
	assert.True(t, decimal.NewFromInt(5).Equal(s.Sellable))
	assert.Empty(t, f.store.CartLines("c1"))
	assert.Empty(t, f.store.CartLines("c2"))
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t, PolicyAdmission)
	f.putLine(t, "c1", f.a, 1, 2, 20)
	resp, err := f.place("c1", 1)
	require.NoError(t, err)

	o, err := f.uc.GetOrder(context.Background(), resp.InvoiceNo)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, o.Status)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, "A1", o.Lines[0].Code)
	assert.True(t, decimal.NewFromInt(40).Equal(o.Lines[0].Subtotal))

	_, err = f.uc.GetOrder(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	_, err = f.uc.GetOrder(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewTimeFolio_Creciente(t *testing.T) {
	gen := NewTimeFolio()
	first := gen()
	assert.Greater(t, first, int64(1_000_000_000_000_000))
	time.Sleep(2 * time.Millisecond)
	assert.Greater(t, gen(), first)
}
