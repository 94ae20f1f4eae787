package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/application/inventory"
	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/testutil/memdb"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newUseCase(t *testing.T) (*memdb.Store, *UseCase) {
	t.Helper()
	store := memdb.New(3)
	store.AddBranch(entity.Branch{ID: 1, Name: "Centro", WhatsApp: "5215550001", AppVisible: true})
	store.AddBranch(entity.Branch{ID: 2, Name: "Norte", AppVisible: true})
	store.AddBranch(entity.Branch{ID: 3, Name: "Bodega"})
	store.AddProductType(entity.ProductType{Description: "PAPELERIA", Letter: "P", Consecutive: 4})
	store.SetBarcodeCounter(7501000)
	inv := inventory.NewUseCase(store, store.Stock(), store.Products(), store)
	uc := NewUseCase(store, store.Products(), store.Types(), store.Settings(), store.Branches(), store, inv, zerolog.Nop())
	return store, uc
}

func createReq(code, barcode string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Code: code,
		ProductInput: dto.ProductInput{
			Description:  "cuaderno ñandú",
			Barcode:      barcode,
			Type:         "PAPELERIA",
			Cost:         dec(16),
			PiecesPerBox: dec(12),
			Prices:       [3]decimal.Decimal{dec(20), dec(18), decimal.Zero},
			Minimums:     [3]decimal.Decimal{decimal.Zero, dec(6), decimal.Zero},
			Status:       true,
			Active:       true,
		},
	}
}

func TestCreateProduct_AltaEnTodasLasSucursales(t *testing.T) {
	store, uc := newUseCase(t)

	out, err := uc.CreateProduct(context.Background(), createReq("1001", "7501000"))
	require.NoError(t, err)
	assert.Equal(t, "CUADERNO ÑANDÚ", out.Description)
	assert.True(t, dec(4).Equal(out.Utilities[0]))
	assert.True(t, dec(25).Equal(out.UtilityPcts[0]))
	assert.True(t, out.Utilities[2].IsZero())

	for _, id := range store.IDs() {
		s, ok := store.StockOf(id, "1001")
		require.True(t, ok, "sucursal %d sin registro", id)
		assert.True(t, s.Sellable.IsZero())
		assert.False(t, s.Active)
	}
	assert.Equal(t, int64(5), store.ProductType("PAPELERIA").Consecutive)
	assert.Equal(t, int64(7501001), store.BarcodeCounter())
}

func TestCreateProduct_CodigoDeBarrasPropioNoAvanzaElContador(t *testing.T) {
	store, uc := newUseCase(t)

	_, err := uc.CreateProduct(context.Background(), createReq("1001", "123456"))
	require.NoError(t, err)
	assert.Equal(t, int64(7501000), store.BarcodeCounter())
}

func TestCreateProduct_ClaveDuplicada(t *testing.T) {
	store, uc := newUseCase(t)
	_, err := uc.CreateProduct(context.Background(), createReq("1001", ""))
	require.NoError(t, err)
	writes := store.Writes()

	_, err = uc.CreateProduct(context.Background(), createReq("1001", ""))
	require.ErrorIs(t, err, domain.ErrDuplicateCode)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Equal(t, writes, store.Writes())
}

func TestCreateProduct_FalloEnUnaSucursalRevierteTodo(t *testing.T) {
	store, uc := newUseCase(t)
	store.FailOn("stock.Provision", errors.New("tabla bloqueada"))

	_, err := uc.CreateProduct(context.Background(), createReq("1001", "7501000"))
	require.Error(t, err)

	p, err := store.Products().GetByCode(context.Background(), "1001")
	require.NoError(t, err)
	assert.Nil(t, p)
	for _, id := range store.IDs() {
		_, ok := store.StockOf(id, "1001")
		assert.False(t, ok)
	}
	assert.Equal(t, int64(4), store.ProductType("PAPELERIA").Consecutive)
	assert.Equal(t, int64(7501000), store.BarcodeCounter())
}

func TestCreateProduct_Validaciones(t *testing.T) {
	_, uc := newUseCase(t)

	tests := []struct {
		name string
		mod  func(r *dto.CreateProductRequest)
	}{
		{"sin clave", func(r *dto.CreateProductRequest) { r.Code = " " }},
		{"sin descripción", func(r *dto.CreateProductRequest) { r.Description = "" }},
		{"costo negativo", func(r *dto.CreateProductRequest) { r.Cost = dec(-1) }},
		{"precio negativo", func(r *dto.CreateProductRequest) { r.Prices[1] = dec(-5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createReq("2001", "")
			tt.mod(&req)
			_, err := uc.CreateProduct(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUpdateProduct_ExistenciasPorSucursal(t *testing.T) {
	store, uc := newUseCase(t)
	ctx := context.Background()
	_, err := uc.CreateProduct(ctx, createReq("1001", "7501000"))
	require.NoError(t, err)

	in := dto.UpdateProductRequest{
		ProductInput: createReq("", "").ProductInput,
		Stock: []dto.BranchStockInput{
			{BranchID: 1, Sellable: dec(5), Cases: dec(2), Active: true},
			{BranchID: 3, Sellable: dec(1), Active: true},
		},
	}
	in.Cost = dec(10)
	out, err := uc.UpdateProduct(ctx, "1001", in)
	require.NoError(t, err)
	assert.True(t, dec(10).Equal(out.Utilities[0]))
	assert.True(t, dec(100).Equal(out.UtilityPcts[0]))

	require.Len(t, out.Stock, 3)
	assert.True(t, dec(29).Equal(out.Stock[0].Total))
	assert.True(t, out.Stock[1].Sellable.IsZero())
	assert.True(t, out.Stock[2].Active)

	admin, err := uc.AdminInventory(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, admin.Items, 1)
	assert.Equal(t, int64(29), admin.Items[0].Totals[1])
	assert.Equal(t, int64(1), admin.Items[0].Totals[3])

	s, _ := store.StockOf(1, "1001")
	assert.True(t, dec(5).Equal(s.Sellable))
}

func TestUpdateProduct_ExistenciaNegativaNoEscribe(t *testing.T) {
	store, uc := newUseCase(t)
	ctx := context.Background()
	_, err := uc.CreateProduct(ctx, createReq("1001", "7501000"))
	require.NoError(t, err)
	writes := store.Writes()

	in := dto.UpdateProductRequest{
		ProductInput: createReq("", "").ProductInput,
		Stock:        []dto.BranchStockInput{{BranchID: 1, Sellable: dec(-1)}},
	}
	_, err = uc.UpdateProduct(ctx, "1001", in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, writes, store.Writes())

	in.Stock = []dto.BranchStockInput{{BranchID: 9, Sellable: dec(1)}}
	_, err = uc.UpdateProduct(ctx, "1001", in)
	assert.ErrorIs(t, err, domain.ErrUnknownBranch)

	in.Stock = nil
	_, err = uc.UpdateProduct(ctx, "9999", in)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestStoreInventory_PaginaDeDiez(t *testing.T) {
	store, uc := newUseCase(t)
	for i := 0; i < 12; i++ {
		code := fmt.Sprintf("%d", 100+i)
		store.AddProduct(entity.Product{Code: code, Description: fmt.Sprintf("ART %02d", i), Status: true, Active: true})
		store.SetStock(1, code, 3)
	}
	store.AddProduct(entity.Product{Code: "900", Description: "SIN EXISTENCIA", Status: true})
	store.SetStock(1, "900", 0)

	first, err := uc.StoreInventory(context.Background(), "", dto.PageRequest{Page: 0}, 1)
	require.NoError(t, err)
	assert.Len(t, first.Items, StorePageSize)
	assert.Equal(t, "ART 00", first.Items[0].Description)
	assert.Equal(t, int64(3), first.Items[0].Available)

	second, err := uc.StoreInventory(context.Background(), "", dto.PageRequest{Page: 1}, 1)
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)

	found, err := uc.StoreInventory(context.Background(), "art 11", dto.PageRequest{}, 1)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "111", found.Items[0].Code)

	_, err = uc.StoreInventory(context.Background(), "", dto.PageRequest{}, 7)
	assert.ErrorIs(t, err, domain.ErrUnknownBranch)
}

func TestConsultas(t *testing.T) {
	store, uc := newUseCase(t)
	ctx := context.Background()
	store.AddProduct(entity.Product{Code: "41", Description: "GOMA", Status: true})
	store.SetStock(2, "41", 8)

	detail, err := uc.GetProductByCode(ctx, "41")
	require.NoError(t, err)
	require.Len(t, detail.Stock, 3)
	assert.True(t, dec(8).Equal(detail.Stock[1].Sellable))

	_, err = uc.GetProductByCode(ctx, "42")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	next, err := uc.NextCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), next.Next)

	cb, err := uc.NextBarcode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7501000", cb.Barcode)

	contact, err := uc.GetBranchContact(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "5215550001", contact.WhatsApp)

	branches, err := uc.ListBranches(ctx, true)
	require.NoError(t, err)
	assert.Len(t, branches, 2)

	types, err := uc.ListProductTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "P", types[0].Letter)
}

func TestAvailability(t *testing.T) {
	store, uc := newUseCase(t)
	ctx := context.Background()
	_, err := uc.CreateProduct(ctx, createReq("1001", "7501000"))
	require.NoError(t, err)
	store.SetStock(2, "1001", 8)

	out, err := uc.Availability(ctx, "1001", 2)
	require.NoError(t, err)
	assert.Equal(t, "1001", out.Code)
	assert.True(t, dec(8).Equal(out.Available))

	out, err = uc.Availability(ctx, "1001", 1)
	require.NoError(t, err)
	assert.True(t, out.Available.IsZero())

	_, err = uc.Availability(ctx, "1001", 9)
	require.ErrorIs(t, err, domain.ErrUnknownBranch)
	_, err = uc.Availability(ctx, "nada", 1)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = uc.Availability(ctx, "  ", 1)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
