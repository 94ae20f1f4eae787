package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/jhoicas/mayoreo-api/internal/application/catalog"
	"github.com/jhoicas/mayoreo-api/internal/application/inventory"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/testutil/memdb"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func windows1252(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestReadProducts_DecodificaWindows1252(t *testing.T) {
	data := windows1252(t, "clave;descripcion;cb;clave_pro;tipo;pcosto;pzasxcaja;precio1;precio2;precio3;min1;min2;min3\n"+
		"100;Cuaderno raya ñandú;750100;PRV-1;PAPELERIA;10,50;24;$1,234.50;18;15;0;3;10\n"+
		"\n"+
		"200;Lápiz;;;;2;12;5\n")

	rows, bad, err := readProducts(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, bad)
	require.Len(t, rows, 2)

	assert.Equal(t, "100", rows[0].Code)
	assert.Equal(t, "Cuaderno raya ñandú", rows[0].Description)
	assert.Equal(t, "PAPELERIA", rows[0].Type)
	assert.True(t, rows[0].Cost.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, rows[0].Prices[0].Equal(decimal.RequireFromString("1234.50")))
	assert.True(t, rows[0].Minimums[2].Equal(decimal.NewFromInt(10)))

	assert.Equal(t, "Lápiz", rows[1].Description)
	assert.True(t, rows[1].Prices[1].IsZero(), "columnas faltantes valen cero")
}

func TestReadProducts_FilasInvalidasSeReportan(t *testing.T) {
	data := windows1252(t, "100;Cuaderno;;;;abc;1;2\n300;Corta\n400;Goma;;;;1;1;3\n")

	rows, bad, err := readProducts(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "400", rows[0].Code)
	require.Len(t, bad, 2)
	assert.Equal(t, 1, bad[0].Line)
	assert.Equal(t, 2, bad[1].Line)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"12", "12"},
		{"12,5", "12.5"},
		{"1,234.50", "1234.5"},
		{" $99.90 ", "99.9"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%s != %s", got, tt.want)
		})
	}
	_, err := parseAmount("doce")
	assert.Error(t, err)
}

func TestImportAll_AltaEnTodasLasSucursalesYDuplicados(t *testing.T) {
	store := memdb.New(3)
	store.AddProduct(entity.Product{Code: "100", Description: "EXISTENTE", Status: true})
	inv := inventory.NewUseCase(store, store.Stock(), store.Products(), store)
	uc := catalog.NewUseCase(store, store.Products(), store.Types(), store.Settings(), store.Branches(), store, inv, zerolog.Nop())

	rows, _, err := readProducts(bytes.NewReader(windows1252(t, "100;Cuaderno;;;;1;1;2\n200;Lápiz;;;;1;1;3\n;Sin clave;;;;1;1;1\n")))
	require.NoError(t, err)

	res := importAll(context.Background(), uc, rows, zerolog.Nop())
	assert.Equal(t, 1, res.created)
	assert.Equal(t, 1, res.duplicates)
	assert.Equal(t, 1, res.failed)

	for _, branch := range []int{1, 2, 3} {
		stock, ok := store.StockOf(branch, "200")
		require.True(t, ok, "sucursal %d", branch)
		assert.False(t, stock.Active)
		assert.True(t, stock.Sellable.IsZero())
	}
}
