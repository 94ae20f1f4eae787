package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
)

func TestRenderOrderTicket(t *testing.T) {
	o := &entity.Order{
		InvoiceNo: 1760000000000123,
		BranchID:  1,
		TotalQty:  5,
		Total:     decimal.RequireFromString("80.00"),
		Status:    entity.OrderStatusPending,
		CreatedAt: time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
		Lines: []entity.OrderLine{
			{ProductID: 1, Code: "A1", Description: "CUADERNO", Quantity: 3, Price: decimal.NewFromInt(20)},
			{ProductID: 2, Code: "B2", Description: "LÁPIZ", Quantity: 2, Price: decimal.NewFromInt(10)},
		},
	}
	out, err := NewOrderTicketGenerator().RenderOrderTicket(o, &entity.Branch{ID: 1, Name: "Centro", WhatsApp: "5215550001"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"999.5", "$999.50"},
		{"25000", "$25,000.00"},
		{"1234567.891", "$1,234,567.89"},
		{"-1234.5", "-$1,234.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)), tt.in)
	}
}
