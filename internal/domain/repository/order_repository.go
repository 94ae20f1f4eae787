package repository

import (
	"context"

	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia de pedidos (cabecera y líneas).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateLine(ctx context.Context, line *entity.OrderLine) error
	GetByInvoice(ctx context.Context, invoiceNo int64) (*entity.Order, error)
}
