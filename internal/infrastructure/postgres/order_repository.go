package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos pendientes: cabecera (pending_orders) y líneas (pending_order_lines).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera. Un folio repetido se reporta como CONFLICT.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO pending_orders (invoice_no, customer_id, num_suc, total_qty, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, o.InvoiceNo, o.CustomerID, o.BranchID, o.TotalQty, o.Total, o.Status, o.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict.WithMessage("folio de pedido repetido, intente de nuevo")
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) CreateLine(ctx context.Context, l *entity.OrderLine) error {
	query := `
		INSERT INTO pending_order_lines (invoice_no, product_id, qty, p_price, num_suc, status)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, l.InvoiceNo, l.ProductID, l.Quantity, l.Price, l.BranchID, l.Status); err != nil {
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

// GetByInvoice devuelve cabecera y líneas. nil, nil si el folio no existe.
func (r *OrderRepo) GetByInvoice(ctx context.Context, invoiceNo int64) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx, `
		SELECT invoice_no, customer_id, num_suc, total_qty, total, status, created_at
		FROM pending_orders WHERE invoice_no = $1`, invoiceNo,
	).Scan(&o.InvoiceNo, &o.CustomerID, &o.BranchID, &o.TotalQty, &o.Total, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT l.invoice_no, l.product_id, p.clave, p.descripcion, l.qty, l.p_price, l.num_suc, l.status
		FROM pending_order_lines l
		JOIN productos p ON p.id = l.product_id
		WHERE l.invoice_no = $1
		ORDER BY p.clave`, invoiceNo)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.InvoiceNo, &l.ProductID, &l.Code, &l.Description, &l.Quantity, &l.Price, &l.BranchID, &l.Status); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	return &o, rows.Err()
}
