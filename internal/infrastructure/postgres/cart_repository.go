package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carrito por cliente anónimo (tabla cart).
type CartRepo struct {
	q     Querier
	parts *BranchPartitions
}

// NewCartRepository construye el adaptador del carrito. Pasar pool o tx (Querier).
func NewCartRepository(q Querier, parts *BranchPartitions) *CartRepo {
	return &CartRepo{q: q, parts: parts}
}

// Lock toma un advisory lock transaccional por cliente; se libera con commit/rollback.
// Fuera de una transacción el lock se libera al terminar la sentencia, así que solo
// tiene sentido llamarlo con un Querier de tx.
func (r *CartRepo) Lock(ctx context.Context, clientID string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, "cart:"+clientID); err != nil {
		return fmt.Errorf("lock cart: %w", err)
	}
	return nil
}

func (r *CartRepo) Lines(ctx context.Context, clientID string) ([]entity.CartLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT ip_add, p_id, qty, p_price, num_suc
		FROM cart WHERE ip_add = $1
		ORDER BY p_id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()
	var out []entity.CartLine
	for rows.Next() {
		var l entity.CartLine
		if err := rows.Scan(&l.ClientID, &l.ProductID, &l.Quantity, &l.Price, &l.BranchID); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Items devuelve las líneas con datos del producto y la existencia en la sucursal del carrito.
func (r *CartRepo) Items(ctx context.Context, clientID string) ([]entity.CartItemView, error) {
	var branchID int
	err := r.q.QueryRow(ctx, `SELECT num_suc FROM cart WHERE ip_add = $1 LIMIT 1`, clientID).Scan(&branchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart branch: %w", err)
	}
	table, err := r.parts.Table(branchID)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT c.ip_add, c.p_id, c.qty, c.p_price, c.num_suc,
			p.clave, p.descripcion, COALESCE(p.foto, ''),
			p.precio1, p.precio2, p.precio3, p.min1, p.min2, p.min3,
			COALESCE(a.exispventas, 0)
		FROM cart c
		JOIN productos p ON p.id = c.p_id
		LEFT JOIN ` + table + ` a ON a.clave = p.clave
		WHERE c.ip_add = $1
		ORDER BY p.clave`
	rows, err := r.q.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()
	var out []entity.CartItemView
	for rows.Next() {
		var it entity.CartItemView
		if err := rows.Scan(
			&it.ClientID, &it.ProductID, &it.Quantity, &it.Price, &it.BranchID,
			&it.Code, &it.Description, &it.Photo,
			&it.Prices[0], &it.Prices[1], &it.Prices[2], &it.Minimums[0], &it.Minimums[1], &it.Minimums[2],
			&it.Available,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Upsert inserta la línea o reemplaza cantidad, precio y sucursal.
func (r *CartRepo) Upsert(ctx context.Context, l *entity.CartLine) error {
	query := `
		INSERT INTO cart (ip_add, p_id, qty, p_price, num_suc)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ip_add, p_id)
		DO UPDATE SET qty = EXCLUDED.qty, p_price = EXCLUDED.p_price, num_suc = EXCLUDED.num_suc`
	if _, err := r.q.Exec(ctx, query, l.ClientID, l.ProductID, l.Quantity, l.Price, l.BranchID); err != nil {
		return fmt.Errorf("upsert cart line: %w", err)
	}
	return nil
}

func (r *CartRepo) Remove(ctx context.Context, clientID string, productID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM cart WHERE ip_add = $1 AND p_id = $2`, clientID, productID); err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	return nil
}

func (r *CartRepo) Clear(ctx context.Context, clientID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM cart WHERE ip_add = $1`, clientID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Count suma las cantidades del carrito (0 si está vacío).
func (r *CartRepo) Count(ctx context.Context, clientID string) (int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(qty), 0)::bigint FROM cart WHERE ip_add = $1`, clientID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count cart: %w", err)
	}
	return total, nil
}
