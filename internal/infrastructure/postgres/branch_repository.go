package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.BranchRepository      = (*BranchRepo)(nil)
	_ repository.BranchStockRepository = (*BranchStockRepo)(nil)
)

// BranchRepo lee las sucursales (tabla empresa).
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador de sucursales.
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

const branchColumns = `id, sucursal, COALESCE(infoenvio, ''), appvisible, COALESCE(telefonowhatsapp, '')`

func scanBranch(row rowScanner) (*entity.Branch, error) {
	var b entity.Branch
	if err := row.Scan(&b.ID, &b.Name, &b.ShippingInfo, &b.AppVisible, &b.WhatsApp); err != nil {
		return nil, err
	}
	return &b, nil
}

// List devuelve las sucursales; appOnly filtra las visibles en la app.
func (r *BranchRepo) List(ctx context.Context, appOnly bool) ([]entity.Branch, error) {
	rows, err := r.q.Query(ctx, `SELECT `+branchColumns+` FROM empresa WHERE NOT $1 OR appvisible ORDER BY id`, appOnly)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()
	var out []entity.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// GetByID obtiene una sucursal. nil, nil si no existe.
func (r *BranchRepo) GetByID(ctx context.Context, id int) (*entity.Branch, error) {
	b, err := scanBranch(r.q.QueryRow(ctx, `SELECT `+branchColumns+` FROM empresa WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return b, nil
}

// BranchStockRepo existencias por sucursal sobre las tablas almN (usable con pool o tx).
type BranchStockRepo struct {
	q     Querier
	parts *BranchPartitions
}

// NewBranchStockRepository construye el adaptador de existencias. Pasar pool o tx (Querier).
func NewBranchStockRepository(q Querier, parts *BranchPartitions) *BranchStockRepo {
	return &BranchStockRepo{q: q, parts: parts}
}

func (r *BranchStockRepo) get(ctx context.Context, branchID int, code string, forUpdate bool) (*entity.BranchStock, error) {
	table, err := r.parts.Table(branchID)
	if err != nil {
		return nil, err
	}
	query := `SELECT clave, exispventas, exisbodega, activo FROM ` + table + ` WHERE clave = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	s := entity.BranchStock{BranchID: branchID}
	err = r.q.QueryRow(ctx, query, code).Scan(&s.Code, &s.Sellable, &s.Cases, &s.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.BranchStock{BranchID: branchID, Code: code, Sellable: decimal.Zero, Cases: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get branch stock: %w", err)
	}
	return &s, nil
}

// Get obtiene la existencia actual de un producto en una sucursal.
func (r *BranchStockRepo) Get(ctx context.Context, branchID int, code string) (*entity.BranchStock, error) {
	return r.get(ctx, branchID, code, false)
}

// GetForUpdate obtiene la existencia y bloquea la fila para update (SELECT FOR UPDATE).
func (r *BranchStockRepo) GetForUpdate(ctx context.Context, branchID int, code string) (*entity.BranchStock, error) {
	return r.get(ctx, branchID, code, true)
}

// SetSellable escribe la existencia de piso de venta.
func (r *BranchStockRepo) SetSellable(ctx context.Context, branchID int, code string, qty decimal.Decimal) error {
	table, err := r.parts.Table(branchID)
	if err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, `UPDATE `+table+` SET exispventas = $2 WHERE clave = $1`, code, qty); err != nil {
		return fmt.Errorf("set sellable stock: %w", err)
	}
	return nil
}

// Update escribe piso de venta, cajas y estado; crea la fila si la sucursal no la tenía.
func (r *BranchStockRepo) Update(ctx context.Context, s *entity.BranchStock) error {
	table, err := r.parts.Table(s.BranchID)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO ` + table + ` (clave, exispventas, exisbodega, activo)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (clave)
		DO UPDATE SET exispventas = EXCLUDED.exispventas, exisbodega = EXCLUDED.exisbodega, activo = EXCLUDED.activo`
	if _, err := r.q.Exec(ctx, query, s.Code, s.Sellable, s.Cases, s.Active); err != nil {
		return fmt.Errorf("update branch stock: %w", err)
	}
	return nil
}

// Provision crea el registro en cero e inactivo del producto en la sucursal.
// Si la sucursal ya tenía fila para la clave se conserva tal cual.
func (r *BranchStockRepo) Provision(ctx context.Context, branchID int, code string) error {
	table, err := r.parts.Table(branchID)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO ` + table + ` (clave, exispventas, exisbodega, activo)
		VALUES ($1, 0, 0, false)
		ON CONFLICT (clave) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, code); err != nil {
		return fmt.Errorf("provision branch stock %d: %w", branchID, err)
	}
	return nil
}
