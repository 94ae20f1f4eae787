package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id, p.clave, p.descripcion, p.cb, p.clave_pro, p.tipo, p.pcosto, p.pzasxcaja,
	p.precio1, p.precio2, p.precio3, p.min1, p.min2, p.min3,
	p.util1, p.util2, p.util3, p.porutil1, p.porutil2, p.porutil3,
	p.foto, p.status, p.activo, p.created_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q     Querier
	parts *BranchPartitions
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier, parts *BranchPartitions) *ProductRepo {
	return &ProductRepo{q: q, parts: parts}
}

func scanProduct(row rowScanner, extra ...any) (*entity.Product, error) {
	var p entity.Product
	dest := []any{
		&p.ID, &p.Code, &p.Description, &p.Barcode, &p.SupplierKey, &p.Type, &p.Cost, &p.PiecesPerBox,
		&p.Prices[0], &p.Prices[1], &p.Prices[2], &p.Minimums[0], &p.Minimums[1], &p.Minimums[2],
		&p.Utilities[0], &p.Utilities[1], &p.Utilities[2], &p.UtilityPcts[0], &p.UtilityPcts[1], &p.UtilityPcts[2],
		&p.Photo, &p.Status, &p.Active, &p.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto y completa ID y CreatedAt.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO productos (clave, descripcion, cb, clave_pro, tipo, pcosto, pzasxcaja,
			precio1, precio2, precio3, min1, min2, min3,
			util1, util2, util3, porutil1, porutil2, porutil3, foto, status, activo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		p.Code, p.Description, p.Barcode, p.SupplierKey, p.Type, p.Cost, p.PiecesPerBox,
		p.Prices[0], p.Prices[1], p.Prices[2], p.Minimums[0], p.Minimums[1], p.Minimums[2],
		p.Utilities[0], p.Utilities[1], p.Utilities[2], p.UtilityPcts[0], p.UtilityPcts[1], p.UtilityPcts[2],
		p.Photo, p.Status, p.Active,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID interno. nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM productos p WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByCode obtiene un producto por Clave. nil, nil si no existe.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM productos p WHERE p.clave = $1`, strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return p, nil
}

// Update modifica datos y utilidades del producto identificado por Clave.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE productos SET descripcion = $2, cb = $3, clave_pro = $4, tipo = $5, pcosto = $6, pzasxcaja = $7,
			precio1 = $8, precio2 = $9, precio3 = $10, min1 = $11, min2 = $12, min3 = $13,
			util1 = $14, util2 = $15, util3 = $16, porutil1 = $17, porutil2 = $18, porutil3 = $19,
			foto = $20, status = $21, activo = $22
		WHERE clave = $1`
	tag, err := r.q.Exec(ctx, query,
		p.Code, p.Description, p.Barcode, p.SupplierKey, p.Type, p.Cost, p.PiecesPerBox,
		p.Prices[0], p.Prices[1], p.Prices[2], p.Minimums[0], p.Minimums[1], p.Minimums[2],
		p.Utilities[0], p.Utilities[1], p.Utilities[2], p.UtilityPcts[0], p.UtilityPcts[1], p.UtilityPcts[2],
		p.Photo, p.Status, p.Active,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// NextCode calcula la siguiente Clave numérica disponible.
func (r *ProductRepo) NextCode(ctx context.Context) (int64, error) {
	var next int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(MAX(clave::bigint), 0) + 1
		FROM productos WHERE clave ~ '^[0-9]{1,18}$'`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next product code: %w", err)
	}
	return next, nil
}

// SearchStore lista los productos visibles en tienda con existencia en la sucursal.
func (r *ProductRepo) SearchStore(ctx context.Context, branchID int, q string, limit, offset int) ([]repository.StoreInventoryItem, error) {
	table, err := r.parts.Table(branchID)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + productColumns + `, COALESCE(a.exispventas, 0)
		FROM productos p
		LEFT JOIN ` + table + ` a ON a.clave = p.clave
		WHERE p.status AND COALESCE(a.exispventas, 0) > 0
		  AND ($1 = '' OR p.clave ILIKE $2 OR p.descripcion ILIKE $2 OR p.tipo ILIKE $2)
		ORDER BY p.descripcion ASC, p.id ASC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, strings.TrimSpace(q), likePattern(q), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search store inventory: %w", err)
	}
	defer rows.Close()

	var out []repository.StoreInventoryItem
	for rows.Next() {
		var avail decimal.Decimal
		p, err := scanProduct(rows, &avail)
		if err != nil {
			return nil, fmt.Errorf("scan store inventory: %w", err)
		}
		out = append(out, repository.StoreInventoryItem{Product: *p, Available: avail.Floor().IntPart()})
	}
	return out, rows.Err()
}

// SearchAdmin lista todos los productos con piezas totales por sucursal
// (piso de venta + cajas * PzasxCaja), buscando también en códigos de barras adicionales.
func (r *ProductRepo) SearchAdmin(ctx context.Context, q string, limit, offset int) ([]repository.AdminInventoryItem, error) {
	ids := r.parts.IDs()
	var cols, joins strings.Builder
	for _, id := range ids {
		table, err := r.parts.Table(id)
		if err != nil {
			return nil, err
		}
		alias := fmt.Sprintf("a%d", id)
		fmt.Fprintf(&cols, ", COALESCE(%[1]s.exispventas, 0) + COALESCE(%[1]s.exisbodega, 0) * COALESCE(NULLIF(p.pzasxcaja, 0), 1)", alias)
		fmt.Fprintf(&joins, "\n\t\tLEFT JOIN %s %s ON %s.clave = p.clave", table, alias, alias)
	}
	query := `
		SELECT ` + productColumns + cols.String() + `
		FROM productos p` + joins.String() + `
		WHERE $1 = ''
		   OR p.clave ILIKE $2 OR p.descripcion ILIKE $2 OR p.cb ILIKE $2 OR p.clave_pro ILIKE $2
		   OR EXISTS (SELECT 1 FROM codad ca WHERE ca.clave = p.clave AND ca.cb ILIKE $2)
		ORDER BY p.id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, strings.TrimSpace(q), likePattern(q), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search admin inventory: %w", err)
	}
	defer rows.Close()

	var out []repository.AdminInventoryItem
	for rows.Next() {
		totals := make([]decimal.Decimal, len(ids))
		extra := make([]any, len(ids))
		for i := range totals {
			extra[i] = &totals[i]
		}
		p, err := scanProduct(rows, extra...)
		if err != nil {
			return nil, fmt.Errorf("scan admin inventory: %w", err)
		}
		item := repository.AdminInventoryItem{Product: *p, Totals: make(map[int]int64, len(ids))}
		for i, id := range ids {
			item.Totals[id] = totals[i].Floor().IntPart()
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
