package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
)

var (
	_ repository.ProductTypeRepository = (*ProductTypeRepo)(nil)
	_ repository.SettingsRepository    = (*SettingsRepo)(nil)
)

// ProductTypeRepo tipos de producto (cattipoprod).
type ProductTypeRepo struct {
	q Querier
}

func NewProductTypeRepository(q Querier) *ProductTypeRepo {
	return &ProductTypeRepo{q: q}
}

func (r *ProductTypeRepo) List(ctx context.Context) ([]entity.ProductType, error) {
	rows, err := r.q.Query(ctx, `SELECT descripcion, letra, consecutivo FROM cattipoprod ORDER BY descripcion ASC`)
	if err != nil {
		return nil, fmt.Errorf("list product types: %w", err)
	}
	defer rows.Close()
	var out []entity.ProductType
	for rows.Next() {
		var t entity.ProductType
		if err := rows.Scan(&t.Description, &t.Letter, &t.Consecutive); err != nil {
			return nil, fmt.Errorf("scan product type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// IncrementConsecutive avanza el consecutivo del tipo. Un tipo inexistente no es error.
func (r *ProductTypeRepo) IncrementConsecutive(ctx context.Context, description string) error {
	if _, err := r.q.Exec(ctx, `UPDATE cattipoprod SET consecutivo = consecutivo + 1 WHERE descripcion = $1`, description); err != nil {
		return fmt.Errorf("increment type consecutive: %w", err)
	}
	return nil
}

// SettingsRepo contadores globales (tabla config, una sola fila).
type SettingsRepo struct {
	q Querier
}

func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

func (r *SettingsRepo) NextBarcode(ctx context.Context) (string, error) {
	var cb int64
	err := r.q.QueryRow(ctx, `SELECT cb FROM config ORDER BY id LIMIT 1`).Scan(&cb)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get barcode counter: %w", err)
	}
	return strconv.FormatInt(cb, 10), nil
}

// IncrementBarcode solo avanza el contador si sigue valiendo expected (el CB sugerido que se usó).
func (r *SettingsRepo) IncrementBarcode(ctx context.Context, expected string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE config SET cb = cb + 1
		WHERE id = (SELECT id FROM config ORDER BY id LIMIT 1) AND cb::text = $1`, expected)
	if err != nil {
		return fmt.Errorf("increment barcode counter: %w", err)
	}
	return nil
}
