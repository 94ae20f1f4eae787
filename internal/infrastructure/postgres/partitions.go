package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
)

var _ repository.BranchDirectory = (*BranchPartitions)(nil)

// ErrUnknownBranchPartition indica que se pidió una sucursal fuera del conjunto configurado.
// Es un error de configuración/programación: la capa de aplicación valida el ID antes.
var ErrUnknownBranchPartition = errors.New("partición de sucursal no configurada")

// BranchPartitions mapea cada ID de sucursal a su tabla de existencias (alm1..almN).
// Se construye una sola vez al arranque; los identificadores nunca salen de la entrada del usuario.
type BranchPartitions struct {
	tables map[int]pgx.Identifier
	ids    []int
}

// NewBranchPartitions crea el mapeo para las sucursales 1..count.
func NewBranchPartitions(count int) (*BranchPartitions, error) {
	if count < 1 {
		return nil, fmt.Errorf("branch count inválido: %d", count)
	}
	p := &BranchPartitions{tables: make(map[int]pgx.Identifier, count)}
	for id := 1; id <= count; id++ {
		p.tables[id] = pgx.Identifier{fmt.Sprintf("alm%d", id)}
		p.ids = append(p.ids, id)
	}
	sort.Ints(p.ids)
	return p, nil
}

// Contains indica si la sucursal existe en la configuración.
func (p *BranchPartitions) Contains(branchID int) bool {
	_, ok := p.tables[branchID]
	return ok
}

// IDs devuelve los IDs configurados en orden ascendente.
func (p *BranchPartitions) IDs() []int {
	out := make([]int, len(p.ids))
	copy(out, p.ids)
	return out
}

// Table devuelve el nombre de tabla ya escapado para la sucursal.
func (p *BranchPartitions) Table(branchID int) (string, error) {
	ident, ok := p.tables[branchID]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownBranchPartition, branchID)
	}
	return ident.Sanitize(), nil
}

// Verify comprueba que todas las tablas de partición existan. Se llama al arranque.
func (p *BranchPartitions) Verify(ctx context.Context, q Querier) error {
	for _, id := range p.ids {
		var exists bool
		name := p.tables[id][0]
		if err := q.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, name).Scan(&exists); err != nil {
			return fmt.Errorf("verificar partición %s: %w", name, err)
		}
		if !exists {
			return fmt.Errorf("%w: tabla %s no existe", ErrUnknownBranchPartition, name)
		}
	}
	return nil
}
