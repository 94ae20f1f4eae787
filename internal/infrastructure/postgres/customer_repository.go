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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente y devuelve su ID. El celular es único.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) (int64, error) {
	query := `
		INSERT INTO clientes (nombre, nombre2, email, password, calle, barrio, cp, ciudad, estado, cel)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		c.ShortKey, c.FullName, c.Email, c.PasswordHash, c.Street, c.Neighborhood, c.ZipCode, c.City, c.State, c.Phone,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrPhoneAlreadyExists
		}
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	c.ID = id
	return id, nil
}

// GetByPhone obtiene un cliente por celular. nil, nil si no existe.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	query := `
		SELECT id, nombre, nombre2, email, password, calle, barrio, cp, ciudad, estado, cel
		FROM clientes WHERE cel = $1`
	var c entity.Customer
	err := r.q.QueryRow(ctx, query, phone).Scan(
		&c.ID, &c.ShortKey, &c.FullName, &c.Email, &c.PasswordHash,
		&c.Street, &c.Neighborhood, &c.ZipCode, &c.City, &c.State, &c.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by phone: %w", err)
	}
	return &c, nil
}
