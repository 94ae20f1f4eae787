package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo roles, permisos, plantillas por rol (rol_permisos) y excepciones por usuario (usuario_permisos).
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

func (r *PermissionRepo) getRole(ctx context.Context, where string, arg any) (*entity.Role, error) {
	var role entity.Role
	err := r.q.QueryRow(ctx, `SELECT id, nombre FROM roles WHERE `+where, arg).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}

func (r *PermissionRepo) GetRole(ctx context.Context, id int64) (*entity.Role, error) {
	return r.getRole(ctx, `id = $1`, id)
}

func (r *PermissionRepo) GetRoleByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.getRole(ctx, `nombre = $1`, name)
}

func (r *PermissionRepo) ListRoles(ctx context.Context) ([]entity.Role, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nombre FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var out []entity.Role
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// GetPermission obtiene un permiso por slug (activo o no). nil, nil si no existe.
func (r *PermissionRepo) GetPermission(ctx context.Context, slug string) (*entity.Permission, error) {
	var p entity.Permission
	err := r.q.QueryRow(ctx, `SELECT id, slug, descripcion, activo FROM permisos WHERE slug = $1`, slug).
		Scan(&p.ID, &p.Slug, &p.Description, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}
	return &p, nil
}

func (r *PermissionRepo) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	rows, err := r.q.Query(ctx, `SELECT id, slug, descripcion, activo FROM permisos ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()
	var out []entity.Permission
	for rows.Next() {
		var p entity.Permission
		if err := rows.Scan(&p.ID, &p.Slug, &p.Description, &p.Active); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PermissionRepo) slugs(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RoleGrants devuelve solo los permisos activos del rol.
func (r *PermissionRepo) RoleGrants(ctx context.Context, roleID int64) ([]string, error) {
	out, err := r.slugs(ctx, `
		SELECT p.slug FROM rol_permisos rp
		JOIN permisos p ON p.id = rp.permiso_id
		WHERE rp.rol_id = $1 AND p.activo
		ORDER BY p.slug`, roleID)
	if err != nil {
		return nil, fmt.Errorf("role grants: %w", err)
	}
	return out, nil
}

func (r *PermissionRepo) GrantRole(ctx context.Context, roleID, permissionID int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO rol_permisos (rol_id, permiso_id) VALUES ($1, $2)
		ON CONFLICT (rol_id, permiso_id) DO NOTHING`, roleID, permissionID)
	if err != nil {
		return fmt.Errorf("grant role permission: %w", err)
	}
	return nil
}

func (r *PermissionRepo) RevokeRole(ctx context.Context, roleID, permissionID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM rol_permisos WHERE rol_id = $1 AND permiso_id = $2`, roleID, permissionID); err != nil {
		return fmt.Errorf("revoke role permission: %w", err)
	}
	return nil
}

// UserOverrides devuelve las excepciones del usuario; las de permisos inactivos se omiten.
func (r *PermissionRepo) UserOverrides(ctx context.Context, userID int64) ([]entity.PermissionOverride, error) {
	rows, err := r.q.Query(ctx, `
		SELECT up.usuario_id, p.slug, up.valor
		FROM usuario_permisos up
		JOIN permisos p ON p.id = up.permiso_id
		WHERE up.usuario_id = $1 AND p.activo
		ORDER BY p.slug`, userID)
	if err != nil {
		return nil, fmt.Errorf("user overrides: %w", err)
	}
	defer rows.Close()
	var out []entity.PermissionOverride
	for rows.Next() {
		var o entity.PermissionOverride
		if err := rows.Scan(&o.UserID, &o.Slug, &o.Value); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PermissionRepo) SetOverride(ctx context.Context, userID, permissionID int64, value int) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO usuario_permisos (usuario_id, permiso_id, valor) VALUES ($1, $2, $3)
		ON CONFLICT (usuario_id, permiso_id) DO UPDATE SET valor = EXCLUDED.valor`, userID, permissionID, value)
	if err != nil {
		return fmt.Errorf("set user override: %w", err)
	}
	return nil
}

func (r *PermissionRepo) ClearOverride(ctx context.Context, userID, permissionID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM usuario_permisos WHERE usuario_id = $1 AND permiso_id = $2`, userID, permissionID); err != nil {
		return fmt.Errorf("clear user override: %w", err)
	}
	return nil
}
