package repository

import (
	"context"

	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios administrativos.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	UpdateRole(ctx context.Context, userID, roleID int64) error
	Delete(ctx context.Context, id int64) error
	// LockByRole bloquea (FOR UPDATE) y devuelve los IDs de los usuarios del rol.
	LockByRole(ctx context.Context, roleID int64) ([]int64, error)
}

// PermissionRepository define el puerto de roles, permisos y excepciones por usuario.
type PermissionRepository interface {
	GetRole(ctx context.Context, id int64) (*entity.Role, error)
	GetRoleByName(ctx context.Context, name string) (*entity.Role, error)
	ListRoles(ctx context.Context) ([]entity.Role, error)
	GetPermission(ctx context.Context, slug string) (*entity.Permission, error)
	ListPermissions(ctx context.Context) ([]entity.Permission, error)
	// RoleGrants devuelve los slugs activos otorgados al rol.
	RoleGrants(ctx context.Context, roleID int64) ([]string, error)
	GrantRole(ctx context.Context, roleID, permissionID int64) error
	RevokeRole(ctx context.Context, roleID, permissionID int64) error
	// UserOverrides devuelve las excepciones del usuario sobre permisos activos.
	UserOverrides(ctx context.Context, userID int64) ([]entity.PermissionOverride, error)
	SetOverride(ctx context.Context, userID, permissionID int64, value int) error
	ClearOverride(ctx context.Context, userID, permissionID int64) error
}

// CustomerRepository define el puerto de persistencia para clientes de la tienda.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) (int64, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
}
