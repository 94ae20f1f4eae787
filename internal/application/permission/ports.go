package permission

import (
	"context"

	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
)

// TxRunner ejecuta la administración de usuarios y permisos en una transacción.
type TxRunner interface {
	RunUsers(ctx context.Context, fn func(userRepo repository.UserRepository, permRepo repository.PermissionRepository) error) error
}
