package permission

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/domain"
	"github.com/jhoicas/mayoreo-api/internal/domain/entity"
	"github.com/jhoicas/mayoreo-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 4

// UseCase resolución de permisos efectivos y administración de usuarios.
type UseCase struct {
	txRunner TxRunner
	userRepo repository.UserRepository
	permRepo repository.PermissionRepository
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, userRepo repository.UserRepository, permRepo repository.PermissionRepository, log zerolog.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, userRepo: userRepo, permRepo: permRepo, log: log}
}

// EffectivePermissions = permisos del rol, más excepciones con valor 1, menos excepciones con valor 0.
// Los permisos inactivos nunca forman parte del resultado. Salida ordenada por slug.
func (uc *UseCase) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return effective(ctx, uc.permRepo, user)
}

func effective(ctx context.Context, permRepo repository.PermissionRepository, user *entity.User) ([]string, error) {
	grants, err := permRepo.RoleGrants(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	overrides, err := permRepo.UserOverrides(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(grants))
	for _, slug := range grants {
		set[slug] = struct{}{}
	}
	for _, o := range overrides {
		switch o.Value {
		case entity.OverrideGrant:
			set[o.Slug] = struct{}{}
		case entity.OverrideRevoke:
			delete(set, o.Slug)
		}
	}
	out := make([]string, 0, len(set))
	for slug := range set {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out, nil
}

// HasPermission indica si el usuario (activo) tiene el permiso efectivo.
func (uc *UseCase) HasPermission(ctx context.Context, userID int64, slug string) (bool, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil || !user.Active {
		return false, nil
	}
	perms, err := effective(ctx, uc.permRepo, user)
	if err != nil {
		return false, err
	}
	i := sort.SearchStrings(perms, slug)
	return i < len(perms) && perms[i] == slug, nil
}

// RoleTemplate devuelve los permisos activos otorgados al rol.
func (uc *UseCase) RoleTemplate(ctx context.Context, roleID int64) (*dto.RoleTemplateResponse, error) {
	role, err := uc.permRepo.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrRoleNotFound
	}
	grants, err := uc.permRepo.RoleGrants(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if grants == nil {
		grants = []string{}
	}
	return &dto.RoleTemplateResponse{RoleID: roleID, Permissions: grants}, nil
}

// SetRolePermission otorga o retira un permiso al rol. Idempotente.
func (uc *UseCase) SetRolePermission(ctx context.Context, roleID int64, in dto.SetRolePermissionRequest) error {
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunUsers(ctx, func(_ repository.UserRepository, permRepo repository.PermissionRepository) error {
		role, err := permRepo.GetRole(ctx, roleID)
		if err != nil {
			return err
		}
		if role == nil {
			return domain.ErrRoleNotFound
		}
		perm, err := permRepo.GetPermission(ctx, slug)
		if err != nil {
			return err
		}
		if perm == nil {
			return domain.ErrPermNotFound
		}
		if in.Granted {
			err = permRepo.GrantRole(ctx, roleID, perm.ID)
		} else {
			err = permRepo.RevokeRole(ctx, roleID, perm.ID)
		}
		if err != nil {
			return err
		}
		uc.log.Info().Int64("role_id", roleID).Str("slug", slug).Bool("granted", in.Granted).Msg("permiso de rol actualizado")
		return nil
	})
}

// SetUserOverride fija una excepción por usuario: 1 otorga, 0 revoca, nil elimina la excepción.
func (uc *UseCase) SetUserOverride(ctx context.Context, userID int64, in dto.SetUserOverrideRequest) error {
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		return domain.ErrInvalidInput
	}
	if in.Value != nil && *in.Value != entity.OverrideGrant && *in.Value != entity.OverrideRevoke {
		return domain.ErrInvalidInput.WithMessage("valor debe ser 1, 0 o null")
	}
	return uc.txRunner.RunUsers(ctx, func(userRepo repository.UserRepository, permRepo repository.PermissionRepository) error {
		user, err := userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		perm, err := permRepo.GetPermission(ctx, slug)
		if err != nil {
			return err
		}
		if perm == nil {
			return domain.ErrPermNotFound
		}
		if in.Value == nil {
			return permRepo.ClearOverride(ctx, userID, perm.ID)
		}
		return permRepo.SetOverride(ctx, userID, perm.ID, *in.Value)
	})
}

// lockSuperusers bloquea a todos los Superusuario hasta el fin de la transacción.
// Devuelve el rol (nil si no existe) y cuántos usuarios lo tienen.
func lockSuperusers(ctx context.Context, userRepo repository.UserRepository, permRepo repository.PermissionRepository) (*entity.Role, int, error) {
	super, err := permRepo.GetRoleByName(ctx, entity.RoleSuperuser)
	if err != nil || super == nil {
		return nil, 0, err
	}
	ids, err := userRepo.LockByRole(ctx, super.ID)
	if err != nil {
		return nil, 0, err
	}
	return super, len(ids), nil
}

// CreateUser registra un usuario administrativo con password bcrypt.
func (uc *UseCase) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserDTO, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(in.Password) < minPasswordLen || in.RoleID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{Name: name, PasswordHash: string(hash), RoleID: in.RoleID, Active: true}
	err = uc.txRunner.RunUsers(ctx, func(userRepo repository.UserRepository, permRepo repository.PermissionRepository) error {
		role, err := permRepo.GetRole(ctx, in.RoleID)
		if err != nil {
			return err
		}
		if role == nil {
			return domain.ErrRoleNotFound
		}
		existing, err := userRepo.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrUsernameAlreadyExists
		}
		user.RoleName = role.Name
		return userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", user.ID).Int64("role_id", user.RoleID).Msg("usuario creado")
	out := toUserDTO(user)
	return &out, nil
}

// DeleteUser elimina un usuario. Falla con LAST_SUPERUSER_PROTECTED si es el último Superusuario.
func (uc *UseCase) DeleteUser(ctx context.Context, userID int64) error {
	err := uc.txRunner.RunUsers(ctx, func(userRepo repository.UserRepository, permRepo repository.PermissionRepository) error {
		super, supers, err := lockSuperusers(ctx, userRepo, permRepo)
		if err != nil {
			return err
		}
		user, err := userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		if super != nil && user.RoleID == super.ID && supers <= 1 {
			return domain.ErrLastSuperuserProtected
		}
		return userRepo.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("user_id", userID).Msg("usuario eliminado")
	return nil
}

// ChangeRole cambia el rol del usuario. Falla con LAST_SUPERUSER_PROTECTED si dejaría el sistema sin Superusuario.
func (uc *UseCase) ChangeRole(ctx context.Context, userID, roleID int64) error {
	err := uc.txRunner.RunUsers(ctx, func(userRepo repository.UserRepository, permRepo repository.PermissionRepository) error {
		super, supers, err := lockSuperusers(ctx, userRepo, permRepo)
		if err != nil {
			return err
		}
		role, err := permRepo.GetRole(ctx, roleID)
		if err != nil {
			return err
		}
		if role == nil {
			return domain.ErrRoleNotFound
		}
		user, err := userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		if user.RoleID == roleID {
			return nil
		}
		if super != nil && user.RoleID == super.ID && supers <= 1 {
			return domain.ErrLastSuperuserProtected
		}
		return userRepo.UpdateRole(ctx, userID, roleID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("user_id", userID).Int64("role_id", roleID).Msg("rol de usuario cambiado")
	return nil
}

func (uc *UseCase) ListUsers(ctx context.Context) ([]dto.UserDTO, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}
	return out, nil
}

func (uc *UseCase) ListRoles(ctx context.Context) ([]dto.RoleDTO, error) {
	roles, err := uc.permRepo.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleDTO, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.RoleDTO{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (uc *UseCase) ListPermissions(ctx context.Context) ([]dto.PermissionDTO, error) {
	perms, err := uc.permRepo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PermissionDTO, 0, len(perms))
	for _, p := range perms {
		out = append(out, dto.PermissionDTO{Slug: p.Slug, Description: p.Description, Active: p.Active})
	}
	return out, nil
}

func toUserDTO(u *entity.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		RoleID:    u.RoleID,
		RoleName:  u.RoleName,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
