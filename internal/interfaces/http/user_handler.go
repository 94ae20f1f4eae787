package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/application/permission"
)

// UserHandler administración de usuarios, roles y permisos.
type UserHandler struct {
	uc *permission.UseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *permission.UseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

func paramID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

// Me godoc
// @Summary      Permisos efectivos del usuario del token
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.EffectivePermissionsResponse
// @Router       /api/me/permisos [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID := GetUserID(c)
	perms, err := h.uc.EffectivePermissions(c.Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.EffectivePermissionsResponse{UserID: userID, Permissions: perms})
}

// ListUsers godoc
// @Summary      Listar usuarios
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserDTO
// @Router       /api/usuarios [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	out, err := h.uc.ListUsers(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateUser godoc
// @Summary      Crear usuario
// @Tags         usuarios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateUserRequest  true  "Usuario"
// @Success      201   {object}  dto.UserDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/usuarios [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.CreateUser(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteUser godoc
// @Summary      Eliminar usuario
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del usuario"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      409  {object}  dto.ErrorResponse  "LAST_SUPERUSER_PROTECTED"
// @Router       /api/usuarios/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	if err := h.uc.DeleteUser(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// ChangeRole godoc
// @Summary      Cambiar el rol de un usuario
// @Tags         usuarios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "ID del usuario"
// @Param        body  body      dto.ChangeRoleRequest  true  "Nuevo rol"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      409   {object}  dto.ErrorResponse  "LAST_SUPERUSER_PROTECTED"
// @Router       /api/usuarios/{id}/rol [put]
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	var in dto.ChangeRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.uc.ChangeRole(c.Context(), id, in.RoleID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// UserPermissions godoc
// @Summary      Permisos efectivos de un usuario
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del usuario"
// @Success      200  {object}  dto.EffectivePermissionsResponse
// @Router       /api/usuarios/{id}/permisos [get]
func (h *UserHandler) UserPermissions(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	perms, err := h.uc.EffectivePermissions(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.EffectivePermissionsResponse{UserID: id, Permissions: perms})
}

// SetUserOverride godoc
// @Summary      Excepción de permiso para un usuario (1 concede, 0 revoca, null elimina)
// @Tags         usuarios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                         true  "ID del usuario"
// @Param        body  body      dto.SetUserOverrideRequest  true  "Permiso y valor"
// @Success      200   {object}  dto.SuccessResponse
// @Router       /api/usuarios/{id}/permisos [put]
func (h *UserHandler) SetUserOverride(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	var in dto.SetUserOverrideRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.uc.SetUserOverride(c.Context(), id, in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// ListRoles godoc
// @Summary      Listar roles
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RoleDTO
// @Router       /api/roles [get]
func (h *UserHandler) ListRoles(c *fiber.Ctx) error {
	out, err := h.uc.ListRoles(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListPermissions godoc
// @Summary      Catálogo de permisos
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PermissionDTO
// @Router       /api/roles/permisos [get]
func (h *UserHandler) ListPermissions(c *fiber.Ctx) error {
	out, err := h.uc.ListPermissions(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RoleTemplate godoc
// @Summary      Permisos otorgados a un rol
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del rol"
// @Success      200  {object}  dto.RoleTemplateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/roles/{id}/permisos [get]
func (h *UserHandler) RoleTemplate(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	out, err := h.uc.RoleTemplate(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetRolePermission godoc
// @Summary      Conceder o retirar un permiso a un rol
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                           true  "ID del rol"
// @Param        body  body      dto.SetRolePermissionRequest  true  "Permiso"
// @Success      200   {object}  dto.SuccessResponse
// @Router       /api/roles/{id}/permisos [put]
func (h *UserHandler) SetRolePermission(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	var in dto.SetRolePermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.uc.SetRolePermission(c.Context(), id, in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
