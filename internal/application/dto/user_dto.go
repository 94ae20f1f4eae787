package dto

import "time"

// LoginRequest entrada para login de personal.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token y permisos efectivos del usuario.
type LoginResponse struct {
	Success     bool     `json:"success"`
	Token       string   `json:"token"`
	User        UserDTO  `json:"user"`
	Permissions []string `json:"permisos"`
}

// UserDTO salida de un usuario (sin password).
type UserDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nombre"`
	RoleID    int64     `json:"rol_id"`
	RoleName  string    `json:"rol"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Name     string `json:"nombre"`
	Password string `json:"password"`
	RoleID   int64  `json:"rol_id"`
}

// ChangeRoleRequest body para PUT /api/usuarios/:id/rol.
type ChangeRoleRequest struct {
	RoleID int64 `json:"rol_id"`
}

// RoleDTO rol.
type RoleDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// PermissionDTO permiso.
type PermissionDTO struct {
	Slug        string `json:"slug"`
	Description string `json:"descripcion"`
	Active      bool   `json:"activo"`
}

// RoleTemplateResponse permisos otorgados a un rol.
type RoleTemplateResponse struct {
	RoleID      int64    `json:"rol_id"`
	Permissions []string `json:"permisos"`
}

// SetRolePermissionRequest body para PUT /api/roles/:id/permisos.
type SetRolePermissionRequest struct {
	Slug    string `json:"slug"`
	Granted bool   `json:"granted"`
}

// SetUserOverrideRequest body para PUT /api/usuarios/:id/permisos.
// Value nil elimina la excepción (vuelve al valor del rol).
type SetUserOverrideRequest struct {
	Slug  string `json:"slug"`
	Value *int   `json:"valor"`
}

// EffectivePermissionsResponse permisos efectivos de un usuario.
type EffectivePermissionsResponse struct {
	UserID      int64    `json:"user_id"`
	Permissions []string `json:"permisos"`
}

// CustomerRegisterRequest body para POST /api/cliente/registrar.
type CustomerRegisterRequest struct {
	FullName     string `json:"nombreCompleto"`
	Phone        string `json:"telefono"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	Street       string `json:"direccion"`
	Neighborhood string `json:"colonia"`
	ZipCode      string `json:"cp"`
	City         string `json:"ciudad"`
	State        string `json:"estado"`
}

// CustomerLoginRequest body para POST /api/cliente/login.
type CustomerLoginRequest struct {
	Phone    string `json:"telefono"`
	Password string `json:"password"`
}

// CustomerDTO cliente de la tienda (sin password).
type CustomerDTO struct {
	ID       int64  `json:"id"`
	ShortKey string `json:"nombre"`
	FullName string `json:"nombre2"`
	Email    string `json:"email"`
	Phone    string `json:"cel"`
}

// CustomerAuthResponse respuesta de registro y login de cliente.
type CustomerAuthResponse struct {
	Success  bool        `json:"success"`
	Customer CustomerDTO `json:"cliente"`
}
