package entity

import "time"

// RoleSuperuser es el rol administrativo superior; siempre debe existir al menos un usuario con él.
const RoleSuperuser = "Superusuario"

// Role agrupa permisos por defecto.
type Role struct {
	ID   int64
	Name string
}

// Permission es un permiso identificado por slug (ej. "productos.editar").
type Permission struct {
	ID          int64
	Slug        string
	Description string
	Active      bool
}

// Valores de excepción por usuario.
const (
	OverrideRevoke = 0
	OverrideGrant  = 1
)

// PermissionOverride es una excepción por usuario: Value 1 otorga, 0 revoca.
type PermissionOverride struct {
	UserID int64
	Slug   string
	Value  int
}

// User es un usuario del sistema administrativo (pertenece a un único rol).
type User struct {
	ID           int64
	Name         string
	PasswordHash string
	RoleID       int64
	RoleName     string
	Active       bool
	CreatedAt    time.Time
}

// Customer es un cliente de la tienda en línea.
type Customer struct {
	ID           int64
	ShortKey     string // últimos 5 dígitos del teléfono
	FullName     string
	Email        string
	PasswordHash string
	Street       string
	Neighborhood string
	ZipCode      string
	City         string
	State        string
	Phone        string
}
