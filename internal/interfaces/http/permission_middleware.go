package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// permissionChecker es el contrato mínimo que necesita el middleware para autorizar.
// Lo implementa *permission.UseCase.
type permissionChecker interface {
	HasPermission(ctx context.Context, userID int64, slug string) (bool, error)
}

// RequirePermission devuelve un middleware que verifica que el usuario del token tenga
// el permiso efectivo slug. Debe usarse DESPUÉS de AuthMiddleware.
// Los permisos se resuelven en cada petición: un cambio de rol aplica sin reemitir el token.
//
// Comportamiento:
//   - 401 si no hay usuario en el contexto.
//   - 403 si el permiso no está concedido (o el usuario está inactivo).
//   - 503 si falla la consulta.
func RequirePermission(slug string, checker permissionChecker, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID <= 0 {
			return authError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "usuario no encontrado en el token")
		}

		ok, err := checker.HasPermission(c.Context(), userID, slug)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Str("permiso", slug).Msg("verificación de permiso fallida")
			return authError(c, fiber.StatusServiceUnavailable, "PERMISSION_CHECK_FAILED", "no se pudo verificar el permiso, intente más tarde")
		}
		if !ok {
			return authError(c, fiber.StatusForbidden, "FORBIDDEN", "no tiene el permiso '"+slug+"'")
		}
		return c.Next()
	}
}
