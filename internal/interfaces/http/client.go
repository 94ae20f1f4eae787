package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// clientID identidad del carrito: ip_add del body o del query; si no viene, la IP de la petición.
func clientID(c *fiber.Ctx, fromBody string) string {
	if id := strings.TrimSpace(fromBody); id != "" {
		return id
	}
	if id := strings.TrimSpace(c.Query("ip_add")); id != "" {
		return id
	}
	return c.IP()
}
