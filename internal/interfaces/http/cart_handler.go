package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mayoreo-api/internal/application/cart"
	"github.com/jhoicas/mayoreo-api/internal/application/dto"
)

// CartHandler carrito anónimo de la tienda (identificado por ip_add).
type CartHandler struct {
	uc *cart.UseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.UseCase) *CartHandler {
	return &CartHandler{uc: uc}
}

// List godoc
// @Summary      Contenido del carrito
// @Tags         carrito
// @Produce      json
// @Param        ip_add  query     string  false  "Identificador del cliente"
// @Success      200     {object}  dto.CartResponse
// @Router       /api/carrito [get]
func (h *CartHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), clientID(c, ""))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Count godoc
// @Summary      Piezas en el carrito
// @Tags         carrito
// @Produce      json
// @Param        ip_add  query     string  false  "Identificador del cliente"
// @Success      200     {object}  dto.CartCountResponse
// @Router       /api/carrito/contar [get]
func (h *CartHandler) Count(c *fiber.Ctx) error {
	n, err := h.uc.Count(c.Context(), clientID(c, ""))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CartCountResponse{Total: n})
}

// Add godoc
// @Summary      Agregar o incrementar una línea del carrito
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AddToCartRequest  true  "Línea"
// @Success      200   {object}  dto.AddToCartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK con el máximo disponible"
// @Router       /api/agregar_carrito [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in dto.AddToCartRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	in.ClientID = clientID(c, in.ClientID)
	out, err := h.uc.AddOrIncrement(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Quitar una línea del carrito
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CartLineRequest  true  "Producto"
// @Success      200   {object}  dto.SuccessResponse
// @Router       /api/carrito/eliminar [post]
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	var in dto.CartLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.uc.Remove(c.Context(), clientID(c, in.ClientID), in.ProductID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Clear godoc
// @Summary      Vaciar el carrito
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ClearCartRequest  false  "Cliente"
// @Success      200   {object}  dto.SuccessResponse
// @Router       /api/carrito/vaciar [post]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	var in dto.ClearCartRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
	}
	if err := h.uc.Clear(c.Context(), clientID(c, in.ClientID)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
