package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/application/order"
)

// OrderHandler cierre de pedidos y consulta de pedidos pendientes.
type OrderHandler struct {
	uc *order.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// PlaceOrder godoc
// @Summary      Finalizar pedido con el contenido del carrito
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.PlaceOrderRequest  true  "Cliente y sucursal"
// @Success      201   {object}  dto.PlaceOrderResponse
// @Failure      400   {object}  dto.ErrorResponse  "EMPTY_CART, DIFFERENT_BRANCH"
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK con las líneas deficientes"
// @Router       /api/finalizar_pedido [post]
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	in.ClientID = clientID(c, in.ClientID)
	out, err := h.uc.PlaceOrder(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Pedido por folio
// @Tags         pedidos
// @Security     Bearer
// @Produce      json
// @Param        folio  path      int  true  "Folio"
// @Success      200    {object}  dto.OrderDTO
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/pedidos/{folio} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	folio, err := strconv.ParseInt(c.Params("folio"), 10, 64)
	if err != nil {
		return badRequest(c, "INVALID_FOLIO", "folio inválido")
	}
	out, err := h.uc.GetOrder(c.Context(), folio)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TicketPDF godoc
// @Summary      Ticket PDF del pedido
// @Tags         pedidos
// @Security     Bearer
// @Produce      application/pdf
// @Param        folio  path  int  true  "Folio"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pedidos/{folio}/pdf [get]
func (h *OrderHandler) TicketPDF(c *fiber.Ctx) error {
	folio, err := strconv.ParseInt(c.Params("folio"), 10, 64)
	if err != nil {
		return badRequest(c, "INVALID_FOLIO", "folio inválido")
	}
	pdf, err := h.uc.TicketPDF(c.Context(), folio)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "inline; filename=pedido-"+strconv.FormatInt(folio, 10)+".pdf")
	return c.Send(pdf)
}
