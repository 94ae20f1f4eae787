package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mayoreo-api/internal/application/auth"
	"github.com/jhoicas/mayoreo-api/internal/application/dto"
)

// AuthHandler login de personal y registro/login de clientes de la tienda.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Login de personal (JWT)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Username == "" || in.Password == "" {
		return badRequest(c, "VALIDATION", "username y password son requeridos")
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegisterCustomer godoc
// @Summary      Registro de cliente de la tienda
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CustomerRegisterRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerAuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cliente/registrar [post]
func (h *AuthHandler) RegisterCustomer(c *fiber.Ctx) error {
	var in dto.CustomerRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.RegisterCustomer(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// LoginCustomer godoc
// @Summary      Login de cliente de la tienda
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CustomerLoginRequest  true  "Teléfono y password"
// @Success      200   {object}  dto.CustomerAuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/cliente/login [post]
func (h *AuthHandler) LoginCustomer(c *fiber.Ctx) error {
	var in dto.CustomerLoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.LoginCustomer(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
