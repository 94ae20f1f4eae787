package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/domain"
)

// localInternalErr guarda el error interno para que RequestLogger lo registre.
const localInternalErr = "internal_error"

// statusFor traduce la categoría del error de dominio a código HTTP.
func statusFor(de *domain.Error) int {
	switch de.Kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindStock, domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindAuth:
		if de.Code == domain.ErrForbidden.Code {
			return fiber.StatusForbidden
		}
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError responde con el cuerpo de error estándar. Los errores ajenos al dominio
// salen como INTERNAL sin exponer el detalle; el detalle queda en la línea de RequestLogger.
func writeError(c *fiber.Ctx, err error) error {
	de, ok := domain.AsError(err)
	if !ok {
		c.Locals(localInternalErr, err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Kind:    string(domain.KindInternal),
			Code:    "INTERNAL",
			Message: "error interno del servidor",
		})
	}
	body := dto.ErrorResponse{
		Kind:    string(de.Kind),
		Code:    de.Code,
		Message: de.Message,
	}
	switch {
	case len(de.Shortages) > 0:
		body.Details = de.Shortages
	case de.Available != nil:
		body.Details = fiber.Map{"disponible": *de.Available}
	}
	return c.Status(statusFor(de)).JSON(body)
}

// badRequest error de formato antes de llegar al caso de uso.
func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Kind:    string(domain.KindValidation),
		Code:    code,
		Message: msg,
	})
}

// authError respuesta 401/403 de los middlewares.
func authError(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Kind:    string(domain.KindAuth),
		Code:    code,
		Message: msg,
	})
}

// ErrorHandler manejador global de Fiber: errores de ruteo de Fiber conservan su código.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		kind := domain.KindValidation
		switch {
		case fe.Code == fiber.StatusNotFound:
			kind = domain.KindNotFound
		case fe.Code >= fiber.StatusInternalServerError:
			kind = domain.KindInternal
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{
			Kind:    string(kind),
			Code:    "HTTP_" + strconv.Itoa(fe.Code),
			Message: fe.Message,
		})
	}
	return writeError(c, err)
}
