package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/jhoicas/mayoreo-api/internal/application/report"
)

// ReportHandler reportes de cajas, histórico de ventas y retiros.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// CashRegisters godoc
// @Summary      Estado actual de cajas por sucursal
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CashReportResponse
// @Router       /api/reportes/cajas [get]
func (h *ReportHandler) CashRegisters(c *fiber.Ctx) error {
	out, err := h.uc.CashRegisters(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Histórico de ventas diarias
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        rango  query     string  false  "dia | semana | mes"
// @Param        fecha  query     string  false  "YYYY-MM-DD"
// @Param        mes    query     int     false  "Mes (1-12)"
// @Param        anio   query     int     false  "Año"
// @Success      200    {object}  dto.CashReportResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/reportes/historico [get]
func (h *ReportHandler) History(c *fiber.Ctx) error {
	var q dto.SalesHistoryQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.uc.History(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Withdrawals godoc
// @Summary      Detalle de retiros de una caja
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        numSuc       query     int     true  "Sucursal"
// @Param        numCaja      query     int     true  "Caja"
// @Param        fechaInicio  query     string  true  "YYYY-MM-DD"
// @Param        fechaFin     query     string  true  "YYYY-MM-DD"
// @Success      200          {array}   entity.Withdrawal
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/reportes/retiros-detalle [get]
func (h *ReportHandler) Withdrawals(c *fiber.Ctx) error {
	var q dto.WithdrawalsQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.uc.Withdrawals(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
