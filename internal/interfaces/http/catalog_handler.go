package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mayoreo-api/internal/application/catalog"
	"github.com/jhoicas/mayoreo-api/internal/application/dto"
)

// CatalogHandler catálogo de la tienda y administración de productos.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ListBranches godoc
// @Summary      Listar sucursales
// @Tags         catalogo
// @Produce      json
// @Param        todas  query  bool  false  "incluir sucursales no visibles en la app"
// @Success      200    {array}   dto.BranchDTO
// @Router       /api/sucursales [get]
func (h *CatalogHandler) ListBranches(c *fiber.Ctx) error {
	out, err := h.uc.ListBranches(c.Context(), !c.QueryBool("todas", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BranchContact godoc
// @Summary      Contacto de una sucursal
// @Tags         catalogo
// @Produce      json
// @Param        id   path      int  true  "Número de sucursal"
// @Success      200  {object}  dto.BranchContactDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sucursales/{id}/contacto [get]
func (h *CatalogHandler) BranchContact(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "INVALID_ID", "id de sucursal inválido")
	}
	out, err := h.uc.GetBranchContact(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListTypes godoc
// @Summary      Tipos de producto
// @Tags         catalogo
// @Produce      json
// @Success      200  {array}  dto.ProductTypeDTO
// @Router       /api/tipos [get]
func (h *CatalogHandler) ListTypes(c *fiber.Ctx) error {
	out, err := h.uc.ListProductTypes(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StoreInventory godoc
// @Summary      Inventario de la tienda por sucursal
// @Tags         catalogo
// @Produce      json
// @Param        num_suc  query     int     true   "Sucursal"
// @Param        q        query     string  false  "Búsqueda por clave, descripción o tipo"
// @Param        page     query     int     false  "Página (0 = primera)"
// @Success      200      {object}  dto.StoreInventoryResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/inventario [get]
func (h *CatalogHandler) StoreInventory(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.uc.StoreInventory(c.Context(), c.Query("q"), page, c.QueryInt("num_suc", 1))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetProduct godoc
// @Summary      Producto por clave con existencias por sucursal
// @Tags         catalogo
// @Produce      json
// @Param        clave  path      string  true  "Clave del producto"
// @Success      200    {object}  dto.ProductDetailDTO
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/producto/{clave} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	out, err := h.uc.GetProductByCode(c.Context(), c.Params("clave"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Availability godoc
// @Summary      Existencia vendible de un producto en una sucursal
// @Tags         catalogo
// @Produce      json
// @Param        clave    path      string  true  "Clave del producto"
// @Param        num_suc  query     int     true  "Sucursal"
// @Success      200      {object}  dto.AvailabilityDTO
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/producto/{clave}/existencia [get]
func (h *CatalogHandler) Availability(c *fiber.Ctx) error {
	out, err := h.uc.Availability(c.Context(), c.Params("clave"), c.QueryInt("num_suc", 1))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AdminInventory godoc
// @Summary      Inventario administrativo (todas las sucursales)
// @Tags         administracion
// @Security     Bearer
// @Produce      json
// @Param        q     query     string  false  "Búsqueda"
// @Param        page  query     int     false  "Página (0 = primera)"
// @Success      200   {object}  dto.AdminInventoryResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admin/inventario [get]
func (h *CatalogHandler) AdminInventory(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	out, err := h.uc.AdminInventory(c.Context(), c.Query("q"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// NextCode godoc
// @Summary      Siguiente clave sugerida
// @Tags         administracion
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NextCodeResponse
// @Router       /api/siguiente-clave [get]
func (h *CatalogHandler) NextCode(c *fiber.Ctx) error {
	out, err := h.uc.NextCode(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// NextBarcode godoc
// @Summary      Siguiente código de barras sugerido
// @Tags         administracion
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NextBarcodeResponse
// @Router       /api/siguiente-cb [get]
func (h *CatalogHandler) NextBarcode(c *fiber.Ctx) error {
	out, err := h.uc.NextBarcode(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateProduct godoc
// @Summary      Alta de producto (se registra en todas las sucursales)
// @Tags         administracion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/abmc/producto/nuevo [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.CreateProduct(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateProduct godoc
// @Summary      Editar producto y existencias por sucursal
// @Tags         administracion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        clave  path      string                    true  "Clave del producto"
// @Param        body   body      dto.UpdateProductRequest  true  "Campos y existencias"
// @Success      200    {object}  dto.ProductDetailDTO
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/abmc/producto/{clave} [post]
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.UpdateProduct(c.Context(), c.Params("clave"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
