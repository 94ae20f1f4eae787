package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mayoreo-api/internal/application/auth"
	"github.com/jhoicas/mayoreo-api/internal/application/cart"
	"github.com/jhoicas/mayoreo-api/internal/application/catalog"
	"github.com/jhoicas/mayoreo-api/internal/application/order"
	"github.com/jhoicas/mayoreo-api/internal/application/permission"
	"github.com/jhoicas/mayoreo-api/internal/application/report"
	"github.com/rs/zerolog"
)

// Slugs de permisos que protegen las rutas administrativas.
const (
	PermInventoryView = "inventario.ver"
	PermProductCreate = "productos.crear"
	PermProductEdit   = "productos.editar"
	PermReportsView   = "reportes.ver"
	PermOrdersView    = "pedidos.ver"
	PermUsersAdmin    = "usuarios.administrar"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CatalogUC    *catalog.UseCase
	CartUC       *cart.UseCase
	OrderUC      *order.UseCase
	PermissionUC *permission.UseCase
	ReportUC     *report.UseCase
	JWTSecret    string
	ServiceName  string
	Logger       zerolog.Logger
	// Ping verifica la base de datos en /health; nil omite la verificación.
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			if err := deps.Ping(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "service": deps.ServiceName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	cartHandler := NewCartHandler(deps.CartUC)
	orderHandler := NewOrderHandler(deps.OrderUC)
	userHandler := NewUserHandler(deps.PermissionUC)
	reportHandler := NewReportHandler(deps.ReportUC)

	// Auth (público)
	api.Post("/login", authHandler.Login)
	api.Post("/cliente/login", authHandler.LoginCustomer)
	api.Post("/cliente/registrar", authHandler.RegisterCustomer)

	// Tienda (público)
	api.Get("/sucursales", catalogHandler.ListBranches)
	api.Get("/sucursales/:id/contacto", catalogHandler.BranchContact)
	api.Get("/tipos", catalogHandler.ListTypes)
	api.Get("/inventario", catalogHandler.StoreInventory)
	api.Get("/producto/:clave", catalogHandler.GetProduct)
	api.Get("/producto/:clave/existencia", catalogHandler.Availability)

	// Carrito y pedido (público, identificado por ip_add)
	api.Get("/carrito", cartHandler.List)
	api.Get("/carrito/contar", cartHandler.Count)
	api.Post("/agregar_carrito", cartHandler.Add)
	api.Post("/carrito/eliminar", cartHandler.Remove)
	api.Post("/carrito/vaciar", cartHandler.Clear)
	api.Post("/finalizar_pedido", orderHandler.PlaceOrder)

	// Rutas protegidas: Bearer Token y permiso efectivo resuelto en cada petición
	authMW := AuthMiddleware(deps.JWTSecret)
	perm := func(slug string) fiber.Handler {
		return RequirePermission(slug, deps.PermissionUC, deps.Logger)
	}

	api.Get("/me/permisos", authMW, userHandler.Me)

	api.Get("/admin/inventario", authMW, perm(PermInventoryView), catalogHandler.AdminInventory)
	api.Get("/siguiente-clave", authMW, perm(PermProductCreate), catalogHandler.NextCode)
	api.Get("/siguiente-cb", authMW, perm(PermProductCreate), catalogHandler.NextBarcode)
	api.Post("/abmc/producto/nuevo", authMW, perm(PermProductCreate), catalogHandler.CreateProduct)
	api.Post("/abmc/producto/:clave", authMW, perm(PermProductEdit), catalogHandler.UpdateProduct)

	reports := api.Group("/reportes", authMW, perm(PermReportsView))
	reports.Get("/cajas", reportHandler.CashRegisters)
	reports.Get("/historico", reportHandler.History)
	reports.Get("/retiros-detalle", reportHandler.Withdrawals)

	orders := api.Group("/pedidos", authMW, perm(PermOrdersView))
	orders.Get("/:folio", orderHandler.Get)
	orders.Get("/:folio/pdf", orderHandler.TicketPDF)

	roles := api.Group("/roles", authMW, perm(PermUsersAdmin))
	roles.Get("/", userHandler.ListRoles)
	roles.Get("/permisos", userHandler.ListPermissions)
	roles.Get("/:id/permisos", userHandler.RoleTemplate)
	roles.Put("/:id/permisos", userHandler.SetRolePermission)

	users := api.Group("/usuarios", authMW, perm(PermUsersAdmin))
	users.Get("/", userHandler.ListUsers)
	users.Post("/", userHandler.CreateUser)
	users.Delete("/:id", userHandler.DeleteUser)
	users.Put("/:id/rol", userHandler.ChangeRole)
	users.Get("/:id/permisos", userHandler.UserPermissions)
	users.Put("/:id/permisos", userHandler.SetUserOverride)
}
