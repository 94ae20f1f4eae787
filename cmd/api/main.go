package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/jhoicas/mayoreo-api/internal/application/auth"
	"github.com/jhoicas/mayoreo-api/internal/application/cart"
	"github.com/jhoicas/mayoreo-api/internal/application/catalog"
	"github.com/jhoicas/mayoreo-api/internal/application/inventory"
	"github.com/jhoicas/mayoreo-api/internal/application/order"
	"github.com/jhoicas/mayoreo-api/internal/application/permission"
	"github.com/jhoicas/mayoreo-api/internal/application/report"
	"github.com/jhoicas/mayoreo-api/internal/infrastructure/events"
	infrapdf "github.com/jhoicas/mayoreo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/mayoreo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/mayoreo-api/internal/interfaces/http"
	"github.com/jhoicas/mayoreo-api/pkg/config"
	"github.com/jhoicas/mayoreo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Int("sucursales", cfg.Branches.Count).
		Str("stock_policy", cfg.Checkout.StockPolicy).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Las tablas de existencias por sucursal se fijan al arrancar; si falta alguna no se sirve nada.
	parts, err := postgres.NewBranchPartitions(cfg.Branches.Count)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de sucursales")
	}
	if err := parts.Verify(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("tablas de existencias por sucursal")
	}

	productRepo := postgres.NewProductRepository(pool, parts)
	stockRepo := postgres.NewBranchStockRepository(pool, parts)
	cartRepo := postgres.NewCartRepository(pool, parts)
	branchRepo := postgres.NewBranchRepository(pool)
	typeRepo := postgres.NewProductTypeRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	permRepo := postgres.NewPermissionRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool, parts)

	// Eventos de pedido: Kafka si hay brokers, si no solo se registran.
	var publisher order.EventPublisher = events.NopPublisher{Log: log.Component("events")}
	if cfg.Kafka.Enabled() {
		kafkaPub := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)
		defer func() {
			if err := kafkaPub.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar productor Kafka")
			}
		}()
		publisher = kafkaPub
	}

	stockUC := inventory.NewUseCase(txRunner, stockRepo, productRepo, parts)
	catalogUC := catalog.NewUseCase(txRunner, productRepo, typeRepo, settingsRepo, branchRepo, parts, stockUC, log.Component("catalog"))
	cartUC := cart.NewUseCase(txRunner, cartRepo, branchRepo, parts)
	orderUC := order.NewUseCase(
		txRunner, cartRepo, orderRepo, branchRepo, parts,
		publisher, infrapdf.NewOrderTicketGenerator(), log.Component("order"),
		order.Options{StockPolicy: order.StockPolicy(cfg.Checkout.StockPolicy)},
	)
	permissionUC := permission.NewUseCase(txRunner, userRepo, permRepo, log.Component("permission"))
	authUC := auth.NewAuthUseCase(userRepo, customerRepo, permissionUC, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))
	reportUC := report.NewUseCase(reportRepo, parts)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Mayoreo API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CatalogUC:    catalogUC,
		CartUC:       cartUC,
		OrderUC:      orderUC,
		PermissionUC: permissionUC,
		ReportUC:     reportUC,
		JWTSecret:    cfg.JWT.Secret,
		ServiceName:  cfg.App.Name,
		Logger:       log.Component("auth"),
		Ping:         pool.Ping,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
