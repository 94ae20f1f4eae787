// import_catalog da de alta productos desde el export CSV del sistema anterior
// (Windows-1252, separado por ';'). Cada producto pasa por el mismo caso de uso que la API,
// así que queda registrado en todas las sucursales. Las claves existentes se omiten.
//
// Uso: go run ./cmd/import_catalog [ruta/productos.csv]
// Por defecto busca productos.csv en el directorio actual.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/mayoreo-api/internal/application/catalog"
	"github.com/jhoicas/mayoreo-api/internal/application/inventory"
	"github.com/jhoicas/mayoreo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/mayoreo-api/pkg/config"
	"github.com/jhoicas/mayoreo-api/pkg/logger"
)

func main() {
	csvPath := "productos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("archivo", csvPath).Msg("abrir CSV")
	}
	defer f.Close()

	rows, bad, err := readProducts(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	for _, b := range bad {
		log.Warn().Int("linea", b.Line).Err(b.Err).Msg("fila omitida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	parts, err := postgres.NewBranchPartitions(cfg.Branches.Count)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de sucursales")
	}
	if err := parts.Verify(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("tablas de existencias por sucursal")
	}

	productRepo := postgres.NewProductRepository(pool, parts)
	txRunner := postgres.NewTxRunner(pool, parts)
	stockUC := inventory.NewUseCase(txRunner, postgres.NewBranchStockRepository(pool, parts), productRepo, parts)
	catalogUC := catalog.NewUseCase(
		txRunner, productRepo,
		postgres.NewProductTypeRepository(pool), postgres.NewSettingsRepository(pool),
		postgres.NewBranchRepository(pool), parts, stockUC, log.Component("catalog"),
	)

	res := importAll(ctx, catalogUC, rows, log.Component("import"))
	fmt.Printf("Importados %d, duplicados %d, con error %d, filas ilegibles %d\n",
		res.created, res.duplicates, res.failed, len(bad))
	if res.failed > 0 {
		os.Exit(2)
	}
}
