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

	_ "github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/docs"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/cart"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/inventory"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/order"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/ports"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/reclaim"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/reservation"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/sale"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/infrastructure/catalog"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/infrastructure/memory"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/infrastructure/metrics"
	infrapdf "github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/infrastructure/pdf"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/infrastructure/postgres"
	httpRouter "github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/interfaces/http"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/config"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
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
		Str("backend", cfg.App.StoreBackend).
		Msg("iniciando aplicación")

	var (
		appMetrics ports.Metrics = ports.NopMetrics{}
		prom       *metrics.Prometheus
	)
	if cfg.Metrics.Enabled {
		prom = metrics.New()
		appMetrics = prom
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Backend de persistencia: repos fuera de tx para lecturas + runner transaccional.
	var (
		repos    ports.TxRepos
		txRunner ports.TxRunner
	)
	switch cfg.App.StoreBackend {
	case config.BackendMemory:
		store := memory.NewStore()
		if cfg.App.CatalogFile != "" {
			products, err := catalog.LoadFile(cfg.App.CatalogFile, false)
			if err != nil {
				log.Fatal().Err(err).Msg("cargar catálogo")
			}
			for _, p := range products {
				store.PutProduct(p)
			}
			log.Info().Int("productos", len(products)).Msg("catálogo cargado en memoria")
		}
		repos = store.Repos()
		txRunner = memory.NewTxRunner(store)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migrar esquema")
			}
		}
		repos = postgres.Repos(pool)
		txRunner = postgres.NewTxRunner(pool, cfg.Tx.MaxAttempts, appMetrics, log)
	}

	coordinator := reservation.NewCoordinator(appMetrics)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, repos.Products, repos.Movements, nil, log)
	cartUC := cart.NewUseCase(txRunner, coordinator, nil, cfg.Cart.TTL, appMetrics, log)
	orderUC := order.NewUseCase(txRunner, repos.Orders, coordinator, registerMovementUC, nil, appMetrics, log)
	saleUC := sale.NewUseCase(txRunner, repos.Sales, registerMovementUC, infrapdf.NewMarotoReceiptGenerator(), nil, log)

	// Job de recuperación de carritos expirados.
	reclaimJob := reclaim.NewJob(txRunner, repos.Orders, coordinator, nil, appMetrics, log, reclaim.Config{
		Interval:  cfg.Reclaim.Interval,
		BatchSize: cfg.Reclaim.BatchSize,
		Workers:   cfg.Reclaim.Workers,
	})
	jobDone := make(chan struct{})
	go func() {
		defer close(jobDone)
		reclaimJob.Start(ctx)
	}()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Marketplace API",
	}))

	deps := httpRouter.RouterDeps{
		AppName:          cfg.App.Name,
		CartUC:           cartUC,
		OrderUC:          orderUC,
		SaleUC:           saleUC,
		RegisterMovement: registerMovementUC,
		JWTSecret:        cfg.JWT.Secret,
		Log:              log,
	}
	if prom != nil {
		deps.MetricsHandler = prom.Handler()
	}
	httpRouter.Router(app, deps)

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
	stop()
	<-jobDone

	log.Info().Msg("aplicación detenida")
}
