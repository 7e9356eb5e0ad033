package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/trade-ledger/internal/application/analysis"
	"github.com/jhoicas/trade-ledger/internal/application/ledger"
	"github.com/jhoicas/trade-ledger/internal/application/trade"
	"github.com/jhoicas/trade-ledger/internal/domain/repository"
	"github.com/jhoicas/trade-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/trade-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/trade-ledger/internal/interfaces/http"
	"github.com/jhoicas/trade-ledger/pkg/config"
	"github.com/jhoicas/trade-ledger/pkg/logger"
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
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner ledger.TxRunner
		repos    ledger.Repos
		partners repository.PartnerRepository
	)
	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		db := memory.NewDB()
		txRunner = memory.NewTxRunner(db)
		repos = db.Repos()
		partners = db.Partners()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migración del esquema")
			}
			log.Info().Msg("esquema verificado")
		}
		txRunner = postgres.NewTxRunner(pool)
		repos = postgres.NewRepos(pool)
		partners = postgres.NewPartnerRepository(pool)
	}

	precision := cfg.Ledger.Precision()
	store := ledger.NewStore(txRunner, repos.Projections, log)
	reconciler := ledger.NewReconciler(txRunner, store, precision, log)
	rebuildEngine := ledger.NewRebuildEngine(txRunner, cfg.Ledger.RebuildTimeout, precision, log)
	tradeUC := trade.NewUseCase(txRunner, reconciler)
	analysisUC := analysis.NewUseCase(repos.Inbound, repos.Outbound, partners, precision, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Ledger.RebuildTimeout + 10*time.Second, // POST /api/stock/rebuild
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Trade:    tradeUC,
		Store:    store,
		Rebuild:  rebuildEngine,
		Analysis: analysisUC,
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
