// rebuild regenera el ledger de stock y las proyecciones desde las tablas fuente.
// Pensado para recuperación tras un drift detectado por GET /api/stock/verify.
//
// Uso: go run ./cmd/rebuild [-verify-only]
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/trade-ledger/internal/application/ledger"
	"github.com/jhoicas/trade-ledger/internal/domain"
	"github.com/jhoicas/trade-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/trade-ledger/pkg/config"
	"github.com/jhoicas/trade-ledger/pkg/logger"
)

func main() {
	verifyOnly := flag.Bool("verify-only", false, "solo comparar proyecciones con el ledger; no reconstruir")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.DB.Driver != config.DriverPostgres {
		log.Fatal().Str("driver", cfg.DB.Driver).Msg("rebuild requiere DB_DRIVER=postgres")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	store := ledger.NewStore(txRunner, postgres.NewStockProjectionRepository(pool), log)

	if !*verifyOnly {
		engine := ledger.NewRebuildEngine(txRunner, cfg.Ledger.RebuildTimeout, cfg.Ledger.Precision(), log)
		if _, err := engine.RebuildAll(ctx); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("reconstrucción fallida")
		}
	}

	drifts, err := store.Verify(ctx)
	switch {
	case errors.Is(err, domain.ErrConsistencyViolation):
		for _, d := range drifts {
			log.Warn().Str("product", d.ProductKey).
				Str("projected", d.Projected.String()).
				Str("ledger", d.Ledger.String()).
				Msg("drift")
		}
		pool.Close()
		os.Exit(2)
	case err != nil:
		pool.Close()
		log.Fatal().Err(err).Msg("verificación fallida")
	}
	log.Info().Msg("proyecciones consistentes con el ledger")
}
