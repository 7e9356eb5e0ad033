package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/trade-ledger/internal/application/ledger"
	"github.com/jhoicas/trade-ledger/internal/domain"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// ledgerLockKey clave del advisory lock que coordina escritores (compartido) y reconstrucción (exclusivo).
const ledgerLockKey int64 = 0x6c6564676572

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewRepos repositorios del ledger sobre pool o tx.
func NewRepos(q Querier) ledger.Repos {
	return ledger.Repos{
		Events:      NewStockEventRepository(q),
		Projections: NewStockProjectionRepository(q),
		Inbound:     NewInboundRepository(q),
		Outbound:    NewOutboundRepository(q),
		Adjustments: NewAdjustmentRepository(q),
	}
}

// Run transacción de escritor: toma el advisory lock en modo compartido, de modo que
// los escritores conviven entre sí y solo esperan a una reconstrucción en curso.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ledger.Repos) error) error {
	return r.run(ctx, `SELECT pg_advisory_xact_lock_shared($1)`, 0, fn)
}

// RunExclusive toma el advisory lock exclusivo (espera a que terminen los escritores y los bloquea)
// y, si timeout > 0, extiende statement_timeout solo para esta transacción.
func (r *TxRunner) RunExclusive(ctx context.Context, timeout time.Duration, fn func(repos ledger.Repos) error) error {
	return r.run(ctx, `SELECT pg_advisory_xact_lock($1)`, timeout, fn)
}

func (r *TxRunner) run(ctx context.Context, lockSQL string, timeout time.Duration, fn func(repos ledger.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrTransactionFailure, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if timeout > 0 {
		// SET no admite parámetros.
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", timeout.Milliseconds())); err != nil {
			return fmt.Errorf("%w: set statement_timeout: %w", domain.ErrTransactionFailure, err)
		}
	}
	if _, err := tx.Exec(ctx, lockSQL, ledgerLockKey); err != nil {
		return fmt.Errorf("%w: advisory lock: %w", domain.ErrTransactionFailure, err)
	}

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit transaction: %w", domain.ErrTransactionFailure, err)
	}
	return nil
}
