package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/trade-ledger/internal/application/ledger"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones en memoria: serializa todas las transacciones y hace rollback por copia.
type TxRunner struct {
	db *DB
}

// NewTxRunner construye el runner sobre la base.
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run ejecuta fn con repositorios atados a la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ledger.Repos) error) error {
	return r.run(ctx, fn)
}

// RunExclusive en memoria toda transacción ya es exclusiva; solo aplica el timeout.
func (r *TxRunner) RunExclusive(ctx context.Context, timeout time.Duration, fn func(repos ledger.Repos) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return r.run(ctx, fn)
}

func (r *TxRunner) run(ctx context.Context, fn func(repos ledger.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	snapshot := r.db.st.clone()
	if err := fn(r.db.repos(true)); err != nil {
		r.db.st = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		r.db.st = snapshot
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repos repositorios fuera de transacción (equivalente a usar el pool).
func (db *DB) Repos() ledger.Repos {
	return db.repos(false)
}

func (db *DB) repos(inTx bool) ledger.Repos {
	a := access{db: db, inTx: inTx}
	return ledger.Repos{
		Events:      &StockEventRepo{a: a},
		Projections: &StockProjectionRepo{a: a},
		Inbound:     &InboundRepo{a: a},
		Outbound:    &OutboundRepo{a: a},
		Adjustments: &AdjustmentRepo{a: a},
	}
}

// Partners repositorio de lectura del directorio.
func (db *DB) Partners() *PartnerRepo {
	return &PartnerRepo{a: access{db: db}}
}
