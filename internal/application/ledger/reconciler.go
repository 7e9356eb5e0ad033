package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/pkg/logger"
	"github.com/jhoicas/trade-ledger/pkg/numeric"
)

// Reconciler traduce altas, bajas y cambios de registros fuente (entradas, salidas, ajustes)
// en operaciones del ledger. Las variantes InTx usan la transacción del caller para que el
// registro fuente y su aporte al ledger se confirmen juntos.
type Reconciler struct {
	txRunner  TxRunner
	store     *Store
	precision numeric.Precision
	log       *logger.Logger
}

// NewReconciler construye el reconciliador.
func NewReconciler(txRunner TxRunner, store *Store, precision numeric.Precision, log *logger.Logger) *Reconciler {
	return &Reconciler{txRunner: txRunner, store: store, precision: precision, log: log.Component("reconciler")}
}

// eventFromSource construye el evento de un registro fuente o nil si no participa en el stock
// (sin producto, cantidad ausente o cero, o no positiva en entradas/salidas).
// Lo comparten la ruta incremental y la reconstrucción para que ambas produzcan los mismos deltas.
func eventFromSource(src entity.StockSource, p numeric.Precision, now time.Time) *entity.StockEvent {
	if src.ProductKey == "" || !src.Quantity.Valid {
		return nil
	}
	qty := p.Quantity(src.Quantity.Decimal)
	var delta decimal.Decimal
	switch src.Kind {
	case entity.EventKindInbound:
		if !qty.IsPositive() {
			return nil
		}
		delta = qty
	case entity.EventKindOutbound:
		if !qty.IsPositive() {
			return nil
		}
		delta = qty.Neg()
	case entity.EventKindAdjustment:
		if qty.IsZero() {
			return nil
		}
		delta = qty
	default:
		return nil
	}
	return &entity.StockEvent{
		ProductKey:    src.ProductKey,
		QuantityDelta: delta,
		Kind:          src.Kind,
		ReferenceID:   src.ReferenceID,
		OccurredAt:    src.OccurredAt,
		CreatedAt:     now,
	}
}

// OnCreate registra el aporte del registro en su propia transacción.
func (r *Reconciler) OnCreate(ctx context.Context, src entity.StockSource) (*entity.StockEvent, error) {
	var ev *entity.StockEvent
	err := r.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		ev, err = r.OnCreateInTx(ctx, repos, src)
		return err
	})
	return ev, err
}

// OnCreateInTx agrega un evento con reference_id = id del registro. Devuelve nil, nil si el registro no participa.
func (r *Reconciler) OnCreateInTx(ctx context.Context, repos Repos, src entity.StockSource) (*entity.StockEvent, error) {
	ev := eventFromSource(src, r.precision, time.Now().UTC())
	if ev == nil {
		r.log.Debug().Str("reference_id", src.ReferenceID).Str("kind", string(src.Kind)).
			Msg("registro sin producto o cantidad; no participa en stock")
		return nil, nil
	}
	return r.store.AppendInTx(ctx, repos, ev)
}

// OnDelete revierte el aporte del registro en su propia transacción.
func (r *Reconciler) OnDelete(ctx context.Context, referenceID string, kind entity.EventKind) error {
	return r.txRunner.Run(ctx, func(repos Repos) error {
		return r.OnDeleteInTx(ctx, repos, referenceID, kind)
	})
}

// OnDeleteInTx revierte (referenceID, kind); idempotente.
func (r *Reconciler) OnDeleteInTx(ctx context.Context, repos Repos, referenceID string, kind entity.EventKind) error {
	_, err := r.store.RevertInTx(ctx, repos, referenceID, kind)
	return err
}

// OnUpdate revierte el estado anterior y aplica el nuevo en una sola transacción.
func (r *Reconciler) OnUpdate(ctx context.Context, old, updated entity.StockSource) error {
	return r.txRunner.Run(ctx, func(repos Repos) error {
		return r.OnUpdateInTx(ctx, repos, old, updated)
	})
}

// OnUpdateInTx borrar + crear, no un ajuste diferencial: correcto aunque cambien producto o cantidad.
// Si el segundo paso falla, el rollback de la transacción deshace también el primero.
func (r *Reconciler) OnUpdateInTx(ctx context.Context, repos Repos, old, updated entity.StockSource) error {
	if err := r.OnDeleteInTx(ctx, repos, old.ReferenceID, old.Kind); err != nil {
		return err
	}
	_, err := r.OnCreateInTx(ctx, repos, updated)
	return err
}
