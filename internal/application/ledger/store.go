package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/trade-ledger/internal/domain"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/internal/domain/repository"
	"github.com/jhoicas/trade-ledger/pkg/logger"
)

// Store ledger append-only de eventos de stock con su proyección por producto.
// Toda escritura ocurre dentro de una transacción: evento y proyección se confirman o revierten juntos.
type Store struct {
	txRunner    TxRunner
	projections repository.StockProjectionRepository // lecturas fuera de transacción
	log         *logger.Logger
}

// NewStore construye el ledger. projections debe estar atado al pool (lecturas).
func NewStore(txRunner TxRunner, projections repository.StockProjectionRepository, log *logger.Logger) *Store {
	return &Store{txRunner: txRunner, projections: projections, log: log.Component("ledger")}
}

// Append inserta el evento y ajusta la proyección en su propia transacción.
func (s *Store) Append(ctx context.Context, event *entity.StockEvent) (*entity.StockEvent, error) {
	var out *entity.StockEvent
	err := s.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		out, err = s.AppendInTx(ctx, repos, event)
		return err
	})
	return out, err
}

// AppendInTx inserta el evento inmutable y suma QuantityDelta a la proyección (creándola en cero si falta)
// usando los repositorios de la transacción del caller.
func (s *Store) AppendInTx(ctx context.Context, repos Repos, event *entity.StockEvent) (*entity.StockEvent, error) {
	if event == nil || event.ProductKey == "" || event.ReferenceID == "" || !event.Kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := repos.Events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("%w: append event: %w", domain.ErrTransactionFailure, err)
	}
	if err := repos.Projections.Increment(ctx, event.ProductKey, event.QuantityDelta); err != nil {
		return nil, fmt.Errorf("%w: increment projection: %w", domain.ErrTransactionFailure, err)
	}
	return event, nil
}

// Revert deshace en su propia transacción todos los eventos de (referenceID, kind).
func (s *Store) Revert(ctx context.Context, referenceID string, kind entity.EventKind) (int, error) {
	var n int
	err := s.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		n, err = s.RevertInTx(ctx, repos, referenceID, kind)
		return err
	})
	return n, err
}

// RevertInTx resta cada QuantityDelta de su proyección y borra los eventos.
// Sin eventos coincidentes es un no-op. Las proyecciones que quedan sin eventos se eliminan,
// de modo que el estado incremental coincide con el de una reconstrucción completa.
func (s *Store) RevertInTx(ctx context.Context, repos Repos, referenceID string, kind entity.EventKind) (int, error) {
	events, err := repos.Events.ListByReference(ctx, referenceID, kind)
	if err != nil {
		return 0, fmt.Errorf("%w: list events: %w", domain.ErrTransactionFailure, err)
	}
	if len(events) == 0 {
		return 0, nil
	}
	touched := make(map[string]struct{}, len(events))
	for _, ev := range events {
		if err := repos.Projections.Increment(ctx, ev.ProductKey, ev.QuantityDelta.Neg()); err != nil {
			return 0, fmt.Errorf("%w: decrement projection: %w", domain.ErrTransactionFailure, err)
		}
		touched[ev.ProductKey] = struct{}{}
	}
	if _, err := repos.Events.DeleteByReference(ctx, referenceID, kind); err != nil {
		return 0, fmt.Errorf("%w: delete events: %w", domain.ErrTransactionFailure, err)
	}
	for key := range touched {
		left, err := repos.Events.CountByProduct(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("%w: count events: %w", domain.ErrTransactionFailure, err)
		}
		if left == 0 {
			if err := repos.Projections.Delete(ctx, key); err != nil {
				return 0, fmt.Errorf("%w: prune projection: %w", domain.ErrTransactionFailure, err)
			}
		}
	}
	return len(events), nil
}

// Query stock actual del producto; cero si no se conoce.
func (s *Store) Query(ctx context.Context, productKey string) (decimal.Decimal, error) {
	p, err := s.projections.Get(ctx, productKey)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: get projection: %w", domain.ErrTransactionFailure, err)
	}
	if p == nil {
		return decimal.Zero, nil
	}
	return p.Quantity, nil
}

// List proyecciones según el filtro, ordenadas por producto.
func (s *Store) List(ctx context.Context, filter entity.ProjectionFilter) ([]*entity.StockProjection, error) {
	list, err := s.projections.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: list projections: %w", domain.ErrTransactionFailure, err)
	}
	return list, nil
}
