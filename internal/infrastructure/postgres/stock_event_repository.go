package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/internal/domain/repository"
)

var _ repository.StockEventRepository = (*StockEventRepo)(nil)

var stockEventColumns = []string{"id", "product_key", "quantity_delta", "kind", "reference_id", "occurred_at", "created_at"}

// StockEventRepo ledger de eventos de stock sobre PostgreSQL (usable con pool o tx).
type StockEventRepo struct {
	q Querier
}

// NewStockEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockEventRepository(q Querier) *StockEventRepo {
	return &StockEventRepo{q: q}
}

// Create persiste un evento.
func (r *StockEventRepo) Create(ctx context.Context, e *entity.StockEvent) error {
	query := `
		INSERT INTO stock_events (id, product_key, quantity_delta, kind, reference_id, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, e.ID, e.ProductKey, e.QuantityDelta, string(e.Kind), e.ReferenceID, e.OccurredAt, e.CreatedAt)
	if err != nil {
		return insertError("create stock event", err)
	}
	return nil
}

// CreateMany inserta en bloque con COPY.
func (r *StockEventRepo) CreateMany(ctx context.Context, events []*entity.StockEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}
	n, err := r.q.CopyFrom(ctx, pgx.Identifier{"stock_events"}, stockEventColumns,
		pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
			e := events[i]
			return []any{e.ID, e.ProductKey, e.QuantityDelta, string(e.Kind), e.ReferenceID, e.OccurredAt, e.CreatedAt}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy stock events: %w", err)
	}
	return n, nil
}

// ListByReference eventos de (referenceID, kind).
func (r *StockEventRepo) ListByReference(ctx context.Context, referenceID string, kind entity.EventKind) ([]*entity.StockEvent, error) {
	query := `
		SELECT id, product_key, quantity_delta, kind, reference_id, occurred_at, created_at
		FROM stock_events WHERE reference_id = $1 AND kind = $2
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, referenceID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list stock events: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEvent
	for rows.Next() {
		var e entity.StockEvent
		var k string
		if err := rows.Scan(&e.ID, &e.ProductKey, &e.QuantityDelta, &k, &e.ReferenceID, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock event: %w", err)
		}
		e.Kind = entity.EventKind(k)
		list = append(list, &e)
	}
	return list, rows.Err()
}

// DeleteByReference borra los eventos de (referenceID, kind).
func (r *StockEventRepo) DeleteByReference(ctx context.Context, referenceID string, kind entity.EventKind) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_events WHERE reference_id = $1 AND kind = $2`, referenceID, string(kind))
	if err != nil {
		return 0, fmt.Errorf("delete stock events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountByProduct eventos restantes del producto.
func (r *StockEventRepo) CountByProduct(ctx context.Context, productKey string) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_events WHERE product_key = $1`, productKey).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock events: %w", err)
	}
	return n, nil
}

// SumByProduct Σ quantity_delta por producto.
func (r *StockEventRepo) SumByProduct(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `SELECT product_key, SUM(quantity_delta) FROM stock_events GROUP BY product_key`)
	if err != nil {
		return nil, fmt.Errorf("sum stock events: %w", err)
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var key string
		var sum decimal.Decimal
		if err := rows.Scan(&key, &sum); err != nil {
			return nil, fmt.Errorf("scan sum: %w", err)
		}
		out[key] = sum
	}
	return out, rows.Err()
}

// DeleteAll vacía el ledger (solo reconstrucción).
func (r *StockEventRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_events`)
	if err != nil {
		return 0, fmt.Errorf("delete all stock events: %w", err)
	}
	return tag.RowsAffected(), nil
}
