package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/internal/domain/repository"
)

var _ repository.StockProjectionRepository = (*StockProjectionRepo)(nil)

// StockProjectionRepo stock derivado por producto sobre PostgreSQL (usable con pool o tx).
type StockProjectionRepo struct {
	q Querier
}

// NewStockProjectionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockProjectionRepository(q Querier) *StockProjectionRepo {
	return &StockProjectionRepo{q: q}
}

// Increment upsert con incremento: dos escritores concurrentes sobre el mismo producto
// se serializan en la fila y ninguno pierde su delta.
func (r *StockProjectionRepo) Increment(ctx context.Context, productKey string, delta decimal.Decimal) error {
	query := `
		INSERT INTO stock_projections (product_key, quantity, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (product_key)
		DO UPDATE SET quantity = stock_projections.quantity + EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, productKey, delta); err != nil {
		return fmt.Errorf("increment projection: %w", err)
	}
	return nil
}

// Get proyección del producto; nil, nil si no existe.
func (r *StockProjectionRepo) Get(ctx context.Context, productKey string) (*entity.StockProjection, error) {
	var p entity.StockProjection
	err := r.q.QueryRow(ctx,
		`SELECT product_key, quantity, updated_at FROM stock_projections WHERE product_key = $1`, productKey,
	).Scan(&p.ProductKey, &p.Quantity, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get projection: %w", err)
	}
	return &p, nil
}

// List proyecciones filtradas por prefijo de producto y opcionalmente sin ceros.
func (r *StockProjectionRepo) List(ctx context.Context, filter entity.ProjectionFilter) ([]*entity.StockProjection, error) {
	query := `
		SELECT product_key, quantity, updated_at FROM stock_projections
		WHERE ($1 = '' OR starts_with(product_key, $1))
		  AND (NOT $2 OR quantity <> 0)
		ORDER BY product_key`
	rows, err := r.q.Query(ctx, query, filter.ProductPrefix, filter.NonZeroOnly)
	if err != nil {
		return nil, fmt.Errorf("list projections: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockProjection
	for rows.Next() {
		var p entity.StockProjection
		if err := rows.Scan(&p.ProductKey, &p.Quantity, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan projection: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete elimina la proyección del producto.
func (r *StockProjectionRepo) Delete(ctx context.Context, productKey string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_projections WHERE product_key = $1`, productKey); err != nil {
		return fmt.Errorf("delete projection: %w", err)
	}
	return nil
}

// DeleteAll vacía las proyecciones (solo reconstrucción).
func (r *StockProjectionRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_projections`)
	if err != nil {
		return 0, fmt.Errorf("delete all projections: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RebuildFromEvents recalcula todas las proyecciones en una sola sentencia a partir de los eventos.
func (r *StockProjectionRepo) RebuildFromEvents(ctx context.Context) (int64, error) {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_projections`); err != nil {
		return 0, fmt.Errorf("clear projections: %w", err)
	}
	tag, err := r.q.Exec(ctx, `
		INSERT INTO stock_projections (product_key, quantity, updated_at)
		SELECT product_key, SUM(quantity_delta), now()
		FROM stock_events
		GROUP BY product_key`)
	if err != nil {
		return 0, fmt.Errorf("rebuild projections: %w", err)
	}
	return tag.RowsAffected(), nil
}
