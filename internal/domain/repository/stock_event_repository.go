package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
)

// StockEventRepository puerto de persistencia del ledger de stock (append-only).
// Los eventos solo se borran como unidad por (referenceID, kind) o en la reconstrucción completa.
type StockEventRepository interface {
	Create(ctx context.Context, event *entity.StockEvent) error
	// CreateMany inserta en bloque (reconstrucción). Devuelve filas escritas.
	CreateMany(ctx context.Context, events []*entity.StockEvent) (int64, error)
	ListByReference(ctx context.Context, referenceID string, kind entity.EventKind) ([]*entity.StockEvent, error)
	DeleteByReference(ctx context.Context, referenceID string, kind entity.EventKind) (int64, error)
	// CountByProduct cuántos eventos quedan para el producto.
	CountByProduct(ctx context.Context, productKey string) (int64, error)
	// SumByProduct Σ quantity_delta agrupado por producto.
	SumByProduct(ctx context.Context) (map[string]decimal.Decimal, error)
	DeleteAll(ctx context.Context) (int64, error)
}
