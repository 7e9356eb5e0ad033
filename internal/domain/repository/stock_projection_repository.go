package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
)

// StockProjectionRepository puerto para el stock derivado por producto.
type StockProjectionRepository interface {
	// Increment suma delta a la proyección creando la fila en cero si no existe.
	// Debe ser un upsert atómico con incremento, no un leer-modificar-escribir.
	Increment(ctx context.Context, productKey string, delta decimal.Decimal) error
	// Get devuelve nil, nil si el producto no tiene proyección.
	Get(ctx context.Context, productKey string) (*entity.StockProjection, error)
	List(ctx context.Context, filter entity.ProjectionFilter) ([]*entity.StockProjection, error)
	// Delete elimina la fila del producto (poda cuando no quedan eventos).
	Delete(ctx context.Context, productKey string) error
	DeleteAll(ctx context.Context) (int64, error)
	// RebuildFromEvents recalcula todas las proyecciones sumando eventos. Devuelve productos escritos.
	RebuildFromEvents(ctx context.Context) (int64, error)
}
