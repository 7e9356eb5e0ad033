package repository

import (
	"context"
	"time"

	"github.com/jhoicas/trade-ledger/internal/domain/entity"
)

// InboundRepository puerto de la tabla fuente de entradas.
type InboundRepository interface {
	Create(ctx context.Context, rec *entity.InboundRecord) error
	Update(ctx context.Context, rec *entity.InboundRecord) error
	Delete(ctx context.Context, id string) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.InboundRecord, error)
	// ListOrdered todas las entradas ordenadas por (date, seq) ascendente.
	ListOrdered(ctx context.Context) ([]*entity.InboundRecord, error)
}

// OutboundRepository puerto de la tabla fuente de salidas.
type OutboundRepository interface {
	Create(ctx context.Context, rec *entity.OutboundRecord) error
	Update(ctx context.Context, rec *entity.OutboundRecord) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.OutboundRecord, error)
	// ListOrdered salidas con date <= until (nil = todas) ordenadas por (date, seq).
	ListOrdered(ctx context.Context, until *time.Time) ([]*entity.OutboundRecord, error)
}

// AdjustmentRepository puerto de la tabla fuente de ajustes de stock.
type AdjustmentRepository interface {
	Create(ctx context.Context, rec *entity.AdjustmentRecord) error
	Update(ctx context.Context, rec *entity.AdjustmentRecord) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.AdjustmentRecord, error)
	ListOrdered(ctx context.Context) ([]*entity.AdjustmentRecord, error)
}
