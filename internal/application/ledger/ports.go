package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/trade-ledger/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Events      repository.StockEventRepository
	Projections repository.StockProjectionRepository
	Inbound     repository.InboundRepository
	Outbound    repository.OutboundRepository
	Adjustments repository.AdjustmentRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback en cualquier otro caso. No reintenta.
type TxRunner interface {
	// Run transacción de escritor. Los escritores se serializan por fila de proyección
	// y toman un bloqueo compartido frente a la reconstrucción.
	Run(ctx context.Context, fn func(repos Repos) error) error
	// RunExclusive excluye a todos los escritores mientras dura fn. timeout > 0 extiende
	// el límite de la transacción (tablas grandes).
	RunExclusive(ctx context.Context, timeout time.Duration, fn func(repos Repos) error) error
}
