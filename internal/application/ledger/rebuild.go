package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/trade-ledger/internal/domain"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/pkg/logger"
	"github.com/jhoicas/trade-ledger/pkg/numeric"
)

// RebuildResult resumen de una reconstrucción completa.
type RebuildResult struct {
	EventsWritten int64         `json:"events_written"`
	ProductsCount int64         `json:"products_count"`
	Duration      time.Duration `json:"duration"`
}

// RebuildEngine regenera ledger y proyecciones desde las tablas fuente (recuperación ante drift).
type RebuildEngine struct {
	txRunner  TxRunner
	timeout   time.Duration
	precision numeric.Precision
	log       *logger.Logger
}

// NewRebuildEngine construye el motor. timeout es el límite extendido de la transacción.
func NewRebuildEngine(txRunner TxRunner, timeout time.Duration, precision numeric.Precision, log *logger.Logger) *RebuildEngine {
	return &RebuildEngine{txRunner: txRunner, timeout: timeout, precision: precision, log: log.Component("rebuild")}
}

type sourceRow struct {
	src entity.StockSource
	seq int64
}

// RebuildAll borra eventos y proyecciones, genera un evento por registro fuente que participa
// y recalcula las proyecciones solo por suma. Corre en exclusión con todos los escritores.
func (e *RebuildEngine) RebuildAll(ctx context.Context) (RebuildResult, error) {
	started := time.Now()
	var res RebuildResult
	err := e.txRunner.RunExclusive(ctx, e.timeout, func(repos Repos) error {
		if _, err := repos.Events.DeleteAll(ctx); err != nil {
			return fmt.Errorf("%w: clear events: %w", domain.ErrTransactionFailure, err)
		}
		if _, err := repos.Projections.DeleteAll(ctx); err != nil {
			return fmt.Errorf("%w: clear projections: %w", domain.ErrTransactionFailure, err)
		}

		rows, err := loadSources(ctx, repos)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		events := make([]*entity.StockEvent, 0, len(rows))
		for _, row := range rows {
			ev := eventFromSource(row.src, e.precision, now)
			if ev == nil {
				continue
			}
			ev.ID = uuid.New().String()
			events = append(events, ev)
		}

		written, err := repos.Events.CreateMany(ctx, events)
		if err != nil {
			return fmt.Errorf("%w: write events: %w", domain.ErrTransactionFailure, err)
		}
		products, err := repos.Projections.RebuildFromEvents(ctx)
		if err != nil {
			return fmt.Errorf("%w: sum projections: %w", domain.ErrTransactionFailure, err)
		}
		res.EventsWritten = written
		res.ProductsCount = products
		return nil
	})
	if err != nil {
		e.log.Error().Err(err).Msg("reconstrucción de ledger fallida")
		return RebuildResult{}, err
	}
	res.Duration = time.Since(started)
	e.log.Info().
		Int64("events_written", res.EventsWritten).
		Int64("products", res.ProductsCount).
		Dur("duration", res.Duration).
		Msg("ledger reconstruido")
	return res, nil
}

// loadSources lee entradas, salidas y ajustes y los ordena por fecha (desempate por seq).
func loadSources(ctx context.Context, repos Repos) ([]sourceRow, error) {
	inbound, err := repos.Inbound.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list inbound: %w", domain.ErrTransactionFailure, err)
	}
	outbound, err := repos.Outbound.ListOrdered(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: list outbound: %w", domain.ErrTransactionFailure, err)
	}
	adjustments, err := repos.Adjustments.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list adjustments: %w", domain.ErrTransactionFailure, err)
	}

	rows := make([]sourceRow, 0, len(inbound)+len(outbound)+len(adjustments))
	for _, r := range inbound {
		rows = append(rows, sourceRow{src: r.StockSource(), seq: r.Seq})
	}
	for _, r := range outbound {
		rows = append(rows, sourceRow{src: r.StockSource(), seq: r.Seq})
	}
	for _, r := range adjustments {
		rows = append(rows, sourceRow{src: r.StockSource(), seq: r.Seq})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].src.OccurredAt.Equal(rows[j].src.OccurredAt) {
			return rows[i].src.OccurredAt.Before(rows[j].src.OccurredAt)
		}
		return rows[i].seq < rows[j].seq
	})
	return rows, nil
}
