package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/internal/domain/repository"
)

var (
	_ repository.StockEventRepository      = (*StockEventRepo)(nil)
	_ repository.StockProjectionRepository = (*StockProjectionRepo)(nil)
)

// StockEventRepo eventos del ledger en memoria.
type StockEventRepo struct {
	a access
}

func (r *StockEventRepo) Create(_ context.Context, event *entity.StockEvent) error {
	return r.a.write("events.Create", func(st *state) error {
		ev := *event
		st.events = append(st.events, &ev)
		return nil
	})
}

func (r *StockEventRepo) CreateMany(_ context.Context, events []*entity.StockEvent) (int64, error) {
	err := r.a.write("events.CreateMany", func(st *state) error {
		for _, e := range events {
			ev := *e
			st.events = append(st.events, &ev)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int64(len(events)), nil
}

func (r *StockEventRepo) ListByReference(_ context.Context, referenceID string, kind entity.EventKind) ([]*entity.StockEvent, error) {
	var out []*entity.StockEvent
	err := r.a.read(func(st *state) error {
		for _, e := range st.events {
			if e.ReferenceID == referenceID && e.Kind == kind {
				ev := *e
				out = append(out, &ev)
			}
		}
		return nil
	})
	return out, err
}

func (r *StockEventRepo) DeleteByReference(_ context.Context, referenceID string, kind entity.EventKind) (int64, error) {
	var n int64
	err := r.a.write("events.DeleteByReference", func(st *state) error {
		kept := st.events[:0]
		for _, e := range st.events {
			if e.ReferenceID == referenceID && e.Kind == kind {
				n++
				continue
			}
			kept = append(kept, e)
		}
		st.events = kept
		return nil
	})
	return n, err
}

func (r *StockEventRepo) CountByProduct(_ context.Context, productKey string) (int64, error) {
	var n int64
	err := r.a.read(func(st *state) error {
		for _, e := range st.events {
			if e.ProductKey == productKey {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *StockEventRepo) SumByProduct(_ context.Context) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	err := r.a.read(func(st *state) error {
		for _, e := range st.events {
			sums[e.ProductKey] = sums[e.ProductKey].Add(e.QuantityDelta)
		}
		return nil
	})
	return sums, err
}

func (r *StockEventRepo) DeleteAll(_ context.Context) (int64, error) {
	var n int64
	err := r.a.write("events.DeleteAll", func(st *state) error {
		n = int64(len(st.events))
		st.events = nil
		return nil
	})
	return n, err
}

// All copia de todos los eventos (inspección en tests).
func (r *StockEventRepo) All() []*entity.StockEvent {
	var out []*entity.StockEvent
	_ = r.a.read(func(st *state) error {
		for _, e := range st.events {
			ev := *e
			out = append(out, &ev)
		}
		return nil
	})
	return out
}

// StockProjectionRepo proyecciones en memoria.
type StockProjectionRepo struct {
	a access
}

func (r *StockProjectionRepo) Increment(_ context.Context, productKey string, delta decimal.Decimal) error {
	return r.a.write("projections.Increment", func(st *state) error {
		now := time.Now().UTC()
		if p, ok := st.projections[productKey]; ok {
			p.Quantity = p.Quantity.Add(delta)
			p.UpdatedAt = now
			return nil
		}
		st.projections[productKey] = &entity.StockProjection{ProductKey: productKey, Quantity: decimal.Zero.Add(delta), UpdatedAt: now}
		return nil
	})
}

func (r *StockProjectionRepo) Get(_ context.Context, productKey string) (*entity.StockProjection, error) {
	var out *entity.StockProjection
	err := r.a.read(func(st *state) error {
		if p, ok := st.projections[productKey]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *StockProjectionRepo) List(_ context.Context, filter entity.ProjectionFilter) ([]*entity.StockProjection, error) {
	var out []*entity.StockProjection
	err := r.a.read(func(st *state) error {
		for key, p := range st.projections {
			if filter.ProductPrefix != "" && !strings.HasPrefix(key, filter.ProductPrefix) {
				continue
			}
			if filter.NonZeroOnly && p.Quantity.IsZero() {
				continue
			}
			cp := *p
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProductKey < out[j].ProductKey })
	return out, err
}

func (r *StockProjectionRepo) Delete(_ context.Context, productKey string) error {
	return r.a.write("projections.Delete", func(st *state) error {
		delete(st.projections, productKey)
		return nil
	})
}

func (r *StockProjectionRepo) DeleteAll(_ context.Context) (int64, error) {
	var n int64
	err := r.a.write("projections.DeleteAll", func(st *state) error {
		n = int64(len(st.projections))
		st.projections = make(map[string]*entity.StockProjection)
		return nil
	})
	return n, err
}

func (r *StockProjectionRepo) RebuildFromEvents(_ context.Context) (int64, error) {
	var n int64
	err := r.a.write("projections.RebuildFromEvents", func(st *state) error {
		now := time.Now().UTC()
		st.projections = make(map[string]*entity.StockProjection)
		for _, e := range st.events {
			p, ok := st.projections[e.ProductKey]
			if !ok {
				p = &entity.StockProjection{ProductKey: e.ProductKey, Quantity: decimal.Zero, UpdatedAt: now}
				st.projections[e.ProductKey] = p
			}
			p.Quantity = p.Quantity.Add(e.QuantityDelta)
		}
		n = int64(len(st.projections))
		return nil
	})
	return n, err
}

// SetQuantity fuerza una proyección (solo para simular drift en tests).
func (r *StockProjectionRepo) SetQuantity(productKey string, qty decimal.Decimal) {
	_ = r.a.write("projections.SetQuantity", func(st *state) error {
		st.projections[productKey] = &entity.StockProjection{ProductKey: productKey, Quantity: qty, UpdatedAt: time.Now().UTC()}
		return nil
	})
}
