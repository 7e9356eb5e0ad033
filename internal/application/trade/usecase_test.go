package trade_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trade-ledger/internal/application/analysis"
	"github.com/jhoicas/trade-ledger/internal/application/dto"
	"github.com/jhoicas/trade-ledger/internal/application/ledger"
	"github.com/jhoicas/trade-ledger/internal/application/trade"
	"github.com/jhoicas/trade-ledger/internal/domain"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/trade-ledger/pkg/logger"
	"github.com/jhoicas/trade-ledger/pkg/numeric"
)

type fixture struct {
	db       *memory.DB
	trade    *trade.UseCase
	store    *ledger.Store
	rebuild  *ledger.RebuildEngine
	analysis *analysis.UseCase
}

func newFixture() *fixture {
	db := memory.NewDB()
	tx := memory.NewTxRunner(db)
	repos := db.Repos()
	log := logger.Nop()
	store := ledger.NewStore(tx, repos.Projections, log)
	rec := ledger.NewReconciler(tx, store, numeric.DefaultPrecision, log)
	return &fixture{
		db:       db,
		trade:    trade.NewUseCase(tx, rec),
		store:    store,
		rebuild:  ledger.NewRebuildEngine(tx, time.Minute, numeric.DefaultPrecision, log),
		analysis: analysis.NewUseCase(repos.Inbound, repos.Outbound, db.Partners(), numeric.DefaultPrecision, log),
	}
}

func qty(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(d int) string { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC).Format(dto.DateLayout) }

func (f *fixture) stock(t *testing.T, product string) string {
	t.Helper()
	q, err := f.store.Query(context.Background(), product)
	require.NoError(t, err)
	return q.String()
}

// snapshot proyecciones como product -> cantidad (forma string).
func (f *fixture) snapshot(t *testing.T) map[string]string {
	t.Helper()
	list, err := f.store.List(context.Background(), entity.ProjectionFilter{})
	require.NoError(t, err)
	out := make(map[string]string, len(list))
	for _, p := range list {
		out[p.ProductKey] = p.Quantity.String()
	}
	return out
}

func TestEndToEnd_ProjectionAndFIFOCost(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.trade.CreateInbound(ctx, dto.InboundRequest{ProductKey: "X", Quantity: qty("10"), UnitCost: dec("5"), Date: date(1)})
	require.NoError(t, err)
	_, err = f.trade.CreateInbound(ctx, dto.InboundRequest{ProductKey: "X", Quantity: qty("5"), UnitCost: dec("9"), Date: date(2)})
	require.NoError(t, err)
	out, err := f.trade.CreateOutbound(ctx, dto.OutboundRequest{ProductKey: "X", Quantity: qty("12"), UnitPrice: dec("10"), Date: date(3)})
	require.NoError(t, err)

	assert.Equal(t, "3", f.stock(t, "X"))

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	rows, err := f.analysis.ComputeCosts(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, out.ID, rows[0].OutboundReference)
	assert.Equal(t, "68", rows[0].CostAmount.String())
	assert.Equal(t, "120", rows[0].SaleAmount.String())
}

func TestCreate_SourceWithoutQuantityDoesNotMoveStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	rec, err := f.trade.CreateInbound(ctx, dto.InboundRequest{ProductKey: "X", UnitCost: dec("5"), Date: date(1)})
	require.NoError(t, err)
	_, err = f.trade.CreateOutbound(ctx, dto.OutboundRequest{Quantity: qty("4"), UnitPrice: dec("5"), Date: date(1)})
	require.NoError(t, err)

	assert.Equal(t, "0", f.stock(t, "X"))
	assert.Empty(t, f.snapshot(t))

	// El registro fuente sí se guarda.
	got, err := f.db.Repos().Inbound.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestCreate_InvalidDate(t *testing.T) {
	f := newFixture()
	_, err := f.trade.CreateInbound(context.Background(), dto.InboundRequest{ProductKey: "X", Quantity: qty("1"), Date: "03/01/2024"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_ReappliesContribution(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	rec, err := f.trade.CreateInbound(ctx, dto.InboundRequest{ProductKey: "A", Quantity: qty("10"), UnitCost: dec("1"), Date: date(1)})
	require.NoError(t, err)

	// Mismo contenido dos veces: mismo estado.
	req := dto.InboundRequest{ProductKey: "A", Quantity: qty("7"), UnitCost: dec("1"), Date: date(1)}
	_, err = f.trade.UpdateInbound(ctx, rec.ID, req)
	require.NoError(t, err)
	first := f.snapshot(t)
	_, err = f.trade.UpdateInbound(ctx, rec.ID, req)
	require.NoError(t, err)
	assert.Equal(t, first, f.snapshot(t))
	assert.Equal(t, "7", f.stock(t, "A"))

	// Cambio de producto: el stock se mueve de A a B.
	_, err = f.trade.UpdateInbound(ctx, rec.ID, dto.InboundRequest{ProductKey: "B", Quantity: qty("7"), UnitCost: dec("1"), Date: date(1)})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"B": "7"}, f.snapshot(t))

	// Seq se conserva para el desempate FIFO.
	got, err := f.db.Repos().Inbound.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Seq, got.Seq)
}

func TestUpdate_MissingRecord(t *testing.T) {
	f := newFixture()
	_, err := f.trade.UpdateOutbound(context.Background(), "nope", dto.OutboundRequest{ProductKey: "X", Quantity: qty("1"), Date: date(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_FailureRollsBackSourceAndLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	rec, err := f.trade.CreateOutbound(ctx, dto.OutboundRequest{ProductKey: "X", Quantity: qty("4"), UnitPrice: dec("2"), Date: date(2)})
	require.NoError(t, err)
	before := f.snapshot(t)

	boom := errors.New("disk full")
	f.db.FailNext("events.Create", boom)
	_, err = f.trade.UpdateOutbound(ctx, rec.ID, dto.OutboundRequest{ProductKey: "X", Quantity: qty("9"), UnitPrice: dec("2"), Date: date(2)})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, domain.ErrTransactionFailure)

	assert.Equal(t, before, f.snapshot(t))
	got, err := f.db.Repos().Outbound.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "4", got.Quantity.Decimal.String())
}

func TestDelete_RevertsAndPrunes(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	in, err := f.trade.CreateInbound(ctx, dto.InboundRequest{ProductKey: "X", Quantity: qty("5"), UnitCost: dec("1"), Date: date(1)})
	require.NoError(t, err)
	adj, err := f.trade.CreateAdjustment(ctx, dto.AdjustmentRequest{ProductKey: "X", Quantity: qty("-2"), Reason: "merma", Date: date(2)})
	require.NoError(t, err)
	assert.Equal(t, "3", f.stock(t, "X"))

	require.NoError(t, f.trade.DeleteAdjustment(ctx, adj.ID))
	assert.Equal(t, "5", f.stock(t, "X"))
	require.NoError(t, f.trade.DeleteInbound(ctx, in.ID))
	assert.Empty(t, f.snapshot(t))

	assert.ErrorIs(t, f.trade.DeleteInbound(ctx, in.ID), domain.ErrNotFound)
}

func TestRebuild_MatchesIncrementalState(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	rng := rand.New(rand.NewSource(42))
	products := []string{"A", "B", "C"}

	var inbound, outbound []string
	for i := 0; i < 60; i++ {
		p := products[rng.Intn(len(products))]
		q := decimal.NewFromInt(int64(rng.Intn(20) + 1)).Div(decimal.NewFromInt(4))
		d := date(rng.Intn(28) + 1)
		switch op := rng.Intn(6); {
		case op <= 1:
			r, err := f.trade.CreateInbound(ctx, dto.InboundRequest{ProductKey: p, Quantity: &q, UnitCost: dec("3.5"), Date: d})
			require.NoError(t, err)
			inbound = append(inbound, r.ID)
		case op == 2:
			r, err := f.trade.CreateOutbound(ctx, dto.OutboundRequest{ProductKey: p, Quantity: &q, UnitPrice: dec("6"), Date: d})
			require.NoError(t, err)
			outbound = append(outbound, r.ID)
		case op == 3:
			neg := q.Neg()
			_, err := f.trade.CreateAdjustment(ctx, dto.AdjustmentRequest{ProductKey: p, Quantity: &neg, Date: d})
			require.NoError(t, err)
		case op == 4 && len(inbound) > 0:
			id := inbound[rng.Intn(len(inbound))]
			_, err := f.trade.UpdateInbound(ctx, id, dto.InboundRequest{ProductKey: p, Quantity: &q, UnitCost: dec("4"), Date: d})
			require.NoError(t, err)
		case op == 5 && len(outbound) > 0:
			idx := rng.Intn(len(outbound))
			require.NoError(t, f.trade.DeleteOutbound(ctx, outbound[idx]))
			outbound = append(outbound[:idx], outbound[idx+1:]...)
		}
	}

	_, err := f.store.Verify(ctx)
	require.NoError(t, err)
	incremental := f.snapshot(t)

	res, err := f.rebuild.RebuildAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(incremental)), res.ProductsCount)
	assert.Equal(t, incremental, f.snapshot(t))
}

func TestConcurrentWriters_SameProductWithRebuildAndCosting(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	const writers = 60

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errCh := make(chan error, writers*3)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := dto.InboundRequest{ProductKey: "X", Quantity: qty("2"), UnitCost: dec("3"), Date: date(i%28 + 1)}
			rec, err := f.trade.CreateInbound(ctx, req)
			if err != nil {
				errCh <- fmt.Errorf("create %d: %w", i, err)
				return
			}
			if i%3 == 0 {
				// Misma cantidad, otro costo: el stock no cambia.
				req.UnitCost = dec("4")
				if _, err := f.trade.UpdateInbound(ctx, rec.ID, req); err != nil {
					errCh <- fmt.Errorf("update %d: %w", i, err)
				}
			}
			if i%10 == 0 {
				if _, err := f.rebuild.RebuildAll(ctx); err != nil {
					errCh <- fmt.Errorf("rebuild %d: %w", i, err)
				}
			}
			if i%7 == 0 {
				if _, err := f.analysis.ComputeCosts(ctx, start, end); err != nil {
					errCh <- fmt.Errorf("costs %d: %w", i, err)
				}
			}
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("escritor concurrente: %v", err)
	}

	assert.Equal(t, decimal.NewFromInt(2*writers).String(), f.stock(t, "X"))
	_, err := f.store.Verify(ctx)
	require.NoError(t, err)

	incremental := f.snapshot(t)
	_, err = f.rebuild.RebuildAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, incremental, f.snapshot(t))
}
