package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/pkg/numeric"
)

// Window rango de fechas inclusivo [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains indica si t cae dentro del rango (extremos incluidos).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// lot lote con la cantidad que aún no se ha consumido.
type lot struct {
	remaining decimal.Decimal
	unitCost  decimal.Decimal
}

// Matcher mantiene una cola FIFO de lotes por producto.
// No es seguro para uso concurrente; se construye uno por cálculo.
type Matcher struct {
	queues map[string][]*lot
}

// NewMatcher siembra las colas con los lotes en orden (OccurredAt, Sequence).
// Lotes sin producto o con cantidad <= 0 se ignoran, igual que en el ledger.
func NewMatcher(batches []entity.InboundBatch) *Matcher {
	sorted := make([]entity.InboundBatch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].OccurredAt.Equal(sorted[j].OccurredAt) {
			return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
		}
		return sorted[i].Sequence < sorted[j].Sequence
	})

	m := &Matcher{queues: make(map[string][]*lot)}
	for _, b := range sorted {
		if b.ProductKey == "" || !b.Quantity.IsPositive() {
			continue
		}
		m.queues[b.ProductKey] = append(m.queues[b.ProductKey], &lot{remaining: b.Quantity, unitCost: b.UnitCost})
	}
	return m
}

// Consume toma qty de la cabeza de la cola del producto y devuelve el costo acumulado y la cantidad cubierta.
// Si la cola se agota la parte no cubierta no aporta costo (sobreventa).
// Una salida sin producto nunca se cubre.
func (m *Matcher) Consume(productKey string, qty decimal.Decimal) (cost, covered decimal.Decimal) {
	cost, covered = decimal.Zero, decimal.Zero
	need := qty
	queue := m.queues[productKey]
	for need.IsPositive() && len(queue) > 0 {
		head := queue[0]
		take := decimal.Min(head.remaining, need)
		cost = numeric.Add(cost, numeric.Mul(take, head.unitCost))
		covered = numeric.Add(covered, take)
		head.remaining = numeric.Sub(head.remaining, take)
		need = numeric.Sub(need, take)
		if !head.remaining.IsPositive() {
			queue = queue[1:]
		}
	}
	m.queues[productKey] = queue
	return cost, covered
}

// BatchesFromInbound convierte registros de entrada en lotes FIFO.
func BatchesFromInbound(records []*entity.InboundRecord) []entity.InboundBatch {
	out := make([]entity.InboundBatch, 0, len(records))
	for _, r := range records {
		out = append(out, entity.InboundBatch{
			ProductKey:  r.ProductKey,
			ReferenceID: r.ID,
			Quantity:    numeric.OrZero(r.Quantity),
			UnitCost:    r.UnitCost,
			OccurredAt:  r.Date,
			Sequence:    r.Seq,
		})
	}
	return out
}

// sortOutbound copia y ordena salidas por (Date, Seq).
func sortOutbound(records []*entity.OutboundRecord) []*entity.OutboundRecord {
	sorted := make([]*entity.OutboundRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Seq < sorted[j].Seq
	})
	return sorted
}

// MatchFIFO asigna costo a cada salida del rango reproduciendo todas las entradas en orden cronológico.
// Las salidas anteriores a w.Start consumen lotes pero no aparecen en el resultado; las posteriores a w.End se ignoran.
// Costo y venta se redondean a moneda por registro para que profit = venta - costo sea reproducible.
func MatchFIFO(batches []entity.InboundBatch, outbounds []*entity.OutboundRecord, w Window, p numeric.Precision) []entity.OutboundConsumption {
	m := NewMatcher(batches)
	return m.replay(outbounds, w, p)
}

func (m *Matcher) replay(outbounds []*entity.OutboundRecord, w Window, p numeric.Precision) []entity.OutboundConsumption {
	var result []entity.OutboundConsumption
	for _, o := range sortOutbound(outbounds) {
		if o.Date.After(w.End) {
			continue
		}
		qty := numeric.OrZero(o.Quantity)
		cost, covered := m.Consume(o.ProductKey, qty)
		if !w.Contains(o.Date) {
			continue
		}
		sale := p.TotalPrice(qty, o.UnitPrice)
		if o.Amount.Valid {
			sale = p.Currency(o.Amount.Decimal)
		}
		uncovered := decimal.Zero
		if qty.GreaterThan(covered) {
			uncovered = numeric.Sub(qty, covered)
		}
		result = append(result, entity.OutboundConsumption{
			ProductKey:        o.ProductKey,
			OutboundReference: o.ID,
			PartnerCode:       o.PartnerCode,
			PartnerName:       o.PartnerName,
			Date:              o.Date,
			Quantity:          qty,
			CoveredQuantity:   covered,
			UncoveredQuantity: uncovered,
			CostAmount:        p.Currency(cost),
			SaleAmount:        sale,
		})
	}
	return result
}
