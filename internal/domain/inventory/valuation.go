package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/pkg/numeric"
)

// Valuation inventario remanente de un producto después de reproducir FIFO.
type Valuation struct {
	ProductKey string
	Quantity   decimal.Decimal
	Value      decimal.Decimal
}

// AverageUnitCost Value / Quantity sobre los lotes remanentes (solo informativo; el costeo es FIFO puro).
func (v Valuation) AverageUnitCost() (decimal.Decimal, error) {
	return numeric.Div(v.Value, v.Quantity)
}

// Remaining valuación de los lotes no consumidos, ordenada por producto. Omite productos sin remanente.
func (m *Matcher) Remaining() []Valuation {
	out := make([]Valuation, 0, len(m.queues))
	for key, queue := range m.queues {
		v := Valuation{ProductKey: key, Quantity: decimal.Zero, Value: decimal.Zero}
		for _, l := range queue {
			v.Quantity = numeric.Add(v.Quantity, l.remaining)
			v.Value = numeric.Add(v.Value, numeric.Mul(l.remaining, l.unitCost))
		}
		if v.Quantity.IsPositive() {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductKey < out[j].ProductKey })
	return out
}

// ValueRemaining reproduce las salidas hasta w.End y devuelve el inventario remanente valorado a FIFO.
func ValueRemaining(batches []entity.InboundBatch, outbounds []*entity.OutboundRecord, w Window, p numeric.Precision) []Valuation {
	m := NewMatcher(batches)
	_ = m.replay(outbounds, w, p)
	return m.Remaining()
}
