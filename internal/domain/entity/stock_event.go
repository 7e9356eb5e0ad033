package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind tipo de evento del ledger; junto con ReferenceID identifica el aporte de un registro fuente.
type EventKind string

const (
	EventKindInbound    EventKind = "IN"
	EventKindOutbound   EventKind = "OUT"
	EventKindAdjustment EventKind = "ADJUSTMENT"
)

// Valid indica si el tipo es uno de los conocidos.
func (k EventKind) Valid() bool {
	switch k {
	case EventKindInbound, EventKindOutbound, EventKindAdjustment:
		return true
	}
	return false
}

// StockEvent entrada inmutable del ledger de stock.
// QuantityDelta es positivo en entradas y negativo en salidas, de modo que la suma da el stock neto.
type StockEvent struct {
	ID            string
	ProductKey    string
	QuantityDelta decimal.Decimal
	Kind          EventKind
	ReferenceID   string
	OccurredAt    time.Time
	CreatedAt     time.Time
}
