package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InboundRecord registro fuente de una entrada de mercancía (compra).
// Seq es monótono (orden de inserción) y desempata lotes con la misma fecha en FIFO.
type InboundRecord struct {
	ID          string
	Seq         int64
	ProductKey  string
	Quantity    decimal.NullDecimal
	UnitCost    decimal.Decimal
	Amount      decimal.NullDecimal
	PartnerCode string
	PartnerName string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OutboundRecord registro fuente de una salida de mercancía (venta).
type OutboundRecord struct {
	ID          string
	Seq         int64
	ProductKey  string
	Quantity    decimal.NullDecimal
	UnitPrice   decimal.Decimal
	Amount      decimal.NullDecimal
	PartnerCode string
	PartnerName string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AdjustmentRecord ajuste manual de stock (conteo físico, merma). Quantity lleva signo.
type AdjustmentRecord struct {
	ID         string
	Seq        int64
	ProductKey string
	Quantity   decimal.NullDecimal
	Reason     string
	Date       time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StockSource vista mínima de un registro fuente que el reconciliador traduce a eventos.
type StockSource struct {
	ReferenceID string
	Kind        EventKind
	ProductKey  string
	Quantity    decimal.NullDecimal
	OccurredAt  time.Time
}

// StockSource del registro de entrada.
func (r *InboundRecord) StockSource() StockSource {
	return StockSource{ReferenceID: r.ID, Kind: EventKindInbound, ProductKey: r.ProductKey, Quantity: r.Quantity, OccurredAt: r.Date}
}

// StockSource del registro de salida.
func (r *OutboundRecord) StockSource() StockSource {
	return StockSource{ReferenceID: r.ID, Kind: EventKindOutbound, ProductKey: r.ProductKey, Quantity: r.Quantity, OccurredAt: r.Date}
}

// StockSource del ajuste.
func (r *AdjustmentRecord) StockSource() StockSource {
	return StockSource{ReferenceID: r.ID, Kind: EventKindAdjustment, ProductKey: r.ProductKey, Quantity: r.Quantity, OccurredAt: r.Date}
}
