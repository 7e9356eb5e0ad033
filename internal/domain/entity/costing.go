package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InboundBatch lote de entrada para FIFO, ordenado por (OccurredAt, Sequence).
type InboundBatch struct {
	ProductKey  string
	ReferenceID string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	OccurredAt  time.Time
	Sequence    int64
}

// OutboundConsumption resultado efímero del emparejamiento FIFO de una salida; no se persiste.
// UncoveredQuantity es la parte vendida sin lote disponible (sobreventa), que no aporta costo.
type OutboundConsumption struct {
	ProductKey        string
	OutboundReference string
	PartnerCode       string
	PartnerName       string
	Date              time.Time
	Quantity          decimal.Decimal
	CoveredQuantity   decimal.Decimal
	UncoveredQuantity decimal.Decimal
	CostAmount        decimal.Decimal
	SaleAmount        decimal.Decimal
}

// Profit venta menos costo, ambos ya redondeados a moneda.
func (c OutboundConsumption) Profit() decimal.Decimal {
	return c.SaleAmount.Sub(c.CostAmount)
}
