package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockProjection stock actual de un producto, derivado de los eventos del ledger.
// Invariante: Quantity == Σ QuantityDelta de los eventos del producto.
type StockProjection struct {
	ProductKey string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}

// ProjectionFilter filtro para el listado de proyecciones.
type ProjectionFilter struct {
	ProductPrefix string
	NonZeroOnly   bool
}

// ProjectionDrift diferencia detectada entre proyección y suma de eventos.
type ProjectionDrift struct {
	ProductKey string
	Projected  decimal.Decimal
	Ledger     decimal.Decimal
}
