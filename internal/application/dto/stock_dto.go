package dto

import "github.com/shopspring/decimal"

// ProjectionResponse stock actual de un producto.
type ProjectionResponse struct {
	ProductKey string          `json:"product_key"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// DriftResponse diferencia entre proyección y ledger.
type DriftResponse struct {
	ProductKey string          `json:"product_key"`
	Projected  decimal.Decimal `json:"projected"`
	Ledger     decimal.Decimal `json:"ledger"`
}
