package dto

import "github.com/shopspring/decimal"

// CostAnalysisRequest query de GET /api/analysis/costs.
type CostAnalysisRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	GroupBy   string `query:"group_by"` // "", customer, product
}

// ConsumptionDTO costo FIFO de una salida.
type ConsumptionDTO struct {
	OutboundID        string          `json:"outbound_id"`
	ProductKey        string          `json:"product_key"`
	PartnerCode       string          `json:"partner_code"`
	PartnerName       string          `json:"partner_name"`
	Date              string          `json:"date"`
	Quantity          decimal.Decimal `json:"quantity"`
	UncoveredQuantity decimal.Decimal `json:"uncovered_quantity"` // vendido sin lote disponible (sin costo)
	CostAmount        decimal.Decimal `json:"cost_amount"`
	SaleAmount        decimal.Decimal `json:"sale_amount"`
	Profit            decimal.Decimal `json:"profit"`
}

// CustomerCostSummaryDTO agregado por cliente (aritmética float64 de presentación).
type CustomerCostSummaryDTO struct {
	PartnerID   string  `json:"partner_id"`
	PartnerCode string  `json:"partner_code"`
	PartnerName string  `json:"partner_name"`
	Records     int     `json:"records"`
	Sale        float64 `json:"sale"`
	Cost        float64 `json:"cost"`
	Profit      float64 `json:"profit"`
}

// ProductCostSummaryDTO agregado por producto.
type ProductCostSummaryDTO struct {
	ProductKey string  `json:"product_key"`
	Records    int     `json:"records"`
	Quantity   float64 `json:"quantity"`
	Sale       float64 `json:"sale"`
	Cost       float64 `json:"cost"`
	Profit     float64 `json:"profit"`
}

// ValuationDTO inventario remanente valorado a FIFO.
type ValuationDTO struct {
	ProductKey      string          `json:"product_key"`
	Quantity        decimal.Decimal `json:"quantity"`
	Value           decimal.Decimal `json:"value"`
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
}
