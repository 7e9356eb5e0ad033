package dto

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
)

// InboundRequest body para POST/PUT /api/inbound.
// product_key o quantity ausentes son válidos: el registro se guarda pero no mueve stock.
type InboundRequest struct {
	ProductKey  string           `json:"product_key"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal  `json:"unit_cost"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	PartnerCode string           `json:"partner_code"`
	PartnerName string           `json:"partner_name"`
	Date        string           `json:"date"` // YYYY-MM-DD
}

// OutboundRequest body para POST/PUT /api/outbound.
type OutboundRequest struct {
	ProductKey  string           `json:"product_key"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	PartnerCode string           `json:"partner_code"`
	PartnerName string           `json:"partner_name"`
	Date        string           `json:"date"`
}

// AdjustmentRequest body para POST/PUT /api/adjustments. Quantity lleva signo.
type AdjustmentRequest struct {
	ProductKey string           `json:"product_key"`
	Quantity   *decimal.Decimal `json:"quantity"`
	Reason     string           `json:"reason"`
	Date       string           `json:"date"`
}

// InboundResponse entrada persistida.
type InboundResponse struct {
	ID          string              `json:"id"`
	Seq         int64               `json:"seq"`
	ProductKey  string              `json:"product_key"`
	Quantity    decimal.NullDecimal `json:"quantity"`
	UnitCost    decimal.Decimal     `json:"unit_cost"`
	Amount      decimal.NullDecimal `json:"amount"`
	PartnerCode string              `json:"partner_code"`
	PartnerName string              `json:"partner_name"`
	Date        string              `json:"date"`
}

// OutboundResponse salida persistida.
type OutboundResponse struct {
	ID          string              `json:"id"`
	Seq         int64               `json:"seq"`
	ProductKey  string              `json:"product_key"`
	Quantity    decimal.NullDecimal `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	Amount      decimal.NullDecimal `json:"amount"`
	PartnerCode string              `json:"partner_code"`
	PartnerName string              `json:"partner_name"`
	Date        string              `json:"date"`
}

// AdjustmentResponse ajuste persistido.
type AdjustmentResponse struct {
	ID         string              `json:"id"`
	Seq        int64               `json:"seq"`
	ProductKey string              `json:"product_key"`
	Quantity   decimal.NullDecimal `json:"quantity"`
	Reason     string              `json:"reason"`
	Date       string              `json:"date"`
}

func NewInboundResponse(r *entity.InboundRecord) InboundResponse {
	return InboundResponse{
		ID: r.ID, Seq: r.Seq, ProductKey: r.ProductKey, Quantity: r.Quantity, UnitCost: r.UnitCost, Amount: r.Amount,
		PartnerCode: r.PartnerCode, PartnerName: r.PartnerName, Date: r.Date.Format(DateLayout),
	}
}

func NewOutboundResponse(r *entity.OutboundRecord) OutboundResponse {
	return OutboundResponse{
		ID: r.ID, Seq: r.Seq, ProductKey: r.ProductKey, Quantity: r.Quantity, UnitPrice: r.UnitPrice, Amount: r.Amount,
		PartnerCode: r.PartnerCode, PartnerName: r.PartnerName, Date: r.Date.Format(DateLayout),
	}
}

func NewAdjustmentResponse(r *entity.AdjustmentRecord) AdjustmentResponse {
	return AdjustmentResponse{
		ID: r.ID, Seq: r.Seq, ProductKey: r.ProductKey, Quantity: r.Quantity, Reason: r.Reason, Date: r.Date.Format(DateLayout),
	}
}
