package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/trade-ledger/internal/application/dto"
	"github.com/jhoicas/trade-ledger/internal/application/trade"
)

// TradeHandler altas, cambios y bajas de entradas, salidas y ajustes.
type TradeHandler struct {
	uc *trade.UseCase
}

// NewTradeHandler construye el handler.
func NewTradeHandler(uc *trade.UseCase) *TradeHandler {
	return &TradeHandler{uc: uc}
}

// CreateInbound godoc
// @Summary      Registrar entrada de mercancía
// @Tags         trade
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InboundRequest  true  "product_key, quantity, unit_cost, date"
// @Success      201   {object}  dto.InboundResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inbound [post]
func (h *TradeHandler) CreateInbound(c *fiber.Ctx) error {
	var in dto.InboundRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.uc.CreateInbound(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewInboundResponse(rec))
}

// UpdateInbound godoc
// @Summary      Modificar entrada (revierte y reaplica su aporte al stock)
// @Tags         trade
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la entrada"
// @Param        body  body  dto.InboundRequest  true  "registro completo"
// @Success      200   {object}  dto.InboundResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inbound/{id} [put]
func (h *TradeHandler) UpdateInbound(c *fiber.Ctx) error {
	var in dto.InboundRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.uc.UpdateInbound(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewInboundResponse(rec))
}

// DeleteInbound godoc
// @Summary      Borrar entrada
// @Tags         trade
// @Param        id  path  string  true  "ID de la entrada"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inbound/{id} [delete]
func (h *TradeHandler) DeleteInbound(c *fiber.Ctx) error {
	if err := h.uc.DeleteInbound(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateOutbound godoc
// @Summary      Registrar salida (venta)
// @Tags         trade
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OutboundRequest  true  "product_key, quantity, unit_price, date"
// @Success      201   {object}  dto.OutboundResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/outbound [post]
func (h *TradeHandler) CreateOutbound(c *fiber.Ctx) error {
	var in dto.OutboundRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.uc.CreateOutbound(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewOutboundResponse(rec))
}

// UpdateOutbound godoc
// @Summary      Modificar salida
// @Tags         trade
// @Router       /api/outbound/{id} [put]
func (h *TradeHandler) UpdateOutbound(c *fiber.Ctx) error {
	var in dto.OutboundRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.uc.UpdateOutbound(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewOutboundResponse(rec))
}

// DeleteOutbound godoc
// @Summary      Borrar salida
// @Tags         trade
// @Router       /api/outbound/{id} [delete]
func (h *TradeHandler) DeleteOutbound(c *fiber.Ctx) error {
	if err := h.uc.DeleteOutbound(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateAdjustment godoc
// @Summary      Registrar ajuste de stock (cantidad con signo)
// @Tags         trade
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "product_key, quantity (+/-), reason, date"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *TradeHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.uc.CreateAdjustment(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAdjustmentResponse(rec))
}

func (h *TradeHandler) UpdateAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, err := h.uc.UpdateAdjustment(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAdjustmentResponse(rec))
}

func (h *TradeHandler) DeleteAdjustment(c *fiber.Ctx) error {
	if err := h.uc.DeleteAdjustment(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
