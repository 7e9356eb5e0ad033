package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/trade-ledger/internal/application/dto"
	"github.com/jhoicas/trade-ledger/internal/application/ledger"
	"github.com/jhoicas/trade-ledger/internal/domain"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
)

// StockHandler lectura de proyecciones, verificación y reconstrucción del ledger.
type StockHandler struct {
	store   *ledger.Store
	rebuild *ledger.RebuildEngine
}

// NewStockHandler construye el handler.
func NewStockHandler(store *ledger.Store, rebuild *ledger.RebuildEngine) *StockHandler {
	return &StockHandler{store: store, rebuild: rebuild}
}

// List godoc
// @Summary      Stock actual por producto
// @Tags         stock
// @Produce      json
// @Param        prefix    query  string  false  "Prefijo de product_key"
// @Param        non_zero  query  bool    false  "Omitir productos en cero"
// @Success      200  {array}   dto.ProjectionResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	filter := entity.ProjectionFilter{
		ProductPrefix: c.Query("prefix"),
		NonZeroOnly:   c.QueryBool("non_zero", false),
	}
	list, err := h.store.List(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ProjectionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ProjectionResponse{ProductKey: p.ProductKey, Quantity: p.Quantity})
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Stock actual de un producto (cero si no tiene movimientos)
// @Tags         stock
// @Produce      json
// @Param        product  path  string  true  "product_key"
// @Success      200  {object}  dto.ProjectionResponse
// @Router       /api/stock/{product} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	key := c.Params("product")
	qty, err := h.store.Query(c.UserContext(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ProjectionResponse{ProductKey: key, Quantity: qty})
}

// Rebuild godoc
// @Summary      Reconstruir ledger y proyecciones desde las tablas fuente
// @Description  Bloquea a todos los escritores mientras corre.
// @Tags         stock
// @Produce      json
// @Success      200  {object}  ledger.RebuildResult
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/rebuild [post]
func (h *StockHandler) Rebuild(c *fiber.Ctx) error {
	res, err := h.rebuild.RebuildAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Verify godoc
// @Summary      Comparar proyecciones con la suma del ledger
// @Tags         stock
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  map[string]any
// @Router       /api/stock/verify [get]
func (h *StockHandler) Verify(c *fiber.Ctx) error {
	drifts, err := h.store.Verify(c.UserContext())
	if err != nil && !errors.Is(err, domain.ErrConsistencyViolation) {
		return writeError(c, err)
	}
	out := make([]dto.DriftResponse, 0, len(drifts))
	for _, d := range drifts {
		out = append(out, dto.DriftResponse{ProductKey: d.ProductKey, Projected: d.Projected, Ledger: d.Ledger})
	}
	status := fiber.StatusOK
	if len(out) > 0 {
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"consistent": len(out) == 0, "drifts": out})
}
