package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/trade-ledger/internal/application/analysis"
	"github.com/jhoicas/trade-ledger/internal/application/dto"
)

// AnalysisHandler costo de ventas FIFO y valuación de inventario.
type AnalysisHandler struct {
	uc *analysis.UseCase
}

// NewAnalysisHandler construye el handler.
func NewAnalysisHandler(uc *analysis.UseCase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

func parseQueryDate(s string) (time.Time, bool) {
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(s))
	return t, err == nil
}

// Costs godoc
// @Summary      Costo FIFO de las salidas de un período
// @Description  Reproduce todas las entradas en orden (fecha, secuencia). group_by=customer|product agrega
//               los resultados; sin group_by devuelve una fila por salida.
// @Tags         analysis
// @Produce      json
// @Param        start_date  query  string  true   "Inicio (YYYY-MM-DD), inclusivo"
// @Param        end_date    query  string  true   "Fin (YYYY-MM-DD), inclusivo"
// @Param        group_by    query  string  false  "customer | product"
// @Success      200  {array}   dto.ConsumptionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analysis/costs [get]
func (h *AnalysisHandler) Costs(c *fiber.Ctx) error {
	var req dto.CostAnalysisRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	start, okStart := parseQueryDate(req.StartDate)
	end, okEnd := parseQueryDate(req.EndDate)
	if !okStart || !okEnd {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "start_date y end_date deben ser YYYY-MM-DD"})
	}

	rows, err := h.uc.ComputeCosts(c.UserContext(), start, end)
	if err != nil {
		return writeError(c, err)
	}

	switch req.GroupBy {
	case "":
		return c.JSON(analysis.ToConsumptionDTO(rows))
	case "customer":
		summary, err := h.uc.SummarizeByCustomer(c.UserContext(), rows)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(summary)
	case "product":
		return c.JSON(h.uc.SummarizeByProduct(rows))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "group_by debe ser customer o product"})
	}
}

// Valuation godoc
// @Summary      Inventario remanente valorado a FIFO
// @Tags         analysis
// @Produce      json
// @Param        as_of  query  string  false  "Fecha de corte (YYYY-MM-DD). Default: hoy."
// @Success      200  {array}   dto.ValuationDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analysis/valuation [get]
func (h *AnalysisHandler) Valuation(c *fiber.Ctx) error {
	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := c.Query("as_of"); raw != "" {
		t, ok := parseQueryDate(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "as_of debe ser YYYY-MM-DD"})
		}
		asOf = t
	}
	list, err := h.uc.ValueInventory(c.UserContext(), asOf)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.uc.ToValuationDTO(list))
}
