package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/trade-ledger/internal/application/analysis"
	"github.com/jhoicas/trade-ledger/internal/application/ledger"
	"github.com/jhoicas/trade-ledger/internal/application/trade"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Trade    *trade.UseCase
	Store    *ledger.Store
	Rebuild  *ledger.RebuildEngine
	Analysis *analysis.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Registros fuente: cada escritura actualiza el ledger en la misma transacción.
	tradeHandler := NewTradeHandler(deps.Trade)
	inbound := api.Group("/inbound")
	inbound.Post("/", tradeHandler.CreateInbound)
	inbound.Put("/:id", tradeHandler.UpdateInbound)
	inbound.Delete("/:id", tradeHandler.DeleteInbound)

	outbound := api.Group("/outbound")
	outbound.Post("/", tradeHandler.CreateOutbound)
	outbound.Put("/:id", tradeHandler.UpdateOutbound)
	outbound.Delete("/:id", tradeHandler.DeleteOutbound)

	adjustments := api.Group("/adjustments")
	adjustments.Post("/", tradeHandler.CreateAdjustment)
	adjustments.Put("/:id", tradeHandler.UpdateAdjustment)
	adjustments.Delete("/:id", tradeHandler.DeleteAdjustment)

	// Stock
	stockHandler := NewStockHandler(deps.Store, deps.Rebuild)
	stock := api.Group("/stock")
	stock.Get("/", stockHandler.List)
	stock.Get("/verify", stockHandler.Verify)
	stock.Post("/rebuild", stockHandler.Rebuild)
	stock.Get("/:product", stockHandler.Get)

	// Análisis FIFO
	analysisHandler := NewAnalysisHandler(deps.Analysis)
	an := api.Group("/analysis")
	an.Get("/costs", analysisHandler.Costs)
	an.Get("/valuation", analysisHandler.Valuation)
}
