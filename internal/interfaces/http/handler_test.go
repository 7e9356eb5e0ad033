package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trade-ledger/internal/application/analysis"
	"github.com/jhoicas/trade-ledger/internal/application/dto"
	"github.com/jhoicas/trade-ledger/internal/application/ledger"
	"github.com/jhoicas/trade-ledger/internal/application/trade"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/trade-ledger/internal/interfaces/http"
	"github.com/jhoicas/trade-ledger/pkg/logger"
	"github.com/jhoicas/trade-ledger/pkg/numeric"
)

// buildTestApp arma la API completa sobre el backend en memoria.
func buildTestApp() (*fiber.App, *memory.DB) {
	db := memory.NewDB()
	tx := memory.NewTxRunner(db)
	repos := db.Repos()
	log := logger.Nop()
	store := ledger.NewStore(tx, repos.Projections, log)
	rec := ledger.NewReconciler(tx, store, numeric.DefaultPrecision, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Trade:    trade.NewUseCase(tx, rec),
		Store:    store,
		Rebuild:  ledger.NewRebuildEngine(tx, time.Minute, numeric.DefaultPrecision, log),
		Analysis: analysis.NewUseCase(repos.Inbound, repos.Outbound, db.Partners(), numeric.DefaultPrecision, log),
	})
	return app, db
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestHTTP_EndToEnd(t *testing.T) {
	app, _ := buildTestApp()

	code, _ := do(t, app, http.MethodPost, "/api/inbound", `{"product_key":"X","quantity":10,"unit_cost":5,"date":"2024-03-01"}`)
	require.Equal(t, http.StatusCreated, code)
	code, _ = do(t, app, http.MethodPost, "/api/inbound", `{"product_key":"X","quantity":"5","unit_cost":"9","date":"2024-03-02"}`)
	require.Equal(t, http.StatusCreated, code)
	code, raw := do(t, app, http.MethodPost, "/api/outbound", `{"product_key":"X","quantity":12,"unit_price":10,"partner_code":"C1","date":"2024-03-03"}`)
	require.Equal(t, http.StatusCreated, code)
	var out dto.OutboundResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.NotEmpty(t, out.ID)

	code, raw = do(t, app, http.MethodGet, "/api/stock/X", "")
	require.Equal(t, http.StatusOK, code)
	var proj dto.ProjectionResponse
	require.NoError(t, json.Unmarshal(raw, &proj))
	assert.Equal(t, "3", proj.Quantity.String())

	code, raw = do(t, app, http.MethodGet, "/api/analysis/costs?start_date=2024-03-01&end_date=2024-03-31", "")
	require.Equal(t, http.StatusOK, code)
	var rows []dto.ConsumptionDTO
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, out.ID, rows[0].OutboundID)
	assert.True(t, rows[0].CostAmount.Equal(decimal.NewFromInt(68)))

	code, raw = do(t, app, http.MethodGet, "/api/analysis/costs?start_date=2024-03-01&end_date=2024-03-31&group_by=product", "")
	require.Equal(t, http.StatusOK, code)
	var byProduct []dto.ProductCostSummaryDTO
	require.NoError(t, json.Unmarshal(raw, &byProduct))
	require.Len(t, byProduct, 1)
	assert.InDelta(t, 52.0, byProduct[0].Profit, 1e-9)
}

func TestHTTP_UpdateAndDelete(t *testing.T) {
	app, _ := buildTestApp()

	code, raw := do(t, app, http.MethodPost, "/api/adjustments", `{"product_key":"Y","quantity":-2,"reason":"merma","date":"2024-03-01"}`)
	require.Equal(t, http.StatusCreated, code)
	var adj dto.AdjustmentResponse
	require.NoError(t, json.Unmarshal(raw, &adj))

	code, _ = do(t, app, http.MethodPut, "/api/adjustments/"+adj.ID, `{"product_key":"Y","quantity":4,"date":"2024-03-01"}`)
	require.Equal(t, http.StatusOK, code)
	_, raw = do(t, app, http.MethodGet, "/api/stock/Y", "")
	var proj dto.ProjectionResponse
	require.NoError(t, json.Unmarshal(raw, &proj))
	assert.Equal(t, "4", proj.Quantity.String())

	code, _ = do(t, app, http.MethodDelete, "/api/adjustments/"+adj.ID, "")
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = do(t, app, http.MethodDelete, "/api/adjustments/"+adj.ID, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, raw = do(t, app, http.MethodGet, "/api/stock", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestHTTP_ErrorMapping(t *testing.T) {
	app, _ := buildTestApp()

	code, _ := do(t, app, http.MethodPost, "/api/inbound", `{"product_key":"X","quantity":1,"date":"01-03-2024"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodPost, "/api/inbound", `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodPut, "/api/outbound/missing", `{"product_key":"X","quantity":1,"date":"2024-03-01"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, app, http.MethodGet, "/api/analysis/costs?start_date=2024-04-01&end_date=2024-03-01", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, app, http.MethodGet, "/api/analysis/costs?start_date=2024-03-01&end_date=2024-03-31&group_by=region", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHTTP_VerifyAndRebuild(t *testing.T) {
	app, db := buildTestApp()

	code, _ := do(t, app, http.MethodPost, "/api/inbound", `{"product_key":"X","quantity":5,"unit_cost":1,"date":"2024-03-01"}`)
	require.Equal(t, http.StatusCreated, code)

	code, _ = do(t, app, http.MethodGet, "/api/stock/verify", "")
	assert.Equal(t, http.StatusOK, code)

	db.Repos().Projections.(*memory.StockProjectionRepo).SetQuantity("X", decimal.NewFromInt(1))
	code, raw := do(t, app, http.MethodGet, "/api/stock/verify", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, string(raw), `"consistent":false`)

	code, raw = do(t, app, http.MethodPost, "/api/stock/rebuild", "")
	require.Equal(t, http.StatusOK, code)
	var res ledger.RebuildResult
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.Equal(t, int64(1), res.EventsWritten)
	assert.Equal(t, int64(1), res.ProductsCount)

	code, _ = do(t, app, http.MethodGet, "/api/stock/verify", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestHTTP_Health(t *testing.T) {
	app, _ := buildTestApp()
	code, raw := do(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))
}

func TestHTTP_AnalysisGroupingAndValuation(t *testing.T) {
	app, db := buildTestApp()
	db.AddPartner(&entity.Partner{ID: "p1", Code: "C1", Name: "Acme"})
	db.AddPartner(&entity.Partner{ID: "p2", Code: "C2", ShortName: "BETA", Name: "Beta"})

	for _, body := range []string{
		`{"product_key":"X","quantity":10,"unit_cost":5,"date":"2024-03-01"}`,
		`{"product_key":"X","quantity":5,"unit_cost":9,"date":"2024-03-02"}`,
	} {
		code, _ := do(t, app, http.MethodPost, "/api/inbound", body)
		require.Equal(t, http.StatusCreated, code)
	}
	for _, body := range []string{
		`{"product_key":"X","quantity":12,"unit_price":10,"partner_code":"C1","date":"2024-03-03"}`,
		`{"product_key":"X","quantity":1,"unit_price":10,"partner_name":"BETA","date":"2024-03-04"}`,
	} {
		code, _ := do(t, app, http.MethodPost, "/api/outbound", body)
		require.Equal(t, http.StatusCreated, code)
	}

	const window = "/api/analysis/costs?start_date=2024-03-01&end_date=2024-03-31"

	code, raw := do(t, app, http.MethodGet, window+"&group_by=customer", "")
	require.Equal(t, http.StatusOK, code)
	var byCustomer []dto.CustomerCostSummaryDTO
	require.NoError(t, json.Unmarshal(raw, &byCustomer))
	require.Len(t, byCustomer, 2)
	assert.Equal(t, "C1", byCustomer[0].PartnerCode)
	assert.InDelta(t, 120.0, byCustomer[0].Sale, 1e-9)
	assert.InDelta(t, 68.0, byCustomer[0].Cost, 1e-9)
	assert.InDelta(t, 52.0, byCustomer[0].Profit, 1e-9)
	// Sin código: resuelto por nombre corto.
	assert.Equal(t, "p2", byCustomer[1].PartnerID)
	assert.InDelta(t, 9.0, byCustomer[1].Cost, 1e-9)

	code, raw = do(t, app, http.MethodGet, window+"&group_by=product", "")
	require.Equal(t, http.StatusOK, code)
	var byProduct []dto.ProductCostSummaryDTO
	require.NoError(t, json.Unmarshal(raw, &byProduct))
	require.Len(t, byProduct, 1)
	assert.Equal(t, 2, byProduct[0].Records)
	assert.InDelta(t, 13.0, byProduct[0].Quantity, 1e-9)
	assert.InDelta(t, 77.0, byProduct[0].Cost, 1e-9)

	code, _ = do(t, app, http.MethodGet, window+"&group_by=warehouse", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, raw = do(t, app, http.MethodGet, "/api/analysis/valuation?as_of=2024-03-03", "")
	require.Equal(t, http.StatusOK, code)
	var valuation []dto.ValuationDTO
	require.NoError(t, json.Unmarshal(raw, &valuation))
	require.Len(t, valuation, 1)
	assert.Equal(t, "X", valuation[0].ProductKey)
	assert.Equal(t, "3", valuation[0].Quantity.String())
	assert.Equal(t, "27", valuation[0].Value.String())
	assert.Equal(t, "9", valuation[0].AverageUnitCost.String())

	// Antes de la segunda entrada: solo el primer lote.
	code, raw = do(t, app, http.MethodGet, "/api/analysis/valuation?as_of=2024-03-01", "")
	require.Equal(t, http.StatusOK, code)
	valuation = nil
	require.NoError(t, json.Unmarshal(raw, &valuation))
	require.Len(t, valuation, 1)
	assert.Equal(t, "50", valuation[0].Value.String())

	code, _ = do(t, app, http.MethodGet, "/api/analysis/valuation?as_of=03/01/2024", "")
	assert.Equal(t, http.StatusBadRequest, code)
}
