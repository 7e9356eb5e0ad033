package analysis_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trade-ledger/internal/application/analysis"
	"github.com/jhoicas/trade-ledger/internal/domain"
	"github.com/jhoicas/trade-ledger/internal/domain/entity"
	"github.com/jhoicas/trade-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/trade-ledger/pkg/logger"
	"github.com/jhoicas/trade-ledger/pkg/numeric"
)

func day(d int) time.Time { return time.Date(2024, 2, d, 0, 0, 0, 0, time.UTC) }

func n(s string) decimal.NullDecimal { return numeric.Null(decimal.RequireFromString(s)) }

func seed(t *testing.T) (*memory.DB, *analysis.UseCase) {
	t.Helper()
	ctx := context.Background()
	db := memory.NewDB()
	repos := db.Repos()

	db.AddPartner(&entity.Partner{ID: "p1", Code: "C001", ShortName: "ACME", Name: "Acme S.A.S."})
	db.AddPartner(&entity.Partner{ID: "p2", Code: "C002", ShortName: "BETA", Name: "Beta Ltda."})

	require.NoError(t, repos.Inbound.Create(ctx, &entity.InboundRecord{ID: "i1", ProductKey: "X", Quantity: n("10"), UnitCost: decimal.NewFromInt(5), Date: day(1)}))
	require.NoError(t, repos.Inbound.Create(ctx, &entity.InboundRecord{ID: "i2", ProductKey: "X", Quantity: n("10"), UnitCost: decimal.NewFromInt(8), Date: day(2)}))
	require.NoError(t, repos.Inbound.Create(ctx, &entity.InboundRecord{ID: "i3", ProductKey: "Y", Quantity: n("4"), UnitCost: decimal.NewFromInt(3), Date: day(2)}))

	// Por código, por nombre corto y sin cliente resoluble.
	require.NoError(t, repos.Outbound.Create(ctx, &entity.OutboundRecord{ID: "o1", ProductKey: "X", Quantity: n("6"), UnitPrice: decimal.NewFromInt(10), PartnerCode: "C001", Date: day(3)}))
	require.NoError(t, repos.Outbound.Create(ctx, &entity.OutboundRecord{ID: "o2", ProductKey: "X", Quantity: n("6"), UnitPrice: decimal.NewFromInt(10), PartnerName: "ACME", Date: day(4)}))
	require.NoError(t, repos.Outbound.Create(ctx, &entity.OutboundRecord{ID: "o3", ProductKey: "Y", Quantity: n("2"), UnitPrice: decimal.NewFromInt(7), PartnerCode: "ZZZ", PartnerName: "nadie", Date: day(5)}))
	require.NoError(t, repos.Outbound.Create(ctx, &entity.OutboundRecord{ID: "o4", ProductKey: "Y", Quantity: n("1"), UnitPrice: decimal.NewFromInt(7), PartnerCode: "C002", Date: day(20)}))

	return db, analysis.NewUseCase(repos.Inbound, repos.Outbound, db.Partners(), numeric.DefaultPrecision, logger.Nop())
}

func TestComputeCosts_Window(t *testing.T) {
	_, uc := seed(t)
	rows, err := uc.ComputeCosts(context.Background(), day(4), day(10))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// o1 (fuera del rango) ya consumió 6 del lote a 5.
	assert.Equal(t, "o2", rows[0].OutboundReference)
	assert.Equal(t, "36", rows[0].CostAmount.String()) // 4*5 + 2*8
	assert.Equal(t, "o3", rows[1].OutboundReference)
	assert.Equal(t, "6", rows[1].CostAmount.String())
}

func TestComputeCosts_InvalidWindow(t *testing.T) {
	_, uc := seed(t)
	_, err := uc.ComputeCosts(context.Background(), day(10), day(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummarizeByCustomer_ResolvesByCodeThenShortName(t *testing.T) {
	ctx := context.Background()
	_, uc := seed(t)
	rows, err := uc.ComputeCosts(ctx, day(1), day(28))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	summary, err := uc.SummarizeByCustomer(ctx, rows)
	require.NoError(t, err)
	require.Len(t, summary, 2)

	acme := summary[0]
	assert.Equal(t, "p1", acme.PartnerID)
	assert.Equal(t, 2, acme.Records)
	assert.InDelta(t, 120.0, acme.Sale, 1e-9)
	assert.InDelta(t, 66.0, acme.Cost, 1e-9) // 6*5 + (4*5 + 2*8)
	assert.InDelta(t, 54.0, acme.Profit, 1e-9)

	beta := summary[1]
	assert.Equal(t, "C002", beta.PartnerCode)
	assert.Equal(t, 1, beta.Records)
	assert.InDelta(t, 3.0, beta.Cost, 1e-9)
}

func TestSummarizeByProduct(t *testing.T) {
	_, uc := seed(t)
	rows, err := uc.ComputeCosts(context.Background(), day(1), day(28))
	require.NoError(t, err)

	summary := uc.SummarizeByProduct(rows)
	require.Len(t, summary, 2)
	assert.Equal(t, "X", summary[0].ProductKey)
	assert.InDelta(t, 12.0, summary[0].Quantity, 1e-9)
	assert.InDelta(t, 120.0, summary[0].Sale, 1e-9)
	assert.Equal(t, "Y", summary[1].ProductKey)
	assert.InDelta(t, 9.0, summary[1].Cost, 1e-9)
	assert.InDelta(t, 21.0, summary[1].Sale, 1e-9)
}

func TestValueInventory_AsOf(t *testing.T) {
	_, uc := seed(t)

	list, err := uc.ValueInventory(context.Background(), day(4))
	require.NoError(t, err)
	require.Len(t, list, 2)
	// X: 20 - 12 = 8 a costo 8; Y: 4 a costo 3.
	assert.Equal(t, "X", list[0].ProductKey)
	assert.Equal(t, "8", list[0].Quantity.String())
	assert.Equal(t, "64", list[0].Value.String())
	assert.Equal(t, "12", list[1].Value.String())

	dtos := uc.ToValuationDTO(list)
	assert.Equal(t, "8", dtos[0].AverageUnitCost.String())

	// Antes de la primera entrada no hay inventario.
	list, err = uc.ValueInventory(context.Background(), time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, list)
}
