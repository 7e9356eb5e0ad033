package numeric_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trade-ledger/pkg/numeric"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateTotalPrice_Reproducible(t *testing.T) {
	first := numeric.CalculateTotalPrice(decimal.NewFromInt(3), dec("0.1"))
	assert.Equal(t, "0.3", first.String())
	for i := 0; i < 100; i++ {
		got := numeric.CalculateTotalPrice(decimal.NewFromInt(3), dec("0.1"))
		require.True(t, first.Equal(got), "iteración %d: %s != %s", i, got, first)
	}
	// 3 * 0.1 en float64 no es exacto; el decimal sí.
	assert.Equal(t, 0.3, numeric.ToFloat(first, numeric.CurrencyPlaces))
}

func TestDiv_DivisionByZero(t *testing.T) {
	_, err := numeric.Div(decimal.NewFromInt(10), decimal.Zero)
	require.ErrorIs(t, err, numeric.ErrDivisionByZero)

	q, err := numeric.Div(decimal.NewFromInt(1), decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, "0.33333333333333333333", q.String())
}

func TestRound_HalfUp(t *testing.T) {
	tests := []struct {
		in     string
		places int32
		want   string
	}{
		{"2.345", 2, "2.35"},
		{"1.005", 2, "1.01"},
		{"-2.345", 2, "-2.35"},
		{"0.123455", 5, "0.12346"},
		{"7", 2, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, numeric.Round(dec(tt.in), tt.places).String())
		})
	}
}

func TestDiv_KeepsSignificantDigitsForLargeDivisor(t *testing.T) {
	q, err := numeric.Div(decimal.NewFromInt(1), dec("3e23"))
	require.NoError(t, err)
	require.False(t, q.IsZero())
	assert.GreaterOrEqual(t, q.NumDigits(), 20)
	assert.True(t, q.Mul(dec("3e23")).Sub(decimal.NewFromInt(1)).Abs().LessThan(dec("1e-19")))

	// Divisor pequeño: sigue bastando la escala base.
	q, err = numeric.Div(dec("1e30"), decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, "333333333333333333333333333333.33333333333333333333", q.String())
}

func TestNullInputsAreZero(t *testing.T) {
	assert.True(t, numeric.OrZero(decimal.NullDecimal{}).IsZero())
	assert.False(t, numeric.NullFromPtr(nil).Valid)
	assert.True(t, numeric.OrZero(numeric.NullFromPtr(nil)).IsZero())

	v := dec("4.2")
	assert.True(t, numeric.OrZero(numeric.NullFromPtr(&v)).Equal(v))
	assert.True(t, numeric.OrZero(numeric.Null(v)).Equal(v))
}

func TestPrecision_RoundsOnlyAtBoundary(t *testing.T) {
	p := numeric.Precision{QuantityPlaces: 5, CurrencyPlaces: 2}
	// 1/3 * 3 acumulado sin redondear intermedio
	third, err := numeric.Div(decimal.NewFromInt(1), decimal.NewFromInt(3))
	require.NoError(t, err)
	sum := decimal.Zero
	for i := 0; i < 3; i++ {
		sum = numeric.Add(sum, third)
	}
	assert.Equal(t, "1", p.Currency(sum).String())
	assert.Equal(t, "1", p.Quantity(sum).String())
}
