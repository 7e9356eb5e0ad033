// Package numeric concentra la aritmética de cantidades y montos sobre decimales de precisión fija.
// El redondeo (half-up, lejos de cero) se aplica solo en los bordes: almacenamiento y presentación.
package numeric

import (
	"errors"

	"github.com/shopspring/decimal"
)

const (
	// DivisionPlaces dígitos fraccionarios que conserva Div (mínimo 20 dígitos significativos).
	DivisionPlaces int32 = 20
	// QuantityPlaces precisión por defecto para valores internos (cantidades, costos unitarios).
	QuantityPlaces int32 = 5
	// CurrencyPlaces precisión por defecto para totales de moneda.
	CurrencyPlaces int32 = 2
)

// ErrDivisionByZero se devuelve siempre que el divisor es cero; nunca se sustituye por 0 ni infinito.
var ErrDivisionByZero = errors.New("división por cero")

// Precision define con cuántos decimales se redondea en el borde de almacenamiento/presentación.
type Precision struct {
	QuantityPlaces int32
	CurrencyPlaces int32
}

// DefaultPrecision 5 decimales para valores internos y 2 para moneda.
var DefaultPrecision = Precision{QuantityPlaces: QuantityPlaces, CurrencyPlaces: CurrencyPlaces}

// Quantity redondea un valor interno a la precisión configurada.
func (p Precision) Quantity(d decimal.Decimal) decimal.Decimal { return Round(d, p.QuantityPlaces) }

// Currency redondea un total de moneda a la precisión configurada.
func (p Precision) Currency(d decimal.Decimal) decimal.Decimal { return Round(d, p.CurrencyPlaces) }

// TotalPrice cantidad × precio redondeado a moneda.
func (p Precision) TotalPrice(qty, price decimal.Decimal) decimal.Decimal {
	return p.Currency(Mul(qty, price))
}

// Add suma exacta.
func Add(a, b decimal.Decimal) decimal.Decimal { return a.Add(b) }

// Sub resta exacta.
func Sub(a, b decimal.Decimal) decimal.Decimal { return a.Sub(b) }

// Mul producto exacto.
func Mul(a, b decimal.Decimal) decimal.Decimal { return a.Mul(b) }

// Div divide a entre b conservando al menos DivisionPlaces dígitos significativos en el cociente.
func Div(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	return a.DivRound(b, divisionScale(a, b)), nil
}

// divisionScale decimales necesarios para DivisionPlaces dígitos significativos:
// cuando el divisor tiene más dígitos enteros que el dividendo, el cociente empieza
// tantas posiciones después de la coma.
func divisionScale(a, b decimal.Decimal) int32 {
	magA := int32(a.NumDigits()) + a.Exponent()
	magB := int32(b.NumDigits()) + b.Exponent()
	if a.IsZero() || magB <= magA {
		return DivisionPlaces
	}
	return DivisionPlaces + magB - magA
}

// Round redondea half-up (lejos de cero para negativos) a places decimales.
func Round(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// ToFloat convierte a float64 después de redondear; usar solo para agregados de presentación.
func ToFloat(d decimal.Decimal, places int32) float64 {
	f, _ := Round(d, places).Float64()
	return f
}

// OrZero trata un decimal nulo como cero.
func OrZero(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}

// NullFromPtr convierte un campo opcional de la petición: nil queda como nulo.
func NullFromPtr(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return Null(*p)
}

// Null envuelve un valor presente en NullDecimal.
func Null(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// CalculateTotalPrice cantidad × precio unitario redondeado a 2 decimales.
func CalculateTotalPrice(qty, price decimal.Decimal) decimal.Decimal {
	return DefaultPrecision.TotalPrice(qty, price)
}
