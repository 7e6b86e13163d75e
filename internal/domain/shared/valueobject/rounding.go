package valueobject

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	ten     = decimal.NewFromInt(10)
)

// Round2 rounds half-up (away from zero) to two decimal places.
// All rates, fees and totals pass through this at their defined boundaries.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// CeilTenth rounds up to the nearest 0.1
func CeilTenth(d decimal.Decimal) decimal.Decimal {
	return d.Mul(ten).Ceil().Div(ten)
}

// CeilCents rounds up to the nearest 0.01
func CeilCents(d decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred).Ceil().Div(hundred)
}

// MaxDecimal returns the larger of a and b
func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
