package exchange

import (
	"fmt"
	"math"
	"strings"
)

// Convert converts amount from one currency code to another using a rate
// snapshot whose rates are all expressed relative to the same base. When
// the codes are equal the amount is returned untouched without consulting
// the snapshot. No rounding happens here; chained conversions stay exact
// until Round2 at the display boundary.
func Convert(amount float64, from, to string, rates Rates) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount, nil
	}
	fromRate, ok := rates[from]
	if !ok || fromRate == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, from)
	}
	toRate, ok := rates[to]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, to)
	}
	inBase := amount / fromRate
	return inBase * toRate, nil
}

// Round2 rounds to two decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
