// Package money rounds and formats areas and Colombian peso amounts.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidAmount is returned for NaN or infinite values.
var ErrInvalidAmount = errors.New("invalid amount")

const (
	// CurrencySymbol is followed by a non-breaking space in formatted amounts.
	CurrencySymbol = "$"
	nbsp           = "\u00a0"
	areaUnit       = "m²"
)

var (
	colombia = language.MustParse("es-CO")
	half     = decimal.NewFromFloat(0.5)
)

// FromFloat converts v to a decimal, rejecting NaN and infinities.
func FromFloat(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, v)
	}
	return decimal.NewFromFloat(v), nil
}

// RoundArea rounds half-up to two decimals: scale by 100, round, unscale.
func RoundArea(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Add(half).Floor().Shift(-2)
}

// RoundPesos rounds half-up to whole pesos.
func RoundPesos(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}

// FormatArea renders an area with its unit and no trailing zeros, e.g. "71.5m²".
func FormatArea(d decimal.Decimal) string {
	return RoundArea(d).String() + areaUnit
}

// FormatCOP renders a peso amount rounded to whole pesos with es-CO digit
// grouping, e.g. "$ 1.787.500".
func FormatCOP(d decimal.Decimal) string {
	pesos := RoundPesos(d)
	sign := ""
	if pesos.IsNegative() {
		sign = "-"
		pesos = pesos.Neg()
	}
	p := message.NewPrinter(colombia)
	return sign + CurrencySymbol + nbsp + p.Sprintf("%d", pesos.IntPart())
}

// FormatCOPFloat is FormatCOP for float64 input.
func FormatCOPFloat(v float64) (string, error) {
	d, err := FromFloat(v)
	if err != nil {
		return "", err
	}
	return FormatCOP(d), nil
}

// Label turns an identifier like "california_king_30" into
// "California King 30".
func Label(id string) string {
	words := strings.ReplaceAll(strings.TrimSpace(id), "_", " ")
	return cases.Title(language.Spanish, cases.NoLower).String(words)
}
