// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Weight tolerances used across the reconciliation engine.
const (
	// BalanceTolerance is the floating tolerance for the kardex
	// reconciliation identity (final == initial + in - out).
	BalanceTolerance = 1e-6

	// CutTolerance is the accepted drift between a cut's consumed weight
	// and the sum of produced lot weights plus scrap. Shear scales on the
	// line report to the nearest half kilogram.
	CutTolerance = 0.5
)

// Kg wraps a float64 kilogram value into a decimal with 3 fractional
// digits, the precision the line scales actually report.
func Kg(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(3)
}

// KgFromString parses a kilogram value from its textual form.
func KgFromString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(3), nil
}

// RoundKg normalizes a float64 kilogram value to scale precision.
func RoundKg(v float64) float64 {
	f, _ := Kg(v).Float64()
	return f
}

// WeightsEqual reports whether two kilogram values agree within tol.
func WeightsEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// ConservationHolds checks the cut conservation rule:
// consumed == sum(produced) + scrap within CutTolerance.
// Computed on decimals so repeated float64 sums cannot leak drift
// into the comparison.
func ConservationHolds(consumed float64, produced []float64, scrap float64) bool {
	sum := Kg(scrap)
	for _, w := range produced {
		sum = sum.Add(Kg(w))
	}
	diff := Kg(consumed).Sub(sum).Abs()
	return diff.LessThanOrEqual(decimal.NewFromFloat(CutTolerance))
}
