// Package report renders solver output for people: console tables and a
// spreadsheet export of the policy tables.
package report

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/xtding233/hammer-calc/internal/pricing"
)

// Money formats an amount with thousands separators and two decimals.
func Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return humanize.CommafWithDigits(math.Round(v*100)/100, 2)
}

// Count formats an expected count with one decimal.
func Count(v float64) string {
	return humanize.CommafWithDigits(math.Round(v*10)/10, 1)
}

func unit(f pricing.Frame) string {
	if f == pricing.FrameBase {
		return "gold"
	}
	return "opals"
}
