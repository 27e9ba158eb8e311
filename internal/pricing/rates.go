package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/xtding233/hammer-calc/internal/catalyst"
)

// Frame selects the monetary unit every reported cost is expressed in.
type Frame string

const (
	// FrameValue reports in value currency (opals); catalysts are priced in it.
	FrameValue Frame = "value"
	// FrameBase reports in base currency (gold); attempts are priced in it.
	FrameBase Frame = "base"
)

// ParseFrame accepts "value"/"base" and the in-game names "opals"/"gold".
func ParseFrame(s string) (Frame, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "value", "opals":
		return FrameValue, nil
	case "base", "gold":
		return FrameBase, nil
	}
	return "", fmt.Errorf("%w: unknown reference frame %q", catalyst.ErrConfig, s)
}

// perMillion is the unit the market quotes base currency in.
const perMillion = 1_000_000

// Rates converts between the two currencies.
type Rates struct {
	BasePerTap      float64 // base currency per attempt, spare parts included
	ValuePerMillion float64 // value currency paid for 1M base currency
	Frame           Frame
}

func (r Rates) Validate() error {
	var errs []string
	if math.IsNaN(r.BasePerTap) || r.BasePerTap < 0 {
		errs = append(errs, fmt.Sprintf("base per tap %v must be >= 0", r.BasePerTap))
	}
	if math.IsNaN(r.ValuePerMillion) || r.ValuePerMillion <= 0 {
		errs = append(errs, fmt.Sprintf("value per million %v must be > 0", r.ValuePerMillion))
	}
	if r.Frame != FrameValue && r.Frame != FrameBase {
		errs = append(errs, fmt.Sprintf("frame %q must be value or base", r.Frame))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: rates: %s", catalyst.ErrConfig, strings.Join(errs, "; "))
	}
	return nil
}

// TapCost is the price of one attempt in r.Frame.
func (r Rates) TapCost() float64 {
	if r.Frame == FrameBase {
		return r.BasePerTap
	}
	return r.BasePerTap / perMillion * r.ValuePerMillion
}

// valueMultiplier converts a value-currency amount into r.Frame.
func (r Rates) valueMultiplier() float64 {
	if r.Frame == FrameBase {
		return perMillion / r.ValuePerMillion
	}
	return 1
}

// ToBase converts an amount in r.Frame to base currency.
func (r Rates) ToBase(amount float64) float64 {
	if r.Frame == FrameBase {
		return amount
	}
	return amount / r.ValuePerMillion * perMillion
}

// ToValue converts an amount in r.Frame to value currency.
func (r Rates) ToValue(amount float64) float64 {
	if r.Frame == FrameValue {
		return amount
	}
	return amount / perMillion * r.ValuePerMillion
}
