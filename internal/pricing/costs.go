package pricing

import (
	"github.com/xtding233/hammer-calc/internal/catalyst"
)

// Costs is the full price of one attempt per action (tap plus catalyst) in a
// single frame. It is the cost vector both solvers consume.
type Costs [catalyst.NumActions]float64

// NewCosts prices every action under r. A missing catalyst price is an error.
func NewCosts(r Rates, prices catalyst.Prices) (Costs, error) {
	var c Costs
	if err := r.Validate(); err != nil {
		return c, err
	}
	if err := prices.Validate(); err != nil {
		return c, err
	}
	tap := r.TapCost()
	mult := r.valueMultiplier()
	for _, a := range catalyst.All() {
		p, err := prices.Price(a)
		if err != nil {
			return Costs{}, err
		}
		c[a] = tap + p*mult
	}
	return c, nil
}

// Flat prices every action at tap plus its catalyst price, with no currency
// conversion.
func Flat(tap float64, prices catalyst.Prices) (Costs, error) {
	return NewCosts(Rates{BasePerTap: tap * perMillion, ValuePerMillion: 1, Frame: FrameValue}, prices)
}

// Of returns the cost of a. Out-of-range actions cost nothing; callers validate
// actions before pricing them.
func (c Costs) Of(a catalyst.Action) float64 {
	if !a.Valid() {
		return 0
	}
	return c[a]
}

// Spend splits an expected total into what goes to attempts and to catalysts.
type Spend struct {
	Total    float64 // in frame
	Tap      float64 // in frame
	Catalyst float64 // in frame
	TapBase  float64 // attempt spend in base currency
}

// Split attributes taps*TapCost to attempts and the remainder to catalysts.
func (r Rates) Split(total, taps float64) Spend {
	tap := taps * r.TapCost()
	return Spend{
		Total:    total,
		Tap:      tap,
		Catalyst: total - tap,
		TapBase:  taps * r.BasePerTap,
	}
}
