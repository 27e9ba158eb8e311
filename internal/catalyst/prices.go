package catalyst

import (
	"fmt"
	"math"
)

// Prices maps each catalyst to its price in value currency.
type Prices map[Action]float64

// DefaultPrices mirrors the in-game shop.
func DefaultPrices() Prices {
	return DerivedPrices(100, 800)
}

// DerivedPrices builds a full table from the two market prices players track:
// stable = 2 catalysts, 3-star = 10 potents, 4-star = 40 potents.
func DerivedPrices(catalystPrice, potentPrice float64) Prices {
	return Prices{
		NoCatalyst:        0,
		Catalyst:          catalystPrice,
		StableCatalyst:    2 * catalystPrice,
		PotentCatalyst:    potentPrice,
		ThreeStarCatalyst: 10 * potentPrice,
		FourStarCatalyst:  40 * potentPrice,
	}
}

// Price looks up a, failing loudly when the table has no entry.
func (p Prices) Price(a Action) (float64, error) {
	if a == NoCatalyst {
		return p[NoCatalyst], nil
	}
	v, ok := p[a]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingPrice, a)
	}
	return v, nil
}

// Validate checks that every action has a finite, non-negative price.
func (p Prices) Validate() error {
	for _, a := range All() {
		v, err := p.Price(a)
		if err != nil {
			return err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: price of %s is %v", ErrConfig, a, v)
		}
	}
	return nil
}
