package catalyst

// Usage holds expected (or counted) consumption per action.
type Usage [NumActions]float64

// Unit is the usage a single attempt with a records: one of itself, nothing
// for NoCatalyst.
func Unit(a Action) Usage {
	var u Usage
	if a != NoCatalyst && a.Valid() {
		u[a] = 1
	}
	return u
}

// AddScaled returns u + k*v.
func (u Usage) AddScaled(v Usage, k float64) Usage {
	for i := range u {
		u[i] += k * v[i]
	}
	return u
}

// Catalysts counts plain and stable catalysts.
func (u Usage) Catalysts() float64 {
	return u[Catalyst] + u[StableCatalyst]
}

// PotentEquivalent reports star catalysts in potent-catalyst units (10 for
// the 3-star, 40 for the 4-star).
func (u Usage) PotentEquivalent() float64 {
	return u[PotentCatalyst] + 10*u[ThreeStarCatalyst] + 40*u[FourStarCatalyst]
}
