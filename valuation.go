package bags

// Line is a holding annotated with its value.
type Line struct {
	Holding
	MarketValue Money
}

// Valuation is the value of every holding and of the whole portfolio.
type Valuation struct {
	Lines      []Line // in portfolio order
	PerHolding map[string]Money
	Total      Money
	Unpriced   int // number of holdings valued at 0 for lack of a price
}

// Valuate computes value = quantity × price for each holding, an unknown
// price counting as 0. It has no side effect and caches nothing.
func Valuate(holdings []Holding) Valuation {
	v := Valuation{
		Lines:      make([]Line, 0, len(holdings)),
		PerHolding: make(map[string]Money, len(holdings)),
	}
	for _, h := range holdings {
		value := h.Value()
		if !h.Priced {
			v.Unpriced++
		}
		v.Lines = append(v.Lines, Line{Holding: h, MarketValue: value})
		v.PerHolding[h.ID] = value
		v.Total = v.Total.Add(value)
	}
	return v
}
