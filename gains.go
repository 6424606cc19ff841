package cgt

// PartGain is the gain on one component of a disposal.
type PartGain struct {
	Component
	Proceeds      Money // share of the disposal net proceeds
	AllowableCost Money // Cost + Fees
	Gain          Money
}

// DisposalGain is the outcome of one disposal.
type DisposalGain struct {
	MatchRecord
	Proceeds      Money // gross proceeds less disposal fees
	AllowableCost Money
	Gain          Money // negative for a loss
	Parts         []PartGain
}

// IsLoss reports whether the disposal made a loss.
func (g DisposalGain) IsLoss() bool { return g.Gain.IsNegative() }

// GainLossCalculator turns identified disposals into gains and losses.
type GainLossCalculator struct {
	currency string
}

// NewGainLossCalculator returns a calculator producing amounts in currency.
func NewGainLossCalculator(currency string) *GainLossCalculator {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &GainLossCalculator{currency: currency}
}

// Calculate computes proceeds, allowable cost and gain of a disposal.
//
// Disposal fees are shared between components in proportion to their
// quantity; the last component takes the remainder so that the parts add up
// exactly to the disposal totals.
func (c *GainLossCalculator) Calculate(r MatchRecord) DisposalGain {
	zero := M(0, c.currency)
	g := DisposalGain{
		MatchRecord:   r,
		Proceeds:      zero.Add(r.Gross).Sub(r.Fees),
		AllowableCost: zero,
	}
	left := g.Proceeds
	for i, comp := range r.Components {
		part := PartGain{Component: comp}
		if i == len(r.Components)-1 {
			part.Proceeds = left
		} else {
			part.Proceeds = g.Proceeds.Prorate(comp.Quantity, r.Quantity)
			left = left.Sub(part.Proceeds)
		}
		part.AllowableCost = zero.Add(comp.Cost).Add(comp.Fees)
		part.Gain = part.Proceeds.Sub(part.AllowableCost)
		g.AllowableCost = g.AllowableCost.Add(part.AllowableCost)
		g.Parts = append(g.Parts, part)
	}
	g.Gain = g.Proceeds.Sub(g.AllowableCost)
	return g
}
