package cgt

import "github.com/etnz/cgt/date"

// Lot is the quantity of shares acquired in one transaction, tracked for
// partial consumption by same-day and bed and breakfast matches.
type Lot struct {
	Transaction string
	Index       int
	Acquired    date.Date
	Quantity    Quantity // quantity acquired
	Remaining   Quantity // never increases
	Cost        Money    // cost of Quantity, without fees
	Fees        Money    // acquisition fees for Quantity

	usedCost, usedFees Money
}

func newLot(e Entry) *Lot {
	return &Lot{
		Transaction: e.Transaction,
		Index:       e.Index,
		Acquired:    e.Date,
		Quantity:    e.Quantity,
		Remaining:   e.Quantity,
		Cost:        e.Gross,
		Fees:        e.Fees,
	}
}

// UnitCost returns the cost per share, without fees.
func (l *Lot) UnitCost() Money { return l.Cost.Div(l.Quantity) }

// IsConsumed reports whether nothing remains in the lot.
func (l *Lot) IsConsumed() bool { return !l.Remaining.IsPositive() }

// take consumes q shares from the lot and returns their cost and their share
// of the acquisition fees. q must not exceed Remaining. The last take returns
// exactly what is left, so that the parts always add up to the lot totals.
func (l *Lot) take(q Quantity) (cost, fees Money) {
	if q.Equal(l.Remaining) {
		cost, fees = l.Cost.Sub(l.usedCost), l.Fees.Sub(l.usedFees)
	} else {
		cost, fees = l.Cost.Prorate(q, l.Quantity), l.Fees.Prorate(q, l.Quantity)
	}
	l.Remaining = l.Remaining.Sub(q)
	l.usedCost = l.usedCost.Add(cost)
	l.usedFees = l.usedFees.Add(fees)
	return cost, fees
}
