package cgt

import (
	"fmt"

	"github.com/etnz/cgt/date"
)

// PoolState is a snapshot of a Section 104 pool.
type PoolState struct {
	Security string
	Quantity Quantity
	Cost     Money
}

// AverageCost returns cost per share, zero for an empty pool.
func (s PoolState) AverageCost() Money {
	if s.Quantity.IsZero() {
		return Money{cur: s.Cost.cur}
	}
	return s.Cost.Div(s.Quantity)
}

// PoolPoint is the state of a pool after an event of its timeline.
type PoolPoint struct {
	Date date.Date
	PoolState
}

// poolAt returns the last state of timeline dated on or before on, or an
// empty pool.
func poolAt(security, currency string, timeline []PoolPoint, on date.Date) PoolState {
	state := PoolState{Security: security, Quantity: Q(0), Cost: M(0, currency)}
	for _, p := range timeline {
		if p.Date.After(on) {
			break
		}
		state = p.PoolState
	}
	return state
}

// Section104Pool is the running weighted average holding of one security.
// It is owned by a single MatchEngine and must not be shared.
type Section104Pool struct {
	security string
	quantity Quantity
	cost     Money // allowable cost of quantity, fees included
}

// NewSection104Pool returns an empty pool.
func NewSection104Pool(security, currency string) *Section104Pool {
	return &Section104Pool{security: security, cost: M(0, currency)}
}

// Quantity returns the number of shares in the pool.
func (p *Section104Pool) Quantity() Quantity { return p.quantity }

// Cost returns the allowable cost of the whole pool.
func (p *Section104Pool) Cost() Money { return p.cost }

// State returns a snapshot of the pool.
func (p *Section104Pool) State() PoolState {
	return PoolState{Security: p.security, Quantity: p.quantity, Cost: p.cost}
}

// Absorb adds shares and their allowable cost to the pool.
func (p *Section104Pool) Absorb(quantity Quantity, cost Money) {
	p.quantity = p.quantity.Add(quantity)
	p.cost = p.cost.Add(cost)
}

// Withdraw removes quantity shares from the pool and returns their allowable
// cost: their share of the pool cost at the moment of withdrawal.
//
// Withdrawing zero is a no-op, even from an empty pool.
func (p *Section104Pool) Withdraw(quantity Quantity) (Money, error) {
	if quantity.IsZero() {
		return Money{cur: p.cost.cur}, nil
	}
	if quantity.GreaterThan(p.quantity) {
		return Money{}, fmt.Errorf("%w: need %s, pool holds %s", ErrInsufficientPoolQuantity, quantity, p.quantity)
	}
	if quantity.Equal(p.quantity) {
		cost := p.cost
		p.quantity, p.cost = Q(0), Money{cur: p.cost.cur}
		return cost, nil
	}
	// cost * q / Q is the same as q * average, without rounding the average first.
	cost := p.cost.Prorate(quantity, p.quantity)
	if cost.GreaterThan(p.cost) {
		cost = p.cost
	}
	p.quantity = p.quantity.Sub(quantity)
	p.cost = p.cost.Sub(cost)
	return cost, nil
}

// Scale rewrites the pool quantity for a corporate action. The cost is unchanged.
func (p *Section104Pool) Scale(a CorporateAction) {
	p.quantity = p.quantity.Mul(a.To).Div(a.From)
}
