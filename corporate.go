package cgt

import (
	"fmt"

	"github.com/etnz/cgt/date"
)

// Adjustment records a corporate action applied to a holding. It is tax
// neutral: quantities change, costs do not.
type Adjustment struct {
	Security    string
	Transaction string
	Date        date.Date
	Type        ActionType
	From, To    Quantity
	Before      Quantity // holding before the action
	After       Quantity // holding after the action
}

// Change returns the change in holding quantity.
func (a Adjustment) Change() Quantity { return a.After.Sub(a.Before) }

// CorporateActionProcessor rewrites quantities for splits and consolidations
// of one security.
type CorporateActionProcessor struct {
	security string
}

// NewCorporateActionProcessor returns a processor for security.
func NewCorporateActionProcessor(security string) *CorporateActionProcessor {
	return &CorporateActionProcessor{security: security}
}

// scales reports whether the action rewrites quantities. Actions that cannot
// be expressed as a ratio of shares are rejected.
func (p *CorporateActionProcessor) scales(e Entry) (bool, error) {
	if e.Action == nil {
		return false, securityError(p.security, e.Transaction, fmt.Errorf("%w: missing descriptor", ErrUnsupportedCorporateAction))
	}
	switch e.Action.Type {
	case StockSplit, ReverseSplit:
		if !e.Action.From.IsPositive() || !e.Action.To.IsPositive() {
			return false, securityError(p.security, e.Transaction, fmt.Errorf("%w: ratio %s:%s", ErrUnsupportedCorporateAction, e.Action.From, e.Action.To))
		}
		return true, nil
	case NameChange:
		return false, nil
	default:
		return false, securityError(p.security, e.Transaction, fmt.Errorf("%w: %q", ErrUnsupportedCorporateAction, e.Action.Type))
	}
}

// Process applies every corporate action found in entries to the
// acquisitions and disposals dated before it, and drops the corporate
// actions. Quantities are multiplied by the action ratio, gross amounts and
// fees are kept, so unit prices move inversely and total cost is preserved.
//
// entries must be sorted chronologically. The input slice is not modified.
func (p *CorporateActionProcessor) Process(entries []Entry) ([]Entry, []Adjustment, error) {
	work := make([]Entry, len(entries))
	copy(work, entries)

	var adjustments []Adjustment
	out := make([]Entry, 0, len(work))
	for i, e := range work {
		if e.Kind != CorporateActionKind {
			continue
		}
		ok, err := p.scales(e)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}
		adj := Adjustment{
			Security:    p.security,
			Transaction: e.Transaction,
			Date:        e.Date,
			Type:        e.Action.Type,
			From:        e.Action.From,
			To:          e.Action.To,
			Before:      holding(work[:i], e.Date),
		}
		rescale(work[:i], e.Date, *e.Action)
		adj.After = holding(work[:i], e.Date)
		adjustments = append(adjustments, adj)
	}
	for _, e := range work {
		if e.Kind != CorporateActionKind {
			out = append(out, e)
		}
	}
	return out, adjustments, nil
}

// ApplyToPool rewrites the pool quantity for a corporate action met while
// sweeping the pool.
func (p *CorporateActionProcessor) ApplyToPool(pool *Section104Pool, e Entry) (Adjustment, bool, error) {
	ok, err := p.scales(e)
	if err != nil || !ok {
		return Adjustment{}, false, err
	}
	adj := Adjustment{
		Security:    p.security,
		Transaction: e.Transaction,
		Date:        e.Date,
		Type:        e.Action.Type,
		From:        e.Action.From,
		To:          e.Action.To,
		Before:      pool.Quantity(),
	}
	pool.Scale(*e.Action)
	adj.After = pool.Quantity()
	return adj, true, nil
}

// rescale multiplies the quantities of the acquisitions and disposals dated
// before on by the action ratio. A ratio like 3:1 does not give terminating
// decimals, so each kind is scaled on its running total and every entry gets
// the difference between two scaled totals: the scaled entries add up to the
// scaled total exactly, and a holding that was zero stays zero.
func rescale(entries []Entry, on date.Date, a CorporateAction) {
	for _, kind := range []Kind{Acquisition, Disposal} {
		var total, scaled Quantity
		for j := range entries {
			e := &entries[j]
			if e.Kind != kind || !e.Date.Before(on) {
				continue
			}
			total = total.Add(e.Quantity)
			next := total.Mul(a.To).Div(a.From)
			e.Quantity = next.Sub(scaled)
			scaled = next
		}
	}
}

// holding returns the net quantity held from entries dated before on.
func holding(entries []Entry, on date.Date) Quantity {
	var q Quantity
	for _, e := range entries {
		if !e.Date.Before(on) {
			continue
		}
		switch e.Kind {
		case Acquisition:
			q = q.Add(e.Quantity)
		case Disposal:
			q = q.Sub(e.Quantity)
		}
	}
	return q
}
