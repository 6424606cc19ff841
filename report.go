package cgt

import (
	"cmp"
	"errors"
	"slices"

	"github.com/etnz/cgt/date"
	"github.com/google/uuid"
)

// Totals sums the outcome of several disposals.
type Totals struct {
	Gains  Money // sum of gains
	Losses Money // sum of losses, as a positive amount
	Net    Money // Gains - Losses
}

// ReportAggregator sums disposal outcomes into a report. It knows nothing of
// tax years: callers partition disposals before aggregating them.
type ReportAggregator struct {
	currency string
}

// NewReportAggregator returns an aggregator producing amounts in currency.
func NewReportAggregator(currency string) *ReportAggregator {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &ReportAggregator{currency: currency}
}

// Aggregate sums gains and losses.
func (a *ReportAggregator) Aggregate(disposals []DisposalGain) Totals {
	t := Totals{Gains: M(0, a.currency), Losses: M(0, a.currency)}
	for _, d := range disposals {
		if d.Gain.IsNegative() {
			t.Losses = t.Losses.Sub(d.Gain)
		} else {
			t.Gains = t.Gains.Add(d.Gain)
		}
	}
	t.Net = t.Gains.Sub(t.Losses)
	return t
}

// Report builds a report from the results of every security. Results are
// sorted so that the report does not depend on the order they arrive in.
func (a *ReportAggregator) Report(id uuid.UUID, results []SecurityResult) *Report {
	r := &Report{ID: id, Currency: a.currency}
	for _, res := range results {
		if res.Err != nil {
			r.Failures = append(r.Failures, Failure{Security: res.Security, Err: res.Err})
			continue
		}
		r.Disposals = append(r.Disposals, res.Disposals...)
		r.Adjustments = append(r.Adjustments, res.Adjustments...)
		r.Pools = append(r.Pools, res.Pool)
		if r.timelines == nil {
			r.timelines = make(map[string][]PoolPoint)
		}
		r.timelines[res.Security] = res.Timeline
	}
	slices.SortFunc(r.Disposals, func(x, y DisposalGain) int {
		if c := x.Date.Compare(y.Date); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Security, y.Security); c != 0 {
			return c
		}
		if c := cmp.Compare(x.Disposal, y.Disposal); c != 0 {
			return c
		}
		return cmp.Compare(x.Index, y.Index)
	})
	slices.SortFunc(r.Adjustments, func(x, y Adjustment) int {
		if c := x.Date.Compare(y.Date); c != 0 {
			return c
		}
		return cmp.Compare(x.Security, y.Security)
	})
	slices.SortFunc(r.Pools, func(x, y PoolState) int { return cmp.Compare(x.Security, y.Security) })
	slices.SortFunc(r.Failures, func(x, y Failure) int { return cmp.Compare(x.Security, y.Security) })
	r.Totals = a.Aggregate(r.Disposals)
	return r
}

// SecurityResult is the outcome of the computation of one security.
type SecurityResult struct {
	Security    string
	Disposals   []DisposalGain
	Adjustments []Adjustment
	Pool        PoolState // pool at the end of the history
	Timeline    []PoolPoint
	Err         error     // set when the security could not be computed
}

// Failure is a security whose computation failed. Its disposals are absent
// from the report.
type Failure struct {
	Security string
	Err      error
}

// Report is the outcome of a computation: every disposal with its gain, the
// totals, and the securities that could not be computed.
type Report struct {
	ID          uuid.UUID // derived from the input, identical for identical inputs
	Currency    string
	Disposals   []DisposalGain
	Adjustments []Adjustment
	Pools       []PoolState
	Totals
	Failures []Failure

	timelines map[string][]PoolPoint // by security
}

// PoolsAt returns the pool of every computed security at the end of day on,
// in the share units in force that day.
func (r *Report) PoolsAt(on date.Date) []PoolState {
	pools := make([]PoolState, 0, len(r.Pools))
	for _, p := range r.Pools {
		pools = append(pools, poolAt(p.Security, r.Currency, r.timelines[p.Security], on))
	}
	return pools
}

// Err returns the failures joined together, or nil.
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

// ForTaxYear returns a report restricted to the disposals and corporate
// actions of a tax year, with totals computed again. Pools and failures are
// kept as is.
func (r *Report) ForTaxYear(y date.TaxYear) *Report {
	out := &Report{
		ID:       uuid.NewSHA1(r.ID, []byte(y.String())),
		Currency: r.Currency,
		Pools:    r.Pools,
		Failures: r.Failures,

		timelines: r.timelines,
	}
	for _, d := range r.Disposals {
		if y.Contains(d.Date) {
			out.Disposals = append(out.Disposals, d)
		}
	}
	for _, a := range r.Adjustments {
		if y.Contains(a.Date) {
			out.Adjustments = append(out.Adjustments, a)
		}
	}
	out.Totals = NewReportAggregator(r.Currency).Aggregate(out.Disposals)
	return out
}
