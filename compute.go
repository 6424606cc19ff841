package cgt

import (
	"context"
	"fmt"
	"slices"

	"github.com/etnz/cgt/date"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// runNamespace scopes report identifiers.
var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/etnz/cgt"))

// Compute runs the whole computation: transactions are grouped by security,
// each security is computed independently (in parallel, up to
// opts.Concurrency at a time) and the results are aggregated into a report.
//
// A security that fails is listed in Report.Failures and does not prevent
// the others from completing. Transactions held in sheltered wrappers (ISA,
// SIPP...) are ignored.
//
// ctx is only checked before each security starts: a security computation
// is short and never interrupted.
func Compute(ctx context.Context, txs []Transaction, opts Options) *Report {
	opts = opts.withDefaults()
	log := opts.Logger

	bySecurity := make(map[string][]Transaction)
	var securities []string
	var sheltered int
	for _, tx := range txs {
		if tx.Wrapper.Sheltered() {
			sheltered++
			continue
		}
		if _, ok := bySecurity[tx.Security]; !ok {
			securities = append(securities, tx.Security)
		}
		bySecurity[tx.Security] = append(bySecurity[tx.Security], tx)
	}
	slices.Sort(securities)
	log.Info().Int("transactions", len(txs)).Int("securities", len(securities)).Int("sheltered", sheltered).Msg("computing")

	results := make([]SecurityResult, len(securities))
	var g errgroup.Group
	g.SetLimit(opts.Concurrency)
	for i, security := range securities {
		i, security := i, security
		g.Go(func() error {
			results[i] = ComputeSecurity(ctx, security, bySecurity[security], opts)
			return nil
		})
	}
	_ = g.Wait() // failures are reported per security

	report := NewReportAggregator(opts.Currency).Report(RunID(txs), results)
	log.Info().Int("disposals", len(report.Disposals)).Int("failures", len(report.Failures)).
		Stringer("net", report.Net).Msg("computed")
	return report
}

// ComputeSecurity computes the disposals of one security. txs must all
// belong to that security.
func ComputeSecurity(ctx context.Context, security string, txs []Transaction, opts Options) SecurityResult {
	opts = opts.withDefaults()
	log := opts.Logger.With().Str("security", security).Logger()
	res := SecurityResult{Security: security}
	fail := func(err error) SecurityResult {
		log.Error().Err(err).Msg("security failed")
		res.Err = err
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(securityError(security, "", err))
	}
	for _, tx := range txs {
		if err := checkTransaction(security, opts.Currency, tx); err != nil {
			return fail(err)
		}
	}

	entries, adjustments, err := NewCorporateActionProcessor(security).Process(EntriesOf(txs))
	if err != nil {
		return fail(err)
	}
	engine := NewMatchEngine(security, opts)
	records, err := engine.Match(entries)
	if err != nil {
		return fail(err)
	}

	calc := NewGainLossCalculator(opts.Currency)
	for _, r := range records {
		res.Disposals = append(res.Disposals, calc.Calculate(r))
	}
	res.Adjustments = append(adjustments, engine.Adjustments()...)
	res.Pool = engine.Pool()
	res.Timeline = restate(engine.Timeline(), adjustments, security, opts.Currency)
	log.Debug().Int("disposals", len(res.Disposals)).Stringer("pool", res.Pool.Quantity).Msg("security complete")
	return res
}

// restate returns a pool timeline, computed in the share units in force after
// every action, in the units in force at the date of each point. A point is
// added on each action date. Restated quantities are rounded to 12 decimal
// places: 1/3 is not a decimal.
func restate(timeline []PoolPoint, actions []Adjustment, security, currency string) []PoolPoint {
	inForce := func(s PoolState, on date.Date) PoolState {
		restated := false
		for _, a := range actions {
			if a.Date.After(on) {
				s.Quantity = s.Quantity.Mul(a.From).Div(a.To)
				restated = true
			}
		}
		if restated {
			s.Quantity = Quantity{value: s.Quantity.value.Round(12)}
		}
		return s
	}

	out := make([]PoolPoint, 0, len(timeline)+len(actions))
	last := PoolState{Security: security, Quantity: Q(0), Cost: M(0, currency)}
	i := 0
	for _, a := range actions {
		for ; i < len(timeline) && timeline[i].Date.Before(a.Date); i++ {
			last = timeline[i].PoolState
			out = append(out, PoolPoint{Date: timeline[i].Date, PoolState: inForce(last, timeline[i].Date)})
		}
		out = append(out, PoolPoint{Date: a.Date, PoolState: inForce(last, a.Date)})
	}
	for ; i < len(timeline); i++ {
		out = append(out, PoolPoint{Date: timeline[i].Date, PoolState: inForce(timeline[i].PoolState, timeline[i].Date)})
	}
	return out
}

// checkTransaction validates a transaction before it enters the engine.
func checkTransaction(security, currency string, tx Transaction) error {
	if tx.Security != security {
		return securityError(security, tx.ID, fmt.Errorf("%w: belongs to %q", ErrInvalidTransaction, tx.Security))
	}
	if err := tx.Validate(); err != nil {
		return securityError(security, tx.ID, err)
	}
	for _, c := range []string{tx.Price.Currency(), tx.Fees.Currency()} {
		if c != "" && c != currency {
			return securityError(security, tx.ID, fmt.Errorf("%w: currency %s, want %s", ErrInvalidTransaction, c, currency))
		}
	}
	return nil
}

// RunID returns an identifier of a transaction set that does not depend on
// the order of the transactions.
func RunID(txs []Transaction) uuid.UUID {
	lines := make([]string, 0, len(txs))
	for _, tx := range txs {
		b, err := marshalTransaction(tx)
		if err != nil {
			b = []byte(tx.String())
		}
		lines = append(lines, string(b))
	}
	slices.Sort(lines)
	var buf []byte
	for _, l := range lines {
		buf = append(buf, l...)
		buf = append(buf, '\n')
	}
	return uuid.NewSHA1(runNamespace, buf)
}
