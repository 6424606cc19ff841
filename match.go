package cgt

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/etnz/cgt/date"
	"github.com/rs/zerolog"
)

// Source identifies the rule that matched part of a disposal.
type Source int

const (
	SameDay Source = iota
	BedAndBreakfast
	Pool
)

func (s Source) String() string {
	switch s {
	case SameDay:
		return "same_day"
	case BedAndBreakfast:
		return "bed_and_breakfast"
	case Pool:
		return "pool"
	default:
		return "unknown"
	}
}

func (s Source) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Component is the part of a disposal matched by one rule against one
// acquisition, or against the pool.
type Component struct {
	Source   Source
	Quantity Quantity
	Cost     Money     // cost of the matched shares, pool fees included
	Fees     Money     // acquisition fees apportioned to the matched shares
	Lot      string    // matched acquisition, empty for the pool
	Acquired date.Date // acquisition date, zero for the pool
}

// MatchRecord is the identification of one disposal.
type MatchRecord struct {
	Security   string
	Disposal   string // disposal transaction id
	Index      int
	Date       date.Date
	Quantity   Quantity
	Gross      Money // quantity * unit price
	Fees       Money // disposal fees
	Components []Component
}

// Matched returns the total quantity matched by all components.
func (r MatchRecord) Matched() Quantity {
	var q Quantity
	for _, c := range r.Components {
		q = q.Add(c.Quantity)
	}
	return q
}

// MatchedBy returns the quantity matched by one rule.
func (r MatchRecord) MatchedBy(s Source) Quantity {
	var q Quantity
	for _, c := range r.Components {
		if c.Source == s {
			q = q.Add(c.Quantity)
		}
	}
	return q
}

// Stage is the progress of a MatchEngine.
type Stage int

const (
	Unprocessed Stage = iota
	SameDayResolved
	BedAndBreakfastResolved
	PoolResolved
	Complete
)

func (s Stage) String() string {
	switch s {
	case Unprocessed:
		return "unprocessed"
	case SameDayResolved:
		return "same_day_resolved"
	case BedAndBreakfastResolved:
		return "bnb_resolved"
	case PoolResolved:
		return "pool_resolved"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// pending is a disposal being matched.
type pending struct {
	record    *MatchRecord
	remaining Quantity
}

// MatchEngine identifies the disposals of one security against its
// acquisitions: same day first, then bed and breakfast, then the Section 104
// pool. An engine owns its pool and is used for a single Match call.
type MatchEngine struct {
	security  string
	opts      Options
	log       zerolog.Logger
	pool      *Section104Pool
	processor *CorporateActionProcessor

	stage       Stage
	lots        []*Lot // chronological
	disposals   []*pending
	actions     []Entry
	adjustments []Adjustment
	timeline    []PoolPoint
}

// NewMatchEngine returns an engine for security.
func NewMatchEngine(security string, opts Options) *MatchEngine {
	opts = opts.withDefaults()
	return &MatchEngine{
		security:  security,
		opts:      opts,
		log:       opts.Logger.With().Str("security", security).Logger(),
		pool:      NewSection104Pool(security, opts.Currency),
		processor: NewCorporateActionProcessor(security),
	}
}

// Stage returns how far the engine went.
func (m *MatchEngine) Stage() Stage { return m.stage }

// Pool returns the state of the pool.
func (m *MatchEngine) Pool() PoolState { return m.pool.State() }

// Adjustments returns the corporate actions applied to the pool while sweeping.
func (m *MatchEngine) Adjustments() []Adjustment { return m.adjustments }

// Timeline returns the state of the pool after each event of the sweep, in
// chronological order.
func (m *MatchEngine) Timeline() []PoolPoint { return m.timeline }

// PoolAt returns the pool at the end of day on. Bed and breakfast matches
// with later acquisitions are taken into account.
func (m *MatchEngine) PoolAt(on date.Date) PoolState {
	return poolAt(m.security, m.opts.Currency, m.timeline, on)
}

func (m *MatchEngine) advance(next Stage) {
	if next != m.stage+1 {
		panic(fmt.Sprintf("invalid stage transition %s -> %s", m.stage, next))
	}
	m.stage = next
	m.log.Debug().Stringer("stage", next).Msg("stage resolved")
}

// Match identifies every disposal in entries and returns one record per
// disposal, in chronological order.
//
// Entries may still contain corporate actions: they are then applied to the
// pool as it is swept, which is only valid when no action falls inside an
// unresolved bed and breakfast window (ErrOverlappingCorporateAction).
// Running the CorporateActionProcessor first avoids the restriction.
func (m *MatchEngine) Match(entries []Entry) ([]MatchRecord, error) {
	if m.stage != Unprocessed {
		return nil, fmt.Errorf("match engine for %s already used (stage %s)", m.security, m.stage)
	}
	m.load(entries)

	m.matchSameDay()
	m.advance(SameDayResolved)

	if err := m.checkOverlaps(); err != nil {
		return nil, err
	}
	m.matchBedAndBreakfast()
	m.advance(BedAndBreakfastResolved)

	if err := m.sweepPool(); err != nil {
		return nil, err
	}
	m.advance(PoolResolved)

	records := make([]MatchRecord, 0, len(m.disposals))
	for _, d := range m.disposals {
		if !d.record.Matched().Equal(d.record.Quantity) {
			return nil, securityError(m.security, d.record.Disposal,
				fmt.Errorf("matched %s out of %s", d.record.Matched(), d.record.Quantity))
		}
		records = append(records, *d.record)
	}
	m.advance(Complete)
	return records, nil
}

// load builds lots and pending disposals from entries.
func (m *MatchEngine) load(entries []Entry) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sortEntries(sorted)

	for _, e := range sorted {
		switch e.Kind {
		case Acquisition:
			m.lots = append(m.lots, newLot(e))
		case Disposal:
			m.disposals = append(m.disposals, &pending{
				record: &MatchRecord{
					Security: m.security,
					Disposal: e.Transaction,
					Index:    e.Index,
					Date:     e.Date,
					Quantity: e.Quantity,
					Gross:    e.Gross,
					Fees:     e.Fees,
				},
				remaining: e.Quantity,
			})
		case CorporateActionKind:
			m.actions = append(m.actions, e)
		}
	}
	m.log.Debug().Int("acquisitions", len(m.lots)).Int("disposals", len(m.disposals)).Int("actions", len(m.actions)).Msg("loaded")
}

// match consumes q shares of lot for disposal d.
func (m *MatchEngine) match(d *pending, lot *Lot, q Quantity, source Source) {
	if !q.IsPositive() {
		return
	}
	cost, fees := lot.take(q)
	d.remaining = d.remaining.Sub(q)
	d.record.Components = append(d.record.Components, Component{
		Source:   source,
		Quantity: q,
		Cost:     cost,
		Fees:     fees,
		Lot:      lot.Transaction,
		Acquired: lot.Acquired,
	})
	m.log.Debug().Str("disposal", d.record.Disposal).Str("lot", lot.Transaction).
		Stringer("source", source).Stringer("quantity", q).Msg("matched")
}

// matchSameDay matches disposals against acquisitions of the same day.
func (m *MatchEngine) matchSameDay() {
	for _, d := range m.disposals {
		var candidates []*Lot
		for _, lot := range m.lots {
			if lot.Acquired == d.record.Date && !lot.IsConsumed() {
				candidates = append(candidates, lot)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		var shares []Quantity
		switch m.opts.SameDayTieBreak {
		case ProRata:
			shares = allocateProRata(d.remaining, candidates)
		default:
			shares = allocateInOrder(d.remaining, candidates)
		}
		for i, lot := range candidates {
			m.match(d, lot, shares[i], SameDay)
		}
	}
}

// checkOverlaps rejects corporate actions dated inside the bed and breakfast
// window of a disposal that same-day matching did not fully resolve.
func (m *MatchEngine) checkOverlaps() error {
	for _, a := range m.actions {
		for _, d := range m.disposals {
			if !d.remaining.IsPositive() {
				continue
			}
			if days := d.record.Date.DaysUntil(a.Date); days >= 1 && days <= m.opts.BedAndBreakfastDays {
				m.log.Warn().Str("action", a.Transaction).Str("disposal", d.record.Disposal).
					Msg("corporate action inside bed and breakfast window, process corporate actions first")
				return securityError(m.security, a.Transaction,
					fmt.Errorf("%w: disposal %s on %s", ErrOverlappingCorporateAction, d.record.Disposal, d.record.Date))
			}
		}
	}
	return nil
}

// matchBedAndBreakfast matches what is left of each disposal against
// acquisitions made in the following days, earliest first.
func (m *MatchEngine) matchBedAndBreakfast() {
	for _, d := range m.disposals {
		for _, lot := range m.lots {
			if !d.remaining.IsPositive() {
				break
			}
			days := d.record.Date.DaysUntil(lot.Acquired)
			if days < 1 || lot.IsConsumed() {
				continue
			}
			if days > m.opts.BedAndBreakfastDays {
				break // lots are chronological
			}
			m.match(d, lot, d.remaining.Min(lot.Remaining), BedAndBreakfast)
		}
	}
}

// timeline orders the pool sweep: on a given day corporate actions come
// first, then acquisitions, then disposals.
type timelineItem struct {
	on       date.Date
	priority int
	index    int
	action   *Entry
	lot      *Lot
	disposal *pending
}

// sweepPool absorbs unmatched acquisitions into the pool and withdraws what
// is left of each disposal, in chronological order.
func (m *MatchEngine) sweepPool() error {
	var items []timelineItem
	for i := range m.actions {
		a := &m.actions[i]
		items = append(items, timelineItem{on: a.Date, priority: 0, index: a.Index, action: a})
	}
	for _, lot := range m.lots {
		if !lot.IsConsumed() {
			items = append(items, timelineItem{on: lot.Acquired, priority: 1, index: lot.Index, lot: lot})
		}
	}
	for _, d := range m.disposals {
		if d.remaining.IsPositive() {
			items = append(items, timelineItem{on: d.record.Date, priority: 2, index: d.record.Index, disposal: d})
		}
	}
	slices.SortFunc(items, func(a, b timelineItem) int {
		if c := a.on.Compare(b.on); c != 0 {
			return c
		}
		if c := cmp.Compare(a.priority, b.priority); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})

	for _, it := range items {
		switch {
		case it.action != nil:
			adj, ok, err := m.processor.ApplyToPool(m.pool, *it.action)
			if err != nil {
				return err
			}
			if ok {
				m.adjustments = append(m.adjustments, adj)
			}
		case it.lot != nil:
			q := it.lot.Remaining
			cost, fees := it.lot.take(q)
			m.pool.Absorb(q, cost.Add(fees))
			m.log.Debug().Str("lot", it.lot.Transaction).Stringer("quantity", q).Msg("absorbed into pool")
		case it.disposal != nil:
			d := it.disposal
			q := d.remaining
			cost, err := m.pool.Withdraw(q)
			if err != nil {
				if errors.Is(err, ErrInsufficientPoolQuantity) {
					m.log.Error().Err(err).Str("disposal", d.record.Disposal).Msg("pool exhausted")
				}
				return securityError(m.security, d.record.Disposal, err)
			}
			d.remaining = Q(0)
			d.record.Components = append(d.record.Components, Component{
				Source:   Pool,
				Quantity: q,
				Cost:     cost,
				Fees:     Money{cur: cost.cur},
			})
		}
		m.timeline = append(m.timeline, PoolPoint{Date: it.on, PoolState: m.pool.State()})
	}
	return nil
}

// allocateInOrder shares need between lots in their order.
func allocateInOrder(need Quantity, lots []*Lot) []Quantity {
	shares := make([]Quantity, len(lots))
	for i, lot := range lots {
		shares[i] = need.Min(lot.Remaining)
		need = need.Sub(shares[i])
	}
	return shares
}

// allocateProRata shares need between lots in proportion to what remains in
// each. Shares are rounded down, and the rounding remainder is then given in
// lot order, so that the shares add up to exactly min(need, total).
func allocateProRata(need Quantity, lots []*Lot) []Quantity {
	var total Quantity
	for _, lot := range lots {
		total = total.Add(lot.Remaining)
	}
	if !need.LessThan(total) {
		return allocateInOrder(need, lots)
	}
	shares := make([]Quantity, len(lots))
	left := need
	for i, lot := range lots {
		s := Quantity{value: need.value.Mul(lot.Remaining.value).Div(total.value).Truncate(12)}
		shares[i] = s.Min(lot.Remaining)
		left = left.Sub(shares[i])
	}
	for i, lot := range lots {
		if !left.IsPositive() {
			break
		}
		extra := left.Min(lot.Remaining.Sub(shares[i]))
		shares[i] = shares[i].Add(extra)
		left = left.Sub(extra)
	}
	return shares
}
