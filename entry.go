package cgt

import (
	"cmp"
	"slices"

	"github.com/etnz/cgt/date"
)

// Entry is a transaction as seen by the matching engine. Its quantity is
// expressed in the share units in force after every corporate action already
// applied to it; its gross amount (quantity * price) never changes.
type Entry struct {
	Transaction string // id of the originating transaction
	Index       int    // position of the transaction in the input
	Date        date.Date
	Kind        Kind
	Quantity    Quantity
	Gross       Money
	Fees        Money
	Action      *CorporateAction // set for corporate actions only
}

// UnitPrice returns the gross amount per share.
func (e Entry) UnitPrice() Money {
	if e.Quantity.IsZero() {
		return Money{cur: e.Gross.cur}
	}
	return e.Gross.Div(e.Quantity)
}

// EntriesOf converts transactions into entries, without applying corporate
// actions. Entries are returned in chronological order, ties keeping the
// input order.
func EntriesOf(txs []Transaction) []Entry {
	entries := make([]Entry, 0, len(txs))
	for i, tx := range txs {
		e := Entry{
			Transaction: tx.ID,
			Index:       i,
			Date:        tx.Date,
			Kind:        tx.Kind,
			Quantity:    tx.Quantity,
			Gross:       tx.Gross(),
			Fees:        tx.Fees,
		}
		if tx.Action != nil {
			a := *tx.Action
			e.Action = &a
		}
		entries = append(entries, e)
	}
	sortEntries(entries)
	return entries
}

// sortEntries sorts chronologically, ties broken by input order.
func sortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
}
