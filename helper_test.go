package cgt

import (
	"testing"

	"github.com/etnz/cgt/date"
	"github.com/stretchr/testify/require"
)

// d is a helper for test to create dates from literals.
func d(s string) date.Date { return date.MustParse(s) }

// buy is a helper for test to create an acquisition of security "X".
func buy(id, on string, qty, price float64) Transaction {
	return Transaction{ID: id, Security: "X", Date: d(on), Kind: Acquisition, Quantity: Q(qty), Price: GBP(price)}
}

// sell is a helper for test to create a disposal of security "X".
func sell(id, on string, qty, price float64) Transaction {
	return Transaction{ID: id, Security: "X", Date: d(on), Kind: Disposal, Quantity: Q(qty), Price: GBP(price)}
}

// split is a helper for test to create a corporate action on security "X".
func split(id, on string, typ ActionType, from, to float64) Transaction {
	return Transaction{ID: id, Security: "X", Date: d(on), Kind: CorporateActionKind,
		Action: &CorporateAction{Type: typ, From: Q(from), To: Q(to)}}
}

// withFees returns tx with fees set.
func withFees(tx Transaction, fees float64) Transaction {
	tx.Fees = GBP(fees)
	return tx
}

// on returns tx for another security.
func on(security string, tx Transaction) Transaction {
	tx.Security = security
	return tx
}

// requireMoney asserts that a Money has the expected value, ignoring its currency.
func requireMoney(t *testing.T, want float64, got Money, msgAndArgs ...interface{}) {
	t.Helper()
	require.Truef(t, Q(want).Decimal().Equal(got.Decimal()), "want %v, got %s %v", want, got.Decimal(), msgAndArgs)
}

// requireQuantity asserts that a Quantity has the expected value.
func requireQuantity(t *testing.T, want float64, got Quantity, msgAndArgs ...interface{}) {
	t.Helper()
	require.Truef(t, Q(want).Equal(got), "want %v, got %s %v", want, got, msgAndArgs)
}

// matchOne runs a fresh engine on transactions of a single security.
func matchOne(t *testing.T, opts Options, txs ...Transaction) ([]MatchRecord, *MatchEngine) {
	t.Helper()
	engine := NewMatchEngine("X", opts)
	records, err := engine.Match(EntriesOf(txs))
	require.NoError(t, err)
	return records, engine
}
