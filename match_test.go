package cgt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchEngine_PoolOnly(t *testing.T) {
	records, engine := matchOne(t, Options{},
		buy("b1", "2023-01-01", 100, 10),
		buy("b2", "2023-03-01", 100, 20),
		sell("s1", "2023-06-01", 50, 25),
	)
	require.Len(t, records, 1)
	r := records[0]
	require.Len(t, r.Components, 1)
	assert.Equal(t, Pool, r.Components[0].Source)
	requireQuantity(t, 50, r.Components[0].Quantity)
	requireMoney(t, 750, r.Components[0].Cost)
	assert.Equal(t, Complete, engine.Stage())
	requireQuantity(t, 150, engine.Pool().Quantity)
	requireMoney(t, 2250, engine.Pool().Cost)
}

func TestMatchEngine_SameDayIgnoresPool(t *testing.T) {
	records, engine := matchOne(t, Options{},
		buy("pool", "2023-01-01", 100, 10),
		buy("same", "2023-01-10", 50, 40),
		sell("s", "2023-01-10", 50, 45),
	)
	require.Len(t, records, 1)
	r := records[0]
	require.Len(t, r.Components, 1)
	assert.Equal(t, SameDay, r.Components[0].Source)
	assert.Equal(t, "same", r.Components[0].Lot)
	requireMoney(t, 2000, r.Components[0].Cost)
	requireQuantity(t, 0, r.MatchedBy(Pool))
	// the pool only holds the first acquisition.
	requireQuantity(t, 100, engine.Pool().Quantity)
	requireMoney(t, 1000, engine.Pool().Cost)
}

func TestMatchEngine_BedAndBreakfastLeavesPoolUntouched(t *testing.T) {
	records, engine := matchOne(t, Options{},
		buy("pool", "2023-01-01", 100, 10),
		sell("s", "2023-02-01", 100, 15),
		buy("bnb", "2023-02-11", 100, 12),
	)
	require.Len(t, records, 1)
	r := records[0]
	require.Len(t, r.Components, 1)
	assert.Equal(t, BedAndBreakfast, r.Components[0].Source)
	assert.Equal(t, "bnb", r.Components[0].Lot)
	requireMoney(t, 1200, r.Components[0].Cost)
	requireQuantity(t, 100, engine.Pool().Quantity)
	requireMoney(t, 1000, engine.Pool().Cost)
}

func TestMatchEngine_BedAndBreakfastWindow(t *testing.T) {
	tests := []struct {
		name    string
		days    int
		rebuy   string
		wantBnB float64
	}{
		{"day 30 is inside", 0, "2023-03-03", 100},
		{"day 31 is outside", 0, "2023-03-04", 0},
		{"shorter window", 10, "2023-02-11", 100},
		{"outside shorter window", 10, "2023-02-12", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _ := matchOne(t, Options{BedAndBreakfastDays: tt.days},
				buy("pool", "2023-01-01", 100, 10),
				sell("s", "2023-02-01", 100, 15),
				buy("rebuy", tt.rebuy, 100, 12),
			)
			require.Len(t, records, 1)
			requireQuantity(t, tt.wantBnB, records[0].MatchedBy(BedAndBreakfast))
			requireQuantity(t, 100-tt.wantBnB, records[0].MatchedBy(Pool))
		})
	}
}

func TestMatchEngine_BedAndBreakfastEarliestFirst(t *testing.T) {
	records, _ := matchOne(t, Options{},
		buy("pool", "2023-01-01", 100, 10),
		sell("s", "2023-02-01", 100, 15),
		buy("late", "2023-02-20", 80, 13),
		buy("early", "2023-02-05", 60, 11),
	)
	require.Len(t, records, 1)
	c := records[0].Components
	require.Len(t, c, 2)
	assert.Equal(t, "early", c[0].Lot)
	requireQuantity(t, 60, c[0].Quantity)
	assert.Equal(t, "late", c[1].Lot)
	requireQuantity(t, 40, c[1].Quantity)
	requireMoney(t, 520, c[1].Cost)
}

func TestMatchEngine_RulePrecedence(t *testing.T) {
	// The disposal has candidates under every rule: same day is exhausted
	// first, then bed and breakfast, then the pool.
	records, engine := matchOne(t, Options{},
		buy("pool", "2023-01-01", 100, 10),
		buy("same", "2023-05-01", 30, 20),
		sell("s", "2023-05-01", 100, 25),
		buy("bnb", "2023-05-15", 50, 22),
	)
	require.Len(t, records, 1)
	c := records[0].Components
	require.Len(t, c, 3)
	assert.Equal(t, SameDay, c[0].Source)
	requireQuantity(t, 30, c[0].Quantity)
	assert.Equal(t, BedAndBreakfast, c[1].Source)
	requireQuantity(t, 50, c[1].Quantity)
	assert.Equal(t, Pool, c[2].Source)
	requireQuantity(t, 20, c[2].Quantity)
	requireMoney(t, 200, c[2].Cost)
	requireQuantity(t, 80, engine.Pool().Quantity)
}

func TestMatchEngine_BedAndBreakfastAcquisitionNotPooled(t *testing.T) {
	// b2 is used by s1, so s2 can only match b1 through the pool.
	records, _ := matchOne(t, Options{},
		buy("b1", "2023-01-01", 100, 10),
		sell("s1", "2023-01-05", 100, 15),
		buy("b2", "2023-01-10", 100, 12),
		sell("s2", "2023-02-01", 100, 20),
	)
	require.Len(t, records, 2)
	assert.Equal(t, "s1", records[0].Disposal)
	assert.Equal(t, "b2", records[0].Components[0].Lot)
	assert.Equal(t, "s2", records[1].Disposal)
	assert.Equal(t, Pool, records[1].Components[0].Source)
	requireMoney(t, 1000, records[1].Components[0].Cost)
}

func TestMatchEngine_SameDayBeatsEarlierBedAndBreakfast(t *testing.T) {
	// b2 is needed by s2 on its own day before s1 may claim it.
	records, _ := matchOne(t, Options{},
		buy("b1", "2023-01-01", 100, 10),
		sell("s1", "2023-01-05", 50, 15),
		buy("b2", "2023-01-10", 50, 12),
		sell("s2", "2023-01-10", 50, 13),
	)
	require.Len(t, records, 2)
	assert.Equal(t, Pool, records[0].Components[0].Source)
	assert.Equal(t, SameDay, records[1].Components[0].Source)
	assert.Equal(t, "b2", records[1].Components[0].Lot)
}

func TestMatchEngine_SameDayTieBreakInputOrder(t *testing.T) {
	records, _ := matchOne(t, Options{SameDayTieBreak: InputOrder},
		buy("first", "2023-01-10", 60, 10),
		buy("second", "2023-01-10", 60, 20),
		sell("s", "2023-01-10", 80, 25),
	)
	c := records[0].Components
	require.Len(t, c, 2)
	assert.Equal(t, "first", c[0].Lot)
	requireQuantity(t, 60, c[0].Quantity)
	assert.Equal(t, "second", c[1].Lot)
	requireQuantity(t, 20, c[1].Quantity)

	// swapping the input order swaps the allocation.
	records, _ = matchOne(t, Options{SameDayTieBreak: InputOrder},
		buy("second", "2023-01-10", 60, 20),
		buy("first", "2023-01-10", 60, 10),
		sell("s", "2023-01-10", 80, 25),
	)
	c = records[0].Components
	assert.Equal(t, "second", c[0].Lot)
	requireQuantity(t, 60, c[0].Quantity)
	requireQuantity(t, 20, c[1].Quantity)
}

func TestMatchEngine_SameDayTieBreakProRata(t *testing.T) {
	records, engine := matchOne(t, Options{SameDayTieBreak: ProRata},
		buy("a", "2023-01-10", 100, 10),
		buy("b", "2023-01-10", 50, 20),
		sell("s", "2023-01-10", 90, 25),
	)
	c := records[0].Components
	require.Len(t, c, 2)
	requireQuantity(t, 60, c[0].Quantity)
	requireQuantity(t, 30, c[1].Quantity)
	requireMoney(t, 600, c[0].Cost)
	requireMoney(t, 600, c[1].Cost)
	// leftovers reach the pool.
	requireQuantity(t, 60, engine.Pool().Quantity)
	requireMoney(t, 800, engine.Pool().Cost)
}

func TestMatchEngine_ProRataIsExact(t *testing.T) {
	records, _ := matchOne(t, Options{SameDayTieBreak: ProRata},
		buy("a", "2023-01-10", 1, 10),
		buy("b", "2023-01-10", 1, 10),
		buy("c", "2023-01-10", 1, 10),
		sell("s", "2023-01-10", 1, 25),
	)
	requireQuantity(t, 1, records[0].Matched())
	requireQuantity(t, 1, records[0].MatchedBy(SameDay))
}

func TestMatchEngine_AcquisitionFeesApportioned(t *testing.T) {
	records, engine := matchOne(t, Options{},
		withFees(buy("b", "2023-01-10", 100, 10), 20),
		sell("s", "2023-01-10", 25, 12),
	)
	c := records[0].Components[0]
	requireMoney(t, 250, c.Cost)
	requireMoney(t, 5, c.Fees)
	// the pool absorbs the rest, fees included.
	requireMoney(t, 765, engine.Pool().Cost)
}

func TestMatchEngine_InsufficientPoolQuantity(t *testing.T) {
	engine := NewMatchEngine("X", Options{})
	_, err := engine.Match(EntriesOf([]Transaction{
		buy("b", "2023-01-01", 10, 10),
		sell("s", "2023-02-01", 11, 12),
	}))
	require.ErrorIs(t, err, ErrInsufficientPoolQuantity)
	var se *SecurityError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "X", se.Security)
	assert.Equal(t, "s", se.Transaction)
	assert.NotEqual(t, Complete, engine.Stage())
}

func TestMatchEngine_SellBeforeBuySameDayWithoutPool(t *testing.T) {
	// input order within the day does not matter for same-day matching.
	records, _ := matchOne(t, Options{},
		sell("s", "2023-01-10", 10, 12),
		buy("b", "2023-01-10", 10, 10),
	)
	assert.Equal(t, SameDay, records[0].Components[0].Source)
}

func TestMatchEngine_OverlappingCorporateAction(t *testing.T) {
	engine := NewMatchEngine("X", Options{})
	_, err := engine.Match(EntriesOf([]Transaction{
		buy("b", "2023-01-01", 100, 10),
		sell("s", "2023-02-01", 50, 12),
		split("cs", "2023-02-15", StockSplit, 1, 2),
	}))
	require.ErrorIs(t, err, ErrOverlappingCorporateAction)
	var se *SecurityError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "cs", se.Transaction)
	assert.Equal(t, SameDayResolved, engine.Stage())
}

func TestMatchEngine_CorporateActionOutsideWindowAppliedToPool(t *testing.T) {
	records, engine := matchOne(t, Options{},
		buy("b", "2023-01-01", 100, 10),
		sell("s", "2023-02-01", 50, 12),
		split("cs", "2023-04-01", StockSplit, 1, 2),
		sell("s2", "2023-05-01", 100, 8),
	)
	require.Len(t, records, 2)
	requireMoney(t, 500, records[1].Components[0].Cost)
	assert.True(t, engine.Pool().Quantity.IsZero())
	require.Len(t, engine.Adjustments(), 1)
	requireQuantity(t, 50, engine.Adjustments()[0].Change())
}

func TestMatchEngine_UsedOnce(t *testing.T) {
	records, engine := matchOne(t, Options{}, buy("b", "2023-01-01", 1, 1))
	assert.Empty(t, records)
	_, err := engine.Match(nil)
	assert.Error(t, err)
}

func TestMatchEngine_MatchedQuantityAlwaysExact(t *testing.T) {
	records, engine := matchOne(t, Options{SameDayTieBreak: ProRata},
		buy("b1", "2023-01-01", 33.3, 7.1),
		buy("b2", "2023-01-03", 12.7, 7.3),
		buy("b3", "2023-01-03", 5.5, 7.2),
		sell("s1", "2023-01-03", 7.25, 7.6),
		sell("s2", "2023-01-04", 20.01, 7.5),
		buy("b4", "2023-01-20", 3.33, 7.0),
		sell("s3", "2023-02-01", 10, 7.7),
		sell("s4", "2023-02-02", 0.001, 7.7),
	)
	for _, r := range records {
		assert.Truef(t, r.Matched().Equal(r.Quantity), "%s matched %s of %s", r.Disposal, r.Matched(), r.Quantity)
	}
	assert.False(t, engine.Pool().Quantity.IsNegative())
	assert.False(t, engine.Pool().Cost.IsNegative())
}

func TestMatchEngine_PoolAt(t *testing.T) {
	// s1 is matched with b2 bought after it: b1 stays in the pool all along.
	_, engine := matchOne(t, Options{},
		buy("b1", "2023-01-01", 100, 10),
		sell("s1", "2023-02-01", 100, 11),
		buy("b2", "2023-02-10", 100, 12),
	)

	tests := []struct {
		on   string
		want float64
	}{
		{"2022-12-31", 0},
		{"2023-01-01", 100},
		{"2023-02-05", 100},
		{"2023-03-01", 100},
	}
	for _, tc := range tests {
		t.Run(tc.on, func(t *testing.T) {
			pool := engine.PoolAt(d(tc.on))
			requireQuantity(t, tc.want, pool.Quantity)
			requireMoney(t, tc.want*10, pool.Cost)
		})
	}
}
