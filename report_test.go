package cgt

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/etnz/cgt/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportAggregator_Totals(t *testing.T) {
	gains := []DisposalGain{
		{Gain: GBP(100)},
		{Gain: GBP(-30)},
		{Gain: GBP(0)},
		{Gain: GBP(-20)},
	}
	totals := NewReportAggregator("GBP").Aggregate(gains)
	requireMoney(t, 100, totals.Gains)
	requireMoney(t, 50, totals.Losses)
	requireMoney(t, 50, totals.Net)
}

func TestReportAggregator_Empty(t *testing.T) {
	totals := NewReportAggregator("").Aggregate(nil)
	assert.True(t, totals.Net.IsZero())
	assert.Equal(t, "GBP", totals.Net.Currency())
}

func TestReport_ForTaxYear(t *testing.T) {
	report := Compute(context.Background(), []Transaction{
		buy("b", "2023-01-01", 100, 10),
		sell("s1", "2023-04-05", 10, 15), // 2022/2023
		sell("s2", "2023-04-06", 10, 5),  // 2023/2024
		sell("s3", "2024-04-05", 10, 12), // 2023/2024
	}, Options{})
	require.NoError(t, report.Err())
	require.Len(t, report.Disposals, 3)

	y := report.ForTaxYear(date.TaxYear(2023))
	require.Len(t, y.Disposals, 2)
	assert.Equal(t, "s2", y.Disposals[0].Disposal)
	requireMoney(t, 20, y.Gains)
	requireMoney(t, 50, y.Losses)
	requireMoney(t, -30, y.Net)
	assert.NotEqual(t, report.ID, y.ID)

	// the full report is left untouched.
	requireMoney(t, 70, report.Gains)
}

func TestReport_JSON(t *testing.T) {
	report := Compute(context.Background(), []Transaction{
		buy("b1", "2023-01-01", 3, 10),
		sell("s", "2023-02-01", 1, 20),
	}, Options{})
	b, err := json.Marshal(report)
	require.NoError(t, err)

	var got struct {
		Currency  string `json:"currency"`
		Net       json.Number
		Disposals []struct {
			Disposal      string                 `json:"disposal"`
			AllowableCost json.Number            `json:"allowableCost"`
			Matched       map[string]json.Number `json:"matched"`
			Parts         []map[string]any       `json:"parts"`
		} `json:"disposals"`
		Pools []struct {
			Quantity json.Number `json:"quantity"`
			Cost     json.Number `json:"cost"`
		} `json:"pools"`
	}
	require.NoError(t, json.Unmarshal(b, &got), string(b))
	assert.Equal(t, "GBP", got.Currency)
	require.Len(t, got.Disposals, 1)
	assert.Equal(t, "10", got.Disposals[0].AllowableCost.String())
	assert.Equal(t, "1", got.Disposals[0].Matched["pool"].String())
	assert.NotContains(t, got.Disposals[0].Parts[0], "lot")
	assert.Equal(t, "20", got.Pools[0].Cost.String())
	assert.Equal(t, "10", got.Net.String())
}

func TestReport_PoolsAt(t *testing.T) {
	report := Compute(context.Background(), []Transaction{
		buy("b1", "2023-01-01", 100, 1),
		sell("s1", "2023-02-01", 30, 2),
		buy("b2", "2023-02-10", 30, 3),
		split("rs", "2023-06-01", ReverseSplit, 3, 1),
		on("Y", buy("y", "2023-03-01", 5, 1)),
	}, Options{})
	require.NoError(t, report.Err())

	tests := []struct {
		on   string
		x, y float64
	}{
		{"2022-12-31", 0, 0},
		{"2023-02-05", 100, 0}, // s1 is matched with b2, not with the pool.
		{"2023-05-31", 100, 5}, // still in pre-consolidation shares.
	}
	for _, tc := range tests {
		t.Run(tc.on, func(t *testing.T) {
			pools := report.PoolsAt(d(tc.on))
			require.Len(t, pools, 2)
			assert.Equal(t, "X", pools[0].Security)
			requireQuantity(t, tc.x, pools[0].Quantity)
			requireMoney(t, tc.x, pools[0].Cost)
			requireQuantity(t, tc.y, pools[1].Quantity)
		})
	}

	after := report.PoolsAt(d("2023-06-01"))[0]
	assert.True(t, Q(100).Div(Q(3)).Equal(after.Quantity), "got %s", after.Quantity)
	requireMoney(t, 100, after.Cost)

	// tax year reports keep the timelines.
	requireQuantity(t, 100, report.ForTaxYear(date.TaxYear(2022)).PoolsAt(d("2023-03-01"))[0].Quantity)
}
