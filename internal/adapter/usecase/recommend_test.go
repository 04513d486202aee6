package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bidpilot/internal/core/domain"
)

func TestRecommendIncrease(t *testing.T) {
	// budget=100, trailing spend [20,25,15] → avg 20/day → 20% of budget
	rec := Recommend(100, 2.00, 20, 5)
	require.NotNil(t, rec)
	assert.Equal(t, domain.ActionIncrease, rec.Action)
	assert.Equal(t, 2.00, rec.CurrentBid)
	assert.Equal(t, 2.10, rec.RecommendedBid)
	assert.Equal(t, 5.0, rec.AdjustmentPct)
	assert.Equal(t, 20.0, rec.SpendPct)
	assert.NotEmpty(t, rec.Reason)
}

func TestRecommendDecrease(t *testing.T) {
	// budget=50, trailing spend sums to 180 → avg 60/day → 120%
	rec := Recommend(50, 1.00, 60, 10)
	require.NotNil(t, rec)
	assert.Equal(t, domain.ActionDecrease, rec.Action)
	assert.Equal(t, 0.90, rec.RecommendedBid)
	assert.Equal(t, 120.0, rec.SpendPct)
}

func TestRecommendNone(t *testing.T) {
	cases := []struct {
		name               string
		budget, bid, spend float64
	}{
		{"band lower edge", 100, 1.00, 90},
		{"inside band", 100, 1.00, 95},
		{"band upper edge", 100, 1.00, 100},
		{"zero bid", 100, 0, 20},
		{"negative bid", 100, -1, 20},
		{"zero budget", 0, 1.00, 20},
		{"negative budget", -5, 1.00, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Nil(t, Recommend(tc.budget, tc.bid, tc.spend, 5))
		})
	}
}

func TestRecommendRounding(t *testing.T) {
	// 1.99 * 1.02 = 2.0298 → 2.03
	rec := Recommend(100, 1.99, 10, 2)
	require.NotNil(t, rec)
	assert.Equal(t, 2.03, rec.RecommendedBid)
}

// Percentages outside {2, 5, 10} fall back to 2.
func TestRecommendAdjustmentDefault(t *testing.T) {
	for _, pct := range []float64{0, -3, 3, 7, 50} {
		rec := Recommend(100, 2.00, 10, pct)
		require.NotNil(t, rec)
		assert.Equal(t, 2.0, rec.AdjustmentPct)
		assert.Equal(t, 2.04, rec.RecommendedBid)
	}
}

// The same percentage delta applies in both directions.
func TestRecommendSymmetry(t *testing.T) {
	up := Recommend(100, 2.00, 10, 10)
	down := Recommend(100, 2.00, 110, 10)
	require.NotNil(t, up)
	require.NotNil(t, down)
	assert.Equal(t, 2.20, up.RecommendedBid)
	assert.Equal(t, 1.80, down.RecommendedBid)
}
