package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bidpilot/internal/core/domain"
)

func TestSpendSamplesAveragesOverWindow(t *testing.T) {
	api := &fakeAdsAPI{
		campaignCosts: func(_ context.Context, _ domain.Credential, _ string, campaignID string, _, _ time.Time) ([]domain.DailyCost, error) {
			return []domain.DailyCost{
				{Year: 2026, Month: 8, Day: 22, Cost: 20},
				{Year: 2026, Month: 8, Day: 23, Cost: 25},
				{Year: 2026, Month: 8, Day: 24, Cost: 15},
			}, nil
		},
	}
	o := newTestOptimizer(api, newMemLedger(), newMemSettings())

	samples := o.spendSamples(context.Background(), testSession(), "acc1",
		[]domain.Campaign{{ID: "1"}})

	s := samples["1"]
	assert.Equal(t, 60.0, s.TotalCost)
	assert.Equal(t, 3, s.WindowDays)
	assert.Equal(t, 20.0, s.AvgDaily)
}

// Days with zero reported cost count toward the denominator: two reported
// days summing 30 still average over the 3-day window.
func TestSpendSamplesZeroDaysInDenominator(t *testing.T) {
	api := &fakeAdsAPI{
		campaignCosts: func(_ context.Context, _ domain.Credential, _ string, _ string, _, _ time.Time) ([]domain.DailyCost, error) {
			return []domain.DailyCost{
				{Year: 2026, Month: 8, Day: 22, Cost: 10},
				{Year: 2026, Month: 8, Day: 23, Cost: 20},
			}, nil
		},
	}
	o := newTestOptimizer(api, newMemLedger(), newMemSettings())

	samples := o.spendSamples(context.Background(), testSession(), "acc1",
		[]domain.Campaign{{ID: "1"}})
	assert.Equal(t, 10.0, samples["1"].AvgDaily)
}

// A failed fetch yields a zero sample for that campaign without failing
// the batch.
func TestSpendSamplesFailureDegradesToZero(t *testing.T) {
	api := &fakeAdsAPI{
		campaignCosts: func(_ context.Context, _ domain.Credential, _ string, campaignID string, _, _ time.Time) ([]domain.DailyCost, error) {
			if campaignID == "2" {
				return nil, domain.E(domain.CategoryUpstream, "analytics timeout")
			}
			return []domain.DailyCost{{Year: 2026, Month: 8, Day: 22, Cost: 30}}, nil
		},
	}
	o := newTestOptimizer(api, newMemLedger(), newMemSettings())

	samples := o.spendSamples(context.Background(), testSession(), "acc1",
		[]domain.Campaign{{ID: "1"}, {ID: "2"}})

	assert.Equal(t, 10.0, samples["1"].AvgDaily)
	assert.Equal(t, 0.0, samples["2"].AvgDaily)
	assert.Equal(t, 3, samples["2"].WindowDays)
}

func TestSpendSamplesTotalFailureDegradesToZeros(t *testing.T) {
	api := &fakeAdsAPI{
		campaignCosts: func(_ context.Context, _ domain.Credential, _ string, _ string, _, _ time.Time) ([]domain.DailyCost, error) {
			return nil, domain.E(domain.CategoryUpstream, "everything is down")
		},
	}
	o := newTestOptimizer(api, newMemLedger(), newMemSettings())

	campaigns := []domain.Campaign{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	samples := o.spendSamples(context.Background(), testSession(), "acc1", campaigns)

	require.Len(t, samples, 3)
	for _, c := range campaigns {
		assert.Equal(t, 0.0, samples[c.ID].AvgDaily)
	}
}

// The aggregator never runs more than one batch worth of concurrent calls.
func TestSpendSamplesBatchBound(t *testing.T) {
	var (
		mu       sync.Mutex
		inflight int
		peak     int
	)
	api := &fakeAdsAPI{
		campaignCosts: func(_ context.Context, _ domain.Credential, _ string, _ string, _, _ time.Time) ([]domain.DailyCost, error) {
			mu.Lock()
			inflight++
			if inflight > peak {
				peak = inflight
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			inflight--
			mu.Unlock()
			return nil, nil
		},
	}
	o := newTestOptimizer(api, newMemLedger(), newMemSettings())

	campaigns := make([]domain.Campaign, 25)
	for i := range campaigns {
		campaigns[i] = domain.Campaign{ID: string(rune('a' + i))}
	}
	o.spendSamples(context.Background(), testSession(), "acc1", campaigns)

	assert.LessOrEqual(t, peak, analyticsBatchSize)
}
