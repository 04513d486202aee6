package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"bidpilot/internal/core/domain"
)

const (
	// analyticsWindowDays is the trailing window: the last 3 fully
	// completed days, never the current one.
	analyticsWindowDays = 3
	// analyticsBatchSize is how many campaigns are fetched concurrently.
	analyticsBatchSize = 10
)

// trailingWindow returns the inclusive [today-3, today-1] range in UTC.
func trailingWindow(now time.Time) (from, to time.Time) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -analyticsWindowDays), today.AddDate(0, 0, -1)
}

// buildSample aggregates per-day costs into an average-per-day figure. The
// denominator is always the window length: days with no reported cost pull
// the average down instead of being skipped.
func buildSample(campaignID string, costs []domain.DailyCost) domain.AnalyticsSample {
	var total float64
	for _, c := range costs {
		total += c.Cost
	}
	return domain.AnalyticsSample{
		CampaignID: campaignID,
		TotalCost:  total,
		WindowDays: analyticsWindowDays,
		AvgDaily:   total / analyticsWindowDays,
	}
}

// spendSamples fetches trailing-window spend for every campaign, keyed by
// campaign ID. Campaigns are processed in batches of analyticsBatchSize
// with one concurrent call per campaign. Failures never escape: a failed
// fetch leaves that campaign's zero sample in place, so the whole map
// degrades to zeros in the worst case and the caller never sees an error.
func (o *Optimizer) spendSamples(ctx context.Context, sess domain.Session, accountID string, campaigns []domain.Campaign) map[string]domain.AnalyticsSample {
	samples := make(map[string]domain.AnalyticsSample, len(campaigns))
	for _, c := range campaigns {
		samples[c.ID] = domain.AnalyticsSample{CampaignID: c.ID, WindowDays: analyticsWindowDays}
	}

	from, to := trailingWindow(o.now())

	for start := 0; start < len(campaigns); start += analyticsBatchSize {
		end := min(start+analyticsBatchSize, len(campaigns))

		var (
			wg sync.WaitGroup
			mu sync.Mutex
		)
		for _, c := range campaigns[start:end] {
			c := c
			wg.Add(1)
			go func() {
				defer wg.Done()
				costs, err := o.api.CampaignCosts(ctx, sess.Credential, accountID, c.ID, from, to)
				if err != nil {
					o.logger.Debug("analytics fetch failed, using zero sample",
						slog.String("campaign", c.ID), slog.Any("error", err))
					return
				}
				sample := buildSample(c.ID, costs)
				mu.Lock()
				samples[c.ID] = sample
				mu.Unlock()
			}()
		}
		wg.Wait()
	}
	return samples
}
