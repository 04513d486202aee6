package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"bidpilot/internal/core/domain"
	"bidpilot/internal/core/port"
)

const (
	statusActive = "ACTIVE"

	// searchPageSize caps one page of the primary campaign search.
	searchPageSize = 500
	// maxSearchPages bounds pagination against an API that keeps handing
	// out continuation tokens.
	maxSearchPages = 20
	// fallbackListLimit is the single-page size of the unfiltered fallback
	// listing.
	fallbackListLimit = 500
	// groupLookupConcurrency caps concurrent parent-group lookups.
	groupLookupConcurrency = 10
)

// activeCampaigns returns the account's campaigns that are ACTIVE and whose
// parent campaign group is ACTIVE. The primary path is a paginated filtered
// search; if the platform rejects or fails it, an unfiltered single-page
// listing with local filtering takes over. Auth failures are fatal on both
// paths.
func (o *Optimizer) activeCampaigns(ctx context.Context, sess domain.Session, accountID string) ([]domain.Campaign, error) {
	candidates, err := o.searchActive(ctx, sess, accountID)
	if err != nil {
		if domain.IsCategory(err, domain.CategoryAuth) {
			return nil, err
		}
		o.logger.Warn("campaign search failed, using unfiltered fallback",
			slog.String("account", accountID), slog.Any("error", err))
		candidates, err = o.fallbackCandidates(ctx, sess, accountID)
		if err != nil {
			return nil, err
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	active := o.filterGroupActive(ctx, sess, accountID, candidates)
	if len(active) == 0 {
		// More likely incomplete parent-group data than a genuinely empty
		// account. Precision is traded for recall here: returning the
		// unfiltered candidates beats hiding every active campaign.
		o.logger.Warn("group filtering removed every candidate, returning unfiltered set",
			slog.String("account", accountID), slog.Int("candidates", len(candidates)))
		return candidates, nil
	}
	return active, nil
}

// searchActive pages through the status-filtered search until the platform
// reports no continuation token, a page comes back empty, or the page cap
// is hit.
func (o *Optimizer) searchActive(ctx context.Context, sess domain.Session, accountID string) ([]domain.Campaign, error) {
	var out []domain.Campaign
	token := ""
	for page := 0; page < maxSearchPages; page++ {
		p, err := o.api.SearchCampaigns(ctx, sess.Credential, accountID, port.CampaignQuery{
			Statuses:  []string{statusActive},
			PageSize:  searchPageSize,
			PageToken: token,
		})
		if err != nil {
			return nil, err
		}
		if len(p.Campaigns) == 0 {
			break
		}
		out = append(out, p.Campaigns...)
		if p.NextPageToken == "" {
			break
		}
		token = p.NextPageToken
	}
	return out, nil
}

// fallbackCandidates lists one unfiltered page and filters to ACTIVE
// locally. Some platform responses omit the status field entirely; when
// nothing is marked active the whole page is treated as the candidate set.
func (o *Optimizer) fallbackCandidates(ctx context.Context, sess domain.Session, accountID string) ([]domain.Campaign, error) {
	all, err := o.api.ListCampaigns(ctx, sess.Credential, accountID, fallbackListLimit)
	if err != nil {
		return nil, err
	}
	var active []domain.Campaign
	for _, c := range all {
		if strings.EqualFold(c.Status, statusActive) {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		return all, nil
	}
	return active, nil
}

// filterGroupActive looks up each candidate's parent-group status with
// bounded concurrency and keeps the candidates whose group is ACTIVE. A
// failed lookup excludes the campaign; it is never erroneously included.
func (o *Optimizer) filterGroupActive(ctx context.Context, sess domain.Session, accountID string, candidates []domain.Campaign) []domain.Campaign {
	var (
		mu     sync.Mutex
		active = make(map[string]bool, len(candidates))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(groupLookupConcurrency)
	for _, cand := range candidates {
		cand := cand
		g.Go(func() error {
			got, err := o.api.GetCampaign(gctx, sess.Credential, accountID, cand.ID, []string{"campaignGroupInfo"})
			if err != nil {
				o.logger.Debug("group status lookup failed",
					slog.String("campaign", cand.ID), slog.Any("error", err))
				return nil
			}
			if strings.EqualFold(got.GroupStatus, statusActive) {
				mu.Lock()
				active[cand.ID] = true
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.Campaign, 0, len(candidates))
	for _, c := range candidates {
		if active[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
