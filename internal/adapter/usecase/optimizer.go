// Package usecase implements the bid-optimization engine: campaign
// discovery, trailing-spend aggregation, the recommendation rule, and the
// bid mutation protocol with its cooldown bookkeeping.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"bidpilot/internal/core/domain"
	"bidpilot/internal/core/port"
)

var _ port.Optimizer = (*Optimizer)(nil)

// Optimizer orchestrates the ads platform client, the cooldown ledger and
// the settings store. All campaign data is request-scoped; nothing is
// cached between calls.
type Optimizer struct {
	api      port.AdsAPI
	ledger   port.CooldownLedger
	settings port.SettingsStore
	logger   *slog.Logger

	// defaultCurrency tags bid mutations when the campaign read does not
	// yield a currency code.
	defaultCurrency string

	// now is swappable in tests.
	now func() time.Time
}

// NewOptimizer wires the engine. Pass port.NopLedger / port.NopSettings for
// deployments without a durable backend.
func NewOptimizer(api port.AdsAPI, ledger port.CooldownLedger, settings port.SettingsStore, logger *slog.Logger, defaultCurrency string) *Optimizer {
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	return &Optimizer{
		api:             api,
		ledger:          ledger,
		settings:        settings,
		logger:          logger,
		defaultCurrency: defaultCurrency,
		now:             time.Now,
	}
}

// ListAccounts returns the accounts visible to the session's credential,
// filtered by the tenant's selected-accounts setting. A missing setting
// means no filter; an empty setting hides everything. With withOptimization
// each account is annotated with whether any active campaign has a pending
// recommendation, excluding campaigns in the cooldown window. exclude is a
// caller-supplied exclusion list used on top of (or, with no ledger
// backend, instead of) the ledger.
func (o *Optimizer) ListAccounts(ctx context.Context, sess domain.Session, withOptimization bool, exclude []string) ([]port.AccountSummary, error) {
	accounts, err := o.api.ListAccounts(ctx, sess.Credential)
	if err != nil {
		return nil, err
	}

	ids, found, err := o.settings.GetSelectedAccounts(ctx, sess.Tenant)
	if err != nil {
		// settings read failure degrades to "no filter"
		o.logger.Warn("selected-accounts read failed, showing all accounts",
			slog.String("tenant", sess.Tenant), slog.Any("error", err))
		found = false
	}
	if found {
		selected := make(map[string]bool, len(ids))
		for _, id := range ids {
			selected[domain.NormalizeID(id)] = true
		}
		filtered := accounts[:0]
		for _, a := range accounts {
			if selected[a.ID] {
				filtered = append(filtered, a)
			}
		}
		accounts = filtered
	}

	out := make([]port.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		s := port.AccountSummary{Account: a}
		if withOptimization {
			s.HasOptimization = o.hasOptimization(ctx, sess, a.ID, exclude)
			s.Checked = true
		}
		out = append(out, s)
	}
	return out, nil
}

// hasOptimization answers the existential check for one account: does any
// active campaign outside the cooldown window carry a recommendation. It is
// best-effort; any failure reports false rather than failing the listing.
func (o *Optimizer) hasOptimization(ctx context.Context, sess domain.Session, accountID string, exclude []string) bool {
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[domain.NormalizeID(id)] = true
	}
	if entries, err := o.ledger.ListRecent(ctx, sess.Tenant, accountID); err != nil {
		o.logger.Warn("cooldown read failed, treating nothing as recent",
			slog.String("account", accountID), slog.Any("error", err))
	} else {
		for _, e := range entries {
			excluded[e.CampaignID] = true
		}
	}

	analyses, err := o.AnalyzeSpend(ctx, sess, accountID, defaultAdjustmentPct)
	if err != nil {
		o.logger.Warn("optimization check failed",
			slog.String("account", accountID), slog.Any("error", err))
		return false
	}
	for _, a := range analyses {
		if a.Recommendation != nil && !excluded[a.ID] {
			return true
		}
	}
	return false
}

// ListCampaigns returns the account's campaigns that are active and whose
// parent group is active.
func (o *Optimizer) ListCampaigns(ctx context.Context, sess domain.Session, accountID string) ([]domain.Campaign, error) {
	if accountID == "" {
		return nil, domain.E(domain.CategoryValidation, "missing account id")
	}
	return o.activeCampaigns(ctx, sess, accountID)
}

// GetCampaign reads one campaign without projection.
func (o *Optimizer) GetCampaign(ctx context.Context, sess domain.Session, accountID, campaignID string) (*domain.Campaign, error) {
	if accountID == "" || campaignID == "" {
		return nil, domain.E(domain.CategoryValidation, "missing account or campaign id")
	}
	return o.api.GetCampaign(ctx, sess.Credential, accountID, domain.NormalizeID(campaignID), nil)
}

// CampaignAnalytics returns the trailing-window spend for one campaign.
// Unlike batch aggregation this is the sole call of the operation, so
// failures propagate.
func (o *Optimizer) CampaignAnalytics(ctx context.Context, sess domain.Session, accountID, campaignID string) (*domain.AnalyticsSample, error) {
	if accountID == "" || campaignID == "" {
		return nil, domain.E(domain.CategoryValidation, "missing account or campaign id")
	}
	campaignID = domain.NormalizeID(campaignID)
	from, to := trailingWindow(o.now())
	costs, err := o.api.CampaignCosts(ctx, sess.Credential, accountID, campaignID, from, to)
	if err != nil {
		return nil, err
	}
	sample := buildSample(campaignID, costs)
	return &sample, nil
}

// AnalyzeSpend composes discovery, the spend aggregator and the
// recommendation rule over one account.
func (o *Optimizer) AnalyzeSpend(ctx context.Context, sess domain.Session, accountID string, adjustPct float64) ([]port.CampaignAnalysis, error) {
	if accountID == "" {
		return nil, domain.E(domain.CategoryValidation, "missing account id")
	}
	campaigns, err := o.activeCampaigns(ctx, sess, accountID)
	if err != nil {
		return nil, err
	}
	if len(campaigns) == 0 {
		return []port.CampaignAnalysis{}, nil
	}

	samples := o.spendSamples(ctx, sess, accountID, campaigns)

	out := make([]port.CampaignAnalysis, 0, len(campaigns))
	for _, c := range campaigns {
		sample := samples[c.ID]
		rec := Recommend(c.DailyBudget, c.Bid, sample.AvgDaily, adjustPct)
		row := port.CampaignAnalysis{
			ID:             c.ID,
			Name:           c.Name,
			Status:         c.Status,
			Currency:       c.Currency,
			DailyBudget:    c.DailyBudget,
			DailySpend:     sample.AvgDaily,
			CurrentBid:     c.Bid,
			Recommendation: rec,
		}
		if rec != nil {
			row.SpendPct = rec.SpendPct
		} else if c.DailyBudget > 0 {
			row.SpendPct = round2(sample.AvgDaily / c.DailyBudget * 100)
		}
		out = append(out, row)
	}
	return out, nil
}

// ApplyBid mutates a campaign's bid and updates the cooldown ledger. The
// currency is read from the campaign first because the platform's partial
// update requires a currency-tagged amount even when unchanged. The
// mutation and the ledger update are two independent calls; a failure
// between them leaves the bid changed but unrecorded, which at worst causes
// one premature recommendation.
func (o *Optimizer) ApplyBid(ctx context.Context, sess domain.Session, accountID, campaignID string, change port.BidChange) error {
	if accountID == "" || campaignID == "" {
		return domain.E(domain.CategoryValidation, "missing account or campaign id")
	}
	if change.NewBid <= 0 {
		return domain.E(domain.CategoryValidation, "new bid must be positive, got %v", change.NewBid)
	}
	campaignID = domain.NormalizeID(campaignID)

	currency := o.defaultCurrency
	camp, err := o.api.GetCampaign(ctx, sess.Credential, accountID, campaignID, []string{"unitCost", "dailyBudget"})
	switch {
	case err == nil && camp.Currency != "":
		currency = camp.Currency
	case err != nil && domain.IsCategory(err, domain.CategoryAuth):
		return err
	case err != nil:
		o.logger.Warn("currency read failed, using default",
			slog.String("campaign", campaignID), slog.Any("error", err))
	}

	if err := o.api.UpdateCampaignBid(ctx, sess.Credential, accountID, campaignID, change.NewBid, currency); err != nil {
		// ledger untouched on mutation failure
		return err
	}

	if change.Revert {
		if err := o.ledger.Remove(ctx, sess.Tenant, accountID, campaignID); err != nil {
			return domain.Wrap(domain.CategoryStorage, err, "remove cooldown entry")
		}
		return nil
	}
	if change.PreviousBid != nil {
		if err := o.ledger.Record(ctx, sess.Tenant, accountID, campaignID, *change.PreviousBid); err != nil {
			return domain.Wrap(domain.CategoryStorage, err, "record cooldown entry")
		}
	}
	return nil
}

// ListRecentlyOptimized returns the account's unexpired cooldown entries,
// newest first. A ledger read failure degrades to an empty list.
func (o *Optimizer) ListRecentlyOptimized(ctx context.Context, sess domain.Session, accountID string) ([]domain.CooldownEntry, error) {
	if accountID == "" {
		return nil, domain.E(domain.CategoryValidation, "missing account id")
	}
	entries, err := o.ledger.ListRecent(ctx, sess.Tenant, accountID)
	if err != nil {
		o.logger.Warn("cooldown read failed, returning empty list",
			slog.String("account", accountID), slog.Any("error", err))
		return []domain.CooldownEntry{}, nil
	}
	return entries, nil
}

// SelectedAccounts returns the tenant's account allow-list.
func (o *Optimizer) SelectedAccounts(ctx context.Context, sess domain.Session) ([]string, bool, error) {
	return o.settings.GetSelectedAccounts(ctx, sess.Tenant)
}

// SetSelectedAccounts overwrites the tenant's account allow-list. An empty
// (non-nil) list is a valid state meaning "show no accounts".
func (o *Optimizer) SetSelectedAccounts(ctx context.Context, sess domain.Session, ids []string) error {
	if err := o.settings.SetSelectedAccounts(ctx, sess.Tenant, ids); err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "persist selected accounts")
	}
	return nil
}

// DeleteTenantData cascades across the tenant's settings and cooldown rows.
func (o *Optimizer) DeleteTenantData(ctx context.Context, sess domain.Session) error {
	if err := o.settings.DeleteTenant(ctx, sess.Tenant); err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "delete tenant settings")
	}
	if err := o.ledger.DeleteTenant(ctx, sess.Tenant); err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "delete tenant cooldown entries")
	}
	return nil
}
