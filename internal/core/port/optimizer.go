package port

import (
	"context"

	"bidpilot/internal/core/domain"
)

// AccountSummary is an ad account as shown to the caller. HasOptimization
// is only populated when the caller asked for the (expensive) existential
// check; Checked distinguishes "false" from "not computed".
type AccountSummary struct {
	Account         domain.Account
	HasOptimization bool
	Checked         bool
}

// CampaignAnalysis is one row of an account spend analysis.
type CampaignAnalysis struct {
	ID             string
	Name           string
	Status         string
	Currency       string
	DailyBudget    float64
	DailySpend     float64
	SpendPct       float64
	CurrentBid     float64
	Recommendation *domain.Recommendation // nil when the bid should stay
}

// BidChange is the caller's request to mutate a campaign bid.
type BidChange struct {
	NewBid float64
	// PreviousBid, when set, is recorded in the cooldown ledger so the
	// change can be reverted and the campaign excluded for 48 hours.
	PreviousBid *float64
	// Revert un-records the campaign instead of recording it.
	Revert bool
}

// Optimizer is the primary port into the bid-optimization engine. Every
// method is scoped by the caller's session (tenant + platform credential)
// and recomputes from the platform on each call; nothing is cached across
// requests.
type Optimizer interface {
	// ListAccounts returns the accounts visible to the tenant, filtered by
	// the tenant's selected-accounts setting. With withOptimization, each
	// account is annotated with whether any active campaign currently has a
	// recommendation, excluding campaigns inside the cooldown window.
	// exclude is an extra caller-supplied exclusion list, the degraded
	// substitute for the ledger when no durable backend is configured.
	ListAccounts(ctx context.Context, sess domain.Session, withOptimization bool, exclude []string) ([]AccountSummary, error)

	// ListCampaigns returns the active campaigns of an account whose parent
	// group is also active.
	ListCampaigns(ctx context.Context, sess domain.Session, accountID string) ([]domain.Campaign, error)

	// GetCampaign reads a single campaign.
	GetCampaign(ctx context.Context, sess domain.Session, accountID, campaignID string) (*domain.Campaign, error)

	// CampaignAnalytics returns the trailing-window spend for one campaign.
	CampaignAnalytics(ctx context.Context, sess domain.Session, accountID, campaignID string) (*domain.AnalyticsSample, error)

	// AnalyzeSpend runs discovery, spend aggregation and the recommendation
	// rule over an account. adjustPct outside {2,5,10} is treated as 2.
	AnalyzeSpend(ctx context.Context, sess domain.Session, accountID string, adjustPct float64) ([]CampaignAnalysis, error)

	// ApplyBid mutates a campaign bid and updates the cooldown ledger.
	ApplyBid(ctx context.Context, sess domain.Session, accountID, campaignID string, change BidChange) error

	// ListRecentlyOptimized returns the account's unexpired cooldown
	// entries, newest first.
	ListRecentlyOptimized(ctx context.Context, sess domain.Session, accountID string) ([]domain.CooldownEntry, error)

	// SelectedAccounts returns the tenant's account allow-list; found is
	// false when the tenant never set one (no filter).
	SelectedAccounts(ctx context.Context, sess domain.Session) (ids []string, found bool, err error)

	// SetSelectedAccounts overwrites the tenant's account allow-list.
	SetSelectedAccounts(ctx context.Context, sess domain.Session, ids []string) error

	// DeleteTenantData cascades across the tenant's settings and cooldown
	// ledger rows.
	DeleteTenantData(ctx context.Context, sess domain.Session) error
}
