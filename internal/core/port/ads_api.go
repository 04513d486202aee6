package port

import (
	"context"
	"time"

	"bidpilot/internal/core/domain"
)

// CampaignQuery parameterizes a paginated campaign search.
type CampaignQuery struct {
	// Statuses filters the search server-side; empty means no filter.
	Statuses []string
	// PageSize caps the number of elements per page.
	PageSize int
	// PageToken is the continuation token from the previous page; empty on
	// the first call.
	PageToken string
}

// CampaignPage is one page of search results.
type CampaignPage struct {
	Campaigns []domain.Campaign
	// NextPageToken is empty when the platform reports no further pages.
	NextPageToken string
}

// AdsAPI is the outbound port to the external ads platform. Every call
// carries the caller's credential; implementations must fail with a
// domain.CategoryAuth error before any network I/O when it is empty.
// Campaign IDs in returned values are already normalized.
type AdsAPI interface {
	// ListAccounts returns the ad accounts visible to the credential.
	ListAccounts(ctx context.Context, cred domain.Credential) ([]domain.Account, error)

	// SearchCampaigns runs a filtered, paginated campaign search under an
	// account.
	SearchCampaigns(ctx context.Context, cred domain.Credential, accountID string, q CampaignQuery) (CampaignPage, error)

	// ListCampaigns returns a single unfiltered page of campaigns, used as
	// the fallback when the search query is rejected.
	ListCampaigns(ctx context.Context, cred domain.Credential, accountID string, limit int) ([]domain.Campaign, error)

	// GetCampaign reads one campaign. fields projects the response to the
	// named fields when non-empty (e.g. only the parent-group status).
	GetCampaign(ctx context.Context, cred domain.Credential, accountID, campaignID string, fields []string) (*domain.Campaign, error)

	// CampaignCosts returns per-day cost for a single campaign over the
	// inclusive date range.
	CampaignCosts(ctx context.Context, cred domain.Credential, accountID, campaignID string, from, to time.Time) ([]domain.DailyCost, error)

	// UpdateCampaignBid partial-updates the campaign's unit bid. The
	// platform requires a currency-tagged amount even when the currency is
	// unchanged.
	UpdateCampaignBid(ctx context.Context, cred domain.Credential, accountID, campaignID string, amount float64, currency string) error
}
