package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bidpilot/internal/core/domain"
	"bidpilot/internal/core/port"
)

func searchReturning(campaigns ...domain.Campaign) func(context.Context, domain.Credential, string, port.CampaignQuery) (port.CampaignPage, error) {
	return func(context.Context, domain.Credential, string, port.CampaignQuery) (port.CampaignPage, error) {
		return port.CampaignPage{Campaigns: campaigns}, nil
	}
}

func TestAnalyzeSpendEndToEnd(t *testing.T) {
	api := &fakeAdsAPI{
		searchCampaigns: searchReturning(domain.Campaign{
			ID: "1", Name: "Brand", Status: "ACTIVE", Currency: "USD",
			DailyBudget: 100, Bid: 2.00,
		}),
		getCampaign: activeGroupLookup,
		campaignCosts: func(_ context.Context, _ domain.Credential, _ string, _ string, _, _ time.Time) ([]domain.DailyCost, error) {
			return []domain.DailyCost{
				{Year: 2026, Month: 8, Day: 22, Cost: 20},
				{Year: 2026, Month: 8, Day: 23, Cost: 25},
				{Year: 2026, Month: 8, Day: 24, Cost: 15},
			}, nil
		},
	}
	o := newTestOptimizer(api, newMemLedger(), newMemSettings())

	rows, err := o.AnalyzeSpend(context.Background(), testSession(), "acc1", 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 20.0, row.DailySpend)
	assert.Equal(t, 20.0, row.SpendPct)
	require.NotNil(t, row.Recommendation)
	assert.Equal(t, domain.ActionIncrease, row.Recommendation.Action)
	assert.Equal(t, 2.10, row.Recommendation.RecommendedBid)
}

func TestAnalyzeSpendNoCampaigns(t *testing.T) {
	o := newTestOptimizer(&fakeAdsAPI{}, newMemLedger(), newMemSettings())
	rows, err := o.AnalyzeSpend(context.Background(), testSession(), "acc1", 5)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAnalyzeSpendMissingAccount(t *testing.T) {
	o := newTestOptimizer(&fakeAdsAPI{}, newMemLedger(), newMemSettings())
	_, err := o.AnalyzeSpend(context.Background(), testSession(), "", 5)
	require.Error(t, err)
	assert.True(t, domain.IsCategory(err, domain.CategoryValidation))
}

func TestApplyBidValidatesNewBid(t *testing.T) {
	o := newTestOptimizer(&fakeAdsAPI{}, newMemLedger(), newMemSettings())
	for _, bid := range []float64{0, -1.5} {
		err := o.ApplyBid(context.Background(), testSession(), "acc1", "1", port.BidChange{NewBid: bid})
		require.Error(t, err)
		assert.True(t, domain.IsCategory(err, domain.CategoryValidation))
	}
}

func TestApplyBidRecordsCooldown(t *testing.T) {
	api := &fakeAdsAPI{
		getCampaign: func(_ context.Context, _ domain.Credential, _ string, campaignID string, _ []string) (*domain.Campaign, error) {
			return &domain.Campaign{ID: campaignID, Currency: "EUR", Bid: 2.00}, nil
		},
	}
	ledger := newMemLedger()
	o := newTestOptimizer(api, ledger, newMemSettings())

	prev := 2.00
	err := o.ApplyBid(context.Background(), testSession(), "acc1", "urn:li:sponsoredCampaign:42",
		port.BidChange{NewBid: 2.10, PreviousBid: &prev})
	require.NoError(t, err)

	// mutation carried the campaign's own currency
	require.Len(t, api.updates, 1)
	assert.Equal(t, "EUR", api.updates[0].Currency)
	assert.Equal(t, 2.10, api.updates[0].Amount)
	assert.Equal(t, "42", api.updates[0].CampaignID)

	recent, err := ledger.IsRecent(context.Background(), "t1", "acc1", "42")
	require.NoError(t, err)
	assert.True(t, recent)
}

func TestApplyBidDefaultCurrency(t *testing.T) {
	api := &fakeAdsAPI{
		getCampaign: func(_ context.Context, _ domain.Credential, _ string, campaignID string, _ []string) (*domain.Campaign, error) {
			return &domain.Campaign{ID: campaignID}, nil // no currency on the campaign
		},
	}
	o := newTestOptimizer(api, newMemLedger(), newMemSettings())

	err := o.ApplyBid(context.Background(), testSession(), "acc1", "1", port.BidChange{NewBid: 1.00})
	require.NoError(t, err)
	require.Len(t, api.updates, 1)
	assert.Equal(t, "USD", api.updates[0].Currency)
}

// Revert removes the ledger entry even seconds after it was inserted.
func TestApplyBidRevertRemovesCooldown(t *testing.T) {
	ledger := newMemLedger()
	o := newTestOptimizer(&fakeAdsAPI{}, ledger, newMemSettings())

	prev := 2.00
	require.NoError(t, o.ApplyBid(context.Background(), testSession(), "acc1", "42",
		port.BidChange{NewBid: 2.10, PreviousBid: &prev}))

	recent, _ := ledger.IsRecent(context.Background(), "t1", "acc1", "42")
	require.True(t, recent)

	require.NoError(t, o.ApplyBid(context.Background(), testSession(), "acc1", "42",
		port.BidChange{NewBid: 2.00, Revert: true}))

	recent, err := ledger.IsRecent(context.Background(), "t1", "acc1", "42")
	require.NoError(t, err)
	assert.False(t, recent)
}

func TestApplyBidWithoutPreviousBidSkipsLedger(t *testing.T) {
	ledger := newMemLedger()
	o := newTestOptimizer(&fakeAdsAPI{}, ledger, newMemSettings())

	require.NoError(t, o.ApplyBid(context.Background(), testSession(), "acc1", "42",
		port.BidChange{NewBid: 2.10}))

	recent, _ := ledger.IsRecent(context.Background(), "t1", "acc1", "42")
	assert.False(t, recent)
}

// A failed mutation leaves the ledger untouched.
func TestApplyBidMutationFailureLeavesLedger(t *testing.T) {
	api := &fakeAdsAPI{updateErr: domain.E(domain.CategoryUpstream, "platform down")}
	ledger := newMemLedger()
	o := newTestOptimizer(api, ledger, newMemSettings())

	prev := 2.00
	err := o.ApplyBid(context.Background(), testSession(), "acc1", "42",
		port.BidChange{NewBid: 2.10, PreviousBid: &prev})
	require.Error(t, err)

	recent, _ := ledger.IsRecent(context.Background(), "t1", "acc1", "42")
	assert.False(t, recent)
}

// Repeated applies keep exactly one ledger row; the second previous bid
// wins.
func TestApplyBidRecordIdempotence(t *testing.T) {
	ledger := newMemLedger()
	o := newTestOptimizer(&fakeAdsAPI{}, ledger, newMemSettings())

	first, second := 2.00, 2.10
	require.NoError(t, o.ApplyBid(context.Background(), testSession(), "acc1", "42",
		port.BidChange{NewBid: 2.10, PreviousBid: &first}))
	require.NoError(t, o.ApplyBid(context.Background(), testSession(), "acc1", "42",
		port.BidChange{NewBid: 2.20, PreviousBid: &second}))

	entries, err := ledger.ListRecent(context.Background(), "t1", "acc1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2.10, entries[0].PreviousBid)
}

func TestListAccountsSelectionFilter(t *testing.T) {
	api := &fakeAdsAPI{
		listAccounts: func(context.Context, domain.Credential) ([]domain.Account, error) {
			return []domain.Account{{ID: "a1"}, {ID: "a2"}, {ID: "a3"}}, nil
		},
	}
	settings := newMemSettings()
	o := newTestOptimizer(api, newMemLedger(), settings)
	sess := testSession()
	ctx := context.Background()

	// never set: no filter, everything is visible
	out, err := o.ListAccounts(ctx, sess, false, nil)
	require.NoError(t, err)
	assert.Len(t, out, 3)

	// subset selected
	require.NoError(t, settings.SetSelectedAccounts(ctx, sess.Tenant, []string{"a1", "a3"}))
	out, err = o.ListAccounts(ctx, sess, false, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a1", out[0].Account.ID)
	assert.Equal(t, "a3", out[1].Account.ID)

	// explicitly empty: show none, distinct from never set
	require.NoError(t, settings.SetSelectedAccounts(ctx, sess.Tenant, []string{}))
	out, err = o.ListAccounts(ctx, sess, false, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestListAccountsSettingsReadDegradesToNoFilter(t *testing.T) {
	api := &fakeAdsAPI{
		listAccounts: func(context.Context, domain.Credential) ([]domain.Account, error) {
			return []domain.Account{{ID: "a1"}}, nil
		},
	}
	settings := newMemSettings()
	settings.err = domain.E(domain.CategoryStorage, "settings backend down")
	o := newTestOptimizer(api, newMemLedger(), settings)

	out, err := o.ListAccounts(context.Background(), testSession(), false, nil)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func optimizableAccountAPI() *fakeAdsAPI {
	return &fakeAdsAPI{
		listAccounts: func(context.Context, domain.Credential) ([]domain.Account, error) {
			return []domain.Account{{ID: "a1"}}, nil
		},
		searchCampaigns: searchReturning(domain.Campaign{
			ID: "1", Status: "ACTIVE", DailyBudget: 100, Bid: 2.00,
		}),
		getCampaign: activeGroupLookup,
		// no cost data → zero spend → increase recommendation
	}
}

func TestListAccountsOptimizationCheck(t *testing.T) {
	o := newTestOptimizer(optimizableAccountAPI(), newMemLedger(), newMemSettings())

	out, err := o.ListAccounts(context.Background(), testSession(), true, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Checked)
	assert.True(t, out[0].HasOptimization)
}

// Campaigns inside the cooldown window are excluded from the existential
// check.
func TestListAccountsOptimizationExcludesCooldown(t *testing.T) {
	ledger := newMemLedger()
	o := newTestOptimizer(optimizableAccountAPI(), ledger, newMemSettings())
	ctx := context.Background()

	require.NoError(t, ledger.Record(ctx, "t1", "a1", "1", 2.00))

	out, err := o.ListAccounts(ctx, testSession(), true, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.False(t, out[0].HasOptimization)
}

// With no ledger backend, a caller-supplied exclusion list stands in.
func TestListAccountsOptimizationCallerExclusion(t *testing.T) {
	o := newTestOptimizer(optimizableAccountAPI(), port.NopLedger{}, port.NopSettings{})

	out, err := o.ListAccounts(context.Background(), testSession(), true, []string{"urn:li:sponsoredCampaign:1"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.False(t, out[0].HasOptimization)
}

// Entries past the 48h window are invisible to reads but still removable.
func TestCooldownExpiry(t *testing.T) {
	ledger := newMemLedger()
	ctx := context.Background()
	ledger.entries[ledgerKey("t1", "a1", "1")] = domain.CooldownEntry{
		Tenant: "t1", AccountID: "a1", CampaignID: "1",
		PreviousBid: 2.00, AppliedAt: time.Now().Add(-49 * time.Hour),
	}
	o := newTestOptimizer(&fakeAdsAPI{}, ledger, newMemSettings())

	entries, err := o.ListRecentlyOptimized(ctx, testSession(), "a1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	recent, err := ledger.IsRecent(ctx, "t1", "a1", "1")
	require.NoError(t, err)
	assert.False(t, recent)

	require.NoError(t, ledger.Remove(ctx, "t1", "a1", "1"))
	assert.Empty(t, ledger.entries)
}

func TestListRecentlyOptimizedDegradesOnStorageFailure(t *testing.T) {
	ledger := newMemLedger()
	ledger.err = domain.E(domain.CategoryStorage, "ledger down")
	o := newTestOptimizer(&fakeAdsAPI{}, ledger, newMemSettings())

	entries, err := o.ListRecentlyOptimized(context.Background(), testSession(), "a1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteTenantDataCascades(t *testing.T) {
	ledger := newMemLedger()
	settings := newMemSettings()
	o := newTestOptimizer(&fakeAdsAPI{}, ledger, settings)
	ctx := context.Background()
	sess := testSession()

	require.NoError(t, settings.SetSelectedAccounts(ctx, sess.Tenant, []string{"a1"}))
	require.NoError(t, ledger.Record(ctx, sess.Tenant, "a1", "1", 2.00))

	require.NoError(t, o.DeleteTenantData(ctx, sess))

	_, found, err := settings.GetSelectedAccounts(ctx, sess.Tenant)
	require.NoError(t, err)
	assert.False(t, found)
	entries, err := ledger.ListRecent(ctx, sess.Tenant, "a1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSetSelectedAccountsSurfacesStorageError(t *testing.T) {
	settings := newMemSettings()
	settings.err = domain.E(domain.CategoryStorage, "down")
	o := newTestOptimizer(&fakeAdsAPI{}, newMemLedger(), settings)

	err := o.SetSelectedAccounts(context.Background(), testSession(), []string{"a1"})
	require.Error(t, err)
	assert.True(t, domain.IsCategory(err, domain.CategoryStorage))
}
