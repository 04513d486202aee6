package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"bidpilot/internal/core/domain"
	"bidpilot/internal/core/port"
)

// fakeAdsAPI implements port.AdsAPI with overridable function fields. Calls
// to unset fields return zero values.
type fakeAdsAPI struct {
	listAccounts    func(ctx context.Context, cred domain.Credential) ([]domain.Account, error)
	searchCampaigns func(ctx context.Context, cred domain.Credential, accountID string, q port.CampaignQuery) (port.CampaignPage, error)
	listCampaigns   func(ctx context.Context, cred domain.Credential, accountID string, limit int) ([]domain.Campaign, error)
	getCampaign     func(ctx context.Context, cred domain.Credential, accountID, campaignID string, fields []string) (*domain.Campaign, error)
	campaignCosts   func(ctx context.Context, cred domain.Credential, accountID, campaignID string, from, to time.Time) ([]domain.DailyCost, error)

	mu      sync.Mutex
	updates []bidUpdate
	// updateErr, when set, makes every UpdateCampaignBid call fail.
	updateErr error
}

type bidUpdate struct {
	AccountID  string
	CampaignID string
	Amount     float64
	Currency   string
}

func (f *fakeAdsAPI) ListAccounts(ctx context.Context, cred domain.Credential) ([]domain.Account, error) {
	if f.listAccounts == nil {
		return nil, nil
	}
	return f.listAccounts(ctx, cred)
}

func (f *fakeAdsAPI) SearchCampaigns(ctx context.Context, cred domain.Credential, accountID string, q port.CampaignQuery) (port.CampaignPage, error) {
	if f.searchCampaigns == nil {
		return port.CampaignPage{}, nil
	}
	return f.searchCampaigns(ctx, cred, accountID, q)
}

func (f *fakeAdsAPI) ListCampaigns(ctx context.Context, cred domain.Credential, accountID string, limit int) ([]domain.Campaign, error) {
	if f.listCampaigns == nil {
		return nil, nil
	}
	return f.listCampaigns(ctx, cred, accountID, limit)
}

func (f *fakeAdsAPI) GetCampaign(ctx context.Context, cred domain.Credential, accountID, campaignID string, fields []string) (*domain.Campaign, error) {
	if f.getCampaign == nil {
		return &domain.Campaign{ID: campaignID}, nil
	}
	return f.getCampaign(ctx, cred, accountID, campaignID, fields)
}

func (f *fakeAdsAPI) CampaignCosts(ctx context.Context, cred domain.Credential, accountID, campaignID string, from, to time.Time) ([]domain.DailyCost, error) {
	if f.campaignCosts == nil {
		return nil, nil
	}
	return f.campaignCosts(ctx, cred, accountID, campaignID, from, to)
}

func (f *fakeAdsAPI) UpdateCampaignBid(ctx context.Context, cred domain.Credential, accountID, campaignID string, amount float64, currency string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, bidUpdate{accountID, campaignID, amount, currency})
	return nil
}

// memLedger is an in-memory port.CooldownLedger honoring the 48h window.
type memLedger struct {
	mu      sync.Mutex
	entries map[string]domain.CooldownEntry
	// err, when set, fails every call with a storage error.
	err error
}

func newMemLedger() *memLedger {
	return &memLedger{entries: make(map[string]domain.CooldownEntry)}
}

func ledgerKey(tenant, accountID, campaignID string) string {
	return tenant + "|" + accountID + "|" + campaignID
}

func (l *memLedger) IsRecent(_ context.Context, tenant, accountID, campaignID string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[ledgerKey(tenant, accountID, campaignID)]
	return ok && !e.Expired(time.Now()), nil
}

func (l *memLedger) ListRecent(_ context.Context, tenant, accountID string) ([]domain.CooldownEntry, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.CooldownEntry
	for _, e := range l.entries {
		if e.Tenant == tenant && e.AccountID == accountID && !e.Expired(time.Now()) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (l *memLedger) Record(_ context.Context, tenant, accountID, campaignID string, previousBid float64) error {
	if l.err != nil {
		return l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[ledgerKey(tenant, accountID, campaignID)] = domain.CooldownEntry{
		Tenant:      tenant,
		AccountID:   accountID,
		CampaignID:  campaignID,
		PreviousBid: previousBid,
		AppliedAt:   time.Now(),
	}
	return nil
}

func (l *memLedger) Remove(_ context.Context, tenant, accountID, campaignID string) error {
	if l.err != nil {
		return l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, ledgerKey(tenant, accountID, campaignID))
	return nil
}

func (l *memLedger) DeleteTenant(_ context.Context, tenant string) error {
	if l.err != nil {
		return l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, e := range l.entries {
		if e.Tenant == tenant {
			delete(l.entries, k)
		}
	}
	return nil
}

// memSettings is an in-memory port.SettingsStore preserving the
// absent-vs-empty distinction.
type memSettings struct {
	mu       sync.Mutex
	selected map[string][]string
	err      error
}

func newMemSettings() *memSettings {
	return &memSettings{selected: make(map[string][]string)}
}

func (s *memSettings) GetSelectedAccounts(_ context.Context, tenant string) ([]string, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, ok := s.selected[tenant]
	return ids, ok, nil
}

func (s *memSettings) SetSelectedAccounts(_ context.Context, tenant string, ids []string) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ids == nil {
		ids = []string{}
	}
	s.selected[tenant] = ids
	return nil
}

func (s *memSettings) DeleteTenant(_ context.Context, tenant string) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, tenant)
	return nil
}

func testSession() domain.Session {
	return domain.Session{Tenant: "t1", Credential: "tok"}
}

func newTestOptimizer(api port.AdsAPI, ledger port.CooldownLedger, settings port.SettingsStore) *Optimizer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOptimizer(api, ledger, settings, logger, "USD")
}
