package port

import (
	"context"

	"bidpilot/internal/core/domain"
)

var errNoSettingsBackend = domain.E(domain.CategoryStorage, "no settings backend configured")

// SettingsStore persists the per-tenant allow-list of visible accounts.
// "Never set" and "set to an empty list" are different states and both
// survive a round trip: found=false means no filter (show all accounts),
// while an empty slice with found=true means show none.
type SettingsStore interface {
	GetSelectedAccounts(ctx context.Context, tenant string) (ids []string, found bool, err error)
	SetSelectedAccounts(ctx context.Context, tenant string, ids []string) error
	// DeleteTenant removes the tenant's settings row.
	DeleteTenant(ctx context.Context, tenant string) error
}

// NopSettings is the degraded-mode store used when no backend is
// configured: no filter is ever set and writes report a storage failure so
// the caller knows the selection was not persisted.
type NopSettings struct{}

func (NopSettings) GetSelectedAccounts(context.Context, string) ([]string, bool, error) {
	return nil, false, nil
}

func (NopSettings) SetSelectedAccounts(context.Context, string, []string) error {
	return errNoSettingsBackend
}

func (NopSettings) DeleteTenant(context.Context, string) error { return nil }
