package port

import (
	"context"

	"bidpilot/internal/core/domain"
)

// CooldownLedger persists the last applied bid change per
// (tenant, account, campaign) and answers the 48-hour cooldown question.
// Implementations filter expired entries on reads; Remove is unconditional
// regardless of entry age. The ledger is optional: deployments without a
// durable backend use NopLedger and degrade to "nothing is in cooldown".
type CooldownLedger interface {
	// IsRecent reports whether an unexpired entry exists for the campaign.
	IsRecent(ctx context.Context, tenant, accountID, campaignID string) (bool, error)
	// ListRecent returns the unexpired entries for an account, newest first.
	ListRecent(ctx context.Context, tenant, accountID string) ([]domain.CooldownEntry, error)
	// Record stores an entry, replacing any existing one for the same
	// campaign (delete-then-insert: the new timestamp and previous bid win).
	Record(ctx context.Context, tenant, accountID, campaignID string, previousBid float64) error
	// Remove deletes the entry for a campaign, expired or not.
	Remove(ctx context.Context, tenant, accountID, campaignID string) error
	// DeleteTenant removes every ledger row belonging to the tenant.
	DeleteTenant(ctx context.Context, tenant string) error
}

// NopLedger is the degraded-mode ledger used when no durable backend is
// configured: nothing is ever in cooldown and writes succeed silently.
type NopLedger struct{}

func (NopLedger) IsRecent(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func (NopLedger) ListRecent(context.Context, string, string) ([]domain.CooldownEntry, error) {
	return nil, nil
}

func (NopLedger) Record(context.Context, string, string, string, float64) error { return nil }

func (NopLedger) Remove(context.Context, string, string, string) error { return nil }

func (NopLedger) DeleteTenant(context.Context, string) error { return nil }
