// Package redisstore provides Redis-backed implementations of the cooldown
// ledger and settings store, for deployments that prefer a cache-tier
// backend over PostgreSQL. Cooldown entries carry a TTL matching the
// cooldown window, so Redis itself drops expired rows; reads still filter
// by timestamp in case an entry outlives its TTL by a scan race.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"bidpilot/internal/core/domain"
)

// Ledger implements port.CooldownLedger on Redis, one key per
// (tenant, account, campaign) triple.
type Ledger struct {
	rdb *redis.Client
}

// NewLedger returns a ledger backed by the given client.
func NewLedger(rdb *redis.Client) *Ledger {
	return &Ledger{rdb: rdb}
}

type ledgerValue struct {
	AccountID   string    `json:"account_id"`
	CampaignID  string    `json:"campaign_id"`
	PreviousBid float64   `json:"previous_bid"`
	AppliedAt   time.Time `json:"applied_at"`
}

func cooldownKey(tenant, accountID, campaignID string) string {
	return fmt.Sprintf("cooldown:%s:%s:%s", tenant, accountID, campaignID)
}

// IsRecent reports whether an unexpired entry exists for the campaign.
func (l *Ledger) IsRecent(ctx context.Context, tenant, accountID, campaignID string) (bool, error) {
	raw, err := l.rdb.Get(ctx, cooldownKey(tenant, accountID, campaignID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, domain.Wrap(domain.CategoryStorage, err, "read cooldown entry")
	}
	var v ledgerValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, domain.Wrap(domain.CategoryStorage, err, "decode cooldown entry")
	}
	return time.Since(v.AppliedAt) <= domain.CooldownWindow, nil
}

// ListRecent returns the account's unexpired entries, newest first.
func (l *Ledger) ListRecent(ctx context.Context, tenant, accountID string) ([]domain.CooldownEntry, error) {
	pattern := fmt.Sprintf("cooldown:%s:%s:*", tenant, accountID)
	iter := l.rdb.Scan(ctx, 0, pattern, 0).Iterator()

	var entries []domain.CooldownEntry
	for iter.Next(ctx) {
		raw, err := l.rdb.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, domain.Wrap(domain.CategoryStorage, err, "read cooldown entry")
		}
		var v ledgerValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, domain.Wrap(domain.CategoryStorage, err, "decode cooldown entry")
		}
		e := domain.CooldownEntry{
			Tenant:      tenant,
			AccountID:   v.AccountID,
			CampaignID:  v.CampaignID,
			PreviousBid: v.PreviousBid,
			AppliedAt:   v.AppliedAt,
		}
		if e.Expired(time.Now()) {
			continue
		}
		entries = append(entries, e)
	}
	if err := iter.Err(); err != nil {
		return nil, domain.Wrap(domain.CategoryStorage, err, "scan cooldown entries")
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AppliedAt.After(entries[j].AppliedAt)
	})
	return entries, nil
}

// Record overwrites the campaign's entry and resets its TTL to the full
// cooldown window.
func (l *Ledger) Record(ctx context.Context, tenant, accountID, campaignID string, previousBid float64) error {
	raw, err := json.Marshal(ledgerValue{
		AccountID:   accountID,
		CampaignID:  campaignID,
		PreviousBid: previousBid,
		AppliedAt:   time.Now().UTC(),
	})
	if err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "encode cooldown entry")
	}
	if err := l.rdb.Set(ctx, cooldownKey(tenant, accountID, campaignID), raw, domain.CooldownWindow).Err(); err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "write cooldown entry")
	}
	return nil
}

// Remove deletes the entry regardless of remaining TTL.
func (l *Ledger) Remove(ctx context.Context, tenant, accountID, campaignID string) error {
	if err := l.rdb.Del(ctx, cooldownKey(tenant, accountID, campaignID)).Err(); err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "delete cooldown entry")
	}
	return nil
}

// DeleteTenant removes every cooldown key belonging to the tenant.
func (l *Ledger) DeleteTenant(ctx context.Context, tenant string) error {
	iter := l.rdb.Scan(ctx, 0, fmt.Sprintf("cooldown:%s:*", tenant), 0).Iterator()
	for iter.Next(ctx) {
		if err := l.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return domain.Wrap(domain.CategoryStorage, err, "delete cooldown entry")
		}
	}
	if err := iter.Err(); err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "scan cooldown entries")
	}
	return nil
}
