package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bidpilot/internal/core/domain"
)

// LedgerRepository implements port.CooldownLedger on PostgreSQL. Expiry is
// filtered at read time with a cutoff; rows are never purged by a job.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository returns a ledger backed by the given pool.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// IsRecent reports whether an unexpired entry exists for the campaign.
func (r *LedgerRepository) IsRecent(ctx context.Context, tenant, accountID, campaignID string) (bool, error) {
	cutoff := time.Now().Add(-domain.CooldownWindow)
	var recent bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (
            SELECT 1 FROM cooldown_entries
            WHERE tenant_id = $1 AND account_id = $2 AND campaign_id = $3 AND applied_at > $4)`,
		tenant, accountID, campaignID, cutoff).Scan(&recent)
	if err != nil {
		return false, domain.Wrap(domain.CategoryStorage, err, "query cooldown entry")
	}
	return recent, nil
}

// ListRecent returns the account's unexpired entries, newest first.
func (r *LedgerRepository) ListRecent(ctx context.Context, tenant, accountID string) ([]domain.CooldownEntry, error) {
	cutoff := time.Now().Add(-domain.CooldownWindow)
	rows, err := r.pool.Query(ctx, `SELECT tenant_id, account_id, campaign_id, previous_bid, applied_at
        FROM cooldown_entries
        WHERE tenant_id = $1 AND account_id = $2 AND applied_at > $3
        ORDER BY applied_at DESC`,
		tenant, accountID, cutoff)
	if err != nil {
		return nil, domain.Wrap(domain.CategoryStorage, err, "query cooldown entries")
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CooldownEntry, error) {
		var e domain.CooldownEntry
		err := row.Scan(&e.Tenant, &e.AccountID, &e.CampaignID, &e.PreviousBid, &e.AppliedAt)
		return e, err
	})
	if err != nil {
		return nil, domain.Wrap(domain.CategoryStorage, err, "scan cooldown entries")
	}
	return entries, nil
}

// Record replaces any existing entry for the campaign with a fresh one.
// Delete and insert are deliberately separate statements; the last-writer-
// wins race between concurrent applies is accepted.
func (r *LedgerRepository) Record(ctx context.Context, tenant, accountID, campaignID string, previousBid float64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cooldown_entries
        WHERE tenant_id = $1 AND account_id = $2 AND campaign_id = $3`,
		tenant, accountID, campaignID)
	if err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "delete cooldown entry")
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO cooldown_entries (tenant_id, account_id, campaign_id, previous_bid, applied_at)
        VALUES ($1, $2, $3, $4, now())
        ON CONFLICT (tenant_id, account_id, campaign_id)
        DO UPDATE SET previous_bid = EXCLUDED.previous_bid, applied_at = EXCLUDED.applied_at`,
		tenant, accountID, campaignID, previousBid)
	if err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "insert cooldown entry")
	}
	return nil
}

// Remove deletes the entry regardless of age.
func (r *LedgerRepository) Remove(ctx context.Context, tenant, accountID, campaignID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cooldown_entries
        WHERE tenant_id = $1 AND account_id = $2 AND campaign_id = $3`,
		tenant, accountID, campaignID)
	if err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "delete cooldown entry")
	}
	return nil
}

// DeleteTenant removes every ledger row belonging to the tenant.
func (r *LedgerRepository) DeleteTenant(ctx context.Context, tenant string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cooldown_entries WHERE tenant_id = $1`, tenant)
	if err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "delete tenant cooldown entries")
	}
	return nil
}
