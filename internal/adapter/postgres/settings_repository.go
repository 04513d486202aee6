package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bidpilot/internal/core/domain"
)

// SettingsRepository implements port.SettingsStore on PostgreSQL. A missing
// row means the tenant never set a filter, which is a different state from
// a row holding an empty array.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository returns a settings store backed by the given pool.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// GetSelectedAccounts returns the tenant's allow-list. found is false when
// no row exists.
func (r *SettingsRepository) GetSelectedAccounts(ctx context.Context, tenant string) ([]string, bool, error) {
	var ids []string
	err := r.pool.QueryRow(ctx,
		`SELECT selected_account_ids FROM account_settings WHERE tenant_id = $1`, tenant).Scan(&ids)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, domain.Wrap(domain.CategoryStorage, err, "query account settings")
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, true, nil
}

// SetSelectedAccounts upserts the tenant's allow-list. A nil slice is
// stored as an empty array so "set to nothing" survives the round trip.
func (r *SettingsRepository) SetSelectedAccounts(ctx context.Context, tenant string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO account_settings (tenant_id, selected_account_ids, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (tenant_id)
        DO UPDATE SET selected_account_ids = EXCLUDED.selected_account_ids, updated_at = now()`,
		tenant, ids)
	if err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "upsert account settings")
	}
	return nil
}

// DeleteTenant removes the tenant's settings row.
func (r *SettingsRepository) DeleteTenant(ctx context.Context, tenant string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM account_settings WHERE tenant_id = $1`, tenant)
	if err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "delete tenant settings")
	}
	return nil
}
