package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"bidpilot/internal/core/domain"
)

// Settings implements port.SettingsStore on Redis. The selection is stored
// as a JSON array under one key per tenant; key absence is "never set",
// which stays distinct from a stored empty array.
type Settings struct {
	rdb *redis.Client
}

// NewSettings returns a settings store backed by the given client.
func NewSettings(rdb *redis.Client) *Settings {
	return &Settings{rdb: rdb}
}

func settingsKey(tenant string) string {
	return fmt.Sprintf("settings:%s:accounts", tenant)
}

// GetSelectedAccounts returns the tenant's allow-list; found is false when
// the key does not exist.
func (s *Settings) GetSelectedAccounts(ctx context.Context, tenant string) ([]string, bool, error) {
	raw, err := s.rdb.Get(ctx, settingsKey(tenant)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, domain.Wrap(domain.CategoryStorage, err, "read account settings")
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false, domain.Wrap(domain.CategoryStorage, err, "decode account settings")
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, true, nil
}

// SetSelectedAccounts overwrites the tenant's allow-list. Settings do not
// expire.
func (s *Settings) SetSelectedAccounts(ctx context.Context, tenant string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "encode account settings")
	}
	if err := s.rdb.Set(ctx, settingsKey(tenant), raw, 0).Err(); err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "write account settings")
	}
	return nil
}

// DeleteTenant removes the tenant's settings key.
func (s *Settings) DeleteTenant(ctx context.Context, tenant string) error {
	if err := s.rdb.Del(ctx, settingsKey(tenant)).Err(); err != nil {
		return domain.Wrap(domain.CategoryStorage, err, "delete account settings")
	}
	return nil
}
