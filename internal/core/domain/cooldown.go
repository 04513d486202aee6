package domain

import "time"

// CooldownWindow is how long a campaign stays excluded from new
// recommendations after its bid was changed.
const CooldownWindow = 48 * time.Hour

// CooldownEntry records the last applied bid change for a campaign. At most
// one live entry exists per (tenant, account, campaign); a repeated apply
// replaces the entry, resetting the clock and the stored previous bid.
type CooldownEntry struct {
	Tenant      string
	AccountID   string
	CampaignID  string
	PreviousBid float64
	AppliedAt   time.Time
}

// Expired reports whether the entry is outside the cooldown window as of now.
// Expired entries are filtered at read time, never actively purged.
func (e CooldownEntry) Expired(now time.Time) bool {
	return now.Sub(e.AppliedAt) > CooldownWindow
}
