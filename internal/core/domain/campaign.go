package domain

// Campaign is a request-scoped copy of a campaign owned by the external ads
// platform. Monetary amounts are in major currency units (e.g. 2.50 USD).
// GroupStatus is only populated when the campaign was fetched with the
// parent-group field projected.
type Campaign struct {
	ID          string
	Name        string
	Status      string
	Currency    string
	DailyBudget float64
	Bid         float64 // current per-unit bid
	GroupStatus string  // parent campaign group status, may be empty
}

// Account is an advertising account on the external platform.
type Account struct {
	ID     string
	Name   string
	Status string
}

// DailyCost is one day of reported spend for a single campaign.
type DailyCost struct {
	Year  int
	Month int
	Day   int
	Cost  float64
}

// AnalyticsSample is the aggregated trailing-window spend for a campaign.
// It is derived per request and never persisted. AvgDaily divides TotalCost
// by WindowDays, so days with zero reported cost count toward the average.
type AnalyticsSample struct {
	CampaignID string
	TotalCost  float64
	WindowDays int
	AvgDaily   float64
}
