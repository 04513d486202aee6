package liads

import (
	"encoding/json"
	"strconv"

	"bidpilot/internal/core/domain"
)

// Wire types for the ads platform's Rest.li-style JSON. Identifiers arrive
// either as bare numbers or URN strings depending on the endpoint, and
// monetary amounts are decimal strings tagged with a currency code.

// flexID tolerates the platform's two identifier shapes: a JSON number
// ("id": 123) or a URN string ("id": "urn:li:sponsoredCampaign:123").
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type wireMoney struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

func (m wireMoney) value() float64 {
	v, err := strconv.ParseFloat(m.Amount, 64)
	if err != nil {
		return 0
	}
	return v
}

type wireAccount struct {
	ID     flexID `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (a wireAccount) toDomain() domain.Account {
	return domain.Account{
		ID:     domain.NormalizeID(string(a.ID)),
		Name:   a.Name,
		Status: a.Status,
	}
}

type wireCampaignGroupInfo struct {
	Status string `json:"status"`
}

type wireCampaign struct {
	ID          flexID                 `json:"id"`
	Name        string                 `json:"name"`
	Status      string                 `json:"status"`
	DailyBudget *wireMoney             `json:"dailyBudget"`
	UnitCost    *wireMoney             `json:"unitCost"`
	GroupInfo   *wireCampaignGroupInfo `json:"campaignGroupInfo"`
}

func (c wireCampaign) toDomain() domain.Campaign {
	out := domain.Campaign{
		ID:     domain.NormalizeID(string(c.ID)),
		Name:   c.Name,
		Status: c.Status,
	}
	if c.DailyBudget != nil {
		out.DailyBudget = c.DailyBudget.value()
		out.Currency = c.DailyBudget.CurrencyCode
	}
	if c.UnitCost != nil {
		out.Bid = c.UnitCost.value()
		if out.Currency == "" {
			out.Currency = c.UnitCost.CurrencyCode
		}
	}
	if c.GroupInfo != nil {
		out.GroupStatus = c.GroupInfo.Status
	}
	return out
}

type wirePaging struct {
	NextPageToken string `json:"nextPageToken"`
}

type campaignListResponse struct {
	Elements []wireCampaign `json:"elements"`
	Metadata wirePaging     `json:"metadata"`
}

type accountListResponse struct {
	Elements []wireAccount `json:"elements"`
}

type wireDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type wireDateRange struct {
	Start wireDate `json:"start"`
	End   wireDate `json:"end"`
}

type analyticsElement struct {
	CostInLocalCurrency string        `json:"costInLocalCurrency"`
	DateRange           wireDateRange `json:"dateRange"`
}

type analyticsResponse struct {
	Elements []analyticsElement `json:"elements"`
}

// bidPatch is the partial-update body for a bid change. The platform
// requires the currency code even when it is unchanged.
type bidPatch struct {
	Patch struct {
		Set struct {
			UnitCost wireMoney `json:"unitCost"`
		} `json:"$set"`
	} `json:"patch"`
}
