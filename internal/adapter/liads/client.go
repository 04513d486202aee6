// Package liads is the outbound adapter for the external ads platform. It
// implements port.AdsAPI over the platform's Rest.li-style JSON API with
// per-call bearer auth, a hard request timeout and error normalization into
// the domain categories. No call is retried here; retry policy belongs to
// the deployment, not the engine.
package liads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bidpilot/internal/core/domain"
	"bidpilot/internal/core/port"
)

// HTTPDoer executes HTTP requests. *http.Client satisfies it; tests swap in
// a recording double.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the ads platform.
type Client struct {
	baseURL string
	http    HTTPDoer
}

// NewClient builds a client for the given API root. timeout bounds every
// individual call.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetHTTPClient replaces the underlying HTTP client, for tests.
func (c *Client) SetHTTPClient(doer HTTPDoer) { c.http = doer }

// doRequest performs one authenticated call and returns the raw body.
// Status codes are normalized: 401/403 → auth, other 4xx →
// upstream_rejected, 5xx and transport failures → upstream.
func (c *Client) doRequest(ctx context.Context, cred domain.Credential, method, endpoint string, extraHeaders map[string]string, body any) ([]byte, error) {
	if cred == "" {
		return nil, domain.E(domain.CategoryAuth, "no platform credential in session")
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, domain.Wrap(domain.CategoryValidation, err, "marshal request body")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, domain.Wrap(domain.CategoryUpstream, err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+string(cred))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.Wrap(domain.CategoryUpstream, err, "platform request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Wrap(domain.CategoryUpstream, err, "read platform response")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}
	detail := fmt.Sprintf("%s %s: status %d: %s", method, endpoint, resp.StatusCode, truncate(raw, 256))
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.E(domain.CategoryAuth, "%s", detail)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, domain.E(domain.CategoryUpstreamRejected, "%s", detail)
	default:
		return nil, domain.E(domain.CategoryUpstream, "%s", detail)
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// ListAccounts returns all ad accounts visible to the credential.
func (c *Client) ListAccounts(ctx context.Context, cred domain.Credential) ([]domain.Account, error) {
	raw, err := c.doRequest(ctx, cred, http.MethodGet, "/adAccounts?q=search", nil, nil)
	if err != nil {
		return nil, err
	}
	var resp accountListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, domain.Wrap(domain.CategoryUpstream, err, "parse account list")
	}
	accounts := make([]domain.Account, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		accounts = append(accounts, el.toDomain())
	}
	return accounts, nil
}

// SearchCampaigns runs one page of a filtered campaign search.
func (c *Client) SearchCampaigns(ctx context.Context, cred domain.Credential, accountID string, q port.CampaignQuery) (port.CampaignPage, error) {
	params := url.Values{}
	params.Set("q", "search")
	for _, s := range q.Statuses {
		params.Add("status", s)
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.PageToken != "" {
		params.Set("pageToken", q.PageToken)
	}
	endpoint := fmt.Sprintf("/adAccounts/%s/adCampaigns?%s", url.PathEscape(accountID), params.Encode())

	raw, err := c.doRequest(ctx, cred, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return port.CampaignPage{}, err
	}
	var resp campaignListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return port.CampaignPage{}, domain.Wrap(domain.CategoryUpstream, err, "parse campaign search")
	}
	page := port.CampaignPage{NextPageToken: resp.Metadata.NextPageToken}
	for _, el := range resp.Elements {
		page.Campaigns = append(page.Campaigns, el.toDomain())
	}
	return page, nil
}

// ListCampaigns returns one unfiltered page, used when the search query is
// rejected.
func (c *Client) ListCampaigns(ctx context.Context, cred domain.Credential, accountID string, limit int) ([]domain.Campaign, error) {
	endpoint := fmt.Sprintf("/adAccounts/%s/adCampaigns?count=%d", url.PathEscape(accountID), limit)
	raw, err := c.doRequest(ctx, cred, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	var resp campaignListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, domain.Wrap(domain.CategoryUpstream, err, "parse campaign list")
	}
	campaigns := make([]domain.Campaign, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		campaigns = append(campaigns, el.toDomain())
	}
	return campaigns, nil
}

// GetCampaign reads one campaign, optionally projecting specific fields.
func (c *Client) GetCampaign(ctx context.Context, cred domain.Credential, accountID, campaignID string, fields []string) (*domain.Campaign, error) {
	endpoint := fmt.Sprintf("/adAccounts/%s/adCampaigns/%s", url.PathEscape(accountID), url.PathEscape(campaignID))
	if len(fields) > 0 {
		params := url.Values{}
		for _, f := range fields {
			params.Add("fields", f)
		}
		endpoint += "?" + params.Encode()
	}
	raw, err := c.doRequest(ctx, cred, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	var el wireCampaign
	if err := json.Unmarshal(raw, &el); err != nil {
		return nil, domain.Wrap(domain.CategoryUpstream, err, "parse campaign")
	}
	campaign := el.toDomain()
	if campaign.ID == "" {
		// projections may omit the id; the caller asked by id anyway
		campaign.ID = domain.NormalizeID(campaignID)
	}
	return &campaign, nil
}

// CampaignCosts returns the per-day cost rows for one campaign over the
// inclusive [from, to] date range.
func (c *Client) CampaignCosts(ctx context.Context, cred domain.Credential, accountID, campaignID string, from, to time.Time) ([]domain.DailyCost, error) {
	params := url.Values{}
	params.Set("q", "statistics")
	params.Set("pivot", "CAMPAIGN")
	params.Set("timeGranularity", "DAILY")
	params.Set("accounts", accountID)
	params.Set("campaigns", "urn:li:sponsoredCampaign:"+campaignID)
	params.Set("dateRange.start.year", strconv.Itoa(from.Year()))
	params.Set("dateRange.start.month", strconv.Itoa(int(from.Month())))
	params.Set("dateRange.start.day", strconv.Itoa(from.Day()))
	params.Set("dateRange.end.year", strconv.Itoa(to.Year()))
	params.Set("dateRange.end.month", strconv.Itoa(int(to.Month())))
	params.Set("dateRange.end.day", strconv.Itoa(to.Day()))
	params.Set("fields", "costInLocalCurrency,dateRange")

	raw, err := c.doRequest(ctx, cred, http.MethodGet, "/adAnalytics?"+params.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}
	var resp analyticsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, domain.Wrap(domain.CategoryUpstream, err, "parse analytics")
	}
	costs := make([]domain.DailyCost, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		cost, _ := strconv.ParseFloat(el.CostInLocalCurrency, 64)
		costs = append(costs, domain.DailyCost{
			Year:  el.DateRange.Start.Year,
			Month: el.DateRange.Start.Month,
			Day:   el.DateRange.Start.Day,
			Cost:  cost,
		})
	}
	return costs, nil
}

// UpdateCampaignBid partial-updates the campaign's unit bid with a
// currency-tagged amount.
func (c *Client) UpdateCampaignBid(ctx context.Context, cred domain.Credential, accountID, campaignID string, amount float64, currency string) error {
	endpoint := fmt.Sprintf("/adAccounts/%s/adCampaigns/%s", url.PathEscape(accountID), url.PathEscape(campaignID))
	var body bidPatch
	body.Patch.Set.UnitCost = wireMoney{
		Amount:       strconv.FormatFloat(amount, 'f', 2, 64),
		CurrencyCode: currency,
	}
	headers := map[string]string{"X-RestLi-Method": "PARTIAL_UPDATE"}
	_, err := c.doRequest(ctx, cred, http.MethodPost, endpoint, headers, body)
	return err
}
