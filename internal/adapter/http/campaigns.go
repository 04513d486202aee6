package httpadapter

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bidpilot/internal/core/domain"
	"bidpilot/internal/core/port"
)

type campaignJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Currency    string  `json:"currency"`
	DailyBudget float64 `json:"daily_budget"`
	CurrentBid  float64 `json:"current_bid"`
}

func toCampaignJSON(c domain.Campaign) campaignJSON {
	return campaignJSON{
		ID:          c.ID,
		Name:        c.Name,
		Status:      c.Status,
		Currency:    c.Currency,
		DailyBudget: c.DailyBudget,
		CurrentBid:  c.Bid,
	}
}

// handleListCampaigns returns the account's active campaigns whose parent
// group is also active.
func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	campaigns, err := h.svc.ListCampaigns(r.Context(), sessionFrom(r.Context()), accountID)
	if err != nil {
		h.logger.Error("list campaigns", slog.String("account", accountID), slog.Any("error", err))
		writeError(w, err)
		return
	}
	out := make([]campaignJSON, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, toCampaignJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetCampaign returns one campaign.
func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	campaignID := chi.URLParam(r, "campaignID")
	campaign, err := h.svc.GetCampaign(r.Context(), sessionFrom(r.Context()), accountID, campaignID)
	if err != nil {
		h.logger.Error("get campaign", slog.String("campaign", campaignID), slog.Any("error", err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignJSON(*campaign))
}

type analyticsJSON struct {
	CampaignID string  `json:"campaign_id"`
	Cost       float64 `json:"cost"`
	WindowDays int     `json:"window_days"`
	AvgDaily   float64 `json:"avg_daily"`
}

// handleCampaignAnalytics returns the trailing-window spend for one
// campaign.
func (h *Handler) handleCampaignAnalytics(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	campaignID := chi.URLParam(r, "campaignID")
	sample, err := h.svc.CampaignAnalytics(r.Context(), sessionFrom(r.Context()), accountID, campaignID)
	if err != nil {
		h.logger.Error("campaign analytics", slog.String("campaign", campaignID), slog.Any("error", err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analyticsJSON{
		CampaignID: sample.CampaignID,
		Cost:       sample.TotalCost,
		WindowDays: sample.WindowDays,
		AvgDaily:   sample.AvgDaily,
	})
}

type recommendationJSON struct {
	Action         string  `json:"action"`
	CurrentBid     float64 `json:"current_bid"`
	RecommendedBid float64 `json:"recommended_bid"`
	AdjustmentPct  float64 `json:"adjustment_percentage"`
	SpendPct       float64 `json:"spend_percentage"`
	Reason         string  `json:"reason"`
}

type analysisJSON struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Status         string              `json:"status"`
	Currency       string              `json:"currency"`
	DailyBudget    float64             `json:"daily_budget"`
	DailySpend     float64             `json:"daily_spend"`
	SpendPct       float64             `json:"spend_percentage"`
	CurrentBid     float64             `json:"current_bid"`
	Recommendation *recommendationJSON `json:"recommendation"`
}

// handleAnalyzeSpend runs the full analysis over an account. The
// ?adjustment query parameter selects the percentage (2, 5 or 10; anything
// else falls back to 2).
func (h *Handler) handleAnalyzeSpend(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	adjustPct, _ := strconv.ParseFloat(r.URL.Query().Get("adjustment"), 64)

	analyses, err := h.svc.AnalyzeSpend(r.Context(), sessionFrom(r.Context()), accountID, adjustPct)
	if err != nil {
		h.logger.Error("analyze spend", slog.String("account", accountID), slog.Any("error", err))
		writeError(w, err)
		return
	}
	out := make([]analysisJSON, 0, len(analyses))
	for _, a := range analyses {
		out = append(out, toAnalysisJSON(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func toAnalysisJSON(a port.CampaignAnalysis) analysisJSON {
	row := analysisJSON{
		ID:          a.ID,
		Name:        a.Name,
		Status:      a.Status,
		Currency:    a.Currency,
		DailyBudget: a.DailyBudget,
		DailySpend:  a.DailySpend,
		SpendPct:    a.SpendPct,
		CurrentBid:  a.CurrentBid,
	}
	if rec := a.Recommendation; rec != nil {
		row.Recommendation = &recommendationJSON{
			Action:         string(rec.Action),
			CurrentBid:     rec.CurrentBid,
			RecommendedBid: rec.RecommendedBid,
			AdjustmentPct:  rec.AdjustmentPct,
			SpendPct:       rec.SpendPct,
			Reason:         rec.Reason,
		}
	}
	return row
}
