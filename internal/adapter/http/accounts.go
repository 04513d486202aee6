package httpadapter

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type accountJSON struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	HasOptimization *bool  `json:"has_optimization,omitempty"`
}

// handleListAccounts returns the accounts visible to the caller, filtered
// by the tenant's selection. With ?check_optimizations=true each account is
// annotated with whether any campaign has a pending recommendation; the
// optional ?exclude=1,2,3 parameter supplies extra campaign IDs to skip,
// which is the degraded substitute for the cooldown ledger.
func (h *Handler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	withOptimization := q.Get("check_optimizations") == "true"
	var exclude []string
	if raw := q.Get("exclude"); raw != "" {
		exclude = strings.Split(raw, ",")
	}

	summaries, err := h.svc.ListAccounts(r.Context(), sessionFrom(r.Context()), withOptimization, exclude)
	if err != nil {
		h.logger.Error("list accounts", slog.Any("error", err))
		writeError(w, err)
		return
	}

	out := make([]accountJSON, 0, len(summaries))
	for _, s := range summaries {
		a := accountJSON{ID: s.Account.ID, Name: s.Account.Name, Status: s.Account.Status}
		if s.Checked {
			has := s.HasOptimization
			a.HasOptimization = &has
		}
		out = append(out, a)
	}
	writeJSON(w, http.StatusOK, out)
}

type cooldownEntryJSON struct {
	CampaignID  string  `json:"campaign_id"`
	PreviousBid float64 `json:"previous_bid"`
	AppliedAt   string  `json:"applied_at"`
}

// handleRecentlyOptimized returns the account's unexpired cooldown entries,
// newest first.
func (h *Handler) handleRecentlyOptimized(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	entries, err := h.svc.ListRecentlyOptimized(r.Context(), sessionFrom(r.Context()), accountID)
	if err != nil {
		h.logger.Error("list recently optimized", slog.Any("error", err))
		writeError(w, err)
		return
	}
	out := make([]cooldownEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, cooldownEntryJSON{
			CampaignID:  e.CampaignID,
			PreviousBid: e.PreviousBid,
			AppliedAt:   e.AppliedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
