package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bidpilot/internal/core/port"
)

type bidRequest struct {
	NewBid      float64  `json:"new_bid"`
	PreviousBid *float64 `json:"previous_bid,omitempty"`
	Revert      bool     `json:"revert,omitempty"`
}

// handleApplyBid mutates a campaign bid. With previous_bid set the change
// is recorded in the cooldown ledger; with revert the ledger entry is
// removed instead.
func (h *Handler) handleApplyBid(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	campaignID := chi.URLParam(r, "campaignID")

	var req bidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	change := port.BidChange{
		NewBid:      req.NewBid,
		PreviousBid: req.PreviousBid,
		Revert:      req.Revert,
	}
	if err := h.svc.ApplyBid(r.Context(), sessionFrom(r.Context()), accountID, campaignID, change); err != nil {
		h.logger.Error("apply bid",
			slog.String("campaign", campaignID), slog.Bool("revert", req.Revert), slog.Any("error", err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
