package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type settingsJSON struct {
	// SelectedAccountIDs is null when the tenant never set a filter, which
	// is different from an empty list (show no accounts).
	SelectedAccountIDs []string `json:"selected_account_ids"`
	Configured         bool     `json:"configured"`
}

// handleGetSelectedAccounts returns the tenant's account allow-list.
func (h *Handler) handleGetSelectedAccounts(w http.ResponseWriter, r *http.Request) {
	ids, found, err := h.svc.SelectedAccounts(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		h.logger.Error("get selected accounts", slog.Any("error", err))
		writeError(w, err)
		return
	}
	out := settingsJSON{Configured: found}
	if found {
		if ids == nil {
			ids = []string{}
		}
		out.SelectedAccountIDs = ids
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSetSelectedAccounts overwrites the tenant's account allow-list. An
// empty list is valid and hides every account.
func (h *Handler) handleSetSelectedAccounts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SelectedAccountIDs []string `json:"selected_account_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.SelectedAccountIDs == nil {
		req.SelectedAccountIDs = []string{}
	}
	if err := h.svc.SetSelectedAccounts(r.Context(), sessionFrom(r.Context()), req.SelectedAccountIDs); err != nil {
		h.logger.Error("set selected accounts", slog.Any("error", err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleDeleteTenant cascades across the tenant's settings and cooldown
// rows.
func (h *Handler) handleDeleteTenant(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTenantData(r.Context(), sessionFrom(r.Context())); err != nil {
		h.logger.Error("delete tenant data", slog.Any("error", err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
