package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"bidpilot/internal/core/domain"
)

type errorDetail struct {
	Category string `json:"category"`
	Detail   string `json:"detail"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

func statusFor(cat domain.Category) int {
	switch cat {
	case domain.CategoryAuth:
		return http.StatusUnauthorized
	case domain.CategoryValidation:
		return http.StatusBadRequest
	case domain.CategoryUpstream, domain.CategoryUpstreamRejected:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps the error's category onto an HTTP status and emits the
// machine-checkable error envelope.
func writeError(w http.ResponseWriter, err error) {
	cat := domain.CategoryOf(err)
	detail := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		detail = de.Detail
	}
	writeJSON(w, statusFor(cat), errorBody{Error: errorDetail{
		Category: string(cat),
		Detail:   detail,
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
