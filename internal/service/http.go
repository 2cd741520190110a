// Package service exposes the ledger and auth operations as a JSON HTTP API.
package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openpool/purseledger/internal/ledger"
)

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// errorResponse is the body returned on every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// classify maps a ledger error to its HTTP status and stable error kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, ledger.ErrUnauthorized):
		return http.StatusForbidden, "unauthorized"
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ledger.ErrInsufficientPool):
		return http.StatusConflict, "insufficient_pool"
	case errors.Is(err, ledger.ErrTransferFailed):
		return http.StatusPaymentRequired, "transfer_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// decodeBody decodes the request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
