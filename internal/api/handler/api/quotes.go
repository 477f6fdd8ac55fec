// internal/api/handler/api/quotes.go
package api

import (
	"context"
	"net/http"

	"github.com/newthinker/fearwatch/internal/api/response"
	"github.com/newthinker/fearwatch/internal/gateway"
)

// Snapshotter defines the interface needed from gateway.Service.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*gateway.Payload, error)
	StatusFor(err error) (int, gateway.ErrorBody)
}

// QuotesHandler serves the quote gateway endpoint.
type QuotesHandler struct {
	gateway Snapshotter
}

// NewQuotesHandler creates a new quotes handler.
func NewQuotesHandler(g Snapshotter) *QuotesHandler {
	return &QuotesHandler{gateway: g}
}

// Get returns the current VIX/market snapshot and buy signal.
func (h *QuotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	payload, err := h.gateway.Snapshot(r.Context())
	if err != nil {
		status, body := h.gateway.StatusFor(err)
		response.Error(w, status, body.Error, body.Details)
		return
	}

	response.JSON(w, http.StatusOK, payload)
}
