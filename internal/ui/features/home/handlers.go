package home

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/leapstack-labs/reportviewer/internal/apiclient"
	"github.com/leapstack-labs/reportviewer/internal/ui/notifier"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	client   *apiclient.Client
	notifier *notifier.Notifier
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *apiclient.Client, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	return &Handlers{
		client:   client,
		notifier: notify,
		logger:   logger,
	}
}

// HomePage renders the page with both panels. Every load gets its own page id.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := HomePage(h.client.BaseURL(), uuid.NewString()).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HomePageUpdates is the long-lived SSE endpoint for the page.
// It does not send initial state; that is rendered by HomePage.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-updates:
			if !ok {
				return
			}
			baseURL := change.BaseURL
			if baseURL == "" {
				baseURL = h.client.BaseURL()
			}
			if err := sse.PatchElementTempl(Endpoint(baseURL)); err != nil {
				h.logger.Debug("failed to push update", "error", err)
				return
			}
		}
	}
}
