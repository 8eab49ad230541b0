package lookup

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/reportviewer/internal/apiclient"
	"github.com/leapstack-labs/reportviewer/internal/ui/inflight"
)

// SetupRoutes registers the lookup feature routes.
func SetupRoutes(
	router chi.Router,
	client *apiclient.Client,
	sessionStore sessions.Store,
	tracker *inflight.Tracker,
	logger *slog.Logger,
	alertTTL time.Duration,
) error {
	handlers := NewHandlers(client, sessionStore, tracker, logger, alertTTL)

	router.Route("/api/lookup", func(r chi.Router) {
		r.Post("/search", handlers.SearchSSE)
		r.Post("/clear", handlers.ClearSSE)
	})

	return nil
}
