package browse

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/reportviewer/internal/apiclient"
	"github.com/leapstack-labs/reportviewer/internal/ui/inflight"
)

// SetupRoutes registers the browse feature routes.
func SetupRoutes(
	router chi.Router,
	client *apiclient.Client,
	sessionStore sessions.Store,
	tracker *inflight.Tracker,
	logger *slog.Logger,
	alertTTL time.Duration,
	pageSize int,
) error {
	handlers := NewHandlers(client, sessionStore, tracker, logger, alertTTL, pageSize)

	router.Route("/api/browse", func(r chi.Router) {
		r.Get("/tables", handlers.TablesSSE)
		r.Post("/query", handlers.QuerySSE)
		r.Post("/test-connection", handlers.TestConnectionSSE)
		r.Post("/clear", handlers.ClearSSE)
	})

	return nil
}
