package home

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/reportviewer/internal/apiclient"
	"github.com/leapstack-labs/reportviewer/internal/ui/notifier"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(
	router chi.Router,
	client *apiclient.Client,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(client, notify, logger)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.HomePageUpdates)

	return nil
}
