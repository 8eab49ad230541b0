// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/reportviewer/internal/apiclient"
	browseFeature "github.com/leapstack-labs/reportviewer/internal/ui/features/browse"
	homeFeature "github.com/leapstack-labs/reportviewer/internal/ui/features/home"
	lookupFeature "github.com/leapstack-labs/reportviewer/internal/ui/features/lookup"
	"github.com/leapstack-labs/reportviewer/internal/ui/inflight"
	"github.com/leapstack-labs/reportviewer/internal/ui/notifier"
	"github.com/leapstack-labs/reportviewer/internal/ui/resources"
	"github.com/leapstack-labs/reportviewer/internal/ui/session"
)

// Deps are the shared dependencies handed to every feature.
type Deps struct {
	Client       *apiclient.Client
	SessionStore *sessions.CookieStore
	Notifier     *notifier.Notifier
	Inflight     *inflight.Tracker
	Logger       *slog.Logger
	AlertTTL     time.Duration
	PageSize     int
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	// Static assets
	router.Handle("/static/*", resources.Handler())

	var setupErr error
	router.Group(func(r chi.Router) {
		r.Use(session.Middleware(deps.SessionStore))

		if err := homeFeature.SetupRoutes(r, deps.Client, deps.Notifier, deps.Logger); err != nil {
			setupErr = err
			return
		}

		if err := lookupFeature.SetupRoutes(r, deps.Client, deps.SessionStore, deps.Inflight, deps.Logger, deps.AlertTTL); err != nil {
			setupErr = err
			return
		}

		if err := browseFeature.SetupRoutes(r, deps.Client, deps.SessionStore, deps.Inflight, deps.Logger, deps.AlertTTL, deps.PageSize); err != nil {
			setupErr = err
			return
		}
	})

	return setupErr
}
