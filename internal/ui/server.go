// Package ui serves the report viewer admin panels.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/reportviewer/internal/apiclient"
	"github.com/leapstack-labs/reportviewer/internal/ui/inflight"
	"github.com/leapstack-labs/reportviewer/internal/ui/notifier"
	"github.com/leapstack-labs/reportviewer/internal/ui/router"
	"github.com/leapstack-labs/reportviewer/internal/ui/session"
	"golang.org/x/sync/errgroup"
)

// ReloadFunc re-reads configuration and returns the API base address it
// now names.
type ReloadFunc func() (string, error)

// Server is the main UI server.
type Server struct {
	client       *apiclient.Client
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	configFile   string
	reload       ReloadFunc
	logger       *slog.Logger
	notifier     *notifier.Notifier
	inflight     *inflight.Tracker
	alertTTL     time.Duration
	pageSize     int
}

// Config holds configuration for the UI server.
type Config struct {
	Client        *apiclient.Client
	Port          int
	SessionSecret string
	Logger        *slog.Logger
	AlertTTL      time.Duration
	PageSize      int

	// Watch enables reloading ConfigFile through Reload when it changes.
	Watch      bool
	ConfigFile string
	Reload     ReloadFunc
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		client:       cfg.Client,
		sessionStore: session.NewStore(cfg.SessionSecret),
		port:         cfg.Port,
		watch:        cfg.Watch,
		configFile:   cfg.ConfigFile,
		reload:       cfg.Reload,
		logger:       logger,
		notifier:     notifier.New(),
		inflight:     inflight.New(),
		alertTTL:     cfg.AlertTTL,
		pageSize:     cfg.PageSize,
	}
}

// Handler builds the router with middleware and all feature routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		router.RequestLogger(s.logger),
		middleware.Recoverer,
		middleware.Compress(5),
	)

	err := router.SetupRoutes(r, router.Deps{
		Client:       s.client,
		SessionStore: s.sessionStore,
		Notifier:     s.notifier,
		Inflight:     s.inflight,
		Logger:       s.logger,
		AlertTTL:     s.alertTTL,
		PageSize:     s.pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port), "api", s.client.BaseURL())

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.configFile != "" && s.reload != nil {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchConfig reloads the API address whenever the config file is written.
// The parent directory is watched so editors that replace the file on save
// are picked up too.
func (s *Server) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.configFile)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch config file", "file", target, "error", err)
		// Don't fail - continue without watching
		<-ctx.Done()
		return nil
	}

	// Debounce timer
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, s.reloadConfig)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reloadConfig applies a changed API address and tells open pages about it.
func (s *Server) reloadConfig() {
	baseURL, err := s.reload()
	if err != nil {
		s.logger.Error("config reload failed", "file", s.configFile, "error", err)
		return
	}
	previous := s.client.BaseURL()
	if err := s.client.SetBaseURL(baseURL); err != nil {
		s.logger.Error("config reload rejected", "base_url", baseURL, "error", err)
		return
	}
	current := s.client.BaseURL()
	if current == previous {
		s.logger.Debug("config reloaded, api address unchanged")
		return
	}
	s.notifier.Broadcast(notifier.Change{BaseURL: current, At: time.Now()})
}
