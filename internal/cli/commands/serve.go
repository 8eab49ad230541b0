package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/uuid"
	"github.com/leapstack-labs/reportviewer/internal/cli/config"
	"github.com/leapstack-labs/reportviewer/internal/ui"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the report viewer web UI",
		Long: `Start a local web server with the API lookup and table browser panels.

Both panels call the report API configured by api_base_url. With --watch the
config file is watched and a changed API address is applied without a
restart.`,
		Example: `  # Start UI on default port
  reportviewer serve

  # Start on custom port
  reportviewer serve --port 3000

  # Start without auto-opening browser
  reportviewer serve --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	// Flag values are read through the loaded config; see config.LoadConfig.
	cmd.Flags().IntVar(&opts.Port, "port", 0, fmt.Sprintf("Port to serve on (default: %d)", config.DefaultPort))
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload the API address when the config file changes")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	configFile := config.GetConfigFileUsed()
	if cfg.UI.Watch && configFile == "" {
		logger.Warn("--watch given but no config file is in use; nothing to watch")
	}

	server := ui.NewServer(ui.Config{
		Client:        cmdCtx.Client,
		Port:          cfg.UI.Port,
		SessionSecret: sessionSecret(cfg),
		Logger:        logger,
		AlertTTL:      cfg.UI.AlertTTL,
		PageSize:      cfg.UI.PageSize,
		Watch:         cfg.UI.Watch,
		ConfigFile:    configFile,
		Reload: func() (string, error) {
			reloaded, err := config.LoadConfig(configFile, cmd.Flags())
			if err != nil {
				return "", err
			}
			return reloaded.APIBaseURL, nil
		},
	})

	url := fmt.Sprintf("http://localhost:%d", cfg.UI.Port)
	if cfg.UI.AutoOpen {
		go openBrowser(url)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Starting UI server on %s\n", url)
	_, _ = fmt.Fprintf(out, "Using API at %s\n", cmdCtx.Client.BaseURL())
	_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

// sessionSecret returns the configured secret, or a random one that only
// lives as long as the process.
func sessionSecret(cfg *config.Config) string {
	if cfg.UI.SessionSecret != "" {
		return cfg.UI.SessionSecret
	}
	return uuid.NewString() + uuid.NewString()
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(context.Background(), "open", url)
	case "linux":
		cmd = exec.CommandContext(context.Background(), "xdg-open", url)
	case "windows":
		cmd = exec.CommandContext(context.Background(), "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return
	}

	_ = cmd.Start()
}
