package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/reportviewer/internal/apiclient"
	"github.com/leapstack-labs/reportviewer/internal/cli/config"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Client *apiclient.Client
}

// NewCommandContext creates a CommandContext with an API client built from
// the loaded configuration.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Client: client,
	}, nil
}

// getConfig returns the current configuration, or defaults when none was
// loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
