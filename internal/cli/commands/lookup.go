package commands

import (
	"fmt"

	"github.com/leapstack-labs/reportviewer/internal/apiclient"
	"github.com/leapstack-labs/reportviewer/internal/record"
	"github.com/spf13/cobra"
)

// LookupOptions holds options for the lookup command.
type LookupOptions struct {
	Format string
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand() *cobra.Command {
	opts := &LookupOptions{}

	cmd := &cobra.Command{
		Use:   "lookup <id>",
		Short: "Fetch a user record by ID",
		Long: `Fetch a single user record from the report API.

The ID must be a positive integer without leading zeros. Invalid IDs are
rejected before any request is made.`,
		Example: `  # Show user 42 as a table
  reportviewer lookup 42

  # Emit JSON for scripting
  reportviewer lookup 42 -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, args[0], opts)
		},
	}

	addFormatFlag(cmd, &opts.Format)

	return cmd
}

func runLookup(cmd *cobra.Command, id string, opts *LookupOptions) error {
	if err := apiclient.ValidateUserID(id); err != nil {
		return fmt.Errorf("invalid user ID %q: %w", id, err)
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	format, err := resolveFormat(opts.Format, cmdCtx.Cfg.OutputFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	user, err := cmdCtx.Client.GetUser(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	if user == nil {
		return fmt.Errorf("user %s not found", id)
	}

	return renderRecords(cmd.OutOrStdout(), []record.Record{*user}, format)
}
