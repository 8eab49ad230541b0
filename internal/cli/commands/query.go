package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <table>",
		Short: "Fetch every row of a table",
		Long: `Fetch all rows the report API returns for a table.

Columns follow the keys of the first row in the order the API sent them.`,
		Example: `  # Show a table in the terminal
  reportviewer query users

  # Export as CSV
  reportviewer query users -f csv > users.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], opts)
		},
	}

	addFormatFlag(cmd, &opts.Format)

	return cmd
}

func runQuery(cmd *cobra.Command, table string, opts *QueryOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	format, err := resolveFormat(opts.Format, cmdCtx.Cfg.OutputFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	rows, err := cmdCtx.Client.QueryTable(cmd.Context(), table)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}

	cmdCtx.Logger.Debug("table queried", "table", table, "rows", len(rows))
	return renderRecords(cmd.OutOrStdout(), rows, format)
}
