package commands

import (
	"fmt"

	"github.com/leapstack-labs/reportviewer/internal/record"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables the API can query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			f, err := resolveFormat(format, cmdCtx.Cfg.OutputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			tables, err := cmdCtx.Client.ListTables(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list tables: %w", err)
			}

			rows := make([]record.Record, len(tables))
			for i, name := range tables {
				rows[i] = record.New("table", name)
			}
			return renderRecords(cmd.OutOrStdout(), rows, f)
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}
