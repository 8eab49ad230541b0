package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/reportviewer/internal/cli/config"
	"github.com/leapstack-labs/reportviewer/internal/record"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// addFormatFlag registers the per-command --format flag.
func addFormatFlag(cmd *cobra.Command, f *string) {
	cmd.Flags().StringVarP(f, "format", "f", "", "Output format: table, json, csv, md, yaml (default: output setting)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "csv", "md", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveFormat picks the output format: the --format flag, then the output
// setting. Auto renders a table on a terminal and markdown otherwise.
func resolveFormat(flagFormat, cfgFormat string, w io.Writer) (string, error) {
	format := flagFormat
	if format == "" {
		format = cfgFormat
	}
	switch format {
	case "", config.FormatAuto:
		if isTerminal(w) {
			return config.FormatTable, nil
		}
		return config.FormatMarkdown, nil
	case config.FormatTable, config.FormatJSON, config.FormatCSV, config.FormatMarkdown, config.FormatYAML:
		return format, nil
	case "markdown":
		return config.FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json, csv, md or yaml)", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// renderRecords writes rows in format. Columns are the keys of the first row.
func renderRecords(w io.Writer, rows []record.Record, format string) error {
	switch format {
	case config.FormatJSON:
		if rows == nil {
			rows = []record.Record{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case config.FormatYAML:
		if rows == nil {
			rows = []record.Record{}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	}

	cols := record.Columns(rows)
	if len(rows) == 0 && format != config.FormatCSV {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, r := range rows {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			v, _ := r.Get(col)
			row[i] = record.FormatValue(v)
		}
		t.AppendRow(row)
	}

	switch format {
	case config.FormatCSV:
		t.RenderCSV()
	case config.FormatMarkdown:
		t.RenderMarkdown()
	default:
		// Column names are data keys; print them as sent.
		style := table.StyleLight
		style.Format.Header = text.FormatDefault
		t.SetStyle(style)
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	}
	return nil
}
