package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/reportviewer/internal/apiclient"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Check statuses.
const (
	checkPass = "PASS"
	checkFail = "FAIL"
)

// maxConcurrentTableChecks bounds the per-table queries of --deep.
const maxConcurrentTableChecks = 4

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Deep bool
}

// checkResult is one line of the health summary.
type checkResult struct {
	Name     string
	Status   string
	Detail   string
	Duration time.Duration
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the report API and its database are reachable",
		Long: `Probe the report API and print a health summary.

Runs the database connection probe and lists the queryable tables. With
--deep every listed table is queried as well. Exits non-zero when any
check fails.`,
		Example: `  # Quick health check
  reportviewer check

  # Also query every table
  reportviewer check --deep`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Deep, "deep", false, "Query every listed table")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	results := runChecks(cmd.Context(), cmdCtx.Client, opts.Deep)
	renderChecks(cmd.OutOrStdout(), cmdCtx.Client.BaseURL(), results)

	failed := 0
	for _, r := range results {
		if r.Status != checkPass {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	return nil
}

// runChecks runs the probe and the table listing concurrently. A failing
// check never stops the others.
func runChecks(ctx context.Context, client *apiclient.Client, deep bool) []checkResult {
	var (
		probe  checkResult
		listed checkResult
		tables []string
	)

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		probe = timed("database connection", func() (string, error) {
			if err := client.TestConnection(egctx); err != nil {
				return "", err
			}
			return "connected", nil
		})
		return nil
	})
	eg.Go(func() error {
		listed = timed("table list", func() (string, error) {
			var err error
			tables, err = client.ListTables(egctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d tables", len(tables)), nil
		})
		return nil
	})
	_ = eg.Wait()

	results := []checkResult{probe, listed}
	if !deep || len(tables) == 0 {
		return results
	}

	tableResults := make([]checkResult, len(tables))
	var mu sync.Mutex
	eg, egctx = errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentTableChecks)
	for i, name := range tables {
		eg.Go(func() error {
			r := timed("table "+name, func() (string, error) {
				rows, err := client.QueryTable(egctx, name)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d rows", len(rows)), nil
			})
			mu.Lock()
			tableResults[i] = r
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	return append(results, tableResults...)
}

func timed(name string, fn func() (string, error)) checkResult {
	start := time.Now()
	detail, err := fn()
	r := checkResult{
		Name:     name,
		Status:   checkPass,
		Detail:   detail,
		Duration: time.Since(start),
	}
	if err != nil {
		r.Status = checkFail
		r.Detail = err.Error()
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			r.Detail = apiErr.MessageOr("api reported " + apiErr.Status)
		}
	}
	return r
}

// checkStyles colors the health summary.
type checkStyles struct {
	Header lipgloss.Style
	Muted  lipgloss.Style
	Pass   lipgloss.Style
	Fail   lipgloss.Style
}

// colorProfile is plain ASCII unless w is a terminal, where NO_COLOR and
// CLICOLOR_FORCE are honored.
func colorProfile(w io.Writer) termenv.Profile {
	if !isTerminal(w) {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

func newCheckStyles(w io.Writer, profile termenv.Profile) checkStyles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return checkStyles{
		Header: r.NewStyle().Bold(true),
		Muted:  r.NewStyle().Foreground(lipgloss.Color("8")),
		Pass:   r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Fail:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

func renderChecks(w io.Writer, baseURL string, results []checkResult) {
	renderChecksStyled(w, baseURL, results, newCheckStyles(w, colorProfile(w)))
}

func renderChecksStyled(w io.Writer, baseURL string, results []checkResult, styles checkStyles) {
	_, _ = fmt.Fprintln(w, styles.Header.Render("API: "+baseURL))

	passed := 0
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Check", "Status", "Detail", "Time"})
	for _, r := range results {
		status := styles.Fail.Render("✗ " + r.Status)
		if r.Status == checkPass {
			status = styles.Pass.Render("✓ " + r.Status)
			passed++
		}
		t.AppendRow(table.Row{r.Name, status, r.Detail, r.Duration.Round(time.Millisecond)})
	}
	t.Render()

	summary := styles.Pass
	if passed < len(results) {
		summary = styles.Fail
	}
	_, _ = fmt.Fprintln(w, styles.Muted.Render(strings.Repeat("-", 40)))
	_, _ = fmt.Fprintln(w, summary.Render(fmt.Sprintf("%d of %d checks passed", passed, len(results))))
}
