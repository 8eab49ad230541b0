// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/reportviewer/internal/cli/config"
	"github.com/leapstack-labs/reportviewer/internal/testutil"
)

// SetupTestAPI starts a fake report API and loads a config pointing at it.
// The working directory is moved to an empty temp dir so no stray
// reportviewer.yaml is picked up.
func SetupTestAPI(t *testing.T) *testutil.FakeAPI {
	t.Helper()

	api := testutil.NewFakeAPI(t)

	t.Chdir(t.TempDir())
	t.Setenv(config.EnvPrefix+"API_BASE_URL", api.URL)
	t.Setenv(config.EnvPrefix+"REQUEST_TIMEOUT", "2s")

	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	return api
}

// RunCommand executes cmd with args and returns what it wrote to stdout.
// Stderr is kept separate so log lines never leak into asserted output.
func RunCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	return out.String(), err
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
