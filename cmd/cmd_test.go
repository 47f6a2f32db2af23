package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag back to its default; cobra keeps flag values
// between Execute calls on the same command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prevWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	t.Setenv("VENDORCAST_MEMORY_FILE", filepath.Join(dir, "memory.json"))
	t.Setenv("VENDORCAST_AUDIT_CSV_PATH", filepath.Join(dir, "logs", "predictions.csv"))
	t.Setenv("VENDORCAST_DATABASE_DRIVER", "sqlite")
	t.Setenv("VENDORCAST_DATABASE_SQLITE_PATH", filepath.Join(dir, "vendorcast.db"))
	t.Setenv("VENDORCAST_LOG_LEVEL", "error")
	return dir
}

func TestSeedForecastHistory(t *testing.T) {
	dir := workspace(t)

	out, err := execute(t, "seed", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered 1 vendor(s), 1 new")

	out, err = execute(t, "vendors", "--json")
	require.NoError(t, err)
	var listing []vendorListing
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	require.Len(t, listing, 1)
	assert.Equal(t, "Raman_Chai_Wala_Connaught_Place", listing[0].ID)

	out, err = execute(t, "forecast", "--from", "2025-06-16", "--to", "2025-06-17", "--weather", "sunny", "--temperature", "32")
	require.NoError(t, err)
	assert.Contains(t, out, "Forecast 1 vendor(s) over 2 day(s)")

	audit, err := os.ReadFile(filepath.Join(dir, "logs", "predictions.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(audit)), "\r\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "2025-06-17,Raman Chai Wala,Connaught Place,Chai: 60; Samosa: 60; Bread Pakora: 60; Biscuit: 50,754,1131,"))

	out, err = execute(t, "history", "Raman_Chai_Wala_Connaught_Place")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-06-17")
	assert.Contains(t, out, "2025-06-16")
}

func TestSeedRequiresWork(t *testing.T) {
	workspace(t)
	_, err := execute(t, "seed")
	assert.Error(t, err)
}

func TestGuidance(t *testing.T) {
	workspace(t)
	out, err := execute(t, "guidance")
	require.NoError(t, err)
	assert.Contains(t, out, "## demand analysis")
	assert.Contains(t, out, "## revenue prediction")
}

func TestCorruptMemoryIsReported(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "memory.json"), []byte("{not json"), 0o644))

	_, err := execute(t, "vendors")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".bak")
}
