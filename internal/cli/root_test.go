package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes the CLI against a database under dir and returns
// stdout. Each invocation builds a fresh root command, like a fresh
// process would.
func runCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "sitely.yaml"),
		"--db", filepath.Join(dir, "sitely.db"),
	}, args...))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestSiteCreateAndList(t *testing.T) {
	dir := t.TempDir()

	out := runCommand(t, dir, "site", "create", "--name", "Bungalow", "--type", "residential", "--owner", "Shah")
	assert.Contains(t, out, "created site ")
	assert.Contains(t, out, "(code ")

	out = runCommand(t, dir, "site", "list")
	assert.Contains(t, out, "Bungalow")
	assert.Contains(t, out, "residential")
	assert.Contains(t, out, "running")
}

func TestSiteDelete(t *testing.T) {
	dir := t.TempDir()

	out := runCommand(t, dir, "site", "create", "--name", "Bungalow")
	// "created site <id> (code <code>)"
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 3)
	siteID := fields[2]

	runCommand(t, dir, "site", "delete", siteID)

	out = runCommand(t, dir, "site", "list")
	assert.NotContains(t, out, "Bungalow")
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()

	out := runCommand(t, dir, "site", "create", "--name", "Bungalow")
	siteID := strings.Fields(out)[2]

	out = runCommand(t, dir, "report", siteID)
	assert.True(t, strings.HasPrefix(out, "worker\tcategory\t"), "report should start with the header line, got %q", out)
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	out := runCommand(t, dir, "init")
	assert.Contains(t, out, "database ready at ")
}

func TestMigrateCommand_NoLegacyStore(t *testing.T) {
	out := runCommand(t, t.TempDir(), "migrate")
	assert.Contains(t, out, "legacy migration complete")
}

func TestSweepCommand_EmptyDatabase(t *testing.T) {
	out := runCommand(t, t.TempDir(), "sweep")
	assert.Contains(t, out, "swept 0 rows")
}

func TestSiteCreate_RequiresName(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"site", "create"})
	assert.Error(t, cmd.Execute())
}
