package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svcctl/internal/services"
)

const testManifest = `
services:
  - id: 1
    name: api
    createDependencies: [2]
  - id: 2
    name: database
    destroyDependencies: [1]
`

// executeCommand runs the root command with args against temporary config and
// manifest files and returns what was written to stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	manifestPath := filepath.Join(dir, "services.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("logging:\n  level: error\n"), 0644))
	require.NoError(t, os.WriteFile(manifestPath, []byte(testManifest), 0644))

	t.Cleanup(func() {
		cfgFile, logLevel = "", ""
		runResolve, inspectResolve = nil, nil
		inspectResolveAll, inspectInteractive, inspectCopy = false, false, false
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		for _, c := range rootCmd.Commands() {
			c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		}
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--config", configPath, "-f", manifestPath))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	out, err := executeCommand(t, "run")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "database")
	assert.Contains(t, lines[1], "api")
	assert.Contains(t, lines[2], "api")
	assert.Contains(t, lines[3], "database")
}

func TestInspectCommand(t *testing.T) {
	out, err := executeCommand(t, "inspect", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE DEPS")
	assert.Contains(t, out, "2 services, 2 live, 0 failed")
}

func TestInspectCommand_FlagConflict(t *testing.T) {
	_, err := executeCommand(t, "inspect", "--interactive", "--copy")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	SetVersion("0.4.2")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "svcctl version 0.4.2\n", out.String())
}

func TestToIDs(t *testing.T) {
	assert.Equal(t, []services.ID{3, 1}, toIDs([]int{3, 1}))
	assert.Empty(t, toIDs(nil))
}
