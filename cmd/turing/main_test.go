package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/testutils"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func machineFile(t *testing.T) string {
	return testutils.WriteMachine(t, "flip", testutils.Flip)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "turing version")
}

func TestRunCommand(t *testing.T) {
	path := machineFile(t)

	out, err := execute(t, "run", path, "11", "--blank", "_", "--log-level", "error", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "status: accepted")

	_, err = execute(t, "run", path, "10", "--blank", "_", "--log-level", "error", "-o", "text")
	var exit *cli.ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, cli.ExitRejected, exit.Code)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", machineFile(t), "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Machine is valid!")
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph", machineFile(t), "--blank", "_", "--input", "1", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "stateDiagram-v2")
	assert.Contains(t, out, "class s_qA current")
}

func TestInspectCommand(t *testing.T) {
	out, err := execute(t, "inspect", machineFile(t), "--raw", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "# flip")
	assert.Contains(t, out, "## Rules")
}

func TestDebugCommand_LoadError(t *testing.T) {
	_, err := execute(t, "debug", filepath.Join(t.TempDir(), "missing.tm"), "--log-level", "error")
	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestBadConfig(t *testing.T) {
	t.Cleanup(func() { rootCmd.PersistentFlags().Set("config", "") })
	_, err := execute(t, "version", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
