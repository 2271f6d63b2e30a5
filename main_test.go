package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestWriteOutputs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	written, err := writeOutputs(dir, "demo", "module demo\n", "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "demo.ir")}, written)
	assert.FileExists(t, filepath.Join(dir, LOCK_FILE))
	assert.NoFileExists(t, filepath.Join(dir, "demo.ll"))

	written, err = writeOutputs(dir, "demo", "module demo\n", "; llvm\n")
	require.NoError(t, err)
	require.Len(t, written, 2)
	data, err := os.ReadFile(written[1])
	require.NoError(t, err)
	assert.Equal(t, "; llvm\n", string(data))
}

func TestSamplesCommand(t *testing.T) {
	out, err := execute(t, "samples")
	require.NoError(t, err)
	assert.Contains(t, out, "factorial")
	assert.Contains(t, out, "script")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "irgen dev")
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "build", "factorial", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "factorial.ir"))

	data, err := os.ReadFile(filepath.Join(dir, "factorial.ir"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "proc Factorial.fact(")
}

func TestBuildCommandWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "irgen.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
assembly: app
entry: script
emitLLVM: true
deterministic: true
output: `+filepath.Join(dir, "build")+`
`), 0o644))

	_, err := execute(t, "build", "script", "--config", cfg)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "build", "app.ir"))
	assert.FileExists(t, filepath.Join(dir, "build", "app.ll"))
}

func TestBuildCommandErrors(t *testing.T) {
	_, err := execute(t, "build", "nosuch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown sample "nosuch"`)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("entry: library\n"), 0o644))
	_, err = execute(t, "build", "factorial", "--config", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry must be")
}
