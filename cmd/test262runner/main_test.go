package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRunner(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cfg := filepath.Join(t.TempDir(), "none.toml")
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRunnerCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pass"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fail"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pass", "a.js"), []byte("var a;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fail", "b.js"), []byte("var;"), 0o644))

	out, err := runRunner(t, "--workers", "2", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "passed:  2 (100.0%)")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "fail", "c.js"), []byte("var c;"), 0o644))
	out, err = runRunner(t, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 failed")
	assert.Contains(t, out, "FAIL fail/c.js expected a syntax error")

	out, err = runRunner(t, "--filter", "pass/", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "total:   1")
}

func TestRunnerMissingDir(t *testing.T) {
	_, err := runRunner(t, filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test directory not found")
}
