package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes esparse with a config path that does not exist, so defaults
// apply regardless of the environment.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	cfg := filepath.Join(t.TempDir(), "none.toml")
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestParseInline(t *testing.T) {
	out, _, err := run(t, "", "parse", "-e", "a + 1")
	require.NoError(t, err)

	var tree map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Equal(t, "Program", tree["type"])
	assert.Equal(t, "script", tree["sourceType"])
	assert.Contains(t, out, `"type": "BinaryExpression"`)
}

func TestParseModuleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.mjs")
	require.NoError(t, os.WriteFile(path, []byte("export default 1"), 0o644))

	out, _, err := run(t, "", "parse", "--module", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"sourceType": "module"`)
	assert.Contains(t, out, `"source": "`+path+`"`)

	_, _, err = run(t, "", "parse", filepath.Join(t.TempDir(), "missing.js"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestParseStdin(t *testing.T) {
	out, _, err := run(t, "x // note", "parse", "--comments")
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "<stdin>"`)
	assert.Contains(t, out, `"comments": [`)
	assert.Contains(t, out, `"value": " note"`)
}

func TestParseError(t *testing.T) {
	_, stderr, err := run(t, "", "parse", "-e", "a +")
	assert.Equal(t, errReported, err)
	assert.Contains(t, stderr, "error: Unexpected end of input")
	assert.Contains(t, stderr, "--> 1:4")
	assert.Contains(t, stderr, "1 | a +")
}

func TestParseWarnings(t *testing.T) {
	out, stderr, err := run(t, "", "parse", "-e", "class A { get a(x) {} }")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, stderr, "warning: getter should have no params")
}

func TestParsePrettyFormat(t *testing.T) {
	out, _, err := run(t, "", "parse", "--format", "pretty", "-e", "x")
	require.NoError(t, err)
	assert.Contains(t, out, "&ast.Program{")

	_, _, err = run(t, "", "parse", "--format", "xml", "-e", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestTokens(t *testing.T) {
	out, _, err := run(t, "", "tokens", "-e", "let x = /re/g;")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "name"))
	assert.Contains(t, lines[3], "/re/g")
	assert.True(t, strings.HasPrefix(lines[5], "EOF"))
}

func TestTokensLexError(t *testing.T) {
	out, stderr, err := run(t, "", "tokens", "-e", "a 'open")
	assert.Equal(t, errReported, err)
	assert.True(t, strings.HasPrefix(out, "name"))
	assert.Contains(t, stderr, "lex error: Unterminated string constant")
}
