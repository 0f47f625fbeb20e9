package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/esparse/parser"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "esparse.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[parser]
source_type = "module"
allow_hash_bang = false
comments = true

[output]
format = "pretty"

[runner]
dir = "/tmp/test262"
workers = 8
timeout = "250ms"

[log]
level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, parser.SourceModule, cfg.Parser.SourceType)
	assert.False(t, cfg.Parser.AllowHashBang)
	assert.True(t, cfg.Parser.Comments)
	assert.False(t, cfg.Parser.CheckRegExp)
	assert.Equal(t, "pretty", cfg.Output.Format)
	assert.Equal(t, "  ", cfg.Output.Indent)
	assert.Equal(t, "/tmp/test262", cfg.Runner.Dir)
	assert.Equal(t, 8, cfg.Runner.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.Runner.Timeout.Duration)
	assert.Equal(t, 1024, cfg.Runner.CacheSize)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Parser.AllowHashBang)
}

func TestLoadExpandsEnv(t *testing.T) {
	path := writeConfig(t, "[output]\nformat = \"pretty\"\n")
	t.Setenv("ESPARSE_TEST_DIR", filepath.Dir(path))

	cfg, err := Load("$ESPARSE_TEST_DIR/esparse.toml")
	require.NoError(t, err)
	assert.Equal(t, "pretty", cfg.Output.Format)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		content string
		message string
	}{
		{"[parser\n", "failed to parse config"},
		{"[parser]\nsource_type = \"commonjs\"\n", "unknown source_type"},
		{"[output]\nformat = \"xml\"\n", "unknown output format"},
		{"[runner]\nworkers = 0\n", "workers must be positive"},
		{"[runner]\ntimeout = \"soon\"\n", "failed to parse config"},
		{"[log]\nlevel = \"loud\"\n", "log level"},
	}
	for _, tt := range tests {
		_, err := Load(writeConfig(t, tt.content))
		require.Error(t, err, tt.content)
		assert.Contains(t, err.Error(), tt.message)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "[parser]\ncheck_regexp = true\n")
	t.Setenv("ESPARSE_CONFIG", path)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Parser.CheckRegExp)
}

func TestParserOptions(t *testing.T) {
	cfg := Default()
	cfg.Parser.SourceType = parser.SourceModule
	cfg.Parser.Comments = true

	var o parser.Options
	for _, opt := range cfg.ParserOptions() {
		opt(&o)
	}
	assert.Equal(t, parser.SourceModule, o.SourceType)
	assert.True(t, o.AllowHashBang)
	assert.True(t, o.Comments)
	assert.False(t, o.CheckRegExp)

	res, err := parser.ParseProgram("export default 1 // done", "", cfg.ParserOptions()...)
	require.NoError(t, err)
	assert.Equal(t, "module", res.Program.SourceType)
	assert.Len(t, res.Comments, 1)
}
