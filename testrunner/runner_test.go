package testrunner

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func resultsByPath(results []TestResult) map[string]TestResult {
	m := make(map[string]TestResult)
	for _, tr := range results {
		m[filepath.ToSlash(tr.Path)] = tr
	}
	return m
}

func TestRunParserTests(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"pass/a.js":          "var a = 1",
		"pass-explicit/a.js": "var a = 1;",
		"pass/b.module.js":   "export default 1",
		"pass/c.js":          "a\n++b",
		"pass-explicit/c.js": "a;\n++b;",
		"pass/f.js":          "(a)",
		"pass-explicit/f.js": "a",
		"pass/g.js":          "a + b",
		"pass-explicit/g.js": "a - b",
		"fail/d.js":          "var 1",
		"fail/h.js":          "var ok",
		"early/e.js":         "'use strict'; with (a) {}",
		"pass/readme.txt":    "not a test",
	})

	results, summary, err := Run(Config{Dir: dir, Workers: 3, Logger: zerolog.Nop()})
	require.NoError(t, err)
	require.Len(t, results, 8)
	assert.Equal(t, "early/e.js", filepath.ToSlash(results[0].Path))

	byPath := resultsByPath(results)
	for _, name := range []string{"pass/a.js", "pass/b.module.js", "pass/c.js", "pass/f.js", "fail/d.js", "early/e.js"} {
		assert.Equal(t, Pass, byPath[name].Result, name+": "+byPath[name].Message)
	}
	assert.Equal(t, Fail, byPath["pass/g.js"].Result)
	assert.Contains(t, byPath["pass/g.js"].Message, `- `)
	assert.Contains(t, byPath["pass/g.js"].Message, `"operator": "+"`)
	assert.Equal(t, Fail, byPath["fail/h.js"].Result)
	assert.Equal(t, "expected a syntax error", byPath["fail/h.js"].Message)

	assert.Equal(t, 8, summary.Total)
	assert.Equal(t, 6, summary.Passed)
	assert.Equal(t, 2, summary.Failed)
	assert.NotEmpty(t, summary.RunID)
	assert.Greater(t, summary.Bytes, int64(0))
}

func TestRunTest262(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"test/language/ok.js": "/*---\ndescription: plain\n---*/\nvar x = 1;\n",
		"test/language/negative.js": `/*---
description: bad binding
negative:
  phase: parse
  type: SyntaxError
---*/
$DONOTEVALUATE();
var 1;
`,
		"test/language/strict-only.js": `/*---
flags: [onlyStrict]
negative:
  phase: parse
  type: SyntaxError
---*/
with (a) {}
`,
		"test/language/sloppy-only.js": "/*---\nflags: [noStrict]\n---*/\nwith (a) {}\n",
		"test/language/both-modes.js":  "/*---\ndescription: with in both modes\n---*/\nwith (a) {}\n",
		"test/language/module.js":      "/*---\nflags: [module]\n---*/\nexport default 1;\n",
		"test/language/decorated.js":   "/*---\nfeatures: [decorators]\n---*/\n@dec class A {}\n",
		"test/language/broken.js":      "/*---\nflags: [\n",
		"test/language/x_FIXTURE.js":   "export var x;",
		"test/other/skipped.js":        "var y;",
	})

	results, summary, err := Run(Config{Dir: dir, Filter: "language", Workers: 2, Timeout: time.Minute, Logger: zerolog.Nop()})
	require.NoError(t, err)
	require.Len(t, results, 8)

	byPath := resultsByPath(results)
	for _, name := range []string{"ok.js", "negative.js", "strict-only.js", "sloppy-only.js", "module.js"} {
		tr := byPath["test/language/"+name]
		assert.Equal(t, Pass, tr.Result, name+": "+tr.Message)
	}
	both := byPath["test/language/both-modes.js"]
	assert.Equal(t, Fail, both.Result)
	assert.Contains(t, both.Message, "strict: ")
	assert.Equal(t, Skip, byPath["test/language/decorated.js"].Result)
	assert.Equal(t, Error, byPath["test/language/broken.js"].Result)

	assert.Equal(t, 5, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Errors)
}

func TestRunLimitAndBadDir(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"pass/a.js": "a",
		"pass/b.js": "b",
		"pass/c.js": "c",
	})
	results, _, err := Run(Config{Dir: dir, Limit: 2, Logger: zerolog.Nop()})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	_, _, err = Run(Config{Dir: t.TempDir(), Logger: zerolog.Nop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither test/ nor pass/")
}

func TestParseMetadata(t *testing.T) {
	meta, err := parseMetadata(`// Copyright
/*---
description: >
  folded text
features: [async-functions, class-fields-private]
flags:
  - onlyStrict
includes: [propertyHelper.js]
negative:
  phase: parse
  type: SyntaxError
---*/`)
	require.NoError(t, err)
	assert.Equal(t, "folded text\n", meta.Description)
	assert.Equal(t, []string{"async-functions", "class-fields-private"}, meta.Features)
	assert.True(t, meta.HasFlag("onlyStrict"))
	assert.False(t, meta.HasFlag("module"))
	assert.Equal(t, []string{"propertyHelper.js"}, meta.Includes)
	assert.True(t, meta.ExpectsParseError())

	meta, err = parseMetadata("var x;")
	require.NoError(t, err)
	assert.False(t, meta.ExpectsParseError())

	_, err = parseMetadata("/*--- description: x")
	assert.Error(t, err)

	modes := test262Modes(TestMetadata{})
	assert.Len(t, modes, 2)
	assert.True(t, test262Modes(TestMetadata{Flags: []string{"module"}})[0].module)
}

func TestLineDiff(t *testing.T) {
	out := lineDiff("a\nb\nc\n", "a\nx\nc\n")
	assert.Equal(t, "  a\n- b\n+ x\n  c\n", out)
}

func TestWriteReport(t *testing.T) {
	results := []TestResult{
		{Path: "pass/a.js", Result: Pass},
		{Path: "fail/b.js", Result: Fail, Message: "expected a syntax error"},
	}
	summary := Summary{RunID: "run-1", Total: 2, Passed: 1, Failed: 1, Bytes: 2048, Elapsed: time.Second}

	var buf bytes.Buffer
	WriteReport(&buf, results, summary, false)
	out := buf.String()
	assert.NotContains(t, out, "pass/a.js")
	assert.Contains(t, out, "FAIL fail/b.js expected a syntax error")
	assert.Contains(t, out, "passed:  1 (50.0%)")
	assert.Contains(t, out, "parsed 2.0 kB in 1s (2.0 kB/s)")

	assert.Equal(t, float64(0), Summary{}.PassRate())
	assert.Equal(t, uint64(0), Summary{Bytes: 10}.Throughput())
}
