// Package testrunner checks the parser against conformance corpora: the
// test262 suite (test/ with YAML frontmatter) and the tc39
// test262-parser-tests layout (pass/, pass-explicit/, fail/, early/).
package testrunner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/example/esparse/cache"
	"github.com/example/esparse/diag"
	"github.com/example/esparse/parser"
)

type Result int

const (
	Pass Result = iota
	Fail
	Skip
	Error
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skip:
		return "SKIP"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

type TestResult struct {
	Path    string
	Result  Result
	Message string
	Elapsed time.Duration
	Bytes   int
}

type Summary struct {
	RunID   string
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errors  int
	Bytes   int64
	Elapsed time.Duration
}

type Config struct {
	Dir       string
	Filter    string
	Limit     int
	Workers   int
	Timeout   time.Duration
	CacheSize int
	Verbose   bool
	Logger    zerolog.Logger
}

// caseKind says what a corpus expects of a file.
type caseKind int

const (
	// a test262 file judged by its frontmatter
	kindTest262 caseKind = iota
	// must parse
	kindPass
	// must be rejected
	kindFail
)

type testCase struct {
	path string
	rel  string
	kind caseKind
	// parser-tests marks module code with a .module.js suffix
	module bool
	// path of the pass-explicit twin whose AST must match
	explicit string
}

type runner struct {
	cfg   Config
	cache *cache.Cache
	log   zerolog.Logger
}

// Run discovers and runs the corpus under cfg.Dir, returning results in path
// order and a summary.
func Run(cfg Config) ([]TestResult, Summary, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.CacheSize < 1 {
		cfg.CacheSize = 1024
	}
	c, err := cache.New(cfg.CacheSize)
	if err != nil {
		return nil, Summary{}, err
	}

	cases, err := discover(cfg.Dir, cfg.Filter)
	if err != nil {
		return nil, Summary{}, err
	}
	if cfg.Limit > 0 && len(cases) > cfg.Limit {
		cases = cases[:cfg.Limit]
	}

	summary := Summary{RunID: uuid.New().String(), Total: len(cases)}
	r := &runner{cfg: cfg, cache: c, log: cfg.Logger.With().Str("run", summary.RunID[:8]).Logger()}
	r.log.Info().Int("tests", len(cases)).Int("workers", cfg.Workers).Str("dir", cfg.Dir).Msg("starting run")

	start := time.Now()
	results := make([]TestResult, len(cases))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.runWithTimeout(cases[i])
			}
		}()
	}
	for i := range cases {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, tr := range results {
		summary.Bytes += int64(tr.Bytes)
		switch tr.Result {
		case Pass:
			summary.Passed++
		case Fail:
			summary.Failed++
		case Skip:
			summary.Skipped++
		case Error:
			summary.Errors++
		}
		if tr.Result == Fail || tr.Result == Error {
			r.log.Debug().Str("test", tr.Path).Str("result", tr.Result.String()).Msg(tr.Message)
		} else if cfg.Verbose {
			r.log.Info().Str("test", tr.Path).Str("result", tr.Result.String()).Msg(tr.Message)
		}
	}
	summary.Elapsed = time.Since(start)

	r.log.Info().
		Int("passed", summary.Passed).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Int("errors", summary.Errors).
		Dur("elapsed", summary.Elapsed).
		Msg("run finished")
	return results, summary, nil
}

// discover picks the corpus layout from the directories present.
func discover(dir, filter string) ([]*testCase, error) {
	if info, err := os.Stat(filepath.Join(dir, "test")); err == nil && info.IsDir() {
		return discoverTest262(dir, filter)
	}
	if info, err := os.Stat(filepath.Join(dir, "pass")); err == nil && info.IsDir() {
		return discoverParserTests(dir, filter)
	}
	return nil, errors.Errorf("%s holds neither test/ nor pass/", dir)
}

func discoverTest262(dir, filter string) ([]*testCase, error) {
	testDir := filepath.Join(dir, "test")
	var cases []*testCase
	err := filepath.Walk(testDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".js") || strings.Contains(path, "_FIXTURE") {
			return nil
		}
		rel, _ := filepath.Rel(dir, path)
		if filter != "" && !strings.Contains(rel, filter) {
			return nil
		}
		cases = append(cases, &testCase{path: path, rel: rel, kind: kindTest262})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", testDir)
	}
	return cases, nil
}

func discoverParserTests(dir, filter string) ([]*testCase, error) {
	var cases []*testCase
	for _, sub := range []string{"pass", "fail", "early"} {
		entries, err := os.ReadDir(filepath.Join(dir, sub))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", sub)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".js") {
				continue
			}
			rel := filepath.Join(sub, name)
			if filter != "" && !strings.Contains(rel, filter) {
				continue
			}
			tc := &testCase{
				path:   filepath.Join(dir, rel),
				rel:    rel,
				kind:   kindFail,
				module: strings.HasSuffix(name, ".module.js"),
			}
			if sub == "pass" {
				tc.kind = kindPass
				explicit := filepath.Join(dir, "pass-explicit", name)
				if _, err := os.Stat(explicit); err == nil {
					tc.explicit = explicit
				}
			}
			cases = append(cases, tc)
		}
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].rel < cases[j].rel })
	return cases, nil
}

// runWithTimeout bounds a single test. A parse that overruns is reported and
// left to finish in the background.
func (r *runner) runWithTimeout(tc *testCase) TestResult {
	start := time.Now()
	resultCh := make(chan TestResult, 1)
	go func() {
		resultCh <- r.runCase(tc)
	}()

	var tr TestResult
	select {
	case tr = <-resultCh:
	case <-time.After(r.cfg.Timeout):
		tr = TestResult{Path: tc.rel, Result: Error, Message: "timeout (" + r.cfg.Timeout.String() + ")"}
	}
	tr.Elapsed = time.Since(start)
	return tr
}

func (r *runner) runCase(tc *testCase) TestResult {
	data, err := os.ReadFile(tc.path)
	if err != nil {
		return TestResult{Path: tc.rel, Result: Error, Message: "read error: " + err.Error()}
	}
	source := string(data)
	var tr TestResult
	switch tc.kind {
	case kindTest262:
		tr = r.runTest262(tc, source)
	case kindPass:
		tr = r.runPass(tc, source)
	case kindFail:
		tr = r.expectRejected(tc, source, tc.module)
	}
	tr.Path = tc.rel
	tr.Bytes = len(data)
	return tr
}

// mode is one way of parsing a test262 source.
type mode struct {
	name   string
	module bool
	strict bool
}

func test262Modes(meta TestMetadata) []mode {
	switch {
	case meta.HasFlag("module"):
		return []mode{{name: "module", module: true}}
	case meta.HasFlag("onlyStrict"):
		return []mode{{name: "strict", strict: true}}
	case meta.HasFlag("noStrict"), meta.HasFlag("raw"):
		return []mode{{name: "sloppy"}}
	}
	return []mode{{name: "sloppy"}, {name: "strict", strict: true}}
}

func (r *runner) runTest262(tc *testCase, source string) TestResult {
	meta, err := parseMetadata(source)
	if err != nil {
		return TestResult{Result: Error, Message: err.Error()}
	}
	for _, feat := range meta.Features {
		if isUnsupportedFeature(feat) {
			return TestResult{Result: Skip, Message: "unsupported feature: " + feat}
		}
	}

	for _, m := range test262Modes(meta) {
		src := source
		if m.strict {
			src = "\"use strict\";\n" + source
		}
		_, err := r.parse(src, tc.rel, m.module)
		if err != nil && !isSyntaxError(err) {
			return TestResult{Result: Error, Message: err.Error()}
		}
		switch {
		case meta.ExpectsParseError() && err == nil:
			return TestResult{Result: Fail, Message: "expected SyntaxError in " + m.name + " mode"}
		case !meta.ExpectsParseError() && err != nil:
			return TestResult{Result: Fail, Message: m.name + ": " + err.Error()}
		}
	}
	return TestResult{Result: Pass}
}

func (r *runner) runPass(tc *testCase, source string) TestResult {
	res, err := r.parse(source, tc.rel, tc.module)
	if err != nil {
		return TestResult{Result: Fail, Message: err.Error()}
	}
	if tc.explicit == "" {
		return TestResult{Result: Pass}
	}

	data, err := os.ReadFile(tc.explicit)
	if err != nil {
		return TestResult{Result: Error, Message: "read error: " + err.Error()}
	}
	explicit, err := r.parse(string(data), tc.explicit, tc.module)
	if err != nil {
		return TestResult{Result: Fail, Message: "pass-explicit: " + err.Error()}
	}
	diff, err := compareASTs(res.Program, explicit.Program)
	if err != nil {
		return TestResult{Result: Error, Message: err.Error()}
	}
	if diff != "" {
		return TestResult{Result: Fail, Message: "AST differs from pass-explicit:\n" + diff}
	}
	return TestResult{Result: Pass}
}

func (r *runner) expectRejected(tc *testCase, source string, module bool) TestResult {
	_, err := r.parse(source, tc.rel, module)
	switch {
	case err == nil:
		return TestResult{Result: Fail, Message: "expected a syntax error"}
	case !isSyntaxError(err):
		return TestResult{Result: Error, Message: err.Error()}
	}
	return TestResult{Result: Pass}
}

func (r *runner) parse(source, name string, module bool) (*parser.Result, error) {
	opts := []parser.Option{parser.WithLogger(r.log)}
	if module {
		opts = append(opts, parser.WithModule())
	}
	return r.cache.Parse(source, name, opts...)
}

func isSyntaxError(err error) bool {
	_, ok := errors.Cause(err).(*diag.Error)
	return ok
}
