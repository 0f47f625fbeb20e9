package testrunner

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// TestMetadata is the YAML frontmatter of a test262 file.
type TestMetadata struct {
	Description string              `yaml:"description"`
	Features    []string            `yaml:"features"`
	Flags       []string            `yaml:"flags"`
	Includes    []string            `yaml:"includes"`
	Negative    NegativeExpectation `yaml:"negative"`
}

type NegativeExpectation struct {
	Phase string `yaml:"phase"` // "parse", "resolution", "runtime"
	Type  string `yaml:"type"`  // "SyntaxError", "ReferenceError", etc.
}

// HasFlag reports whether the test lists flag.
func (m TestMetadata) HasFlag(flag string) bool {
	for _, f := range m.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// ExpectsParseError reports whether the source must be rejected by a parser.
func (m TestMetadata) ExpectsParseError() bool {
	return m.Negative.Phase == "parse" && m.Negative.Type == "SyntaxError"
}

// parseMetadata decodes the frontmatter between /*--- and ---*/. A file
// without frontmatter yields the zero metadata.
func parseMetadata(source string) (TestMetadata, error) {
	var meta TestMetadata
	startIdx := strings.Index(source, "/*---")
	if startIdx < 0 {
		return meta, nil
	}
	endIdx := strings.Index(source[startIdx:], "---*/")
	if endIdx < 0 {
		return meta, errors.New("unterminated frontmatter")
	}
	text := source[startIdx+5 : startIdx+endIdx]
	if err := yaml.Unmarshal([]byte(text), &meta); err != nil {
		return meta, errors.Wrap(err, "decoding frontmatter")
	}
	return meta, nil
}

// Features a parser-only run cannot judge because the grammar does not
// include them.
var unsupportedFeatures = map[string]bool{
	"decorators":                    true,
	"import-assertions":             true,
	"import-attributes":             true,
	"json-modules":                  true,
	"source-phase-imports":          true,
	"import-defer":                  true,
	"explicit-resource-management":  true,
	"regexp-modifiers":              true,
	"regexp-duplicate-named-groups": true,
}

func isUnsupportedFeature(feat string) bool {
	return unsupportedFeatures[feat]
}
