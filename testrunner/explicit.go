package testrunner

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/example/esparse/ast"
)

// locationKeys are dropped before two trees are compared.
var locationKeys = []string{"start", "end", "loc"}

// normalizedJSON renders prog as indented ESTree JSON without positions.
func normalizedJSON(prog *ast.Program) (string, error) {
	data, err := json.Marshal(prog)
	if err != nil {
		return "", errors.Wrap(err, "encoding AST")
	}
	var tree interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return "", errors.Wrap(err, "decoding AST")
	}
	stripLocations(tree)
	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding AST")
	}
	return string(out), nil
}

func stripLocations(v interface{}) {
	switch v := v.(type) {
	case map[string]interface{}:
		for _, k := range locationKeys {
			delete(v, k)
		}
		for _, child := range v {
			stripLocations(child)
		}
	case []interface{}:
		for _, child := range v {
			stripLocations(child)
		}
	}
}

// compareASTs returns a line diff of the two trees, or "" when they match
// apart from positions.
func compareASTs(a, b *ast.Program) (string, error) {
	left, err := normalizedJSON(a)
	if err != nil {
		return "", err
	}
	right, err := normalizedJSON(b)
	if err != nil {
		return "", err
	}
	if left == right {
		return "", nil
	}
	return lineDiff(left, right), nil
}

// lineDiff renders changed lines with - and + prefixes, and unchanged lines
// with two spaces.
func lineDiff(src, dst string) string {
	dmp := diffmatchpatch.New()
	charsSrc, charsDst, lines := dmp.DiffLinesToChars(src, dst)
	diffs := dmp.DiffMain(charsSrc, charsDst, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var b strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			b.WriteString(prefix)
			b.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
