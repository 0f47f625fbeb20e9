package ast_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/esparse/ast"
	"github.com/example/esparse/parser"
)

func parse(t *testing.T, src string, opts ...parser.Option) *ast.Program {
	t.Helper()
	res, err := parser.ParseProgram(src, "", opts...)
	require.NoError(t, err)
	return res.Program
}

func identNames(node ast.Node) []string {
	var names []string
	ast.Inspect(node, func(n ast.Node) bool {
		if id, ok := n.(*ast.Identifier); ok {
			names = append(names, id.Name)
		}
		return true
	})
	return names
}

func TestInspectOrder(t *testing.T) {
	prog := parse(t, "function f(a, b = c) { return a ? `${b}-${d}` : e[g] }")
	assert.Equal(t, []string{"f", "a", "b", "c", "a", "b", "d", "e", "g"}, identNames(prog))

	prog = parse(t, "for (let [x, , y] of z) try { w } catch ({p: q}) {} finally { r }")
	assert.Equal(t, []string{"x", "y", "z", "w", "p", "q", "r"}, identNames(prog))

	prog = parse(t, "class A extends B { #m; static s = t; get k() {} static { u } }")
	assert.Equal(t, []string{"A", "B", "s", "t", "k", "u"}, identNames(prog))
}

func TestInspectShorthandAndSpecifiers(t *testing.T) {
	prog := parse(t, "({a, b: c, ...d})")
	assert.Equal(t, []string{"a", "b", "c", "d"}, identNames(prog))

	prog = parse(t, "import x, {y as z} from 'm'; export {x, z as w}; export * as n from 'o'", parser.WithModule())
	assert.Equal(t, []string{"x", "y", "z", "x", "z", "w", "n"}, identNames(prog))
}

func TestInspectPrune(t *testing.T) {
	prog := parse(t, "outer(); function f() { inner() }")
	var names []string
	ast.Inspect(prog, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FunctionDeclaration:
			return false
		case *ast.Identifier:
			names = append(names, n.Name)
		}
		return true
	})
	assert.Equal(t, []string{"outer"}, names)
}

// depthVisitor tracks nesting with the nil call Walk makes after children.
type depthVisitor struct {
	depth, deepest *int
}

func (v depthVisitor) Visit(n ast.Node) ast.Visitor {
	if n == nil {
		*v.depth--
		return nil
	}
	*v.depth++
	if *v.depth > *v.deepest {
		*v.deepest = *v.depth
	}
	return v
}

func TestWalkDepth(t *testing.T) {
	prog := parse(t, "a + (b * c)")
	var depth, deepest int
	ast.Walk(depthVisitor{&depth, &deepest}, prog)
	assert.Equal(t, 0, depth)
	// Program > ExpressionStatement > Binary > Binary > Identifier
	assert.Equal(t, 5, deepest)
}

func TestLiteralJSON(t *testing.T) {
	lit := &ast.Literal{Value: math.Inf(1), Raw: "1e400"}
	out, err := json.Marshal(lit)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"value":null`)
	assert.Contains(t, string(out), `"raw":"1e400"`)
	assert.NotContains(t, string(out), "regex")

	lit = &ast.Literal{Value: 2.5, Raw: "2.5"}
	out, err = json.Marshal(lit)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"value":2.5`)
}
