package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/esparse/ast"
)

func TestImportDeclarations(t *testing.T) {
	imp := parseModule(t, "import a from 'm'").Body[0].(*ast.ImportDeclaration)
	require.Len(t, imp.Specifiers, 1)
	def := imp.Specifiers[0].(*ast.ImportDefaultSpecifier)
	assert.Equal(t, "a", def.Local.Name)
	assert.Equal(t, "m", imp.Source.Value)

	imp = parseModule(t, "import * as ns from 'm'").Body[0].(*ast.ImportDeclaration)
	ns := imp.Specifiers[0].(*ast.ImportNamespaceSpecifier)
	assert.Equal(t, "ns", ns.Local.Name)

	imp = parseModule(t, "import a, {b, c as d} from 'm';").Body[0].(*ast.ImportDeclaration)
	require.Len(t, imp.Specifiers, 3)
	b := imp.Specifiers[1].(*ast.ImportSpecifier)
	assert.Equal(t, "b", b.Imported.(*ast.Identifier).Name)
	assert.Equal(t, "b", b.Local.Name)
	c := imp.Specifiers[2].(*ast.ImportSpecifier)
	assert.Equal(t, "c", c.Imported.(*ast.Identifier).Name)
	assert.Equal(t, "d", c.Local.Name)

	imp = parseModule(t, "import a, * as ns from 'm'").Body[0].(*ast.ImportDeclaration)
	assert.Len(t, imp.Specifiers, 2)

	imp = parseModule(t, "import 'm'").Body[0].(*ast.ImportDeclaration)
	assert.Empty(t, imp.Specifiers)
	assert.Equal(t, "m", imp.Source.Value)

	imp = parseModule(t, "import {} from 'm'").Body[0].(*ast.ImportDeclaration)
	assert.Empty(t, imp.Specifiers)

	imp = parseModule(t, "import {a,} from 'm'").Body[0].(*ast.ImportDeclaration)
	assert.Len(t, imp.Specifiers, 1)

	imp = parseModule(t, "import {'string name' as x, default as y} from 'm'").Body[0].(*ast.ImportDeclaration)
	named := imp.Specifiers[0].(*ast.ImportSpecifier)
	assert.Equal(t, "string name", named.Imported.(*ast.Literal).Value)
	assert.Equal(t, "x", named.Local.Name)
	kw := imp.Specifiers[1].(*ast.ImportSpecifier)
	assert.Equal(t, "default", kw.Imported.(*ast.Identifier).Name)
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"import {a, a} from 'm'", "Identifier 'a' has already been declared"},
		{"import a, {a} from 'm'", "Identifier 'a' has already been declared"},
		{"import a from 'm'; import {a} from 'n'", "Identifier 'a' has already been declared"},
		{"import {'x'} from 'm'", "Unexpected token"},
		{"import {if} from 'm'", "Unexpected keyword 'if'"},
		{"import {eval} from 'm'", "Binding eval in strict mode"},
		{"import a 'm'", "Unexpected token"},
		{"import * from 'm'", "Unexpected token"},
		{"import a from b", "Unexpected token"},
		{"function f() { import a from 'm' }", "'import' and 'export' may only appear at the top level"},
		{"{ export var a }", "'import' and 'export' may only appear at the top level"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectError(t, tt.input, tt.message, WithModule())
		})
	}

	err := expectError(t, "import a from 'm'", "'import' and 'export' may appear only with 'sourceType: module'")
	assert.Equal(t, 0, err.Pos)
	expectError(t, "export var a", "'import' and 'export' may appear only with 'sourceType: module'")
}

func TestExportDeclarations(t *testing.T) {
	prog := parseModule(t, `
export var a = 1, b;
export function f() {}
export class C {}
export async function g() {}
export let x;
export const {y, z: [w]} = o;
`)
	require.Len(t, prog.Body, 6)
	for _, stmt := range prog.Body {
		exp := stmt.(*ast.ExportNamedDeclaration)
		assert.NotNil(t, exp.Declaration)
		assert.Empty(t, exp.Specifiers)
		assert.Nil(t, exp.Source)
	}
	fn := prog.Body[3].(*ast.ExportNamedDeclaration).Declaration.(*ast.FunctionDeclaration)
	assert.True(t, fn.Async)

	// names bound by a destructuring export are all exported
	expectError(t, "export const {y, z: [w]} = o; export {w}", "Duplicate export 'w'", WithModule())
}

func TestExportDefault(t *testing.T) {
	exp := parseModule(t, "export default function () {}").Body[0].(*ast.ExportDefaultDeclaration)
	fn := exp.Declaration.(*ast.FunctionDeclaration)
	assert.Nil(t, fn.ID)

	exp = parseModule(t, "export default function f() {}").Body[0].(*ast.ExportDefaultDeclaration)
	assert.Equal(t, "f", exp.Declaration.(*ast.FunctionDeclaration).ID.Name)

	exp = parseModule(t, "export default async function () {}").Body[0].(*ast.ExportDefaultDeclaration)
	assert.True(t, exp.Declaration.(*ast.FunctionDeclaration).Async)

	exp = parseModule(t, "export default class {}").Body[0].(*ast.ExportDefaultDeclaration)
	cls := exp.Declaration.(*ast.ClassDeclaration)
	assert.Nil(t, cls.ID)

	exp = parseModule(t, "export default 1 + 2;").Body[0].(*ast.ExportDefaultDeclaration)
	assert.Equal(t, "(1 + 2)", sexpr(exp.Declaration))

	exp = parseModule(t, "export default async () => 1").Body[0].(*ast.ExportDefaultDeclaration)
	assert.True(t, exp.Declaration.(*ast.ArrowFunctionExpression).Async)
}

func TestExportSpecifiers(t *testing.T) {
	prog := parseModule(t, "var a, b; export {a, b as c,}")
	exp := prog.Body[1].(*ast.ExportNamedDeclaration)
	require.Len(t, exp.Specifiers, 2)
	assert.Nil(t, exp.Declaration)
	assert.Nil(t, exp.Source)
	first := exp.Specifiers[0]
	assert.Same(t, first.Local, first.Exported)
	second := exp.Specifiers[1]
	assert.Equal(t, "b", second.Local.(*ast.Identifier).Name)
	assert.Equal(t, "c", second.Exported.(*ast.Identifier).Name)

	exp = parseModule(t, "export {a as 'str', if, 'x' as y} from 'm'").Body[0].(*ast.ExportNamedDeclaration)
	require.Len(t, exp.Specifiers, 3)
	assert.Equal(t, "str", exp.Specifiers[0].Exported.(*ast.Literal).Value)
	assert.Equal(t, "m", exp.Source.Value)

	all := parseModule(t, "export * from 'm'").Body[0].(*ast.ExportAllDeclaration)
	assert.Nil(t, all.Exported)
	assert.Equal(t, "m", all.Source.Value)

	all = parseModule(t, "export * as ns from 'm'").Body[0].(*ast.ExportAllDeclaration)
	assert.Equal(t, "ns", all.Exported.(*ast.Identifier).Name)

	exp = parseModule(t, "export {}").Body[0].(*ast.ExportNamedDeclaration)
	assert.Empty(t, exp.Specifiers)
}

func TestExportErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"export {'a'}", "A string literal cannot be used as an exported binding without `from`."},
		{"export {if}", "Unexpected keyword 'if'"},
		{"export {a}; export {a}", "Duplicate export 'a'"},
		{"export {a, b as a}", "Duplicate export 'a'"},
		{"export default 1; export default 2", "Duplicate export 'default'"},
		{"export {a as default}; export default 1", "Duplicate export 'default'"},
		{"export var a; export {a}", "Duplicate export 'a'"},
		{"export function f() {} export class f {}", "Duplicate export 'f'"},
		{"export * as a from 'm'; export {a}", "Duplicate export 'a'"},
		{`export {"\uD800" as a} from 'x'`, "An export name cannot include a lone surrogate."},
		{`export * as "\uDC00" from 'x'`, "An export name cannot include a lone surrogate."},
		{"export * from m", "Unexpected token"},
		{"export {a} from b", "Unexpected token"},
		{"export default", "Unexpected end of input"},
		{"export function () {}", "Unexpected token"},
		{"export {await}", "Cannot use keyword 'await' outside an async function"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectError(t, tt.input, tt.message, WithModule())
		})
	}

	parse(t, `export {"😀" as a} from 'x'`, WithModule())
	exp := parseModule(t, `export {"😀" as a} from 'x'`).Body[0].(*ast.ExportNamedDeclaration)
	assert.Equal(t, "😀", exp.Specifiers[0].Local.(*ast.Literal).Value)
}

func TestHasLoneSurrogate(t *testing.T) {
	tests := []struct {
		raw      string
		expected bool
	}{
		{`"a"`, false},
		{`"\uD800"`, true},
		{`"\uDC00"`, true},
		{`"😀"`, false},
		{`"\uD83Dx"`, true},
		{`"\\uD800"`, false},
		{`"\n\uD800"`, true},
		{`"A"`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, hasLoneSurrogate(tt.raw), tt.raw)
	}
}

func TestModuleIsStrict(t *testing.T) {
	expectError(t, "var eval", "Binding eval in strict mode", WithModule())
	expectError(t, "010", "Octal literal in strict mode", WithModule())
	expectError(t, "var let", "The keyword 'let' is reserved", WithModule())

	// html-like comments are only allowed in scripts
	prog := parse(t, "x\n--> y").Program
	assert.Len(t, prog.Body, 1)
	expectError(t, "x\n--> y", "Unexpected token", WithModule())
}
