package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/esparse/token"
)

func TestErrorString(t *testing.T) {
	err := New(SyntaxError, 4, token.Position{Line: 1, Column: 4}, "Unexpected keyword '%s'", "if")
	assert.Equal(t, "Unexpected keyword 'if'", err.Message)
	assert.Equal(t, "SyntaxError: Unexpected keyword 'if' (1:4)", err.Error())

	lex := New(LexError, 0, token.Position{Line: 2, Column: 0}, "Unterminated comment")
	assert.Equal(t, "LexError: Unterminated comment (2:0)", lex.Error())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}

func TestWarningList(t *testing.T) {
	var l List
	assert.Equal(t, 0, l.Len())
	assert.NoError(t, l.Err())

	l.Add(3, token.Position{Line: 1, Column: 3}, "first")
	l.Add(9, token.Position{Line: 2, Column: 1}, "second %d", 2)
	require.Equal(t, 2, l.Len())
	assert.Equal(t, "second 2", l[1].Message)
	assert.Equal(t, 9, l[1].Pos)

	err := l.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first (1:3)")
	assert.Contains(t, err.Error(), "second 2 (2:1)")
}

func TestFormat(t *testing.T) {
	src := "let a = 1;\nlet b = ;\n"
	err := New(SyntaxError, 19, token.Position{Line: 2, Column: 8}, "Unexpected token")
	err.File = "input.js"

	out := NewFormatter(false).Format(err, src)
	expected := "error: Unexpected token\n" +
		" --> input.js:2:9\n" +
		"  |\n" +
		"2 | let b = ;\n" +
		"  |         ^\n"
	assert.Equal(t, expected, out)
}

func TestFormatWarningAndTabs(t *testing.T) {
	src := "\tget a(x) {}"
	w := Warning{Message: "getter should have no params", Pos: 1, Position: token.Position{Line: 1, Column: 1}}

	out := NewFormatter(false).FormatWarning(w, "", src)
	expected := "warning: getter should have no params\n" +
		" --> 1:2\n" +
		"  |\n" +
		"1 | \tget a(x) {}\n" +
		"  | \t^\n"
	assert.Equal(t, expected, out)
}

func TestFormatLexErrorPastEnd(t *testing.T) {
	err := New(LexError, 0, token.Position{Line: 5, Column: 0}, "Unterminated string constant")
	out := NewFormatter(false).Format(err, "x")
	assert.Equal(t, "lex error: Unterminated string constant\n --> 5:1\n", out)
}

func TestFormatColor(t *testing.T) {
	err := New(SyntaxError, 0, token.Position{Line: 1, Column: 0}, "Unexpected token")
	out := NewFormatter(true).Format(err, "}")
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "Unexpected token")
}
