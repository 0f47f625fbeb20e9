package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/esparse/diag"
	"github.com/example/esparse/token"
)

type expectedToken struct {
	typ token.TokenType
	lit string
}

func checkTokens(t *testing.T, input string, expected []expectedToken, opts ...Option) {
	t.Helper()
	l := New(input, opts...)
	for i, exp := range expected {
		require.NoError(t, l.Next(), "test[%d]", i)
		tok := l.Token()
		assert.Equal(t, exp.typ, tok.Type, "test[%d]: type wrong (lit=%q)", i, tok.Literal)
		assert.Equal(t, exp.lit, tok.Literal, "test[%d]: literal wrong", i)
	}
}

func lexError(t *testing.T, input string, opts ...Option) *diag.Error {
	t.Helper()
	_, err := New(input, opts...).Tokenize()
	require.Error(t, err)
	derr, ok := err.(*diag.Error)
	require.True(t, ok, "expected *diag.Error, got %T", err)
	assert.Equal(t, diag.LexError, derr.Kind)
	return derr
}

func TestSingleCharTokens(t *testing.T) {
	checkTokens(t, `( ) { } [ ] ; : , ~`, []expectedToken{
		{token.LeftParen, "("},
		{token.RightParen, ")"},
		{token.LeftBrace, "{"},
		{token.RightBrace, "}"},
		{token.LeftBracket, "["},
		{token.RightBracket, "]"},
		{token.Semicolon, ";"},
		{token.Colon, ":"},
		{token.Comma, ","},
		{token.BitwiseNot, "~"},
		{token.EOF, ""},
	})
}

func TestOperators(t *testing.T) {
	checkTokens(t, `a + b - c * d % e ** f`, []expectedToken{
		{token.Identifier, "a"},
		{token.Plus, "+"},
		{token.Identifier, "b"},
		{token.Minus, "-"},
		{token.Identifier, "c"},
		{token.Asterisk, "*"},
		{token.Identifier, "d"},
		{token.Percent, "%"},
		{token.Identifier, "e"},
		{token.Exponent, "**"},
		{token.Identifier, "f"},
		{token.EOF, ""},
	})

	checkTokens(t, `x >>>= y ??= z &&= w ||= v **= u`, []expectedToken{
		{token.Identifier, "x"},
		{token.UnsignedRightShiftAssign, ">>>="},
		{token.Identifier, "y"},
		{token.NullishAssign, "??="},
		{token.Identifier, "z"},
		{token.AndAssign, "&&="},
		{token.Identifier, "w"},
		{token.OrAssign, "||="},
		{token.Identifier, "v"},
		{token.ExponentAssign, "**="},
		{token.Identifier, "u"},
	})

	checkTokens(t, `a === b !== c == d != e <= f >= g << h >> i >>> j`, []expectedToken{
		{token.Identifier, "a"},
		{token.StrictEqual, "==="},
		{token.Identifier, "b"},
		{token.StrictNotEqual, "!=="},
		{token.Identifier, "c"},
		{token.Equal, "=="},
		{token.Identifier, "d"},
		{token.NotEqual, "!="},
		{token.Identifier, "e"},
		{token.LessThanOrEqual, "<="},
		{token.Identifier, "f"},
		{token.GreaterThanOrEqual, ">="},
		{token.Identifier, "g"},
		{token.LeftShift, "<<"},
		{token.Identifier, "h"},
		{token.RightShift, ">>"},
		{token.Identifier, "i"},
		{token.UnsignedRightShift, ">>>"},
		{token.Identifier, "j"},
	})
}

func TestOptionalChainAndNullish(t *testing.T) {
	checkTokens(t, `a?.b ?? c`, []expectedToken{
		{token.Identifier, "a"},
		{token.OptionalChain, "?."},
		{token.Identifier, "b"},
		{token.NullishCoalesce, "??"},
		{token.Identifier, "c"},
	})

	// a digit after ?. makes it a conditional
	checkTokens(t, `a?.5:1`, []expectedToken{
		{token.Identifier, "a"},
		{token.QuestionMark, "?"},
		{token.Number, ".5"},
		{token.Colon, ":"},
		{token.Number, "1"},
	})
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	checkTokens(t, `var let yield async await of class #priv $_x`, []expectedToken{
		{token.Var, "var"},
		{token.Identifier, "let"},
		{token.Identifier, "yield"},
		{token.Identifier, "async"},
		{token.Identifier, "await"},
		{token.Identifier, "of"},
		{token.Class, "class"},
		{token.PrivateName, "#priv"},
		{token.Identifier, "$_x"},
		{token.EOF, ""},
	})
}

func TestEscapedIdentifier(t *testing.T) {
	l := New(`\u0061bc`)
	require.NoError(t, l.Next())
	assert.Equal(t, token.Identifier, l.Token().Type)
	assert.Equal(t, "abc", l.Token().Value)
	assert.True(t, l.ContainsEsc())
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   token.TokenType
		num   float64
		value string
	}{
		{"42", token.Number, 42, ""},
		{"3.14", token.Number, 3.14, ""},
		{".5", token.Number, 0.5, ""},
		{"1e3", token.Number, 1000, ""},
		{"2E-2", token.Number, 0.02, ""},
		{"0x1F", token.Number, 31, ""},
		{"0o17", token.Number, 15, ""},
		{"0b101", token.Number, 5, ""},
		{"1_000_000", token.Number, 1000000, ""},
		{"017", token.Number, 15, ""},
		{"019", token.Number, 19, ""},
		{"10n", token.BigInt, 0, "10"},
		{"1_0n", token.BigInt, 0, "10"},
		{"0xffn", token.BigInt, 0, "0xff"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			require.NoError(t, l.Next())
			tok := l.Token()
			assert.Equal(t, tt.typ, tok.Type)
			assert.Equal(t, tt.input, tok.Literal)
			if tt.typ == token.Number {
				assert.InDelta(t, tt.num, tok.Num, 1e-9)
			} else {
				assert.Equal(t, tt.value, tok.Value)
			}
		})
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		input string
		value string
	}{
		{`"hello"`, "hello"},
		{`'single'`, "single"},
		{`"a\nb"`, "a\nb"},
		{`"\x41"`, "A"},
		{`"B"`, "B"},
		{`"\u{1F600}"`, "\U0001F600"},
		{`"😀"`, "\U0001F600"},
		{`"\101"`, "A"},
		{`"line\
continued"`, "linecontinued"},
		{`"\q"`, "q"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			require.NoError(t, l.Next())
			tok := l.Token()
			assert.Equal(t, token.String, tok.Type)
			assert.Equal(t, tt.value, tok.Value)
			assert.Equal(t, tt.input, tok.Literal)
		})
	}
}

func TestRegExpVersusDivision(t *testing.T) {
	checkTokens(t, `x = /ab+c/gi`, []expectedToken{
		{token.Identifier, "x"},
		{token.Assign, "="},
		{token.RegExp, "/ab+c/gi"},
		{token.EOF, ""},
	})

	checkTokens(t, `a / b / c`, []expectedToken{
		{token.Identifier, "a"},
		{token.Slash, "/"},
		{token.Identifier, "b"},
		{token.Slash, "/"},
		{token.Identifier, "c"},
	})

	// the parens of an if head end a statement context
	checkTokens(t, `if (x) /re/.test(y)`, []expectedToken{
		{token.If, "if"},
		{token.LeftParen, "("},
		{token.Identifier, "x"},
		{token.RightParen, ")"},
		{token.RegExp, "/re/"},
		{token.Dot, "."},
	})

	// call parens end an expression
	checkTokens(t, `f(x) / 2`, []expectedToken{
		{token.Identifier, "f"},
		{token.LeftParen, "("},
		{token.Identifier, "x"},
		{token.RightParen, ")"},
		{token.Slash, "/"},
		{token.Number, "2"},
	})

	// a block statement may be followed by a regexp
	checkTokens(t, `{} /foo/`, []expectedToken{
		{token.LeftBrace, "{"},
		{token.RightBrace, "}"},
		{token.RegExp, "/foo/"},
	})

	checkTokens(t, `/[/]/.source`, []expectedToken{
		{token.RegExp, "/[/]/"},
		{token.Dot, "."},
		{token.Identifier, "source"},
	})
}

func TestRegExpToken(t *testing.T) {
	l := New(`/a\/b/dgimsuy`)
	require.NoError(t, l.Next())
	tok := l.Token()
	assert.Equal(t, token.RegExp, tok.Type)
	assert.Equal(t, `a\/b`, tok.Value)
	assert.Equal(t, "dgimsuy", tok.Flags)
}

func TestTemplateTokens(t *testing.T) {
	checkTokens(t, "`a${b}c`", []expectedToken{
		{token.BackQuote, "`"},
		{token.Template, "a"},
		{token.DollarBrace, "${"},
		{token.Identifier, "b"},
		{token.RightBrace, "}"},
		{token.Template, "c"},
		{token.BackQuote, "`"},
		{token.EOF, ""},
	})

	checkTokens(t, "``", []expectedToken{
		{token.BackQuote, "`"},
		{token.Template, ""},
		{token.BackQuote, "`"},
		{token.EOF, ""},
	})

	// object literal braces inside a substitution
	checkTokens(t, "`${{a: 1}}`", []expectedToken{
		{token.BackQuote, "`"},
		{token.Template, ""},
		{token.DollarBrace, "${"},
		{token.LeftBrace, "{"},
		{token.Identifier, "a"},
		{token.Colon, ":"},
		{token.Number, "1"},
		{token.RightBrace, "}"},
		{token.RightBrace, "}"},
		{token.Template, ""},
		{token.BackQuote, "`"},
	})
}

func TestTemplateCookedValue(t *testing.T) {
	tokens, err := New("`x\\ty\r\nz`").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, token.Template, tokens[1].Type)
	assert.Equal(t, "x\ty\nz", tokens[1].Value)
}

func TestInvalidTemplateEscape(t *testing.T) {
	tokens, err := New("`\\unicode`").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, token.InvalidTemplate, tokens[1].Type)
	assert.Equal(t, `\unicode`, tokens[1].Literal)
}

func TestCodePointOffsets(t *testing.T) {
	tokens, err := New("\"\U0001F600\" + x\n  y").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, 3, tokens[0].End)
	assert.Equal(t, 4, tokens[1].Start)
	assert.Equal(t, 6, tokens[2].Start)

	assert.Equal(t, 10, tokens[3].Start)
	assert.Equal(t, token.Position{Line: 2, Column: 2}, tokens[3].StartPos)
	assert.Equal(t, token.Position{Line: 2, Column: 3}, tokens[3].EndPos)
}

func TestCRLFLineCounting(t *testing.T) {
	tokens, err := New("a\r\nb\rc\u2028d").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	for i, line := range []int{1, 2, 3, 4} {
		assert.Equal(t, line, tokens[i].StartPos.Line, "token %d", i)
		assert.Equal(t, 0, tokens[i].StartPos.Column, "token %d", i)
	}
}

func TestComments(t *testing.T) {
	var comments []Comment
	l := New("// line\n/* block\n */ x", OnComment(func(c Comment) {
		comments = append(comments, c)
	}))
	tokens, err := l.Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "x", tokens[0].Value)
	assert.Equal(t, token.Position{Line: 3, Column: 4}, tokens[0].StartPos)

	require.Len(t, comments, 2)
	assert.False(t, comments[0].Block)
	assert.Equal(t, " line", comments[0].Text)
	assert.Equal(t, 0, comments[0].Start)
	assert.Equal(t, 7, comments[0].End)
	assert.True(t, comments[1].Block)
	assert.Equal(t, " block\n ", comments[1].Text)
	assert.Equal(t, token.Position{Line: 2, Column: 0}, comments[1].StartPos)
	assert.Equal(t, token.Position{Line: 3, Column: 3}, comments[1].EndPos)
}

func TestHashBang(t *testing.T) {
	tokens, err := New("#!/usr/bin/env node\nx").Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "x", tokens[0].Value)

	derr := lexError(t, "#!/usr/bin/env node\nx", HashBang(false))
	assert.Equal(t, "Unexpected character '#'", derr.Message)
}

func TestHTMLLikeComments(t *testing.T) {
	checkTokens(t, "x\n--> ignored\ny", []expectedToken{
		{token.Identifier, "x"},
		{token.Identifier, "y"},
		{token.EOF, ""},
	})

	checkTokens(t, "<!-- ignored\nx", []expectedToken{
		{token.Identifier, "x"},
		{token.EOF, ""},
	})

	// module code has no HTML-like comments
	checkTokens(t, "a\n--> b", []expectedToken{
		{token.Identifier, "a"},
		{token.Decrement, "--"},
		{token.GreaterThan, ">"},
		{token.Identifier, "b"},
	}, Module())
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input   string
		opts    []Option
		message string
		pos     int
	}{
		{`"abc`, nil, "Unterminated string constant", 0},
		{"\"ab\ncd\"", nil, "Unterminated string constant", 0},
		{`/abc`, nil, "Unterminated regular expression", 0},
		{`/a/gg`, nil, "Invalid regular expression flag", 0},
		{"/* open", nil, "Unterminated comment", 0},
		{"`open", nil, "Unterminated template", 1},
		{`1__0`, nil, "Numeric separator must be exactly one underscore", 2},
		{`1_`, nil, "Numeric separator is not allowed at the last of digits", 1},
		{`3in []`, nil, "Identifier directly after number", 1},
		{`0x`, nil, "Expected number in radix 16", 2},
		{`@`, nil, "Unexpected character '@'", 0},
		{`010`, []Option{Module()}, "Octal literal in strict mode", 0},
		{`08`, []Option{Module()}, "Octal literal in strict mode", 0},
		{`"\01"`, []Option{Module()}, "Octal literal in strict mode", 1},
		{`"\u{110000}"`, nil, "Code point out of bounds", 4},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := lexError(t, tt.input, tt.opts...)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.pos, err.Pos)
		})
	}
}

func TestStrictModeToggle(t *testing.T) {
	l := New(`010`)
	l.SetStrict(true)
	assert.Error(t, l.Next())

	l = New(`010`)
	require.NoError(t, l.Next())
	assert.Equal(t, float64(8), l.Token().Num)
}

func TestHelpers(t *testing.T) {
	l := New("a /* c */\n  b")
	assert.Equal(t, 'a', l.CharAt(0))
	assert.Equal(t, rune(-1), l.CharAt(100))
	assert.Equal(t, "/* c */", l.Slice(2, 9))
	assert.Equal(t, 12, l.SkipSpaceFrom(1))
	assert.True(t, l.HasLineBreak(0, 12))
	assert.False(t, l.HasLineBreak(0, 9))
	assert.True(t, l.HasPrefixAt(2, "/*"))
	assert.Equal(t, token.Position{Line: 2, Column: 2}, l.PositionAt(12))
}

func TestContextStack(t *testing.T) {
	tests := []struct {
		input       string
		context     *Context
		exprAllowed bool
	}{
		{"if", BraceStat, false},
		{"(", ParenStat, true},
		{"a", ParenStat, false},
		{")", BraceStat, true},
		{"{", BraceStat, true},
		{"}", BraceStat, true},
		{"x", BraceStat, false},
		{"=", BraceStat, true},
		{"{", BraceExpr, true},
		{"}", BraceStat, false},
		{"f", BraceStat, false},
		{"(", ParenExpr, true},
		{")", BraceStat, false},
	}

	l := New("if (a) {} x = {} f()")
	for i, tt := range tests {
		require.NoError(t, l.Next(), "test[%d]", i)
		assert.Equal(t, tt.input, l.Token().Literal, "test[%d]", i)
		assert.Same(t, tt.context, l.CurContext(), "test[%d]: context %s", i, l.CurContext())
		assert.Equal(t, tt.exprAllowed, l.ExprAllowed(), "test[%d]: exprAllowed", i)
	}
}
