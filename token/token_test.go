package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"var", Var},
		{"function", Function},
		{"instanceof", Instanceof},
		{"with", With},
		{"let", Identifier},
		{"async", Identifier},
		{"await", Identifier},
		{"yield", Identifier},
		{"of", Identifier},
		{"undefined", Identifier},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, LookupIdentifier(tt.input), tt.input)
	}
}

func TestIsReservedWord(t *testing.T) {
	assert.True(t, IsReservedWord("enum", false))
	assert.True(t, IsReservedWord("enum", true))
	assert.False(t, IsReservedWord("let", false))
	assert.True(t, IsReservedWord("let", true))
	assert.True(t, IsReservedWord("implements", true))
	assert.False(t, IsReservedWord("await", true))
	assert.False(t, IsReservedWord("foo", true))
}

func TestTokenProperties(t *testing.T) {
	assert.Equal(t, "=>", Arrow.String())
	assert.Equal(t, "name", Identifier.String())
	assert.Equal(t, "ILLEGAL", TokenType(-1).String())
	assert.Equal(t, "ILLEGAL", numTokenTypes.String())

	assert.True(t, Return.BeforeExpr())
	assert.False(t, RightParen.BeforeExpr())
	assert.True(t, New.StartsExpr())
	assert.True(t, For.IsLoop())
	assert.False(t, Switch.IsLoop())
	assert.True(t, NullishAssign.IsAssign())
	assert.True(t, Typeof.IsPrefix())
	assert.True(t, Increment.IsPostfix())
	assert.True(t, Var.IsKeyword())
	assert.False(t, Identifier.IsKeyword())
	assert.True(t, LeftBrace.UpdatesContext())
	assert.False(t, Semicolon.UpdatesContext())
}

func TestPrecedence(t *testing.T) {
	order := []TokenType{Or, And, BitwiseOr, BitwiseXor, BitwiseAnd, StrictEqual, Instanceof, LeftShift, Plus, Asterisk, Exponent}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1].Precedence(), order[i].Precedence(), order[i].String())
	}
	assert.Equal(t, Or.Precedence(), NullishCoalesce.Precedence())
	assert.Equal(t, 0, Not.Precedence())
	assert.Equal(t, 0, Assign.Precedence())
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, `name("x")`, Token{Type: Identifier, Value: "x"}.String())
	assert.Equal(t, ";", Token{Type: Semicolon}.String())
	assert.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())
}
