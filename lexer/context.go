package lexer

import "github.com/example/esparse/token"

// Context is an entry of the token-context stack. The stack decides whether a
// '/' starts a regular expression and whether a '{' opens a block or an object
// literal.
type Context struct {
	Token         string
	IsExpr        bool
	PreserveSpace bool // template text is read verbatim
	Generator     bool
	Unusual       bool // the next token is template text, not a regular token
	name          string
}

func (c *Context) String() string { return c.name }

var (
	BraceStat = &Context{Token: "{", name: "b_stat"}
	BraceExpr = &Context{Token: "{", IsExpr: true, name: "b_expr"}
	BraceTmpl = &Context{Token: "${", name: "b_tmpl"}
	ParenStat = &Context{Token: "(", name: "p_stat"}
	ParenExpr = &Context{Token: "(", IsExpr: true, name: "p_expr"}
	QuoteTmpl = &Context{Token: "`", IsExpr: true, PreserveSpace: true, Unusual: true, name: "q_tmpl"}
	FnStat    = &Context{Token: "function", name: "f_stat"}
	FnExpr    = &Context{Token: "function", IsExpr: true, name: "f_expr"}
	FnExprGen = &Context{Token: "function", IsExpr: true, Generator: true, name: "f_expr_gen"}
	FnGen     = &Context{Token: "function", Generator: true, name: "f_gen"}
)

func (l *Lexer) CurContext() *Context { return l.curContext() }

// OverrideContext replaces the innermost context. The parser uses it once it
// knows better than the lexer's lookbehind, e.g. for object literals.
func (l *Lexer) OverrideContext(ctx *Context) {
	if l.curContext() != ctx {
		l.context[len(l.context)-1] = ctx
	}
}

// PopContext drops the innermost context unless it is the outermost one.
func (l *Lexer) PopContext() {
	if len(l.context) > 1 {
		l.context = l.context[:len(l.context)-1]
	}
}

func (l *Lexer) ExprAllowed() bool     { return l.exprAllowed }
func (l *Lexer) SetExprAllowed(b bool) { l.exprAllowed = b }

// InGeneratorContext reports whether the nearest function context is a
// generator.
func (l *Lexer) InGeneratorContext() bool {
	for i := len(l.context) - 1; i >= 1; i-- {
		if ctx := l.context[i]; ctx.Token == "function" {
			return ctx.Generator
		}
	}
	return false
}

func (l *Lexer) braceIsBlock(prevType token.TokenType) bool {
	parent := l.curContext()
	if parent == FnExpr || parent == FnStat {
		return true
	}
	if prevType == token.Colon && (parent == BraceStat || parent == BraceExpr) {
		return !parent.IsExpr
	}
	// `return {` and `name {` after a line break: the brace opens a block
	if prevType == token.Return || prevType == token.Identifier && l.exprAllowed {
		return l.HasLineBreak(l.prev.End, l.start)
	}
	switch prevType {
	case token.Else, token.Semicolon, token.EOF, token.RightParen, token.Arrow:
		return true
	case token.LeftBrace:
		return parent == BraceStat
	case token.Var, token.Const, token.Identifier:
		return false
	}
	return !l.exprAllowed
}

func (l *Lexer) updateContext(prevType token.TokenType) {
	typ := l.tok.Type
	switch {
	case typ.IsKeyword() && prevType == token.Dot:
		l.exprAllowed = false
	case typ.UpdatesContext():
		l.applyContextRule(typ, prevType)
	default:
		l.exprAllowed = typ.BeforeExpr()
	}
}

func (l *Lexer) applyContextRule(typ, prevType token.TokenType) {
	switch typ {
	case token.RightParen, token.RightBrace:
		if len(l.context) == 1 {
			l.exprAllowed = true
			return
		}
		out := l.context[len(l.context)-1]
		l.context = l.context[:len(l.context)-1]
		if out == BraceStat && l.curContext().Token == "function" {
			out = l.context[len(l.context)-1]
			l.context = l.context[:len(l.context)-1]
		}
		l.exprAllowed = !out.IsExpr

	case token.LeftBrace:
		if l.braceIsBlock(prevType) {
			l.context = append(l.context, BraceStat)
		} else {
			l.context = append(l.context, BraceExpr)
		}
		l.exprAllowed = true

	case token.DollarBrace:
		l.context = append(l.context, BraceTmpl)
		l.exprAllowed = true

	case token.LeftParen:
		switch prevType {
		case token.If, token.For, token.With, token.While:
			l.context = append(l.context, ParenStat)
		default:
			l.context = append(l.context, ParenExpr)
		}
		l.exprAllowed = true

	case token.Increment, token.Decrement:
		// exprAllowed stays unchanged

	case token.Function, token.Class:
		if prevType.BeforeExpr() && prevType != token.Else &&
			!(prevType == token.Semicolon && l.curContext() != ParenStat) &&
			!(prevType == token.Return && l.HasLineBreak(l.prev.End, l.start)) &&
			!((prevType == token.Colon || prevType == token.LeftBrace) && l.curContext() == BraceStat) {
			l.context = append(l.context, FnExpr)
		} else {
			l.context = append(l.context, FnStat)
		}
		l.exprAllowed = false

	case token.Colon:
		if l.curContext().Token == "function" {
			l.context = l.context[:len(l.context)-1]
		}
		l.exprAllowed = true

	case token.BackQuote:
		if l.curContext() == QuoteTmpl {
			l.context = l.context[:len(l.context)-1]
		} else {
			l.context = append(l.context, QuoteTmpl)
		}
		l.exprAllowed = false

	case token.Asterisk:
		if prevType == token.Function {
			i := len(l.context) - 1
			if l.context[i] == FnExpr {
				l.context[i] = FnExprGen
			} else {
				l.context[i] = FnGen
			}
		}
		l.exprAllowed = true

	case token.Identifier:
		allowed := false
		if prevType != token.Dot {
			if l.tok.Value == "of" && !l.exprAllowed ||
				l.tok.Value == "yield" && l.InGeneratorContext() {
				allowed = true
			}
		}
		l.exprAllowed = allowed
	}
}
