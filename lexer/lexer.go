package lexer

import (
	"strings"

	"github.com/example/esparse/diag"
	"github.com/example/esparse/token"
)

// Comment is a line or block comment skipped between tokens.
type Comment struct {
	Block            bool
	Text             string
	Start, End       int
	StartPos, EndPos token.Position
}

type Option func(*Lexer)

// Module lexes with the module goal: strict mode, no HTML-like comments.
func Module() Option {
	return func(l *Lexer) {
		l.module = true
		l.strict = true
	}
}

// HashBang controls whether a leading #! line is skipped as a comment.
func HashBang(allow bool) Option {
	return func(l *Lexer) { l.allowHashBang = allow }
}

// OnComment registers a callback invoked for every skipped comment.
func OnComment(fn func(Comment)) Option {
	return func(l *Lexer) { l.onComment = fn }
}

type Lexer struct {
	input []rune
	pos   int // current offset into input

	line      int // current line, 1-based
	lineStart int // offset of the first character on the current line

	start    int // start offset of the token being read
	startPos token.Position

	tok  token.Token // current token
	prev token.Token // token before tok

	context     []*Context
	exprAllowed bool
	containsEsc bool // the last word contained a \u escape

	strict            bool
	module            bool
	allowHashBang     bool
	inTemplateElement bool

	onComment func(Comment)
}

func New(input string, opts ...Option) *Lexer {
	l := &Lexer{
		input:         []rune(input),
		line:          1,
		context:       []*Context{BraceStat},
		exprAllowed:   true,
		allowHashBang: true,
	}
	l.tok.Type = token.EOF
	for _, opt := range opts {
		opt(l)
	}
	if l.allowHashBang && strings.HasPrefix(input, "#!") {
		l.skipLineComment(2)
	}
	return l
}

// Next advances to the next token. The returned error is always a *diag.Error
// of kind LexError.
func (l *Lexer) Next() (err error) {
	defer l.recoverLex(&err)
	l.prev = l.tok
	l.nextToken()
	return nil
}

// Tokenize reads the whole input, maintaining the token contexts on its own.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		if err := l.Next(); err != nil {
			return tokens, err
		}
		tokens = append(tokens, l.tok)
		if l.tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) Token() token.Token { return l.tok }
func (l *Lexer) Prev() token.Token  { return l.prev }
func (l *Lexer) ContainsEsc() bool  { return l.containsEsc }
func (l *Lexer) Strict() bool       { return l.strict }
func (l *Lexer) SetStrict(s bool)   { l.strict = s }
func (l *Lexer) IsModule() bool     { return l.module }

// Pos is the offset just past the current token.
func (l *Lexer) Pos() int { return l.pos }

func (l *Lexer) Len() int { return len(l.input) }

// CharAt returns the code point at offset i, or -1 past the end.
func (l *Lexer) CharAt(i int) rune {
	if i < 0 || i >= len(l.input) {
		return -1
	}
	return l.input[i]
}

func (l *Lexer) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(l.input) {
		end = len(l.input)
	}
	if start >= end {
		return ""
	}
	return string(l.input[start:end])
}

// HasPrefixAt reports whether the input at offset pos starts with s.
func (l *Lexer) HasPrefixAt(pos int, s string) bool {
	for _, r := range s {
		if l.CharAt(pos) != r {
			return false
		}
		pos++
	}
	return true
}

// HasLineBreak reports whether a line terminator occurs in input[start:end].
func (l *Lexer) HasLineBreak(start, end int) bool {
	if end > len(l.input) {
		end = len(l.input)
	}
	for i := start; i < end; i++ {
		if isNewLine(l.input[i]) {
			return true
		}
	}
	return false
}

// SkipSpaceFrom returns the offset of the first character at or after pos that
// is not whitespace or part of a comment. Lexer state is not touched.
func (l *Lexer) SkipSpaceFrom(pos int) int {
	for pos < len(l.input) {
		ch := l.input[pos]
		switch {
		case isWhitespace(ch) || isNewLine(ch):
			pos++
		case ch == '/' && l.CharAt(pos+1) == '/':
			for pos < len(l.input) && !isNewLine(l.input[pos]) {
				pos++
			}
		case ch == '/' && l.CharAt(pos+1) == '*':
			end := l.indexOf("*/", pos+2)
			if end < 0 {
				return len(l.input)
			}
			pos = end + 2
		default:
			return pos
		}
	}
	return pos
}

// PositionAt computes the line and column of an arbitrary offset.
func (l *Lexer) PositionAt(offset int) token.Position {
	line, lineStart := 1, 0
	if offset > len(l.input) {
		offset = len(l.input)
	}
	for i := 0; i < offset; i++ {
		ch := l.input[i]
		if !isNewLine(ch) {
			continue
		}
		if ch == '\r' && i+1 < offset && l.input[i+1] == '\n' {
			i++
		}
		line++
		lineStart = i + 1
	}
	return token.Position{Line: line, Column: offset - lineStart}
}

func (l *Lexer) curPosition() token.Position {
	return token.Position{Line: l.line, Column: l.pos - l.lineStart}
}

type bailout struct{ err *diag.Error }

func (l *Lexer) raise(pos int, format string, args ...interface{}) {
	panic(bailout{diag.New(diag.LexError, pos, l.PositionAt(pos), format, args...)})
}

func (l *Lexer) recoverLex(err *error) {
	if r := recover(); r != nil {
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		*err = b.err
	}
}

func (l *Lexer) indexOf(s string, from int) int {
	for i := from; i < len(l.input); i++ {
		if l.HasPrefixAt(i, s) {
			return i
		}
	}
	return -1
}

// ---------- Whitespace and comments ----------

func isNewLine(ch rune) bool {
	return ch == '\n' || ch == '\r' || ch == 0x2028 || ch == 0x2029
}

func isWhitespace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\v', '\f', 0xa0, 0x1680, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return ch >= 0x2000 && ch <= 0x200a
}

func (l *Lexer) newLine(next int) {
	l.line++
	l.lineStart = next
}

func (l *Lexer) skipLineComment(startSkip int) {
	start := l.pos
	startPos := l.curPosition()
	l.pos += startSkip
	for l.pos < len(l.input) && !isNewLine(l.input[l.pos]) {
		l.pos++
	}
	l.comment(false, start, startSkip, l.pos, startPos)
}

func (l *Lexer) skipBlockComment() {
	start := l.pos
	startPos := l.curPosition()
	end := l.indexOf("*/", l.pos+2)
	if end < 0 {
		l.raise(l.pos, "Unterminated comment")
	}
	for i := l.pos + 2; i < end; i++ {
		ch := l.input[i]
		if !isNewLine(ch) {
			continue
		}
		if ch == '\r' && l.input[i+1] == '\n' {
			i++
		}
		l.newLine(i + 1)
	}
	l.pos = end + 2
	l.comment(true, start, 2, end, startPos)
}

func (l *Lexer) comment(block bool, start, skip, textEnd int, startPos token.Position) {
	if l.onComment == nil {
		return
	}
	l.onComment(Comment{
		Block:    block,
		Text:     string(l.input[start+skip : textEnd]),
		Start:    start,
		End:      l.pos,
		StartPos: startPos,
		EndPos:   l.curPosition(),
	})
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == '\r':
			if l.CharAt(l.pos+1) == '\n' {
				l.pos++
			}
			l.pos++
			l.newLine(l.pos)
		case isNewLine(ch):
			l.pos++
			l.newLine(l.pos)
		case isWhitespace(ch):
			l.pos++
		case ch == '/' && l.CharAt(l.pos+1) == '*':
			l.skipBlockComment()
		case ch == '/' && l.CharAt(l.pos+1) == '/':
			l.skipLineComment(2)
		default:
			return
		}
	}
}

// ---------- Token dispatch ----------

func (l *Lexer) curContext() *Context {
	return l.context[len(l.context)-1]
}

func (l *Lexer) nextToken() {
	ctx := l.curContext()
	if !ctx.PreserveSpace {
		l.skipSpace()
	}
	l.start = l.pos
	l.startPos = l.curPosition()
	if l.pos >= len(l.input) {
		l.finishToken(token.EOF, "")
		return
	}
	if ctx.Unusual {
		l.tryReadTemplateToken()
		return
	}
	l.readToken(l.input[l.pos])
}

func (l *Lexer) finishToken(typ token.TokenType, value string) {
	prevType := l.tok.Type
	l.tok = token.Token{
		Type:     typ,
		Literal:  string(l.input[l.start:l.pos]),
		Value:    value,
		Start:    l.start,
		End:      l.pos,
		StartPos: l.startPos,
		EndPos:   l.curPosition(),
	}
	l.updateContext(prevType)
}

func (l *Lexer) readToken(ch rune) {
	if isIdentifierStart(ch) || ch == '\\' {
		l.readWord()
		return
	}
	l.getTokenFromCode(ch)
}

func (l *Lexer) finishOp(typ token.TokenType, size int) {
	l.pos += size
	l.finishToken(typ, "")
}

func (l *Lexer) getTokenFromCode(ch rune) {
	next := l.CharAt(l.pos + 1)
	switch ch {
	case '.':
		l.readTokenDot()
	case '(':
		l.finishOp(token.LeftParen, 1)
	case ')':
		l.finishOp(token.RightParen, 1)
	case ';':
		l.finishOp(token.Semicolon, 1)
	case ',':
		l.finishOp(token.Comma, 1)
	case '[':
		l.finishOp(token.LeftBracket, 1)
	case ']':
		l.finishOp(token.RightBracket, 1)
	case '{':
		l.finishOp(token.LeftBrace, 1)
	case '}':
		l.finishOp(token.RightBrace, 1)
	case ':':
		l.finishOp(token.Colon, 1)
	case '`':
		l.finishOp(token.BackQuote, 1)
	case '~':
		l.finishOp(token.BitwiseNot, 1)
	case '0':
		switch next {
		case 'x', 'X':
			l.readRadixNumber(16)
			return
		case 'o', 'O':
			l.readRadixNumber(8)
			return
		case 'b', 'B':
			l.readRadixNumber(2)
			return
		}
		l.readNumber(false)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		l.readNumber(false)
	case '"', '\'':
		l.readString(ch)
	case '/':
		l.readTokenSlash()
	case '%', '*':
		l.readTokenMultModuloExp(ch)
	case '|', '&':
		l.readTokenPipeAmp(ch)
	case '^':
		if next == '=' {
			l.finishOp(token.CaretAssign, 2)
		} else {
			l.finishOp(token.BitwiseXor, 1)
		}
	case '+', '-':
		l.readTokenPlusMin(ch)
	case '<', '>':
		l.readTokenLtGt(ch)
	case '=', '!':
		l.readTokenEqExcl(ch)
	case '?':
		l.readTokenQuestion()
	case '#':
		l.readTokenNumberSign()
	default:
		l.raise(l.pos, "Unexpected character '%s'", string(ch))
	}
}

func (l *Lexer) readTokenDot() {
	next := l.CharAt(l.pos + 1)
	if next >= '0' && next <= '9' {
		l.readNumber(true)
		return
	}
	if next == '.' && l.CharAt(l.pos+2) == '.' {
		l.finishOp(token.Spread, 3)
		return
	}
	l.finishOp(token.Dot, 1)
}

func (l *Lexer) readTokenSlash() {
	if l.exprAllowed {
		l.pos++
		l.readRegExp()
		return
	}
	if l.CharAt(l.pos+1) == '=' {
		l.finishOp(token.SlashAssign, 2)
		return
	}
	l.finishOp(token.Slash, 1)
}

func (l *Lexer) readTokenMultModuloExp(ch rune) {
	next := l.CharAt(l.pos + 1)
	if ch == '*' && next == '*' {
		if l.CharAt(l.pos+2) == '=' {
			l.finishOp(token.ExponentAssign, 3)
			return
		}
		l.finishOp(token.Exponent, 2)
		return
	}
	if next == '=' {
		if ch == '*' {
			l.finishOp(token.AsteriskAssign, 2)
		} else {
			l.finishOp(token.PercentAssign, 2)
		}
		return
	}
	if ch == '*' {
		l.finishOp(token.Asterisk, 1)
	} else {
		l.finishOp(token.Percent, 1)
	}
}

func (l *Lexer) readTokenPipeAmp(ch rune) {
	next := l.CharAt(l.pos + 1)
	if next == ch {
		if l.CharAt(l.pos+2) == '=' {
			if ch == '|' {
				l.finishOp(token.OrAssign, 3)
			} else {
				l.finishOp(token.AndAssign, 3)
			}
			return
		}
		if ch == '|' {
			l.finishOp(token.Or, 2)
		} else {
			l.finishOp(token.And, 2)
		}
		return
	}
	if next == '=' {
		if ch == '|' {
			l.finishOp(token.PipeAssign, 2)
		} else {
			l.finishOp(token.AmpersandAssign, 2)
		}
		return
	}
	if ch == '|' {
		l.finishOp(token.BitwiseOr, 1)
	} else {
		l.finishOp(token.BitwiseAnd, 1)
	}
}

// htmlCloseAllowed reports whether --> at the cursor starts an Annex B comment:
// only in scripts, and only at the start of a line.
func (l *Lexer) htmlCloseAllowed() bool {
	return !l.module && (l.tok.End == 0 || l.HasLineBreak(l.tok.End, l.pos))
}

func (l *Lexer) readTokenPlusMin(ch rune) {
	next := l.CharAt(l.pos + 1)
	if next == ch {
		if ch == '-' && l.CharAt(l.pos+2) == '>' && l.htmlCloseAllowed() {
			l.skipLineComment(3)
			l.skipSpace()
			l.nextToken()
			return
		}
		if ch == '+' {
			l.finishOp(token.Increment, 2)
		} else {
			l.finishOp(token.Decrement, 2)
		}
		return
	}
	if next == '=' {
		if ch == '+' {
			l.finishOp(token.PlusAssign, 2)
		} else {
			l.finishOp(token.MinusAssign, 2)
		}
		return
	}
	if ch == '+' {
		l.finishOp(token.Plus, 1)
	} else {
		l.finishOp(token.Minus, 1)
	}
}

func (l *Lexer) readTokenLtGt(ch rune) {
	next := l.CharAt(l.pos + 1)
	if next == ch {
		size := 2
		if ch == '>' && l.CharAt(l.pos+2) == '>' {
			size = 3
		}
		if l.CharAt(l.pos+size) == '=' {
			switch {
			case size == 3:
				l.finishOp(token.UnsignedRightShiftAssign, 4)
			case ch == '<':
				l.finishOp(token.LeftShiftAssign, 3)
			default:
				l.finishOp(token.RightShiftAssign, 3)
			}
			return
		}
		switch {
		case size == 3:
			l.finishOp(token.UnsignedRightShift, 3)
		case ch == '<':
			l.finishOp(token.LeftShift, 2)
		default:
			l.finishOp(token.RightShift, 2)
		}
		return
	}
	if ch == '<' && next == '!' && !l.module && l.HasPrefixAt(l.pos+2, "--") {
		l.skipLineComment(4)
		l.skipSpace()
		l.nextToken()
		return
	}
	if next == '=' {
		if ch == '<' {
			l.finishOp(token.LessThanOrEqual, 2)
		} else {
			l.finishOp(token.GreaterThanOrEqual, 2)
		}
		return
	}
	if ch == '<' {
		l.finishOp(token.LessThan, 1)
	} else {
		l.finishOp(token.GreaterThan, 1)
	}
}

func (l *Lexer) readTokenEqExcl(ch rune) {
	next := l.CharAt(l.pos + 1)
	if next == '=' {
		strict := l.CharAt(l.pos+2) == '='
		switch {
		case ch == '=' && strict:
			l.finishOp(token.StrictEqual, 3)
		case ch == '=':
			l.finishOp(token.Equal, 2)
		case strict:
			l.finishOp(token.StrictNotEqual, 3)
		default:
			l.finishOp(token.NotEqual, 2)
		}
		return
	}
	if ch == '=' && next == '>' {
		l.finishOp(token.Arrow, 2)
		return
	}
	if ch == '=' {
		l.finishOp(token.Assign, 1)
	} else {
		l.finishOp(token.Not, 1)
	}
}

func (l *Lexer) readTokenQuestion() {
	next := l.CharAt(l.pos + 1)
	if next == '.' {
		// a?.5:1 is a conditional, not an optional chain
		if d := l.CharAt(l.pos + 2); d < '0' || d > '9' {
			l.finishOp(token.OptionalChain, 2)
			return
		}
	}
	if next == '?' {
		if l.CharAt(l.pos+2) == '=' {
			l.finishOp(token.NullishAssign, 3)
			return
		}
		l.finishOp(token.NullishCoalesce, 2)
		return
	}
	l.finishOp(token.QuestionMark, 1)
}

func (l *Lexer) readTokenNumberSign() {
	l.pos++ // skip '#'
	if ch := l.CharAt(l.pos); ch == '\\' || isIdentifierStart(ch) {
		l.finishToken(token.PrivateName, l.readWord1())
		return
	}
	l.raise(l.pos-1, "Unexpected character '#'")
}
