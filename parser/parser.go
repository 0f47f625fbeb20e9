// Package parser turns JavaScript source into an ESTree AST. It drives the
// lexer one token at a time, keeps the scope and label state needed for early
// errors, and stops at the first syntax error.
package parser

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/esparse/ast"
	"github.com/example/esparse/diag"
	"github.com/example/esparse/lexer"
	"github.com/example/esparse/token"
)

const (
	SourceScript = "script"
	SourceModule = "module"
)

// Options configures a parse.
type Options struct {
	SourceType    string // SourceScript or SourceModule
	AllowHashBang bool   // skip a leading #! line
	Comments      bool   // collect comments into the result
	CheckRegExp   bool   // compile regexp literals and warn when they are invalid
	Logger        zerolog.Logger
}

type Option func(*Options)

func WithSourceType(t string) Option { return func(o *Options) { o.SourceType = t } }

func WithModule() Option { return WithSourceType(SourceModule) }

func WithHashBang(allow bool) Option { return func(o *Options) { o.AllowHashBang = allow } }

func WithComments() Option { return func(o *Options) { o.Comments = true } }

func WithRegExpCheck() Option { return func(o *Options) { o.CheckRegExp = true } }

func WithLogger(l zerolog.Logger) Option { return func(o *Options) { o.Logger = l } }

// DefaultOptions parses scripts, skipping a hashbang line, without tracing.
func DefaultOptions() Options {
	return Options{
		SourceType:    SourceScript,
		AllowHashBang: true,
		Logger:        zerolog.Nop(),
	}
}

// Result is a successful parse.
type Result struct {
	Program  *ast.Program
	Warnings diag.List
	Comments []*ast.Comment
}

type Parser struct {
	l    *lexer.Lexer
	opts Options
	log  zerolog.Logger
	file string

	// source is shared by the loc of every node
	source *string

	curToken  token.Token
	prevToken token.Token

	// the current token is a word spelled with a \u escape
	containsEsc bool

	strict   bool
	inModule bool

	scopeStack       []*scope
	labels           []label
	privateNameStack []*privateNameScope

	// module-level names bound by imports and named by exports
	importedNames map[string]bool
	exportedNames map[string]bool

	// start offset of an expression that may still turn out to be arrow
	// parameters, or -1
	potentialArrowAt int

	// first yield/await seen while parsing possible arrow parameters; zero
	// when none
	yieldPos, awaitPos, awaitIdentPos int

	warnings diag.List
	warned   map[int]bool
	comments []*ast.Comment
}

type bailout struct{ err *diag.Error }

// New prepares a parser over source. fileName is only used for diagnostics and
// node locations.
func New(source, fileName string, opts ...Option) *Parser {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p := &Parser{
		opts:             o,
		log:              o.Logger,
		file:             fileName,
		inModule:         o.SourceType == SourceModule,
		potentialArrowAt: -1,
		warned:           make(map[int]bool),
		importedNames:    make(map[string]bool),
		exportedNames:    make(map[string]bool),
	}
	if fileName != "" {
		p.source = &p.file
	}

	lexOpts := []lexer.Option{lexer.HashBang(o.AllowHashBang)}
	if p.inModule {
		lexOpts = append(lexOpts, lexer.Module())
	}
	if o.Comments {
		lexOpts = append(lexOpts, lexer.OnComment(p.onComment))
	}
	p.l = lexer.New(source, lexOpts...)
	p.strict = p.inModule || p.strictDirective(p.l.Pos())
	p.l.SetStrict(p.strict)
	return p
}

// ParseProgram parses a complete script or module.
func ParseProgram(source, fileName string, opts ...Option) (*Result, error) {
	return New(source, fileName, opts...).Parse()
}

// Parse runs the parser. It may only be called once.
func (p *Parser) Parse() (res *Result, err error) {
	defer p.recoverParse(&err)

	p.nextToken()
	program := p.parseTopLevel()
	p.log.Debug().
		Str("file", p.file).
		Int("statements", len(program.Body)).
		Int("warnings", p.warnings.Len()).
		Msg("parsed program")
	return &Result{
		Program:  program,
		Warnings: p.warnings,
		Comments: p.comments,
	}, nil
}

func (p *Parser) recoverParse(err *error) {
	if r := recover(); r != nil {
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		b.err.File = p.file
		p.log.Debug().Str("file", p.file).Int("pos", b.err.Pos).Msg(b.err.Message)
		*err = b.err
	}
}

func (p *Parser) onComment(c lexer.Comment) {
	typ := "Line"
	if c.Block {
		typ = "Block"
	}
	p.comments = append(p.comments, &ast.Comment{
		Base: ast.Base{
			Type:  typ,
			Start: c.Start,
			End:   c.End,
			Loc:   ast.SourceLocation{Source: p.source, Start: c.StartPos, End: c.EndPos},
		},
		Value: c.Text,
	})
}

// ---------- Token helpers ----------

func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	if err := p.l.Next(); err != nil {
		panic(bailout{err.(*diag.Error)})
	}
	p.curToken = p.l.Token()
	p.containsEsc = (p.curToken.Type == token.Identifier || p.curToken.Type.IsKeyword()) && p.l.ContainsEsc()
	if p.curToken.Type.IsKeyword() && p.containsEsc {
		p.warnAt(p.curToken.Start, "Escape sequence in keyword %s", p.curToken.Value)
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

// eat consumes the current token if it has type t.
func (p *Parser) eat(t token.TokenType) bool {
	if p.curToken.Type == t {
		p.nextToken()
		return true
	}
	return false
}

func (p *Parser) expect(t token.TokenType) {
	if !p.eat(t) {
		p.unexpected()
	}
}

// isContextual reports whether the current token is the contextual keyword
// name. An escaped spelling is an ordinary identifier.
func (p *Parser) isContextual(name string) bool {
	return p.curToken.Type == token.Identifier && p.curToken.Value == name && !p.containsEsc
}

func (p *Parser) eatContextual(name string) bool {
	if !p.isContextual(name) {
		return false
	}
	p.nextToken()
	return true
}

func (p *Parser) expectContextual(name string) {
	if !p.eatContextual(name) {
		p.unexpected()
	}
}

// canInsertSemicolon reports whether automatic semicolon insertion applies at
// the current token.
func (p *Parser) canInsertSemicolon() bool {
	return p.curToken.Type == token.EOF ||
		p.curToken.Type == token.RightBrace ||
		p.l.HasLineBreak(p.prevToken.End, p.curToken.Start)
}

// semicolon consumes a statement terminator, inserting one if allowed.
func (p *Parser) semicolon() {
	if !p.eat(token.Semicolon) && !p.canInsertSemicolon() {
		p.unexpected()
	}
}

// afterTrailingComma consumes close when it directly follows a comma.
func (p *Parser) afterTrailingComma(close token.TokenType) bool {
	if p.curToken.Type == close {
		p.nextToken()
		return true
	}
	return false
}

func (p *Parser) hasPrecedingLineBreak() bool {
	return p.l.HasLineBreak(p.prevToken.End, p.curToken.Start)
}

// peekChar returns the first significant character after the current token
// and its offset, without moving the lexer.
func (p *Parser) peekChar() (rune, int) {
	next := p.l.SkipSpaceFrom(p.curToken.End)
	return p.l.CharAt(next), next
}

// ---------- Errors ----------

func (p *Parser) raise(pos int, format string, args ...interface{}) {
	panic(bailout{diag.New(diag.SyntaxError, pos, p.l.PositionAt(pos), format, args...)})
}

func (p *Parser) unexpected() {
	p.unexpectedAt(p.curToken.Start)
}

func (p *Parser) unexpectedAt(pos int) {
	if p.curToken.Type == token.EOF && pos == p.curToken.Start {
		p.raise(pos, "Unexpected end of input")
	}
	p.raise(pos, "Unexpected token")
}

// warnAt records an advisory once per offset.
func (p *Parser) warnAt(pos int, format string, args ...interface{}) {
	if p.warned[pos] {
		return
	}
	p.warned[pos] = true
	p.warnings.Add(pos, p.l.PositionAt(pos), format, args...)
}

// ---------- Nodes ----------

// marker is the start of a node under construction.
type marker struct {
	pos int
	loc token.Position
}

func (p *Parser) startNode() marker {
	return marker{pos: p.curToken.Start, loc: p.curToken.StartPos}
}

// finishNode closes a node at the end of the last consumed token.
func (p *Parser) finishNode(n ast.Node, typ string, start marker) {
	p.finishNodeAt(n, typ, start, p.prevToken.End, p.prevToken.EndPos)
}

func (p *Parser) finishNodeAt(n ast.Node, typ string, start marker, end int, endLoc token.Position) {
	b := n.NodeBase()
	b.Type = typ
	b.Start = start.pos
	b.End = end
	b.Loc = ast.SourceLocation{Source: p.source, Start: start.loc, End: endLoc}
}

// copySpan gives dst the span of src.
func copySpan(dst, src ast.Node) {
	d, s := dst.NodeBase(), src.NodeBase()
	d.Start, d.End, d.Loc = s.Start, s.End, s.Loc
}

// ---------- Directives ----------

// strictDirective reports whether the directive prologue starting at offset
// start contains "use strict". It scans raw input so strictness is known
// before the first token of the body is read.
func (p *Parser) strictDirective(start int) bool {
	for {
		start = p.l.SkipSpaceFrom(start)
		quote := p.l.CharAt(start)
		if quote != '\'' && quote != '"' {
			return false
		}
		end := start + 1
		for ch := p.l.CharAt(end); ch != quote; ch = p.l.CharAt(end) {
			if ch == -1 {
				return false
			}
			if ch == '\\' {
				end++
			}
			end++
		}
		if p.l.Slice(start+1, end) == "use strict" {
			after := end + 1
			next := p.l.SkipSpaceFrom(after)
			ch := p.l.CharAt(next)
			if ch == ';' || ch == '}' || ch == -1 {
				return true
			}
			return p.l.HasLineBreak(after, next) &&
				!strings.ContainsRune("(`.[+-/*%<>=,?^&", ch) &&
				!(ch == '!' && p.l.CharAt(next+1) == '=')
		}
		start = p.l.SkipSpaceFrom(end + 1)
		if p.l.CharAt(start) == ';' {
			start++
		}
	}
}

// isDirectiveCandidate reports whether stmt is a string-literal expression
// statement that was not parenthesized.
func isDirectiveCandidate(stmt ast.Statement) (*ast.ExpressionStatement, bool) {
	es, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		return nil, false
	}
	lit, ok := es.Expression.(*ast.Literal)
	if !ok || lit.Parenthesized {
		return nil, false
	}
	if _, isString := lit.Value.(string); !isString || lit.Regex != nil {
		return nil, false
	}
	return es, true
}
