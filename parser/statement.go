package parser

import (
	"strings"

	"github.com/example/esparse/ast"
	"github.com/example/esparse/lexer"
	"github.com/example/esparse/token"
)

// stmtContext names the construct whose body a statement is. Only an
// unlabeled context permits declarations; sloppy if and labeled bodies also
// permit plain function declarations.
type stmtContext string

const (
	ctxNone  stmtContext = ""
	ctxIf    stmtContext = "if"
	ctxLabel stmtContext = "label"
	ctxFor   stmtContext = "for"
	ctxWhile stmtContext = "while"
	ctxDo    stmtContext = "do"
	ctxWith  stmtContext = "with"
)

func (p *Parser) parseTopLevel() *ast.Program {
	p.enterScope(scopeTop)
	program := &ast.Program{SourceType: p.opts.SourceType}
	program.Body = p.parseStatementList(token.EOF, true)
	p.exitScope()
	if program.SourceType == "" {
		program.SourceType = SourceScript
	}
	p.finishNodeAt(program, "Program", marker{pos: 0, loc: token.Position{Line: 1}}, p.curToken.End, p.curToken.EndPos)
	return program
}

// parseStatementList reads statements until end without consuming it. With
// directives set, a leading run of string statements is marked as the
// directive prologue.
func (p *Parser) parseStatementList(end token.TokenType, directives bool) []ast.Statement {
	body := []ast.Statement{}
	topLevel := end == token.EOF
	for !p.curTokenIs(end) {
		if p.curTokenIs(token.EOF) {
			p.unexpected()
		}
		stmt := p.parseStatement(ctxNone, topLevel)
		if directives {
			if es, ok := isDirectiveCandidate(stmt); ok {
				raw := es.Expression.(*ast.Literal).Raw
				es.Directive = raw[1 : len(raw)-1]
			} else {
				directives = false
			}
		}
		body = append(body, stmt)
	}
	return body
}

func (p *Parser) parseStatement(context stmtContext, topLevel bool) ast.Statement {
	start := p.startNode()
	p.log.Trace().Str("token", p.curToken.Type.String()).Int("pos", start.pos).Msg("statement")

	if p.isLet(context) {
		if context != ctxNone {
			p.unexpected()
		}
		return p.parseVarStatement(start, "let")
	}

	switch p.curToken.Type {
	case token.Break, token.Continue:
		return p.parseBreakContinue(start)
	case token.Debugger:
		p.nextToken()
		p.semicolon()
		node := &ast.DebuggerStatement{}
		p.finishNode(node, "DebuggerStatement", start)
		return node
	case token.Do:
		return p.parseDoStatement(start)
	case token.For:
		return p.parseForStatement(start)
	case token.Function:
		if context != ctxNone && (p.strict || context != ctxIf && context != ctxLabel) {
			p.unexpected()
		}
		p.nextToken()
		kind := funcStatement
		if context != ctxNone {
			kind = funcHanging
		}
		return p.parseFunction(start, kind, false, false, false).(ast.Statement)
	case token.Class:
		if context != ctxNone {
			p.unexpected()
		}
		return p.parseClass(start, true, false).(ast.Statement)
	case token.If:
		return p.parseIfStatement(start)
	case token.Return:
		return p.parseReturnStatement(start)
	case token.Switch:
		return p.parseSwitchStatement(start)
	case token.Throw:
		return p.parseThrowStatement(start)
	case token.Try:
		return p.parseTryStatement(start)
	case token.Const, token.Var:
		kind := p.curToken.Value
		if context != ctxNone && kind != "var" {
			p.unexpected()
		}
		return p.parseVarStatement(start, kind)
	case token.While:
		return p.parseWhileStatement(start)
	case token.With:
		return p.parseWithStatement(start)
	case token.LeftBrace:
		return p.parseBlock(true)
	case token.Semicolon:
		p.nextToken()
		node := &ast.EmptyStatement{}
		p.finishNode(node, "EmptyStatement", start)
		return node
	case token.Export, token.Import:
		if p.curTokenIs(token.Import) {
			if ch, _ := p.peekChar(); ch == '(' || ch == '.' {
				return p.parseExpressionStatement(start, p.parseExpression(false))
			}
		}
		if !topLevel {
			p.raise(p.curToken.Start, "'import' and 'export' may only appear at the top level")
		}
		if !p.inModule {
			p.raise(p.curToken.Start, "'import' and 'export' may appear only with 'sourceType: module'")
		}
		if p.curTokenIs(token.Import) {
			return p.parseImport(start)
		}
		return p.parseExport(start)
	}

	if p.isAsyncFunction() {
		if context != ctxNone {
			p.unexpected()
		}
		p.nextToken() // async
		p.nextToken() // function
		return p.parseFunction(start, funcStatement, false, true, false).(ast.Statement)
	}

	maybeLabel := p.curTokenIs(token.Identifier)
	name := p.curToken.Value
	expr := p.parseExpression(false)
	if id, ok := expr.(*ast.Identifier); ok && maybeLabel && !id.Parenthesized && p.eat(token.Colon) {
		return p.parseLabeledStatement(start, name, id, context)
	}
	return p.parseExpressionStatement(start, expr)
}

// isLet reports whether a `let` token starts a lexical declaration rather
// than an expression using let as an identifier.
func (p *Parser) isLet(context stmtContext) bool {
	if !p.isContextual("let") {
		return false
	}
	ch, next := p.peekChar()
	if ch == '[' || ch == '\\' {
		return true
	}
	if context != ctxNone {
		return false
	}
	if ch == '{' {
		return true
	}
	if lexer.IsIdentifierStart(ch) {
		pos := next + 1
		for lexer.IsIdentifierChar(p.l.CharAt(pos)) {
			pos++
		}
		if p.l.CharAt(pos) == '\\' {
			return true
		}
		word := p.l.Slice(next, pos)
		return word != "in" && word != "instanceof"
	}
	return false
}

// isAsyncFunction reports whether the current `async` is followed, on the
// same line, by the function keyword.
func (p *Parser) isAsyncFunction() bool {
	if !p.isContextual("async") {
		return false
	}
	next := p.l.SkipSpaceFrom(p.curToken.End)
	if p.l.HasLineBreak(p.curToken.End, next) || !p.l.HasPrefixAt(next, "function") {
		return false
	}
	after := p.l.CharAt(next + len("function"))
	return after == -1 || !lexer.IsIdentifierChar(after)
}

func (p *Parser) parseExpressionStatement(start marker, expr ast.Expression) ast.Statement {
	p.semicolon()
	node := &ast.ExpressionStatement{Expression: expr}
	p.finishNode(node, "ExpressionStatement", start)
	return node
}

// parseBlock reads a braced statement list. newScope is false for bodies
// whose scope the caller already opened.
func (p *Parser) parseBlock(newScope bool) *ast.BlockStatement {
	start := p.startNode()
	p.expect(token.LeftBrace)
	if newScope {
		p.enterScope(0)
	}
	node := &ast.BlockStatement{Body: p.parseStatementList(token.RightBrace, false)}
	p.nextToken() // }
	if newScope {
		p.exitScope()
	}
	p.finishNode(node, "BlockStatement", start)
	return node
}

func (p *Parser) parseParenExpression() ast.Expression {
	p.expect(token.LeftParen)
	expr := p.parseExpression(false)
	p.expect(token.RightParen)
	return expr
}

// ---------- Declarations ----------

func (p *Parser) parseVarStatement(start marker, kind string) ast.Statement {
	p.nextToken()
	node := p.parseVar(false, kind)
	p.semicolon()
	p.finishNode(node, "VariableDeclaration", start)
	return node
}

// parseVar reads the declarator list after var, let or const. In a for head
// (isFor) initializers may be omitted before in/of.
func (p *Parser) parseVar(isFor bool, kind string) *ast.VariableDeclaration {
	node := &ast.VariableDeclaration{Kind: kind}
	var seen map[string]bool
	if kind != "var" {
		seen = make(map[string]bool)
	}
	for {
		declStart := p.startNode()
		decl := &ast.VariableDeclarator{ID: p.parseBindingAtom()}
		if kind != "var" {
			p.checkLexicalNames(decl.ID, seen)
		}
		inOrOf := p.curTokenIs(token.In) || p.isContextual("of")
		switch {
		case p.eat(token.Assign):
			decl.Init = p.parseMaybeAssign(isFor)
		case kind == "const" && !(isFor && inOrOf):
			p.raise(p.curToken.Start, "Missing initializer in const declaration")
		case !isIdent(decl.ID) && !(isFor && inOrOf):
			p.raise(p.prevToken.End, "Complex binding patterns require an initialization value")
		}
		p.finishNode(decl, "VariableDeclarator", declStart)
		node.Declarations = append(node.Declarations, decl)
		if !p.eat(token.Comma) {
			break
		}
	}
	return node
}

// ---------- Control flow ----------

func (p *Parser) parseIfStatement(start marker) ast.Statement {
	p.nextToken()
	node := &ast.IfStatement{Test: p.parseParenExpression()}
	node.Consequent = p.parseStatement(ctxIf, false)
	if p.eat(token.Else) {
		node.Alternate = p.parseStatement(ctxIf, false)
	}
	p.finishNode(node, "IfStatement", start)
	return node
}

func (p *Parser) parseReturnStatement(start marker) ast.Statement {
	if !p.inFunction() {
		p.raise(p.curToken.Start, "'return' outside of function")
	}
	p.nextToken()
	node := &ast.ReturnStatement{}
	if !p.eat(token.Semicolon) && !p.canInsertSemicolon() {
		node.Argument = p.parseExpression(false)
		p.semicolon()
	}
	p.finishNode(node, "ReturnStatement", start)
	return node
}

func (p *Parser) parseThrowStatement(start marker) ast.Statement {
	p.nextToken()
	if p.hasPrecedingLineBreak() {
		p.raise(p.prevToken.End, "Illegal newline after throw")
	}
	node := &ast.ThrowStatement{Argument: p.parseExpression(false)}
	p.semicolon()
	p.finishNode(node, "ThrowStatement", start)
	return node
}

func (p *Parser) parseWithStatement(start marker) ast.Statement {
	if p.strict {
		p.raise(p.curToken.Start, "'with' in strict mode")
	}
	p.nextToken()
	node := &ast.WithStatement{Object: p.parseParenExpression()}
	node.Body = p.parseStatement(ctxWith, false)
	p.finishNode(node, "WithStatement", start)
	return node
}

func (p *Parser) parseWhileStatement(start marker) ast.Statement {
	p.nextToken()
	node := &ast.WhileStatement{Test: p.parseParenExpression()}
	p.labels = append(p.labels, label{kind: labelLoop, statementStart: -1})
	node.Body = p.parseStatement(ctxWhile, false)
	p.labels = p.labels[:len(p.labels)-1]
	p.finishNode(node, "WhileStatement", start)
	return node
}

func (p *Parser) parseDoStatement(start marker) ast.Statement {
	p.nextToken()
	p.labels = append(p.labels, label{kind: labelLoop, statementStart: -1})
	node := &ast.DoWhileStatement{Body: p.parseStatement(ctxDo, false)}
	p.labels = p.labels[:len(p.labels)-1]
	p.expect(token.While)
	node.Test = p.parseParenExpression()
	p.eat(token.Semicolon)
	p.finishNode(node, "DoWhileStatement", start)
	return node
}

func (p *Parser) parseSwitchStatement(start marker) ast.Statement {
	p.nextToken()
	node := &ast.SwitchStatement{Discriminant: p.parseParenExpression(), Cases: []*ast.SwitchCase{}}
	p.expect(token.LeftBrace)
	p.labels = append(p.labels, label{kind: labelSwitch, statementStart: -1})
	p.enterScope(0)

	var cur *ast.SwitchCase
	var curStart marker
	closeCase := func() {
		if cur != nil {
			p.finishNode(cur, "SwitchCase", curStart)
		}
	}
	sawDefault := false
	for !p.curTokenIs(token.RightBrace) {
		if p.curTokenIs(token.Case) || p.curTokenIs(token.Default) {
			isCase := p.curTokenIs(token.Case)
			closeCase()
			curStart = p.startNode()
			cur = &ast.SwitchCase{Consequent: []ast.Statement{}}
			node.Cases = append(node.Cases, cur)
			p.nextToken()
			if isCase {
				cur.Test = p.parseExpression(false)
			} else {
				if sawDefault {
					p.warnAt(p.prevToken.Start, "Multiple default clauses")
				}
				sawDefault = true
			}
			p.expect(token.Colon)
			continue
		}
		if cur == nil {
			p.unexpected()
		}
		cur.Consequent = append(cur.Consequent, p.parseStatement(ctxNone, false))
	}
	p.exitScope()
	closeCase()
	p.nextToken() // }
	p.labels = p.labels[:len(p.labels)-1]
	p.finishNode(node, "SwitchStatement", start)
	return node
}

func (p *Parser) parseTryStatement(start marker) ast.Statement {
	p.nextToken()
	node := &ast.TryStatement{Block: p.parseBlock(true)}
	if p.curTokenIs(token.Catch) {
		clauseStart := p.startNode()
		p.nextToken()
		clause := &ast.CatchClause{}
		if p.eat(token.LeftParen) {
			clause.Param = p.parseBindingAtom()
			if isIdent(clause.Param) {
				p.enterScope(scopeSimpleCatch)
			} else {
				p.checkLexicalNames(clause.Param, make(map[string]bool))
				p.enterScope(0)
			}
			p.expect(token.RightParen)
		} else {
			p.enterScope(0)
		}
		clause.Body = p.parseBlock(false)
		p.exitScope()
		p.finishNode(clause, "CatchClause", clauseStart)
		node.Handler = clause
	}
	if p.eat(token.Finally) {
		node.Finalizer = p.parseBlock(true)
	}
	if node.Handler == nil && node.Finalizer == nil {
		p.raise(start.pos, "Missing catch or finally clause")
	}
	p.finishNode(node, "TryStatement", start)
	return node
}

// ---------- Loops ----------

func (p *Parser) parseForStatement(start marker) ast.Statement {
	p.nextToken()
	awaitAt := -1
	if p.canAwait() && p.eatContextual("await") {
		awaitAt = p.prevToken.Start
	}
	p.labels = append(p.labels, label{kind: labelLoop, statementStart: -1})
	p.enterScope(0)
	p.expect(token.LeftParen)

	if p.curTokenIs(token.Semicolon) {
		if awaitAt > -1 {
			p.unexpectedAt(awaitAt)
		}
		return p.parseFor(start, nil)
	}

	isLet := p.isLet(ctxNone)
	if p.curTokenIs(token.Var) || p.curTokenIs(token.Const) || isLet {
		initStart := p.startNode()
		kind := "let"
		if !isLet {
			kind = p.curToken.Value
		}
		p.nextToken()
		init := p.parseVar(true, kind)
		p.finishNode(init, "VariableDeclaration", initStart)
		if (p.curTokenIs(token.In) || p.isContextual("of")) && len(init.Declarations) == 1 {
			return p.parseForIn(start, init, awaitAt)
		}
		if awaitAt > -1 {
			p.unexpectedAt(awaitAt)
		}
		return p.parseFor(start, init)
	}

	startsWithLet := p.isContextual("let")
	initStart := p.startNode()
	var init ast.Expression
	switch {
	case p.curTokenIs(token.LeftBracket) || p.curTokenIs(token.LeftBrace):
		ir := p.parseCover()
		if p.curTokenIs(token.In) || p.isContextual("of") {
			return p.parseForIn(start, p.resolveAsPattern(ir, false), awaitAt)
		}
		init = p.parseSequenceTail(p.finishCover(ir, initStart, true), initStart, true)
	case awaitAt > -1:
		init = p.parseExprSubscripts(true)
	default:
		init = p.parseExpression(true)
	}

	isForOf := p.isContextual("of")
	if p.curTokenIs(token.In) || isForOf {
		b := init.NodeBase()
		if isForOf && awaitAt < 0 && isIdentNamed(init, "async") && !b.Parenthesized &&
			p.l.Slice(b.Start, b.End) == "async" {
			p.raise(b.Start, "The left-hand side of a for-of loop may not be 'async'.")
		}
		if startsWithLet && isForOf {
			p.raise(b.Start, "The left-hand side of a for-of loop may not start with 'let'.")
		}
		return p.parseForIn(start, p.checkLValSimple(init, false), awaitAt)
	}
	if awaitAt > -1 {
		p.unexpectedAt(awaitAt)
	}
	return p.parseFor(start, init)
}

func (p *Parser) parseFor(start marker, init ast.Node) ast.Statement {
	node := &ast.ForStatement{Init: init}
	p.expect(token.Semicolon)
	if !p.curTokenIs(token.Semicolon) {
		node.Test = p.parseExpression(false)
	}
	p.expect(token.Semicolon)
	if !p.curTokenIs(token.RightParen) {
		node.Update = p.parseExpression(false)
	}
	p.expect(token.RightParen)
	node.Body = p.parseStatement(ctxFor, false)
	p.exitScope()
	p.labels = p.labels[:len(p.labels)-1]
	p.finishNode(node, "ForStatement", start)
	return node
}

// parseForIn reads the rest of a for-in or for-of loop; the current token is
// `in` or `of`.
func (p *Parser) parseForIn(start marker, left ast.Node, awaitAt int) ast.Statement {
	isForIn := p.curTokenIs(token.In)
	if isForIn && awaitAt > -1 {
		p.unexpectedAt(awaitAt)
	}
	p.nextToken()
	if decl, ok := left.(*ast.VariableDeclaration); ok {
		d := decl.Declarations[0]
		if d.Init != nil && (!isForIn || p.strict || decl.Kind != "var" || !isIdent(d.ID)) {
			loop := "for-of"
			if isForIn {
				loop = "for-in"
			}
			p.raise(decl.Start, "%s loop variable declaration may not have an initializer", loop)
		}
	}

	var right ast.Expression
	if isForIn {
		right = p.parseExpression(false)
	} else {
		right = p.parseMaybeAssign(false)
	}
	p.expect(token.RightParen)
	body := p.parseStatement(ctxFor, false)
	p.exitScope()
	p.labels = p.labels[:len(p.labels)-1]

	if isForIn {
		node := &ast.ForInStatement{Left: left, Right: right, Body: body}
		p.finishNode(node, "ForInStatement", start)
		return node
	}
	node := &ast.ForOfStatement{Await: awaitAt > -1, Left: left, Right: right, Body: body}
	p.finishNode(node, "ForOfStatement", start)
	return node
}

// ---------- Labels ----------

func (p *Parser) parseLabeledStatement(start marker, name string, id *ast.Identifier, context stmtContext) ast.Statement {
	for _, l := range p.labels {
		if l.name == name {
			p.raise(id.Start, "Label '%s' is already declared", name)
		}
	}
	kind := labelPlain
	if p.curToken.Type.IsLoop() {
		kind = labelLoop
	} else if p.curTokenIs(token.Switch) {
		kind = labelSwitch
	}
	// labels directly enclosing this one also name the statement below
	for i := len(p.labels) - 1; i >= 0; i-- {
		if p.labels[i].statementStart != start.pos {
			break
		}
		p.labels[i].statementStart = p.curToken.Start
		p.labels[i].kind = kind
	}
	p.labels = append(p.labels, label{name: name, kind: kind, statementStart: p.curToken.Start})

	bodyContext := ctxLabel
	if context != ctxNone {
		bodyContext = context
		if !strings.Contains(string(context), string(ctxLabel)) {
			bodyContext = context + ctxLabel
		}
	}
	node := &ast.LabeledStatement{Label: id, Body: p.parseStatement(bodyContext, false)}
	p.labels = p.labels[:len(p.labels)-1]
	p.finishNode(node, "LabeledStatement", start)
	return node
}

func (p *Parser) parseBreakContinue(start marker) ast.Statement {
	isBreak := p.curTokenIs(token.Break)
	keyword := p.curToken.Value
	p.nextToken()

	var target *ast.Identifier
	if !p.eat(token.Semicolon) && !p.canInsertSemicolon() {
		if !p.curTokenIs(token.Identifier) {
			p.unexpected()
		}
		target = p.parseIdent(false)
		p.semicolon()
	}

	found := false
	for i := len(p.labels) - 1; i >= 0; i-- {
		l := p.labels[i]
		if target == nil {
			if l.kind != labelPlain && (isBreak || l.kind == labelLoop) {
				found = true
				break
			}
			continue
		}
		if l.name == target.Name {
			if isBreak || l.kind == labelLoop {
				found = true
				break
			}
			// continue to a label that is not a loop
			break
		}
	}
	if !found {
		p.raise(start.pos, "Unsyntactic %s", keyword)
	}

	if isBreak {
		node := &ast.BreakStatement{Label: target}
		p.finishNode(node, "BreakStatement", start)
		return node
	}
	node := &ast.ContinueStatement{Label: target}
	p.finishNode(node, "ContinueStatement", start)
	return node
}
