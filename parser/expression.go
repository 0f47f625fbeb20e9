package parser

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/example/esparse/ast"
	"github.com/example/esparse/lexer"
	"github.com/example/esparse/token"
)

// ---------- Assignment and sequences ----------

// parseExpression reads a comma-separated sequence. forInit is set while
// reading the head of a for statement, where `in` is not an operator.
func (p *Parser) parseExpression(forInit bool) ast.Expression {
	start := p.startNode()
	return p.parseSequenceTail(p.parseMaybeAssign(forInit), start, forInit)
}

func (p *Parser) parseSequenceTail(expr ast.Expression, start marker, forInit bool) ast.Expression {
	if !p.curTokenIs(token.Comma) {
		return expr
	}
	seq := &ast.SequenceExpression{Expressions: []ast.Expression{expr}}
	for p.eat(token.Comma) {
		seq.Expressions = append(seq.Expressions, p.parseMaybeAssign(forInit))
	}
	p.finishNode(seq, "SequenceExpression", start)
	return seq
}

func (p *Parser) parseMaybeAssign(forInit bool) ast.Expression {
	if p.isContextual("yield") {
		if p.inGenerator() {
			return p.parseYield(forInit)
		}
		// yield is a plain identifier here, so a following / divides
		p.l.SetExprAllowed(false)
	}
	if p.curTokenIs(token.LeftParen) || p.curTokenIs(token.Identifier) {
		p.potentialArrowAt = p.curToken.Start
	}
	start := p.startNode()
	if p.curTokenIs(token.LeftBracket) || p.curTokenIs(token.LeftBrace) {
		return p.finishCover(p.parseCover(), start, forInit)
	}
	left := p.parseMaybeConditional(forInit)
	return p.parseAssignTail(left, start, forInit)
}

// finishCover decides what a cover at the start of an assignment expression
// is: a pattern when `=` follows, an expression otherwise.
func (p *Parser) finishCover(ir cover, start marker, forInit bool) ast.Expression {
	if p.curTokenIs(token.Assign) {
		left := p.resolveAsPattern(ir, false)
		p.nextToken()
		node := &ast.AssignmentExpression{Operator: "=", Left: left}
		node.Right = p.parseMaybeAssign(forInit)
		p.finishNode(node, "AssignmentExpression", start)
		return node
	}
	return p.parseExprStartsWithAtom(p.resolveAsExpression(ir), start, forInit)
}

// parseExprStartsWithAtom continues an expression whose first atom has
// already been read: suffixes, binary operators, conditional, assignment.
func (p *Parser) parseExprStartsWithAtom(expr ast.Expression, start marker, forInit bool) ast.Expression {
	expr = p.parseSubscripts(expr, start, false, forInit)
	expr = p.parsePostfix(expr, start)
	expr = p.parseExprOp(expr, start, -1, forInit)
	expr = p.parseConditionalTail(expr, start, forInit)
	return p.parseAssignTail(expr, start, forInit)
}

func (p *Parser) parseAssignTail(left ast.Expression, start marker, forInit bool) ast.Expression {
	if !p.curToken.Type.IsAssign() {
		return left
	}
	op := p.curToken.Type.String()
	target := p.checkLValSimple(left, false)
	p.nextToken()
	node := &ast.AssignmentExpression{Operator: op, Left: target}
	node.Right = p.parseMaybeAssign(forInit)
	p.finishNode(node, "AssignmentExpression", start)
	return node
}

// ---------- Conditional and binary operators ----------

func (p *Parser) parseMaybeConditional(forInit bool) ast.Expression {
	start := p.startNode()
	expr := p.parseExprOps(forInit)
	return p.parseConditionalTail(expr, start, forInit)
}

func (p *Parser) parseConditionalTail(test ast.Expression, start marker, forInit bool) ast.Expression {
	if !p.eat(token.QuestionMark) {
		return test
	}
	node := &ast.ConditionalExpression{Test: test}
	node.Consequent = p.parseMaybeAssign(false)
	p.expect(token.Colon)
	node.Alternate = p.parseMaybeAssign(forInit)
	p.finishNode(node, "ConditionalExpression", start)
	return node
}

func (p *Parser) parseExprOps(forInit bool) ast.Expression {
	start := p.startNode()
	expr := p.parseMaybeUnary(false, forInit)
	if arrow, ok := expr.(*ast.ArrowFunctionExpression); ok && arrow.Start == start.pos && !arrow.Parenthesized {
		return expr
	}
	return p.parseExprOp(expr, start, -1, forInit)
}

// parseExprOp climbs binary operator precedence. Operators bind when their
// precedence exceeds minPrec; ** accepts its own precedence on the right,
// which makes it right-associative.
func (p *Parser) parseExprOp(left ast.Expression, leftStart marker, minPrec int, forInit bool) ast.Expression {
	typ := p.curToken.Type
	prec := typ.Precedence()
	if prec == 0 || forInit && typ == token.In || prec <= minPrec {
		return left
	}
	logical := typ == token.Or || typ == token.And
	coalesce := typ == token.NullishCoalesce
	if coalesce {
		// the right side of ?? may not hold && or ||
		prec = token.And.Precedence()
	}
	rightPrec := prec
	if typ == token.Exponent {
		rightPrec = prec - 1
	}
	op := typ.String()
	p.nextToken()
	rightStart := p.startNode()
	right := p.parseExprOp(p.parseMaybeUnary(false, forInit), rightStart, rightPrec, forInit)
	node := p.buildBinary(leftStart, left, right, op, logical || coalesce)
	if logical && p.curTokenIs(token.NullishCoalesce) ||
		coalesce && (p.curTokenIs(token.Or) || p.curTokenIs(token.And)) {
		p.raise(p.curToken.Start, "Logical expressions and coalesce expressions cannot be mixed. Wrap either by parentheses")
	}
	return p.parseExprOp(node, leftStart, minPrec, forInit)
}

func (p *Parser) buildBinary(start marker, left, right ast.Expression, op string, logical bool) ast.Expression {
	if _, ok := right.(*ast.PrivateIdentifier); ok {
		p.raise(right.NodeBase().Start, "Private identifier can only be left side of binary expression")
	}
	if logical {
		node := &ast.LogicalExpression{Left: left, Operator: op, Right: right}
		p.finishNode(node, "LogicalExpression", start)
		return node
	}
	node := &ast.BinaryExpression{Left: left, Operator: op, Right: right}
	p.finishNode(node, "BinaryExpression", start)
	return node
}

// ---------- Unary and postfix operators ----------

func (p *Parser) parseMaybeUnary(sawUnary, forInit bool) ast.Expression {
	start := p.startNode()
	var expr ast.Expression
	unary := false
	switch {
	case p.isContextual("await") && p.canAwait():
		expr = p.parseAwait(forInit)
		unary = true

	case p.curToken.Type.IsPrefix():
		typ := p.curToken.Type
		op := typ.String()
		update := typ == token.Increment || typ == token.Decrement
		p.nextToken()
		arg := p.parseMaybeUnary(true, forInit)
		if update {
			p.checkLValSimple(arg, false)
			node := &ast.UpdateExpression{Operator: op, Prefix: true, Argument: arg}
			p.finishNode(node, "UpdateExpression", start)
			expr = node
			break
		}
		if typ == token.Delete {
			p.checkDelete(arg)
		}
		node := &ast.UnaryExpression{Operator: op, Prefix: true, Argument: arg}
		p.finishNode(node, "UnaryExpression", start)
		expr = node
		unary = true

	case !sawUnary && p.curTokenIs(token.PrivateName):
		if forInit || len(p.privateNameStack) == 0 {
			p.unexpected()
		}
		expr = p.parsePrivateIdent()
		if !p.curTokenIs(token.In) {
			p.unexpected()
		}

	default:
		expr = p.parseExprSubscripts(forInit)
		expr = p.parsePostfix(expr, start)
	}
	if unary && p.curTokenIs(token.Exponent) {
		p.raise(p.curToken.Start, "Unary operator used immediately before exponentiation expression. Parenthesis must be used to disambiguate operator precedence")
	}
	return expr
}

func (p *Parser) checkDelete(arg ast.Expression) {
	if id, ok := arg.(*ast.Identifier); ok && p.strict {
		p.raise(id.Start, "Deleting local variable in strict mode")
	}
	if isPrivateFieldAccess(arg) {
		p.raise(arg.NodeBase().Start, "Private fields can not be deleted")
	}
}

func isPrivateFieldAccess(e ast.Expression) bool {
	switch e := e.(type) {
	case *ast.MemberExpression:
		_, ok := e.Property.(*ast.PrivateIdentifier)
		return ok
	case *ast.ChainExpression:
		return isPrivateFieldAccess(e.Expression)
	}
	return false
}

// parsePostfix applies ++ and -- on the same line as the operand.
func (p *Parser) parsePostfix(expr ast.Expression, start marker) ast.Expression {
	for p.curToken.Type.IsPostfix() && !p.canInsertSemicolon() {
		p.checkLValSimple(expr, false)
		node := &ast.UpdateExpression{Operator: p.curToken.Type.String(), Argument: expr}
		p.nextToken()
		p.finishNode(node, "UpdateExpression", start)
		expr = node
	}
	return expr
}

func (p *Parser) parseAwait(forInit bool) ast.Expression {
	if p.awaitPos == 0 {
		p.awaitPos = p.curToken.Start
	}
	start := p.startNode()
	p.l.SetExprAllowed(true)
	p.nextToken()
	node := &ast.AwaitExpression{Argument: p.parseMaybeUnary(true, forInit)}
	p.finishNode(node, "AwaitExpression", start)
	return node
}

func (p *Parser) parseYield(forInit bool) ast.Expression {
	if p.yieldPos == 0 {
		p.yieldPos = p.curToken.Start
	}
	start := p.startNode()
	p.l.SetExprAllowed(true)
	p.nextToken()
	node := &ast.YieldExpression{}
	if !p.curTokenIs(token.Semicolon) && !p.canInsertSemicolon() &&
		(p.curTokenIs(token.Asterisk) || p.curToken.Type.StartsExpr()) {
		node.Delegate = p.eat(token.Asterisk)
		node.Argument = p.parseMaybeAssign(forInit)
	}
	p.finishNode(node, "YieldExpression", start)
	return node
}

// ---------- Calls, members and chains ----------

func (p *Parser) parseExprSubscripts(forInit bool) ast.Expression {
	start := p.startNode()
	expr := p.parseExprAtom()
	if arrow, ok := expr.(*ast.ArrowFunctionExpression); ok && !arrow.Parenthesized {
		return expr
	}
	return p.parseSubscripts(expr, start, false, forInit)
}

// parseSubscripts reads member accesses, calls and tagged templates. A chain
// that used ?. anywhere is wrapped in a ChainExpression.
func (p *Parser) parseSubscripts(base ast.Expression, start marker, noCalls, forInit bool) ast.Expression {
	b := base.NodeBase()
	maybeAsyncArrow := isIdentNamed(base, "async") && p.prevToken.End == b.End &&
		!p.canInsertSemicolon() && b.End-b.Start == 5 && p.potentialArrowAt == b.Start
	optionalChained := false
	for {
		element, optional := p.parseSubscript(base, start, noCalls, maybeAsyncArrow, optionalChained, forInit)
		if optional {
			optionalChained = true
		}
		_, isArrow := element.(*ast.ArrowFunctionExpression)
		if element == base || isArrow {
			if optionalChained {
				chain := &ast.ChainExpression{Expression: element}
				p.finishNode(chain, "ChainExpression", start)
				return chain
			}
			return element
		}
		base = element
	}
}

func (p *Parser) parseSubscript(base ast.Expression, start marker, noCalls, maybeAsyncArrow, optionalChained, forInit bool) (ast.Expression, bool) {
	optional := p.eat(token.OptionalChain)
	if noCalls && optional {
		p.raise(p.prevToken.Start, "Optional chaining cannot appear in the callee of new expressions")
	}

	computed := p.eat(token.LeftBracket)
	if computed || optional && !p.curTokenIs(token.LeftParen) && !p.curTokenIs(token.BackQuote) || p.eat(token.Dot) {
		node := &ast.MemberExpression{Object: base, Computed: computed, Optional: optional}
		switch {
		case computed:
			node.Property = p.parseExpression(false)
			p.expect(token.RightBracket)
		case p.curTokenIs(token.PrivateName):
			if _, isSuper := base.(*ast.Super); isSuper {
				p.raise(p.curToken.Start, "Unexpected private field")
			}
			node.Property = p.parsePrivateIdent()
		default:
			node.Property = p.parseIdent(true)
		}
		p.finishNode(node, "MemberExpression", start)
		return node, optional
	}

	if !noCalls && p.curTokenIs(token.LeftParen) {
		oldYieldPos, oldAwaitPos, oldAwaitIdentPos := p.yieldPos, p.awaitPos, p.awaitIdentPos
		p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0
		var args []ast.Expression
		if maybeAsyncArrow && !optional {
			ir := p.parseParenIR(p.startNode(), true)
			if !p.canInsertSemicolon() && p.curTokenIs(token.Arrow) {
				params := p.resolveParenAsParams(ir)
				p.checkYieldAwaitInDefaultParams()
				if p.awaitIdentPos > 0 {
					p.raise(p.awaitIdentPos, "Cannot use 'await' as identifier inside an async function")
				}
				p.yieldPos, p.awaitPos, p.awaitIdentPos = oldYieldPos, oldAwaitPos, oldAwaitIdentPos
				p.nextToken() // =>
				return p.parseArrowExpression(start, params, true, forInit), optional
			}
			args = p.resolveParenAsArguments(ir)
		} else {
			p.nextToken()
			args = p.parseExprList(token.RightParen)
		}
		if oldYieldPos != 0 {
			p.yieldPos = oldYieldPos
		}
		if oldAwaitPos != 0 {
			p.awaitPos = oldAwaitPos
		}
		if oldAwaitIdentPos != 0 {
			p.awaitIdentPos = oldAwaitIdentPos
		}
		node := &ast.CallExpression{Callee: base, Arguments: args, Optional: optional}
		p.finishNode(node, "CallExpression", start)
		return node, optional
	}

	if p.curTokenIs(token.BackQuote) {
		if optional || optionalChained {
			p.raise(p.curToken.Start, "Optional chaining cannot appear in the tag of tagged template expressions")
		}
		node := &ast.TaggedTemplateExpression{Tag: base}
		node.Quasi = p.parseTemplate(true)
		p.finishNode(node, "TaggedTemplateExpression", start)
		return node, optional
	}
	return base, optional
}

// parseExprList reads call or new arguments up to close, which it consumes.
func (p *Parser) parseExprList(close token.TokenType) []ast.Expression {
	elts := []ast.Expression{}
	first := true
	for !p.eat(close) {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(close) {
				break
			}
		}
		first = false
		if p.curTokenIs(token.Spread) {
			elts = append(elts, p.parseSpread())
			continue
		}
		elts = append(elts, p.parseMaybeAssign(false))
	}
	return elts
}

func (p *Parser) parseSpread() *ast.SpreadElement {
	start := p.startNode()
	p.nextToken()
	node := &ast.SpreadElement{Argument: p.parseMaybeAssign(false)}
	p.finishNode(node, "SpreadElement", start)
	return node
}

// ---------- Atoms ----------

func (p *Parser) parseExprAtom() ast.Expression {
	return p.parseExprAtomFor(false)
}

// parseExprAtomFor reads a primary expression; forNew is set for the callee
// of a new expression.
func (p *Parser) parseExprAtomFor(forNew bool) ast.Expression {
	canBeArrow := p.potentialArrowAt == p.curToken.Start
	start := p.startNode()
	switch p.curToken.Type {
	case token.Super:
		if !p.allowSuper() {
			p.raise(p.curToken.Start, "'super' keyword outside a method")
		}
		p.nextToken()
		if p.curTokenIs(token.LeftParen) && !p.allowDirectSuper() {
			p.raise(start.pos, "super() call outside constructor of a subclass")
		}
		if !p.curTokenIs(token.Dot) && !p.curTokenIs(token.LeftBracket) && !p.curTokenIs(token.LeftParen) {
			p.unexpected()
		}
		node := &ast.Super{}
		p.finishNode(node, "Super", start)
		return node

	case token.This:
		p.nextToken()
		node := &ast.ThisExpression{}
		p.finishNode(node, "ThisExpression", start)
		return node

	case token.Identifier:
		containsEsc := p.containsEsc
		id := p.parseIdent(false)
		if !containsEsc && id.Name == "async" && !p.canInsertSemicolon() && p.curTokenIs(token.Function) {
			p.l.OverrideContext(lexer.FnExpr)
			p.nextToken()
			return p.parseFunction(start, funcExpression, false, true, false).(ast.Expression)
		}
		if canBeArrow && !p.canInsertSemicolon() {
			if p.eat(token.Arrow) {
				p.checkLValSimple(id, true)
				return p.parseArrowExpression(start, []ast.Pattern{id}, false, false)
			}
			if !containsEsc && id.Name == "async" && p.curTokenIs(token.Identifier) && !p.containsEsc {
				// `for (async of x)` is a loop head, `async of => 1` an arrow
				if _, next := p.peekChar(); p.isContextual("of") && !p.l.HasPrefixAt(next, "=>") {
					return id
				}
				param := p.parseIdent(false)
				if p.canInsertSemicolon() || !p.eat(token.Arrow) {
					p.unexpected()
				}
				p.checkLValSimple(param, true)
				return p.parseArrowExpression(start, []ast.Pattern{param}, true, false)
			}
		}
		return id

	case token.RegExp:
		return p.parseRegExpLiteral()

	case token.Number, token.String, token.BigInt:
		return p.parseLiteral()

	case token.Null, token.True, token.False:
		node := &ast.Literal{Raw: p.curToken.Type.String()}
		switch p.curToken.Type {
		case token.True:
			node.Value = true
		case token.False:
			node.Value = false
		}
		p.nextToken()
		p.finishNode(node, "Literal", start)
		return node

	case token.LeftParen:
		return p.parseParenAndDistinguish(canBeArrow, false)

	case token.LeftBracket, token.LeftBrace:
		return p.resolveAsExpression(p.parseCover())

	case token.Function:
		p.nextToken()
		return p.parseFunction(start, funcExpression, false, false, false).(ast.Expression)

	case token.Class:
		return p.parseClass(start, false, false).(ast.Expression)

	case token.New:
		return p.parseNew()

	case token.BackQuote:
		return p.parseTemplate(false)

	case token.Import:
		return p.parseExprImport(forNew)
	}
	p.unexpected()
	return nil
}

func (p *Parser) parseLiteral() *ast.Literal {
	start := p.startNode()
	tok := p.curToken
	node := &ast.Literal{Raw: tok.Literal}
	switch tok.Type {
	case token.Number:
		node.Value = tok.Num
	case token.String:
		node.Value = tok.Value
	case token.BigInt:
		node.Bigint = tok.Value
	}
	p.nextToken()
	p.finishNode(node, "Literal", start)
	return node
}

func (p *Parser) parseRegExpLiteral() *ast.Literal {
	start := p.startNode()
	tok := p.curToken
	node := &ast.Literal{
		Raw:   tok.Literal,
		Regex: &ast.RegExpValue{Pattern: tok.Value, Flags: tok.Flags},
	}
	if p.opts.CheckRegExp {
		p.checkRegExp(tok)
	}
	p.nextToken()
	p.finishNode(node, "Literal", start)
	return node
}

// checkRegExp compiles a regexp literal with ECMAScript semantics and records
// a warning when the engine rejects it.
func (p *Parser) checkRegExp(tok token.Token) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if strings.ContainsRune(tok.Flags, 'i') {
		opts |= regexp2.IgnoreCase
	}
	if strings.ContainsRune(tok.Flags, 'm') {
		opts |= regexp2.Multiline
	}
	if _, err := regexp2.Compile(tok.Value, opts); err != nil {
		p.warnAt(tok.Start, "Invalid regular expression: /%s/: %s", tok.Value, err)
	}
}

// parseParenAndDistinguish reads a parenthesized expression or, when `=>`
// follows the closing paren, arrow function parameters.
func (p *Parser) parseParenAndDistinguish(canBeArrow, forInit bool) ast.Expression {
	start := p.startNode()
	oldYieldPos, oldAwaitPos := p.yieldPos, p.awaitPos
	p.yieldPos, p.awaitPos = 0, 0
	ir := p.parseParenIR(start, false)
	if canBeArrow && !p.canInsertSemicolon() && p.curTokenIs(token.Arrow) {
		params := p.resolveParenAsParams(ir)
		p.checkYieldAwaitInDefaultParams()
		p.yieldPos, p.awaitPos = oldYieldPos, oldAwaitPos
		p.nextToken() // =>
		return p.parseArrowExpression(start, params, false, forInit)
	}
	if oldYieldPos != 0 {
		p.yieldPos = oldYieldPos
	}
	if oldAwaitPos != 0 {
		p.awaitPos = oldAwaitPos
	}
	return p.resolveParenAsExpression(ir)
}

func (p *Parser) parseNew() ast.Expression {
	start := p.startNode()
	p.nextToken()
	if p.curTokenIs(token.Dot) {
		meta := &ast.Identifier{Name: "new"}
		p.finishNode(meta, "Identifier", start)
		p.nextToken()
		containsEsc := p.containsEsc
		node := &ast.MetaProperty{Meta: meta, Property: p.parseIdent(true)}
		if node.Property.Name != "target" {
			p.raise(node.Property.Start, "The only valid meta property for new is 'new.target'")
		}
		if containsEsc {
			p.raise(start.pos, "'new.target' must not contain escaped characters")
		}
		if !p.allowNewDotTarget() {
			p.raise(start.pos, "'new.target' can only be used in functions and class static block")
		}
		p.finishNode(node, "MetaProperty", start)
		return node
	}
	calleeStart := p.startNode()
	node := &ast.NewExpression{}
	node.Callee = p.parseSubscripts(p.parseExprAtomFor(true), calleeStart, true, false)
	if p.eat(token.LeftParen) {
		node.Arguments = p.parseExprList(token.RightParen)
	} else {
		node.Arguments = []ast.Expression{}
	}
	p.finishNode(node, "NewExpression", start)
	return node
}

// parseExprImport reads import(source) or import.meta.
func (p *Parser) parseExprImport(forNew bool) ast.Expression {
	start := p.startNode()
	p.nextToken()
	switch {
	case p.curTokenIs(token.LeftParen) && !forNew:
		p.nextToken()
		node := &ast.ImportExpression{Source: p.parseMaybeAssign(false)}
		if !p.eat(token.RightParen) {
			errPos := p.curToken.Start
			if p.eat(token.Comma) && p.eat(token.RightParen) {
				p.raise(errPos, "Trailing comma is not allowed in import()")
			}
			p.unexpectedAt(errPos)
		}
		p.finishNode(node, "ImportExpression", start)
		return node

	case p.curTokenIs(token.Dot):
		meta := &ast.Identifier{Name: "import"}
		p.finishNode(meta, "Identifier", start)
		p.nextToken()
		containsEsc := p.containsEsc
		node := &ast.MetaProperty{Meta: meta, Property: p.parseIdent(true)}
		if node.Property.Name != "meta" {
			p.raise(node.Property.Start, "The only valid meta property for import is 'import.meta'")
		}
		if containsEsc {
			p.raise(start.pos, "'import.meta' must not contain escaped characters")
		}
		if !p.inModule {
			p.raise(start.pos, "Cannot use 'import.meta' outside a module")
		}
		p.finishNode(node, "MetaProperty", start)
		return node
	}
	if forNew {
		p.raise(start.pos, "Cannot use new with import(...)")
	}
	p.unexpected()
	return nil
}

// ---------- Templates ----------

func (p *Parser) parseTemplate(tagged bool) *ast.TemplateLiteral {
	start := p.startNode()
	p.nextToken() // `
	node := &ast.TemplateLiteral{Expressions: []ast.Expression{}}
	elem := p.parseTemplateElement(tagged)
	node.Quasis = []*ast.TemplateElement{elem}
	for !elem.Tail {
		if p.curTokenIs(token.EOF) {
			p.raise(p.curToken.Start, "Unterminated template literal")
		}
		p.expect(token.DollarBrace)
		node.Expressions = append(node.Expressions, p.parseExpression(false))
		p.expect(token.RightBrace)
		elem = p.parseTemplateElement(tagged)
		node.Quasis = append(node.Quasis, elem)
	}
	p.nextToken() // closing `
	p.finishNode(node, "TemplateLiteral", start)
	return node
}

func (p *Parser) parseTemplateElement(tagged bool) *ast.TemplateElement {
	start := p.startNode()
	tok := p.curToken
	elem := &ast.TemplateElement{}
	elem.Value.Raw = normalizeLineEndings(tok.Literal)
	switch tok.Type {
	case token.InvalidTemplate:
		if !tagged {
			p.raise(tok.Start, "Bad escape sequence in untagged template literal")
		}
	case token.Template:
		cooked := tok.Value
		elem.Value.Cooked = &cooked
	default:
		p.unexpected()
	}
	p.nextToken()
	elem.Tail = p.curTokenIs(token.BackQuote)
	p.finishNode(elem, "TemplateElement", start)
	return elem
}

func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

// ---------- Identifiers ----------

// parseIdent reads an identifier. When liberal is set keywords are accepted as
// names, as after a dot or in a property key.
func (p *Parser) parseIdent(liberal bool) *ast.Identifier {
	start := p.startNode()
	var name string
	switch {
	case p.curTokenIs(token.Identifier):
		name = p.curToken.Value
	case p.curToken.Type.IsKeyword():
		name = p.curToken.Value
		if !liberal {
			p.raise(p.curToken.Start, "Unexpected keyword '%s'", name)
		}
		// the lexer opened a function context for this word
		if (p.curTokenIs(token.Class) || p.curTokenIs(token.Function)) && !p.prevTokenIs(token.Dot) {
			p.l.PopContext()
		}
	default:
		p.unexpected()
	}
	p.nextToken()
	node := &ast.Identifier{Name: name}
	p.finishNode(node, "Identifier", start)
	if !liberal {
		p.checkUnreserved(node)
		if name == "await" && p.awaitIdentPos == 0 {
			p.awaitIdentPos = node.Start
		}
	}
	return node
}

func (p *Parser) prevTokenIs(t token.TokenType) bool {
	return p.prevToken.Type == t
}

// checkUnreserved rejects identifiers that are reserved in the current
// context.
func (p *Parser) checkUnreserved(id *ast.Identifier) {
	name := id.Name
	if p.inGenerator() && name == "yield" {
		p.raise(id.Start, "Cannot use 'yield' as identifier inside a generator")
	}
	if p.inAsync() && name == "await" {
		p.raise(id.Start, "Cannot use 'await' as identifier inside an async function")
	}
	if p.currentThisScope().inClassFieldInit && name == "arguments" {
		p.raise(id.Start, "Cannot use 'arguments' in class field initializer")
	}
	if p.inClassStaticBlock() && (name == "arguments" || name == "await") {
		p.raise(id.Start, "Cannot use %s in class static initialization block", name)
	}
	if token.LookupIdentifier(name) != token.Identifier {
		p.raise(id.Start, "Unexpected keyword '%s'", name)
	}
	if name == "await" && p.inModule {
		p.raise(id.Start, "Cannot use keyword 'await' outside an async function")
	}
	if token.IsReservedWord(name, p.strict) {
		p.raise(id.Start, "The keyword '%s' is reserved", name)
	}
}

func (p *Parser) parsePrivateIdent() *ast.PrivateIdentifier {
	start := p.startNode()
	node := &ast.PrivateIdentifier{Name: p.curToken.Value}
	p.nextToken()
	p.finishNode(node, "PrivateIdentifier", start)
	if len(p.privateNameStack) == 0 {
		p.raise(node.Start, "Private field '#%s' must be declared in an enclosing class", node.Name)
	}
	top := p.privateNameStack[len(p.privateNameStack)-1]
	top.used = append(top.used, node)
	return node
}
