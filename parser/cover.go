package parser

import (
	"github.com/example/esparse/ast"
	"github.com/example/esparse/lexer"
	"github.com/example/esparse/token"
)

// Bracketed, braced and parenthesized constructs are read once into a cover
// IR. Whether the IR is an expression or a pattern is only decided by the
// token that follows it, and each IR is resolved exactly once.

type cover interface {
	span() *irSpan
}

type irSpan struct {
	start  marker
	end    int
	endLoc token.Position
}

func (s *irSpan) span() *irSpan { return s }

func (p *Parser) closeSpan(s *irSpan) {
	s.end, s.endLoc = p.prevToken.End, p.prevToken.EndPos
}

// irValue is one element of a cover. Either expr holds an already resolved
// expression, or ir holds a nested cover, optionally followed by a default
// value written as `= rhs`.
type irValue struct {
	irSpan
	expr ast.Expression
	ir   cover
	rhs  ast.Expression
}

type irElement struct {
	irValue
	spread      bool
	spreadStart marker
}

type arrayIR struct {
	irSpan
	elements []*irElement // nil for holes

	// offset of a comma after a spread element, or -1; such a spread can not
	// be a rest element
	commaAfterRest int
}

type objectIR struct {
	irSpan
	props []*irProperty

	commaAfterRest int

	// offset of a method or accessor, which only an object literal may hold
	exprOnlyAt int

	// offset of `{a = 1}`, which only an object pattern may hold
	patternOnlyAt int
}

type irProperty struct {
	prop   *ast.Property // key and flags; Value is set on resolution
	method *ast.FunctionExpression
	spread *irElement
	value  irValue
}

type parenIR struct {
	irSpan
	elements      []*irElement
	innerStart    marker
	innerEnd      int
	innerEndLoc   token.Position
	trailingComma bool
	spreadStart   int // offset of the first spread, or -1
}

// ---------- Building ----------

func (p *Parser) parseCover() cover {
	if p.curTokenIs(token.LeftBracket) {
		return p.parseArrayIR()
	}
	return p.parseObjectIR()
}

// parseIrValue reads one element of a cover closed by close. A nested [ or {
// stays unresolved when the element ends right after it, possibly with a
// default value.
func (p *Parser) parseIrValue(close token.TokenType) irValue {
	v := irValue{}
	v.start = p.startNode()
	if !p.curTokenIs(token.LeftBracket) && !p.curTokenIs(token.LeftBrace) {
		v.expr = p.parseMaybeAssign(false)
		p.closeSpan(&v.irSpan)
		return v
	}
	ir := p.parseCover()
	switch {
	case p.curTokenIs(token.Assign):
		p.nextToken()
		v.ir = ir
		v.rhs = p.parseMaybeAssign(false)
	case p.curTokenIs(token.Comma) || p.curTokenIs(close):
		v.ir = ir
	default:
		expr := p.resolveAsExpression(ir)
		v.expr = p.parseExprStartsWithAtom(expr, v.start, false)
	}
	p.closeSpan(&v.irSpan)
	return v
}

func (p *Parser) parseArrayIR() *arrayIR {
	ir := &arrayIR{commaAfterRest: -1}
	ir.start = p.startNode()
	p.nextToken() // [
	for !p.eat(token.RightBracket) {
		if p.eat(token.Comma) {
			ir.elements = append(ir.elements, nil)
			continue
		}
		el := &irElement{}
		if p.curTokenIs(token.Spread) {
			el.spread = true
			el.spreadStart = p.startNode()
			p.nextToken()
		}
		el.irValue = p.parseIrValue(token.RightBracket)
		ir.elements = append(ir.elements, el)
		if !p.curTokenIs(token.RightBracket) {
			if el.spread && p.curTokenIs(token.Comma) && ir.commaAfterRest < 0 {
				ir.commaAfterRest = p.curToken.Start
			}
			p.expect(token.Comma)
		}
	}
	p.closeSpan(&ir.irSpan)
	return ir
}

func (p *Parser) parseObjectIR() *objectIR {
	ir := &objectIR{commaAfterRest: -1, exprOnlyAt: -1, patternOnlyAt: -1}
	ir.start = p.startNode()
	p.l.OverrideContext(lexer.BraceExpr)
	p.nextToken() // {
	first := true
	for !p.eat(token.RightBrace) {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(token.RightBrace) {
				break
			}
		}
		first = false
		ir.props = append(ir.props, p.parsePropertyIR(ir))
	}
	p.closeSpan(&ir.irSpan)
	return ir
}

func (p *Parser) parsePropertyIR(ir *objectIR) *irProperty {
	start := p.startNode()
	if p.curTokenIs(token.Spread) {
		el := &irElement{spread: true, spreadStart: start}
		p.nextToken()
		el.irValue = p.parseIrValue(token.RightBrace)
		if p.curTokenIs(token.Comma) && ir.commaAfterRest < 0 {
			ir.commaAfterRest = p.curToken.Start
		}
		return &irProperty{spread: el}
	}

	prop := &ast.Property{Kind: "init"}
	isGenerator := p.eat(token.Asterisk)
	containsEsc := p.containsEsc
	p.parsePropertyName(prop)
	isAsync := false
	if !containsEsc && !isGenerator && p.isAsyncProp(prop) {
		isAsync = true
		isGenerator = p.eat(token.Asterisk)
		p.parsePropertyName(prop)
	}
	out := &irProperty{prop: prop}

	switch {
	case (isGenerator || isAsync) && p.curTokenIs(token.Colon):
		p.unexpected()

	case p.eat(token.Colon):
		out.value = p.parseIrValue(token.RightBrace)

	case p.curTokenIs(token.LeftParen):
		prop.Method = true
		out.method = p.parseMethod(isGenerator, isAsync, false)
		if ir.exprOnlyAt < 0 {
			ir.exprOnlyAt = start.pos
		}

	case !containsEsc && !prop.Computed && isIdentNamed(prop.Key, "get", "set") &&
		!p.curTokenIs(token.Comma) && !p.curTokenIs(token.RightBrace) && !p.curTokenIs(token.Assign):
		if isGenerator || isAsync {
			p.unexpected()
		}
		prop.Kind = prop.Key.(*ast.Identifier).Name
		p.parsePropertyName(prop)
		out.method = p.parseMethod(false, false, false)
		p.checkAccessorParams(prop.Kind, out.method)
		if ir.exprOnlyAt < 0 {
			ir.exprOnlyAt = start.pos
		}

	case !prop.Computed && isIdent(prop.Key):
		if isGenerator || isAsync {
			p.unexpected()
		}
		key := prop.Key.(*ast.Identifier)
		if token.LookupIdentifier(key.Name) != token.Identifier {
			p.raise(key.Start, "Unexpected keyword '%s'", key.Name)
		}
		p.checkUnreserved(key)
		if key.Name == "await" && p.awaitIdentPos == 0 {
			p.awaitIdentPos = key.Start
		}
		prop.Shorthand = true
		value := *key
		out.value.start = start
		if p.curTokenIs(token.Assign) {
			if ir.patternOnlyAt < 0 {
				ir.patternOnlyAt = p.curToken.Start
			}
			p.nextToken()
			assign := &ast.AssignmentExpression{Operator: "=", Left: &value}
			assign.Right = p.parseMaybeAssign(false)
			p.finishNode(assign, "AssignmentExpression", start)
			out.value.expr = assign
		} else {
			out.value.expr = &value
		}
		p.closeSpan(&out.value.irSpan)

	default:
		p.unexpected()
	}
	p.finishNode(prop, "Property", start)
	return out
}

// isAsyncProp reports whether a property named async is the async modifier of
// a method that follows on the same line.
func (p *Parser) isAsyncProp(prop *ast.Property) bool {
	if prop.Computed || !isIdentNamed(prop.Key, "async") || p.hasPrecedingLineBreak() {
		return false
	}
	switch p.curToken.Type {
	case token.Identifier, token.Number, token.BigInt, token.String, token.LeftBracket, token.Asterisk:
		return true
	}
	return p.curToken.Type.IsKeyword()
}

// parsePropertyName reads an object or class member key.
func (p *Parser) parsePropertyName(prop *ast.Property) {
	prop.Key, prop.Computed = p.parsePropertyKey()
}

func (p *Parser) parsePropertyKey() (key ast.Expression, computed bool) {
	if p.eat(token.LeftBracket) {
		key = p.parseMaybeAssign(false)
		p.expect(token.RightBracket)
		return key, true
	}
	switch p.curToken.Type {
	case token.Number, token.String, token.BigInt:
		return p.parseExprAtom(), false
	}
	return p.parseIdent(true), false
}

// parseParenIR reads a parenthesized list: a grouped expression, arrow
// parameters, or the arguments of a possible async arrow call.
func (p *Parser) parseParenIR(start marker, call bool) *parenIR {
	ir := &parenIR{spreadStart: -1}
	ir.start = start
	p.expect(token.LeftParen)
	ir.innerStart = p.startNode()
	first := true
	for !p.curTokenIs(token.RightParen) {
		if !first {
			p.expect(token.Comma)
			if p.curTokenIs(token.RightParen) {
				ir.trailingComma = true
				break
			}
		}
		first = false
		el := &irElement{}
		if p.curTokenIs(token.Spread) {
			el.spread = true
			el.spreadStart = p.startNode()
			if ir.spreadStart < 0 {
				ir.spreadStart = p.curToken.Start
			}
			p.nextToken()
		}
		el.irValue = p.parseIrValue(token.RightParen)
		ir.elements = append(ir.elements, el)
		if el.spread && !call {
			if p.curTokenIs(token.Comma) {
				p.raise(p.curToken.Start, "Comma is not permitted after the rest element")
			}
			if el.rhs != nil {
				p.raise(el.start.pos, "Rest parameter may not have a default initializer")
			}
			break
		}
	}
	ir.innerEnd, ir.innerEndLoc = p.prevToken.End, p.prevToken.EndPos
	p.expect(token.RightParen)
	p.closeSpan(&ir.irSpan)
	return ir
}

// ---------- Resolution ----------

func (p *Parser) resolveAsExpression(ir cover) ast.Expression {
	p.log.Trace().Int("pos", ir.span().start.pos).Msg("cover resolved as expression")
	switch ir := ir.(type) {
	case *arrayIR:
		node := &ast.ArrayExpression{Elements: make([]ast.Expression, 0, len(ir.elements))}
		for _, el := range ir.elements {
			if el == nil {
				node.Elements = append(node.Elements, nil)
				continue
			}
			node.Elements = append(node.Elements, p.resolveElementAsExpr(el))
		}
		p.finishNodeAt(node, "ArrayExpression", ir.start, ir.end, ir.endLoc)
		return node

	case *objectIR:
		if ir.patternOnlyAt >= 0 {
			p.raise(ir.patternOnlyAt, "Invalid shorthand property initializer")
		}
		node := &ast.ObjectExpression{Properties: make([]ast.ObjectMember, 0, len(ir.props))}
		for _, prop := range ir.props {
			switch {
			case prop.spread != nil:
				node.Properties = append(node.Properties, p.resolveElementAsExpr(prop.spread).(*ast.SpreadElement))
			case prop.method != nil:
				prop.prop.Value = prop.method
				node.Properties = append(node.Properties, prop.prop)
			default:
				prop.prop.Value = p.resolveValueAsExpr(prop.value)
				node.Properties = append(node.Properties, prop.prop)
			}
		}
		p.finishNodeAt(node, "ObjectExpression", ir.start, ir.end, ir.endLoc)
		return node
	}
	panic("unreachable")
}

func (p *Parser) resolveElementAsExpr(el *irElement) ast.Expression {
	value := p.resolveValueAsExpr(el.irValue)
	if !el.spread {
		return value
	}
	spread := &ast.SpreadElement{Argument: value}
	p.finishNodeAt(spread, "SpreadElement", el.spreadStart, el.end, el.endLoc)
	return spread
}

func (p *Parser) resolveValueAsExpr(v irValue) ast.Expression {
	switch {
	case v.expr != nil:
		return v.expr
	case v.rhs != nil:
		assign := &ast.AssignmentExpression{
			Operator: "=",
			Left:     p.resolveAsPattern(v.ir, false),
			Right:    v.rhs,
		}
		p.finishNodeAt(assign, "AssignmentExpression", v.start, v.end, v.endLoc)
		return assign
	}
	return p.resolveAsExpression(v.ir)
}

// resolveAsPattern turns a cover into an assignment pattern, or a binding
// pattern when binding is set.
func (p *Parser) resolveAsPattern(ir cover, binding bool) ast.Pattern {
	p.log.Trace().Int("pos", ir.span().start.pos).Bool("binding", binding).Msg("cover resolved as pattern")
	switch ir := ir.(type) {
	case *arrayIR:
		if ir.commaAfterRest >= 0 {
			p.raise(ir.commaAfterRest, "Comma is not permitted after the rest element")
		}
		node := &ast.ArrayPattern{Elements: make([]ast.Pattern, 0, len(ir.elements))}
		for _, el := range ir.elements {
			if el == nil {
				node.Elements = append(node.Elements, nil)
				continue
			}
			node.Elements = append(node.Elements, p.resolveElementAsPattern(el, binding))
		}
		p.finishNodeAt(node, "ArrayPattern", ir.start, ir.end, ir.endLoc)
		return node

	case *objectIR:
		if ir.exprOnlyAt >= 0 {
			p.raise(ir.exprOnlyAt, "Invalid destructuring assignment target")
		}
		if ir.commaAfterRest >= 0 {
			p.raise(ir.commaAfterRest, "Comma is not permitted after the rest element")
		}
		node := &ast.ObjectPattern{Properties: make([]ast.Node, 0, len(ir.props))}
		for _, prop := range ir.props {
			if prop.spread != nil {
				node.Properties = append(node.Properties, p.resolveObjectRest(prop.spread, binding))
				continue
			}
			prop.prop.Value = p.resolveValueAsPattern(prop.value, binding)
			node.Properties = append(node.Properties, prop.prop)
		}
		p.finishNodeAt(node, "ObjectPattern", ir.start, ir.end, ir.endLoc)
		return node
	}
	panic("unreachable")
}

func (p *Parser) resolveElementAsPattern(el *irElement, binding bool) ast.Pattern {
	if !el.spread {
		return p.resolveValueAsPattern(el.irValue, binding)
	}
	if el.rhs != nil {
		p.raise(el.start.pos, "Rest elements cannot have a default value")
	}
	var arg ast.Pattern
	if el.ir != nil {
		arg = p.resolveAsPattern(el.ir, binding)
	} else {
		if a, ok := el.expr.(*ast.AssignmentExpression); ok && !a.Parenthesized {
			p.raise(el.start.pos, "Rest elements cannot have a default value")
		}
		arg = p.toAssignable(el.expr, binding)
	}
	rest := &ast.RestElement{Argument: arg}
	p.finishNodeAt(rest, "RestElement", el.spreadStart, el.end, el.endLoc)
	return rest
}

func (p *Parser) resolveObjectRest(el *irElement, binding bool) *ast.RestElement {
	var arg ast.Pattern
	switch e := el.expr.(type) {
	case *ast.Identifier:
		arg = p.checkLValSimple(e, binding)
	case *ast.MemberExpression:
		if !binding {
			arg = p.checkLValSimple(e, binding)
		}
	}
	if arg == nil {
		if binding {
			p.raise(el.start.pos, "`...` must be followed by an identifier in declaration contexts")
		}
		p.raise(el.start.pos, "`...` must be followed by an assignable reference in assignment contexts")
	}
	rest := &ast.RestElement{Argument: arg}
	p.finishNodeAt(rest, "RestElement", el.spreadStart, el.end, el.endLoc)
	return rest
}

func (p *Parser) resolveValueAsPattern(v irValue, binding bool) ast.Pattern {
	if v.ir == nil {
		return p.toAssignable(v.expr, binding)
	}
	pat := p.resolveAsPattern(v.ir, binding)
	if v.rhs == nil {
		return pat
	}
	assign := &ast.AssignmentPattern{Left: pat, Right: v.rhs}
	p.finishNodeAt(assign, "AssignmentPattern", v.start, v.end, v.endLoc)
	return assign
}

// resolveParenAsExpression builds a grouped expression or a sequence.
func (p *Parser) resolveParenAsExpression(ir *parenIR) ast.Expression {
	if ir.spreadStart >= 0 {
		p.unexpectedAt(ir.spreadStart)
	}
	if len(ir.elements) == 0 || ir.trailingComma {
		p.unexpectedAt(ir.end - 1)
	}
	exprs := make([]ast.Expression, 0, len(ir.elements))
	for _, el := range ir.elements {
		exprs = append(exprs, p.resolveValueAsExpr(el.irValue))
	}
	var expr ast.Expression
	if len(exprs) == 1 {
		expr = exprs[0]
	} else {
		seq := &ast.SequenceExpression{Expressions: exprs}
		p.finishNodeAt(seq, "SequenceExpression", ir.innerStart, ir.innerEnd, ir.innerEndLoc)
		expr = seq
	}
	expr.NodeBase().Parenthesized = true
	return expr
}

// resolveParenAsParams turns the list into arrow function parameters.
func (p *Parser) resolveParenAsParams(ir *parenIR) []ast.Pattern {
	params := make([]ast.Pattern, 0, len(ir.elements))
	for i, el := range ir.elements {
		if el.spread {
			if i != len(ir.elements)-1 || ir.trailingComma {
				p.raise(el.end, "Comma is not permitted after the rest element")
			}
			if el.rhs != nil {
				p.raise(el.start.pos, "Rest parameter may not have a default initializer")
			}
		}
		params = append(params, p.resolveElementAsPattern(el, true))
	}
	return params
}

// resolveParenAsArguments turns the list into call arguments.
func (p *Parser) resolveParenAsArguments(ir *parenIR) []ast.Expression {
	args := make([]ast.Expression, 0, len(ir.elements))
	for _, el := range ir.elements {
		args = append(args, p.resolveElementAsExpr(el))
	}
	return args
}

func isIdent(n ast.Node) bool {
	_, ok := n.(*ast.Identifier)
	return ok
}

func isIdentNamed(n ast.Node, names ...string) bool {
	id, ok := n.(*ast.Identifier)
	if !ok {
		return false
	}
	for _, name := range names {
		if id.Name == name {
			return true
		}
	}
	return false
}
