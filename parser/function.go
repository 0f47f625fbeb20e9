package parser

import (
	"github.com/example/esparse/ast"
	"github.com/example/esparse/token"
)

// funcKind says where a function keyword was met.
type funcKind int

const (
	funcExpression funcKind = iota
	funcStatement
	// a statement directly in an if or labeled body, which may not be a
	// generator and does not declare in the enclosing scope
	funcHanging
	// export default function, where the name is optional
	funcNullableID
)

// parseFunction reads a function after the `function` keyword (and any
// `async` before it) has been consumed.
func (p *Parser) parseFunction(start marker, kind funcKind, allowExpressionBody, isAsync, forInit bool) ast.Node {
	fn := ast.Function{Async: isAsync}
	if p.curTokenIs(token.Asterisk) && kind == funcHanging {
		p.unexpected()
	}
	fn.Generator = p.eat(token.Asterisk)

	if kind != funcExpression {
		if kind != funcNullableID || p.curTokenIs(token.Identifier) {
			fn.ID = p.parseIdent(false)
		}
	}

	oldYieldPos, oldAwaitPos, oldAwaitIdentPos := p.yieldPos, p.awaitPos, p.awaitIdentPos
	p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0
	p.enterScope(functionFlags(fn.Async, fn.Generator))

	// an expression's name belongs to its own scope
	if kind == funcExpression && p.curTokenIs(token.Identifier) {
		fn.ID = p.parseIdent(false)
	}
	p.parseFunctionParams(&fn)
	p.parseFunctionBody(&fn, start, allowExpressionBody, false, forInit)
	p.yieldPos, p.awaitPos, p.awaitIdentPos = oldYieldPos, oldAwaitPos, oldAwaitIdentPos

	if kind == funcExpression {
		node := &ast.FunctionExpression{Function: fn}
		p.finishNode(node, "FunctionExpression", start)
		return node
	}
	node := &ast.FunctionDeclaration{Function: fn}
	p.finishNode(node, "FunctionDeclaration", start)
	return node
}

func (p *Parser) parseFunctionParams(fn *ast.Function) {
	p.expect(token.LeftParen)
	fn.Params = p.parseBindingList(token.RightParen, false, true)
	p.checkYieldAwaitInDefaultParams()
}

// parseFunctionBody reads a block body, or a concise arrow body when arrow is
// set and no brace follows. It closes the scope the caller opened.
func (p *Parser) parseFunctionBody(fn *ast.Function, start marker, arrow, method, forInit bool) {
	if arrow && !p.curTokenIs(token.LeftBrace) {
		fn.Body = p.parseMaybeAssign(forInit)
		fn.Expression = true
		p.checkParams(fn.Params, false)
		p.exitScope()
		return
	}

	oldStrict := p.strict
	simple := isSimpleParamList(fn.Params)
	useStrict := false
	if !oldStrict || !simple {
		useStrict = p.strictDirective(p.curToken.End)
		if useStrict && !simple {
			p.raise(start.pos, "Illegal 'use strict' directive in function with non-simple parameter list")
		}
	}
	oldLabels := p.labels
	p.labels = nil
	if useStrict {
		p.setStrict(true)
	}
	p.checkParams(fn.Params, !oldStrict && !useStrict && !arrow && !method && simple)
	if p.strict && fn.ID != nil {
		p.checkFunctionName(fn.ID)
	}

	body := &ast.BlockStatement{}
	bodyStart := p.startNode()
	p.expect(token.LeftBrace)
	body.Body = p.parseStatementList(token.RightBrace, true)
	if useStrict && !oldStrict {
		p.setStrict(false)
	}
	p.nextToken() // }
	p.finishNode(body, "BlockStatement", bodyStart)
	fn.Body = body
	p.labels = oldLabels
	p.exitScope()
}

// checkFunctionName applies strict mode rules to a function name once the
// body is known to be strict.
func (p *Parser) checkFunctionName(id *ast.Identifier) {
	if id.Name == "eval" || id.Name == "arguments" {
		p.raise(id.Start, "Binding %s in strict mode", id.Name)
	}
	if token.IsReservedWord(id.Name, true) {
		p.raise(id.Start, "The keyword '%s' is reserved", id.Name)
	}
}

func (p *Parser) setStrict(strict bool) {
	p.strict = strict
	p.l.SetStrict(strict)
}

// parseArrowExpression reads the body of an arrow function whose parameters
// have already been resolved. The current token follows `=>`.
func (p *Parser) parseArrowExpression(start marker, params []ast.Pattern, isAsync, forInit bool) ast.Expression {
	oldYieldPos, oldAwaitPos, oldAwaitIdentPos := p.yieldPos, p.awaitPos, p.awaitIdentPos
	p.enterScope(functionFlags(isAsync, false) | scopeArrow)
	p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0

	if isAsync {
		for _, param := range params {
			for _, id := range boundNames(param, nil) {
				if id.Name == "await" {
					p.raise(id.Start, "Cannot use 'await' as identifier inside an async function")
				}
			}
		}
	}

	node := &ast.ArrowFunctionExpression{}
	node.Async = isAsync
	node.Params = params
	p.parseFunctionBody(&node.Function, start, true, false, forInit)
	p.yieldPos, p.awaitPos, p.awaitIdentPos = oldYieldPos, oldAwaitPos, oldAwaitIdentPos
	p.finishNode(node, "ArrowFunctionExpression", start)
	return node
}

// parseMethod reads the parameters and body of an object or class method.
// The node starts at the opening paren.
func (p *Parser) parseMethod(isGenerator, isAsync, allowDirectSuper bool) *ast.FunctionExpression {
	start := p.startNode()
	oldYieldPos, oldAwaitPos, oldAwaitIdentPos := p.yieldPos, p.awaitPos, p.awaitIdentPos
	p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0

	flags := functionFlags(isAsync, isGenerator) | scopeSuper
	if allowDirectSuper {
		flags |= scopeDirectSuper
	}
	p.enterScope(flags)

	node := &ast.FunctionExpression{}
	node.Generator = isGenerator
	node.Async = isAsync
	p.parseFunctionParams(&node.Function)
	p.parseFunctionBody(&node.Function, start, false, true, false)
	p.yieldPos, p.awaitPos, p.awaitIdentPos = oldYieldPos, oldAwaitPos, oldAwaitIdentPos
	p.finishNode(node, "FunctionExpression", start)
	return node
}

// checkAccessorParams reports getter and setter arity problems as warnings.
// A rest parameter on a setter is an error.
func (p *Parser) checkAccessorParams(kind string, fn *ast.FunctionExpression) {
	switch kind {
	case "get":
		if len(fn.Params) != 0 {
			p.warnAt(fn.Start, "getter should have no params")
		}
	case "set":
		if len(fn.Params) != 1 {
			p.warnAt(fn.Start, "setter should have exactly one param")
			return
		}
		if _, rest := fn.Params[0].(*ast.RestElement); rest {
			p.raise(fn.Params[0].NodeBase().Start, "Setter cannot use rest params")
		}
	}
}

// checkYieldAwaitInDefaultParams rejects yield and await expressions met
// while reading a parameter list.
func (p *Parser) checkYieldAwaitInDefaultParams() {
	if p.yieldPos != 0 && (p.awaitPos == 0 || p.yieldPos < p.awaitPos) {
		p.raise(p.yieldPos, "Yield expression cannot be a default value")
	}
	if p.awaitPos != 0 {
		p.raise(p.awaitPos, "Await expression cannot be a default value")
	}
}
