package parser

import (
	"github.com/example/esparse/ast"
	"github.com/example/esparse/token"
)

// toAssignable converts an already parsed expression into an assignment
// target, or a binding target when binding is set.
func (p *Parser) toAssignable(expr ast.Expression, binding bool) ast.Pattern {
	switch e := expr.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.ChainExpression:
		return p.checkLValSimple(expr, binding)

	case *ast.AssignmentExpression:
		if e.Parenthesized {
			p.raise(e.Start, "Parenthesized pattern")
		}
		if e.Operator != "=" {
			p.raise(e.Left.NodeBase().End, "Only '=' operator can be used for specifying default value.")
		}
		if binding {
			p.checkBindingPattern(e.Left)
		} else if id, ok := e.Left.(*ast.Identifier); ok {
			p.checkLValSimple(id, false)
		}
		pat := &ast.AssignmentPattern{Left: e.Left, Right: e.Right}
		copySpan(pat, e)
		pat.Type = "AssignmentPattern"
		return pat
	}
	p.raise(expr.NodeBase().Start, "Invalid destructuring assignment target")
	return nil
}

// checkLValSimple validates an identifier or member expression used as a
// target.
func (p *Parser) checkLValSimple(expr ast.Expression, binding bool) ast.Pattern {
	switch e := expr.(type) {
	case *ast.Identifier:
		if binding && e.Parenthesized {
			p.raise(e.Start, "Parenthesized pattern")
		}
		if p.strict && (e.Name == "eval" || e.Name == "arguments") {
			if binding {
				p.raise(e.Start, "Binding %s in strict mode", e.Name)
			}
			p.raise(e.Start, "Assigning to %s in strict mode", e.Name)
		}
		return e
	case *ast.MemberExpression:
		if binding {
			p.raise(e.Start, "Binding member expression")
		}
		return e
	case *ast.ChainExpression:
		p.raise(e.Start, "Optional chaining cannot appear in left-hand side")
	}
	if binding {
		p.raise(expr.NodeBase().Start, "Binding rvalue")
	}
	p.raise(expr.NodeBase().Start, "Assigning to rvalue")
	return nil
}

// checkBindingPattern re-checks a pattern built in assignment position that
// turned out to be a binding, such as an arrow parameter default.
func (p *Parser) checkBindingPattern(pat ast.Pattern) {
	switch n := pat.(type) {
	case *ast.Identifier, *ast.MemberExpression:
		p.checkLValSimple(n.(ast.Expression), true)
	case *ast.ArrayPattern:
		for _, el := range n.Elements {
			if el != nil {
				p.checkBindingPattern(el)
			}
		}
	case *ast.ObjectPattern:
		for _, prop := range n.Properties {
			switch prop := prop.(type) {
			case *ast.Property:
				p.checkBindingPattern(prop.Value.(ast.Pattern))
			case *ast.RestElement:
				p.checkBindingPattern(prop)
			}
		}
	case *ast.RestElement:
		p.checkBindingPattern(n.Argument)
	case *ast.AssignmentPattern:
		p.checkBindingPattern(n.Left)
	}
}

// boundNames lists the identifiers a binding pattern declares.
func boundNames(pat ast.Pattern, out []*ast.Identifier) []*ast.Identifier {
	switch n := pat.(type) {
	case *ast.Identifier:
		out = append(out, n)
	case *ast.ArrayPattern:
		for _, el := range n.Elements {
			if el != nil {
				out = boundNames(el, out)
			}
		}
	case *ast.ObjectPattern:
		for _, prop := range n.Properties {
			switch prop := prop.(type) {
			case *ast.Property:
				out = boundNames(prop.Value.(ast.Pattern), out)
			case *ast.RestElement:
				out = boundNames(prop, out)
			}
		}
	case *ast.RestElement:
		out = boundNames(n.Argument, out)
	case *ast.AssignmentPattern:
		out = boundNames(n.Left, out)
	}
	return out
}

// checkLexicalNames rejects let as a lexically bound name and duplicate
// names within one let/const/class declaration list.
func (p *Parser) checkLexicalNames(pat ast.Pattern, seen map[string]bool) {
	for _, id := range boundNames(pat, nil) {
		if id.Name == "let" {
			p.raise(id.Start, "let is disallowed as a lexically bound name")
		}
		if seen != nil {
			if seen[id.Name] {
				p.raise(id.Start, "Identifier '%s' has already been declared", id.Name)
			}
			seen[id.Name] = true
		}
	}
}

// ---------- Binding patterns ----------

// parseBindingAtom reads an identifier, array pattern or object pattern in a
// declaration or parameter list.
func (p *Parser) parseBindingAtom() ast.Pattern {
	switch p.curToken.Type {
	case token.LeftBracket:
		start := p.startNode()
		p.nextToken()
		node := &ast.ArrayPattern{Elements: p.parseBindingList(token.RightBracket, true, true)}
		p.finishNode(node, "ArrayPattern", start)
		return node
	case token.LeftBrace:
		return p.parseObjectBinding()
	}
	id := p.parseIdent(false)
	p.checkLValSimple(id, true)
	return id
}

// parseBindingList reads binding elements up to close, which it consumes.
func (p *Parser) parseBindingList(close token.TokenType, allowEmpty, allowTrailingComma bool) []ast.Pattern {
	elts := []ast.Pattern{}
	first := true
	for !p.eat(close) {
		if first {
			first = false
		} else {
			p.expect(token.Comma)
		}
		switch {
		case allowEmpty && p.curTokenIs(token.Comma):
			elts = append(elts, nil)
		case allowTrailingComma && p.afterTrailingComma(close):
			return elts
		case p.curTokenIs(token.Spread):
			elts = append(elts, p.parseRestBinding())
			if p.curTokenIs(token.Comma) {
				p.raise(p.curToken.Start, "Comma is not permitted after the rest element")
			}
			p.expect(close)
			return elts
		default:
			elts = append(elts, p.parseMaybeDefault(p.startNode(), nil))
		}
	}
	return elts
}

func (p *Parser) parseRestBinding() *ast.RestElement {
	start := p.startNode()
	p.nextToken()
	node := &ast.RestElement{Argument: p.parseBindingAtom()}
	if p.curTokenIs(token.Assign) {
		p.raise(p.curToken.Start, "Rest elements cannot have a default value")
	}
	p.finishNode(node, "RestElement", start)
	return node
}

// parseMaybeDefault reads a binding atom, unless left is given, and an
// optional `= default`.
func (p *Parser) parseMaybeDefault(start marker, left ast.Pattern) ast.Pattern {
	if left == nil {
		left = p.parseBindingAtom()
	}
	if !p.eat(token.Assign) {
		return left
	}
	node := &ast.AssignmentPattern{Left: left, Right: p.parseMaybeAssign(false)}
	p.finishNode(node, "AssignmentPattern", start)
	return node
}

func (p *Parser) parseObjectBinding() *ast.ObjectPattern {
	start := p.startNode()
	p.nextToken()
	node := &ast.ObjectPattern{Properties: []ast.Node{}}
	first := true
	for !p.eat(token.RightBrace) {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(token.RightBrace) {
				break
			}
		}
		first = false

		propStart := p.startNode()
		if p.curTokenIs(token.Spread) {
			p.nextToken()
			id := p.parseIdent(false)
			p.checkLValSimple(id, true)
			rest := &ast.RestElement{Argument: id}
			p.finishNode(rest, "RestElement", propStart)
			if p.curTokenIs(token.Comma) {
				p.raise(p.curToken.Start, "Comma is not permitted after the rest element")
			}
			node.Properties = append(node.Properties, rest)
			continue
		}

		prop := &ast.Property{Kind: "init"}
		p.parsePropertyName(prop)
		switch {
		case p.eat(token.Colon):
			prop.Value = p.parseMaybeDefault(p.startNode(), nil)
		case !prop.Computed && isIdent(prop.Key):
			key := prop.Key.(*ast.Identifier)
			if token.LookupIdentifier(key.Name) != token.Identifier {
				p.raise(key.Start, "Unexpected keyword '%s'", key.Name)
			}
			p.checkUnreserved(key)
			p.checkLValSimple(key, true)
			if key.Name == "await" && p.awaitIdentPos == 0 {
				p.awaitIdentPos = key.Start
			}
			value := *key
			prop.Shorthand = true
			prop.Value = p.parseMaybeDefault(propStart, &value)
		default:
			p.unexpected()
		}
		p.finishNode(prop, "Property", propStart)
		node.Properties = append(node.Properties, prop)
	}
	p.finishNode(node, "ObjectPattern", start)
	return node
}

// checkParams validates a parameter list once the strictness of the body is
// known.
func (p *Parser) checkParams(params []ast.Pattern, allowDuplicates bool) {
	seen := make(map[string]bool)
	for _, param := range params {
		for _, id := range boundNames(param, nil) {
			if p.strict && (id.Name == "eval" || id.Name == "arguments") {
				p.raise(id.Start, "Binding %s in strict mode", id.Name)
			}
			if p.strict && token.IsReservedWord(id.Name, true) {
				p.raise(id.Start, "The keyword '%s' is reserved", id.Name)
			}
			if !allowDuplicates && seen[id.Name] {
				p.raise(id.Start, "Argument name clash")
			}
			seen[id.Name] = true
		}
	}
}

func isSimpleParamList(params []ast.Pattern) bool {
	for _, param := range params {
		if !isIdent(param) {
			return false
		}
	}
	return true
}
