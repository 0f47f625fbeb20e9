package parser

import (
	"github.com/example/esparse/ast"
	"github.com/example/esparse/token"
)

// parseClass reads a class declaration or expression. The current token is
// `class`. A declaration needs a name unless nullableID is set, as after
// export default.
func (p *Parser) parseClass(start marker, isStatement, nullableID bool) ast.Node {
	p.nextToken()

	// class code is always strict
	oldStrict := p.strict
	p.setStrict(true)

	var class ast.Class
	if p.curTokenIs(token.Identifier) {
		class.ID = p.parseIdent(false)
		if isStatement {
			p.checkLValSimple(class.ID, true)
			p.checkLexicalNames(class.ID, nil)
		}
	} else if isStatement && !nullableID {
		p.unexpected()
	}
	if p.eat(token.Extends) {
		class.SuperClass = p.parseExprSubscripts(false)
	}

	privateNames := p.enterClassBody()
	bodyStart := p.startNode()
	body := &ast.ClassBody{Body: []ast.ClassElement{}}
	hadConstructor := false
	p.expect(token.LeftBrace)
	for !p.curTokenIs(token.RightBrace) {
		element := p.parseClassElement(class.SuperClass != nil)
		if element == nil {
			continue
		}
		body.Body = append(body.Body, element)
		switch el := element.(type) {
		case *ast.MethodDefinition:
			if el.Kind == "constructor" {
				if hadConstructor {
					p.raise(el.Start, "Duplicate constructor in the same class")
				}
				hadConstructor = true
				continue
			}
			p.declarePrivate(privateNames, el.Key, el.Kind, el.Static)
		case *ast.PropertyDefinition:
			p.declarePrivate(privateNames, el.Key, "field", el.Static)
		}
	}
	p.setStrict(oldStrict)
	p.nextToken() // }
	p.finishNode(body, "ClassBody", bodyStart)
	class.Body = body
	p.exitClassBody()

	if isStatement {
		node := &ast.ClassDeclaration{Class: class}
		p.finishNode(node, "ClassDeclaration", start)
		return node
	}
	node := &ast.ClassExpression{Class: class}
	p.finishNode(node, "ClassExpression", start)
	return node
}

func (p *Parser) declarePrivate(s *privateNameScope, key ast.Expression, kind string, static bool) {
	id, ok := key.(*ast.PrivateIdentifier)
	if !ok {
		return
	}
	if !s.declare(id.Name, kind, static) {
		p.raise(id.Start, "Identifier '#%s' has already been declared", id.Name)
	}
}

// parseClassElement reads one member. It returns nil for a stray semicolon.
func (p *Parser) parseClassElement(constructorAllowsSuper bool) ast.ClassElement {
	if p.eat(token.Semicolon) {
		return nil
	}
	start := p.startNode()
	keyName := ""
	isGenerator, isAsync, isStatic := false, false, false
	kind := "method"

	if p.eatContextual("static") {
		if p.curTokenIs(token.LeftBrace) {
			return p.parseStaticBlock(start)
		}
		if p.isClassElementNameStart() || p.curTokenIs(token.Asterisk) {
			isStatic = true
		} else {
			keyName = "static"
		}
	}
	if keyName == "" && p.eatContextual("async") {
		if (p.isClassElementNameStart() || p.curTokenIs(token.Asterisk)) && !p.canInsertSemicolon() {
			isAsync = true
		} else {
			keyName = "async"
		}
	}
	if keyName == "" && p.eat(token.Asterisk) {
		isGenerator = true
	}
	if keyName == "" && !isAsync && !isGenerator {
		word := p.curToken.Value
		if p.eatContextual("get") || p.eatContextual("set") {
			if p.isClassElementNameStart() {
				kind = word
			} else {
				keyName = word
			}
		}
	}

	var key ast.Expression
	computed := false
	if keyName != "" {
		// the modifier word turned out to be the name
		id := &ast.Identifier{Name: keyName}
		p.finishNodeAt(id, "Identifier", marker{p.prevToken.Start, p.prevToken.StartPos}, p.prevToken.End, p.prevToken.EndPos)
		key = id
	} else {
		key, computed = p.parseClassElementName()
	}

	if p.curTokenIs(token.LeftParen) || kind != "method" || isGenerator || isAsync {
		isConstructor := !isStatic && isKeyNamed(key, computed, "constructor")
		if isConstructor && kind != "method" {
			p.raise(key.NodeBase().Start, "Constructor can't have get/set modifier")
		}
		method := &ast.MethodDefinition{Static: isStatic, Computed: computed, Key: key, Kind: kind}
		if isConstructor {
			method.Kind = "constructor"
			if isGenerator {
				p.raise(key.NodeBase().Start, "Constructor can't be a generator")
			}
			if isAsync {
				p.raise(key.NodeBase().Start, "Constructor can't be an async method")
			}
		} else if isStatic && isKeyNamed(key, computed, "prototype") {
			p.raise(key.NodeBase().Start, "Classes may not have a static property named prototype")
		}
		method.Value = p.parseMethod(isGenerator, isAsync, isConstructor && constructorAllowsSuper)
		p.checkAccessorParams(method.Kind, method.Value)
		p.finishNode(method, "MethodDefinition", start)
		return method
	}

	field := &ast.PropertyDefinition{Static: isStatic, Computed: computed, Key: key}
	if isKeyNamed(key, computed, "constructor") {
		p.raise(key.NodeBase().Start, "Classes can't have a field named 'constructor'")
	}
	if isStatic && isKeyNamed(key, computed, "prototype") {
		p.raise(key.NodeBase().Start, "Classes can't have a static field named 'prototype'")
	}
	if p.eat(token.Assign) {
		scope := p.currentThisScope()
		old := scope.inClassFieldInit
		scope.inClassFieldInit = true
		field.Value = p.parseMaybeAssign(false)
		scope.inClassFieldInit = old
	}
	p.semicolon()
	p.finishNode(field, "PropertyDefinition", start)
	return field
}

func (p *Parser) isClassElementNameStart() bool {
	switch p.curToken.Type {
	case token.Identifier, token.PrivateName, token.Number, token.String, token.BigInt, token.LeftBracket:
		return true
	}
	return p.curToken.Type.IsKeyword()
}

func (p *Parser) parseClassElementName() (ast.Expression, bool) {
	if p.curTokenIs(token.PrivateName) {
		if p.curToken.Value == "constructor" {
			p.raise(p.curToken.Start, "Classes can't have an element named '#constructor'")
		}
		return p.parsePrivateIdent(), false
	}
	return p.parsePropertyKey()
}

// parseStaticBlock reads `static { ... }`; the current token is the brace.
func (p *Parser) parseStaticBlock(start marker) *ast.StaticBlock {
	p.nextToken() // {
	oldLabels := p.labels
	p.labels = nil
	p.enterScope(scopeClassStaticBlock | scopeSuper)
	node := &ast.StaticBlock{Body: []ast.Statement{}}
	for !p.curTokenIs(token.RightBrace) {
		node.Body = append(node.Body, p.parseStatement(ctxNone, false))
	}
	p.nextToken() // }
	p.exitScope()
	p.labels = oldLabels
	p.finishNode(node, "StaticBlock", start)
	return node
}

// isKeyNamed reports whether a non-computed key spells name, either as an
// identifier or as a string literal.
func isKeyNamed(key ast.Expression, computed bool, name string) bool {
	if computed {
		return false
	}
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name == name
	case *ast.Literal:
		s, ok := k.Value.(string)
		return ok && s == name
	}
	return false
}
