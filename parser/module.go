package parser

import (
	"github.com/example/esparse/ast"
	"github.com/example/esparse/token"
)

// ---------- Imports ----------

func (p *Parser) parseImport(start marker) ast.Statement {
	p.nextToken()
	node := &ast.ImportDeclaration{Specifiers: []ast.Node{}}
	if p.curTokenIs(token.String) {
		node.Source = p.parseLiteral()
	} else {
		node.Specifiers = p.parseImportSpecifiers()
		p.expectContextual("from")
		if !p.curTokenIs(token.String) {
			p.unexpected()
		}
		node.Source = p.parseLiteral()
	}
	p.semicolon()
	p.finishNode(node, "ImportDeclaration", start)
	return node
}

func (p *Parser) parseImportSpecifiers() []ast.Node {
	var nodes []ast.Node
	if p.curTokenIs(token.Identifier) {
		start := p.startNode()
		node := &ast.ImportDefaultSpecifier{Local: p.parseImportLocal()}
		p.finishNode(node, "ImportDefaultSpecifier", start)
		nodes = append(nodes, node)
		if !p.eat(token.Comma) {
			return nodes
		}
	}
	if p.curTokenIs(token.Asterisk) {
		start := p.startNode()
		p.nextToken()
		p.expectContextual("as")
		node := &ast.ImportNamespaceSpecifier{Local: p.parseImportLocal()}
		p.finishNode(node, "ImportNamespaceSpecifier", start)
		return append(nodes, node)
	}

	p.expect(token.LeftBrace)
	first := true
	for !p.eat(token.RightBrace) {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(token.RightBrace) {
				break
			}
		}
		first = false
		nodes = append(nodes, p.parseImportSpecifier())
	}
	return nodes
}

func (p *Parser) parseImportSpecifier() *ast.ImportSpecifier {
	start := p.startNode()
	node := &ast.ImportSpecifier{Imported: p.parseModuleExportName()}
	if p.eatContextual("as") {
		node.Local = p.parseImportLocal()
	} else {
		id, ok := node.Imported.(*ast.Identifier)
		if !ok {
			p.unexpected()
		}
		p.checkUnreserved(id)
		local := *id
		node.Local = &local
		p.checkImportLocal(node.Local)
	}
	p.finishNode(node, "ImportSpecifier", start)
	return node
}

func (p *Parser) parseImportLocal() *ast.Identifier {
	id := p.parseIdent(false)
	p.checkImportLocal(id)
	return id
}

// checkImportLocal applies the lexical binding rules to an imported name.
// Module code is strict, so eval and arguments are rejected too.
func (p *Parser) checkImportLocal(id *ast.Identifier) {
	p.checkLValSimple(id, true)
	p.checkLexicalNames(id, p.importedNames)
}

// parseModuleExportName reads an identifier name or a string literal used as
// an import or export name.
func (p *Parser) parseModuleExportName() ast.Node {
	if p.curTokenIs(token.String) {
		lit := p.parseLiteral()
		if hasLoneSurrogate(p.l.Slice(lit.Start, lit.End)) {
			p.raise(lit.Start, "An export name cannot include a lone surrogate.")
		}
		return lit
	}
	return p.parseIdent(true)
}

// hasLoneSurrogate reports whether a raw string literal spells a \u escape of
// a surrogate half that is not part of a pair.
func hasLoneSurrogate(raw string) bool {
	rs := []rune(raw)
	for i := 0; i+5 < len(rs); i++ {
		if rs[i] != '\\' {
			continue
		}
		if rs[i+1] != 'u' {
			i++
			continue
		}
		hi, ok := hex4(rs[i+2 : i+6])
		if !ok {
			continue
		}
		switch {
		case hi >= 0xD800 && hi <= 0xDBFF:
			if i+11 < len(rs) && rs[i+6] == '\\' && rs[i+7] == 'u' {
				if lo, ok := hex4(rs[i+8 : i+12]); ok && lo >= 0xDC00 && lo <= 0xDFFF {
					i += 11
					continue
				}
			}
			return true
		case hi >= 0xDC00 && hi <= 0xDFFF:
			return true
		}
	}
	return false
}

func hex4(rs []rune) (int, bool) {
	v := 0
	for _, r := range rs {
		var d int
		switch {
		case r >= '0' && r <= '9':
			d = int(r - '0')
		case r >= 'a' && r <= 'f':
			d = int(r-'a') + 10
		case r >= 'A' && r <= 'F':
			d = int(r-'A') + 10
		default:
			return 0, false
		}
		v = v<<4 | d
	}
	return v, true
}

// ---------- Exports ----------

func (p *Parser) parseExport(start marker) ast.Statement {
	p.nextToken()

	if p.eat(token.Asterisk) {
		node := &ast.ExportAllDeclaration{}
		if p.eatContextual("as") {
			node.Exported = p.parseModuleExportName()
			p.checkExport(node.Exported)
		}
		p.expectContextual("from")
		if !p.curTokenIs(token.String) {
			p.unexpected()
		}
		node.Source = p.parseLiteral()
		p.semicolon()
		p.finishNode(node, "ExportAllDeclaration", start)
		return node
	}

	if p.curTokenIs(token.Default) {
		p.checkExportName("default", p.curToken.Start)
		p.nextToken()
		node := &ast.ExportDefaultDeclaration{Declaration: p.parseExportDefault()}
		p.finishNode(node, "ExportDefaultDeclaration", start)
		return node
	}

	node := &ast.ExportNamedDeclaration{Specifiers: []*ast.ExportSpecifier{}}
	if p.shouldParseExportStatement() {
		node.Declaration = p.parseStatement(ctxNone, false)
		switch decl := node.Declaration.(type) {
		case *ast.VariableDeclaration:
			for _, d := range decl.Declarations {
				for _, id := range boundNames(d.ID, nil) {
					p.checkExportName(id.Name, id.Start)
				}
			}
		case *ast.FunctionDeclaration:
			p.checkExportName(decl.ID.Name, decl.ID.Start)
		case *ast.ClassDeclaration:
			p.checkExportName(decl.ID.Name, decl.ID.Start)
		}
		p.finishNode(node, "ExportNamedDeclaration", start)
		return node
	}

	p.expect(token.LeftBrace)
	first := true
	for !p.eat(token.RightBrace) {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(token.RightBrace) {
				break
			}
		}
		first = false
		node.Specifiers = append(node.Specifiers, p.parseExportSpecifier())
	}
	if p.eatContextual("from") {
		if !p.curTokenIs(token.String) {
			p.unexpected()
		}
		node.Source = p.parseLiteral()
	} else {
		for _, spec := range node.Specifiers {
			switch local := spec.Local.(type) {
			case *ast.Identifier:
				if token.LookupIdentifier(local.Name) != token.Identifier {
					p.raise(local.Start, "Unexpected keyword '%s'", local.Name)
				}
				p.checkUnreserved(local)
			case *ast.Literal:
				p.raise(local.Start, "A string literal cannot be used as an exported binding without `from`.")
			}
		}
	}
	p.semicolon()
	p.finishNode(node, "ExportNamedDeclaration", start)
	return node
}

func (p *Parser) parseExportSpecifier() *ast.ExportSpecifier {
	start := p.startNode()
	node := &ast.ExportSpecifier{Local: p.parseModuleExportName()}
	node.Exported = node.Local
	if p.eatContextual("as") {
		node.Exported = p.parseModuleExportName()
	}
	p.checkExport(node.Exported)
	p.finishNode(node, "ExportSpecifier", start)
	return node
}

func (p *Parser) parseExportDefault() ast.Node {
	start := p.startNode()
	isAsync := p.isAsyncFunction()
	switch {
	case p.curTokenIs(token.Function) || isAsync:
		p.nextToken()
		if isAsync {
			p.nextToken()
		}
		return p.parseFunction(start, funcNullableID, false, isAsync, false)
	case p.curTokenIs(token.Class):
		return p.parseClass(start, true, true)
	}
	expr := p.parseMaybeAssign(false)
	p.semicolon()
	return expr
}

func (p *Parser) shouldParseExportStatement() bool {
	switch p.curToken.Type {
	case token.Var, token.Const, token.Class, token.Function:
		return true
	}
	return p.isLet(ctxNone) || p.isAsyncFunction()
}

// checkExport records an exported name given as an identifier or string.
func (p *Parser) checkExport(name ast.Node) {
	switch n := name.(type) {
	case *ast.Identifier:
		p.checkExportName(n.Name, n.Start)
	case *ast.Literal:
		p.checkExportName(n.Value.(string), n.Start)
	}
}

func (p *Parser) checkExportName(name string, pos int) {
	if p.exportedNames[name] {
		p.raise(pos, "Duplicate export '%s'", name)
	}
	p.exportedNames[name] = true
}
