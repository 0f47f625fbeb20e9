package parser

import (
	"github.com/example/esparse/ast"
)

// scopeFlags describe what a scope frame permits. Each bit is its own
// capability and queries test single bits. normalize adds the implied bits
// when a frame is entered:
//
//	scopeAsync, scopeGenerator, scopeArrow  =>  scopeFunction
//	scopeDirectSuper                        =>  scopeSuper
//
// Nothing implies scopeAsync or scopeGenerator, so a top-level or plain
// function frame never answers true to inAsync or inGenerator.
type scopeFlags uint16

const (
	scopeTop scopeFlags = 1 << iota
	scopeFunction
	scopeAsync
	scopeGenerator
	scopeArrow
	scopeSimpleCatch
	scopeSuper
	scopeDirectSuper
	scopeClassStaticBlock

	// frames that own var declarations and the meaning of this
	scopeVar = scopeTop | scopeFunction | scopeClassStaticBlock
)

func (f scopeFlags) normalize() scopeFlags {
	if f&(scopeAsync|scopeGenerator|scopeArrow) != 0 {
		f |= scopeFunction
	}
	if f&scopeDirectSuper != 0 {
		f |= scopeSuper
	}
	return f
}

func (f scopeFlags) has(bits scopeFlags) bool { return f&bits != 0 }

func functionFlags(async, generator bool) scopeFlags {
	f := scopeFunction
	if async {
		f |= scopeAsync
	}
	if generator {
		f |= scopeGenerator
	}
	return f
}

type scope struct {
	flags scopeFlags

	// set while parsing a class field initializer, where arguments, await
	// and yield are unavailable but super.x is allowed
	inClassFieldInit bool
}

func (p *Parser) enterScope(flags scopeFlags) {
	p.scopeStack = append(p.scopeStack, &scope{flags: flags.normalize()})
}

func (p *Parser) exitScope() {
	p.scopeStack = p.scopeStack[:len(p.scopeStack)-1]
}

func (p *Parser) currentVarScope() *scope {
	for i := len(p.scopeStack) - 1; ; i-- {
		if s := p.scopeStack[i]; s.flags.has(scopeVar) {
			return s
		}
	}
}

// currentThisScope skips arrow functions, which inherit this.
func (p *Parser) currentThisScope() *scope {
	for i := len(p.scopeStack) - 1; ; i-- {
		if s := p.scopeStack[i]; s.flags.has(scopeVar) && !s.flags.has(scopeArrow) {
			return s
		}
	}
}

func (p *Parser) inFunction() bool {
	return p.currentVarScope().flags.has(scopeFunction)
}

func (p *Parser) inGenerator() bool {
	s := p.currentVarScope()
	return s.flags.has(scopeGenerator) && !s.inClassFieldInit
}

func (p *Parser) inAsync() bool {
	s := p.currentVarScope()
	return s.flags.has(scopeAsync) && !s.inClassFieldInit
}

// canAwait reports whether await is an operator here. At the top level of a
// module it is.
func (p *Parser) canAwait() bool {
	for i := len(p.scopeStack) - 1; i >= 0; i-- {
		s := p.scopeStack[i]
		if s.inClassFieldInit || s.flags.has(scopeClassStaticBlock) {
			return false
		}
		if s.flags.has(scopeFunction) {
			return s.flags.has(scopeAsync)
		}
	}
	return p.inModule
}

func (p *Parser) allowSuper() bool {
	s := p.currentThisScope()
	return s.flags.has(scopeSuper) || s.inClassFieldInit
}

func (p *Parser) allowDirectSuper() bool {
	return p.currentThisScope().flags.has(scopeDirectSuper)
}

func (p *Parser) allowNewDotTarget() bool {
	s := p.currentThisScope()
	return s.flags.has(scopeFunction|scopeClassStaticBlock) || s.inClassFieldInit
}

func (p *Parser) inClassStaticBlock() bool {
	return p.currentVarScope().flags.has(scopeClassStaticBlock)
}

// ---------- Labels ----------

type labelKind int

const (
	labelPlain labelKind = iota
	labelLoop
	labelSwitch
)

type label struct {
	name           string // empty for the implicit label of a loop or switch
	kind           labelKind
	statementStart int
}

// ---------- Private names ----------

type privateNameScope struct {
	// declared maps a name to "true" once fully declared, or to the accessor
	// half seen so far: "iget", "iset", "sget" or "sset"
	declared map[string]string
	used     []*ast.PrivateIdentifier
}

func (p *Parser) enterClassBody() *privateNameScope {
	s := &privateNameScope{declared: make(map[string]string)}
	p.privateNameStack = append(p.privateNameStack, s)
	return s
}

// exitClassBody resolves private name references against the class being
// closed; unresolved ones move to the enclosing class or fail.
func (p *Parser) exitClassBody() {
	n := len(p.privateNameStack)
	s := p.privateNameStack[n-1]
	p.privateNameStack = p.privateNameStack[:n-1]

	var parent *privateNameScope
	if n > 1 {
		parent = p.privateNameStack[n-2]
	}
	for _, id := range s.used {
		if _, ok := s.declared[id.Name]; ok {
			continue
		}
		if parent != nil {
			parent.used = append(parent.used, id)
			continue
		}
		p.raise(id.Start, "Private field '#%s' must be declared in an enclosing class", id.Name)
	}
}

// declare records a private member. A getter and a setter with the
// same staticness may share a name; any other repeat is an error.
func (s *privateNameScope) declare(name, kind string, static bool) bool {
	next := "true"
	if kind == "get" || kind == "set" {
		prefix := "i"
		if static {
			prefix = "s"
		}
		next = prefix + kind
	}
	curr, ok := s.declared[name]
	switch {
	case !ok:
		s.declared[name] = next
		return true
	case curr == "iget" && next == "iset", curr == "iset" && next == "iget",
		curr == "sget" && next == "sset", curr == "sset" && next == "sget":
		s.declared[name] = "true"
		return true
	}
	return false
}
