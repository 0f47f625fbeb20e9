// Package ast defines the ESTree node model produced by the parser. Every node
// serializes to the standard ESTree JSON shape with start, end and loc.
package ast

import (
	"encoding/json"
	"math"

	"github.com/example/esparse/token"
)

type SourceLocation struct {
	Source *string        `json:"source"`
	Start  token.Position `json:"start"`
	End    token.Position `json:"end"`
}

// Base carries the fields common to all nodes.
type Base struct {
	Type  string         `json:"type"`
	Start int            `json:"start"`
	End   int            `json:"end"`
	Loc   SourceLocation `json:"loc"`

	// Parenthesized marks an expression that was wrapped in parentheses.
	Parenthesized bool `json:"-"`
}

func (b *Base) NodeBase() *Base { return b }

// Node is the interface all AST nodes implement.
type Node interface {
	NodeBase() *Base
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Pattern is a binding or assignment target.
type Pattern interface {
	Node
	patternNode()
}

// ModuleDeclaration is an import or export at the top level of a module.
type ModuleDeclaration interface {
	Statement
	moduleDeclarationNode()
}

// ClassElement is a member of a class body.
type ClassElement interface {
	Node
	classElementNode()
}

// Comment is a skipped comment, reported when comment collection is enabled.
type Comment struct {
	Base
	Value string `json:"value"`
}

// Program is the root node of every AST.
type Program struct {
	Base
	Body       []Statement `json:"body"`
	SourceType string      `json:"sourceType"`
}

// ---------- Statements ----------

// ExpressionStatement also represents directives, which carry the raw
// directive text without quotes.
type ExpressionStatement struct {
	Base
	Expression Expression `json:"expression"`
	Directive  string     `json:"directive,omitempty"`
}

type BlockStatement struct {
	Base
	Body []Statement `json:"body"`
}

type EmptyStatement struct{ Base }

type DebuggerStatement struct{ Base }

type WithStatement struct {
	Base
	Object Expression `json:"object"`
	Body   Statement  `json:"body"`
}

type ReturnStatement struct {
	Base
	Argument Expression `json:"argument"` // may be nil
}

type LabeledStatement struct {
	Base
	Label *Identifier `json:"label"`
	Body  Statement   `json:"body"`
}

type BreakStatement struct {
	Base
	Label *Identifier `json:"label"` // may be nil
}

type ContinueStatement struct {
	Base
	Label *Identifier `json:"label"` // may be nil
}

type IfStatement struct {
	Base
	Test       Expression `json:"test"`
	Consequent Statement  `json:"consequent"`
	Alternate  Statement  `json:"alternate"` // may be nil
}

type SwitchStatement struct {
	Base
	Discriminant Expression    `json:"discriminant"`
	Cases        []*SwitchCase `json:"cases"`
}

type SwitchCase struct {
	Base
	Test       Expression  `json:"test"` // nil for default
	Consequent []Statement `json:"consequent"`
}

type ThrowStatement struct {
	Base
	Argument Expression `json:"argument"`
}

type TryStatement struct {
	Base
	Block     *BlockStatement `json:"block"`
	Handler   *CatchClause    `json:"handler"`   // may be nil
	Finalizer *BlockStatement `json:"finalizer"` // may be nil
}

type CatchClause struct {
	Base
	Param Pattern         `json:"param"` // may be nil
	Body  *BlockStatement `json:"body"`
}

type WhileStatement struct {
	Base
	Test Expression `json:"test"`
	Body Statement  `json:"body"`
}

type DoWhileStatement struct {
	Base
	Body Statement  `json:"body"`
	Test Expression `json:"test"`
}

type ForStatement struct {
	Base
	Init   Node       `json:"init"` // VariableDeclaration, Expression or nil
	Test   Expression `json:"test"`
	Update Expression `json:"update"`
	Body   Statement  `json:"body"`
}

type ForInStatement struct {
	Base
	Left  Node       `json:"left"` // VariableDeclaration or Pattern
	Right Expression `json:"right"`
	Body  Statement  `json:"body"`
}

type ForOfStatement struct {
	Base
	Await bool       `json:"await"`
	Left  Node       `json:"left"` // VariableDeclaration or Pattern
	Right Expression `json:"right"`
	Body  Statement  `json:"body"`
}

type VariableDeclaration struct {
	Base
	Declarations []*VariableDeclarator `json:"declarations"`
	Kind         string                `json:"kind"` // "var", "let", "const"
}

type VariableDeclarator struct {
	Base
	ID   Pattern    `json:"id"`
	Init Expression `json:"init"` // may be nil
}

// Function holds what function declarations, expressions and arrows share.
type Function struct {
	ID         *Identifier `json:"id"` // may be nil
	Expression bool        `json:"expression"`
	Generator  bool        `json:"generator"`
	Async      bool        `json:"async"`
	Params     []Pattern   `json:"params"`
	Body       Node        `json:"body"` // BlockStatement, or Expression for concise arrows
}

type FunctionDeclaration struct {
	Base
	Function
}

// Class holds what class declarations and expressions share.
type Class struct {
	ID         *Identifier `json:"id"`         // may be nil
	SuperClass Expression  `json:"superClass"` // may be nil
	Body       *ClassBody  `json:"body"`
}

type ClassDeclaration struct {
	Base
	Class
}

type ClassBody struct {
	Base
	Body []ClassElement `json:"body"`
}

type MethodDefinition struct {
	Base
	Static   bool                `json:"static"`
	Computed bool                `json:"computed"`
	Key      Expression          `json:"key"`
	Kind     string              `json:"kind"` // "constructor", "method", "get", "set"
	Value    *FunctionExpression `json:"value"`
}

type PropertyDefinition struct {
	Base
	Static   bool       `json:"static"`
	Computed bool       `json:"computed"`
	Key      Expression `json:"key"`
	Value    Expression `json:"value"` // may be nil
}

type StaticBlock struct {
	Base
	Body []Statement `json:"body"`
}

// ---------- Modules ----------

type ImportDeclaration struct {
	Base
	Specifiers []Node   `json:"specifiers"` // ImportSpecifier, ImportDefaultSpecifier, ImportNamespaceSpecifier
	Source     *Literal `json:"source"`
}

type ImportSpecifier struct {
	Base
	Imported Node        `json:"imported"` // Identifier or string Literal
	Local    *Identifier `json:"local"`
}

type ImportDefaultSpecifier struct {
	Base
	Local *Identifier `json:"local"`
}

type ImportNamespaceSpecifier struct {
	Base
	Local *Identifier `json:"local"`
}

type ExportNamedDeclaration struct {
	Base
	Declaration Statement          `json:"declaration"` // may be nil
	Specifiers  []*ExportSpecifier `json:"specifiers"`
	Source      *Literal           `json:"source"` // may be nil
}

type ExportSpecifier struct {
	Base
	Local    Node `json:"local"`    // Identifier or string Literal
	Exported Node `json:"exported"` // Identifier or string Literal
}

type ExportDefaultDeclaration struct {
	Base
	Declaration Node `json:"declaration"` // FunctionDeclaration, ClassDeclaration or Expression
}

type ExportAllDeclaration struct {
	Base
	Exported Node     `json:"exported"` // may be nil
	Source   *Literal `json:"source"`
}

// ---------- Expressions ----------

type Identifier struct {
	Base
	Name string `json:"name"`
}

type PrivateIdentifier struct {
	Base
	Name string `json:"name"`
}

type RegExpValue struct {
	Pattern string `json:"pattern"`
	Flags   string `json:"flags"`
}

// Literal is a string, number, boolean, null, regexp or bigint literal.
// Value is a string, float64, bool or nil.
type Literal struct {
	Base
	Value  interface{}  `json:"value"`
	Raw    string       `json:"raw"`
	Regex  *RegExpValue `json:"regex,omitempty"`
	Bigint string       `json:"bigint,omitempty"`
}

// MarshalJSON writes non-finite numbers as null, as JSON cannot hold them.
func (l *Literal) MarshalJSON() ([]byte, error) {
	type plain Literal
	out := *l
	if f, ok := out.Value.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		out.Value = nil
	}
	return json.Marshal((*plain)(&out))
}

type ThisExpression struct{ Base }

type Super struct{ Base }

type ArrayExpression struct {
	Base
	Elements []Expression `json:"elements"` // nil entries are holes
}

// ObjectMember is a Property or a SpreadElement of an object literal.
type ObjectMember interface {
	Node
	objectMemberNode()
}

type ObjectExpression struct {
	Base
	Properties []ObjectMember `json:"properties"`
}

// Property appears in object literals (Value is an Expression) and in object
// patterns (Value is a Pattern).
type Property struct {
	Base
	Method    bool       `json:"method"`
	Shorthand bool       `json:"shorthand"`
	Computed  bool       `json:"computed"`
	Key       Expression `json:"key"`
	Value     Node       `json:"value"`
	Kind      string     `json:"kind"` // "init", "get", "set"
}

// SpreadElement appears in array literals, call arguments and object literals.
type SpreadElement struct {
	Base
	Argument Expression `json:"argument"`
}

type FunctionExpression struct {
	Base
	Function
}

type ArrowFunctionExpression struct {
	Base
	Function
}

type ClassExpression struct {
	Base
	Class
}

type UnaryExpression struct {
	Base
	Operator string     `json:"operator"`
	Prefix   bool       `json:"prefix"`
	Argument Expression `json:"argument"`
}

type UpdateExpression struct {
	Base
	Operator string     `json:"operator"`
	Prefix   bool       `json:"prefix"`
	Argument Expression `json:"argument"`
}

type BinaryExpression struct {
	Base
	Left     Expression `json:"left"` // PrivateIdentifier for `#x in obj`
	Operator string     `json:"operator"`
	Right    Expression `json:"right"`
}

type LogicalExpression struct {
	Base
	Left     Expression `json:"left"`
	Operator string     `json:"operator"`
	Right    Expression `json:"right"`
}

type AssignmentExpression struct {
	Base
	Operator string     `json:"operator"`
	Left     Pattern    `json:"left"`
	Right    Expression `json:"right"`
}

type ConditionalExpression struct {
	Base
	Test       Expression `json:"test"`
	Consequent Expression `json:"consequent"`
	Alternate  Expression `json:"alternate"`
}

type MemberExpression struct {
	Base
	Object   Expression `json:"object"`
	Property Expression `json:"property"`
	Computed bool       `json:"computed"`
	Optional bool       `json:"optional"`
}

type CallExpression struct {
	Base
	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
	Optional  bool         `json:"optional"`
}

type NewExpression struct {
	Base
	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

type ChainExpression struct {
	Base
	Expression Expression `json:"expression"`
}

type SequenceExpression struct {
	Base
	Expressions []Expression `json:"expressions"`
}

type YieldExpression struct {
	Base
	Delegate bool       `json:"delegate"`
	Argument Expression `json:"argument"` // may be nil
}

type AwaitExpression struct {
	Base
	Argument Expression `json:"argument"`
}

type TemplateValue struct {
	Raw    string  `json:"raw"`
	Cooked *string `json:"cooked"` // nil after an invalid escape in a tagged template
}

type TemplateElement struct {
	Base
	Value TemplateValue `json:"value"`
	Tail  bool          `json:"tail"`
}

type TemplateLiteral struct {
	Base
	Quasis      []*TemplateElement `json:"quasis"`
	Expressions []Expression       `json:"expressions"`
}

type TaggedTemplateExpression struct {
	Base
	Tag   Expression       `json:"tag"`
	Quasi *TemplateLiteral `json:"quasi"`
}

type MetaProperty struct {
	Base
	Meta     *Identifier `json:"meta"`
	Property *Identifier `json:"property"`
}

type ImportExpression struct {
	Base
	Source Expression `json:"source"`
}

// ---------- Patterns ----------

type ObjectPattern struct {
	Base
	Properties []Node `json:"properties"` // Property or RestElement
}

type ArrayPattern struct {
	Base
	Elements []Pattern `json:"elements"` // nil entries are holes
}

type RestElement struct {
	Base
	Argument Pattern `json:"argument"`
}

type AssignmentPattern struct {
	Base
	Left  Pattern    `json:"left"`
	Right Expression `json:"right"`
}

func (s *ExpressionStatement) statementNode()      {}
func (s *BlockStatement) statementNode()           {}
func (s *EmptyStatement) statementNode()           {}
func (s *DebuggerStatement) statementNode()        {}
func (s *WithStatement) statementNode()            {}
func (s *ReturnStatement) statementNode()          {}
func (s *LabeledStatement) statementNode()         {}
func (s *BreakStatement) statementNode()           {}
func (s *ContinueStatement) statementNode()        {}
func (s *IfStatement) statementNode()              {}
func (s *SwitchStatement) statementNode()          {}
func (s *ThrowStatement) statementNode()           {}
func (s *TryStatement) statementNode()             {}
func (s *WhileStatement) statementNode()           {}
func (s *DoWhileStatement) statementNode()         {}
func (s *ForStatement) statementNode()             {}
func (s *ForInStatement) statementNode()           {}
func (s *ForOfStatement) statementNode()           {}
func (s *VariableDeclaration) statementNode()      {}
func (s *FunctionDeclaration) statementNode()      {}
func (s *ClassDeclaration) statementNode()         {}
func (s *ImportDeclaration) statementNode()        {}
func (s *ExportNamedDeclaration) statementNode()   {}
func (s *ExportDefaultDeclaration) statementNode() {}
func (s *ExportAllDeclaration) statementNode()     {}

func (s *ImportDeclaration) moduleDeclarationNode()        {}
func (s *ExportNamedDeclaration) moduleDeclarationNode()   {}
func (s *ExportDefaultDeclaration) moduleDeclarationNode() {}
func (s *ExportAllDeclaration) moduleDeclarationNode()     {}

func (e *MethodDefinition) classElementNode()   {}
func (e *PropertyDefinition) classElementNode() {}
func (e *StaticBlock) classElementNode()        {}

func (e *Property) objectMemberNode()      {}
func (e *SpreadElement) objectMemberNode() {}

func (e *Identifier) expressionNode()               {}
func (e *PrivateIdentifier) expressionNode()        {}
func (e *Literal) expressionNode()                  {}
func (e *ThisExpression) expressionNode()           {}
func (e *Super) expressionNode()                    {}
func (e *ArrayExpression) expressionNode()          {}
func (e *ObjectExpression) expressionNode()         {}
func (e *SpreadElement) expressionNode()            {}
func (e *FunctionExpression) expressionNode()       {}
func (e *ArrowFunctionExpression) expressionNode()  {}
func (e *ClassExpression) expressionNode()          {}
func (e *UnaryExpression) expressionNode()          {}
func (e *UpdateExpression) expressionNode()         {}
func (e *BinaryExpression) expressionNode()         {}
func (e *LogicalExpression) expressionNode()        {}
func (e *AssignmentExpression) expressionNode()     {}
func (e *ConditionalExpression) expressionNode()    {}
func (e *MemberExpression) expressionNode()         {}
func (e *CallExpression) expressionNode()           {}
func (e *NewExpression) expressionNode()            {}
func (e *ChainExpression) expressionNode()          {}
func (e *SequenceExpression) expressionNode()       {}
func (e *YieldExpression) expressionNode()          {}
func (e *AwaitExpression) expressionNode()          {}
func (e *TemplateLiteral) expressionNode()          {}
func (e *TaggedTemplateExpression) expressionNode() {}
func (e *MetaProperty) expressionNode()             {}
func (e *ImportExpression) expressionNode()         {}

func (p *Identifier) patternNode()        {}
func (p *MemberExpression) patternNode()  {}
func (p *ObjectPattern) patternNode()     {}
func (p *ArrayPattern) patternNode()      {}
func (p *RestElement) patternNode()       {}
func (p *AssignmentPattern) patternNode() {}
