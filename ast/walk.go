package ast

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkStatements(v, n.Body)

	// Statements
	case *ExpressionStatement:
		Walk(v, n.Expression)
	case *BlockStatement:
		walkStatements(v, n.Body)
	case *StaticBlock:
		walkStatements(v, n.Body)
	case *EmptyStatement, *DebuggerStatement:
	case *WithStatement:
		Walk(v, n.Object)
		Walk(v, n.Body)
	case *ReturnStatement:
		walkOpt(v, n.Argument)
	case *ThrowStatement:
		Walk(v, n.Argument)
	case *LabeledStatement:
		Walk(v, n.Label)
		Walk(v, n.Body)
	case *BreakStatement:
		if n.Label != nil {
			Walk(v, n.Label)
		}
	case *ContinueStatement:
		if n.Label != nil {
			Walk(v, n.Label)
		}
	case *IfStatement:
		Walk(v, n.Test)
		Walk(v, n.Consequent)
		walkOpt(v, n.Alternate)
	case *SwitchStatement:
		Walk(v, n.Discriminant)
		for _, c := range n.Cases {
			Walk(v, c)
		}
	case *SwitchCase:
		walkOpt(v, n.Test)
		walkStatements(v, n.Consequent)
	case *TryStatement:
		Walk(v, n.Block)
		if n.Handler != nil {
			Walk(v, n.Handler)
		}
		if n.Finalizer != nil {
			Walk(v, n.Finalizer)
		}
	case *CatchClause:
		walkOpt(v, n.Param)
		Walk(v, n.Body)
	case *WhileStatement:
		Walk(v, n.Test)
		Walk(v, n.Body)
	case *DoWhileStatement:
		Walk(v, n.Body)
		Walk(v, n.Test)
	case *ForStatement:
		walkOpt(v, n.Init)
		walkOpt(v, n.Test)
		walkOpt(v, n.Update)
		Walk(v, n.Body)
	case *ForInStatement:
		Walk(v, n.Left)
		Walk(v, n.Right)
		Walk(v, n.Body)
	case *ForOfStatement:
		Walk(v, n.Left)
		Walk(v, n.Right)
		Walk(v, n.Body)
	case *VariableDeclaration:
		for _, d := range n.Declarations {
			Walk(v, d)
		}
	case *VariableDeclarator:
		Walk(v, n.ID)
		walkOpt(v, n.Init)
	case *FunctionDeclaration:
		walkFunction(v, &n.Function)
	case *FunctionExpression:
		walkFunction(v, &n.Function)
	case *ArrowFunctionExpression:
		walkFunction(v, &n.Function)
	case *ClassDeclaration:
		walkClass(v, &n.Class)
	case *ClassExpression:
		walkClass(v, &n.Class)
	case *ClassBody:
		for _, e := range n.Body {
			Walk(v, e)
		}
	case *MethodDefinition:
		Walk(v, n.Key)
		Walk(v, n.Value)
	case *PropertyDefinition:
		Walk(v, n.Key)
		walkOpt(v, n.Value)

	// Modules
	case *ImportDeclaration:
		for _, s := range n.Specifiers {
			Walk(v, s)
		}
		Walk(v, n.Source)
	case *ImportSpecifier:
		Walk(v, n.Imported)
		Walk(v, n.Local)
	case *ImportDefaultSpecifier:
		Walk(v, n.Local)
	case *ImportNamespaceSpecifier:
		Walk(v, n.Local)
	case *ExportNamedDeclaration:
		walkOpt(v, n.Declaration)
		for _, s := range n.Specifiers {
			Walk(v, s)
		}
		if n.Source != nil {
			Walk(v, n.Source)
		}
	case *ExportSpecifier:
		Walk(v, n.Local)
		if n.Exported != n.Local {
			Walk(v, n.Exported)
		}
	case *ExportDefaultDeclaration:
		Walk(v, n.Declaration)
	case *ExportAllDeclaration:
		walkOpt(v, n.Exported)
		Walk(v, n.Source)

	// Expressions
	case *Identifier, *PrivateIdentifier, *Literal, *ThisExpression, *Super, *MetaProperty:
	case *ArrayExpression:
		for _, e := range n.Elements {
			walkOpt(v, e)
		}
	case *ObjectExpression:
		for _, p := range n.Properties {
			Walk(v, p)
		}
	case *Property:
		if !n.Shorthand {
			Walk(v, n.Key)
		}
		Walk(v, n.Value)
	case *SpreadElement:
		Walk(v, n.Argument)
	case *UnaryExpression:
		Walk(v, n.Argument)
	case *UpdateExpression:
		Walk(v, n.Argument)
	case *BinaryExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *LogicalExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *AssignmentExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *ConditionalExpression:
		Walk(v, n.Test)
		Walk(v, n.Consequent)
		Walk(v, n.Alternate)
	case *MemberExpression:
		Walk(v, n.Object)
		Walk(v, n.Property)
	case *CallExpression:
		Walk(v, n.Callee)
		walkExpressions(v, n.Arguments)
	case *NewExpression:
		Walk(v, n.Callee)
		walkExpressions(v, n.Arguments)
	case *ChainExpression:
		Walk(v, n.Expression)
	case *SequenceExpression:
		walkExpressions(v, n.Expressions)
	case *YieldExpression:
		walkOpt(v, n.Argument)
	case *AwaitExpression:
		Walk(v, n.Argument)
	case *TemplateLiteral:
		for i, q := range n.Quasis {
			Walk(v, q)
			if i < len(n.Expressions) {
				Walk(v, n.Expressions[i])
			}
		}
	case *TemplateElement:
	case *TaggedTemplateExpression:
		Walk(v, n.Tag)
		Walk(v, n.Quasi)
	case *ImportExpression:
		Walk(v, n.Source)

	// Patterns
	case *ObjectPattern:
		for _, p := range n.Properties {
			Walk(v, p)
		}
	case *ArrayPattern:
		for _, e := range n.Elements {
			walkOpt(v, e)
		}
	case *RestElement:
		Walk(v, n.Argument)
	case *AssignmentPattern:
		Walk(v, n.Left)
		Walk(v, n.Right)
	}

	v.Visit(nil)
}

func walkOpt(v Visitor, n Node) {
	if n != nil {
		Walk(v, n)
	}
}

func walkStatements(v Visitor, list []Statement) {
	for _, s := range list {
		Walk(v, s)
	}
}

func walkExpressions(v Visitor, list []Expression) {
	for _, e := range list {
		walkOpt(v, e)
	}
}

func walkFunction(v Visitor, f *Function) {
	if f.ID != nil {
		Walk(v, f.ID)
	}
	for _, p := range f.Params {
		Walk(v, p)
	}
	Walk(v, f.Body)
}

func walkClass(v Visitor, c *Class) {
	if c.ID != nil {
		Walk(v, c.ID)
	}
	walkOpt(v, c.SuperClass)
	Walk(v, c.Body)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node, followed by a
// call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
