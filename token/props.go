package token

type props struct {
	label         string
	beforeExpr    bool // an expression may follow the token
	startsExpr    bool // the token may begin an expression
	isLoop        bool
	isAssign      bool
	prefix        bool
	postfix       bool
	binop         int // 0 when the token is not a binary operator
	updateContext bool
}

var table [numTokenTypes]props

func def(t TokenType, label string, p props) {
	p.label = label
	table[t] = p
}

func init() {
	def(Illegal, "ILLEGAL", props{})
	def(EOF, "EOF", props{})
	def(Identifier, "name", props{startsExpr: true, updateContext: true})
	def(PrivateName, "privateId", props{startsExpr: true})
	def(Number, "num", props{startsExpr: true})
	def(BigInt, "bigint", props{startsExpr: true})
	def(String, "string", props{startsExpr: true})
	def(RegExp, "regexp", props{startsExpr: true})
	def(Template, "template", props{})
	def(InvalidTemplate, "invalidTemplate", props{})

	def(Plus, "+", props{beforeExpr: true, startsExpr: true, prefix: true, binop: 9})
	def(Minus, "-", props{beforeExpr: true, startsExpr: true, prefix: true, binop: 9})
	def(Asterisk, "*", props{beforeExpr: true, binop: 10, updateContext: true})
	def(Slash, "/", props{beforeExpr: true, binop: 10})
	def(Percent, "%", props{beforeExpr: true, binop: 10})
	def(Exponent, "**", props{beforeExpr: true, binop: 11})

	for t, label := range map[TokenType]string{
		Assign: "=", PlusAssign: "+=", MinusAssign: "-=", AsteriskAssign: "*=",
		SlashAssign: "/=", PercentAssign: "%=", ExponentAssign: "**=",
		AmpersandAssign: "&=", PipeAssign: "|=", CaretAssign: "^=",
		LeftShiftAssign: "<<=", RightShiftAssign: ">>=", UnsignedRightShiftAssign: ">>>=",
		NullishAssign: "??=", AndAssign: "&&=", OrAssign: "||=",
	} {
		def(t, label, props{beforeExpr: true, isAssign: true})
	}

	def(Equal, "==", props{beforeExpr: true, binop: 6})
	def(NotEqual, "!=", props{beforeExpr: true, binop: 6})
	def(StrictEqual, "===", props{beforeExpr: true, binop: 6})
	def(StrictNotEqual, "!==", props{beforeExpr: true, binop: 6})
	def(LessThan, "<", props{beforeExpr: true, binop: 7})
	def(GreaterThan, ">", props{beforeExpr: true, binop: 7})
	def(LessThanOrEqual, "<=", props{beforeExpr: true, binop: 7})
	def(GreaterThanOrEqual, ">=", props{beforeExpr: true, binop: 7})
	def(Or, "||", props{beforeExpr: true, binop: 1})
	def(And, "&&", props{beforeExpr: true, binop: 2})
	def(NullishCoalesce, "??", props{beforeExpr: true, binop: 1})
	def(BitwiseOr, "|", props{beforeExpr: true, binop: 3})
	def(BitwiseXor, "^", props{beforeExpr: true, binop: 4})
	def(BitwiseAnd, "&", props{beforeExpr: true, binop: 5})
	def(LeftShift, "<<", props{beforeExpr: true, binop: 8})
	def(RightShift, ">>", props{beforeExpr: true, binop: 8})
	def(UnsignedRightShift, ">>>", props{beforeExpr: true, binop: 8})
	def(Not, "!", props{beforeExpr: true, startsExpr: true, prefix: true})
	def(BitwiseNot, "~", props{beforeExpr: true, startsExpr: true, prefix: true})
	def(Increment, "++", props{startsExpr: true, prefix: true, postfix: true, updateContext: true})
	def(Decrement, "--", props{startsExpr: true, prefix: true, postfix: true, updateContext: true})

	def(LeftParen, "(", props{beforeExpr: true, startsExpr: true, updateContext: true})
	def(RightParen, ")", props{updateContext: true})
	def(LeftBrace, "{", props{beforeExpr: true, startsExpr: true, updateContext: true})
	def(RightBrace, "}", props{updateContext: true})
	def(LeftBracket, "[", props{beforeExpr: true, startsExpr: true})
	def(RightBracket, "]", props{})
	def(Semicolon, ";", props{beforeExpr: true})
	def(Colon, ":", props{beforeExpr: true, updateContext: true})
	def(Comma, ",", props{beforeExpr: true})
	def(Dot, ".", props{})
	def(Spread, "...", props{beforeExpr: true})
	def(Arrow, "=>", props{beforeExpr: true})
	def(QuestionMark, "?", props{beforeExpr: true})
	def(OptionalChain, "?.", props{})
	def(BackQuote, "`", props{startsExpr: true, updateContext: true})
	def(DollarBrace, "${", props{beforeExpr: true, startsExpr: true, updateContext: true})

	def(Var, "var", props{})
	def(Const, "const", props{})
	def(Function, "function", props{startsExpr: true, updateContext: true})
	def(Return, "return", props{beforeExpr: true})
	def(If, "if", props{})
	def(Else, "else", props{beforeExpr: true})
	def(While, "while", props{isLoop: true})
	def(For, "for", props{isLoop: true})
	def(Do, "do", props{isLoop: true, beforeExpr: true})
	def(Break, "break", props{})
	def(Continue, "continue", props{})
	def(Switch, "switch", props{})
	def(Case, "case", props{beforeExpr: true})
	def(Default, "default", props{beforeExpr: true})
	def(Throw, "throw", props{beforeExpr: true})
	def(Try, "try", props{})
	def(Catch, "catch", props{})
	def(Finally, "finally", props{})
	def(New, "new", props{beforeExpr: true, startsExpr: true})
	def(Delete, "delete", props{beforeExpr: true, startsExpr: true, prefix: true})
	def(Typeof, "typeof", props{beforeExpr: true, startsExpr: true, prefix: true})
	def(Void, "void", props{beforeExpr: true, startsExpr: true, prefix: true})
	def(In, "in", props{beforeExpr: true, binop: 7})
	def(Instanceof, "instanceof", props{beforeExpr: true, binop: 7})
	def(This, "this", props{startsExpr: true})
	def(Class, "class", props{startsExpr: true, updateContext: true})
	def(Extends, "extends", props{beforeExpr: true})
	def(Super, "super", props{startsExpr: true})
	def(Import, "import", props{startsExpr: true})
	def(Export, "export", props{})
	def(True, "true", props{startsExpr: true})
	def(False, "false", props{startsExpr: true})
	def(Null, "null", props{startsExpr: true})
	def(Debugger, "debugger", props{})
	def(With, "with", props{})
}

func (t TokenType) String() string {
	if t < 0 || t >= numTokenTypes {
		return "ILLEGAL"
	}
	return table[t].label
}

func (t TokenType) BeforeExpr() bool { return table[t].beforeExpr }
func (t TokenType) StartsExpr() bool { return table[t].startsExpr }
func (t TokenType) IsLoop() bool     { return table[t].isLoop }
func (t TokenType) IsAssign() bool   { return table[t].isAssign }
func (t TokenType) IsPrefix() bool   { return table[t].prefix }
func (t TokenType) IsPostfix() bool  { return table[t].postfix }

// Precedence returns the binary operator precedence, 0 for non-operators.
func (t TokenType) Precedence() int { return table[t].binop }

// UpdatesContext reports whether the token kind has its own token-context rule.
func (t TokenType) UpdatesContext() bool { return table[t].updateContext }

// IsKeyword reports whether t is a reserved word token.
func (t TokenType) IsKeyword() bool { return t >= Var && t < numTokenTypes }
